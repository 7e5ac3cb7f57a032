package common

import "fmt"

type TokenType string

const (
	TokenTypeAccess  TokenType = "ACCESS"
	TokenTypeRefresh TokenType = "REFRESH"
)

func (t TokenType) String() string {
	return string(t)
}

func ParseTokenType(s string) (TokenType, error) {
	switch TokenType(s) {
	case TokenTypeAccess, TokenTypeRefresh:
		return TokenType(s), nil
	default:
		return "", fmt.Errorf("unknown token type %q", s)
	}
}
