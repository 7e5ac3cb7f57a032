package security

import (
	"errors"
	"fmt"
	"time"

	"plate-server/internal/common"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims is the payload of both access and refresh tokens.
type Claims struct {
	Email    string           `json:"email,omitempty"`
	Name     string           `json:"name,omitempty"`
	Role     string           `json:"role,omitempty"`
	TenantID string           `json:"tenantId,omitempty"`
	Type     common.TokenType `json:"type"`
	jwt.RegisteredClaims
}

// Principal rebuilds the user the token was issued to.
func (c *Claims) Principal() Principal {
	return NewPrincipal(c.Subject, c.Email, c.Name, c.Role, c.TenantID)
}

// Provider signs and parses HS256 tokens.
type Provider struct {
	props Properties
	key   []byte
	now   func() time.Time
}

func NewProvider(props Properties) (*Provider, error) {
	if err := props.Validate(); err != nil {
		return nil, err
	}
	props = props.withDefaults()
	return &Provider{
		props: props,
		key:   []byte(props.Secret),
		now:   time.Now,
	}, nil
}

func (p *Provider) Properties() Properties {
	return p.props
}

func (p *Provider) GenerateAccessToken(principal Principal) (string, error) {
	return p.generate(principal, common.TokenTypeAccess, p.props.AccessTokenTTL)
}

func (p *Provider) GenerateRefreshToken(principal Principal) (string, error) {
	return p.generate(principal, common.TokenTypeRefresh, p.props.RefreshTokenTTL)
}

func (p *Provider) generate(principal Principal, typ common.TokenType, ttl time.Duration) (string, error) {
	now := p.now()
	claims := Claims{
		Email:    principal.Email,
		Name:     principal.Name,
		Role:     principal.Role,
		TenantID: principal.TenantID,
		Type:     typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   principal.ID,
			Issuer:    p.props.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.key)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", typ, err)
	}
	return signed, nil
}

// Parse verifies the signature, issuer and expiry of token.
// It returns ErrTokenExpired or ErrTokenInvalid on failure.
func (p *Provider) Parse(token string) (*Claims, error) {
	if token == "" {
		return nil, ErrTokenInvalid
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (interface{}, error) { return p.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(p.props.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	if _, err := common.ParseTokenType(string(claims.Type)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if claims.Subject == "" || claims.ID == "" {
		return nil, fmt.Errorf("%w: missing subject or id", ErrTokenInvalid)
	}
	return claims, nil
}
