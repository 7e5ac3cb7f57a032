package vo

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 8
	// MaxPasswordBytes is the longest input bcrypt accepts.
	MaxPasswordBytes = 72
)

var (
	ErrPasswordRequired = errors.New("password is required")
	ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters", minPasswordLength)
	ErrPasswordTooLong  = fmt.Errorf("password must be at most %d bytes", MaxPasswordBytes)
)

// PlainPassword is a validated, not yet hashed password. Its String form never reveals the value.
type PlainPassword struct {
	value string
}

func NewPlainPassword(value string) (PlainPassword, error) {
	if strings.TrimSpace(value) == "" {
		return PlainPassword{}, ErrPasswordRequired
	}
	if utf8.RuneCountInString(value) < minPasswordLength {
		return PlainPassword{}, ErrPasswordTooShort
	}
	if len(value) > MaxPasswordBytes {
		return PlainPassword{}, ErrPasswordTooLong
	}
	return PlainPassword{value: value}, nil
}

// Hash derives the bcrypt form of the password.
func (p PlainPassword) Hash() (HashedPassword, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(p.value), bcrypt.DefaultCost)
	if err != nil {
		return HashedPassword{}, fmt.Errorf("hash password: %w", err)
	}
	return HashedPassword{value: string(hashed)}, nil
}

func (p PlainPassword) String() string {
	return "[PROTECTED]"
}

func (p PlainPassword) GoString() string {
	return p.String()
}

// HashedPassword holds a bcrypt hash.
type HashedPassword struct {
	value string
}

// HashedPasswordFromHash wraps a hash loaded from storage.
func HashedPasswordFromHash(hash string) HashedPassword {
	return HashedPassword{value: hash}
}

func (h HashedPassword) Value() string {
	return h.value
}

// Matches reports whether raw hashes to the stored value.
func (h HashedPassword) Matches(raw string) bool {
	if h.value == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(h.value), []byte(raw)) == nil
}

func (h HashedPassword) String() string {
	return "[HASHED]"
}

func (h HashedPassword) GoString() string {
	return h.String()
}
