package security

import (
	"errors"
	"fmt"
	"time"

	"plate-server/internal/common"
)

// MinSecretLength is the smallest HS256 key accepted, in bytes.
const MinSecretLength = 32

var ErrWeakSecret = errors.New("jwt secret is too short")

type Properties struct {
	Secret          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	Issuer          string
	CookieSecure    bool
}

// withDefaults fills the zero fields with the package defaults.
func (p Properties) withDefaults() Properties {
	if p.AccessTokenTTL <= 0 {
		p.AccessTokenTTL = common.DefaultAccessTokenExpiration
	}
	if p.RefreshTokenTTL <= 0 {
		p.RefreshTokenTTL = common.DefaultRefreshTokenExpiration
	}
	if p.Issuer == "" {
		p.Issuer = common.DefaultIssuer
	}
	return p
}

func (p Properties) Validate() error {
	if p.Secret == "" {
		return fmt.Errorf("%w: secret is empty", ErrWeakSecret)
	}
	if len(p.Secret) < MinSecretLength {
		return fmt.Errorf("%w: need at least %d bytes, got %d", ErrWeakSecret, MinSecretLength, len(p.Secret))
	}
	return nil
}
