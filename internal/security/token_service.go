package security

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"plate-server/internal/common"
	"plate-server/internal/vo"

	"github.com/labstack/echo/v4"
)

var (
	ErrWrongTokenType = fmt.Errorf("%w: unexpected token type", ErrTokenInvalid)
	ErrTokenRevoked   = fmt.Errorf("%w: token revoked", ErrTokenInvalid)
)

type TokenService struct {
	provider    *Provider
	revocations RevocationStore
}

func NewTokenService(provider *Provider, revocations RevocationStore) *TokenService {
	return &TokenService{provider: provider, revocations: revocations}
}

func (s *TokenService) GenerateTokenPair(p Principal) (vo.TokenPair, error) {
	access, err := s.provider.GenerateAccessToken(p)
	if err != nil {
		return vo.TokenPair{}, err
	}
	refresh, err := s.provider.GenerateRefreshToken(p)
	if err != nil {
		return vo.TokenPair{}, err
	}
	return vo.NewTokenPair(access, refresh), nil
}

func (s *TokenService) ValidateAccessToken(ctx context.Context, token string) (*Claims, error) {
	return s.validate(ctx, token, common.TokenTypeAccess)
}

func (s *TokenService) ValidateRefreshToken(ctx context.Context, token string) (*Claims, error) {
	return s.validate(ctx, token, common.TokenTypeRefresh)
}

func (s *TokenService) validate(ctx context.Context, token string, want common.TokenType) (*Claims, error) {
	claims, err := s.provider.Parse(token)
	if err != nil {
		return nil, err
	}
	if claims.Type != want {
		return nil, ErrWrongTokenType
	}

	revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

// Revoke invalidates token for the rest of its lifetime.
// Tokens that are already expired or unparseable are ignored.
func (s *TokenService) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := s.provider.Parse(token)
	if err != nil {
		return nil
	}
	return s.RevokeClaims(ctx, claims)
}

func (s *TokenService) RevokeClaims(ctx context.Context, claims *Claims) error {
	if claims.ExpiresAt == nil {
		return nil
	}
	ttl := claims.ExpiresAt.Time.Sub(s.provider.now())
	return s.revocations.Revoke(ctx, claims.ID, ttl)
}

func (s *TokenService) SetTokenCookies(c echo.Context, pair vo.TokenPair) {
	props := s.provider.Properties()
	c.SetCookie(s.cookie(common.AccessTokenCookie, pair.AccessToken(), props.AccessTokenTTL))
	c.SetCookie(s.cookie(common.RefreshTokenCookie, pair.RefreshToken(), props.RefreshTokenTTL))
}

func (s *TokenService) ClearTokenCookies(c echo.Context) {
	c.SetCookie(s.cookie(common.AccessTokenCookie, "", 0))
	c.SetCookie(s.cookie(common.RefreshTokenCookie, "", 0))
}

func (s *TokenService) cookie(name, value string, ttl time.Duration) *http.Cookie {
	// sub-second lifetimes round up so a live cookie is never sent as a deletion
	maxAge := -1
	if ttl > 0 {
		maxAge = int((ttl + time.Second - 1) / time.Second)
	}
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.provider.Properties().CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}
