package security

import (
	"errors"
	"strings"

	"plate-server/internal/common"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
)

const principalContextKey = "security.principal"

// Authenticate rejects requests without a valid, unrevoked access token.
// The token is read from the access token cookie first, then the Authorization header.
func Authenticate(tokens *TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			token := AccessToken(c)
			if token == "" {
				return common.NewError(common.AuthTokenMissing)
			}

			claims, err := tokens.ValidateAccessToken(req.Context(), token)
			if err != nil {
				log.WithError(err).WithFields(log.Fields{
					"path":   req.URL.Path,
					"method": req.Method,
				}).Warn("Authentication failed")

				switch {
				case errors.Is(err, ErrTokenExpired):
					return common.NewError(common.AuthTokenExpired)
				case errors.Is(err, ErrTokenInvalid):
					return common.NewError(common.AuthTokenInvalid)
				default:
					return common.WrapError(common.CommonInternalError, err)
				}
			}

			principal := claims.Principal()
			c.Set(principalContextKey, principal)
			c.SetRequest(req.WithContext(WithPrincipal(req.Context(), principal)))

			log.WithField("user_id", principal.ID).Debug("Authentication successful")
			return next(c)
		}
	}
}

// CurrentPrincipal returns the principal stored by Authenticate.
func CurrentPrincipal(c echo.Context) (Principal, bool) {
	p, ok := c.Get(principalContextKey).(Principal)
	return p, ok
}

func AccessToken(c echo.Context) string {
	if cookie, err := c.Cookie(common.AccessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	header := c.Request().Header.Get(common.AuthorizationHeader)
	if strings.HasPrefix(header, common.BearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(header, common.BearerPrefix))
	}
	return ""
}

func RefreshTokenCookie(c echo.Context) string {
	if cookie, err := c.Cookie(common.RefreshTokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}
