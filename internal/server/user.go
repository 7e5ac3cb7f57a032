package server

import (
	"plate-server/internal/security"

	"github.com/labstack/echo/v4"
)

type userServer struct {
	auth   AuthFacade
	tokens TokenCookies
}

func NewUserServer(auth AuthFacade, tokens TokenCookies) *userServer {
	return &userServer{auth: auth, tokens: tokens}
}

// MyTenants godoc
// @Summary List my tenants
// @Tags users
// @Produce json
// @Security bearerAuth
// @Success 200 {object} common.Response[[]dto.TenantResponse]
// @Failure 401 {object} common.Response[any]
// @Router /v1/users/me/tenants [get]
func (s *userServer) MyTenants(c echo.Context) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	tenants, err := s.auth.Tenants(c.Request().Context(), principal)
	if err != nil {
		return err
	}
	return respond(c, tenants, "tenants retrieved")
}

// DeleteMe godoc
// @Summary Delete my account
// @Description Soft deletes the current user and ends the session.
// @Tags users
// @Produce json
// @Security bearerAuth
// @Success 200 {object} common.Response[bool]
// @Failure 401 {object} common.Response[any]
// @Failure 404 {object} common.Response[any]
// @Router /v1/users/me [delete]
func (s *userServer) DeleteMe(c echo.Context) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	err = s.auth.DeleteMe(c.Request().Context(), principal, security.AccessToken(c), security.RefreshTokenCookie(c))
	if err != nil {
		return err
	}

	s.tokens.ClearTokenCookies(c)
	return respond(c, true, "account deleted")
}
