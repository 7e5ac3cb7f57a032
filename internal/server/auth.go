package server

import (
	"plate-server/internal/common"
	"plate-server/internal/dto"
	"plate-server/internal/security"
	"plate-server/internal/vo"

	"github.com/labstack/echo/v4"
)

type authServer struct {
	auth   AuthFacade
	tokens TokenCookies
}

func NewAuthServer(auth AuthFacade, tokens TokenCookies) *authServer {
	return &authServer{auth: auth, tokens: tokens}
}

// Login godoc
// @Summary Log in
// @Description Authenticates with email and password. Access and refresh tokens are also set as cookies.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} common.Response[dto.TokenResponse]
// @Failure 400 {object} common.Response[map[string]string]
// @Failure 401 {object} common.Response[any]
// @Failure 429 {object} common.Response[any]
// @Router /v1/auth/login [post]
func (s *authServer) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	resp, err := s.auth.Login(c.Request().Context(), req)
	if err != nil {
		return err
	}

	s.tokens.SetTokenCookies(c, vo.NewTokenPair(resp.AccessToken, resp.RefreshToken))
	return respond(c, resp, "login succeeded")
}

// SignUp godoc
// @Summary Sign up
// @Description Registers a new user and logs them in.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.SignUpRequest true "New account"
// @Success 200 {object} common.Response[dto.TokenResponse]
// @Failure 400 {object} common.Response[map[string]string]
// @Failure 409 {object} common.Response[any]
// @Failure 429 {object} common.Response[any]
// @Router /v1/auth/sign-up [post]
func (s *authServer) SignUp(c echo.Context) error {
	var req dto.SignUpRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	resp, err := s.auth.SignUp(c.Request().Context(), req)
	if err != nil {
		return err
	}

	s.tokens.SetTokenCookies(c, vo.NewTokenPair(resp.AccessToken, resp.RefreshToken))
	return respond(c, resp, "sign-up succeeded")
}

// RefreshToken godoc
// @Summary Refresh tokens
// @Description Issues a new token pair. The refresh token cookie is used first, the request body second. The presented refresh token is revoked.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest false "Refresh token when no cookie is sent"
// @Success 200 {object} common.Response[dto.TokenResponse]
// @Failure 401 {object} common.Response[any]
// @Router /v1/auth/token/refresh [post]
func (s *authServer) RefreshToken(c echo.Context) error {
	token := security.RefreshTokenCookie(c)
	if token == "" {
		var req dto.RefreshTokenRequest
		if err := c.Bind(&req); err != nil {
			return common.NewError(common.AuthRefreshTokenInvalid)
		}
		token = req.RefreshToken
	}

	resp, err := s.auth.RefreshToken(c.Request().Context(), token)
	if err != nil {
		return err
	}

	s.tokens.SetTokenCookies(c, vo.NewTokenPair(resp.AccessToken, resp.RefreshToken))
	return respond(c, resp, "token refreshed")
}

// VerifyToken godoc
// @Summary Verify access token
// @Description Returns the current user when the access token is valid.
// @Tags auth
// @Produce json
// @Security bearerAuth
// @Success 200 {object} common.Response[dto.UserResponse]
// @Failure 401 {object} common.Response[any]
// @Router /v1/auth/verify-token [get]
func (s *authServer) VerifyToken(c echo.Context) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	user, err := s.auth.VerifyToken(c.Request().Context(), principal)
	if err != nil {
		return err
	}
	return respond(c, user, "token is valid")
}

// Logout godoc
// @Summary Log out
// @Description Revokes the presented tokens and clears the token cookies.
// @Tags auth
// @Produce json
// @Security bearerAuth
// @Success 200 {object} common.Response[bool]
// @Failure 401 {object} common.Response[any]
// @Router /v1/auth/logout [post]
func (s *authServer) Logout(c echo.Context) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	if err := s.auth.Logout(c.Request().Context(), principal, security.AccessToken(c), security.RefreshTokenCookie(c)); err != nil {
		return err
	}

	s.tokens.ClearTokenCookies(c)
	return respond(c, true, "logout succeeded")
}
