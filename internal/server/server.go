package server

import (
	"context"
	"net/http"

	"plate-server/internal/common"
	"plate-server/internal/dto"
	"plate-server/internal/metrics"
	"plate-server/internal/security"
	"plate-server/internal/server/docs"
	"plate-server/internal/vo"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type AuthFacade interface {
	Login(ctx context.Context, req dto.LoginRequest) (dto.TokenResponse, error)
	SignUp(ctx context.Context, req dto.SignUpRequest) (dto.TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (dto.TokenResponse, error)
	VerifyToken(ctx context.Context, principal security.Principal) (dto.UserResponse, error)
	Logout(ctx context.Context, principal security.Principal, accessToken, refreshToken string) error
	DeleteMe(ctx context.Context, principal security.Principal, accessToken, refreshToken string) error
	Tenants(ctx context.Context, principal security.Principal) ([]dto.TenantResponse, error)
}

type TokenCookies interface {
	SetTokenCookies(c echo.Context, pair vo.TokenPair)
	ClearTokenCookies(c echo.Context)
}

// Pinger is any dependency the health endpoint should report on.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Auth      AuthFacade
	Tokens    *security.TokenService
	Metrics   *metrics.Metrics
	Health    map[string]Pinger
	RateLimit RateLimitConfig
	Title     string
}

// New builds the echo instance with every route registered.
func New(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler
	e.Validator = &requestValidator{}

	if deps.Title != "" {
		docs.SwaggerInfo.Title = deps.Title
	}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	if deps.Metrics != nil {
		e.Use(deps.Metrics.Middleware("/metrics", "/health"))
	}
	e.Use(requestLogger())

	health := &healthServer{checks: deps.Health}
	e.GET("/health", health.HealthCheck)
	if deps.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(deps.Metrics.Handler()))
	}
	e.GET("/swagger/*", echo.WrapHandler(httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json"))))

	authn := security.Authenticate(deps.Tokens)
	limiter := NewRateLimiter(deps.RateLimit, deps.Metrics)

	auth := NewAuthServer(deps.Auth, deps.Tokens)
	v1 := e.Group(common.APIV1)

	authGroup := v1.Group("/auth")
	authGroup.POST("/login", auth.Login, limiter.Middleware())
	authGroup.POST("/sign-up", auth.SignUp, limiter.Middleware())
	authGroup.POST("/token/refresh", auth.RefreshToken)
	authGroup.GET("/verify-token", auth.VerifyToken, authn)
	authGroup.POST("/logout", auth.Logout, authn)

	users := NewUserServer(deps.Auth, deps.Tokens)
	usersGroup := v1.Group("/users", authn)
	usersGroup.GET("/me/tenants", users.MyTenants)
	usersGroup.DELETE("/me", users.DeleteMe)

	return e
}

func currentPrincipal(c echo.Context) (security.Principal, error) {
	p, ok := security.CurrentPrincipal(c)
	if !ok {
		return security.Principal{}, common.NewError(common.AuthUnauthorized)
	}
	return p, nil
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return common.NewErrorMessage(common.CommonInvalidRequest, "malformed request body")
	}
	return c.Validate(req)
}

type requestValidator struct{}

func (requestValidator) Validate(i interface{}) error {
	return dto.Validate(i)
}

var _ echo.Validator = requestValidator{}

func respond[T any](c echo.Context, data T, message string) error {
	return c.JSON(http.StatusOK, common.SuccessMessage(data, message))
}
