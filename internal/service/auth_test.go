package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"plate-server/internal/common"
	"plate-server/internal/dto"
	"plate-server/internal/entity"
	"plate-server/internal/security"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	facade    *AuthFacade
	users     *fakeUserRepository
	tenants   *fakeTenantRepository
	tx        *passThroughTx
	tokens    *security.TokenService
	publisher *recordingPublisher
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	provider, err := security.NewProvider(security.Properties{Secret: "0123456789abcdef0123456789abcdef"})
	require.NoError(t, err)

	f := &authFixture{
		users:     newFakeUserRepository(),
		tenants:   &fakeTenantRepository{},
		tx:        &passThroughTx{},
		tokens:    security.NewTokenService(provider, security.NewMemoryRevocationStore()),
		publisher: &recordingPublisher{},
	}
	f.facade = NewAuthFacade(
		f.tx,
		NewUserService(f.users),
		NewTenantService(f.tenants),
		f.tokens,
		NewAuditService(f.publisher),
	)
	return f
}

func signUpRequest() dto.SignUpRequest {
	return dto.SignUpRequest{
		Email:    "user@example.com",
		Password: "password123!",
		Name:     "Jane",
		Phone:    "010-1234-5678",
	}
}

func assertCode(t *testing.T, err error, code common.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	got, ok := common.CodeOf(err)
	require.True(t, ok, "expected a business error, got %v", err)
	assert.Equal(t, code.Code, got.Code)
}

func TestSignUpThenLogin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	resp, err := f.facade.SignUp(ctx, signUpRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "user@example.com", resp.User.Email)
	assert.Equal(t, 1, f.tx.calls)

	stored, err := f.users.FindByEmail(ctx, "user@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "password123!", stored.Password)

	claims, err := f.tokens.ValidateAccessToken(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, common.DefaultRole, claims.Role)
	assert.Empty(t, claims.TenantID)

	login, err := f.facade.Login(ctx, dto.LoginRequest{Email: "user@example.com", Password: "password123!"})
	require.NoError(t, err)
	assert.Equal(t, resp.User, login.User)

	assert.Equal(t, []string{EventUserSignedUp, EventUserLoggedIn}, f.publisher.types())
}

func TestSignUpDuplicates(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	_, err := f.facade.SignUp(ctx, signUpRequest())
	require.NoError(t, err)

	_, err = f.facade.SignUp(ctx, signUpRequest())
	assertCode(t, err, common.UserEmailDuplicate)

	sameName := signUpRequest()
	sameName.Email = "other@example.com"
	sameName.Phone = "010-0000-0000"
	_, err = f.facade.SignUp(ctx, sameName)
	assertCode(t, err, common.UserAlreadyExists)
}

func TestSignUpRaceOnEmailIsEmailDuplicate(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	_, err := f.facade.SignUp(ctx, signUpRequest())
	require.NoError(t, err)

	f.users.staleExists = true
	again := signUpRequest()
	again.Name = "Other"
	again.Phone = "010-9999-9999"
	_, err = f.facade.SignUp(ctx, again)
	assertCode(t, err, common.UserEmailDuplicate)
}

func TestSignUpRejectsTooLongPassword(t *testing.T) {
	f := newAuthFixture(t)
	req := signUpRequest()
	req.Password = strings.Repeat("a", 80)

	_, err := f.facade.SignUp(context.Background(), req)
	assertCode(t, err, common.UserInvalidPassword)
	assert.Zero(t, f.tx.calls)
}

func TestSignUpRejectsShortPassword(t *testing.T) {
	f := newAuthFixture(t)
	req := signUpRequest()
	req.Password = "short"

	_, err := f.facade.SignUp(context.Background(), req)
	assertCode(t, err, common.ValidationPasswordLength)
	assert.Zero(t, f.tx.calls)
}

func TestLoginFailures(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	resp, err := f.facade.SignUp(ctx, signUpRequest())
	require.NoError(t, err)

	_, err = f.facade.Login(ctx, dto.LoginRequest{Email: "user@example.com", Password: "wrong-password"})
	assertCode(t, err, common.AuthInvalidCredentials)

	_, err = f.facade.Login(ctx, dto.LoginRequest{Email: "missing@example.com", Password: "password123!"})
	assertCode(t, err, common.AuthInvalidCredentials)

	principal := security.NewPrincipal(resp.User.ID, resp.User.Email, resp.User.Name, "", "")
	require.NoError(t, f.facade.DeleteMe(ctx, principal, resp.AccessToken, resp.RefreshToken))

	_, err = f.facade.Login(ctx, dto.LoginRequest{Email: "user@example.com", Password: "password123!"})
	assertCode(t, err, common.AuthInvalidCredentials)
}

func TestLoginUsesMainTenant(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	resp, err := f.facade.SignUp(ctx, signUpRequest())
	require.NoError(t, err)

	main := entity.NewTenant(resp.User.ID, "space-1", "ADMIN")
	main.ID = "tenant-1"
	main.SetAsMain()
	other := entity.NewTenant(resp.User.ID, "space-2", "MEMBER")
	other.ID = "tenant-2"
	f.tenants.tenants = []entity.Tenant{*other, *main}

	login, err := f.facade.Login(ctx, dto.LoginRequest{Email: "user@example.com", Password: "password123!"})
	require.NoError(t, err)

	claims, err := f.tokens.ValidateAccessToken(ctx, login.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "ADMIN", claims.Role)
	assert.Equal(t, "tenant-1", claims.TenantID)

	tenants, err := f.facade.Tenants(ctx, claims.Principal())
	require.NoError(t, err)
	assert.Len(t, tenants, 2)
}

func TestRefreshTokenRotation(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	resp, err := f.facade.SignUp(ctx, signUpRequest())
	require.NoError(t, err)

	refreshed, err := f.facade.RefreshToken(ctx, resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, resp.RefreshToken, refreshed.RefreshToken)

	_, err = f.facade.RefreshToken(ctx, resp.RefreshToken)
	assertCode(t, err, common.AuthRefreshTokenInvalid)

	_, err = f.facade.RefreshToken(ctx, refreshed.AccessToken)
	assertCode(t, err, common.AuthRefreshTokenInvalid)

	_, err = f.facade.RefreshToken(ctx, "")
	assertCode(t, err, common.AuthRefreshTokenInvalid)

	assert.Contains(t, f.publisher.types(), EventTokenRefreshed)
}

func TestRefreshTokenForRemovedUser(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	resp, err := f.facade.SignUp(ctx, signUpRequest())
	require.NoError(t, err)

	_, err = f.facade.users.Delete(ctx, resp.User.ID)
	require.NoError(t, err)

	_, err = f.facade.RefreshToken(ctx, resp.RefreshToken)
	assertCode(t, err, common.AuthRefreshTokenInvalid)
}

func TestVerifyTokenAndLogout(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	resp, err := f.facade.SignUp(ctx, signUpRequest())
	require.NoError(t, err)

	claims, err := f.tokens.ValidateAccessToken(ctx, resp.AccessToken)
	require.NoError(t, err)
	principal := claims.Principal()

	user, err := f.facade.VerifyToken(ctx, principal)
	require.NoError(t, err)
	assert.Equal(t, resp.User, user)

	require.NoError(t, f.facade.Logout(ctx, principal, resp.AccessToken, resp.RefreshToken))

	_, err = f.tokens.ValidateAccessToken(ctx, resp.AccessToken)
	assert.ErrorIs(t, err, security.ErrTokenRevoked)
	_, err = f.tokens.ValidateRefreshToken(ctx, resp.RefreshToken)
	assert.ErrorIs(t, err, security.ErrTokenRevoked)

	_, err = f.facade.VerifyToken(ctx, security.NewPrincipal("missing", "", "", "", ""))
	assertCode(t, err, common.UserNotFound)
}

func TestAuditFailureDoesNotFailRequest(t *testing.T) {
	f := newAuthFixture(t)
	f.publisher.err = errors.New("broker down")

	_, err := f.facade.SignUp(context.Background(), signUpRequest())
	require.NoError(t, err)
	assert.Equal(t, []string{EventUserSignedUp}, f.publisher.types())
}

func TestRepositoryFailureIsInternal(t *testing.T) {
	f := newAuthFixture(t)
	f.users.err = errors.New("connection reset")

	_, err := f.facade.Login(context.Background(), dto.LoginRequest{Email: "user@example.com", Password: "password123!"})
	assertCode(t, err, common.CommonInternalError)
}
