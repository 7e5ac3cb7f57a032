package service

import (
	"context"
	"errors"

	"plate-server/internal/common"
	"plate-server/internal/dto"
	"plate-server/internal/entity"
	"plate-server/internal/security"
	"plate-server/internal/vo"

	log "github.com/sirupsen/logrus"
)

// Transactor runs fn in one database transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type TokenIssuer interface {
	GenerateTokenPair(p security.Principal) (vo.TokenPair, error)
	ValidateRefreshToken(ctx context.Context, token string) (*security.Claims, error)
	Revoke(ctx context.Context, token string) error
	RevokeClaims(ctx context.Context, claims *security.Claims) error
}

// AuthFacade coordinates the user, tenant and token collaborators for every
// authentication flow exposed over HTTP.
type AuthFacade struct {
	tx      Transactor
	users   *UserService
	tenants *TenantService
	tokens  TokenIssuer
	audit   *AuditService
}

func NewAuthFacade(tx Transactor, users *UserService, tenants *TenantService, tokens TokenIssuer, audit *AuditService) *AuthFacade {
	return &AuthFacade{
		tx:      tx,
		users:   users,
		tenants: tenants,
		tokens:  tokens,
		audit:   audit,
	}
}

// Login fails with AUTH_001 for unknown, removed and wrong-password users alike.
func (f *AuthFacade) Login(ctx context.Context, req dto.LoginRequest) (dto.TokenResponse, error) {
	user, err := f.users.FindActiveByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, common.NewError(common.UserNotFound)) {
			return dto.TokenResponse{}, common.NewError(common.AuthInvalidCredentials)
		}
		return dto.TokenResponse{}, err
	}

	if !vo.HashedPasswordFromHash(user.Password).Matches(req.Password) {
		log.WithField("user_id", user.ID).Warn("Login rejected: password mismatch")
		return dto.TokenResponse{}, common.NewError(common.AuthInvalidCredentials)
	}

	resp, err := f.issue(ctx, user)
	if err != nil {
		return dto.TokenResponse{}, err
	}

	log.WithField("user_id", user.ID).Info("Login succeeded")
	f.published(f.audit.RecordUserLoggedIn(ctx, user), EventUserLoggedIn)
	return resp, nil
}

// SignUp registers a user and logs them in. The existence check and the
// insert share one transaction.
func (f *AuthFacade) SignUp(ctx context.Context, req dto.SignUpRequest) (dto.TokenResponse, error) {
	plain, err := vo.NewPlainPassword(req.Password)
	if err != nil {
		if errors.Is(err, vo.ErrPasswordTooShort) {
			return dto.TokenResponse{}, common.WrapError(common.ValidationPasswordLength, err)
		}
		return dto.TokenResponse{}, common.WrapError(common.UserInvalidPassword, err)
	}

	var user *entity.User
	err = f.tx.WithinTx(ctx, func(ctx context.Context) error {
		exists, err := f.users.ExistsByEmail(ctx, req.Email)
		if err != nil {
			return err
		}
		if exists {
			return common.NewError(common.UserEmailDuplicate)
		}

		hashed, err := plain.Hash()
		if err != nil {
			return common.WrapError(common.CommonInternalError, err)
		}

		user = entity.NewUser(req.Email, hashed.Value(), req.Name, req.Phone)
		return f.users.Save(ctx, user)
	})
	if err != nil {
		return dto.TokenResponse{}, err
	}

	resp, err := f.issue(ctx, user)
	if err != nil {
		return dto.TokenResponse{}, err
	}

	log.WithFields(log.Fields{
		"user_id": user.ID,
		"email":   user.Email,
	}).Info("Sign-up succeeded")
	f.published(f.audit.RecordUserSignedUp(ctx, user), EventUserSignedUp)
	return resp, nil
}

// RefreshToken rotates a refresh token: the presented one is revoked and a
// fresh pair is issued for the current state of the user.
func (f *AuthFacade) RefreshToken(ctx context.Context, refreshToken string) (dto.TokenResponse, error) {
	if refreshToken == "" {
		return dto.TokenResponse{}, common.NewError(common.AuthRefreshTokenInvalid)
	}

	claims, err := f.tokens.ValidateRefreshToken(ctx, refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, security.ErrTokenExpired):
			return dto.TokenResponse{}, common.WrapError(common.AuthRefreshTokenExpired, err)
		case errors.Is(err, security.ErrTokenInvalid):
			return dto.TokenResponse{}, common.WrapError(common.AuthRefreshTokenInvalid, err)
		default:
			return dto.TokenResponse{}, common.WrapError(common.CommonInternalError, err)
		}
	}

	user, err := f.users.FindActiveByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, common.NewError(common.UserNotFound)) {
			return dto.TokenResponse{}, common.WrapError(common.AuthRefreshTokenInvalid, err)
		}
		return dto.TokenResponse{}, err
	}

	if err := f.tokens.RevokeClaims(ctx, claims); err != nil {
		return dto.TokenResponse{}, common.WrapError(common.CommonInternalError, err)
	}

	resp, err := f.issue(ctx, user)
	if err != nil {
		return dto.TokenResponse{}, err
	}

	log.WithField("user_id", user.ID).Info("Token refreshed")
	f.published(f.audit.RecordTokenRefreshed(ctx, user.ID, claims.ID), EventTokenRefreshed)
	return resp, nil
}

func (f *AuthFacade) VerifyToken(ctx context.Context, principal security.Principal) (dto.UserResponse, error) {
	user, err := f.users.FindActiveByID(ctx, principal.ID)
	if err != nil {
		return dto.UserResponse{}, err
	}
	return ToUserResponse(user), nil
}

// Logout revokes whichever of the two tokens were presented.
func (f *AuthFacade) Logout(ctx context.Context, principal security.Principal, accessToken, refreshToken string) error {
	if err := f.revoke(ctx, accessToken, refreshToken); err != nil {
		return err
	}

	log.WithField("user_id", principal.ID).Info("Logout succeeded")
	f.published(f.audit.RecordUserLoggedOut(ctx, principal.ID), EventUserLoggedOut)
	return nil
}

// DeleteMe soft deletes the caller and ends the current session.
func (f *AuthFacade) DeleteMe(ctx context.Context, principal security.Principal, accessToken, refreshToken string) error {
	user, err := f.users.Delete(ctx, principal.ID)
	if err != nil {
		return err
	}
	if err := f.revoke(ctx, accessToken, refreshToken); err != nil {
		return err
	}

	f.published(f.audit.RecordUserDeleted(ctx, user), EventUserDeleted)
	return nil
}

func (f *AuthFacade) Tenants(ctx context.Context, principal security.Principal) ([]dto.TenantResponse, error) {
	return f.tenants.ListActive(ctx, principal.ID)
}

func (f *AuthFacade) revoke(ctx context.Context, tokens ...string) error {
	for _, token := range tokens {
		if err := f.tokens.Revoke(ctx, token); err != nil {
			return common.WrapError(common.CommonInternalError, err)
		}
	}
	return nil
}

// issue builds a token pair whose role and tenant come from the user's main tenant.
func (f *AuthFacade) issue(ctx context.Context, user *entity.User) (dto.TokenResponse, error) {
	principal, err := f.principalFor(ctx, user)
	if err != nil {
		return dto.TokenResponse{}, err
	}

	pair, err := f.tokens.GenerateTokenPair(principal)
	if err != nil {
		return dto.TokenResponse{}, common.WrapError(common.CommonInternalError, err)
	}

	return dto.TokenResponse{
		AccessToken:  pair.AccessToken(),
		RefreshToken: pair.RefreshToken(),
		User:         ToUserResponse(user),
	}, nil
}

func (f *AuthFacade) principalFor(ctx context.Context, user *entity.User) (security.Principal, error) {
	tenant, err := f.tenants.MainTenant(ctx, user.ID)
	if err != nil {
		return security.Principal{}, err
	}

	var role, tenantID string
	if tenant != nil {
		role, tenantID = tenant.RoleID, tenant.ID
	}
	return security.NewPrincipal(user.ID, user.Email, user.Name, role, tenantID), nil
}

func (f *AuthFacade) published(err error, eventType string) {
	if err != nil {
		log.WithError(err).WithField("event_type", eventType).Warn("Failed to publish audit event")
	}
}
