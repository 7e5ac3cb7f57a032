package service

import (
	"context"
	"errors"

	"plate-server/internal/common"
	"plate-server/internal/dto"
	"plate-server/internal/entity"
	"plate-server/internal/repository"
)

type TenantRepository interface {
	FindActiveByUserID(ctx context.Context, userID string) ([]entity.Tenant, error)
	FindMainByUserID(ctx context.Context, userID string) (*entity.Tenant, error)
}

type TenantService struct {
	tenantRepository TenantRepository
}

func NewTenantService(tenantRepository TenantRepository) *TenantService {
	return &TenantService{tenantRepository: tenantRepository}
}

// MainTenant returns nil without an error when the user has no main tenant.
func (s *TenantService) MainTenant(ctx context.Context, userID string) (*entity.Tenant, error) {
	tenant, err := s.tenantRepository.FindMainByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, common.WrapError(common.CommonInternalError, err)
	}
	return tenant, nil
}

func (s *TenantService) ListActive(ctx context.Context, userID string) ([]dto.TenantResponse, error) {
	tenants, err := s.tenantRepository.FindActiveByUserID(ctx, userID)
	if err != nil {
		return nil, common.WrapError(common.CommonInternalError, err)
	}

	out := make([]dto.TenantResponse, 0, len(tenants))
	for _, t := range tenants {
		out = append(out, dto.TenantResponse{
			ID:      t.ID,
			SpaceID: t.SpaceID,
			RoleID:  t.RoleID,
			Main:    t.Main,
		})
	}
	return out, nil
}
