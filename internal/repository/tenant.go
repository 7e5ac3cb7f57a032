package repository

import (
	"context"
	"errors"
	"fmt"

	"plate-server/internal/entity"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type TenantRepository struct {
	store *Store
}

func NewTenantRepository(store *Store) *TenantRepository {
	return &TenantRepository{store: store}
}

func (r *TenantRepository) FindByUserID(ctx context.Context, userID string) ([]entity.Tenant, error) {
	return r.list(ctx, userID, false)
}

func (r *TenantRepository) FindActiveByUserID(ctx context.Context, userID string) ([]entity.Tenant, error) {
	return r.list(ctx, userID, true)
}

func (r *TenantRepository) FindByIDAndUserID(ctx context.Context, id, userID string) (*entity.Tenant, error) {
	return r.first(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("id = ? AND user_id = ?", id, userID)
	})
}

// FindMainByUserID returns the active main tenant of a user.
func (r *TenantRepository) FindMainByUserID(ctx context.Context, userID string) (*entity.Tenant, error) {
	return r.first(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ? AND main = ?", userID, true).Where("removed_at IS NULL")
	})
}

func (r *TenantRepository) Save(ctx context.Context, tenant *entity.Tenant) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	created := r.store.auditor.stamp(ctx, tenant)
	db := r.store.conn(ctx)

	var err error
	if created {
		err = db.Create(tenant).Error
	} else {
		err = db.Save(tenant).Error
	}
	if err != nil {
		if created {
			tenant.ID = ""
		}
		if isUniqueViolation(err) {
			return fmt.Errorf("failed to save tenant: %w", ErrDuplicate)
		}
		log.WithError(err).WithFields(log.Fields{
			"tenant_id": tenant.ID,
			"user_id":   tenant.UserID,
		}).Error("Failed to save tenant")
		return fmt.Errorf("failed to save tenant: %w", err)
	}
	return nil
}

func (r *TenantRepository) list(ctx context.Context, userID string, activeOnly bool) ([]entity.Tenant, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	db := r.store.conn(ctx).Where("user_id = ?", userID)
	if activeOnly {
		db = db.Where("removed_at IS NULL")
	}

	var tenants []entity.Tenant
	if err := db.Order("created_at ASC").Find(&tenants).Error; err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Failed to list tenants")
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	return tenants, nil
}

func (r *TenantRepository) first(ctx context.Context, scope func(*gorm.DB) *gorm.DB) (*entity.Tenant, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var tenant entity.Tenant
	if err := r.store.conn(ctx).Scopes(scope).First(&tenant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		log.WithError(err).Error("Failed to get tenant")
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}
	return &tenant, nil
}
