package repository

import (
	"context"
	"errors"
	"fmt"

	"plate-server/internal/entity"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type UserRepository struct {
	store *Store
}

func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return r.first(ctx, "id = ?", id, false)
}

// FindActiveByID ignores soft deleted users.
func (r *UserRepository) FindActiveByID(ctx context.Context, id string) (*entity.User, error) {
	return r.first(ctx, "id = ?", id, true)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.first(ctx, "email = ?", email, false)
}

func (r *UserRepository) FindActiveByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.first(ctx, "email = ?", email, true)
}

// ExistsByEmail counts removed users too: their email stays reserved.
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var count int64
	err := r.store.conn(ctx).Model(&entity.User{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		log.WithError(err).WithField("email", email).Error("Failed to check user email")
		return false, fmt.Errorf("failed to check user email: %w", err)
	}
	return count > 0, nil
}

// Save inserts a new user or updates an existing one, filling in the audit columns.
func (r *UserRepository) Save(ctx context.Context, user *entity.User) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	created := r.store.auditor.stamp(ctx, user)
	db := r.store.conn(ctx)

	var err error
	if created {
		err = db.Create(user).Error
	} else {
		err = db.Save(user).Error
	}
	if err != nil {
		if created {
			user.ID = ""
		}
		if isUniqueViolation(err) {
			if violatesUserEmail(err) {
				return fmt.Errorf("failed to save user: %w", ErrDuplicateEmail)
			}
			return fmt.Errorf("failed to save user: %w", ErrDuplicate)
		}
		log.WithError(err).WithField("user_id", user.ID).Error("Failed to save user")
		return fmt.Errorf("failed to save user: %w", err)
	}

	log.WithFields(log.Fields{
		"user_id": user.ID,
		"created": created,
	}).Debug("User saved")
	return nil
}

func (r *UserRepository) first(ctx context.Context, query string, arg any, activeOnly bool) (*entity.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	db := r.store.conn(ctx).Where(query, arg)
	if activeOnly {
		db = db.Where("removed_at IS NULL")
	}

	var user entity.User
	if err := db.First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		log.WithError(err).WithField("query", query).Error("Failed to get user")
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}
