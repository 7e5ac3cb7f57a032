package service

import (
	"context"
	"errors"
	"time"

	"plate-server/internal/common"
	"plate-server/internal/dto"
	"plate-server/internal/entity"
	"plate-server/internal/repository"

	log "github.com/sirupsen/logrus"
)

type UserRepository interface {
	FindByID(ctx context.Context, id string) (*entity.User, error)
	FindActiveByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindActiveByEmail(ctx context.Context, email string) (*entity.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Save(ctx context.Context, user *entity.User) error
}

type UserService struct {
	userRepository UserRepository
	now            func() time.Time
}

func NewUserService(userRepository UserRepository) *UserService {
	return &UserService{userRepository: userRepository, now: time.Now}
}

func (s *UserService) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return userOrNotFound(s.userRepository.FindByID(ctx, id))
}

// FindActiveByID fails with USER_001 for unknown and soft deleted users alike.
func (s *UserService) FindActiveByID(ctx context.Context, id string) (*entity.User, error) {
	return userOrNotFound(s.userRepository.FindActiveByID(ctx, id))
}

func (s *UserService) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return userOrNotFound(s.userRepository.FindByEmail(ctx, email))
}

func (s *UserService) FindActiveByEmail(ctx context.Context, email string) (*entity.User, error) {
	return userOrNotFound(s.userRepository.FindActiveByEmail(ctx, email))
}

func (s *UserService) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	exists, err := s.userRepository.ExistsByEmail(ctx, email)
	if err != nil {
		return false, common.WrapError(common.CommonInternalError, err)
	}
	return exists, nil
}

// Save persists user. An email clash surfaces as USER_002, which also covers a
// concurrent sign-up that passed ExistsByEmail; any other unique violation is USER_003.
func (s *UserService) Save(ctx context.Context, user *entity.User) error {
	if err := s.userRepository.Save(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return common.WrapError(common.UserEmailDuplicate, err)
		}
		if errors.Is(err, repository.ErrDuplicate) {
			return common.WrapError(common.UserAlreadyExists, err)
		}
		return common.WrapError(common.CommonInternalError, err)
	}
	return nil
}

// Delete soft deletes an active user.
func (s *UserService) Delete(ctx context.Context, id string) (*entity.User, error) {
	user, err := s.FindActiveByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.SoftDelete(s.now())
	if err := s.Save(ctx, user); err != nil {
		return nil, err
	}

	log.WithField("user_id", id).Info("User soft deleted")
	return user, nil
}

func ToUserResponse(user *entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Phone: user.Phone,
	}
}

func userOrNotFound(user *entity.User, err error) (*entity.User, error) {
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, common.WrapError(common.UserNotFound, err)
		}
		return nil, common.WrapError(common.CommonInternalError, err)
	}
	return user, nil
}
