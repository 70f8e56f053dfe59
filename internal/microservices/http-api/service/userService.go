package service

import (
	"context"
	"errors"
	"fmt"

	"commentshub/internal/microservices/http-api/dto"
	"commentshub/internal/microservices/http-api/models"
	"commentshub/internal/microservices/http-api/repository"

	"gorm.io/gorm"
)

type UserService interface {
	List(ctx context.Context, offset, limit int) ([]models.User, int64, error)
	Get(ctx context.Context, id int64) (*models.User, error)
	Create(ctx context.Context, payload dto.Payload) (*models.User, error)
	Update(ctx context.Context, user *models.User, payload dto.Payload, partial bool) (*models.User, error)
	Delete(ctx context.Context, user *models.User) error
}

type userService struct {
	repo   repository.UserRepository
	hasher PasswordHasher
}

func NewUserService(repo repository.UserRepository, hasher PasswordHasher) UserService {
	return &userService{repo: repo, hasher: hasher}
}

// List returns non-staff accounts.
func (s *userService) List(ctx context.Context, offset, limit int) ([]models.User, int64, error) {
	users, total, err := s.repo.ListVisible(ctx, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

// Get returns ErrNotFound for missing and staff accounts alike.
func (s *userService) Get(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repo.FindVisibleByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return user, nil
}

func (s *userService) Create(ctx context.Context, payload dto.Payload) (*models.User, error) {
	user := &models.User{IsActive: true}
	if err := s.bind(ctx, user, payload, false); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, s.duplicateError(ctx, user)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, user *models.User, payload dto.Payload, partial bool) (*models.User, error) {
	updated := *user
	if err := s.bind(ctx, &updated, payload, partial); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, &updated); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, s.duplicateError(ctx, &updated)
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return &updated, nil
}

func (s *userService) Delete(ctx context.Context, user *models.User) error {
	if err := s.repo.Delete(ctx, user.ID); err != nil {
		return notFound(err)
	}
	return nil
}

// bind validates payload and applies it to user. Field checks are reported
// together; the cross-field checks stop at the first failure.
func (s *userService) bind(ctx context.Context, user *models.User, payload dto.Payload, partial bool) error {
	d, errs := dto.BindUserWrite(payload, partial)
	if err := errs.Err(); err != nil {
		return err
	}

	if !d.PasswordsMatch() {
		errs.AddNonField(dto.MsgPasswordMismatch)
		return errs
	}

	if d.Username != nil {
		taken, err := s.repo.UsernameTaken(ctx, *d.Username, user.ID)
		if err != nil {
			return fmt.Errorf("check username: %w", err)
		}
		if taken {
			errs.AddNonField(dto.MsgUsernameExists)
			return errs
		}
	}

	if d.Email != nil {
		taken, err := s.repo.EmailTaken(ctx, *d.Email, user.ID)
		if err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if taken {
			errs.AddNonField(dto.MsgEmailExists)
			return errs
		}
	}

	var hash string
	if d.Password != nil {
		h, err := s.hasher.Hash(*d.Password)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		hash = h
	}

	d.ApplyTo(user, hash)
	return nil
}

// duplicateError explains a unique constraint lost to a concurrent write.
func (s *userService) duplicateError(ctx context.Context, user *models.User) error {
	errs := dto.NewValidationError()
	if taken, err := s.repo.UsernameTaken(ctx, user.Username, user.ID); err == nil && taken {
		errs.AddNonField(dto.MsgUsernameExists)
		return errs
	}
	errs.AddNonField(dto.MsgEmailExists)
	return errs
}
