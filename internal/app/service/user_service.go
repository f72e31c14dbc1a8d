package service

import (
	"context"
	"errors"

	"github.com/ikkim/verification-backend/internal/app/domain"
	"github.com/ikkim/verification-backend/pkg/logger"
)

// UserService covers profile and role management.
type UserService interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	ChangeRole(ctx context.Context, userID string, role string) (domain.User, error)
	ChangeName(ctx context.Context, userID string, name string) (domain.User, error)
}

type userService struct {
	users domain.UserRepository
}

func NewUserService(users domain.UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.FindAll(ctx)
}

func (s *userService) ChangeRole(ctx context.Context, userID string, role string) (domain.User, error) {
	newRole, err := domain.NewUserRole(role)
	if err != nil {
		return domain.User{}, err
	}

	return s.update(ctx, userID, "role", func(u domain.User) (domain.User, error) {
		return u.ChangeRole(newRole)
	})
}

func (s *userService) ChangeName(ctx context.Context, userID string, name string) (domain.User, error) {
	return s.update(ctx, userID, "name", func(u domain.User) (domain.User, error) {
		return u.ChangeName(name)
	})
}

func (s *userService) update(ctx context.Context, userID, field string, change func(domain.User) (domain.User, error)) (domain.User, error) {
	log := logger.FromContext(ctx)

	id, err := domain.ParseUserID(userID)
	if err != nil {
		return domain.User{}, err
	}
	current, err := s.users.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	if current == nil {
		return domain.User{}, ErrUserNotFound
	}

	updated, err := change(*current)
	if err != nil {
		return domain.User{}, err
	}

	saved, err := s.users.Save(ctx, updated)
	if err != nil {
		if isDuplicateEmail(err) {
			return domain.User{}, ErrEmailAlreadyExists
		}
		log.Error("Failed to update user", err, map[string]interface{}{
			"user_id": userID,
			"field":   field,
		})
		return domain.User{}, err
	}

	log.Info("User updated", map[string]interface{}{
		"user_id": userID,
		"field":   field,
	})
	return saved, nil
}

func isDuplicateEmail(err error) bool {
	return errors.Is(err, domain.ErrDuplicateEmail)
}
