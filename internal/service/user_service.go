package service

import (
	"context"

	"github.com/spec-kit/realestate-service/internal/domain"
	"github.com/spec-kit/realestate-service/internal/policy"
	"github.com/spec-kit/realestate-service/internal/repository"
	"github.com/spec-kit/realestate-service/pkg/apperrors"
)

// UserService exposes admin account management.
type UserService struct {
	users repository.UserRepository
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// List returns every account, newest first.
func (s *UserService) List(ctx context.Context, actor *domain.Actor) ([]domain.User, error) {
	if err := policy.Authorize(policy.ListUsers, actor, policy.Resource{}); err != nil {
		return nil, err
	}
	return s.users.List(ctx)
}

// Stats counts accounts overall, per role and created in the last 30 days.
func (s *UserService) Stats(ctx context.Context, actor *domain.Actor) (*domain.UserStats, error) {
	if err := policy.Authorize(policy.ViewUserStats, actor, policy.Resource{}); err != nil {
		return nil, err
	}
	return s.users.Stats(ctx)
}

// UpdateRole changes a user's role. An unknown user id is not an error.
func (s *UserService) UpdateRole(ctx context.Context, actor *domain.Actor, userID, rawRole string) error {
	if err := policy.Authorize(policy.UpdateUserRole, actor, policy.Resource{}); err != nil {
		return err
	}
	role, ok := domain.ParseRole(rawRole)
	if !ok {
		return apperrors.NewValidationError("invalid role", map[string]any{"role": rawRole})
	}
	if !validID(userID) {
		return nil
	}
	return s.users.UpdateRole(ctx, userID, role)
}
