package service

import (
	"context"

	"archject_backend/internal/admin/repository"
	"archject_backend/platform/apperr"

	"github.com/google/uuid"
)

// RoleManager is satisfied by the auth service; role writes stay in the auth
// bounded context.
type RoleManager interface {
	SetUserRoles(ctx context.Context, userID uuid.UUID, roles []string) error
}

var allowedRoles = map[string]bool{
	"user":  true,
	"admin": true,
}

type Service struct {
	repo  *repository.Repository
	roles RoleManager
}

func New(repo *repository.Repository, roles RoleManager) *Service {
	return &Service{repo: repo, roles: roles}
}

func (s *Service) GetStats(ctx context.Context) (repository.Stats, error) {
	return s.repo.GetStats(ctx)
}

func (s *Service) ListUsers(ctx context.Context, params repository.ListUsersParams) (repository.ListUsersResult, error) {
	return s.repo.ListUsers(ctx, params)
}

func (s *Service) SetUserRoles(ctx context.Context, userID uuid.UUID, roles []string) error {
	if len(roles) == 0 {
		return apperr.Validation("at least one role is required")
	}
	for _, role := range roles {
		if !allowedRoles[role] {
			return apperr.Validation("unknown role: " + role)
		}
	}
	return s.roles.SetUserRoles(ctx, userID, roles)
}
