package service

import (
	"context"
	"time"

	"archject_backend/internal/projects/repository"
	"archject_backend/platform/apperr"

	"github.com/google/uuid"
)

// Statuses a project can be in.
const (
	StatusDraft     = "draft"
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusArchived  = "archived"
)

var validStatuses = map[string]bool{
	StatusDraft:     true,
	StatusActive:    true,
	StatusCompleted: true,
	StatusArchived:  true,
}

type Service struct {
	repo *repository.Repository
}

func New(repo *repository.Repository) *Service {
	return &Service{repo: repo}
}

type CreateInput struct {
	OwnerID     uuid.UUID
	Name        string
	Description *string
	ClientName  string
	ClientEmail *string
	Status      string
}

type UpdateInput struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Name        *string
	Description *string
	ClientName  *string
	ClientEmail *string
	Status      *string
}

type ListInput struct {
	OwnerID  uuid.UUID
	Search   string
	Status   string
	Client   string
	Page     int
	PageSize int
}

func (s *Service) Create(ctx context.Context, input CreateInput) (repository.Project, error) {
	status := input.Status
	if status == "" {
		status = StatusDraft
	}
	if !validStatuses[status] {
		return repository.Project{}, apperr.Validation("invalid project status")
	}

	now := time.Now()
	project := repository.Project{
		ID:          uuid.New(),
		OwnerID:     input.OwnerID,
		Name:        input.Name,
		Description: input.Description,
		ClientName:  input.ClientName,
		ClientEmail: input.ClientEmail,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	return s.repo.Create(ctx, project)
}

func (s *Service) Get(ctx context.Context, id, ownerID uuid.UUID) (repository.Project, error) {
	return s.repo.GetByID(ctx, id, ownerID)
}

func (s *Service) Update(ctx context.Context, input UpdateInput) (repository.Project, error) {
	if input.Status != nil && !validStatuses[*input.Status] {
		return repository.Project{}, apperr.Validation("invalid project status")
	}

	return s.repo.Update(ctx, repository.ProjectUpdate{
		ID:          input.ID,
		OwnerID:     input.OwnerID,
		Name:        input.Name,
		Description: input.Description,
		ClientName:  input.ClientName,
		ClientEmail: input.ClientEmail,
		Status:      input.Status,
	})
}

func (s *Service) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	return s.repo.Delete(ctx, id, ownerID)
}

func (s *Service) List(ctx context.Context, input ListInput) (repository.ListResult, error) {
	if input.Status != "" && !validStatuses[input.Status] {
		return repository.ListResult{}, apperr.Validation("invalid project status")
	}

	return s.repo.List(ctx, repository.ListParams{
		OwnerID:  input.OwnerID,
		Search:   input.Search,
		Status:   input.Status,
		Client:   input.Client,
		Page:     input.Page,
		PageSize: input.PageSize,
	})
}
