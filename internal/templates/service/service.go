package service

import (
	"context"
	"time"

	"archject_backend/internal/templates/repository"
	"archject_backend/platform/apperr"

	"github.com/google/uuid"
)

const (
	StatusActive   = "active"
	StatusArchived = "archived"
)

var validStatuses = map[string]bool{
	StatusActive:   true,
	StatusArchived: true,
}

const maxOptions = 20

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
	Options     []repository.Option
	Status      string
}

type UpdateInput struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Name        *string
	Description *string
	Options     []repository.Option
	Status      *string
}

type ListInput struct {
	OwnerID  uuid.UUID
	Search   string
	Status   string
	Page     int
	PageSize int
}

func (s *Service) Create(ctx context.Context, input CreateInput) (repository.Template, error) {
	status := input.Status
	if status == "" {
		status = StatusActive
	}
	if !validStatuses[status] {
		return repository.Template{}, apperr.Validation("invalid template status")
	}
	if err := validateOptions(input.Options); err != nil {
		return repository.Template{}, err
	}

	now := time.Now()
	template := repository.Template{
		ID:          uuid.New(),
		OwnerID:     input.OwnerID,
		Name:        input.Name,
		Description: input.Description,
		Options:     input.Options,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	return s.repo.Create(ctx, template)
}

func (s *Service) Get(ctx context.Context, id, ownerID uuid.UUID) (repository.Template, error) {
	return s.repo.GetByID(ctx, id, ownerID)
}

func (s *Service) Update(ctx context.Context, input UpdateInput) (repository.Template, error) {
	if input.Status != nil && !validStatuses[*input.Status] {
		return repository.Template{}, apperr.Validation("invalid template status")
	}
	if input.Options != nil {
		if err := validateOptions(input.Options); err != nil {
			return repository.Template{}, err
		}
	}

	return s.repo.Update(ctx, repository.TemplateUpdate{
		ID:          input.ID,
		OwnerID:     input.OwnerID,
		Name:        input.Name,
		Description: input.Description,
		Options:     input.Options,
		Status:      input.Status,
	})
}

func (s *Service) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	return s.repo.Delete(ctx, id, ownerID)
}

func (s *Service) List(ctx context.Context, input ListInput) (repository.ListResult, error) {
	if input.Status != "" && !validStatuses[input.Status] {
		return repository.ListResult{}, apperr.Validation("invalid template status")
	}

	return s.repo.List(ctx, repository.ListParams{
		OwnerID:  input.OwnerID,
		Search:   input.Search,
		Status:   input.Status,
		Page:     input.Page,
		PageSize: input.PageSize,
	})
}

func validateOptions(options []repository.Option) error {
	if len(options) > maxOptions {
		return apperr.Validation("too many options")
	}
	for _, option := range options {
		if option.Label == "" {
			return apperr.Validation("option label is required")
		}
	}
	return nil
}
