package service

import (
	"context"
	"time"

	"archject_backend/internal/auth/token"
	"archject_backend/internal/billing/repository"
	"archject_backend/platform/apperr"
	"archject_backend/platform/logger"

	"github.com/google/uuid"
)

var validWebhookStatuses = map[string]bool{
	"pending":   true,
	"succeeded": true,
	"failed":    true,
	"refunded":  true,
}

type Service struct {
	repo repository.BillingRepository
	log  *logger.Logger
}

func New(repo repository.BillingRepository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

type WebhookEvent struct {
	ExternalID  string
	Type        string
	AmountCents int64
	Currency    string
	Status      string
	Description *string
	OccurredAt  time.Time
}

type ListInput struct {
	OwnerID  uuid.UUID
	Status   string
	Page     int
	PageSize int
}

func (s *Service) List(ctx context.Context, input ListInput) (repository.ListResult, error) {
	return s.repo.List(ctx, repository.ListParams{
		OwnerID:  input.OwnerID,
		Status:   input.Status,
		Page:     input.Page,
		PageSize: input.PageSize,
	})
}

// Ingest stores a webhook-delivered transaction for the account bound to the
// presented API key. Redelivered events are acknowledged without a new row.
func (s *Service) Ingest(ctx context.Context, apiKey string, event WebhookEvent) error {
	if apiKey == "" {
		return apperr.Unauthorized("missing webhook key")
	}

	ownerID, err := s.repo.GetWebhookKeyOwner(ctx, token.HashSHA256(apiKey))
	if err != nil {
		return err
	}

	if !validWebhookStatuses[event.Status] {
		return apperr.Validation("unknown transaction status")
	}

	inserted, err := s.repo.Insert(ctx, repository.Transaction{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		ExternalID:  event.ExternalID,
		Type:        event.Type,
		AmountCents: event.AmountCents,
		Currency:    event.Currency,
		Status:      event.Status,
		Description: event.Description,
		OccurredAt:  event.OccurredAt,
		CreatedAt:   time.Now(),
	})
	if err != nil {
		return err
	}

	if !inserted {
		s.log.Info("duplicate webhook delivery ignored", "externalId", event.ExternalID)
	}
	return nil
}
