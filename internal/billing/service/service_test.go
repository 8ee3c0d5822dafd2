package service

import (
	"context"
	"testing"
	"time"

	"archject_backend/internal/auth/token"
	"archject_backend/internal/billing/repository"
	"archject_backend/platform/apperr"
	"archject_backend/platform/logger"

	"github.com/google/uuid"
)

type stubBillingRepo struct {
	keyOwners map[string]uuid.UUID
	inserted  []repository.Transaction
	seen      map[string]bool
}

func newStubBillingRepo() *stubBillingRepo {
	return &stubBillingRepo{
		keyOwners: map[string]uuid.UUID{},
		seen:      map[string]bool{},
	}
}

func (r *stubBillingRepo) Insert(_ context.Context, tx repository.Transaction) (bool, error) {
	key := tx.OwnerID.String() + "/" + tx.ExternalID
	if r.seen[key] {
		return false, nil
	}
	r.seen[key] = true
	r.inserted = append(r.inserted, tx)
	return true, nil
}

func (r *stubBillingRepo) List(_ context.Context, _ repository.ListParams) (repository.ListResult, error) {
	return repository.ListResult{}, nil
}

func (r *stubBillingRepo) GetWebhookKeyOwner(_ context.Context, keyHash string) (uuid.UUID, error) {
	ownerID, ok := r.keyOwners[keyHash]
	if !ok {
		return uuid.Nil, apperr.Unauthorized("unknown webhook key")
	}
	return ownerID, nil
}

var _ repository.BillingRepository = (*stubBillingRepo)(nil)

func validEvent() WebhookEvent {
	return WebhookEvent{
		ExternalID:  "evt_123",
		Type:        "charge",
		AmountCents: 125000,
		Currency:    "EUR",
		Status:      "succeeded",
		OccurredAt:  time.Now(),
	}
}

func TestIngestRequiresAPIKey(t *testing.T) {
	svc := New(newStubBillingRepo(), logger.New("development"))

	err := svc.Ingest(context.Background(), "", validEvent())
	if !apperr.Is(err, apperr.KindUnauthorized) {
		t.Errorf("expected unauthorized, got %v", err)
	}
}

func TestIngestRejectsUnknownKey(t *testing.T) {
	svc := New(newStubBillingRepo(), logger.New("development"))

	err := svc.Ingest(context.Background(), "not-a-real-key", validEvent())
	if !apperr.Is(err, apperr.KindUnauthorized) {
		t.Errorf("expected unauthorized, got %v", err)
	}
}

func TestIngestResolvesOwnerFromKeyHash(t *testing.T) {
	repo := newStubBillingRepo()
	ownerID := uuid.New()
	repo.keyOwners[token.HashSHA256("secret-key")] = ownerID
	svc := New(repo, logger.New("development"))

	if err := svc.Ingest(context.Background(), "secret-key", validEvent()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.inserted) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(repo.inserted))
	}
	if repo.inserted[0].OwnerID != ownerID {
		t.Errorf("owner = %s, want %s", repo.inserted[0].OwnerID, ownerID)
	}
}

func TestIngestRejectsUnknownStatus(t *testing.T) {
	repo := newStubBillingRepo()
	repo.keyOwners[token.HashSHA256("secret-key")] = uuid.New()
	svc := New(repo, logger.New("development"))

	event := validEvent()
	event.Status = "maybe"
	err := svc.Ingest(context.Background(), "secret-key", event)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestIngestAcknowledgesRedeliveries(t *testing.T) {
	repo := newStubBillingRepo()
	repo.keyOwners[token.HashSHA256("secret-key")] = uuid.New()
	svc := New(repo, logger.New("development"))

	if err := svc.Ingest(context.Background(), "secret-key", validEvent()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Ingest(context.Background(), "secret-key", validEvent()); err != nil {
		t.Fatalf("redelivery should be acknowledged, got %v", err)
	}

	if len(repo.inserted) != 1 {
		t.Errorf("expected 1 stored transaction, got %d", len(repo.inserted))
	}
}
