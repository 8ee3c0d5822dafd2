package repository

import (
	"context"

	"github.com/google/uuid"
)

// BillingRepository defines the interface for transaction data operations.
// Services depend on this abstraction so tests can substitute a stub.
type BillingRepository interface {
	Insert(ctx context.Context, tx Transaction) (bool, error)
	List(ctx context.Context, params ListParams) (ListResult, error)
	GetWebhookKeyOwner(ctx context.Context, keyHash string) (uuid.UUID, error)
}

var _ BillingRepository = (*Repository)(nil)
