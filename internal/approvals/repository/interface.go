package repository

import (
	"context"

	"github.com/google/uuid"
)

// ApprovalsRepository defines the interface for approval data operations.
// Services depend on this abstraction so tests can substitute a stub.
type ApprovalsRepository interface {
	Create(ctx context.Context, approval Approval) (Approval, error)
	GetByID(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (Approval, error)
	GetByTokenHash(ctx context.Context, tokenHash string) (Approval, error)
	List(ctx context.Context, params ListParams) (ListResult, error)
	Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error

	Decide(ctx context.Context, decision Decision) (Approval, error)
	MarkExpired(ctx context.Context, id uuid.UUID) error
	GetReminderState(ctx context.Context, id uuid.UUID) (ReminderState, error)
}

var _ ApprovalsRepository = (*Repository)(nil)
