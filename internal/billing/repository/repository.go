package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"archject_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides database operations for billing transactions and
// webhook key lookups.
type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Transaction struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	ExternalID  string
	Type        string
	AmountCents int64
	Currency    string
	Status      string
	Description *string
	OccurredAt  time.Time
	CreatedAt   time.Time
}

type ListParams struct {
	OwnerID  uuid.UUID
	Status   string
	Page     int
	PageSize int
}

type ListResult struct {
	Items      []Transaction
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

const listBaseQuery = `
	FROM transactions
	WHERE owner_id = $1
		AND ($2::text IS NULL OR status = $2)
`

const getWebhookKeyOwnerQuery = `
	SELECT owner_id
	FROM webhook_keys
	WHERE key_hash = $1 AND revoked_at IS NULL`

// Insert stores an incoming transaction. Repeated deliveries of the same
// external event are deduplicated on (owner_id, external_id).
func (r *Repository) Insert(ctx context.Context, tx Transaction) (bool, error) {
	result, err := r.pool.Exec(ctx, `
		INSERT INTO transactions (
			id, owner_id, external_id, type, amount_cents, currency, status,
			description, occurred_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (owner_id, external_id) DO NOTHING
	`,
		tx.ID,
		tx.OwnerID,
		tx.ExternalID,
		tx.Type,
		tx.AmountCents,
		tx.Currency,
		tx.Status,
		tx.Description,
		tx.OccurredAt,
		tx.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert transaction: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

func (r *Repository) List(ctx context.Context, params ListParams) (ListResult, error) {
	statusParam := optionalValue(params.Status)
	args := []interface{}{params.OwnerID, statusParam}

	var total int
	countQuery := "SELECT COUNT(*) " + listBaseQuery
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return ListResult{}, fmt.Errorf("count transactions: %w", err)
	}

	page := params.Page
	pageSize := params.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	offset := (page - 1) * pageSize
	pageTotal := 0
	if pageSize > 0 {
		pageTotal = (total + pageSize - 1) / pageSize
	}

	selectQuery := `
		SELECT id, owner_id, external_id, type, amount_cents, currency, status,
			description, occurred_at, created_at
	` + listBaseQuery + `
		ORDER BY occurred_at DESC, id DESC
		LIMIT $3 OFFSET $4
	`

	args = append(args, pageSize, offset)
	rows, err := r.pool.Query(ctx, selectQuery, args...)
	if err != nil {
		return ListResult{}, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	items := make([]Transaction, 0)
	for rows.Next() {
		var tx Transaction
		if err := rows.Scan(
			&tx.ID,
			&tx.OwnerID,
			&tx.ExternalID,
			&tx.Type,
			&tx.AmountCents,
			&tx.Currency,
			&tx.Status,
			&tx.Description,
			&tx.OccurredAt,
			&tx.CreatedAt,
		); err != nil {
			return ListResult{}, fmt.Errorf("scan transaction: %w", err)
		}
		items = append(items, tx)
	}
	if err := rows.Err(); err != nil {
		return ListResult{}, fmt.Errorf("iterate transactions: %w", err)
	}

	return ListResult{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: pageTotal,
	}, nil
}

// GetWebhookKeyOwner resolves a hashed webhook key to the account it is
// bound to.
func (r *Repository) GetWebhookKeyOwner(ctx context.Context, keyHash string) (uuid.UUID, error) {
	var ownerID uuid.UUID
	err := r.pool.QueryRow(ctx, getWebhookKeyOwnerQuery, keyHash).Scan(&ownerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, apperr.Unauthorized("unknown webhook key")
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("get webhook key owner: %w", err)
	}
	return ownerID, nil
}

func optionalValue(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
