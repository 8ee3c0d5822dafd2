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

const approvalNotFoundMsg = "approval request not found"

// Statuses an approval request moves through. A request is decided at most
// once; expired requests can no longer be decided.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusDeclined = "declined"
	StatusExpired  = "expired"
)

// Repository provides database operations for approval requests.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new approvals repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Approval struct {
	ID            uuid.UUID
	OwnerID       uuid.UUID
	ProjectID     uuid.UUID
	TemplateID    *uuid.UUID
	Title         string
	Description   *string
	ClientEmail   *string
	Status        string
	TokenHash     string
	Deadline      *time.Time
	DecidedAt     *time.Time
	DecidedOption *uuid.UUID
	ClientComment *string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Options []Option
}

type Option struct {
	ID          uuid.UUID
	ApprovalID  uuid.UUID
	Label       string
	Description *string
	Position    int
}

type Decision struct {
	ApprovalID uuid.UUID
	Status     string
	OptionID   *uuid.UUID
	Comment    *string
}

// ReminderState is the minimal snapshot the scheduler worker needs when a
// reminder task fires.
type ReminderState struct {
	Status      string
	Title       string
	ClientEmail string
	Deadline    *time.Time
}

type ListParams struct {
	OwnerID   uuid.UUID
	Search    string
	Status    string
	ProjectID *uuid.UUID
	Page      int
	PageSize  int
}

type ListResult struct {
	Items      []Approval
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

const listBaseQuery = `
	FROM approval_requests
	WHERE owner_id = $1
		AND ($2::text IS NULL OR title ILIKE $2 OR description ILIKE $2)
		AND ($3::text IS NULL OR status = $3)
		AND ($4::uuid IS NULL OR project_id = $4)
`

const approvalColumns = `id, owner_id, project_id, template_id, title, description,
		client_email, status, token_hash, deadline, decided_at, decided_option_id,
		client_comment, created_at, updated_at`

func (r *Repository) Create(ctx context.Context, approval Approval) (Approval, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Approval{}, fmt.Errorf("begin create approval: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO approval_requests (
			id, owner_id, project_id, template_id, title, description, client_email,
			status, token_hash, deadline, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		approval.ID,
		approval.OwnerID,
		approval.ProjectID,
		approval.TemplateID,
		approval.Title,
		approval.Description,
		approval.ClientEmail,
		approval.Status,
		approval.TokenHash,
		approval.Deadline,
		approval.CreatedAt,
		approval.UpdatedAt,
	)
	if err != nil {
		return Approval{}, fmt.Errorf("create approval: %w", err)
	}

	for _, option := range approval.Options {
		if _, err := tx.Exec(ctx, `
			INSERT INTO approval_options (id, approval_id, label, description, position)
			VALUES ($1, $2, $3, $4, $5)
		`, option.ID, option.ApprovalID, option.Label, option.Description, option.Position); err != nil {
			return Approval{}, fmt.Errorf("create approval option: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Approval{}, fmt.Errorf("commit create approval: %w", err)
	}

	return approval, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (Approval, error) {
	query := `SELECT ` + approvalColumns + `
		FROM approval_requests
		WHERE id = $1 AND owner_id = $2`

	approval, err := r.scanOne(r.pool.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		return Approval{}, err
	}

	return r.attachOptions(ctx, approval)
}

func (r *Repository) GetByTokenHash(ctx context.Context, tokenHash string) (Approval, error) {
	query := `SELECT ` + approvalColumns + `
		FROM approval_requests
		WHERE token_hash = $1`

	approval, err := r.scanOne(r.pool.QueryRow(ctx, query, tokenHash))
	if err != nil {
		return Approval{}, err
	}

	return r.attachOptions(ctx, approval)
}

// Decide records a client decision. The status guard makes the operation
// first-write-wins: a second decision attempt affects zero rows.
func (r *Repository) Decide(ctx context.Context, decision Decision) (Approval, error) {
	query := `
		UPDATE approval_requests
		SET status = $2, decided_at = now(), decided_option_id = $3,
			client_comment = $4, updated_at = now()
		WHERE id = $1 AND status = $5
		RETURNING ` + approvalColumns

	approval, err := r.scanOne(r.pool.QueryRow(ctx, query,
		decision.ApprovalID,
		decision.Status,
		decision.OptionID,
		decision.Comment,
		StatusPending,
	))
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return Approval{}, apperr.Conflict("approval request already decided")
		}
		return Approval{}, err
	}

	return r.attachOptions(ctx, approval)
}

func (r *Repository) MarkExpired(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE approval_requests
		SET status = $2, updated_at = now()
		WHERE id = $1 AND status = $3
	`, id, StatusExpired, StatusPending)
	if err != nil {
		return fmt.Errorf("mark approval expired: %w", err)
	}
	return nil
}

func (r *Repository) GetReminderState(ctx context.Context, id uuid.UUID) (ReminderState, error) {
	var state ReminderState
	var clientEmail *string
	err := r.pool.QueryRow(ctx, `
		SELECT status, title, client_email, deadline
		FROM approval_requests
		WHERE id = $1
	`, id).Scan(&state.Status, &state.Title, &clientEmail, &state.Deadline)
	if errors.Is(err, pgx.ErrNoRows) {
		return ReminderState{}, apperr.NotFound(approvalNotFoundMsg)
	}
	if err != nil {
		return ReminderState{}, fmt.Errorf("get reminder state: %w", err)
	}
	if clientEmail != nil {
		state.ClientEmail = *clientEmail
	}
	return state, nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error {
	query := `DELETE FROM approval_requests WHERE id = $1 AND owner_id = $2`

	result, err := r.pool.Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete approval: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(approvalNotFoundMsg)
	}
	return nil
}

func (r *Repository) List(ctx context.Context, params ListParams) (ListResult, error) {
	searchParam := optionalSearch(params.Search)
	statusParam := optionalValue(params.Status)

	args := []interface{}{params.OwnerID, searchParam, statusParam, params.ProjectID}

	var total int
	countQuery := "SELECT COUNT(*) " + listBaseQuery
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return ListResult{}, fmt.Errorf("count approvals: %w", err)
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

	selectQuery := `SELECT ` + approvalColumns + `
	` + listBaseQuery + `
		ORDER BY created_at DESC, id DESC
		LIMIT $5 OFFSET $6
	`

	args = append(args, pageSize, offset)
	rows, err := r.pool.Query(ctx, selectQuery, args...)
	if err != nil {
		return ListResult{}, fmt.Errorf("list approvals: %w", err)
	}
	defer rows.Close()

	items := make([]Approval, 0)
	for rows.Next() {
		approval, err := r.scanOne(rows)
		if err != nil {
			return ListResult{}, err
		}
		items = append(items, approval)
	}
	if err := rows.Err(); err != nil {
		return ListResult{}, fmt.Errorf("iterate approvals: %w", err)
	}

	return ListResult{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: pageTotal,
	}, nil
}

func (r *Repository) attachOptions(ctx context.Context, approval Approval) (Approval, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, approval_id, label, description, position
		FROM approval_options
		WHERE approval_id = $1
		ORDER BY position ASC
	`, approval.ID)
	if err != nil {
		return Approval{}, fmt.Errorf("get approval options: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var option Option
		if err := rows.Scan(&option.ID, &option.ApprovalID, &option.Label, &option.Description, &option.Position); err != nil {
			return Approval{}, fmt.Errorf("scan approval option: %w", err)
		}
		approval.Options = append(approval.Options, option)
	}
	if err := rows.Err(); err != nil {
		return Approval{}, fmt.Errorf("iterate approval options: %w", err)
	}

	return approval, nil
}

func (r *Repository) scanOne(row pgx.Row) (Approval, error) {
	var approval Approval
	err := row.Scan(
		&approval.ID,
		&approval.OwnerID,
		&approval.ProjectID,
		&approval.TemplateID,
		&approval.Title,
		&approval.Description,
		&approval.ClientEmail,
		&approval.Status,
		&approval.TokenHash,
		&approval.Deadline,
		&approval.DecidedAt,
		&approval.DecidedOption,
		&approval.ClientComment,
		&approval.CreatedAt,
		&approval.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Approval{}, apperr.NotFound(approvalNotFoundMsg)
		}
		return Approval{}, fmt.Errorf("scan approval: %w", err)
	}
	return approval, nil
}

func optionalSearch(term string) *string {
	if term == "" {
		return nil
	}
	pattern := "%" + term + "%"
	return &pattern
}

func optionalValue(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
