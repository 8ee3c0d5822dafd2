package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides cross-tenant queries for admin operations. Unlike the
// other repositories it is deliberately not owner-scoped.
type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type StatusCount struct {
	Status string
	Count  int
}

type Stats struct {
	Users              int
	Projects           int
	Templates          int
	DecisionsLast30d   int
	BillingVolumeCents int64
	ApprovalsByStatus  []StatusCount
}

type UserRow struct {
	ID        uuid.UUID
	Email     string
	Name      string
	Roles     []string
	CreatedAt time.Time
}

type ListUsersParams struct {
	Search   string
	Page     int
	PageSize int
}

type ListUsersResult struct {
	Items      []UserRow
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

const listUsersBaseQuery = `
	FROM users u
	WHERE ($1::text IS NULL OR u.email ILIKE $1 OR u.name ILIKE $1)
`

const approvalsByStatusQuery = `
	SELECT status, COUNT(*)
	FROM approval_requests
	GROUP BY status
	ORDER BY status`

func (r *Repository) GetStats(ctx context.Context) (Stats, error) {
	var stats Stats

	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM projects),
			(SELECT COUNT(*) FROM templates),
			(SELECT COUNT(*) FROM approval_requests
				WHERE decided_at >= now() - interval '30 days'),
			(SELECT COALESCE(SUM(amount_cents), 0) FROM transactions
				WHERE status = 'succeeded')
	`).Scan(&stats.Users, &stats.Projects, &stats.Templates, &stats.DecisionsLast30d, &stats.BillingVolumeCents)
	if err != nil {
		return Stats{}, fmt.Errorf("count entities: %w", err)
	}

	rows, err := r.pool.Query(ctx, approvalsByStatusQuery)
	if err != nil {
		return Stats{}, fmt.Errorf("count approvals by status: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sc StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return Stats{}, fmt.Errorf("scan status count: %w", err)
		}
		stats.ApprovalsByStatus = append(stats.ApprovalsByStatus, sc)
	}
	if err := rows.Err(); err != nil {
		return Stats{}, fmt.Errorf("iterate status counts: %w", err)
	}

	return stats, nil
}

func (r *Repository) ListUsers(ctx context.Context, params ListUsersParams) (ListUsersResult, error) {
	searchParam := optionalSearch(params.Search)
	args := []interface{}{searchParam}

	var total int
	countQuery := "SELECT COUNT(*) " + listUsersBaseQuery
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return ListUsersResult{}, fmt.Errorf("count users: %w", err)
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
		SELECT u.id, u.email, u.name,
			COALESCE(array_agg(ur.role ORDER BY ur.role) FILTER (WHERE ur.role IS NOT NULL), '{}'),
			u.created_at
		FROM users u
		LEFT JOIN user_roles ur ON ur.user_id = u.id
		WHERE ($1::text IS NULL OR u.email ILIKE $1 OR u.name ILIKE $1)
		GROUP BY u.id, u.email, u.name, u.created_at
		ORDER BY u.created_at DESC, u.id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, selectQuery, searchParam, pageSize, offset)
	if err != nil {
		return ListUsersResult{}, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	items := make([]UserRow, 0)
	for rows.Next() {
		var row UserRow
		if err := rows.Scan(&row.ID, &row.Email, &row.Name, &row.Roles, &row.CreatedAt); err != nil {
			return ListUsersResult{}, fmt.Errorf("scan user row: %w", err)
		}
		items = append(items, row)
	}
	if err := rows.Err(); err != nil {
		return ListUsersResult{}, fmt.Errorf("iterate users: %w", err)
	}

	return ListUsersResult{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: pageTotal,
	}, nil
}

func optionalSearch(term string) *string {
	if term == "" {
		return nil
	}
	pattern := "%" + term + "%"
	return &pattern
}
