package repository

import (
	"context"
	"fmt"
	"strings"

	"archject_backend/internal/search/service"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository executes cross-entity search queries against Postgres. It
// implements service.EntitySearcher.
type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

var _ service.EntitySearcher = (*Repository)(nil)

func (r *Repository) SearchProjects(ctx context.Context, q service.TypeQuery) ([]service.Item, int, error) {
	where, args := buildSearchWhere(q, searchSpec{
		textColumns:  []string{"name", "description", "client_name"},
		clientColumn: "client_name",
	})

	selectQuery := `
		SELECT id, name, description, status, client_name, created_at
		FROM projects
		` + where + `
		ORDER BY created_at DESC, id DESC
		LIMIT ` + fmt.Sprintf("$%d", len(args)+1)

	countQuery := "SELECT COUNT(*) FROM projects " + where

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count projects: %w", err)
	}

	rows, err := r.pool.Query(ctx, selectQuery, append(args, q.FetchLimit)...)
	if err != nil {
		return nil, 0, fmt.Errorf("search projects: %w", err)
	}
	defer rows.Close()

	items := make([]service.Item, 0)
	for rows.Next() {
		item := service.Item{Type: service.TypeProject}
		var status string
		var clientName string
		if err := rows.Scan(&item.ID, &item.Title, &item.Description, &status, &clientName, &item.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan project result: %w", err)
		}
		item.Status = &status
		item.ClientName = &clientName
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate project results: %w", err)
	}

	return items, total, nil
}

func (r *Repository) SearchApprovals(ctx context.Context, q service.TypeQuery) ([]service.Item, int, error) {
	where, args := buildSearchWhere(q, searchSpec{
		textColumns:     []string{"title", "description"},
		projectIDColumn: "project_id",
	})

	selectQuery := `
		SELECT id, title, description, status, project_id, deadline, created_at
		FROM approval_requests
		` + where + `
		ORDER BY created_at DESC, id DESC
		LIMIT ` + fmt.Sprintf("$%d", len(args)+1)

	countQuery := "SELECT COUNT(*) FROM approval_requests " + where

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count approvals: %w", err)
	}

	rows, err := r.pool.Query(ctx, selectQuery, append(args, q.FetchLimit)...)
	if err != nil {
		return nil, 0, fmt.Errorf("search approvals: %w", err)
	}
	defer rows.Close()

	items := make([]service.Item, 0)
	for rows.Next() {
		item := service.Item{Type: service.TypeApproval}
		var status string
		if err := rows.Scan(&item.ID, &item.Title, &item.Description, &status, &item.ProjectID, &item.Deadline, &item.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan approval result: %w", err)
		}
		item.Status = &status
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate approval results: %w", err)
	}

	return items, total, nil
}

func (r *Repository) SearchTemplates(ctx context.Context, q service.TypeQuery) ([]service.Item, int, error) {
	where, args := buildSearchWhere(q, searchSpec{
		textColumns: []string{"name", "description"},
	})

	selectQuery := `
		SELECT id, name, description, created_at
		FROM templates
		` + where + `
		ORDER BY created_at DESC, id DESC
		LIMIT ` + fmt.Sprintf("$%d", len(args)+1)

	countQuery := "SELECT COUNT(*) FROM templates " + where

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count templates: %w", err)
	}

	rows, err := r.pool.Query(ctx, selectQuery, append(args, q.FetchLimit)...)
	if err != nil {
		return nil, 0, fmt.Errorf("search templates: %w", err)
	}
	defer rows.Close()

	items := make([]service.Item, 0)
	for rows.Next() {
		item := service.Item{Type: service.TypeTemplate}
		if err := rows.Scan(&item.ID, &item.Title, &item.Description, &item.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan template result: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate template results: %w", err)
	}

	return items, total, nil
}

type searchSpec struct {
	textColumns     []string
	clientColumn    string
	projectIDColumn string
}

// buildSearchWhere assembles the WHERE clause for one entity type. Ownership
// is always the first predicate. Date bounds are inclusive on both ends.
func buildSearchWhere(q service.TypeQuery, spec searchSpec) (string, []interface{}) {
	whereClauses := []string{"owner_id = $1"}
	args := []interface{}{q.OwnerID}
	argIdx := 2

	add := func(clause string, value interface{}) {
		whereClauses = append(whereClauses, clause)
		args = append(args, value)
		argIdx++
	}

	if q.Pattern != nil {
		orParts := make([]string, 0, len(spec.textColumns))
		for _, column := range spec.textColumns {
			orParts = append(orParts, fmt.Sprintf("%s ILIKE $%d", column, argIdx))
		}
		add("("+strings.Join(orParts, " OR ")+")", *q.Pattern)
	}

	if len(q.Statuses) > 0 {
		add(fmt.Sprintf("status = ANY($%d)", argIdx), q.Statuses)
	}

	if spec.projectIDColumn != "" && q.ProjectID != nil {
		add(fmt.Sprintf("%s = $%d", spec.projectIDColumn, argIdx), *q.ProjectID)
	}

	if spec.clientColumn != "" && q.ClientPattern != nil {
		add(fmt.Sprintf("%s ILIKE $%d", spec.clientColumn, argIdx), *q.ClientPattern)
	}

	if q.DateFrom != nil {
		add(fmt.Sprintf("created_at >= $%d", argIdx), *q.DateFrom)
	}
	if q.DateTo != nil {
		add(fmt.Sprintf("created_at <= $%d", argIdx), *q.DateTo)
	}

	return "WHERE " + strings.Join(whereClauses, " AND "), args
}
