package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"archject_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const templateNotFoundMsg = "template not found"

// Repository provides database operations for approval templates.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new templates repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Option is one reusable choice offered by a template. Options are copied
// into approval requests at creation time, so later template edits never
// change approvals already sent out.
type Option struct {
	Label       string  `json:"label"`
	Description *string `json:"description,omitempty"`
}

type Template struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Name        string
	Description *string
	Options     []Option
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type TemplateUpdate struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Name        *string
	Description *string
	Options     []Option
	Status      *string
}

type ListParams struct {
	OwnerID  uuid.UUID
	Search   string
	Status   string
	Page     int
	PageSize int
}

type ListResult struct {
	Items      []Template
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

const listBaseQuery = `
	FROM templates
	WHERE owner_id = $1
		AND ($2::text IS NULL OR name ILIKE $2 OR description ILIKE $2)
		AND ($3::text IS NULL OR status = $3)
`

func (r *Repository) Create(ctx context.Context, template Template) (Template, error) {
	optionsJSON, err := json.Marshal(template.Options)
	if err != nil {
		return Template{}, fmt.Errorf("marshal template options: %w", err)
	}

	query := `
		INSERT INTO templates (
			id, owner_id, name, description, options, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = r.pool.Exec(ctx, query,
		template.ID,
		template.OwnerID,
		template.Name,
		template.Description,
		optionsJSON,
		template.Status,
		template.CreatedAt,
		template.UpdatedAt,
	)
	if err != nil {
		return Template{}, fmt.Errorf("create template: %w", err)
	}

	return template, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (Template, error) {
	query := `
		SELECT id, owner_id, name, description, options, status, created_at, updated_at
		FROM templates
		WHERE id = $1 AND owner_id = $2
	`

	return r.scanOne(r.pool.QueryRow(ctx, query, id, ownerID))
}

func (r *Repository) Update(ctx context.Context, update TemplateUpdate) (Template, error) {
	var optionsJSON []byte
	if update.Options != nil {
		data, err := json.Marshal(update.Options)
		if err != nil {
			return Template{}, fmt.Errorf("marshal template options: %w", err)
		}
		optionsJSON = data
	}

	query := `
		UPDATE templates
		SET
			name = COALESCE($3, name),
			description = COALESCE($4, description),
			options = COALESCE($5, options),
			status = COALESCE($6, status),
			updated_at = now()
		WHERE id = $1 AND owner_id = $2
		RETURNING id, owner_id, name, description, options, status, created_at, updated_at
	`

	return r.scanOne(r.pool.QueryRow(ctx, query,
		update.ID,
		update.OwnerID,
		update.Name,
		update.Description,
		optionsJSON,
		update.Status,
	))
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error {
	query := `DELETE FROM templates WHERE id = $1 AND owner_id = $2`

	result, err := r.pool.Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(templateNotFoundMsg)
	}
	return nil
}

func (r *Repository) List(ctx context.Context, params ListParams) (ListResult, error) {
	searchParam := optionalSearch(params.Search)
	statusParam := optionalValue(params.Status)

	args := []interface{}{params.OwnerID, searchParam, statusParam}

	var total int
	countQuery := "SELECT COUNT(*) " + listBaseQuery
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return ListResult{}, fmt.Errorf("count templates: %w", err)
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
		SELECT id, owner_id, name, description, options, status, created_at, updated_at
	` + listBaseQuery + `
		ORDER BY created_at DESC, id DESC
		LIMIT $4 OFFSET $5
	`

	args = append(args, pageSize, offset)
	rows, err := r.pool.Query(ctx, selectQuery, args...)
	if err != nil {
		return ListResult{}, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	items := make([]Template, 0)
	for rows.Next() {
		template, err := r.scanOne(rows)
		if err != nil {
			return ListResult{}, err
		}
		items = append(items, template)
	}
	if err := rows.Err(); err != nil {
		return ListResult{}, fmt.Errorf("iterate templates: %w", err)
	}

	return ListResult{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: pageTotal,
	}, nil
}

func (r *Repository) scanOne(row pgx.Row) (Template, error) {
	var template Template
	var optionsJSON []byte
	err := row.Scan(
		&template.ID,
		&template.OwnerID,
		&template.Name,
		&template.Description,
		&optionsJSON,
		&template.Status,
		&template.CreatedAt,
		&template.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Template{}, apperr.NotFound(templateNotFoundMsg)
		}
		return Template{}, fmt.Errorf("scan template: %w", err)
	}

	if len(optionsJSON) > 0 {
		if err := json.Unmarshal(optionsJSON, &template.Options); err != nil {
			return Template{}, fmt.Errorf("unmarshal template options: %w", err)
		}
	}

	return template, nil
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
