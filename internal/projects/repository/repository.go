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

const projectNotFoundMsg = "project not found"

// Repository provides database operations for projects.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new projects repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Project struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Name        string
	Description *string
	ClientName  string
	ClientEmail *string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type ProjectUpdate struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Name        *string
	Description *string
	ClientName  *string
	ClientEmail *string
	Status      *string
}

type ListParams struct {
	OwnerID  uuid.UUID
	Search   string
	Status   string
	Client   string
	Page     int
	PageSize int
}

type ListResult struct {
	Items      []Project
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

const listBaseQuery = `
	FROM projects
	WHERE owner_id = $1
		AND ($2::text IS NULL OR name ILIKE $2 OR description ILIKE $2 OR client_name ILIKE $2)
		AND ($3::text IS NULL OR status = $3)
		AND ($4::text IS NULL OR client_name ILIKE $4)
`

func (r *Repository) Create(ctx context.Context, project Project) (Project, error) {
	query := `
		INSERT INTO projects (
			id, owner_id, name, description, client_name, client_email, status,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		project.ID,
		project.OwnerID,
		project.Name,
		project.Description,
		project.ClientName,
		project.ClientEmail,
		project.Status,
		project.CreatedAt,
		project.UpdatedAt,
	)
	if err != nil {
		return Project{}, fmt.Errorf("create project: %w", err)
	}

	return project, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (Project, error) {
	query := `
		SELECT id, owner_id, name, description, client_name, client_email, status,
			created_at, updated_at
		FROM projects
		WHERE id = $1 AND owner_id = $2
	`

	var project Project
	err := r.pool.QueryRow(ctx, query, id, ownerID).Scan(
		&project.ID,
		&project.OwnerID,
		&project.Name,
		&project.Description,
		&project.ClientName,
		&project.ClientEmail,
		&project.Status,
		&project.CreatedAt,
		&project.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Project{}, apperr.NotFound(projectNotFoundMsg)
		}
		return Project{}, fmt.Errorf("get project: %w", err)
	}

	return project, nil
}

func (r *Repository) Update(ctx context.Context, update ProjectUpdate) (Project, error) {
	query := `
		UPDATE projects
		SET
			name = COALESCE($3, name),
			description = COALESCE($4, description),
			client_name = COALESCE($5, client_name),
			client_email = COALESCE($6, client_email),
			status = COALESCE($7, status),
			updated_at = now()
		WHERE id = $1 AND owner_id = $2
		RETURNING id, owner_id, name, description, client_name, client_email, status,
			created_at, updated_at
	`

	var project Project
	err := r.pool.QueryRow(ctx, query,
		update.ID,
		update.OwnerID,
		update.Name,
		update.Description,
		update.ClientName,
		update.ClientEmail,
		update.Status,
	).Scan(
		&project.ID,
		&project.OwnerID,
		&project.Name,
		&project.Description,
		&project.ClientName,
		&project.ClientEmail,
		&project.Status,
		&project.CreatedAt,
		&project.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Project{}, apperr.NotFound(projectNotFoundMsg)
		}
		return Project{}, fmt.Errorf("update project: %w", err)
	}

	return project, nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error {
	query := `DELETE FROM projects WHERE id = $1 AND owner_id = $2`

	result, err := r.pool.Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(projectNotFoundMsg)
	}
	return nil
}

func (r *Repository) List(ctx context.Context, params ListParams) (ListResult, error) {
	searchParam := optionalSearch(params.Search)
	statusParam := optionalValue(params.Status)
	clientParam := optionalSearch(params.Client)

	args := []interface{}{params.OwnerID, searchParam, statusParam, clientParam}

	var total int
	countQuery := "SELECT COUNT(*) " + listBaseQuery
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return ListResult{}, fmt.Errorf("count projects: %w", err)
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
		SELECT id, owner_id, name, description, client_name, client_email, status,
			created_at, updated_at
	` + listBaseQuery + `
		ORDER BY created_at DESC, id DESC
		LIMIT $5 OFFSET $6
	`

	args = append(args, pageSize, offset)
	rows, err := r.pool.Query(ctx, selectQuery, args...)
	if err != nil {
		return ListResult{}, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	items := make([]Project, 0)
	for rows.Next() {
		var project Project
		if err := rows.Scan(
			&project.ID,
			&project.OwnerID,
			&project.Name,
			&project.Description,
			&project.ClientName,
			&project.ClientEmail,
			&project.Status,
			&project.CreatedAt,
			&project.UpdatedAt,
		); err != nil {
			return ListResult{}, fmt.Errorf("scan project: %w", err)
		}
		items = append(items, project)
	}
	if err := rows.Err(); err != nil {
		return ListResult{}, fmt.Errorf("iterate projects: %w", err)
	}

	return ListResult{
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

func optionalValue(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
