package service

import (
	"context"
	"sort"
	"time"

	"archject_backend/internal/search/transport"
	"archject_backend/platform/apperr"
	"archject_backend/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Entity types the search spans.
const (
	TypeProject  = "project"
	TypeApproval = "approval"
	TypeTemplate = "template"
)

const (
	defaultLimit = 20
	maxLimit     = 50
)

// Item is one entity row normalized into the common result shape. Optional
// fields are nil for entity types that lack them.
type Item struct {
	ID          uuid.UUID
	Type        string
	Title       string
	Description *string
	Status      *string
	ClientName  *string
	ProjectID   *uuid.UUID
	Deadline    *time.Time
	CreatedAt   time.Time
}

// TypeQuery is the per-entity-type slice of a search, ready for execution:
// the text pattern is already escaped and wrapped in wildcards.
type TypeQuery struct {
	OwnerID       uuid.UUID
	Pattern       *string
	Statuses      []string
	ProjectID     *uuid.UUID
	ClientPattern *string
	DateFrom      *time.Time
	DateTo        *time.Time
	FetchLimit    int
}

// EntitySearcher executes one entity type's query and its unbounded match
// count. Implementations must scope every query to TypeQuery.OwnerID.
type EntitySearcher interface {
	SearchProjects(ctx context.Context, q TypeQuery) ([]Item, int, error)
	SearchApprovals(ctx context.Context, q TypeQuery) ([]Item, int, error)
	SearchTemplates(ctx context.Context, q TypeQuery) ([]Item, int, error)
}

// Query is the normalized-input side of a search request.
type Query struct {
	Text       string
	EntityType string
	Statuses   []string
	ProjectID  *uuid.UUID
	Client     string
	DateFrom   *time.Time
	DateTo     *time.Time
	Page       int
	Limit      int
}

type Service struct {
	searcher EntitySearcher
	log      *logger.Logger
}

func New(searcher EntitySearcher, log *logger.Logger) *Service {
	return &Service{searcher: searcher, log: log}
}

// Search runs the cross-entity query for one caller. Entity-type queries fan
// out concurrently; a failing type degrades to zero results and zero count
// rather than failing the whole request.
func (s *Service) Search(ctx context.Context, ownerID uuid.UUID, query Query) (transport.SearchResponse, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	limit := query.Limit
	if limit == 0 {
		limit = defaultLimit
	}
	if limit < 1 {
		limit = 1
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	types, err := resolveTypes(query.EntityType)
	if err != nil {
		return transport.SearchResponse{}, err
	}

	pattern := textPattern(query.Text)

	// Each type fetches the first page*limit rows so the global window below
	// is exact: any row belonging to the requested page is within the first
	// page*limit rows of at least one type's recency ordering.
	typeQuery := TypeQuery{
		OwnerID:    ownerID,
		Pattern:    pattern,
		Statuses:   query.Statuses,
		DateFrom:   query.DateFrom,
		DateTo:     query.DateTo,
		FetchLimit: page * limit,
	}

	type typeResult struct {
		items []Item
		count int
	}
	results := make([]typeResult, len(types))

	g, gctx := errgroup.WithContext(ctx)
	for i, entityType := range types {
		i, entityType := i, entityType
		g.Go(func() error {
			items, count, err := s.searchType(gctx, entityType, typeQuery, query)
			if err != nil {
				s.log.SearchDegraded(entityType, err)
				return nil
			}
			results[i] = typeResult{items: items, count: count}
			return nil
		})
	}
	_ = g.Wait()

	var merged []Item
	total := 0
	for _, result := range results {
		merged = append(merged, result.items...)
		total += result.count
	}

	sortByRecency(merged)

	start := (page - 1) * limit
	end := page * limit
	if start > len(merged) {
		start = len(merged)
	}
	if end > len(merged) {
		end = len(merged)
	}
	window := merged[start:end]

	items := make([]transport.SearchResultItem, 0, len(window))
	for _, item := range window {
		items = append(items, toResultItem(item))
	}

	return transport.SearchResponse{
		Results: items,
		Total:   total,
		Page:    page,
		Limit:   limit,
	}, nil
}

func (s *Service) searchType(ctx context.Context, entityType string, base TypeQuery, query Query) ([]Item, int, error) {
	typeQuery := base
	switch entityType {
	case TypeProject:
		// Client-name filter applies to projects only.
		typeQuery.ClientPattern = textPattern(query.Client)
		return s.searcher.SearchProjects(ctx, typeQuery)
	case TypeApproval:
		// Project scoping applies to approvals only.
		typeQuery.ProjectID = query.ProjectID
		return s.searcher.SearchApprovals(ctx, typeQuery)
	case TypeTemplate:
		return s.searcher.SearchTemplates(ctx, typeQuery)
	default:
		return nil, 0, apperr.BadRequest("unknown entity type")
	}
}

// resolveTypes maps the request's entity_type field to the set of types to
// query. Templates are opt-in: they are excluded from the default set so the
// common dashboard search stays on the two primary collections.
func resolveTypes(entityType string) ([]string, error) {
	switch entityType {
	case "":
		return []string{TypeProject, TypeApproval}, nil
	case TypeProject, TypeApproval, TypeTemplate:
		return []string{entityType}, nil
	default:
		return nil, apperr.BadRequest("invalid entity_type")
	}
}

func textPattern(term string) *string {
	normalized := NormalizeText(term)
	if normalized == "" {
		return nil
	}
	pattern := "%" + EscapeLike(normalized) + "%"
	return &pattern
}

// sortByRecency orders items newest-first by creation time with the ID as a
// deterministic tiebreak, so identical queries always return identical order.
func sortByRecency(items []Item) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID.String() > items[j].ID.String()
	})
}

func toResultItem(item Item) transport.SearchResultItem {
	result := transport.SearchResultItem{
		ID:          item.ID.String(),
		Type:        item.Type,
		Title:       item.Title,
		Description: item.Description,
		Status:      item.Status,
		ClientName:  item.ClientName,
		CreatedAt:   item.CreatedAt,
	}
	if item.ProjectID != nil {
		id := item.ProjectID.String()
		result.ProjectID = &id
	}
	if item.Deadline != nil {
		result.Deadline = item.Deadline
	}
	return result
}
