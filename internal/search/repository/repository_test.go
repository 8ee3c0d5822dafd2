package repository

import (
	"strings"
	"testing"
	"time"

	"archject_backend/internal/search/service"

	"github.com/google/uuid"
)

func TestBuildSearchWhereIsOwnerScopedFirst(t *testing.T) {
	where, args := buildSearchWhere(service.TypeQuery{OwnerID: uuid.New()}, searchSpec{
		textColumns: []string{"name"},
	})

	if !strings.HasPrefix(where, "WHERE owner_id = $1") {
		t.Fatalf("ownership must be the first predicate, got %q", where)
	}
	if len(args) != 1 {
		t.Fatalf("expected 1 arg for bare query, got %d", len(args))
	}
}

func TestBuildSearchWhereNumbersPlaceholdersSequentially(t *testing.T) {
	pattern := "%acme%"
	clientPattern := "%smith%"
	projectID := uuid.New()
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	where, args := buildSearchWhere(service.TypeQuery{
		OwnerID:       uuid.New(),
		Pattern:       &pattern,
		Statuses:      []string{"pending", "approved"},
		ProjectID:     &projectID,
		ClientPattern: &clientPattern,
		DateFrom:      &from,
		DateTo:        &to,
	}, searchSpec{
		textColumns:     []string{"title", "description"},
		clientColumn:    "client_name",
		projectIDColumn: "project_id",
	})

	expectedFragments := []string{
		"owner_id = $1",
		"(title ILIKE $2 OR description ILIKE $2)",
		"status = ANY($3)",
		"project_id = $4",
		"client_name ILIKE $5",
		"created_at >= $6",
		"created_at <= $7",
	}
	for _, fragment := range expectedFragments {
		if !strings.Contains(where, fragment) {
			t.Fatalf("expected fragment %q in %q", fragment, where)
		}
	}
	if len(args) != 7 {
		t.Fatalf("expected 7 args, got %d", len(args))
	}
}

func TestBuildSearchWhereSkipsFiltersTheTypeLacks(t *testing.T) {
	clientPattern := "%smith%"
	projectID := uuid.New()

	// A type with no client or project column must ignore both filters even
	// when they are set on the query.
	where, args := buildSearchWhere(service.TypeQuery{
		OwnerID:       uuid.New(),
		ProjectID:     &projectID,
		ClientPattern: &clientPattern,
	}, searchSpec{
		textColumns: []string{"name"},
	})

	if strings.Contains(where, "client_name") || strings.Contains(where, "project_id") {
		t.Fatalf("type-specific filters leaked into %q", where)
	}
	if len(args) != 1 {
		t.Fatalf("expected only the owner arg, got %d", len(args))
	}
}

func TestBuildSearchWhereDateBoundsAreInclusive(t *testing.T) {
	from := time.Now()
	where, _ := buildSearchWhere(service.TypeQuery{OwnerID: uuid.New(), DateFrom: &from, DateTo: &from}, searchSpec{
		textColumns: []string{"name"},
	})

	if !strings.Contains(where, ">=") || !strings.Contains(where, "<=") {
		t.Fatalf("date bounds must be inclusive, got %q", where)
	}
}
