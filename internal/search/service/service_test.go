package service

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"archject_backend/platform/apperr"
	"archject_backend/platform/logger"

	"github.com/google/uuid"
)

// stubSearcher returns canned per-type results and records the queries it
// received, so tests can assert on both sides of the service boundary.
type stubSearcher struct {
	projects      []Item
	projectCount  int
	projectErr    error
	approvals     []Item
	approvalCount int
	approvalErr   error
	templates     []Item
	templateCount int
	templateErr   error

	projectQuery  *TypeQuery
	approvalQuery *TypeQuery
	templateQuery *TypeQuery
}

func (s *stubSearcher) SearchProjects(_ context.Context, q TypeQuery) ([]Item, int, error) {
	s.projectQuery = &q
	if s.projectErr != nil {
		return nil, 0, s.projectErr
	}
	return bounded(s.projects, q.FetchLimit), s.projectCount, nil
}

func (s *stubSearcher) SearchApprovals(_ context.Context, q TypeQuery) ([]Item, int, error) {
	s.approvalQuery = &q
	if s.approvalErr != nil {
		return nil, 0, s.approvalErr
	}
	return bounded(s.approvals, q.FetchLimit), s.approvalCount, nil
}

func (s *stubSearcher) SearchTemplates(_ context.Context, q TypeQuery) ([]Item, int, error) {
	s.templateQuery = &q
	if s.templateErr != nil {
		return nil, 0, s.templateErr
	}
	return bounded(s.templates, q.FetchLimit), s.templateCount, nil
}

func bounded(items []Item, limit int) []Item {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

func newTestService(searcher EntitySearcher) *Service {
	return New(searcher, logger.New("development"))
}

func item(entityType string, createdAt time.Time) Item {
	return Item{ID: uuid.New(), Type: entityType, Title: "x", CreatedAt: createdAt}
}

func TestSearchNormalizesPageAndLimit(t *testing.T) {
	cases := []struct {
		page, limit         int
		wantPage, wantLimit int
	}{
		{0, 0, 1, 20},
		{-5, -1, 1, 1},
		{1, 200, 1, 50},
		{3, 50, 3, 50},
		{2, 10, 2, 10},
	}

	for _, tc := range cases {
		stub := &stubSearcher{}
		resp, err := newTestService(stub).Search(context.Background(), uuid.New(), Query{Page: tc.page, Limit: tc.limit})
		if err != nil {
			t.Fatalf("search failed: %v", err)
		}
		if resp.Page != tc.wantPage || resp.Limit != tc.wantLimit {
			t.Fatalf("page=%d limit=%d: got (%d,%d), want (%d,%d)",
				tc.page, tc.limit, resp.Page, resp.Limit, tc.wantPage, tc.wantLimit)
		}
	}
}

func TestSearchScopesEveryTypeQueryToTheCaller(t *testing.T) {
	ownerID := uuid.New()
	stub := &stubSearcher{}

	if _, err := newTestService(stub).Search(context.Background(), ownerID, Query{}); err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if stub.projectQuery == nil || stub.projectQuery.OwnerID != ownerID {
		t.Fatal("project query not scoped to caller")
	}
	if stub.approvalQuery == nil || stub.approvalQuery.OwnerID != ownerID {
		t.Fatal("approval query not scoped to caller")
	}
}

func TestSearchEscapesPatternMetacharacters(t *testing.T) {
	stub := &stubSearcher{}

	if _, err := newTestService(stub).Search(context.Background(), uuid.New(), Query{Text: `50%_off\now`}); err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if stub.projectQuery == nil || stub.projectQuery.Pattern == nil {
		t.Fatal("expected a text pattern")
	}
	want := `%50\%\_off\\now%`
	if *stub.projectQuery.Pattern != want {
		t.Fatalf("pattern = %q, want %q", *stub.projectQuery.Pattern, want)
	}
}

func TestSearchMergesInGlobalRecencyOrder(t *testing.T) {
	p1 := item(TypeProject, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	a1 := item(TypeApproval, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	p2 := item(TypeProject, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))

	stub := &stubSearcher{
		projects:      []Item{p1, p2},
		projectCount:  2,
		approvals:     []Item{a1},
		approvalCount: 1,
	}

	resp, err := newTestService(stub).Search(context.Background(), uuid.New(), Query{})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	gotIDs := make([]string, 0, len(resp.Results))
	for _, result := range resp.Results {
		gotIDs = append(gotIDs, result.ID)
	}
	wantIDs := []string{a1.ID.String(), p2.ID.String(), p1.ID.String()}
	if !reflect.DeepEqual(gotIDs, wantIDs) {
		t.Fatalf("order = %v, want %v", gotIDs, wantIDs)
	}
	if resp.Total != 3 {
		t.Fatalf("total = %d, want 3", resp.Total)
	}
}

func TestSearchGlobalWindowSpansTypesOnLaterPages(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	// Interleave creation times so a correct page 2 must mix both types.
	var projects, approvals []Item
	for i := 0; i < 6; i++ {
		projects = append(projects, item(TypeProject, base.Add(time.Duration(2*i)*time.Hour)))
		approvals = append(approvals, item(TypeApproval, base.Add(time.Duration(2*i+1)*time.Hour)))
	}

	stub := &stubSearcher{
		projects:      projects,
		projectCount:  6,
		approvals:     approvals,
		approvalCount: 6,
	}

	resp, err := newTestService(stub).Search(context.Background(), uuid.New(), Query{Page: 2, Limit: 4})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if len(resp.Results) != 4 {
		t.Fatalf("page 2 should be full, got %d results", len(resp.Results))
	}

	// The 12 items sorted newest-first alternate approval/project; page 2
	// holds positions 4..7 of that global ordering.
	types := make([]string, 0, 4)
	for _, result := range resp.Results {
		types = append(types, result.Type)
	}
	want := []string{TypeApproval, TypeProject, TypeApproval, TypeProject}
	if !reflect.DeepEqual(types, want) {
		t.Fatalf("page 2 types = %v, want %v", types, want)
	}
	if resp.Total != 12 {
		t.Fatalf("total = %d, want 12", resp.Total)
	}
}

func TestSearchTypeSpecificFiltersStayScoped(t *testing.T) {
	projectID := uuid.New()
	stub := &stubSearcher{}

	_, err := newTestService(stub).Search(context.Background(), uuid.New(), Query{
		Client:    "smith",
		ProjectID: &projectID,
	})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if stub.projectQuery.ProjectID != nil {
		t.Fatal("project_id filter leaked into the project query")
	}
	if stub.projectQuery.ClientPattern == nil {
		t.Fatal("client filter missing from the project query")
	}
	if stub.approvalQuery.ClientPattern != nil {
		t.Fatal("client filter leaked into the approval query")
	}
	if stub.approvalQuery.ProjectID == nil || *stub.approvalQuery.ProjectID != projectID {
		t.Fatal("project_id filter missing from the approval query")
	}
}

func TestSearchDefaultsExcludeTemplates(t *testing.T) {
	stub := &stubSearcher{templates: []Item{item(TypeTemplate, time.Now())}, templateCount: 1}

	resp, err := newTestService(stub).Search(context.Background(), uuid.New(), Query{})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if stub.templateQuery != nil {
		t.Fatal("templates must not be queried by default")
	}
	if resp.Total != 0 {
		t.Fatalf("total = %d, want 0", resp.Total)
	}
}

func TestSearchExplicitTemplateTypeQueriesOnlyTemplates(t *testing.T) {
	stub := &stubSearcher{templates: []Item{item(TypeTemplate, time.Now())}, templateCount: 1}

	resp, err := newTestService(stub).Search(context.Background(), uuid.New(), Query{EntityType: TypeTemplate})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if stub.projectQuery != nil || stub.approvalQuery != nil {
		t.Fatal("explicit template search must not touch other types")
	}
	if len(resp.Results) != 1 || resp.Results[0].Type != TypeTemplate {
		t.Fatalf("unexpected results: %+v", resp.Results)
	}
}

func TestSearchRejectsUnknownEntityType(t *testing.T) {
	stub := &stubSearcher{}

	_, err := newTestService(stub).Search(context.Background(), uuid.New(), Query{EntityType: "invoice"})
	if !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("expected bad request, got %v", err)
	}
}

func TestSearchIsIdempotent(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	shared := now.Add(-time.Hour)

	// Two items with identical timestamps exercise the ID tiebreak.
	stub := &stubSearcher{
		projects:      []Item{item(TypeProject, shared), item(TypeProject, now)},
		projectCount:  2,
		approvals:     []Item{item(TypeApproval, shared)},
		approvalCount: 1,
	}

	svc := newTestService(stub)
	query := Query{Page: 1, Limit: 10}

	first, err := svc.Search(context.Background(), uuid.New(), query)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	second, err := svc.Search(context.Background(), uuid.New(), query)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	firstJSON, _ := json.Marshal(first)
	secondJSON, _ := json.Marshal(second)
	if string(firstJSON) != string(secondJSON) {
		t.Fatalf("responses differ:\n%s\n%s", firstJSON, secondJSON)
	}
}

func TestSearchEmptyMatchReturnsEmptyResults(t *testing.T) {
	stub := &stubSearcher{}

	resp, err := newTestService(stub).Search(context.Background(), uuid.New(), Query{Text: "nothing matches"})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if resp.Results == nil || len(resp.Results) != 0 {
		t.Fatalf("expected empty non-nil results, got %v", resp.Results)
	}
	if resp.Total != 0 {
		t.Fatalf("total = %d, want 0", resp.Total)
	}
}

func TestSearchDegradesWhenOneTypeFails(t *testing.T) {
	a1 := item(TypeApproval, time.Now())
	stub := &stubSearcher{
		projectErr:    errors.New("relation does not exist"),
		approvals:     []Item{a1},
		approvalCount: 1,
	}

	resp, err := newTestService(stub).Search(context.Background(), uuid.New(), Query{})
	if err != nil {
		t.Fatalf("degraded search must still succeed, got %v", err)
	}

	if len(resp.Results) != 1 || resp.Results[0].ID != a1.ID.String() {
		t.Fatalf("expected the healthy type's results, got %+v", resp.Results)
	}
	if resp.Total != 1 {
		t.Fatalf("total = %d, want 1 (failed type contributes zero)", resp.Total)
	}
}

func TestSearchPassesInclusiveDateBounds(t *testing.T) {
	from := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
	stub := &stubSearcher{}

	if _, err := newTestService(stub).Search(context.Background(), uuid.New(), Query{DateFrom: &from, DateTo: &to}); err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if stub.projectQuery.DateFrom == nil || !stub.projectQuery.DateFrom.Equal(from) {
		t.Fatal("date_from not propagated")
	}
	if stub.projectQuery.DateTo == nil || !stub.projectQuery.DateTo.Equal(to) {
		t.Fatal("date_to not propagated")
	}
}

func TestNormalizeTextCollapsesWhitespaceAndLowercases(t *testing.T) {
	got := NormalizeText("  Foo   BAR\tbaz  ")
	if got != "foo bar baz" {
		t.Fatalf("NormalizeText = %q", got)
	}
}

func TestEscapeLikeEscapesBackslashFirst(t *testing.T) {
	got := EscapeLike(`\%_`)
	if got != `\\\%\_` {
		t.Fatalf("EscapeLike = %q", got)
	}
	if strings.Contains(got, `\\\\`) {
		t.Fatal("backslash escaped twice")
	}
}
