package service

import (
	"context"
	"testing"
	"time"

	"archject_backend/internal/approvals/repository"
	"archject_backend/internal/auth/token"
	"archject_backend/internal/events"
	projrepo "archject_backend/internal/projects/repository"
	"archject_backend/internal/scheduler"
	tmplrepo "archject_backend/internal/templates/repository"
	"archject_backend/platform/apperr"
	"archject_backend/platform/logger"

	"github.com/google/uuid"
)

type stubApprovalsRepo struct {
	byID      map[uuid.UUID]repository.Approval
	byToken   map[string]uuid.UUID
	decisions []repository.Decision
	expired   []uuid.UUID
}

func newStubApprovalsRepo() *stubApprovalsRepo {
	return &stubApprovalsRepo{
		byID:    map[uuid.UUID]repository.Approval{},
		byToken: map[string]uuid.UUID{},
	}
}

func (r *stubApprovalsRepo) put(approval repository.Approval) {
	r.byID[approval.ID] = approval
	r.byToken[approval.TokenHash] = approval.ID
}

func (r *stubApprovalsRepo) Create(_ context.Context, approval repository.Approval) (repository.Approval, error) {
	r.put(approval)
	return approval, nil
}

func (r *stubApprovalsRepo) GetByID(_ context.Context, id uuid.UUID, ownerID uuid.UUID) (repository.Approval, error) {
	approval, ok := r.byID[id]
	if !ok || approval.OwnerID != ownerID {
		return repository.Approval{}, apperr.NotFound("approval request not found")
	}
	return approval, nil
}

func (r *stubApprovalsRepo) GetByTokenHash(_ context.Context, tokenHash string) (repository.Approval, error) {
	id, ok := r.byToken[tokenHash]
	if !ok {
		return repository.Approval{}, apperr.NotFound("approval request not found")
	}
	return r.byID[id], nil
}

func (r *stubApprovalsRepo) List(_ context.Context, _ repository.ListParams) (repository.ListResult, error) {
	return repository.ListResult{}, nil
}

func (r *stubApprovalsRepo) Delete(_ context.Context, id uuid.UUID, ownerID uuid.UUID) error {
	approval, ok := r.byID[id]
	if !ok || approval.OwnerID != ownerID {
		return apperr.NotFound("approval request not found")
	}
	delete(r.byID, id)
	delete(r.byToken, approval.TokenHash)
	return nil
}

func (r *stubApprovalsRepo) Decide(_ context.Context, decision repository.Decision) (repository.Approval, error) {
	approval, ok := r.byID[decision.ApprovalID]
	if !ok || approval.Status != repository.StatusPending {
		return repository.Approval{}, apperr.Conflict("approval request already decided")
	}
	r.decisions = append(r.decisions, decision)
	now := time.Now()
	approval.Status = decision.Status
	approval.DecidedAt = &now
	approval.DecidedOption = decision.OptionID
	approval.ClientComment = decision.Comment
	r.byID[approval.ID] = approval
	return approval, nil
}

func (r *stubApprovalsRepo) MarkExpired(_ context.Context, id uuid.UUID) error {
	approval, ok := r.byID[id]
	if !ok {
		return apperr.NotFound("approval request not found")
	}
	r.expired = append(r.expired, id)
	approval.Status = repository.StatusExpired
	r.byID[id] = approval
	return nil
}

func (r *stubApprovalsRepo) GetReminderState(_ context.Context, id uuid.UUID) (repository.ReminderState, error) {
	approval, ok := r.byID[id]
	if !ok {
		return repository.ReminderState{}, apperr.NotFound("approval request not found")
	}
	return repository.ReminderState{Status: approval.Status, Title: approval.Title, Deadline: approval.Deadline}, nil
}

var _ repository.ApprovalsRepository = (*stubApprovalsRepo)(nil)

type stubProjects struct {
	project projrepo.Project
	err     error
}

func (s stubProjects) Get(_ context.Context, id, ownerID uuid.UUID) (projrepo.Project, error) {
	if s.err != nil {
		return projrepo.Project{}, s.err
	}
	if s.project.ID != id || s.project.OwnerID != ownerID {
		return projrepo.Project{}, apperr.NotFound("project not found")
	}
	return s.project, nil
}

type stubTemplates struct {
	template tmplrepo.Template
}

func (s stubTemplates) Get(_ context.Context, id, ownerID uuid.UUID) (tmplrepo.Template, error) {
	if s.template.ID != id || s.template.OwnerID != ownerID {
		return tmplrepo.Template{}, apperr.NotFound("template not found")
	}
	return s.template, nil
}

type recordedReminder struct {
	payload scheduler.ApprovalReminderPayload
	runAt   time.Time
}

type stubReminders struct {
	scheduled []recordedReminder
}

func (s *stubReminders) ScheduleApprovalReminder(_ context.Context, payload scheduler.ApprovalReminderPayload, runAt time.Time) error {
	s.scheduled = append(s.scheduled, recordedReminder{payload: payload, runAt: runAt})
	return nil
}

type stubLinks struct{}

func (stubLinks) GetAppBaseURL() string { return "https://app.example.com" }

type testEnv struct {
	repo      *stubApprovalsRepo
	reminders *stubReminders
	svc       *Service
	ownerID   uuid.UUID
	projectID uuid.UUID
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repo := newStubApprovalsRepo()
	reminders := &stubReminders{}
	ownerID := uuid.New()
	projectID := uuid.New()
	log := logger.New("development")
	projects := stubProjects{project: projrepo.Project{ID: projectID, OwnerID: ownerID}}
	svc := New(repo, projects, stubTemplates{}, events.NewInMemoryBus(log), reminders, stubLinks{}, log)
	return &testEnv{repo: repo, reminders: reminders, svc: svc, ownerID: ownerID, projectID: projectID}
}

func TestCreateStoresOnlyTheTokenHash(t *testing.T) {
	env := newTestEnv(t)

	created, err := env.svc.Create(context.Background(), CreateInput{
		OwnerID:   env.ownerID,
		ProjectID: env.projectID,
		Title:     "Facade concept",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if created.PublicToken == "" {
		t.Fatal("expected a plain public token")
	}
	if created.Approval.TokenHash == created.PublicToken {
		t.Error("token stored without hashing")
	}
	if got, want := created.Approval.TokenHash, token.HashSHA256(created.PublicToken); got != want {
		t.Errorf("token hash = %q, want %q", got, want)
	}
	if got, want := created.PublicURL, "https://app.example.com/a/"+created.PublicToken; got != want {
		t.Errorf("public URL = %q, want %q", got, want)
	}
}

func TestCreateRejectsPastDeadline(t *testing.T) {
	env := newTestEnv(t)

	past := time.Now().Add(-time.Hour)
	_, err := env.svc.Create(context.Background(), CreateInput{
		OwnerID:   env.ownerID,
		ProjectID: env.projectID,
		Title:     "Facade concept",
		Deadline:  &past,
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestCreateRequiresOwnedProject(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Create(context.Background(), CreateInput{
		OwnerID:   uuid.New(),
		ProjectID: env.projectID,
		Title:     "Facade concept",
	})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("expected not found for foreign project, got %v", err)
	}
}

func TestCreateSchedulesReminderBeforeDeadline(t *testing.T) {
	env := newTestEnv(t)

	deadline := time.Now().Add(72 * time.Hour)
	created, err := env.svc.Create(context.Background(), CreateInput{
		OwnerID:   env.ownerID,
		ProjectID: env.projectID,
		Title:     "Facade concept",
		Deadline:  &deadline,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(env.reminders.scheduled) != 1 {
		t.Fatalf("expected 1 scheduled reminder, got %d", len(env.reminders.scheduled))
	}
	got := env.reminders.scheduled[0]
	if got.payload.PublicToken != created.PublicToken {
		t.Error("reminder payload missing the plain token")
	}
	wantRunAt := deadline.Add(-reminderLeadTime)
	if got.runAt.Sub(wantRunAt) > time.Second || wantRunAt.Sub(got.runAt) > time.Second {
		t.Errorf("runAt = %v, want about %v", got.runAt, wantRunAt)
	}
}

func TestDecideRejectsUnknownStatus(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Decide(context.Background(), DecideInput{Token: "tok", Status: "maybe"})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestDecideRecordsFirstDecisionOnly(t *testing.T) {
	env := newTestEnv(t)

	created, err := env.svc.Create(context.Background(), CreateInput{
		OwnerID:   env.ownerID,
		ProjectID: env.projectID,
		Title:     "Facade concept",
		Options: []OptionInput{
			{Label: "Option A"},
			{Label: "Option B"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	optionID := created.Approval.Options[1].ID

	decided, err := env.svc.Decide(context.Background(), DecideInput{
		Token:    created.PublicToken,
		Status:   repository.StatusApproved,
		OptionID: &optionID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decided.Status != repository.StatusApproved {
		t.Errorf("status = %q, want approved", decided.Status)
	}
	if decided.DecidedOption == nil || *decided.DecidedOption != optionID {
		t.Error("decided option not recorded")
	}

	_, err = env.svc.Decide(context.Background(), DecideInput{
		Token:  created.PublicToken,
		Status: repository.StatusDeclined,
	})
	if !apperr.Is(err, apperr.KindConflict) {
		t.Errorf("expected conflict on second decision, got %v", err)
	}
}

func TestDecideRejectsForeignOption(t *testing.T) {
	env := newTestEnv(t)

	created, err := env.svc.Create(context.Background(), CreateInput{
		OwnerID:   env.ownerID,
		ProjectID: env.projectID,
		Title:     "Facade concept",
		Options:   []OptionInput{{Label: "Option A"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	foreign := uuid.New()
	_, err = env.svc.Decide(context.Background(), DecideInput{
		Token:    created.PublicToken,
		Status:   repository.StatusApproved,
		OptionID: &foreign,
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
	if len(env.repo.decisions) != 0 {
		t.Error("decision recorded despite foreign option")
	}
}

func TestViewByTokenExpiresOverdueApprovals(t *testing.T) {
	env := newTestEnv(t)

	plain := "overdue-token"
	past := time.Now().Add(-time.Hour)
	env.repo.put(repository.Approval{
		ID:        uuid.New(),
		OwnerID:   env.ownerID,
		ProjectID: env.projectID,
		Title:     "Facade concept",
		Status:    repository.StatusPending,
		TokenHash: token.HashSHA256(plain),
		Deadline:  &past,
	})

	approval, err := env.svc.ViewByToken(context.Background(), plain)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if approval.Status != repository.StatusExpired {
		t.Errorf("status = %q, want expired", approval.Status)
	}
	if len(env.repo.expired) != 1 {
		t.Errorf("expected 1 MarkExpired call, got %d", len(env.repo.expired))
	}
}

func TestDecideOnExpiredLinkIsGone(t *testing.T) {
	env := newTestEnv(t)

	plain := "overdue-token"
	past := time.Now().Add(-time.Hour)
	env.repo.put(repository.Approval{
		ID:        uuid.New(),
		OwnerID:   env.ownerID,
		ProjectID: env.projectID,
		Title:     "Facade concept",
		Status:    repository.StatusPending,
		TokenHash: token.HashSHA256(plain),
		Deadline:  &past,
	})

	_, err := env.svc.Decide(context.Background(), DecideInput{
		Token:  plain,
		Status: repository.StatusApproved,
	})
	if !apperr.Is(err, apperr.KindGone) {
		t.Errorf("expected gone, got %v", err)
	}
}

func TestViewByUnknownTokenIsNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.ViewByToken(context.Background(), "no-such-token")
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}
