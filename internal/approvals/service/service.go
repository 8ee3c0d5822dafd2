package service

import (
	"context"
	"strings"
	"time"

	"archject_backend/internal/approvals/repository"
	"archject_backend/internal/auth/token"
	"archject_backend/internal/events"
	projrepo "archject_backend/internal/projects/repository"
	"archject_backend/internal/scheduler"
	tmplrepo "archject_backend/internal/templates/repository"
	"archject_backend/platform/apperr"
	"archject_backend/platform/config"
	"archject_backend/platform/logger"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
)

// How long before the deadline the client reminder goes out.
const reminderLeadTime = 24 * time.Hour

const maxOptions = 20

// ProjectProvider supplies owner-scoped project lookups from the projects module.
type ProjectProvider interface {
	Get(ctx context.Context, id, ownerID uuid.UUID) (projrepo.Project, error)
}

// TemplateProvider supplies owner-scoped template lookups from the templates module.
type TemplateProvider interface {
	Get(ctx context.Context, id, ownerID uuid.UUID) (tmplrepo.Template, error)
}

type Service struct {
	repo      repository.ApprovalsRepository
	projects  ProjectProvider
	templates TemplateProvider
	bus       events.Bus
	reminders scheduler.ReminderScheduler
	links     config.LinkConfig
	log       *logger.Logger
}

func New(
	repo repository.ApprovalsRepository,
	projects ProjectProvider,
	templates TemplateProvider,
	bus events.Bus,
	reminders scheduler.ReminderScheduler,
	links config.LinkConfig,
	log *logger.Logger,
) *Service {
	return &Service{
		repo:      repo,
		projects:  projects,
		templates: templates,
		bus:       bus,
		reminders: reminders,
		links:     links,
		log:       log,
	}
}

type OptionInput struct {
	Label       string
	Description *string
}

type CreateInput struct {
	OwnerID     uuid.UUID
	ProjectID   uuid.UUID
	TemplateID  *uuid.UUID
	Title       string
	Description *string
	ClientEmail *string
	Deadline    *time.Time
	Options     []OptionInput
}

type ListInput struct {
	OwnerID   uuid.UUID
	Search    string
	Status    string
	ProjectID *uuid.UUID
	Page      int
	PageSize  int
}

type DecideInput struct {
	Token    string
	Status   string
	OptionID *uuid.UUID
	Comment  *string
}

// Created pairs a stored approval with the one-time plain token. The token
// is never persisted, so this is the only moment it can be shared.
type Created struct {
	Approval    repository.Approval
	PublicToken string
	PublicURL   string
}

func (s *Service) Create(ctx context.Context, input CreateInput) (Created, error) {
	if input.Deadline != nil && input.Deadline.Before(time.Now()) {
		return Created{}, apperr.Validation("deadline must be in the future")
	}

	if _, err := s.projects.Get(ctx, input.ProjectID, input.OwnerID); err != nil {
		return Created{}, err
	}

	options := input.Options
	if len(options) == 0 && input.TemplateID != nil {
		template, err := s.templates.Get(ctx, *input.TemplateID, input.OwnerID)
		if err != nil {
			return Created{}, err
		}
		for _, opt := range template.Options {
			options = append(options, OptionInput{Label: opt.Label, Description: opt.Description})
		}
	}
	if len(options) > maxOptions {
		return Created{}, apperr.Validation("too many options")
	}

	plainToken, err := token.GenerateRandomToken(32)
	if err != nil {
		return Created{}, err
	}

	now := time.Now()
	approval := repository.Approval{
		ID:          uuid.New(),
		OwnerID:     input.OwnerID,
		ProjectID:   input.ProjectID,
		TemplateID:  input.TemplateID,
		Title:       input.Title,
		Description: input.Description,
		ClientEmail: input.ClientEmail,
		Status:      repository.StatusPending,
		TokenHash:   token.HashSHA256(plainToken),
		Deadline:    input.Deadline,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	for i, opt := range options {
		approval.Options = append(approval.Options, repository.Option{
			ID:          uuid.New(),
			ApprovalID:  approval.ID,
			Label:       opt.Label,
			Description: opt.Description,
			Position:    i,
		})
	}

	approval, err = s.repo.Create(ctx, approval)
	if err != nil {
		return Created{}, err
	}

	s.scheduleReminder(ctx, approval, plainToken)

	if s.bus != nil {
		clientEmail := ""
		if approval.ClientEmail != nil {
			clientEmail = *approval.ClientEmail
		}
		s.bus.Publish(ctx, events.ApprovalRequested{
			BaseEvent:   events.NewBaseEvent(),
			ApprovalID:  approval.ID,
			ProjectID:   approval.ProjectID,
			OwnerID:     approval.OwnerID,
			Title:       approval.Title,
			ClientEmail: clientEmail,
			PublicToken: plainToken,
			Deadline:    approval.Deadline,
		})
	}

	return Created{
		Approval:    approval,
		PublicToken: plainToken,
		PublicURL:   s.ApprovalURL(plainToken),
	}, nil
}

func (s *Service) Get(ctx context.Context, id, ownerID uuid.UUID) (repository.Approval, error) {
	return s.repo.GetByID(ctx, id, ownerID)
}

func (s *Service) List(ctx context.Context, input ListInput) (repository.ListResult, error) {
	return s.repo.List(ctx, repository.ListParams{
		OwnerID:   input.OwnerID,
		Search:    input.Search,
		Status:    input.Status,
		ProjectID: input.ProjectID,
		Page:      input.Page,
		PageSize:  input.PageSize,
	})
}

func (s *Service) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	return s.repo.Delete(ctx, id, ownerID)
}

// ViewByToken resolves a public approval link. Requests past their deadline
// are marked expired on first sight rather than waiting for the worker.
func (s *Service) ViewByToken(ctx context.Context, plainToken string) (repository.Approval, error) {
	approval, err := s.repo.GetByTokenHash(ctx, token.HashSHA256(plainToken))
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return repository.Approval{}, apperr.NotFound("approval link not found")
		}
		return repository.Approval{}, err
	}

	if s.expireLazily(ctx, &approval) {
		return approval, nil
	}

	return approval, nil
}

func (s *Service) Decide(ctx context.Context, input DecideInput) (repository.Approval, error) {
	if input.Status != repository.StatusApproved && input.Status != repository.StatusDeclined {
		return repository.Approval{}, apperr.Validation("decision must be approved or declined")
	}

	approval, err := s.repo.GetByTokenHash(ctx, token.HashSHA256(input.Token))
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return repository.Approval{}, apperr.NotFound("approval link not found")
		}
		return repository.Approval{}, err
	}

	if s.expireLazily(ctx, &approval) {
		return repository.Approval{}, apperr.Gone("approval link expired")
	}

	switch approval.Status {
	case repository.StatusPending:
	case repository.StatusExpired:
		return repository.Approval{}, apperr.Gone("approval link expired")
	default:
		return repository.Approval{}, apperr.Conflict("approval request already decided")
	}

	var optionLabel string
	if input.OptionID != nil {
		found := false
		for _, option := range approval.Options {
			if option.ID == *input.OptionID {
				found = true
				optionLabel = option.Label
				break
			}
		}
		if !found {
			return repository.Approval{}, apperr.Validation("option does not belong to this approval")
		}
	}

	decided, err := s.repo.Decide(ctx, repository.Decision{
		ApprovalID: approval.ID,
		Status:     input.Status,
		OptionID:   input.OptionID,
		Comment:    input.Comment,
	})
	if err != nil {
		return repository.Approval{}, err
	}

	if s.bus != nil {
		comment := ""
		if decided.ClientComment != nil {
			comment = *decided.ClientComment
		}
		s.bus.Publish(ctx, events.ApprovalDecided{
			BaseEvent:     events.NewBaseEvent(),
			ApprovalID:    decided.ID,
			ProjectID:     decided.ProjectID,
			OwnerID:       decided.OwnerID,
			Title:         decided.Title,
			Status:        decided.Status,
			OptionID:      decided.DecidedOption,
			OptionLabel:   optionLabel,
			ClientComment: comment,
		})
	}

	return decided, nil
}

// QRCodePNG renders the public approval link as a PNG image.
func (s *Service) QRCodePNG(ctx context.Context, plainToken string) ([]byte, error) {
	if _, err := s.repo.GetByTokenHash(ctx, token.HashSHA256(plainToken)); err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.NotFound("approval link not found")
		}
		return nil, err
	}

	png, err := qrcode.Encode(s.ApprovalURL(plainToken), qrcode.Medium, 256)
	if err != nil {
		return nil, apperr.Internal("render qr code")
	}
	return png, nil
}

// ApprovalURL builds the client-facing link for a plain token.
func (s *Service) ApprovalURL(plainToken string) string {
	base := strings.TrimRight(s.links.GetAppBaseURL(), "/")
	return base + "/a/" + plainToken
}

func (s *Service) scheduleReminder(ctx context.Context, approval repository.Approval, plainToken string) {
	if s.reminders == nil || approval.Deadline == nil {
		return
	}

	runAt := approval.Deadline.Add(-reminderLeadTime)
	if runAt.Before(time.Now()) {
		runAt = *approval.Deadline
	}

	err := s.reminders.ScheduleApprovalReminder(ctx, scheduler.ApprovalReminderPayload{
		ApprovalID:  approval.ID.String(),
		OwnerID:     approval.OwnerID.String(),
		PublicToken: plainToken,
	}, runAt)
	if err != nil {
		s.log.Error("schedule approval reminder", "approvalId", approval.ID, "error", err)
	}
}

// expireLazily flips a pending approval past its deadline to expired and
// reports whether the approval is now expired.
func (s *Service) expireLazily(ctx context.Context, approval *repository.Approval) bool {
	if approval.Status != repository.StatusPending {
		return approval.Status == repository.StatusExpired
	}
	if approval.Deadline == nil || approval.Deadline.After(time.Now()) {
		return false
	}

	if err := s.repo.MarkExpired(ctx, approval.ID); err != nil {
		s.log.Error("mark approval expired", "approvalId", approval.ID, "error", err)
		return true
	}
	approval.Status = repository.StatusExpired
	return true
}
