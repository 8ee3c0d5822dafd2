// Package notification turns domain events into outbound emails. It owns no
// routes; it only subscribes to the event bus.
package notification

import (
	"context"
	"fmt"
	"strings"
	"time"

	"archject_backend/internal/auth/service"
	"archject_backend/internal/email"
	"archject_backend/internal/events"
	"archject_backend/platform/config"
	"archject_backend/platform/logger"

	"github.com/google/uuid"
)

// OwnerDirectory resolves an account owner's contact details. Satisfied by
// the auth service.
type OwnerDirectory interface {
	GetMe(ctx context.Context, userID uuid.UUID) (service.Profile, error)
}

type Module struct {
	sender email.Sender
	owners OwnerDirectory
	links  config.LinkConfig
	log    *logger.Logger
}

func NewModule(sender email.Sender, owners OwnerDirectory, links config.LinkConfig, log *logger.Logger) *Module {
	return &Module{sender: sender, owners: owners, links: links, log: log}
}

func (m *Module) Name() string {
	return "notification"
}

// Register subscribes the module's handlers on the bus.
func (m *Module) Register(bus events.Bus) {
	bus.Subscribe(events.UserSignedUp{}.EventName(), events.HandlerFunc(m.onUserSignedUp))
	bus.Subscribe(events.ApprovalRequested{}.EventName(), events.HandlerFunc(m.onApprovalRequested))
	bus.Subscribe(events.ApprovalReminderDue{}.EventName(), events.HandlerFunc(m.onApprovalReminderDue))
	bus.Subscribe(events.ApprovalDecided{}.EventName(), events.HandlerFunc(m.onApprovalDecided))
}

func (m *Module) onUserSignedUp(ctx context.Context, event events.Event) error {
	e, ok := event.(events.UserSignedUp)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}
	return m.sender.SendWelcomeEmail(ctx, e.Email, e.Name)
}

func (m *Module) onApprovalRequested(ctx context.Context, event events.Event) error {
	e, ok := event.(events.ApprovalRequested)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}
	if e.ClientEmail == "" {
		m.log.Info("approval has no client email, skipping request email",
			"approvalId", e.ApprovalID)
		return nil
	}
	return m.sender.SendApprovalRequestEmail(ctx, e.ClientEmail, e.Title, m.approvalURL(e.PublicToken))
}

func (m *Module) onApprovalReminderDue(ctx context.Context, event events.Event) error {
	e, ok := event.(events.ApprovalReminderDue)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}
	if e.ClientEmail == "" {
		return nil
	}
	deadline := e.Deadline.Format(time.RFC1123)
	return m.sender.SendApprovalReminderEmail(ctx, e.ClientEmail, e.Title, m.approvalURL(e.PublicToken), deadline)
}

func (m *Module) onApprovalDecided(ctx context.Context, event events.Event) error {
	e, ok := event.(events.ApprovalDecided)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	owner, err := m.owners.GetMe(ctx, e.OwnerID)
	if err != nil {
		return fmt.Errorf("resolve approval owner: %w", err)
	}

	return m.sender.SendDecisionEmail(ctx, owner.Email, e.Title, e.Status, e.OptionLabel, e.ClientComment)
}

func (m *Module) approvalURL(token string) string {
	return strings.TrimRight(m.links.GetAppBaseURL(), "/") + "/a/" + token
}
