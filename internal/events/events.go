// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"archject_backend/platform/events"
	"archject_backend/platform/logger"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return events.NewInMemoryBus(log)
}

// =============================================================================
// Auth Domain Events
// =============================================================================

// UserSignedUp is published when a new user successfully registers.
type UserSignedUp struct {
	BaseEvent
	UserID uuid.UUID `json:"userId"`
	Email  string    `json:"email"`
	Name   string    `json:"name"`
}

func (e UserSignedUp) EventName() string { return "auth.user.signed_up" }

// =============================================================================
// Approvals Domain Events
// =============================================================================

// ApprovalRequested is published when a new approval request is created and
// its client link is ready to be shared.
type ApprovalRequested struct {
	BaseEvent
	ApprovalID  uuid.UUID  `json:"approvalId"`
	ProjectID   uuid.UUID  `json:"projectId"`
	OwnerID     uuid.UUID  `json:"ownerId"`
	Title       string     `json:"title"`
	ClientEmail string     `json:"clientEmail,omitempty"`
	PublicToken string     `json:"publicToken"`
	Deadline    *time.Time `json:"deadline,omitempty"`
}

func (e ApprovalRequested) EventName() string { return "approvals.requested" }

// ApprovalDecided is published when a client records a decision on an
// approval request through its public link.
type ApprovalDecided struct {
	BaseEvent
	ApprovalID    uuid.UUID  `json:"approvalId"`
	ProjectID     uuid.UUID  `json:"projectId"`
	OwnerID       uuid.UUID  `json:"ownerId"`
	Title         string     `json:"title"`
	Status        string     `json:"status"` // approved | declined
	OptionID      *uuid.UUID `json:"optionId,omitempty"`
	OptionLabel   string     `json:"optionLabel,omitempty"`
	ClientComment string     `json:"clientComment,omitempty"`
}

func (e ApprovalDecided) EventName() string { return "approvals.decided" }

// ApprovalReminderDue is published by the worker when a pending approval
// request approaches its deadline.
type ApprovalReminderDue struct {
	BaseEvent
	ApprovalID  uuid.UUID `json:"approvalId"`
	OwnerID     uuid.UUID `json:"ownerId"`
	Title       string    `json:"title"`
	ClientEmail string    `json:"clientEmail,omitempty"`
	PublicToken string    `json:"publicToken"`
	Deadline    time.Time `json:"deadline"`
}

func (e ApprovalReminderDue) EventName() string { return "approvals.reminder_due" }
