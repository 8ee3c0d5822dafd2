package transport

import (
	"time"

	"github.com/google/uuid"
)

type OptionPayload struct {
	Label       string  `json:"label" validate:"required,min=1,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
}

type CreateApprovalRequest struct {
	ProjectID   uuid.UUID       `json:"projectId" validate:"required"`
	TemplateID  *uuid.UUID      `json:"templateId,omitempty"`
	Title       string          `json:"title" validate:"required,min=1,max=200"`
	Description *string         `json:"description,omitempty" validate:"omitempty,max=5000"`
	ClientEmail *string         `json:"clientEmail,omitempty" validate:"omitempty,email"`
	Deadline    *time.Time      `json:"deadline,omitempty"`
	Options     []OptionPayload `json:"options,omitempty" validate:"omitempty,max=20,dive"`
}

type ListApprovalsRequest struct {
	Search    string `form:"search" validate:"omitempty,max=100"`
	Status    string `form:"status" validate:"omitempty,oneof=pending approved declined expired"`
	ProjectID string `form:"projectId" validate:"omitempty,uuid"`
	Page      int    `form:"page" validate:"omitempty,min=1"`
	PageSize  int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

type OptionResponse struct {
	ID          uuid.UUID `json:"id"`
	Label       string    `json:"label"`
	Description *string   `json:"description,omitempty"`
}

type ApprovalResponse struct {
	ID            uuid.UUID        `json:"id"`
	ProjectID     uuid.UUID        `json:"projectId"`
	TemplateID    *uuid.UUID       `json:"templateId,omitempty"`
	Title         string           `json:"title"`
	Description   *string          `json:"description,omitempty"`
	ClientEmail   *string          `json:"clientEmail,omitempty"`
	Status        string           `json:"status"`
	Deadline      *time.Time       `json:"deadline,omitempty"`
	DecidedAt     *time.Time       `json:"decidedAt,omitempty"`
	DecidedOption *uuid.UUID       `json:"decidedOptionId,omitempty"`
	ClientComment *string          `json:"clientComment,omitempty"`
	Options       []OptionResponse `json:"options"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// CreatedApprovalResponse is returned once, at creation: it is the only
// response carrying the shareable link.
type CreatedApprovalResponse struct {
	ApprovalResponse
	PublicURL string `json:"publicUrl"`
}

type ListApprovalsResponse struct {
	Items      []ApprovalResponse `json:"items"`
	Total      int                `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"pageSize"`
	TotalPages int                `json:"totalPages"`
}

// PublicApprovalResponse is the client-facing view behind a token link. It
// deliberately omits owner and client email details.
type PublicApprovalResponse struct {
	Title       string           `json:"title"`
	Description *string          `json:"description,omitempty"`
	Status      string           `json:"status"`
	Deadline    *time.Time       `json:"deadline,omitempty"`
	Options     []OptionResponse `json:"options"`
}

type DecisionRequest struct {
	Status   string     `json:"status" validate:"required,oneof=approved declined"`
	OptionID *uuid.UUID `json:"optionId,omitempty"`
	Comment  *string    `json:"comment,omitempty" validate:"omitempty,max=2000"`
}
