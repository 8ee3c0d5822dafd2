package transport

import (
	"time"

	"github.com/google/uuid"
)

type OptionPayload struct {
	Label       string  `json:"label" validate:"required,min=1,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
}

type CreateTemplateRequest struct {
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Description *string         `json:"description,omitempty" validate:"omitempty,max=2000"`
	Options     []OptionPayload `json:"options,omitempty" validate:"omitempty,max=20,dive"`
	Status      string          `json:"status,omitempty" validate:"omitempty,oneof=active archived"`
}

type UpdateTemplateRequest struct {
	Name        *string         `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string         `json:"description,omitempty" validate:"omitempty,max=2000"`
	Options     []OptionPayload `json:"options,omitempty" validate:"omitempty,max=20,dive"`
	Status      *string         `json:"status,omitempty" validate:"omitempty,oneof=active archived"`
}

type TemplateResponse struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Options     []OptionPayload `json:"options"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type ListTemplatesRequest struct {
	Search   string `form:"search" validate:"omitempty,max=100"`
	Status   string `form:"status" validate:"omitempty,oneof=active archived"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

type ListTemplatesResponse struct {
	Items      []TemplateResponse `json:"items"`
	Total      int                `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"pageSize"`
	TotalPages int                `json:"totalPages"`
}
