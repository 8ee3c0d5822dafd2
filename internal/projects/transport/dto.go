package transport

import (
	"time"

	"github.com/google/uuid"
)

type CreateProjectRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	ClientName  string  `json:"clientName" validate:"required,min=1,max=120"`
	ClientEmail *string `json:"clientEmail,omitempty" validate:"omitempty,email"`
	Status      string  `json:"status,omitempty" validate:"omitempty,oneof=draft active completed archived"`
}

type UpdateProjectRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	ClientName  *string `json:"clientName,omitempty" validate:"omitempty,min=1,max=120"`
	ClientEmail *string `json:"clientEmail,omitempty" validate:"omitempty,email"`
	Status      *string `json:"status,omitempty" validate:"omitempty,oneof=draft active completed archived"`
}

type ProjectResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	ClientName  string    `json:"clientName"`
	ClientEmail *string   `json:"clientEmail,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type ListProjectsRequest struct {
	Search   string `form:"search" validate:"omitempty,max=100"`
	Status   string `form:"status" validate:"omitempty,oneof=draft active completed archived"`
	Client   string `form:"client" validate:"omitempty,max=120"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

type ListProjectsResponse struct {
	Items      []ProjectResponse `json:"items"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"pageSize"`
	TotalPages int               `json:"totalPages"`
}
