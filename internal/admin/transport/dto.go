package transport

import "time"

type StatsResponse struct {
	Users              int            `json:"users"`
	Projects           int            `json:"projects"`
	Templates          int            `json:"templates"`
	DecisionsLast30d   int            `json:"decisionsLast30d"`
	BillingVolumeCents int64          `json:"billingVolumeCents"`
	ApprovalsByStatus  map[string]int `json:"approvalsByStatus"`
}

type ListUsersRequest struct {
	Search   string `form:"search" validate:"omitempty,max=100"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"createdAt"`
}

type ListUsersResponse struct {
	Items      []UserResponse `json:"items"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalPages int            `json:"totalPages"`
}

type RoleUpdateRequest struct {
	Roles []string `json:"roles" validate:"required,min=1,dive,oneof=user admin"`
}

type RoleUpdateResponse struct {
	UserID string   `json:"userId"`
	Roles  []string `json:"roles"`
}
