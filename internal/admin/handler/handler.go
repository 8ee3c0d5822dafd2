package handler

import (
	"net/http"

	"archject_backend/internal/admin/repository"
	"archject_backend/internal/admin/service"
	"archject_backend/internal/admin/transport"
	"archject_backend/platform/httpkit"
	"archject_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/stats", h.GetStats)
	rg.GET("/users", h.ListUsers)
	rg.PUT("/users/:id/roles", h.SetUserRoles)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.svc.GetStats(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	byStatus := make(map[string]int, len(stats.ApprovalsByStatus))
	for _, sc := range stats.ApprovalsByStatus {
		byStatus[sc.Status] = sc.Count
	}

	httpkit.OK(c, transport.StatsResponse{
		Users:              stats.Users,
		Projects:           stats.Projects,
		Templates:          stats.Templates,
		DecisionsLast30d:   stats.DecisionsLast30d,
		BillingVolumeCents: stats.BillingVolumeCents,
		ApprovalsByStatus:  byStatus,
	})
}

func (h *Handler) ListUsers(c *gin.Context) {
	var req transport.ListUsersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.ListUsers(c.Request.Context(), repository.ListUsersParams{
		Search:   req.Search,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	items := make([]transport.UserResponse, 0, len(result.Items))
	for _, row := range result.Items {
		items = append(items, transport.UserResponse{
			ID:        row.ID.String(),
			Email:     row.Email,
			Name:      row.Name,
			Roles:     row.Roles,
			CreatedAt: row.CreatedAt,
		})
	}

	httpkit.OK(c, transport.ListUsersResponse{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	})
}

func (h *Handler) SetUserRoles(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.RoleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	if err := h.svc.SetUserRoles(c.Request.Context(), userID, req.Roles); httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.RoleUpdateResponse{UserID: userID.String(), Roles: req.Roles})
}
