package handler

import (
	"net/http"

	"archject_backend/internal/approvals/repository"
	"archject_backend/internal/approvals/service"
	"archject_backend/internal/approvals/transport"
	"archject_backend/platform/httpkit"
	"archject_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles authenticated approval request endpoints.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.GetByID)
	rg.DELETE("/:id", h.Delete)
}

func (h *Handler) List(c *gin.Context) {
	var req transport.ListApprovalsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var projectID *uuid.UUID
	if req.ProjectID != "" {
		parsed, err := uuid.Parse(req.ProjectID)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
			return
		}
		projectID = &parsed
	}

	result, err := h.svc.List(c.Request.Context(), service.ListInput{
		OwnerID:   identity.UserID(),
		Search:    req.Search,
		Status:    req.Status,
		ProjectID: projectID,
		Page:      req.Page,
		PageSize:  req.PageSize,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	items := make([]transport.ApprovalResponse, 0, len(result.Items))
	for _, approval := range result.Items {
		items = append(items, toApprovalResponse(approval))
	}

	httpkit.OK(c, transport.ListApprovalsResponse{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	})
}

func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	options := make([]service.OptionInput, 0, len(req.Options))
	for _, payload := range req.Options {
		options = append(options, service.OptionInput{
			Label:       payload.Label,
			Description: payload.Description,
		})
	}

	created, err := h.svc.Create(c.Request.Context(), service.CreateInput{
		OwnerID:     identity.UserID(),
		ProjectID:   req.ProjectID,
		TemplateID:  req.TemplateID,
		Title:       req.Title,
		Description: req.Description,
		ClientEmail: req.ClientEmail,
		Deadline:    req.Deadline,
		Options:     options,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, transport.CreatedApprovalResponse{
		ApprovalResponse: toApprovalResponse(created.Approval),
		PublicURL:        created.PublicURL,
	})
}

func (h *Handler) GetByID(c *gin.Context) {
	approvalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	approval, err := h.svc.Get(c.Request.Context(), approvalID, identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toApprovalResponse(approval))
}

func (h *Handler) Delete(c *gin.Context) {
	approvalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), approvalID, identity.UserID()); httpkit.HandleError(c, err) {
		return
	}

	c.Status(http.StatusNoContent)
}

func toApprovalResponse(approval repository.Approval) transport.ApprovalResponse {
	return transport.ApprovalResponse{
		ID:            approval.ID,
		ProjectID:     approval.ProjectID,
		TemplateID:    approval.TemplateID,
		Title:         approval.Title,
		Description:   approval.Description,
		ClientEmail:   approval.ClientEmail,
		Status:        approval.Status,
		Deadline:      approval.Deadline,
		DecidedAt:     approval.DecidedAt,
		DecidedOption: approval.DecidedOption,
		ClientComment: approval.ClientComment,
		Options:       toOptionResponses(approval.Options),
		CreatedAt:     approval.CreatedAt,
		UpdatedAt:     approval.UpdatedAt,
	}
}

func toOptionResponses(options []repository.Option) []transport.OptionResponse {
	responses := make([]transport.OptionResponse, 0, len(options))
	for _, option := range options {
		responses = append(responses, transport.OptionResponse{
			ID:          option.ID,
			Label:       option.Label,
			Description: option.Description,
		})
	}
	return responses
}
