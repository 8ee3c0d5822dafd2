package handler

import (
	"net/http"

	"archject_backend/internal/templates/repository"
	"archject_backend/internal/templates/service"
	"archject_backend/internal/templates/transport"
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
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.GetByID)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

func (h *Handler) List(c *gin.Context) {
	var req transport.ListTemplatesRequest
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

	result, err := h.svc.List(c.Request.Context(), service.ListInput{
		OwnerID:  identity.UserID(),
		Search:   req.Search,
		Status:   req.Status,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	items := make([]transport.TemplateResponse, 0, len(result.Items))
	for _, template := range result.Items {
		items = append(items, toTemplateResponse(template))
	}

	httpkit.OK(c, transport.ListTemplatesResponse{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	})
}

func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateTemplateRequest
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

	template, err := h.svc.Create(c.Request.Context(), service.CreateInput{
		OwnerID:     identity.UserID(),
		Name:        req.Name,
		Description: req.Description,
		Options:     toOptions(req.Options),
		Status:      req.Status,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, toTemplateResponse(template))
}

func (h *Handler) GetByID(c *gin.Context) {
	templateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	template, err := h.svc.Get(c.Request.Context(), templateID, identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toTemplateResponse(template))
}

func (h *Handler) Update(c *gin.Context) {
	templateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.UpdateTemplateRequest
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

	template, err := h.svc.Update(c.Request.Context(), service.UpdateInput{
		ID:          templateID,
		OwnerID:     identity.UserID(),
		Name:        req.Name,
		Description: req.Description,
		Options:     toOptions(req.Options),
		Status:      req.Status,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toTemplateResponse(template))
}

func (h *Handler) Delete(c *gin.Context) {
	templateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), templateID, identity.UserID()); httpkit.HandleError(c, err) {
		return
	}

	c.Status(http.StatusNoContent)
}

func toOptions(payloads []transport.OptionPayload) []repository.Option {
	if payloads == nil {
		return nil
	}
	options := make([]repository.Option, 0, len(payloads))
	for _, payload := range payloads {
		options = append(options, repository.Option{
			Label:       payload.Label,
			Description: payload.Description,
		})
	}
	return options
}

func toTemplateResponse(template repository.Template) transport.TemplateResponse {
	options := make([]transport.OptionPayload, 0, len(template.Options))
	for _, option := range template.Options {
		options = append(options, transport.OptionPayload{
			Label:       option.Label,
			Description: option.Description,
		})
	}

	return transport.TemplateResponse{
		ID:          template.ID,
		Name:        template.Name,
		Description: template.Description,
		Options:     options,
		Status:      template.Status,
		CreatedAt:   template.CreatedAt,
		UpdatedAt:   template.UpdatedAt,
	}
}
