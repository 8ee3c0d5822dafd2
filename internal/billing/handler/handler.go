package handler

import (
	"net/http"

	"archject_backend/internal/billing/service"
	"archject_backend/internal/billing/transport"
	"archject_backend/platform/httpkit"
	"archject_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"

	webhookKeyHeader = "X-Webhook-API-Key"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/transactions", h.ListTransactions)
}

// RegisterWebhookRoutes mounts the unauthenticated webhook ingest route; the
// API key header is the credential.
func (h *Handler) RegisterWebhookRoutes(rg *gin.RouterGroup) {
	rg.POST("/billing", h.IngestWebhook)
}

func (h *Handler) ListTransactions(c *gin.Context) {
	var req transport.ListTransactionsRequest
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
		Status:   req.Status,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	items := make([]transport.TransactionResponse, 0, len(result.Items))
	for _, tx := range result.Items {
		items = append(items, transport.TransactionResponse{
			ID:          tx.ID.String(),
			ExternalID:  tx.ExternalID,
			Type:        tx.Type,
			AmountCents: tx.AmountCents,
			Currency:    tx.Currency,
			Status:      tx.Status,
			Description: tx.Description,
			OccurredAt:  tx.OccurredAt,
			CreatedAt:   tx.CreatedAt,
		})
	}

	httpkit.OK(c, transport.ListTransactionsResponse{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	})
}

func (h *Handler) IngestWebhook(c *gin.Context) {
	var req transport.WebhookTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	err := h.svc.Ingest(c.Request.Context(), c.GetHeader(webhookKeyHeader), service.WebhookEvent{
		ExternalID:  req.ExternalID,
		Type:        req.Type,
		AmountCents: req.AmountCents,
		Currency:    req.Currency,
		Status:      req.Status,
		Description: req.Description,
		OccurredAt:  req.OccurredAt,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"message": "accepted"})
}
