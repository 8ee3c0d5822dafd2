package handler

import (
	"net/http"

	"archject_backend/internal/approvals/service"
	"archject_backend/internal/approvals/transport"
	"archject_backend/platform/httpkit"
	"archject_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// PublicHandler handles unauthenticated, token-based approval endpoints.
type PublicHandler struct {
	svc *service.Service
	val *validator.Validator
}

// NewPublicHandler creates a public handler for client approval pages.
func NewPublicHandler(svc *service.Service, val *validator.Validator) *PublicHandler {
	return &PublicHandler{svc: svc, val: val}
}

// RegisterRoutes mounts public approval routes (no auth middleware).
func (h *PublicHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/:token", h.View)
	rg.POST("/:token/decision", h.Decide)
	rg.GET("/:token/qr", h.QRCode)
}

// View returns the client-facing approval details for a token link.
func (h *PublicHandler) View(c *gin.Context) {
	plainToken := c.Param("token")
	if plainToken == "" {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	approval, err := h.svc.ViewByToken(c.Request.Context(), plainToken)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.PublicApprovalResponse{
		Title:       approval.Title,
		Description: approval.Description,
		Status:      approval.Status,
		Deadline:    approval.Deadline,
		Options:     toOptionResponses(approval.Options),
	})
}

// Decide records the client's decision for a token link.
func (h *PublicHandler) Decide(c *gin.Context) {
	plainToken := c.Param("token")
	if plainToken == "" {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	approval, err := h.svc.Decide(c.Request.Context(), service.DecideInput{
		Token:    plainToken,
		Status:   req.Status,
		OptionID: req.OptionID,
		Comment:  req.Comment,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.PublicApprovalResponse{
		Title:       approval.Title,
		Description: approval.Description,
		Status:      approval.Status,
		Deadline:    approval.Deadline,
		Options:     toOptionResponses(approval.Options),
	})
}

// QRCode serves the approval link as a PNG QR image.
func (h *PublicHandler) QRCode(c *gin.Context) {
	plainToken := c.Param("token")
	if plainToken == "" {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	png, err := h.svc.QRCodePNG(c.Request.Context(), plainToken)
	if httpkit.HandleError(c, err) {
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}
