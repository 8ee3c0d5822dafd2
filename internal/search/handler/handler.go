package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"archject_backend/internal/search/service"
	"archject_backend/internal/search/transport"
	"archject_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const msgInvalidRequest = "invalid request"

type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.SearchGET)
	rg.POST("", h.SearchPOST)
}

func (h *Handler) SearchGET(c *gin.Context) {
	req := transport.SearchRequest{
		Q:          c.Query("q"),
		EntityType: c.Query("entity_type"),
		Status:     statusesFromQuery(c),
		ProjectID:  c.Query("project_id"),
		Client:     c.Query("client"),
		DateFrom:   c.Query("date_from"),
		DateTo:     c.Query("date_to"),
		Page:       intQuery(c, "page"),
		Limit:      intQuery(c, "limit"),
	}

	h.search(c, req)
}

// SearchPOST accepts the same query as a JSON body. A body that fails to
// parse is treated as an empty filter set rather than rejected.
func (h *Handler) SearchPOST(c *gin.Context) {
	var req transport.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		req = transport.SearchRequest{}
	}

	h.search(c, req)
}

func (h *Handler) search(c *gin.Context, req transport.SearchRequest) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	query := service.Query{
		Text:       req.Q,
		EntityType: req.EntityType,
		Statuses:   req.Status,
		Client:     req.Client,
		Page:       req.Page,
		Limit:      req.Limit,
	}

	if req.ProjectID != "" {
		projectID, err := uuid.Parse(req.ProjectID)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid project_id", nil)
			return
		}
		query.ProjectID = &projectID
	}

	if req.DateFrom != "" {
		from, err := parseTimestamp(req.DateFrom)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid date_from", nil)
			return
		}
		query.DateFrom = &from
	}
	if req.DateTo != "" {
		to, err := parseTimestamp(req.DateTo)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid date_to", nil)
			return
		}
		query.DateTo = &to
	}

	result, err := h.svc.Search(c.Request.Context(), identity.UserID(), query)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// statusesFromQuery accepts both repeated parameters (?status=a&status=b)
// and comma-separated values (?status=a,b).
func statusesFromQuery(c *gin.Context) []string {
	var statuses []string
	for _, raw := range c.QueryArray("status") {
		for _, part := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				statuses = append(statuses, trimmed)
			}
		}
	}
	return statuses
}

func intQuery(c *gin.Context, name string) int {
	value, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return 0
	}
	return value
}

func parseTimestamp(value string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts, nil
	}
	return time.Parse("2006-01-02", value)
}
