// Package billing records payment transactions delivered by the billing
// provider's webhooks and lists them per account.
package billing

import (
	"archject_backend/internal/billing/handler"
	"archject_backend/internal/billing/repository"
	"archject_backend/internal/billing/service"
	apphttp "archject_backend/internal/http"
	"archject_backend/platform/logger"
	"archject_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	handler *handler.Handler
}

func NewModule(pool *pgxpool.Pool, log *logger.Logger, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	h := handler.New(svc, val)

	return &Module{handler: h}
}

func (m *Module) Name() string {
	return "billing"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/billing")
	m.handler.RegisterRoutes(group)

	webhooks := ctx.V1.Group("/webhooks")
	m.handler.RegisterWebhookRoutes(webhooks)
}

var _ apphttp.Module = (*Module)(nil)
