// Package templates provides reusable approval templates.
package templates

import (
	apphttp "archject_backend/internal/http"
	"archject_backend/internal/templates/handler"
	"archject_backend/internal/templates/repository"
	"archject_backend/internal/templates/service"
	"archject_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	handler *handler.Handler
	service *service.Service
}

func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

func (m *Module) Name() string {
	return "templates"
}

// Service exposes template lookups for the approvals module.
func (m *Module) Service() *service.Service {
	return m.service
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/templates")
	m.handler.RegisterRoutes(group)
}

var _ apphttp.Module = (*Module)(nil)
