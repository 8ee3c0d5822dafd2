// Package projects provides the project management bounded context module.
package projects

import (
	apphttp "archject_backend/internal/http"
	"archject_backend/internal/projects/handler"
	"archject_backend/internal/projects/repository"
	"archject_backend/internal/projects/service"
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
	return "projects"
}

// Service exposes project lookups for modules that reference projects.
func (m *Module) Service() *service.Service {
	return m.service
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/projects")
	m.handler.RegisterRoutes(group)
}

var _ apphttp.Module = (*Module)(nil)
