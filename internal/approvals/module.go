// Package approvals provides the client approval bounded context module.
package approvals

import (
	"archject_backend/internal/approvals/handler"
	"archject_backend/internal/approvals/repository"
	"archject_backend/internal/approvals/service"
	"archject_backend/internal/events"
	apphttp "archject_backend/internal/http"
	"archject_backend/internal/scheduler"
	"archject_backend/platform/config"
	"archject_backend/platform/logger"
	"archject_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the approvals bounded context module implementing http.Module.
type Module struct {
	handler       *handler.Handler
	publicHandler *handler.PublicHandler
	service       *service.Service
}

func NewModule(
	pool *pgxpool.Pool,
	projects service.ProjectProvider,
	templates service.TemplateProvider,
	bus events.Bus,
	reminders scheduler.ReminderScheduler,
	links config.LinkConfig,
	log *logger.Logger,
	val *validator.Validator,
) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, projects, templates, bus, reminders, links, log)
	h := handler.New(svc, val)
	ph := handler.NewPublicHandler(svc, val)

	return &Module{handler: h, publicHandler: ph, service: svc}
}

func (m *Module) Name() string {
	return "approvals"
}

// Service exposes approval link building for other modules.
func (m *Module) Service() *service.Service {
	return m.service
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/approvals")
	m.handler.RegisterRoutes(group)

	// Public routes for client-facing approval pages (no auth middleware)
	publicGroup := ctx.V1.Group("/public/approvals")
	m.publicHandler.RegisterRoutes(publicGroup)
}

var _ apphttp.Module = (*Module)(nil)
