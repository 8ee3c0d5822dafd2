// Package search provides the cross-entity search module: one query spanning
// projects, approval requests and templates, merged into a single
// recency-ordered page.
package search

import (
	apphttp "archject_backend/internal/http"
	"archject_backend/internal/search/handler"
	"archject_backend/internal/search/repository"
	"archject_backend/internal/search/service"
	"archject_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	handler *handler.Handler
}

func NewModule(pool *pgxpool.Pool, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	h := handler.New(svc)

	return &Module{handler: h}
}

func (m *Module) Name() string {
	return "search"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/search")
	m.handler.RegisterRoutes(group)
}

var _ apphttp.Module = (*Module)(nil)
