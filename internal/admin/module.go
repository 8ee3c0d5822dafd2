// Package admin provides elevated operational endpoints: aggregate stats,
// user listing and role management.
package admin

import (
	"archject_backend/internal/admin/handler"
	"archject_backend/internal/admin/repository"
	"archject_backend/internal/admin/service"
	apphttp "archject_backend/internal/http"
	"archject_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Module struct {
	handler *handler.Handler
}

func NewModule(pool *pgxpool.Pool, roles service.RoleManager, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, roles)
	h := handler.New(svc, val)

	return &Module{handler: h}
}

func (m *Module) Name() string {
	return "admin"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Admin)
}

var _ apphttp.Module = (*Module)(nil)
