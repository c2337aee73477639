// Package locations provides the venue bounded context.
package locations

import (
	"workshop_backoffice/internal/http"
	"workshop_backoffice/internal/locations/handler"
	"workshop_backoffice/internal/locations/repository"
	"workshop_backoffice/internal/locations/service"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the locations bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the locations module.
func NewModule(pool *pgxpool.Pool) *Module {
	repo := repository.New(pool)
	svc := service.New(repo)
	h := handler.New(svc)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "locations"
}

// Service returns the service layer for cross-module wiring.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts locations routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *http.RouterContext) {
	ctx.V1.GET("/locations", m.handler.List)
	ctx.V1.GET("/locations/cities", m.handler.Cities)
}
