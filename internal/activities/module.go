// Package activities provides the activity catalog and pricing bounded context.
package activities

import (
	"workshop_backoffice/internal/activities/handler"
	"workshop_backoffice/internal/activities/repository"
	"workshop_backoffice/internal/activities/service"
	apphttp "workshop_backoffice/internal/http"
	"workshop_backoffice/platform/logger"
	"workshop_backoffice/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the activities bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the activities module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "activities"
}

// Service returns the service layer for cross-module wiring.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts activities routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/activities", m.handler.List)
	ctx.V1.GET("/activities/resolve-tier", m.handler.ResolveTier)
}
