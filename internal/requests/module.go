// Package requests provides the workshop request bounded context: the
// status state machine and the orchestration of its transition side effects.
package requests

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"workshop_backoffice/internal/http"
	"workshop_backoffice/internal/requests/handler"
	"workshop_backoffice/internal/requests/repository"
	"workshop_backoffice/internal/requests/service"
	"workshop_backoffice/platform/events"
	"workshop_backoffice/platform/logger"
)

// Module is the requests bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the requests module. The pipeline and
// workshop confirmer come from sibling modules; enqueuer may be nil when no
// retry queue is configured.
func NewModule(pool *pgxpool.Pool, pipeline service.Pipeline, workshops service.WorkshopConfirmer, enqueuer service.RetryEnqueuer, bus events.Bus, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, pipeline, workshops, enqueuer, bus, log)
	h := handler.New(svc)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "requests"
}

// Service returns the service layer for cross-module wiring.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts request routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *http.RouterContext) {
	ctx.V1.POST("/requests", m.handler.Create)
	ctx.V1.GET("/requests", m.handler.List)
	ctx.V1.GET("/requests/:id", m.handler.Get)
	ctx.V1.PATCH("/requests/:id/status", m.handler.ChangeStatus)
	ctx.V1.POST("/requests/:id/automation/retry", m.handler.RetryAutomation)
}
