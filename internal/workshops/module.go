// Package workshops provides the confirmed workshop bounded context.
package workshops

import (
	"workshop_backoffice/internal/http"
	"workshop_backoffice/internal/workshops/handler"
	"workshop_backoffice/internal/workshops/repository"
	"workshop_backoffice/internal/workshops/service"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the workshops bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the workshops module.
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
	return "workshops"
}

// Service returns the service layer for cross-module wiring.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts workshop routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *http.RouterContext) {
	ctx.V1.GET("/workshops", m.handler.List)
	ctx.V1.PATCH("/workshops/:id/payment-status", m.handler.UpdatePaymentStatus)
}
