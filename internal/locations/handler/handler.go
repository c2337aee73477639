// Package handler handles HTTP requests for the locations module.
package handler

import (
	"github.com/gin-gonic/gin"

	"workshop_backoffice/internal/locations/service"
	"workshop_backoffice/internal/locations/transport"
	"workshop_backoffice/platform/httpkit"
)

// Handler handles HTTP requests for locations.
type Handler struct {
	svc *service.Service
}

// New creates a new locations handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// List retrieves active locations with their drink items.
// GET /api/v1/locations?city=
func (h *Handler) List(c *gin.Context) {
	locations, err := h.svc.Resolve(c.Request.Context(), c.Query("city"))
	if httpkit.HandleError(c, err) {
		return
	}

	responses := make([]transport.LocationResponse, 0, len(locations))
	for _, location := range locations {
		responses = append(responses, transport.NewLocationResponse(location))
	}
	httpkit.OK(c, responses)
}

// Cities retrieves the distinct cities with active locations.
// GET /api/v1/locations/cities
func (h *Handler) Cities(c *gin.Context) {
	cities, err := h.svc.Cities(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, cities)
}
