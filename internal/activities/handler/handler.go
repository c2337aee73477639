// Package handler handles HTTP requests for the activities module.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"workshop_backoffice/internal/activities/service"
	"workshop_backoffice/internal/activities/transport"
	"workshop_backoffice/platform/httpkit"
	"workshop_backoffice/platform/validator"
)

const msgInvalidRequest = "invalid request"

// Handler handles HTTP requests for activities and tier resolution.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new activities handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// List retrieves all active activities with their pricing tiers.
// GET /api/v1/activities
func (h *Handler) List(c *gin.Context) {
	items, err := h.svc.ListWithTiers(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	responses := make([]transport.ActivityResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, transport.NewActivityResponse(item))
	}
	httpkit.OK(c, responses)
}

// ResolveTier resolves the applicable pricing tier for a category and
// participant count. A non-match is a 200 with resolved=false, not an error.
// GET /api/v1/activities/resolve-tier?category=&participants=
func (h *Handler) ResolveTier(c *gin.Context) {
	var req transport.ResolveTierRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	resolved, err := h.svc.ResolveTier(c.Request.Context(), req.Category, req.Participants)
	if httpkit.HandleError(c, err) {
		return
	}

	if resolved == nil {
		httpkit.OK(c, transport.ResolvedTierResponse{Resolved: false})
		return
	}

	tier := transport.NewTierResponse(resolved.Tier)
	httpkit.OK(c, transport.ResolvedTierResponse{
		Resolved: true,
		Category: resolved.Activity.Category,
		Tier:     &tier,
	})
}
