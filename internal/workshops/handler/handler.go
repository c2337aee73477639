// Package handler handles HTTP requests for the workshops module.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"workshop_backoffice/internal/workshops/repository"
	"workshop_backoffice/internal/workshops/service"
	"workshop_backoffice/internal/workshops/transport"
	"workshop_backoffice/platform/httpkit"
)

const (
	msgInvalidRequest = "invalid request"
	msgInvalidID      = "invalid workshop ID"
)

// Handler handles HTTP requests for confirmed workshops.
type Handler struct {
	svc *service.Service
}

// New creates a new workshops handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// List retrieves all confirmed workshops.
// GET /api/v1/workshops
func (h *Handler) List(c *gin.Context) {
	workshops, err := h.svc.List(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	responses := make([]transport.WorkshopResponse, 0, len(workshops))
	for _, w := range workshops {
		responses = append(responses, transport.NewWorkshopResponse(w))
	}
	httpkit.OK(c, responses)
}

// UpdatePaymentStatus sets a workshop's payment status.
// PATCH /api/v1/workshops/:id/payment-status
func (h *Handler) UpdatePaymentStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	var req transport.UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	workshop, err := h.svc.SetPaymentStatus(c.Request.Context(), id, repository.PaymentStatus(req.PaymentStatus))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.NewWorkshopResponse(workshop))
}
