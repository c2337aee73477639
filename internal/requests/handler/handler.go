// Package handler handles HTTP requests for the requests module.
package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"workshop_backoffice/internal/requests/repository"
	"workshop_backoffice/internal/requests/service"
	"workshop_backoffice/internal/requests/transport"
	"workshop_backoffice/platform/httpkit"
)

const (
	msgInvalidRequest = "invalid request"
	msgInvalidID      = "invalid request ID"
	msgInvalidDate    = "invalid date, expected yyyy-mm-dd"
)

// Handler handles HTTP requests for workshop requests.
type Handler struct {
	svc *service.Service
}

// New creates a new requests handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Create registers a new workshop request.
// POST /api/v1/requests
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	preferredDate, err := transport.ParseDate(req.PreferredDate)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidDate, nil)
		return
	}
	alternativeDate, err := transport.ParseDate(req.AlternativeDate)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidDate, nil)
		return
	}

	created, err := h.svc.Create(c.Request.Context(), repository.CreateParams{
		ContactName:         req.ContactName,
		Email:               req.Email,
		Phone:               req.Phone,
		Organization:        req.Organization,
		ActivityType:        req.ActivityType,
		PreferredDate:       preferredDate,
		AlternativeDate:     alternativeDate,
		Participants:        req.Participants,
		LocationPreference:  req.LocationPreference,
		DietaryRequirements: req.DietaryRequirements,
		AccessibilityNotes:  req.AccessibilityNotes,
		SpecialRequests:     req.SpecialRequests,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, transport.NewRequestResponse(created))
}

// List retrieves all workshop requests, newest first.
// GET /api/v1/requests
func (h *Handler) List(c *gin.Context) {
	requests, err := h.svc.List(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	responses := make([]transport.RequestResponse, 0, len(requests))
	for _, req := range requests {
		responses = append(responses, transport.NewRequestResponse(req))
	}
	httpkit.OK(c, responses)
}

// Get retrieves a single workshop request.
// GET /api/v1/requests/:id
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	req, err := h.svc.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.NewRequestResponse(req))
}

// ChangeStatus moves a request through the workflow. Side-effect failures
// after the status write come back as a warning on a 200, never as an error.
// PATCH /api/v1/requests/:id/status
func (h *Handler) ChangeStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	var req transport.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	result, err := h.svc.ChangeStatus(c.Request.Context(), id, req.Status)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.NewChangeStatusResponse(result))
}

// RetryAutomation re-runs the quote pipeline for a request.
// POST /api/v1/requests/:id/automation/retry
func (h *Handler) RetryAutomation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	// The body is optional; an absent body means a server-generated key.
	var req transport.RetryAutomationRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	result, err := h.svc.RetryAutomation(c.Request.Context(), id, req.IdempotencyKey)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.NewRetryAutomationResponse(result))
}
