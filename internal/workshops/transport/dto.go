// Package transport defines the HTTP DTOs for the workshops module.
package transport

import (
	"time"

	"workshop_backoffice/internal/workshops/repository"
)

const dateLayout = "2006-01-02"

// UpdatePaymentStatusRequest is the body for PATCH /workshops/:id/payment-status.
type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"paymentStatus" binding:"required"`
}

// WorkshopResponse is a confirmed workshop.
type WorkshopResponse struct {
	ID            string `json:"id"`
	RequestID     string `json:"requestId"`
	ConfirmedDate string `json:"confirmedDate"`
	Participants  int    `json:"participants"`
	PaymentStatus string `json:"paymentStatus"`
	CreatedAt     string `json:"createdAt"`
}

// NewWorkshopResponse maps a repository workshop to its response shape.
func NewWorkshopResponse(w repository.ConfirmedWorkshop) WorkshopResponse {
	return WorkshopResponse{
		ID:            w.ID.String(),
		RequestID:     w.RequestID.String(),
		ConfirmedDate: w.ConfirmedDate.Format(dateLayout),
		Participants:  w.Participants,
		PaymentStatus: string(w.PaymentStatus),
		CreatedAt:     w.CreatedAt.Format(time.RFC3339),
	}
}
