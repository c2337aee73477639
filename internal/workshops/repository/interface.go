package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PaymentStatus is a confirmed workshop's payment state.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusInvoiced PaymentStatus = "invoiced"
	PaymentStatusPaid     PaymentStatus = "paid"
)

// Valid reports whether the payment status is one of the defined values.
func (p PaymentStatus) Valid() bool {
	switch p {
	case PaymentStatusPending, PaymentStatusInvoiced, PaymentStatusPaid:
		return true
	}
	return false
}

// ConfirmedWorkshop is a bookable workshop materialized from a confirmed
// request. At most one exists per request.
type ConfirmedWorkshop struct {
	ID            uuid.UUID     `db:"id"`
	RequestID     uuid.UUID     `db:"request_id"`
	ConfirmedDate time.Time     `db:"confirmed_date"`
	Participants  int           `db:"participants"`
	PaymentStatus PaymentStatus `db:"payment_status"`
	CreatedAt     time.Time     `db:"created_at"`
}

// CreateParams contains parameters for creating a confirmed workshop.
type CreateParams struct {
	RequestID     uuid.UUID
	ConfirmedDate time.Time
	Participants  int
}

// Repository provides confirmed workshop persistence.
type Repository interface {
	// CreateIdempotent inserts the workshop unless one already exists for the
	// request, then returns the stored row either way.
	CreateIdempotent(ctx context.Context, params CreateParams) (ConfirmedWorkshop, error)
	// GetByRequestID returns the workshop for a request.
	GetByRequestID(ctx context.Context, requestID uuid.UUID) (ConfirmedWorkshop, error)
	// List returns all confirmed workshops ordered by confirmed date.
	List(ctx context.Context) ([]ConfirmedWorkshop, error)
	// UpdatePaymentStatus sets the payment status of a workshop.
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status PaymentStatus) (ConfirmedWorkshop, error)
}
