// Package repository provides workshop request persistence.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"workshop_backoffice/internal/requests/domain"
)

// WorkshopRequest is a stored booking request. Pointer fields are nullable
// columns; absent means the customer did not supply the value.
type WorkshopRequest struct {
	ID                  uuid.UUID     `db:"id"`
	Status              domain.Status `db:"status"`
	ContactName         string        `db:"contact_name"`
	Email               string        `db:"email"`
	Phone               string        `db:"phone"`
	Organization        string        `db:"organization"`
	ActivityType        string        `db:"activity_type"`
	PreferredDate       *time.Time    `db:"preferred_date"`
	AlternativeDate     *time.Time    `db:"alternative_date"`
	Participants        int           `db:"participants"`
	LocationPreference  *string       `db:"location_preference"`
	DietaryRequirements *string       `db:"dietary_requirements"`
	AccessibilityNotes  *string       `db:"accessibility_notes"`
	SpecialRequests     *string       `db:"special_requests"`
	QuotedPriceCents    *int64        `db:"quoted_price_cents"`
	EmailSentAt         *time.Time    `db:"email_sent_at"`
	QuoteDocumentURL    *string       `db:"quote_document_url"`
	LastDraftText       *string       `db:"last_draft_text"`
	CreatedAt           time.Time     `db:"created_at"`
	UpdatedAt           time.Time     `db:"updated_at"`
}

// CreateParams contains parameters for registering a new request.
type CreateParams struct {
	ContactName         string
	Email               string
	Phone               string
	Organization        string
	ActivityType        string
	PreferredDate       *time.Time
	AlternativeDate     *time.Time
	Participants        int
	LocationPreference  *string
	DietaryRequirements *string
	AccessibilityNotes  *string
	SpecialRequests     *string
}

// AutomationMetadata is written onto the request after a successful
// automation run.
type AutomationMetadata struct {
	QuotedPriceCents *int64
	EmailSentAt      time.Time
	QuoteDocumentURL *string
	LastDraftText    string
}

// Automation run outcomes recorded in the ledger.
const (
	RunSucceeded = "succeeded"
	RunFailed    = "failed"
)

// AutomationRun is one recorded attempt of the quote pipeline for a request,
// keyed by an idempotency key so a retry never replays a succeeded attempt.
type AutomationRun struct {
	ID             uuid.UUID  `db:"id"`
	RequestID      uuid.UUID  `db:"request_id"`
	IdempotencyKey string     `db:"idempotency_key"`
	Status         string     `db:"status"`
	Error          *string    `db:"error"`
	EmailID        *string    `db:"email_id"`
	DocumentURL    *string    `db:"document_url"`
	StartedAt      time.Time  `db:"started_at"`
	FinishedAt     *time.Time `db:"finished_at"`
}

// RecordRunParams contains the outcome of a pipeline attempt.
type RecordRunParams struct {
	RequestID      uuid.UUID
	IdempotencyKey string
	Status         string
	Error          *string
	EmailID        *string
	DocumentURL    *string
	StartedAt      time.Time
	FinishedAt     time.Time
}

// Repository provides workshop request persistence.
type Repository interface {
	// Create registers a new request in the empty state.
	Create(ctx context.Context, params CreateParams) (WorkshopRequest, error)
	// GetByID returns the request by primary key.
	GetByID(ctx context.Context, id uuid.UUID) (WorkshopRequest, error)
	// List returns all requests, newest first.
	List(ctx context.Context) ([]WorkshopRequest, error)
	// UpdateStatus persists the status. The write is unconditional; the
	// caller owns transition rules.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status) error
	// SaveAutomationMetadata records the outputs of a successful pipeline run.
	SaveAutomationMetadata(ctx context.Context, id uuid.UUID, meta AutomationMetadata) error
	// RecordRun upserts an automation run in the ledger by (request, key).
	RecordRun(ctx context.Context, params RecordRunParams) error
	// GetRun returns the recorded run for the key, or nil when none exists.
	GetRun(ctx context.Context, requestID uuid.UUID, idempotencyKey string) (*AutomationRun, error)
}
