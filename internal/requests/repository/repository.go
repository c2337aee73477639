package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"workshop_backoffice/internal/requests/domain"
	"workshop_backoffice/platform/apperr"
)

const requestNotFoundMessage = "workshop request not found"

const requestColumns = `
	id, status, contact_name, email, phone, organization, activity_type,
	preferred_date, alternative_date, participants, location_preference,
	dietary_requirements, accessibility_notes, special_requests,
	quoted_price_cents, email_sent_at, quote_document_url, last_draft_text,
	created_at, updated_at`

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new workshop request repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// Create registers a new request in the empty state.
func (r *Repo) Create(ctx context.Context, params CreateParams) (WorkshopRequest, error) {
	query := `
		INSERT INTO workshop_requests (
			status, contact_name, email, phone, organization, activity_type,
			preferred_date, alternative_date, participants, location_preference,
			dietary_requirements, accessibility_notes, special_requests
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + requestColumns

	row := r.pool.QueryRow(ctx, query,
		domain.StatusEmpty, params.ContactName, params.Email, params.Phone,
		params.Organization, params.ActivityType, params.PreferredDate,
		params.AlternativeDate, params.Participants, params.LocationPreference,
		params.DietaryRequirements, params.AccessibilityNotes, params.SpecialRequests,
	)
	req, err := scanRequest(row)
	if err != nil {
		return WorkshopRequest{}, fmt.Errorf("create workshop request: %w", err)
	}
	return req, nil
}

// GetByID returns the request by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (WorkshopRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM workshop_requests WHERE id = $1`

	req, err := scanRequest(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return WorkshopRequest{}, apperr.NotFound(requestNotFoundMessage)
		}
		return WorkshopRequest{}, fmt.Errorf("get workshop request: %w", err)
	}
	return req, nil
}

// List returns all requests, newest first.
func (r *Repo) List(ctx context.Context) ([]WorkshopRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM workshop_requests ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list workshop requests: %w", err)
	}
	defer rows.Close()

	var requests []WorkshopRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan workshop request: %w", err)
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

// UpdateStatus persists the status unconditionally.
func (r *Repo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status) error {
	query := `UPDATE workshop_requests SET status = $2, updated_at = now() WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("update request status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(requestNotFoundMessage)
	}
	return nil
}

// SaveAutomationMetadata records the outputs of a successful pipeline run.
func (r *Repo) SaveAutomationMetadata(ctx context.Context, id uuid.UUID, meta AutomationMetadata) error {
	query := `
		UPDATE workshop_requests
		SET quoted_price_cents = $2,
		    email_sent_at = $3,
		    quote_document_url = $4,
		    last_draft_text = $5,
		    updated_at = now()
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, meta.QuotedPriceCents, meta.EmailSentAt, meta.QuoteDocumentURL, meta.LastDraftText)
	if err != nil {
		return fmt.Errorf("save automation metadata: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(requestNotFoundMessage)
	}
	return nil
}

// RecordRun upserts an automation run keyed by (request, idempotency key).
// A retried key overwrites the previous failed attempt's outcome.
func (r *Repo) RecordRun(ctx context.Context, params RecordRunParams) error {
	query := `
		INSERT INTO automation_runs (
			request_id, idempotency_key, status, error, email_id, document_url,
			started_at, finished_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (request_id, idempotency_key) DO UPDATE
		SET status = EXCLUDED.status,
		    error = EXCLUDED.error,
		    email_id = EXCLUDED.email_id,
		    document_url = EXCLUDED.document_url,
		    started_at = EXCLUDED.started_at,
		    finished_at = EXCLUDED.finished_at`

	_, err := r.pool.Exec(ctx, query,
		params.RequestID, params.IdempotencyKey, params.Status, params.Error,
		params.EmailID, params.DocumentURL, params.StartedAt, params.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("record automation run: %w", err)
	}
	return nil
}

// GetRun returns the recorded run for the key, or nil when none exists.
func (r *Repo) GetRun(ctx context.Context, requestID uuid.UUID, idempotencyKey string) (*AutomationRun, error) {
	query := `
		SELECT id, request_id, idempotency_key, status, error, email_id,
		       document_url, started_at, finished_at
		FROM automation_runs
		WHERE request_id = $1 AND idempotency_key = $2`

	var run AutomationRun
	err := r.pool.QueryRow(ctx, query, requestID, idempotencyKey).Scan(
		&run.ID, &run.RequestID, &run.IdempotencyKey, &run.Status, &run.Error,
		&run.EmailID, &run.DocumentURL, &run.StartedAt, &run.FinishedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get automation run: %w", err)
	}
	return &run, nil
}

func scanRequest(row pgx.Row) (WorkshopRequest, error) {
	var req WorkshopRequest
	err := row.Scan(
		&req.ID, &req.Status, &req.ContactName, &req.Email, &req.Phone,
		&req.Organization, &req.ActivityType, &req.PreferredDate,
		&req.AlternativeDate, &req.Participants, &req.LocationPreference,
		&req.DietaryRequirements, &req.AccessibilityNotes, &req.SpecialRequests,
		&req.QuotedPriceCents, &req.EmailSentAt, &req.QuoteDocumentURL,
		&req.LastDraftText, &req.CreatedAt, &req.UpdatedAt,
	)
	return req, err
}
