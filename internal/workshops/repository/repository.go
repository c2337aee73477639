package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"workshop_backoffice/platform/apperr"
)

const workshopNotFoundMessage = "confirmed workshop not found"

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new confirmed workshops repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// CreateIdempotent inserts the workshop for the request unless one already
// exists. The UNIQUE constraint on request_id plus ON CONFLICT DO NOTHING
// makes re-entry of the confirmed transition safe; the stored row is
// re-read and returned either way.
func (r *Repo) CreateIdempotent(ctx context.Context, params CreateParams) (ConfirmedWorkshop, error) {
	insert := `
		INSERT INTO confirmed_workshops (request_id, confirmed_date, participants)
		VALUES ($1, $2, $3)
		ON CONFLICT (request_id) DO NOTHING`

	if _, err := r.pool.Exec(ctx, insert, params.RequestID, params.ConfirmedDate, params.Participants); err != nil {
		return ConfirmedWorkshop{}, fmt.Errorf("create confirmed workshop: %w", err)
	}

	return r.GetByRequestID(ctx, params.RequestID)
}

// GetByRequestID returns the workshop for a request.
func (r *Repo) GetByRequestID(ctx context.Context, requestID uuid.UUID) (ConfirmedWorkshop, error) {
	query := `
		SELECT id, request_id, confirmed_date, participants, payment_status, created_at
		FROM confirmed_workshops
		WHERE request_id = $1`

	var w ConfirmedWorkshop
	err := r.pool.QueryRow(ctx, query, requestID).Scan(
		&w.ID, &w.RequestID, &w.ConfirmedDate, &w.Participants, &w.PaymentStatus, &w.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ConfirmedWorkshop{}, apperr.NotFound(workshopNotFoundMessage)
		}
		return ConfirmedWorkshop{}, fmt.Errorf("get confirmed workshop by request: %w", err)
	}
	return w, nil
}

// List returns all confirmed workshops ordered by confirmed date.
func (r *Repo) List(ctx context.Context) ([]ConfirmedWorkshop, error) {
	query := `
		SELECT id, request_id, confirmed_date, participants, payment_status, created_at
		FROM confirmed_workshops
		ORDER BY confirmed_date ASC, created_at ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list confirmed workshops: %w", err)
	}
	defer rows.Close()

	var workshops []ConfirmedWorkshop
	for rows.Next() {
		var w ConfirmedWorkshop
		if err := rows.Scan(&w.ID, &w.RequestID, &w.ConfirmedDate, &w.Participants, &w.PaymentStatus, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan confirmed workshop: %w", err)
		}
		workshops = append(workshops, w)
	}
	return workshops, rows.Err()
}

// UpdatePaymentStatus sets the payment status of a workshop.
func (r *Repo) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status PaymentStatus) (ConfirmedWorkshop, error) {
	query := `
		UPDATE confirmed_workshops
		SET payment_status = $2
		WHERE id = $1
		RETURNING id, request_id, confirmed_date, participants, payment_status, created_at`

	var w ConfirmedWorkshop
	err := r.pool.QueryRow(ctx, query, id, status).Scan(
		&w.ID, &w.RequestID, &w.ConfirmedDate, &w.Participants, &w.PaymentStatus, &w.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ConfirmedWorkshop{}, apperr.NotFound(workshopNotFoundMessage)
		}
		return ConfirmedWorkshop{}, fmt.Errorf("update payment status: %w", err)
	}
	return w, nil
}
