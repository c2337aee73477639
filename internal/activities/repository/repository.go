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

const activityNotFoundMessage = "activity not found"

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new activities repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// GetByCategory retrieves an active activity by its exact category key.
func (r *Repo) GetByCategory(ctx context.Context, category string) (Activity, error) {
	query := `
		SELECT id, category, description, base_price_cents, active
		FROM activities
		WHERE category = $1 AND active = true`

	var a Activity
	err := r.pool.QueryRow(ctx, query, category).Scan(
		&a.ID, &a.Category, &a.Description, &a.BasePriceCents, &a.Active,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Activity{}, apperr.NotFound(activityNotFoundMessage)
		}
		return Activity{}, fmt.Errorf("get activity by category: %w", err)
	}

	return a, nil
}

// ListActive retrieves all active activities ordered by category.
func (r *Repo) ListActive(ctx context.Context) ([]Activity, error) {
	query := `
		SELECT id, category, description, base_price_cents, active
		FROM activities
		WHERE active = true
		ORDER BY category ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	var activities []Activity
	for rows.Next() {
		var a Activity
		if err := rows.Scan(&a.ID, &a.Category, &a.Description, &a.BasePriceCents, &a.Active); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

// ListTiers retrieves the activity's tiers ordered by min_participants ascending.
func (r *Repo) ListTiers(ctx context.Context, activityID uuid.UUID) ([]PricingTier, error) {
	query := `
		SELECT id, activity_id, min_participants, max_participants, price_per_person_cents, flat_price_cents
		FROM pricing_tiers
		WHERE activity_id = $1
		ORDER BY min_participants ASC`

	rows, err := r.pool.Query(ctx, query, activityID)
	if err != nil {
		return nil, fmt.Errorf("list pricing tiers: %w", err)
	}
	defer rows.Close()

	var tiers []PricingTier
	for rows.Next() {
		var t PricingTier
		if err := rows.Scan(&t.ID, &t.ActivityID, &t.MinParticipants, &t.MaxParticipants, &t.PricePerPersonCents, &t.FlatPriceCents); err != nil {
			return nil, fmt.Errorf("scan pricing tier: %w", err)
		}
		tiers = append(tiers, t)
	}
	return tiers, rows.Err()
}
