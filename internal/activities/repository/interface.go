package repository

import (
	"context"

	"github.com/google/uuid"
)

// Activity represents a bookable activity category.
type Activity struct {
	ID             uuid.UUID `db:"id"`
	Category       string    `db:"category"`
	Description    string    `db:"description"`
	BasePriceCents int64     `db:"base_price_cents"`
	Active         bool      `db:"active"`
}

// PricingTier defines a participant-count price bracket for an activity.
// MaxParticipants nil means unbounded above. Either PricePerPersonCents or
// FlatPriceCents may be set; neither is required to be exclusive.
type PricingTier struct {
	ID                  uuid.UUID `db:"id"`
	ActivityID          uuid.UUID `db:"activity_id"`
	MinParticipants     int       `db:"min_participants"`
	MaxParticipants     *int      `db:"max_participants"`
	PricePerPersonCents *int64    `db:"price_per_person_cents"`
	FlatPriceCents      *int64    `db:"flat_price_cents"`
}

// ActivityReader provides read operations on activities and their tiers.
type ActivityReader interface {
	// GetByCategory returns the activity with the exact category key.
	GetByCategory(ctx context.Context, category string) (Activity, error)
	// ListActive returns all active activities ordered by category.
	ListActive(ctx context.Context) ([]Activity, error)
	// ListTiers returns the activity's tiers ordered by min_participants ascending.
	ListTiers(ctx context.Context, activityID uuid.UUID) ([]PricingTier, error)
}

// Repository combines all activity repository operations.
type Repository interface {
	ActivityReader
}
