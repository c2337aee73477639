package repository

import (
	"context"

	"github.com/google/uuid"
)

// DrinksPolicy is a location's drinks arrangement policy.
type DrinksPolicy string

const (
	DrinksPolicyFlexible             DrinksPolicy = "flexible"
	DrinksPolicyViaLocation          DrinksPolicy = "via_location"
	DrinksPolicyMandatoryViaLocation DrinksPolicy = "mandatory_via_location"
)

// DrinkItem is an individual priced drink belonging to a location. Both tax
// figures are stored as entered; drinks prices are venue-quoted and not
// derived from the VAT rule.
type DrinkItem struct {
	ID             uuid.UUID `db:"id"`
	LocationID     uuid.UUID `db:"location_id"`
	Name           string    `db:"name"`
	Unit           string    `db:"unit"`
	PriceExclCents int64     `db:"price_excl_cents"`
	PriceInclCents int64     `db:"price_incl_cents"`
}

// Location is a bookable venue with its nested drink items.
type Location struct {
	ID              uuid.UUID    `db:"id"`
	Name            string       `db:"name"`
	City            string       `db:"city"`
	MinCapacity     *int         `db:"min_capacity"`
	MaxCapacity     *int         `db:"max_capacity"`
	BasePriceCents  int64        `db:"base_price_cents"`
	DrinksPolicy    DrinksPolicy `db:"drinks_policy"`
	CanSupplyDrinks bool         `db:"can_supply_drinks"`
	Active          bool         `db:"active"`
	Drinks          []DrinkItem
}

// LocationReader provides read operations for locations.
type LocationReader interface {
	// ListActive returns active locations with their drink items, optionally
	// filtered to an exact city match when city is non-empty.
	ListActive(ctx context.Context, city string) ([]Location, error)
	// DistinctCities returns the distinct cities that have active locations.
	DistinctCities(ctx context.Context) ([]string, error)
}

// Repository combines all location repository operations.
type Repository interface {
	LocationReader
}
