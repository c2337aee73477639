package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new locations repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// flatRow is one row of the locations × drinks_pricing LEFT JOIN.
type flatRow struct {
	Location Location
	DrinkID  *uuid.UUID
	Drink    DrinkItem
}

// ListActive returns active locations with their drink items, grouped from a
// single LEFT JOIN. An optional non-empty city filters to an exact match.
func (r *Repo) ListActive(ctx context.Context, city string) ([]Location, error) {
	query := `
		SELECT l.id, l.name, l.city, l.min_capacity, l.max_capacity, l.base_price_cents,
		       l.drinks_policy, l.can_supply_drinks, l.active,
		       d.id, d.name, d.unit, d.price_excl_cents, d.price_incl_cents
		FROM locations l
		LEFT JOIN drinks_pricing d ON d.location_id = l.id
		WHERE l.active = true AND ($1 = '' OR l.city = $1)
		ORDER BY l.city ASC, l.name ASC, d.name ASC`

	rows, err := r.pool.Query(ctx, query, city)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	var flat []flatRow
	for rows.Next() {
		var row flatRow
		var drinkName, drinkUnit *string
		var drinkExcl, drinkIncl *int64

		err := rows.Scan(
			&row.Location.ID, &row.Location.Name, &row.Location.City,
			&row.Location.MinCapacity, &row.Location.MaxCapacity, &row.Location.BasePriceCents,
			&row.Location.DrinksPolicy, &row.Location.CanSupplyDrinks, &row.Location.Active,
			&row.DrinkID, &drinkName, &drinkUnit, &drinkExcl, &drinkIncl,
		)
		if err != nil {
			return nil, fmt.Errorf("scan location row: %w", err)
		}

		if row.DrinkID != nil {
			row.Drink = DrinkItem{
				ID:             *row.DrinkID,
				LocationID:     row.Location.ID,
				Name:           *drinkName,
				Unit:           *drinkUnit,
				PriceExclCents: *drinkExcl,
				PriceInclCents: *drinkIncl,
			}
		}
		flat = append(flat, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate location rows: %w", err)
	}

	return groupRows(flat), nil
}

// groupRows collapses the flattened join rows into one Location per distinct
// location id, collecting its drink rows. A NULL drink row (outer-join miss)
// produces no drink entry.
func groupRows(flat []flatRow) []Location {
	var locations []Location
	index := make(map[uuid.UUID]int)

	for _, row := range flat {
		pos, seen := index[row.Location.ID]
		if !seen {
			location := row.Location
			location.Drinks = nil
			locations = append(locations, location)
			pos = len(locations) - 1
			index[row.Location.ID] = pos
		}
		if row.DrinkID != nil {
			locations[pos].Drinks = append(locations[pos].Drinks, row.Drink)
		}
	}
	return locations
}

// DistinctCities returns the distinct cities that have active locations.
func (r *Repo) DistinctCities(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT city
		FROM locations
		WHERE active = true
		ORDER BY city ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list distinct cities: %w", err)
	}
	defer rows.Close()

	var cities []string
	for rows.Next() {
		var city string
		if err := rows.Scan(&city); err != nil {
			return nil, fmt.Errorf("scan city: %w", err)
		}
		cities = append(cities, city)
	}
	return cities, rows.Err()
}
