// Package transport defines the HTTP DTOs for the locations module.
package transport

import (
	"workshop_backoffice/internal/locations/repository"
	"workshop_backoffice/internal/shared/money"
)

// DrinkItemResponse is a priced drink with both stored tax figures.
type DrinkItemResponse struct {
	Name           string `json:"name"`
	Unit           string `json:"unit,omitempty"`
	PriceExclCents int64  `json:"priceExclCents"`
	PriceInclCents int64  `json:"priceInclCents"`
}

// LocationResponse is a venue with nested drink items.
type LocationResponse struct {
	ID              string              `json:"id"`
	Name            string              `json:"name"`
	City            string              `json:"city"`
	MinCapacity     *int                `json:"minCapacity,omitempty"`
	MaxCapacity     *int                `json:"maxCapacity,omitempty"`
	BasePriceCents  int64               `json:"basePriceCents"`
	InclTaxCents    int64               `json:"inclTaxCents"`
	DrinksPolicy    string              `json:"drinksPolicy"`
	CanSupplyDrinks bool                `json:"canSupplyDrinks"`
	Drinks          []DrinkItemResponse `json:"drinks"`
}

// NewLocationResponse maps a repository location to its response shape.
func NewLocationResponse(location repository.Location) LocationResponse {
	drinks := make([]DrinkItemResponse, 0, len(location.Drinks))
	for _, drink := range location.Drinks {
		drinks = append(drinks, DrinkItemResponse{
			Name:           drink.Name,
			Unit:           drink.Unit,
			PriceExclCents: drink.PriceExclCents,
			PriceInclCents: drink.PriceInclCents,
		})
	}
	return LocationResponse{
		ID:              location.ID.String(),
		Name:            location.Name,
		City:            location.City,
		MinCapacity:     location.MinCapacity,
		MaxCapacity:     location.MaxCapacity,
		BasePriceCents:  location.BasePriceCents,
		InclTaxCents:    money.InclTaxCents(location.BasePriceCents),
		DrinksPolicy:    string(location.DrinksPolicy),
		CanSupplyDrinks: location.CanSupplyDrinks,
		Drinks:          drinks,
	}
}
