package repository

import (
	"testing"

	"github.com/google/uuid"
)

func TestGroupRowsCollectsDrinksPerLocation(t *testing.T) {
	locA := uuid.New()
	locB := uuid.New()
	coffee := uuid.New()
	wine := uuid.New()

	flat := []flatRow{
		{Location: Location{ID: locA, Name: "Stadskeuken", City: "Utrecht"}, DrinkID: &coffee, Drink: DrinkItem{ID: coffee, Name: "Coffee", PriceExclCents: 207, PriceInclCents: 250}},
		{Location: Location{ID: locA, Name: "Stadskeuken", City: "Utrecht"}, DrinkID: &wine, Drink: DrinkItem{ID: wine, Name: "Wine", PriceExclCents: 331, PriceInclCents: 400}},
		{Location: Location{ID: locB, Name: "Het Pakhuis", City: "Zwolle"}},
	}

	grouped := groupRows(flat)
	if len(grouped) != 2 {
		t.Fatalf("expected 2 locations, got %d", len(grouped))
	}
	if len(grouped[0].Drinks) != 2 {
		t.Fatalf("expected 2 drinks for first location, got %d", len(grouped[0].Drinks))
	}
	if grouped[0].Drinks[0].Name != "Coffee" || grouped[0].Drinks[1].Name != "Wine" {
		t.Fatalf("drinks not collected in row order: %+v", grouped[0].Drinks)
	}
}

func TestGroupRowsOuterJoinMissProducesNoDrink(t *testing.T) {
	loc := uuid.New()
	grouped := groupRows([]flatRow{
		{Location: Location{ID: loc, Name: "De Loods", City: "Arnhem"}},
	})

	if len(grouped) != 1 {
		t.Fatalf("expected 1 location, got %d", len(grouped))
	}
	if len(grouped[0].Drinks) != 0 {
		t.Fatalf("NULL drink row must not produce a drink entry, got %+v", grouped[0].Drinks)
	}
}

func TestGroupRowsEmptyInput(t *testing.T) {
	if grouped := groupRows(nil); len(grouped) != 0 {
		t.Fatalf("expected no locations, got %d", len(grouped))
	}
}
