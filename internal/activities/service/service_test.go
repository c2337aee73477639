package service

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"workshop_backoffice/internal/activities/repository"
	"workshop_backoffice/platform/apperr"
)

type fakeRepo struct {
	activities map[string]repository.Activity
	tiers      map[uuid.UUID][]repository.PricingTier
}

func (f *fakeRepo) GetByCategory(_ context.Context, category string) (repository.Activity, error) {
	a, ok := f.activities[category]
	if !ok {
		return repository.Activity{}, apperr.NotFound("activity not found")
	}
	return a, nil
}

func (f *fakeRepo) ListActive(_ context.Context) ([]repository.Activity, error) {
	var out []repository.Activity
	for _, a := range f.activities {
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeRepo) ListTiers(_ context.Context, activityID uuid.UUID) ([]repository.PricingTier, error) {
	return f.tiers[activityID], nil
}

func intPtr(v int) *int       { return &v }
func centsPtr(v int64) *int64 { return &v }

func newKookworkshopRepo() (*fakeRepo, uuid.UUID) {
	activityID := uuid.New()
	repo := &fakeRepo{
		activities: map[string]repository.Activity{
			"kookworkshop": {ID: activityID, Category: "kookworkshop", Description: "Samen koken", Active: true},
		},
		tiers: map[uuid.UUID][]repository.PricingTier{
			activityID: {
				{ActivityID: activityID, MinParticipants: 1, MaxParticipants: intPtr(10), PricePerPersonCents: centsPtr(5000)},
				{ActivityID: activityID, MinParticipants: 11, MaxParticipants: intPtr(20), PricePerPersonCents: centsPtr(4500)},
				{ActivityID: activityID, MinParticipants: 21, PricePerPersonCents: centsPtr(4000)},
			},
		},
	}
	return repo, activityID
}

func TestResolveTierFirstMatchWins(t *testing.T) {
	repo, _ := newKookworkshopRepo()
	svc := New(repo, nil)

	tests := []struct {
		name         string
		participants int
		wantMin      int
	}{
		{"lowest bracket", 5, 1},
		{"middle bracket", 15, 11},
		{"bracket boundary low", 11, 11},
		{"bracket boundary high", 20, 11},
		{"unbounded bracket", 35, 21},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolved, err := svc.ResolveTier(context.Background(), "kookworkshop", tt.participants)
			if err != nil {
				t.Fatalf("ResolveTier returned error: %v", err)
			}
			if resolved == nil {
				t.Fatalf("ResolveTier returned nil for %d participants", tt.participants)
			}
			if resolved.Tier.MinParticipants != tt.wantMin {
				t.Fatalf("ResolveTier(%d) matched tier with min %d, want %d",
					tt.participants, resolved.Tier.MinParticipants, tt.wantMin)
			}
		})
	}
}

func TestResolveTierOverlapResolvesToLowestBracket(t *testing.T) {
	activityID := uuid.New()
	repo := &fakeRepo{
		activities: map[string]repository.Activity{
			"proeverij": {ID: activityID, Category: "proeverij", Active: true},
		},
		tiers: map[uuid.UUID][]repository.PricingTier{
			activityID: {
				{ActivityID: activityID, MinParticipants: 1, MaxParticipants: intPtr(15), PricePerPersonCents: centsPtr(3000)},
				{ActivityID: activityID, MinParticipants: 10, MaxParticipants: intPtr(25), PricePerPersonCents: centsPtr(2500)},
			},
		},
	}
	svc := New(repo, nil)

	resolved, err := svc.ResolveTier(context.Background(), "proeverij", 12)
	if err != nil {
		t.Fatalf("ResolveTier returned error: %v", err)
	}
	if resolved == nil || resolved.Tier.MinParticipants != 1 {
		t.Fatalf("overlapping tiers must resolve to the lowest bracket, got %+v", resolved)
	}
}

func TestResolveTierNoMatchReturnsNil(t *testing.T) {
	repo, activityID := newKookworkshopRepo()
	svc := New(repo, nil)

	t.Run("unknown activity", func(t *testing.T) {
		resolved, err := svc.ResolveTier(context.Background(), "onbekend", 10)
		if err != nil {
			t.Fatalf("unknown activity must not error, got %v", err)
		}
		if resolved != nil {
			t.Fatalf("unknown activity must resolve to nil, got %+v", resolved)
		}
	})

	t.Run("participant count below every tier", func(t *testing.T) {
		repo.tiers[activityID] = []repository.PricingTier{
			{ActivityID: activityID, MinParticipants: 10, MaxParticipants: intPtr(20), PricePerPersonCents: centsPtr(4500)},
		}
		resolved, err := svc.ResolveTier(context.Background(), "kookworkshop", 4)
		if err != nil {
			t.Fatalf("gap in tiers must not error, got %v", err)
		}
		if resolved != nil {
			t.Fatalf("gap in tiers must resolve to nil, got %+v", resolved)
		}
	})
}

func TestTierPriceLine(t *testing.T) {
	line := TierPriceLine(repository.PricingTier{
		MinParticipants:     11,
		MaxParticipants:     intPtr(20),
		PricePerPersonCents: centsPtr(4500),
	})
	want := "11–20 personen → € 45 excl. btw (€ 54.45 incl. btw) p.p."
	if line != want {
		t.Fatalf("TierPriceLine = %q, want %q", line, want)
	}

	flat := TierPriceLine(repository.PricingTier{
		MinParticipants: 21,
		FlatPriceCents:  centsPtr(80000),
	})
	wantFlat := "21+ personen → € 800 excl. btw (€ 968 incl. btw) totaal"
	if flat != wantFlat {
		t.Fatalf("TierPriceLine flat = %q, want %q", flat, wantFlat)
	}
}

func TestTotalExclCents(t *testing.T) {
	perPerson := ResolvedTier{Tier: repository.PricingTier{PricePerPersonCents: centsPtr(4500)}}
	if got := perPerson.TotalExclCents(15); got != 67500 {
		t.Fatalf("per-person total = %d, want 67500", got)
	}

	flat := ResolvedTier{Tier: repository.PricingTier{FlatPriceCents: centsPtr(80000)}}
	if got := flat.TotalExclCents(15); got != 80000 {
		t.Fatalf("flat total = %d, want 80000", got)
	}
}
