// Package service implements pricing resolution for activities.
package service

import (
	"context"
	"fmt"

	"workshop_backoffice/internal/activities/repository"
	"workshop_backoffice/internal/shared/money"
	"workshop_backoffice/platform/apperr"
	"workshop_backoffice/platform/logger"
)

// ResolvedTier is the pricing outcome for an activity and participant count.
type ResolvedTier struct {
	Activity repository.Activity
	Tier     repository.PricingTier
}

// RangeLabel renders the tier's participant bracket: "1–10 personen" for a
// bounded tier, "21+ personen" for an unbounded one.
func (r ResolvedTier) RangeLabel() string {
	return TierRangeLabel(r.Tier)
}

// TierRangeLabel renders a tier's participant bracket in Dutch.
func TierRangeLabel(tier repository.PricingTier) string {
	if tier.MaxParticipants == nil {
		return fmt.Sprintf("%d+ personen", tier.MinParticipants)
	}
	return fmt.Sprintf("%d–%d personen", tier.MinParticipants, *tier.MaxParticipants)
}

// TierPriceLine renders a full tier price line:
// "11–20 personen → € 45 excl. btw (€ 54.45 incl. btw) p.p." for per-person
// tiers, with "totaal" instead of "p.p." for flat tiers.
func TierPriceLine(tier repository.PricingTier) string {
	label := TierRangeLabel(tier)
	if tier.PricePerPersonCents != nil {
		excl := *tier.PricePerPersonCents
		return fmt.Sprintf("%s → %s excl. btw (%s incl. btw) p.p.",
			label, money.FormatEuro(excl), money.FormatEuro(money.InclTaxCents(excl)))
	}
	if tier.FlatPriceCents != nil {
		excl := *tier.FlatPriceCents
		return fmt.Sprintf("%s → %s excl. btw (%s incl. btw) totaal",
			label, money.FormatEuro(excl), money.FormatEuro(money.InclTaxCents(excl)))
	}
	return fmt.Sprintf("%s → prijs op aanvraag", label)
}

// TotalExclCents computes the tax-exclusive total for the given participant
// count: per-person price × participants, or the flat price when no
// per-person price is set. Returns 0 when the tier carries no price.
func (r ResolvedTier) TotalExclCents(participants int) int64 {
	if r.Tier.PricePerPersonCents != nil {
		return *r.Tier.PricePerPersonCents * int64(participants)
	}
	if r.Tier.FlatPriceCents != nil {
		return *r.Tier.FlatPriceCents
	}
	return 0
}

// Service resolves pricing tiers and lists activities.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates the activities service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// ActivityWithTiers pairs an activity with its ordered tiers for listings.
type ActivityWithTiers struct {
	Activity repository.Activity
	Tiers    []repository.PricingTier
}

// ListWithTiers returns all active activities with their pricing tiers.
func (s *Service) ListWithTiers(ctx context.Context) ([]ActivityWithTiers, error) {
	activities, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]ActivityWithTiers, 0, len(activities))
	for _, activity := range activities {
		tiers, err := s.repo.ListTiers(ctx, activity.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, ActivityWithTiers{Activity: activity, Tiers: tiers})
	}
	return result, nil
}

// ResolveTier returns the applicable tier for the activity category and
// participant count, or nil when no activity or tier matches. Tiers are
// scanned in ascending min_participants order and the first match wins, so
// overlapping tiers resolve to the lowest bracket.
func (s *Service) ResolveTier(ctx context.Context, category string, participants int) (*ResolvedTier, error) {
	activity, err := s.repo.GetByCategory(ctx, category)
	if err != nil {
		if apperr.GetKind(err) == apperr.KindNotFound {
			return nil, nil
		}
		return nil, err
	}

	tiers, err := s.repo.ListTiers(ctx, activity.ID)
	if err != nil {
		return nil, err
	}

	s.warnOnOverlap(activity.Category, tiers)

	for _, tier := range tiers {
		if participants < tier.MinParticipants {
			continue
		}
		if tier.MaxParticipants != nil && participants > *tier.MaxParticipants {
			continue
		}
		matched := tier
		return &ResolvedTier{Activity: activity, Tier: matched}, nil
	}

	return nil, nil
}

// warnOnOverlap flags overlapping tier brackets as a data-entry concern.
// Resolution still proceeds with the lowest-bracket-wins rule.
func (s *Service) warnOnOverlap(category string, tiers []repository.PricingTier) {
	if s.log == nil {
		return
	}
	for i := 1; i < len(tiers); i++ {
		prev := tiers[i-1]
		if prev.MaxParticipants == nil || tiers[i].MinParticipants <= *prev.MaxParticipants {
			s.log.Warn("overlapping pricing tiers",
				"activity", category,
				"tier", TierRangeLabel(tiers[i]),
				"previousTier", TierRangeLabel(prev),
			)
		}
	}
}
