// Package transport defines the HTTP DTOs for the activities module.
package transport

import (
	"workshop_backoffice/internal/activities/repository"
	"workshop_backoffice/internal/activities/service"
	"workshop_backoffice/internal/shared/money"
)

// ResolveTierRequest is the query for GET /activities/resolve-tier.
type ResolveTierRequest struct {
	Category     string `form:"category" binding:"required"`
	Participants int    `form:"participants" binding:"required,min=1"`
}

// TierResponse is a pricing tier with read-time VAT figures.
type TierResponse struct {
	MinParticipants     int    `json:"minParticipants"`
	MaxParticipants     *int   `json:"maxParticipants,omitempty"`
	PricePerPersonCents *int64 `json:"pricePerPersonCents,omitempty"`
	FlatPriceCents      *int64 `json:"flatPriceCents,omitempty"`
	InclTaxCents        int64  `json:"inclTaxCents"`
	Label               string `json:"label"`
	PriceLine           string `json:"priceLine"`
}

// ActivityResponse is an activity with its tiers.
type ActivityResponse struct {
	ID             string         `json:"id"`
	Category       string         `json:"category"`
	Description    string         `json:"description"`
	BasePriceCents int64          `json:"basePriceCents"`
	Tiers          []TierResponse `json:"tiers"`
}

// ResolvedTierResponse is the outcome of a tier resolution. Resolved is
// false when no activity or tier matched; callers omit pricing in that case.
type ResolvedTierResponse struct {
	Resolved bool          `json:"resolved"`
	Category string        `json:"category,omitempty"`
	Tier     *TierResponse `json:"tier,omitempty"`
}

// NewTierResponse maps a repository tier to its response shape.
func NewTierResponse(tier repository.PricingTier) TierResponse {
	resp := TierResponse{
		MinParticipants:     tier.MinParticipants,
		MaxParticipants:     tier.MaxParticipants,
		PricePerPersonCents: tier.PricePerPersonCents,
		FlatPriceCents:      tier.FlatPriceCents,
		Label:               service.TierRangeLabel(tier),
		PriceLine:           service.TierPriceLine(tier),
	}
	if tier.PricePerPersonCents != nil {
		resp.InclTaxCents = money.InclTaxCents(*tier.PricePerPersonCents)
	} else if tier.FlatPriceCents != nil {
		resp.InclTaxCents = money.InclTaxCents(*tier.FlatPriceCents)
	}
	return resp
}

// NewActivityResponse maps an activity with tiers to its response shape.
func NewActivityResponse(item service.ActivityWithTiers) ActivityResponse {
	tiers := make([]TierResponse, 0, len(item.Tiers))
	for _, tier := range item.Tiers {
		tiers = append(tiers, NewTierResponse(tier))
	}
	return ActivityResponse{
		ID:             item.Activity.ID.String(),
		Category:       item.Activity.Category,
		Description:    item.Activity.Description,
		BasePriceCents: item.Activity.BasePriceCents,
		Tiers:          tiers,
	}
}
