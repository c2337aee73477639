package quote

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	activityrepo "workshop_backoffice/internal/activities/repository"
	activityservice "workshop_backoffice/internal/activities/service"
	locationrepo "workshop_backoffice/internal/locations/repository"
	locationservice "workshop_backoffice/internal/locations/service"
	"workshop_backoffice/internal/shared/money"
	"workshop_backoffice/platform/apperr"
)

//go:embed prompts/base_context.md
var defaultBaseContext string

const (
	genericActivityDescription = "Een workshop op maat, verzorgd door ons eigen team."
	pricingFootnote            = "Alle prijzen zijn exclusief drankjes en zaalhuur."
	trailingInstruction        = "Gebruik uitsluitend bovenstaande informatie om de offertemail op te stellen."
)

// Assembler builds the natural-language system context for the drafting step.
// The base template is loaded once at construction and reused for every call.
type Assembler struct {
	activities activityrepo.ActivityReader
	locations  locationrepo.LocationReader
	base       string
}

// NewAssembler creates the context assembler. When templatePath is non-empty
// the base template is read from that file, otherwise the embedded default is
// used. The template is loaded once; a missing override file is an error.
func NewAssembler(activities activityrepo.ActivityReader, locations locationrepo.LocationReader, templatePath string) (*Assembler, error) {
	base := defaultBaseContext
	if templatePath != "" {
		content, err := os.ReadFile(templatePath)
		if err != nil {
			return nil, fmt.Errorf("read context template %s: %w", templatePath, err)
		}
		base = string(content)
	}

	return &Assembler{
		activities: activities,
		locations:  locations,
		base:       strings.TrimSpace(base),
	}, nil
}

// Build assembles the system context for the given activity category,
// participant count, and optional city filter. Output is deterministic for
// identical stored data and inputs.
func (a *Assembler) Build(ctx context.Context, category string, participants int, city string) (string, error) {
	var (
		activity  *activityrepo.Activity
		tiers     []activityrepo.PricingTier
		locations []locationrepo.Location
		cities    []string
	)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		found, err := a.activities.GetByCategory(groupCtx, category)
		if err != nil {
			if apperr.GetKind(err) == apperr.KindNotFound {
				return nil
			}
			return err
		}
		activity = &found

		loaded, err := a.activities.ListTiers(groupCtx, found.ID)
		if err != nil {
			return err
		}
		tiers = loaded
		return nil
	})

	group.Go(func() error {
		if city != "" {
			loaded, err := a.locations.ListActive(groupCtx, city)
			if err != nil {
				return err
			}
			locations = loaded
			return nil
		}
		loaded, err := a.locations.DistinctCities(groupCtx)
		if err != nil {
			return err
		}
		cities = loaded
		return nil
	})

	if err := group.Wait(); err != nil {
		return "", fmt.Errorf("assemble context: %w", err)
	}

	var b strings.Builder
	b.WriteString(a.base)
	b.WriteString("\n\n")
	b.WriteString(activityBlock(category, activity))
	if block := pricingBlock(category, tiers); block != "" {
		b.WriteString("\n\n")
		b.WriteString(block)
	}
	b.WriteString("\n\n")
	if city != "" {
		b.WriteString(locationsBlock(city, locations))
	} else {
		b.WriteString(citiesBlock(cities))
	}
	b.WriteString("\n\n")
	b.WriteString(trailingInstruction)

	return b.String(), nil
}

func activityBlock(category string, activity *activityrepo.Activity) string {
	description := genericActivityDescription
	if activity != nil && strings.TrimSpace(activity.Description) != "" {
		description = strings.TrimSpace(activity.Description)
	}
	return fmt.Sprintf("Over de activiteit \"%s\":\n%s", category, description)
}

func pricingBlock(category string, tiers []activityrepo.PricingTier) string {
	if len(tiers) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Prijzen voor %s:\n", category)
	for _, tier := range tiers {
		b.WriteString("- ")
		b.WriteString(activityservice.TierPriceLine(tier))
		b.WriteString("\n")
	}
	b.WriteString(pricingFootnote)
	return b.String()
}

func locationsBlock(city string, locations []locationrepo.Location) string {
	if len(locations) == 0 {
		return fmt.Sprintf("Er zijn momenteel geen locaties beschikbaar in %s.", city)
	}

	var b strings.Builder
	for i, group := range locationservice.GroupByCity(locations) {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "Locaties in %s:\n", group.City)
		for _, location := range group.Locations {
			b.WriteString(locationLine(location))
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func locationLine(location locationrepo.Location) string {
	var b strings.Builder
	b.WriteString("- ")
	b.WriteString(location.Name)
	if location.MaxCapacity != nil {
		fmt.Fprintf(&b, " (tot %d personen)", *location.MaxCapacity)
	}
	fmt.Fprintf(&b, " — %s excl. btw (%s incl. btw), %s",
		money.FormatEuro(location.BasePriceCents),
		money.FormatEuro(money.InclTaxCents(location.BasePriceCents)),
		drinksClause(location))
	return b.String()
}

// drinksClause renders the drinks-policy wording for a location. The policy
// branches are load-bearing for the drafted email's tone.
func drinksClause(location locationrepo.Location) string {
	switch location.DrinksPolicy {
	case locationrepo.DrinksPolicyViaLocation, locationrepo.DrinksPolicyMandatoryViaLocation:
		return "drank via locatie" + drinksPriceList(location.Drinks)
	case locationrepo.DrinksPolicyFlexible:
		if location.CanSupplyDrinks {
			return "drank zelf meenemen of door ons verzorgd tegen een toeslag."
		}
		return "drank in overleg."
	default:
		return "drank in overleg."
	}
}

// drinksPriceList renders ", indicatie prijzen: Coffee €2.50 | Wine €4.00."
// from the location's drink items, using the stored tax-inclusive prices.
func drinksPriceList(drinks []locationrepo.DrinkItem) string {
	if len(drinks) == 0 {
		return "."
	}

	parts := make([]string, 0, len(drinks))
	for _, drink := range drinks {
		parts = append(parts, fmt.Sprintf("%s %s", drink.Name, money.FormatEuroCompact(drink.PriceInclCents)))
	}
	return ", indicatie prijzen: " + strings.Join(parts, " | ") + "."
}

func citiesBlock(cities []string) string {
	if len(cities) == 0 {
		return "Er zijn momenteel geen eigen locaties beschikbaar."
	}
	return fmt.Sprintf("Wij hebben locaties in: %s. Vraag de klant in welke stad de voorkeur ligt.",
		strings.Join(cities, ", "))
}
