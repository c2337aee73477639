// Package money provides VAT math and euro formatting shared across modules.
// All stored amounts are tax-exclusive integer cents; the tax-inclusive
// figure is computed at read time and never persisted.
package money

import (
	"fmt"
	"math"
)

// VATRateBps is the fixed Dutch VAT rate in basis points (21%).
const VATRateBps = 2100

// InclTaxCents converts a tax-exclusive amount to its tax-inclusive
// equivalent, rounded to the nearest cent.
func InclTaxCents(exclCents int64) int64 {
	return int64(math.Round(float64(exclCents) * (1 + float64(VATRateBps)/10000)))
}

// FormatEuro renders an amount as "€ 45" when it is a whole number of euros,
// "€ 45.50" otherwise.
func FormatEuro(cents int64) string {
	if cents%100 == 0 {
		return fmt.Sprintf("€ %d", cents/100)
	}
	return fmt.Sprintf("€ %.2f", float64(cents)/100)
}

// FormatEuroCompact renders an amount as "€2.50", always with two decimals
// and no space. Used for inline price lists.
func FormatEuroCompact(cents int64) string {
	return fmt.Sprintf("€%.2f", float64(cents)/100)
}
