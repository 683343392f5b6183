package pricing

import "fmt"

// QuantityTier is one discount bracket of a quantity discount table.
// MaxQuantity 0 means the tier is unbounded; only the last tier may be
// unbounded.
type QuantityTier struct {
	MinQuantity     int     `json:"minQuantity"`
	MaxQuantity     int     `json:"maxQuantity"` // 0 = unbounded
	DiscountPercent float64 `json:"discountPercent"`
}

// DefaultQuantityTiers returns the stock discount table. Tenants can
// replace it, but these breakpoints are the backward-compatible default.
func DefaultQuantityTiers() []QuantityTier {
	return []QuantityTier{
		{MinQuantity: 250, MaxQuantity: 499, DiscountPercent: 5},
		{MinQuantity: 500, MaxQuantity: 999, DiscountPercent: 10},
		{MinQuantity: 1000, MaxQuantity: 0, DiscountPercent: 15},
	}
}

// ValidateQuantityTiers checks that a tier table is ordered, contiguous,
// non-overlapping, and increasing in both quantity floor and discount.
func ValidateQuantityTiers(tiers []QuantityTier) error {
	for i, t := range tiers {
		field := fmt.Sprintf("tiers[%d]", i)
		if t.MinQuantity < 0 {
			return invalidf(field, "minQuantity must be >= 0")
		}
		if t.DiscountPercent < 0 || t.DiscountPercent > 100 {
			return invalidf(field, "discountPercent must be between 0 and 100")
		}
		if t.MaxQuantity != 0 && t.MaxQuantity < t.MinQuantity {
			return invalidf(field, "maxQuantity must be >= minQuantity")
		}
		if t.MaxQuantity == 0 && i != len(tiers)-1 {
			return invalidf(field, "only the last tier may be unbounded")
		}
		if i > 0 {
			prev := tiers[i-1]
			if t.MinQuantity != prev.MaxQuantity+1 {
				return invalidf(field, "tiers must be contiguous: minQuantity %d does not follow %d", t.MinQuantity, prev.MaxQuantity)
			}
			if t.DiscountPercent <= prev.DiscountPercent {
				return invalidf(field, "discountPercent must increase across tiers")
			}
		}
	}
	return nil
}

// LookupQuantityDiscount returns the discount percent for a quantity.
// Quantities below the lowest tier's minimum get 0%. Tier minimums are
// inclusive, so exactly one tier applies to any quantity.
func LookupQuantityDiscount(tiers []QuantityTier, quantity int) float64 {
	for _, t := range tiers {
		if quantity < t.MinQuantity {
			continue
		}
		if t.MaxQuantity == 0 || quantity <= t.MaxQuantity {
			return t.DiscountPercent
		}
	}
	return 0
}
