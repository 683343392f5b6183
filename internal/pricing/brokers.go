package pricing

// BrokerTier is a wholesale customer tier. Terms beyond the discount
// percentages (volume floor, shipping threshold, payment terms) are carried
// for the broker dashboard; the engine only consumes the resolved percent.
type BrokerTier struct {
	Name                     string  `json:"name"`
	BaseDiscountPercent      float64 `json:"baseDiscountPercent"`
	RushOrderDiscountPercent float64 `json:"rushOrderDiscountPercent"`
	MinimumAnnualVolume      float64 `json:"minimumAnnualVolume"`
	FreeShippingThreshold    float64 `json:"freeShippingThreshold"`
	PaymentTermsDays         int     `json:"paymentTermsDays"`
}

// BrokerProfile is a customer's broker status: the tier they belong to and
// any per-category discount overrides keyed by category slug.
type BrokerProfile struct {
	TierName          string             `json:"tierName"`
	CategoryDiscounts map[string]float64 `json:"categoryDiscounts,omitempty"`
}

// DefaultBrokerTiers returns the four stock broker tiers.
func DefaultBrokerTiers() []BrokerTier {
	return []BrokerTier{
		{Name: "Bronze", BaseDiscountPercent: 5, RushOrderDiscountPercent: 3, MinimumAnnualVolume: 5000, FreeShippingThreshold: 250, PaymentTermsDays: 15},
		{Name: "Silver", BaseDiscountPercent: 10, RushOrderDiscountPercent: 5, MinimumAnnualVolume: 15000, FreeShippingThreshold: 200, PaymentTermsDays: 30},
		{Name: "Gold", BaseDiscountPercent: 15, RushOrderDiscountPercent: 8, MinimumAnnualVolume: 50000, FreeShippingThreshold: 150, PaymentTermsDays: 45},
		{Name: "Platinum", BaseDiscountPercent: 20, RushOrderDiscountPercent: 10, MinimumAnnualVolume: 100000, FreeShippingThreshold: 100, PaymentTermsDays: 60},
	}
}

// BrokerTierByName looks a tier up in a table by name.
func BrokerTierByName(tiers []BrokerTier, name string) (BrokerTier, bool) {
	for _, t := range tiers {
		if t.Name == name {
			return t, true
		}
	}
	return BrokerTier{}, false
}

// ResolveBrokerDiscount picks the effective discount percent for a customer:
// the category-specific override when the profile has one for categorySlug,
// else the tier's rush percent for rush orders (when defined), else the
// tier's base percent. A nil profile or unknown tier resolves to 0.
func ResolveBrokerDiscount(profile *BrokerProfile, tiers []BrokerTier, categorySlug string, rush bool) float64 {
	if profile == nil {
		return 0
	}
	if categorySlug != "" {
		if pct, ok := profile.CategoryDiscounts[categorySlug]; ok {
			return pct
		}
	}
	tier, ok := BrokerTierByName(tiers, profile.TierName)
	if !ok {
		return 0
	}
	if rush && tier.RushOrderDiscountPercent > 0 {
		return tier.RushOrderDiscountPercent
	}
	return tier.BaseDiscountPercent
}
