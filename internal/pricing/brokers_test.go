package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestResolveBrokerDiscount covers the fallback chain: category override,
// then rush percent on rush orders, then tier base.
func TestResolveBrokerDiscount(t *testing.T) {
	tiers := DefaultBrokerTiers()

	gold := &BrokerProfile{
		TierName: "Gold",
		CategoryDiscounts: map[string]float64{
			"business-cards": 18,
		},
	}

	tests := []struct {
		name     string
		profile  *BrokerProfile
		category string
		rush     bool
		expected float64
	}{
		{"category override wins", gold, "business-cards", false, 18},
		{"category override wins even on rush", gold, "business-cards", true, 18},
		{"tier base without override", gold, "flyers", false, 15},
		{"rush percent on rush order", gold, "flyers", true, 8},
		{"nil profile resolves to zero", nil, "flyers", false, 0},
		{"unknown tier resolves to zero", &BrokerProfile{TierName: "Diamond"}, "", false, 0},
		{"empty category falls through", gold, "", false, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pct := ResolveBrokerDiscount(tt.profile, tiers, tt.category, tt.rush)
			assert.Equal(t, tt.expected, pct)
		})
	}
}

// TestDefaultBrokerTiersIncrease verifies the stock tiers escalate in both
// discount and volume floor.
func TestDefaultBrokerTiersIncrease(t *testing.T) {
	tiers := DefaultBrokerTiers()
	assert.Len(t, tiers, 4)

	for i := 1; i < len(tiers); i++ {
		assert.Greater(t, tiers[i].BaseDiscountPercent, tiers[i-1].BaseDiscountPercent)
		assert.Greater(t, tiers[i].MinimumAnnualVolume, tiers[i-1].MinimumAnnualVolume)
	}

	_, ok := BrokerTierByName(tiers, "Platinum")
	assert.True(t, ok)
	_, ok = BrokerTierByName(tiers, "Wood")
	assert.False(t, ok)
}
