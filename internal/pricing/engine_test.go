package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine(DefaultEngineConfig(), NewMetricsRecorder())
	require.NoError(t, err)
	return engine
}

func floatPtr(v float64) *float64 { return &v }

// TestBareOrderBelowTier verifies the simplest path: no options, no
// discounts, quantity under the lowest tier.
func TestBareOrderBelowTier(t *testing.T) {
	engine := newTestEngine(t)

	c, err := engine.ComputePrice(&Request{BasePrice: 10, Quantity: 100})
	require.NoError(t, err)

	assert.Equal(t, 1000.0, c.Subtotal)
	assert.Equal(t, 0.0, c.QuantityDiscount)
	assert.Equal(t, 0.0, c.BrokerDiscount)
	assert.Equal(t, 1000.0, c.FinalTotal)
	assert.Equal(t, 10.0, c.PerUnitPrice)
	assert.Equal(t, 0.0, c.Savings)
}

// TestQuantityTierDiscountApplied verifies the 500-999 tier (10%).
func TestQuantityTierDiscountApplied(t *testing.T) {
	engine := newTestEngine(t)

	c, err := engine.ComputePrice(&Request{BasePrice: 10, Quantity: 500})
	require.NoError(t, err)

	assert.Equal(t, 5000.0, c.Subtotal)
	assert.Equal(t, 500.0, c.QuantityDiscount)
	assert.Equal(t, 4500.0, c.FinalTotal)
	assert.Equal(t, 9.0, c.PerUnitPrice)
	assert.Equal(t, 500.0, c.Savings)
}

// TestBrokerDiscountOrdering verifies the broker discount is computed on the
// post-quantity-discount amount, never the raw subtotal.
func TestBrokerDiscountOrdering(t *testing.T) {
	engine := newTestEngine(t)

	c, err := engine.ComputePrice(&Request{
		BasePrice:             10,
		Quantity:              500,
		IsBroker:              true,
		BrokerDiscountPercent: 20,
	})
	require.NoError(t, err)

	// 20% of 4500, not 20% of 5000
	assert.Equal(t, 900.0, c.BrokerDiscount)
	assert.Equal(t, 3600.0, c.FinalTotal)
	assert.Equal(t, 1400.0, c.Savings)
}

// TestTopTierDiscount verifies the unbounded 1000+ tier (15%).
func TestTopTierDiscount(t *testing.T) {
	engine := newTestEngine(t)

	c, err := engine.ComputePrice(&Request{BasePrice: 10, Quantity: 1000})
	require.NoError(t, err)

	assert.Equal(t, 10000.0, c.Subtotal)
	assert.Equal(t, 1500.0, c.QuantityDiscount)
	assert.Equal(t, 8500.0, c.FinalTotal)
}

// TestFlatAddOnPerUnit verifies flat add-on fees enter the unit cost and are
// multiplied by quantity at the subtotal step only.
func TestFlatAddOnPerUnit(t *testing.T) {
	engine := newTestEngine(t)

	c, err := engine.ComputePrice(&Request{
		BasePrice: 20,
		Quantity:  50,
		AddOns:    []AddOn{{Model: AddOnFlat, FlatFee: 5}},
	})
	require.NoError(t, err)

	assert.Equal(t, 5.0, c.AddOnCosts)
	assert.Equal(t, 1250.0, c.Subtotal) // (20 + 5) * 50, below 250 tier
	assert.Equal(t, 0.0, c.QuantityDiscount)
}

// TestTurnaroundOverridePrecedence verifies an explicit override replaces
// the configured markup entirely, regardless of the markup's value.
func TestTurnaroundOverridePrecedence(t *testing.T) {
	engine := newTestEngine(t)

	c, err := engine.ComputePrice(&Request{
		BasePrice:  10,
		Quantity:   10,
		Turnaround: &Turnaround{MarkupPercent: 50, PriceOverride: floatPtr(3)},
	})
	require.NoError(t, err)

	assert.Equal(t, 3.0, c.TurnaroundModifier, "override must win over the 50%% markup (5.00)")
}

// TestPaperOverridePrecedence verifies the paper override replaces the
// per-area computation instead of adding to it.
func TestPaperOverridePrecedence(t *testing.T) {
	engine := newTestEngine(t)

	c, err := engine.ComputePrice(&Request{
		BasePrice: 10,
		Quantity:  10,
		Paper:     &PaperStock{PricePerSqInch: 0.05, AreaSqInch: 24, PriceOverride: floatPtr(2)},
	})
	require.NoError(t, err)

	assert.Equal(t, 2.0, c.PaperCost)
}

// TestPercentModifiersAgainstBasePrice verifies size and coating modifiers
// are percentages of the base price.
func TestPercentModifiersAgainstBasePrice(t *testing.T) {
	engine := newTestEngine(t)

	c, err := engine.ComputePrice(&Request{
		BasePrice: 40,
		Quantity:  10,
		Size:      &PrintSize{PriceModifierPercent: 25},
		Coating:   &Coating{PriceModifierPercent: 10},
	})
	require.NoError(t, err)

	assert.Equal(t, 10.0, c.SizeModifier)
	assert.Equal(t, 4.0, c.CoatingModifier)
	assert.Equal(t, 540.0, c.Subtotal)
}

// TestRushSelectsRushTurnaround verifies the rush flag swaps the turnaround
// used for the modifier.
func TestRushSelectsRushTurnaround(t *testing.T) {
	engine := newTestEngine(t)

	req := &Request{
		BasePrice:      10,
		Quantity:       10,
		Turnaround:     &Turnaround{MarkupPercent: 10},
		RushTurnaround: &Turnaround{MarkupPercent: 40},
	}

	standard, err := engine.ComputePrice(req)
	require.NoError(t, err)
	assert.Equal(t, 1.0, standard.TurnaroundModifier)

	req.Rush = true
	rush, err := engine.ComputePrice(req)
	require.NoError(t, err)
	assert.Equal(t, 4.0, rush.TurnaroundModifier)
}

// TestPerUnitBundleAmortization verifies bundle pricing amortizes per unit
// before the quantity multiplication.
func TestPerUnitBundleAmortization(t *testing.T) {
	engine := newTestEngine(t)

	c, err := engine.ComputePrice(&Request{
		BasePrice: 10,
		Quantity:  200,
		AddOns:    []AddOn{{Model: AddOnPerUnit, PricePerBundle: 25, ItemsPerBundle: 100}},
	})
	require.NoError(t, err)

	assert.Equal(t, 0.25, c.AddOnCosts)
	assert.Equal(t, 2050.0, c.Subtotal)
}

// TestAddOnModels exercises every pricing model.
func TestAddOnModels(t *testing.T) {
	engine := newTestEngine(t)

	tests := []struct {
		name     string
		addOn    AddOn
		expected float64
	}{
		{"flat", AddOn{Model: AddOnFlat, FlatFee: 5}, 5},
		{"percentage of base", AddOn{Model: AddOnPercentage, Percent: 10}, 2},
		{"per unit bundle", AddOn{Model: AddOnPerUnit, PricePerBundle: 10, ItemsPerBundle: 4}, 2.5},
		{"per square inch", AddOn{Model: AddOnPerSquareInch, PricePerSqInch: 0.1, AreaSqInch: 24}, 2.4},
		{"custom", AddOn{Model: AddOnCustom, CustomAmount: 1.75}, 1.75},
		{"override wins", AddOn{Model: AddOnPercentage, Percent: 50, PriceOverride: floatPtr(0.99)}, 0.99},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := engine.ComputePrice(&Request{
				BasePrice: 20,
				Quantity:  10,
				AddOns:    []AddOn{tt.addOn},
			})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, c.AddOnCosts)
		})
	}
}

// TestPerUnitPriceMonotonicAcrossTiers verifies increasing quantity across
// tier boundaries never increases the per-unit price.
func TestPerUnitPriceMonotonicAcrossTiers(t *testing.T) {
	engine := newTestEngine(t)

	req := &Request{
		BasePrice: 12.5,
		Quantity:  1,
		Size:      &PrintSize{PriceModifierPercent: 20},
		AddOns:    []AddOn{{Model: AddOnFlat, FlatFee: 1.25}},
	}

	quantities := []int{1, 100, 249, 250, 499, 500, 999, 1000, 5000}
	prev := 0.0
	for i, q := range quantities {
		r := *req
		r.Quantity = q
		c, err := engine.ComputePrice(&r)
		require.NoError(t, err)
		if i > 0 {
			assert.LessOrEqual(t, c.PerUnitPrice, prev, "per-unit price rose between quantity %d and %d", quantities[i-1], q)
		}
		prev = c.PerUnitPrice
	}
}

// TestSavingsIdentity verifies savings equals subtotal minus final total
// exactly, at cent precision, across awkward amounts.
func TestSavingsIdentity(t *testing.T) {
	engine := newTestEngine(t)

	requests := []*Request{
		{BasePrice: 9.99, Quantity: 333, IsBroker: true, BrokerDiscountPercent: 17.5},
		{BasePrice: 0.07, Quantity: 1001, IsBroker: true, BrokerDiscountPercent: 33.33},
		{BasePrice: 149.95, Quantity: 777, AddOns: []AddOn{{Model: AddOnPercentage, Percent: 12.5}}},
	}

	for _, req := range requests {
		c, err := engine.ComputePrice(req)
		require.NoError(t, err)
		assert.InDelta(t, c.Subtotal-c.FinalTotal, c.Savings, 0.0001)
		assert.InDelta(t, c.QuantityDiscount+c.BrokerDiscount, c.Savings, 0.0001)
	}
}

// TestFinalTotalNeverNegative verifies the non-negativity guarantee at the
// extreme ends of the allowed discount range.
func TestFinalTotalNeverNegative(t *testing.T) {
	engine := newTestEngine(t)

	c, err := engine.ComputePrice(&Request{
		BasePrice:             10,
		Quantity:              1000, // 15% tier
		IsBroker:              true,
		BrokerDiscountPercent: 100,
	})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, c.FinalTotal, 0.0)
	assert.Equal(t, 0.0, c.FinalTotal)
	assert.InDelta(t, c.Subtotal, c.QuantityDiscount+c.BrokerDiscount, 0.0001)
}

// TestDiscountClampScalesProportionally exercises the defensive clamp
// directly: when rounding pushes the total below zero the discounts are
// scaled so they still sum to the subtotal.
func TestDiscountClampScalesProportionally(t *testing.T) {
	quantity, broker := scaleDiscounts(100, 80, 40)
	assert.InDelta(t, 100.0, quantity+broker, 0.0001)
	assert.InDelta(t, 66.67, quantity, 0.01)
}

// TestCustomTierTablePerRequest verifies a request-level tier table replaces
// the engine default.
func TestCustomTierTablePerRequest(t *testing.T) {
	engine := newTestEngine(t)

	c, err := engine.ComputePrice(&Request{
		BasePrice: 10,
		Quantity:  100,
		Tiers: []QuantityTier{
			{MinQuantity: 50, MaxQuantity: 0, DiscountPercent: 50},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 500.0, c.QuantityDiscount)
	assert.Equal(t, 500.0, c.FinalTotal)
}

// TestInvalidInputs verifies field-attributed rejection of malformed
// requests.
func TestInvalidInputs(t *testing.T) {
	engine := newTestEngine(t)

	tests := []struct {
		name  string
		req   *Request
		field string
	}{
		{"negative base price", &Request{BasePrice: -1, Quantity: 10}, "basePrice"},
		{"zero quantity", &Request{BasePrice: 10, Quantity: 0}, "quantity"},
		{"negative quantity", &Request{BasePrice: 10, Quantity: -5}, "quantity"},
		{
			"paper area zero",
			&Request{BasePrice: 10, Quantity: 10, Paper: &PaperStock{PricePerSqInch: 0.1}},
			"paperStock.area",
		},
		{
			"bundle size zero",
			&Request{BasePrice: 10, Quantity: 10, AddOns: []AddOn{{Model: AddOnPerUnit, PricePerBundle: 10}}},
			"addOns[0].itemsPerBundle",
		},
		{
			"per sq inch add-on without area",
			&Request{BasePrice: 10, Quantity: 10, AddOns: []AddOn{{Model: AddOnPerSquareInch, PricePerSqInch: 0.1}}},
			"addOns[0].area",
		},
		{
			"unknown add-on model",
			&Request{BasePrice: 10, Quantity: 10, AddOns: []AddOn{{Model: "bogus"}}},
			"addOns[0].pricingModel",
		},
		{
			"broker percent out of range",
			&Request{BasePrice: 10, Quantity: 10, IsBroker: true, BrokerDiscountPercent: 101},
			"brokerDiscountPercent",
		},
		{
			"negative turnaround markup",
			&Request{BasePrice: 10, Quantity: 10, Turnaround: &Turnaround{MarkupPercent: -5}},
			"turnaround.markupPercent",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.ComputePrice(tt.req)
			require.Error(t, err)
			var inv ErrInvalidInput
			require.ErrorAs(t, err, &inv)
			assert.Equal(t, tt.field, inv.Field)
		})
	}
}

// TestMatrixConsistency verifies each matrix entry equals an independent
// ComputePrice call for that quantity.
func TestMatrixConsistency(t *testing.T) {
	engine := newTestEngine(t)

	req := &Request{
		BasePrice:             15,
		Quantity:              1,
		Size:                  &PrintSize{PriceModifierPercent: 10},
		IsBroker:              true,
		BrokerDiscountPercent: 12,
	}
	quantities := []int{50, 250, 500, 1000, 2500}

	entries, err := engine.ComputePriceMatrix(req, quantities)
	require.NoError(t, err)
	require.Len(t, entries, len(quantities))

	for i, q := range quantities {
		r := *req
		r.Quantity = q
		want, err := engine.ComputePrice(&r)
		require.NoError(t, err)

		assert.Equal(t, q, entries[i].Quantity)
		assert.Equal(t, *want, entries[i].Components)
	}
}

// TestMatrixValidation verifies matrix request limits and quantity
// attribution.
func TestMatrixValidation(t *testing.T) {
	engine := newTestEngine(t)
	req := &Request{BasePrice: 10, Quantity: 1}

	_, err := engine.ComputePriceMatrix(req, nil)
	var inv ErrInvalidInput
	require.ErrorAs(t, err, &inv)
	assert.Equal(t, "quantities", inv.Field)

	_, err = engine.ComputePriceMatrix(req, []int{100, 0, 200})
	require.ErrorAs(t, err, &inv)
	assert.Equal(t, "quantities", inv.Field)
	assert.Contains(t, inv.Reason, "entry 1")

	tooMany := make([]int, engine.config.MaxMatrixQuantities+1)
	for i := range tooMany {
		tooMany[i] = i + 1
	}
	_, err = engine.ComputePriceMatrix(req, tooMany)
	require.ErrorAs(t, err, &inv)
	assert.Equal(t, "quantities", inv.Field)
}

// TestEngineRejectsInvalidDefaultTiers verifies construction fails fast on a
// malformed configured table.
func TestEngineRejectsInvalidDefaultTiers(t *testing.T) {
	cfg := DefaultEngineConfig()
	cfg.Tiers = []QuantityTier{
		{MinQuantity: 100, MaxQuantity: 499, DiscountPercent: 10},
		{MinQuantity: 400, MaxQuantity: 0, DiscountPercent: 15},
	}

	_, err := NewEngine(cfg, nil)
	require.Error(t, err)
}
