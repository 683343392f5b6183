package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printworks/pricing-service/internal/pricing"
)

// fakeSource is an in-memory Source for testing.
type fakeSource struct {
	products map[string]*ProductOptions
	err      error
	loads    int
}

func (f *fakeSource) LoadProducts(ctx context.Context) (map[string]*ProductOptions, error) {
	f.loads++
	if f.err != nil {
		return nil, f.err
	}
	return f.products, nil
}

func testProduct() *ProductOptions {
	override := 3.0
	return &ProductOptions{
		ProductID:       "prod-flyer",
		CategorySlug:    "flyers",
		Name:            "Club Flyer",
		BasePrice:       0.12,
		MinimumQuantity: 100,
		PaperStocks: map[string]pricing.PaperStock{
			"paper-gloss": {PricePerSqInch: 0.002, AreaSqInch: 24},
		},
		PrintSizes: map[string]pricing.PrintSize{
			"size-4x6": {PriceModifierPercent: 0},
			"size-5x7": {PriceModifierPercent: 25},
		},
		Coatings: map[string]pricing.Coating{
			"coating-uv": {PriceModifierPercent: 10},
		},
		Turnarounds: map[string]TurnaroundOption{
			"turnaround-standard": {
				Standard: pricing.Turnaround{MarkupPercent: 0},
				Rush:     &pricing.Turnaround{PriceOverride: &override},
			},
		},
		AddOns: map[string]pricing.AddOn{
			"addon-proof": {Model: pricing.AddOnFlat, FlatFee: 5},
		},
	}
}

func newTestCatalog(t *testing.T) (*Catalog, *fakeSource) {
	t.Helper()
	source := &fakeSource{products: map[string]*ProductOptions{"prod-flyer": testProduct()}}
	cat := New(source, time.Hour)
	require.NoError(t, cat.Warmup(context.Background()))
	return cat, source
}

// TestResolveSelection verifies a full selection resolves into engine
// inputs, including the rush turnaround variant.
func TestResolveSelection(t *testing.T) {
	cat, _ := newTestCatalog(t)

	req, err := cat.ResolveSelection("prod-flyer", Selection{
		PaperStockID: "paper-gloss",
		PrintSizeID:  "size-5x7",
		CoatingID:    "coating-uv",
		TurnaroundID: "turnaround-standard",
		AddOnIDs:     []string{"addon-proof"},
		Quantity:     500,
		Rush:         true,
	})
	require.NoError(t, err)

	assert.Equal(t, 0.12, req.BasePrice)
	assert.Equal(t, 500, req.Quantity)
	assert.True(t, req.Rush)
	require.NotNil(t, req.Paper)
	assert.Equal(t, 24.0, req.Paper.AreaSqInch)
	require.NotNil(t, req.Size)
	assert.Equal(t, 25.0, req.Size.PriceModifierPercent)
	require.NotNil(t, req.RushTurnaround)
	require.NotNil(t, req.RushTurnaround.PriceOverride)
	assert.Equal(t, 3.0, *req.RushTurnaround.PriceOverride)
	require.Len(t, req.AddOns, 1)
}

// TestResolveClampsToMinimumQuantity verifies quantities below the product
// minimum are clamped before the engine ever sees them.
func TestResolveClampsToMinimumQuantity(t *testing.T) {
	cat, _ := newTestCatalog(t)

	req, err := cat.ResolveSelection("prod-flyer", Selection{Quantity: 10})
	require.NoError(t, err)
	assert.Equal(t, 100, req.Quantity)
}

// TestResolveUnknownOptions verifies every option kind reports a typed
// mismatch error.
func TestResolveUnknownOptions(t *testing.T) {
	cat, _ := newTestCatalog(t)

	tests := []struct {
		name string
		sel  Selection
		kind string
	}{
		{"paper", Selection{PaperStockID: "paper-nope", Quantity: 100}, "paper_stock"},
		{"size", Selection{PrintSizeID: "size-nope", Quantity: 100}, "print_size"},
		{"coating", Selection{CoatingID: "coating-nope", Quantity: 100}, "coating"},
		{"turnaround", Selection{TurnaroundID: "turnaround-nope", Quantity: 100}, "turnaround"},
		{"add-on", Selection{AddOnIDs: []string{"addon-nope"}, Quantity: 100}, "add_on"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := cat.ResolveSelection("prod-flyer", tt.sel)
			var unknown ErrUnknownOption
			require.ErrorAs(t, err, &unknown)
			assert.Equal(t, tt.kind, unknown.Kind)
			assert.Equal(t, "prod-flyer", unknown.ProductID)
		})
	}

	_, err := cat.ResolveSelection("prod-nope", Selection{Quantity: 100})
	var unknown ErrUnknownOption
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "product", unknown.Kind)
}

// TestFreshnessAndRefresh verifies staleness reporting and that a failed
// refresh keeps the previous snapshot serving.
func TestFreshnessAndRefresh(t *testing.T) {
	cat, source := newTestCatalog(t)

	fresh := cat.Freshness()
	assert.False(t, fresh.IsStale)
	assert.Equal(t, 1, fresh.ProductCount)
	assert.True(t, cat.IsHealthy(context.Background()))

	source.err = errors.New("connection refused")
	require.Error(t, cat.Refresh(context.Background()))

	// Old snapshot still resolves.
	_, err := cat.ResolveSelection("prod-flyer", Selection{Quantity: 100})
	assert.NoError(t, err)
}

// TestZeroTTLDisablesStaleness verifies a zero TTL keeps a loaded snapshot
// serving indefinitely, while a positive TTL expires it. The server relies on
// this to skip its background refresher when the TTL is zero.
func TestZeroTTLDisablesStaleness(t *testing.T) {
	source := &fakeSource{products: map[string]*ProductOptions{"prod-flyer": testProduct()}}

	cat := New(source, 0)
	require.NoError(t, cat.Warmup(context.Background()))
	assert.False(t, cat.Freshness().IsStale)
	assert.True(t, cat.IsHealthy(context.Background()))

	expiring := New(source, time.Nanosecond)
	require.NoError(t, expiring.Warmup(context.Background()))
	time.Sleep(time.Millisecond)
	assert.True(t, expiring.Freshness().IsStale)
}

// TestUnloadedCatalogIsUnhealthy verifies an empty catalog reports stale and
// resolves nothing.
func TestUnloadedCatalogIsUnhealthy(t *testing.T) {
	cat := New(&fakeSource{}, time.Hour)

	assert.False(t, cat.IsHealthy(context.Background()))

	_, err := cat.ResolveSelection("prod-flyer", Selection{Quantity: 100})
	var unknown ErrUnknownOption
	assert.ErrorAs(t, err, &unknown)
}
