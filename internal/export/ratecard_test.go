package export

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/printworks/pricing-service/internal/catalog"
	"github.com/printworks/pricing-service/internal/pricing"
	"github.com/printworks/pricing-service/internal/storage"
)

type staticSource struct {
	products map[string]*catalog.ProductOptions
}

func (s *staticSource) LoadProducts(ctx context.Context) (map[string]*catalog.ProductOptions, error) {
	return s.products, nil
}

func newTestGenerator(t *testing.T) (*Generator, storage.Storage) {
	t.Helper()

	source := &staticSource{products: map[string]*catalog.ProductOptions{
		"prd-flyer": {
			ProductID:       "prd-flyer",
			CategorySlug:    "flyers",
			Name:            "Club Flyer",
			BasePrice:       10,
			MinimumQuantity: 1,
		},
	}}
	cat := catalog.New(source, time.Hour)
	require.NoError(t, cat.Warmup(context.Background()))

	engine, err := pricing.NewEngine(pricing.DefaultEngineConfig(), pricing.NewMetricsRecorder())
	require.NoError(t, err)

	store, err := storage.NewLocalStorage(filepath.Join(t.TempDir(), "ratecards"))
	require.NoError(t, err)

	return NewGenerator(engine, cat, store), store
}

// TestBuildWorkbook verifies one sheet per tier plus retail, with discounted
// totals descending across tiers for the same quantity.
func TestBuildWorkbook(t *testing.T) {
	gen, _ := newTestGenerator(t)

	f, err := gen.Build("prd-flyer", catalog.Selection{Quantity: 100}, []int{100, 1000})
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.ElementsMatch(t, []string{"Retail", "Bronze", "Silver", "Gold", "Platinum"}, sheets)

	// 1000 units: subtotal 10000, 15% quantity tier -> 8500 retail.
	retailTotal, err := f.GetCellValue("Retail", "E3")
	require.NoError(t, err)
	assert.Equal(t, "$8,500.00", retailTotal)

	// Platinum stacks 20% on the tiered price: 8500 * 0.80 = 6800.
	platinumTotal, err := f.GetCellValue("Platinum", "E3")
	require.NoError(t, err)
	assert.Equal(t, "$6,800.00", platinumTotal)
}

// TestGenerateArchives verifies the workbook lands in storage under a
// rate card key with metadata.
func TestGenerateArchives(t *testing.T) {
	gen, store := newTestGenerator(t)
	ctx := context.Background()

	key, err := gen.Generate(ctx, "prd-flyer", catalog.Selection{Quantity: 100}, nil)
	require.NoError(t, err)
	assert.Contains(t, key, "ratecards/prd-flyer/")

	content, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.NotEmpty(t, content)

	f, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), "Gold")

	info, err := store.GetInfo(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, info.Metadata)
	assert.Equal(t, "prd-flyer", info.Metadata.ProductID)
}

// TestBuildUnknownProduct verifies the catalog mismatch error propagates.
func TestBuildUnknownProduct(t *testing.T) {
	gen, _ := newTestGenerator(t)

	_, err := gen.Build("prd-nope", catalog.Selection{Quantity: 100}, nil)
	var unknown catalog.ErrUnknownOption
	assert.ErrorAs(t, err, &unknown)
}
