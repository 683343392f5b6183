// Package export generates rate card workbooks: one sheet of volume pricing
// per broker tier, plus the retail sheet, for sales to hand to resellers.
package export

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/printworks/pricing-service/internal/catalog"
	"github.com/printworks/pricing-service/internal/pricing"
	"github.com/printworks/pricing-service/internal/storage"
)

// DefaultQuantities is the quantity ladder printed on rate cards.
var DefaultQuantities = []int{100, 250, 500, 1000, 2500, 5000}

// Generator prices a product across the quantity ladder and renders the
// results as an xlsx workbook.
type Generator struct {
	engine  *pricing.Engine
	catalog *catalog.Catalog
	store   storage.Storage
	printer *message.Printer
	logger  zerolog.Logger
}

// NewGenerator creates a rate card generator. store may be nil when callers
// only need workbook bytes.
func NewGenerator(engine *pricing.Engine, cat *catalog.Catalog, store storage.Storage) *Generator {
	return &Generator{
		engine:  engine,
		catalog: cat,
		store:   store,
		printer: message.NewPrinter(language.English),
		logger:  log.With().Str("component", "ratecard").Logger(),
	}
}

// money renders an amount with locale-aware grouping, e.g. "$1,234.50".
func (g *Generator) money(v float64) string {
	return g.printer.Sprintf("$%.2f", v)
}

// Build renders the workbook for one product configuration. The first sheet
// holds retail pricing; each broker tier gets its own sheet with the tier
// discount applied on top of the quantity tiers.
func (g *Generator) Build(productID string, sel catalog.Selection, quantities []int) (*excelize.File, error) {
	if len(quantities) == 0 {
		quantities = DefaultQuantities
	}

	product, err := g.catalog.Product(productID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()

	if err := g.writeSheet(f, "Retail", product, sel, quantities, 0); err != nil {
		f.Close()
		return nil, err
	}
	for _, tier := range pricing.DefaultBrokerTiers() {
		if err := g.writeSheet(f, tier.Name, product, sel, quantities, tier.BaseDiscountPercent); err != nil {
			f.Close()
			return nil, err
		}
	}

	// excelize names the initial sheet "Sheet1"; ours replaced it.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func (g *Generator) writeSheet(f *excelize.File, name string, product *catalog.ProductOptions, sel catalog.Selection, quantities []int, brokerPct float64) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", name, err)
	}

	headers := []string{"Quantity", "Subtotal", "Quantity Discount", "Broker Discount", "Total", "Per Unit"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(name, cell, h); err != nil {
			return err
		}
	}
	_ = f.SetColWidth(name, "A", "F", 18)

	row := 2
	for _, q := range quantities {
		req, err := g.catalog.ResolveSelection(product.ProductID, sel)
		if err != nil {
			return err
		}
		req.Quantity = q
		if brokerPct > 0 {
			req.IsBroker = true
			req.BrokerDiscountPercent = brokerPct
		}

		components, err := g.engine.ComputePrice(req)
		if err != nil {
			return fmt.Errorf("failed to price quantity %d: %w", q, err)
		}

		values := []any{
			q,
			g.money(components.Subtotal),
			g.money(components.QuantityDiscount),
			g.money(components.BrokerDiscount),
			g.money(components.FinalTotal),
			g.money(components.PerUnitPrice),
		}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			if err := f.SetCellValue(name, cell, v); err != nil {
				return err
			}
		}
		row++
	}

	return nil
}

// Generate builds the workbook and archives it, returning the storage key.
func (g *Generator) Generate(ctx context.Context, productID string, sel catalog.Selection, quantities []int) (string, error) {
	f, err := g.Build(productID, sel, quantities)
	if err != nil {
		return "", err
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return "", fmt.Errorf("failed to render workbook: %w", err)
	}

	now := time.Now()
	key := storage.BuildRateCardKey(productID, now, fmt.Sprintf("ratecard-%s.xlsx", now.Format("150405")))
	if g.store == nil {
		return "", fmt.Errorf("no storage backend configured")
	}
	if err := g.store.Put(ctx, key, buf.Bytes(), &storage.Metadata{
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		ProductID:   productID,
		GeneratedAt: now,
	}); err != nil {
		return "", fmt.Errorf("failed to archive rate card: %w", err)
	}

	g.logger.Info().Str("product_id", productID).Str("key", key).Msg("Rate card generated")
	return key, nil
}
