package database

import (
	"context"
	"fmt"

	"github.com/printworks/pricing-service/internal/catalog"
	"github.com/printworks/pricing-service/internal/pricing"
)

// CatalogSource loads product option catalogs from Postgres. It satisfies
// catalog.Source.
type CatalogSource struct{}

// NewCatalogSource returns a source backed by the shared connection pool.
func NewCatalogSource() *CatalogSource {
	return &CatalogSource{}
}

// LoadProducts reads every active product with its full option set.
func (s *CatalogSource) LoadProducts(ctx context.Context) (map[string]*catalog.ProductOptions, error) {
	pool := Pool()
	if pool == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	products := make(map[string]*catalog.ProductOptions)

	rows, err := pool.Query(ctx, `
		SELECT id, category_slug, name, base_price, minimum_quantity
		FROM products
		WHERE is_active = true
	`)
	if err != nil {
		return nil, fmt.Errorf("error querying products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		p := &catalog.ProductOptions{
			PaperStocks: make(map[string]pricing.PaperStock),
			PrintSizes:  make(map[string]pricing.PrintSize),
			Coatings:    make(map[string]pricing.Coating),
			Turnarounds: make(map[string]catalog.TurnaroundOption),
			AddOns:      make(map[string]pricing.AddOn),
		}
		if err := rows.Scan(&p.ProductID, &p.CategorySlug, &p.Name, &p.BasePrice, &p.MinimumQuantity); err != nil {
			return nil, fmt.Errorf("error scanning product: %w", err)
		}
		products[p.ProductID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading products: %w", err)
	}

	if err := s.loadPaperStocks(ctx, products); err != nil {
		return nil, err
	}
	if err := s.loadPrintSizes(ctx, products); err != nil {
		return nil, err
	}
	if err := s.loadCoatings(ctx, products); err != nil {
		return nil, err
	}
	if err := s.loadTurnarounds(ctx, products); err != nil {
		return nil, err
	}
	if err := s.loadAddOns(ctx, products); err != nil {
		return nil, err
	}

	return products, nil
}

func (s *CatalogSource) loadPaperStocks(ctx context.Context, products map[string]*catalog.ProductOptions) error {
	rows, err := Pool().Query(ctx, `
		SELECT id, product_id, price_per_sq_inch, area_sq_inch, price_override
		FROM paper_stocks
	`)
	if err != nil {
		return fmt.Errorf("error querying paper stocks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, productID string
		var stock pricing.PaperStock
		if err := rows.Scan(&id, &productID, &stock.PricePerSqInch, &stock.AreaSqInch, &stock.PriceOverride); err != nil {
			return fmt.Errorf("error scanning paper stock: %w", err)
		}
		if p, ok := products[productID]; ok {
			p.PaperStocks[id] = stock
		}
	}
	return rows.Err()
}

func (s *CatalogSource) loadPrintSizes(ctx context.Context, products map[string]*catalog.ProductOptions) error {
	rows, err := Pool().Query(ctx, `
		SELECT id, product_id, price_modifier_percent
		FROM print_sizes
	`)
	if err != nil {
		return fmt.Errorf("error querying print sizes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, productID string
		var size pricing.PrintSize
		if err := rows.Scan(&id, &productID, &size.PriceModifierPercent); err != nil {
			return fmt.Errorf("error scanning print size: %w", err)
		}
		if p, ok := products[productID]; ok {
			p.PrintSizes[id] = size
		}
	}
	return rows.Err()
}

func (s *CatalogSource) loadCoatings(ctx context.Context, products map[string]*catalog.ProductOptions) error {
	rows, err := Pool().Query(ctx, `
		SELECT id, product_id, price_modifier_percent
		FROM coatings
	`)
	if err != nil {
		return fmt.Errorf("error querying coatings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, productID string
		var coating pricing.Coating
		if err := rows.Scan(&id, &productID, &coating.PriceModifierPercent); err != nil {
			return fmt.Errorf("error scanning coating: %w", err)
		}
		if p, ok := products[productID]; ok {
			p.Coatings[id] = coating
		}
	}
	return rows.Err()
}

func (s *CatalogSource) loadTurnarounds(ctx context.Context, products map[string]*catalog.ProductOptions) error {
	rows, err := Pool().Query(ctx, `
		SELECT id, product_id, markup_percent, price_override, rush_markup_percent, rush_price_override
		FROM turnarounds
	`)
	if err != nil {
		return fmt.Errorf("error querying turnarounds: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, productID string
		var standard pricing.Turnaround
		var rushMarkup, rushOverride *float64
		if err := rows.Scan(&id, &productID, &standard.MarkupPercent, &standard.PriceOverride, &rushMarkup, &rushOverride); err != nil {
			return fmt.Errorf("error scanning turnaround: %w", err)
		}

		option := catalog.TurnaroundOption{Standard: standard}
		if rushMarkup != nil || rushOverride != nil {
			rush := pricing.Turnaround{PriceOverride: rushOverride}
			if rushMarkup != nil {
				rush.MarkupPercent = *rushMarkup
			}
			option.Rush = &rush
		}

		if p, ok := products[productID]; ok {
			p.Turnarounds[id] = option
		}
	}
	return rows.Err()
}

func (s *CatalogSource) loadAddOns(ctx context.Context, products map[string]*catalog.ProductOptions) error {
	rows, err := Pool().Query(ctx, `
		SELECT id, product_id, pricing_model, flat_fee, percent, price_per_bundle,
		       items_per_bundle, price_per_sq_inch, area_sq_inch, custom_amount, price_override
		FROM add_ons
	`)
	if err != nil {
		return fmt.Errorf("error querying add-ons: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, productID string
		var addOn pricing.AddOn
		if err := rows.Scan(
			&id, &productID, &addOn.Model, &addOn.FlatFee, &addOn.Percent,
			&addOn.PricePerBundle, &addOn.ItemsPerBundle, &addOn.PricePerSqInch,
			&addOn.AreaSqInch, &addOn.CustomAmount, &addOn.PriceOverride,
		); err != nil {
			return fmt.Errorf("error scanning add-on: %w", err)
		}
		if p, ok := products[productID]; ok {
			p.AddOns[id] = addOn
		}
	}
	return rows.Err()
}

// LoadQuantityTiers reads the quantity discount table ordered by lower bound.
// An empty table means the built-in defaults apply.
func LoadQuantityTiers(ctx context.Context) ([]pricing.QuantityTier, error) {
	rows, err := Pool().Query(ctx, `
		SELECT min_quantity, max_quantity, discount_percent
		FROM quantity_tiers
		ORDER BY min_quantity
	`)
	if err != nil {
		return nil, fmt.Errorf("error querying quantity tiers: %w", err)
	}
	defer rows.Close()

	var tiers []pricing.QuantityTier
	for rows.Next() {
		var t pricing.QuantityTier
		if err := rows.Scan(&t.MinQuantity, &t.MaxQuantity, &t.DiscountPercent); err != nil {
			return nil, fmt.Errorf("error scanning quantity tier: %w", err)
		}
		tiers = append(tiers, t)
	}
	return tiers, rows.Err()
}
