package database

import (
	"context"
	"fmt"

	"github.com/printworks/pricing-service/internal/pkg/cuid2"
	"github.com/printworks/pricing-service/internal/pricing"
)

// SeedDefaults inserts the built-in quantity and broker tier tables.
// Existing rows are left untouched.
func SeedDefaults(ctx context.Context) error {
	pool := Pool()

	for _, t := range pricing.DefaultQuantityTiers() {
		if _, err := pool.Exec(ctx, `
			INSERT INTO quantity_tiers (id, min_quantity, max_quantity, discount_percent)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (min_quantity) DO NOTHING
		`, cuid2.GeneratePrefixedId("qtr", cuid2.PrefixedIdOptions{TimeSortable: true}),
			t.MinQuantity, t.MaxQuantity, t.DiscountPercent); err != nil {
			return fmt.Errorf("failed to seed quantity tier: %w", err)
		}
	}

	for _, t := range pricing.DefaultBrokerTiers() {
		if _, err := pool.Exec(ctx, `
			INSERT INTO broker_tiers (name, base_discount_percent, rush_order_discount_percent,
				minimum_annual_volume, free_shipping_threshold, payment_terms_days)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (name) DO NOTHING
		`, t.Name, t.BaseDiscountPercent, t.RushOrderDiscountPercent,
			t.MinimumAnnualVolume, t.FreeShippingThreshold, t.PaymentTermsDays); err != nil {
			return fmt.Errorf("failed to seed broker tier: %w", err)
		}
	}

	return nil
}

// SeedDemoProduct inserts a fully-configured demo flyer product and returns
// its ID. Used by the seed CLI command and integration tests.
func SeedDemoProduct(ctx context.Context) (string, error) {
	pool := Pool()

	productID := cuid2.GeneratePrefixedId("prd", cuid2.PrefixedIdOptions{TimeSortable: true})
	if _, err := pool.Exec(ctx, `
		INSERT INTO products (id, category_slug, name, base_price, minimum_quantity)
		VALUES ($1, 'flyers', 'Club Flyer', 0.12, 100)
	`, productID); err != nil {
		return "", fmt.Errorf("failed to seed product: %w", err)
	}

	optionInserts := []string{
		`INSERT INTO paper_stocks (id, product_id, name, price_per_sq_inch, area_sq_inch) VALUES ($1, $2, '100lb Gloss Text', 0.002, 24)`,
		`INSERT INTO paper_stocks (id, product_id, name, price_per_sq_inch, area_sq_inch, price_override) VALUES ($1, $2, '14pt Premium Cover', 0.004, 24, 0.10)`,
		`INSERT INTO print_sizes (id, product_id, name, price_modifier_percent) VALUES ($1, $2, '4x6', 0)`,
		`INSERT INTO print_sizes (id, product_id, name, price_modifier_percent) VALUES ($1, $2, '5x7', 25)`,
		`INSERT INTO coatings (id, product_id, name, price_modifier_percent) VALUES ($1, $2, 'UV Gloss', 10)`,
		`INSERT INTO turnarounds (id, product_id, name, markup_percent, rush_markup_percent) VALUES ($1, $2, 'Standard 5-7 days', 0, 50)`,
		`INSERT INTO add_ons (id, product_id, name, pricing_model, flat_fee) VALUES ($1, $2, 'Rounded Corners', 'flat', 15)`,
		`INSERT INTO add_ons (id, product_id, name, pricing_model, price_per_bundle, items_per_bundle) VALUES ($1, $2, 'Shrink Wrapping', 'per_unit', 25, 100)`,
	}
	for _, query := range optionInserts {
		id := cuid2.GeneratePrefixedId("opt", cuid2.PrefixedIdOptions{TimeSortable: true})
		if _, err := pool.Exec(ctx, query, id, productID); err != nil {
			return "", fmt.Errorf("failed to seed product option: %w", err)
		}
	}

	return productID, nil
}
