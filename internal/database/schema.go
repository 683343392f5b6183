package database

import (
	"context"
	"fmt"
)

// Schema is the full DDL for the pricing service. Applied by the seed CLI
// command and by integration tests; production deployments run it through
// their migration tooling.
const Schema = `
CREATE TABLE IF NOT EXISTS products (
	id text PRIMARY KEY,
	category_slug text NOT NULL,
	name text NOT NULL,
	base_price numeric(12,4) NOT NULL,
	minimum_quantity int NOT NULL DEFAULT 1,
	is_active boolean NOT NULL DEFAULT true,
	created_at timestamptz NOT NULL DEFAULT NOW(),
	updated_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS paper_stocks (
	id text PRIMARY KEY,
	product_id text NOT NULL REFERENCES products(id),
	name text NOT NULL,
	price_per_sq_inch numeric(12,6) NOT NULL DEFAULT 0,
	area_sq_inch numeric(12,4) NOT NULL DEFAULT 0,
	price_override numeric(12,4),
	sort_order int NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS print_sizes (
	id text PRIMARY KEY,
	product_id text NOT NULL REFERENCES products(id),
	name text NOT NULL,
	price_modifier_percent numeric(8,4) NOT NULL DEFAULT 0,
	sort_order int NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS coatings (
	id text PRIMARY KEY,
	product_id text NOT NULL REFERENCES products(id),
	name text NOT NULL,
	price_modifier_percent numeric(8,4) NOT NULL DEFAULT 0,
	sort_order int NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS turnarounds (
	id text PRIMARY KEY,
	product_id text NOT NULL REFERENCES products(id),
	name text NOT NULL,
	markup_percent numeric(8,4) NOT NULL DEFAULT 0,
	price_override numeric(12,4),
	rush_markup_percent numeric(8,4),
	rush_price_override numeric(12,4),
	sort_order int NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS add_ons (
	id text PRIMARY KEY,
	product_id text NOT NULL REFERENCES products(id),
	name text NOT NULL,
	pricing_model text NOT NULL,
	flat_fee numeric(12,4) NOT NULL DEFAULT 0,
	percent numeric(8,4) NOT NULL DEFAULT 0,
	price_per_bundle numeric(12,4) NOT NULL DEFAULT 0,
	items_per_bundle int NOT NULL DEFAULT 0,
	price_per_sq_inch numeric(12,6) NOT NULL DEFAULT 0,
	area_sq_inch numeric(12,4) NOT NULL DEFAULT 0,
	custom_amount numeric(12,4) NOT NULL DEFAULT 0,
	price_override numeric(12,4),
	sort_order int NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS quantity_tiers (
	id text PRIMARY KEY,
	min_quantity int NOT NULL,
	max_quantity int NOT NULL DEFAULT 0,
	discount_percent numeric(8,4) NOT NULL,
	UNIQUE(min_quantity)
);

CREATE TABLE IF NOT EXISTS broker_tiers (
	name text PRIMARY KEY,
	base_discount_percent numeric(8,4) NOT NULL,
	rush_order_discount_percent numeric(8,4) NOT NULL,
	minimum_annual_volume numeric(14,2) NOT NULL,
	free_shipping_threshold numeric(12,2) NOT NULL,
	payment_terms_days int NOT NULL
);

CREATE TABLE IF NOT EXISTS broker_profiles (
	customer_id text PRIMARY KEY,
	tier_name text NOT NULL REFERENCES broker_tiers(name),
	created_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS broker_category_discounts (
	customer_id text NOT NULL REFERENCES broker_profiles(customer_id),
	category_slug text NOT NULL,
	discount_percent numeric(8,4) NOT NULL,
	PRIMARY KEY(customer_id, category_slug)
);

CREATE TABLE IF NOT EXISTS carts (
	id text PRIMARY KEY,
	customer_id text,
	status text NOT NULL DEFAULT 'open',
	created_at timestamptz NOT NULL DEFAULT NOW(),
	checked_out_at timestamptz
);

CREATE TABLE IF NOT EXISTS cart_items (
	id text PRIMARY KEY,
	cart_id text NOT NULL REFERENCES carts(id),
	product_id text NOT NULL REFERENCES products(id),
	quantity int NOT NULL,
	selection jsonb NOT NULL,
	components jsonb NOT NULL,
	signature text NOT NULL,
	final_total numeric(12,2) NOT NULL,
	created_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_cart_items_cart ON cart_items(cart_id);

CREATE TABLE IF NOT EXISTS orders (
	id text PRIMARY KEY,
	cart_id text NOT NULL REFERENCES carts(id),
	customer_id text,
	total numeric(12,2) NOT NULL,
	created_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS order_items (
	id text PRIMARY KEY,
	order_id text NOT NULL REFERENCES orders(id),
	product_id text NOT NULL REFERENCES products(id),
	quantity int NOT NULL,
	components jsonb NOT NULL,
	signature text NOT NULL,
	final_total numeric(12,2) NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id);
`

// EnsureSchema applies the DDL. All statements are idempotent.
func EnsureSchema(ctx context.Context) error {
	if _, err := Pool().Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
