package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/printworks/pricing-service/internal/pricing"
)

// LoadBrokerTiers reads the reseller program tiers ordered by discount.
// An empty table means the built-in defaults apply.
func LoadBrokerTiers(ctx context.Context) ([]pricing.BrokerTier, error) {
	rows, err := Pool().Query(ctx, `
		SELECT name, base_discount_percent, rush_order_discount_percent,
		       minimum_annual_volume, free_shipping_threshold, payment_terms_days
		FROM broker_tiers
		ORDER BY base_discount_percent
	`)
	if err != nil {
		return nil, fmt.Errorf("error querying broker tiers: %w", err)
	}
	defer rows.Close()

	var tiers []pricing.BrokerTier
	for rows.Next() {
		var t pricing.BrokerTier
		if err := rows.Scan(
			&t.Name, &t.BaseDiscountPercent, &t.RushOrderDiscountPercent,
			&t.MinimumAnnualVolume, &t.FreeShippingThreshold, &t.PaymentTermsDays,
		); err != nil {
			return nil, fmt.Errorf("error scanning broker tier: %w", err)
		}
		tiers = append(tiers, t)
	}
	return tiers, rows.Err()
}

// LoadBrokerProfile reads one customer's broker profile with its per-category
// overrides. Returns (nil, nil) when the customer is not a broker.
func LoadBrokerProfile(ctx context.Context, customerID string) (*pricing.BrokerProfile, error) {
	pool := Pool()

	var profile pricing.BrokerProfile
	err := pool.QueryRow(ctx, `
		SELECT tier_name FROM broker_profiles WHERE customer_id = $1
	`, customerID).Scan(&profile.TierName)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error querying broker profile: %w", err)
	}

	rows, err := pool.Query(ctx, `
		SELECT category_slug, discount_percent
		FROM broker_category_discounts
		WHERE customer_id = $1
	`, customerID)
	if err != nil {
		return nil, fmt.Errorf("error querying category discounts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var slug string
		var pct float64
		if err := rows.Scan(&slug, &pct); err != nil {
			return nil, fmt.Errorf("error scanning category discount: %w", err)
		}
		if profile.CategoryDiscounts == nil {
			profile.CategoryDiscounts = make(map[string]float64)
		}
		profile.CategoryDiscounts[slug] = pct
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &profile, nil
}

// UpsertBrokerProfile creates or updates a customer's broker tier assignment.
func UpsertBrokerProfile(ctx context.Context, customerID, tierName string) error {
	_, err := Pool().Exec(ctx, `
		INSERT INTO broker_profiles (customer_id, tier_name, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (customer_id) DO UPDATE SET tier_name = EXCLUDED.tier_name
	`, customerID, tierName)
	if err != nil {
		return fmt.Errorf("failed to upsert broker profile: %w", err)
	}
	return nil
}
