package database_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/printworks/pricing-service/internal/database"
	"github.com/printworks/pricing-service/internal/pricing"
)

// TestDatabaseIntegration runs the catalog, broker, and checkout round trips
// against a throwaway Postgres container.
func TestDatabaseIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	container, err := setupTestDatabase(ctx)
	require.NoError(t, err)
	defer container.Terminate(ctx)

	connStr, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	require.NoError(t, database.Connect(ctx, connStr, 10, 2, 0, 0))
	defer database.Close()

	require.NoError(t, database.EnsureSchema(ctx))
	require.NoError(t, database.SeedDefaults(ctx))

	productID, err := database.SeedDemoProduct(ctx)
	require.NoError(t, err)

	t.Run("CatalogSource", func(t *testing.T) {
		products, err := database.NewCatalogSource().LoadProducts(ctx)
		require.NoError(t, err)
		require.Contains(t, products, productID)

		p := products[productID]
		assert.Equal(t, "flyers", p.CategorySlug)
		assert.Equal(t, 0.12, p.BasePrice)
		assert.Equal(t, 100, p.MinimumQuantity)
		assert.Len(t, p.PaperStocks, 2)
		assert.Len(t, p.PrintSizes, 2)
		assert.Len(t, p.Turnarounds, 1)
		assert.Len(t, p.AddOns, 2)

		for _, turnaround := range p.Turnarounds {
			require.NotNil(t, turnaround.Rush, "rush variant should load")
			assert.Equal(t, 50.0, turnaround.Rush.MarkupPercent)
		}
	})

	t.Run("QuantityTiers", func(t *testing.T) {
		tiers, err := database.LoadQuantityTiers(ctx)
		require.NoError(t, err)
		require.NoError(t, pricing.ValidateQuantityTiers(tiers))
		assert.Len(t, tiers, len(pricing.DefaultQuantityTiers()))
	})

	t.Run("BrokerProfiles", func(t *testing.T) {
		tiers, err := database.LoadBrokerTiers(ctx)
		require.NoError(t, err)
		assert.Len(t, tiers, 4)

		profile, err := database.LoadBrokerProfile(ctx, "cus_missing")
		require.NoError(t, err)
		assert.Nil(t, profile)

		require.NoError(t, database.UpsertBrokerProfile(ctx, "cus_test", "Gold"))
		profile, err = database.LoadBrokerProfile(ctx, "cus_test")
		require.NoError(t, err)
		require.NotNil(t, profile)
		assert.Equal(t, "Gold", profile.TierName)
	})

	t.Run("CartCheckout", func(t *testing.T) {
		cart, err := database.CreateCart(ctx, nil)
		require.NoError(t, err)

		components := &pricing.Components{Subtotal: 120, FinalTotal: 120, PerUnitPrice: 0.12}
		componentsJSON, err := json.Marshal(components)
		require.NoError(t, err)

		item := &database.CartItem{
			CartID:         cart.ID,
			ProductID:      productID,
			Quantity:       1000,
			SelectionJSON:  `{"quantity":1000}`,
			ComponentsJSON: string(componentsJSON),
			Signature:      pricing.SnapshotSignature(1000, components),
			FinalTotal:     components.FinalTotal,
		}
		require.NoError(t, item.Insert(ctx))

		items, err := database.ListCartItems(ctx, cart.ID)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.True(t, pricing.VerifySnapshot(1000, components, items[0].Signature))

		order, err := database.CreateOrderFromCart(ctx, cart.ID)
		require.NoError(t, err)
		assert.Equal(t, 120.0, order.Total)

		// Cart is closed now: no more inserts, no double checkout.
		assert.ErrorIs(t, item.Insert(ctx), database.ErrCartNotOpen)
		_, err = database.CreateOrderFromCart(ctx, cart.ID)
		assert.ErrorIs(t, err, database.ErrCartNotOpen)
	})
}

func setupTestDatabase(ctx context.Context) (*postgres.PostgresContainer, error) {
	return postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForAll(
				wait.ForListeningPort("5432/tcp").
					WithStartupTimeout(60*time.Second),
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(1).
					WithStartupTimeout(60*time.Second),
			),
		),
	)
}
