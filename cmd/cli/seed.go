package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/printworks/pricing-service/internal/database"
)

var seedDemo bool

// seedCmd represents the seed command
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Apply the schema and seed the default tier tables",
	Long: `Apply the database schema and insert the built-in quantity and broker
tier tables. Existing rows are never overwritten. Pass --demo to also create
a fully-configured demo product for local development.`,
	Example: `  pricing-service seed
  pricing-service seed --demo`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().BoolVar(&seedDemo, "demo", false, "Also seed a demo product")
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if err := database.EnsureSchema(ctx); err != nil {
		return err
	}
	logger.Info().Msg("Schema applied")

	if err := database.SeedDefaults(ctx); err != nil {
		return err
	}
	logger.Info().Msg("Default tiers seeded")

	if seedDemo {
		productID, err := database.SeedDemoProduct(ctx)
		if err != nil {
			return err
		}
		logger.Info().Str("product_id", productID).Msg("Demo product seeded")
	}

	return nil
}
