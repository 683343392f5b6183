package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/printworks/pricing-service/internal/catalog"
	"github.com/printworks/pricing-service/internal/database"
	"github.com/printworks/pricing-service/internal/export"
	"github.com/printworks/pricing-service/internal/storage"
)

var (
	ratecardQuantities []int
	ratecardOut        string
)

// ratecardCmd represents the ratecard command
var ratecardCmd = &cobra.Command{
	Use:   "ratecard <product-id>",
	Short: "Generate a broker rate card workbook",
	Long: `Generate an xlsx rate card for a product: one sheet of volume pricing
per broker tier plus the retail sheet. The workbook is archived under the
configured storage path.`,
	Example: `  pricing-service ratecard prd_abc123
  pricing-service ratecard prd_abc123 --quantities 250,500,1000,5000
  pricing-service ratecard prd_abc123 --out /tmp/ratecards`,
	Args: cobra.ExactArgs(1),
	RunE: runRatecard,
}

func init() {
	rootCmd.AddCommand(ratecardCmd)

	ratecardCmd.Flags().IntSliceVar(&ratecardQuantities, "quantities", nil, "Quantity ladder (defaults to the standard card)")
	ratecardCmd.Flags().StringVar(&ratecardOut, "out", "", "Output directory (defaults to storage.base_path)")
}

func runRatecard(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	productID := args[0]

	cat := catalog.New(database.NewCatalogSource(), time.Hour)
	if err := cat.Warmup(ctx); err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	engine, err := buildEngine(ctx)
	if err != nil {
		return err
	}

	basePath := ratecardOut
	if basePath == "" {
		basePath = cfg.Storage.BasePath
	}
	store, err := storage.NewLocalStorage(basePath)
	if err != nil {
		return err
	}

	product, err := cat.Product(productID)
	if err != nil {
		return err
	}

	gen := export.NewGenerator(engine, cat, store)
	key, err := gen.Generate(ctx, productID, catalog.Selection{Quantity: product.MinimumQuantity}, ratecardQuantities)
	if err != nil {
		return err
	}

	logger.Info().Str("product", product.Name).Str("key", key).Msg("Rate card written")
	fmt.Printf("%s\n", key)
	return nil
}
