package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/printworks/pricing-service/internal/catalog"
	"github.com/printworks/pricing-service/internal/database"
	"github.com/printworks/pricing-service/internal/pricing"
)

var (
	quoteQuantity   int
	quotePaper      string
	quoteSize       string
	quoteCoating    string
	quoteTurnaround string
	quoteAddOns     []string
	quoteRush       bool
	quoteCustomer   string
	quoteQuantities []int
)

// quoteCmd represents the quote command
var quoteCmd = &cobra.Command{
	Use:   "quote <product-id>",
	Short: "Price a product configuration",
	Long: `Price one product configuration through the full pipeline: option
modifiers, quantity tier discount, and the customer's broker discount if a
customer is given. Pass --quantities to print a volume matrix instead of a
single quote.`,
	Example: `  pricing-service quote prd_abc123 --quantity 500
  pricing-service quote prd_abc123 --quantity 500 --paper pst_gloss --rush
  pricing-service quote prd_abc123 --quantity 500 --customer cus_xyz
  pricing-service quote prd_abc123 --quantities 100,250,500,1000`,
	Args: cobra.ExactArgs(1),
	RunE: runQuote,
}

func init() {
	rootCmd.AddCommand(quoteCmd)

	quoteCmd.Flags().IntVar(&quoteQuantity, "quantity", 100, "Order quantity")
	quoteCmd.Flags().StringVar(&quotePaper, "paper", "", "Paper stock option ID")
	quoteCmd.Flags().StringVar(&quoteSize, "size", "", "Print size option ID")
	quoteCmd.Flags().StringVar(&quoteCoating, "coating", "", "Coating option ID")
	quoteCmd.Flags().StringVar(&quoteTurnaround, "turnaround", "", "Turnaround option ID")
	quoteCmd.Flags().StringSliceVar(&quoteAddOns, "addon", nil, "Add-on option IDs (repeatable)")
	quoteCmd.Flags().BoolVar(&quoteRush, "rush", false, "Rush order")
	quoteCmd.Flags().StringVar(&quoteCustomer, "customer", "", "Customer ID for broker discount resolution")
	quoteCmd.Flags().IntSliceVar(&quoteQuantities, "quantities", nil, "Quantities for a volume matrix")
}

func runQuote(cmd *cobra.Command, args []string) error {
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

	req, err := cat.ResolveSelection(productID, catalog.Selection{
		PaperStockID: quotePaper,
		PrintSizeID:  quoteSize,
		CoatingID:    quoteCoating,
		TurnaroundID: quoteTurnaround,
		AddOnIDs:     quoteAddOns,
		Quantity:     quoteQuantity,
		Rush:         quoteRush,
	})
	if err != nil {
		return err
	}

	if quoteCustomer != "" {
		profile, err := database.LoadBrokerProfile(ctx, quoteCustomer)
		if err != nil {
			return err
		}
		if profile != nil {
			product, err := cat.Product(productID)
			if err != nil {
				return err
			}
			tiers, err := database.LoadBrokerTiers(ctx)
			if err != nil {
				return err
			}
			if len(tiers) == 0 {
				tiers = pricing.DefaultBrokerTiers()
			}
			req.IsBroker = true
			req.BrokerDiscountPercent = pricing.ResolveBrokerDiscount(profile, tiers, product.CategorySlug, quoteRush)
		}
	}

	if len(quoteQuantities) > 0 {
		entries, err := engine.ComputePriceMatrix(req, quoteQuantities)
		if err != nil {
			return err
		}
		displayMatrix(entries)
		return nil
	}

	components, err := engine.ComputePrice(req)
	if err != nil {
		return err
	}
	displayQuote(req.Quantity, components)
	return nil
}

func buildEngine(ctx context.Context) (*pricing.Engine, error) {
	engineConfig := pricing.DefaultEngineConfig()
	if tiers, err := database.LoadQuantityTiers(ctx); err != nil {
		logger.Warn().Err(err).Msg("Failed to load quantity tiers, using defaults")
	} else if len(tiers) > 0 {
		engineConfig.Tiers = tiers
	}
	return pricing.NewEngine(engineConfig, pricing.NewMetricsRecorder())
}

func displayQuote(quantity int, c *pricing.Components) {
	p := message.NewPrinter(language.English)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)

	fmt.Fprintf(w, "Quantity\t%d\n", quantity)
	fmt.Fprintf(w, "Base price\t%s\n", p.Sprintf("$%.2f", c.BasePrice))
	fmt.Fprintf(w, "Paper\t%s\n", p.Sprintf("$%.2f", c.PaperCost))
	fmt.Fprintf(w, "Size modifier\t%s\n", p.Sprintf("$%.2f", c.SizeModifier))
	fmt.Fprintf(w, "Coating modifier\t%s\n", p.Sprintf("$%.2f", c.CoatingModifier))
	fmt.Fprintf(w, "Turnaround\t%s\n", p.Sprintf("$%.2f", c.TurnaroundModifier))
	fmt.Fprintf(w, "Add-ons\t%s\n", p.Sprintf("$%.2f", c.AddOnCosts))
	fmt.Fprintf(w, "Subtotal\t%s\n", p.Sprintf("$%.2f", c.Subtotal))
	fmt.Fprintf(w, "Quantity discount\t-%s (%.1f%%)\n", p.Sprintf("$%.2f", c.QuantityDiscount), c.QuantityDiscountPercent)
	fmt.Fprintf(w, "Broker discount\t-%s (%.1f%%)\n", p.Sprintf("$%.2f", c.BrokerDiscount), c.BrokerDiscountPercent)
	fmt.Fprintf(w, "Total\t%s\n", p.Sprintf("$%.2f", c.FinalTotal))
	fmt.Fprintf(w, "Per unit\t%s\n", p.Sprintf("$%.4f", c.PerUnitPrice))
	fmt.Fprintf(w, "Savings\t%s\n", p.Sprintf("$%.2f", c.Savings))

	w.Flush()
}

func displayMatrix(entries []pricing.MatrixEntry) {
	p := message.NewPrinter(language.English)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "QUANTITY\tSUBTOTAL\tDISCOUNTS\tTOTAL\tPER UNIT")
	fmt.Fprintln(w, "--------\t--------\t---------\t-----\t--------")

	for i := range entries {
		c := entries[i].Components
		fmt.Fprintf(w, "%d\t%s\t-%s\t%s\t%s\n",
			entries[i].Quantity,
			p.Sprintf("$%.2f", c.Subtotal),
			p.Sprintf("$%.2f", c.QuantityDiscount+c.BrokerDiscount),
			p.Sprintf("$%.2f", c.FinalTotal),
			p.Sprintf("$%.4f", c.PerUnitPrice),
		)
	}

	w.Flush()
}
