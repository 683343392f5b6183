// Package catalog resolves product option selections into pricing engine
// inputs. It owns the "referenced option is not in the product's allowed
// set" error class; the engine itself never sees raw option IDs.
package catalog

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/printworks/pricing-service/internal/pricing"
)

// TurnaroundOption pairs a turnaround's standard price effect with an
// optional rush variant selected by the order's rush flag.
type TurnaroundOption struct {
	Standard pricing.Turnaround
	Rush     *pricing.Turnaround
}

// ProductOptions is the full allowed option set of one product, keyed by
// option ID.
type ProductOptions struct {
	ProductID       string
	CategorySlug    string
	Name            string
	BasePrice       float64
	MinimumQuantity int

	PaperStocks map[string]pricing.PaperStock
	PrintSizes  map[string]pricing.PrintSize
	Coatings    map[string]pricing.Coating
	Turnarounds map[string]TurnaroundOption
	AddOns      map[string]pricing.AddOn
}

// Selection is a customer's configuration choice by option IDs. Empty IDs
// mean the option was not selected; quantity below the product minimum is
// clamped up to it before pricing.
type Selection struct {
	PaperStockID string
	PrintSizeID  string
	CoatingID    string
	TurnaroundID string
	AddOnIDs     []string
	Quantity     int
	Rush         bool
}

// Source loads the full product option catalog, typically from Postgres.
type Source interface {
	LoadProducts(ctx context.Context) (map[string]*ProductOptions, error)
}

// Freshness describes the state of the loaded snapshot.
type Freshness struct {
	LoadedAt     time.Time
	IsStale      bool
	ProductCount int
}

// Catalog holds an immutable snapshot of all product option sets, swapped
// atomically on refresh so resolution never blocks on a load.
type Catalog struct {
	source Source
	ttl    time.Duration

	snapshot atomic.Value // map[string]*ProductOptions
	loadedAt atomic.Value // time.Time

	// refreshSem serializes refreshes so concurrent triggers collapse into
	// one database load.
	refreshSem *semaphore.Weighted

	logger zerolog.Logger
}

// New creates a catalog backed by source. Snapshots older than ttl are
// reported stale; ttl 0 disables staleness.
func New(source Source, ttl time.Duration) *Catalog {
	return &Catalog{
		source:     source,
		ttl:        ttl,
		refreshSem: semaphore.NewWeighted(1),
		logger:     log.With().Str("component", "catalog").Logger(),
	}
}

// Warmup loads the initial snapshot. Call once at startup before serving.
func (c *Catalog) Warmup(ctx context.Context) error {
	return c.Refresh(ctx)
}

// Refresh reloads the snapshot from the source. Concurrent calls wait for
// the in-flight load instead of stacking database reads.
func (c *Catalog) Refresh(ctx context.Context) error {
	if err := c.refreshSem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer c.refreshSem.Release(1)

	start := time.Now()
	products, err := c.source.LoadProducts(ctx)
	if err != nil {
		c.logger.Error().Err(err).Msg("Catalog load failed")
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	c.snapshot.Store(products)
	c.loadedAt.Store(time.Now())

	c.logger.Info().
		Int("products", len(products)).
		Dur("duration", time.Since(start)).
		Msg("Catalog snapshot loaded")
	return nil
}

// Product returns the option set of one product.
func (c *Catalog) Product(productID string) (*ProductOptions, error) {
	products, _ := c.snapshot.Load().(map[string]*ProductOptions)
	p, ok := products[productID]
	if !ok {
		return nil, ErrUnknownOption{Kind: "product", ID: productID}
	}
	return p, nil
}

// ResolveSelection turns a selection of option IDs into a fully-populated
// pricing request, clamping quantity to the product minimum. The broker
// discount percent is left for the caller to resolve from the customer's
// profile.
func (c *Catalog) ResolveSelection(productID string, sel Selection) (*pricing.Request, error) {
	p, err := c.Product(productID)
	if err != nil {
		return nil, err
	}

	quantity := sel.Quantity
	if quantity < p.MinimumQuantity {
		quantity = p.MinimumQuantity
	}

	req := &pricing.Request{
		BasePrice: p.BasePrice,
		Quantity:  quantity,
		Rush:      sel.Rush,
	}

	if sel.PaperStockID != "" {
		paper, ok := p.PaperStocks[sel.PaperStockID]
		if !ok {
			return nil, ErrUnknownOption{Kind: "paper_stock", ID: sel.PaperStockID, ProductID: productID}
		}
		req.Paper = &paper
	}
	if sel.PrintSizeID != "" {
		size, ok := p.PrintSizes[sel.PrintSizeID]
		if !ok {
			return nil, ErrUnknownOption{Kind: "print_size", ID: sel.PrintSizeID, ProductID: productID}
		}
		req.Size = &size
	}
	if sel.CoatingID != "" {
		coating, ok := p.Coatings[sel.CoatingID]
		if !ok {
			return nil, ErrUnknownOption{Kind: "coating", ID: sel.CoatingID, ProductID: productID}
		}
		req.Coating = &coating
	}
	if sel.TurnaroundID != "" {
		turnaround, ok := p.Turnarounds[sel.TurnaroundID]
		if !ok {
			return nil, ErrUnknownOption{Kind: "turnaround", ID: sel.TurnaroundID, ProductID: productID}
		}
		standard := turnaround.Standard
		req.Turnaround = &standard
		req.RushTurnaround = turnaround.Rush
	}
	for _, id := range sel.AddOnIDs {
		addOn, ok := p.AddOns[id]
		if !ok {
			return nil, ErrUnknownOption{Kind: "add_on", ID: id, ProductID: productID}
		}
		req.AddOns = append(req.AddOns, addOn)
	}

	return req, nil
}

// Freshness reports when the snapshot was loaded and whether it is stale.
func (c *Catalog) Freshness() Freshness {
	products, _ := c.snapshot.Load().(map[string]*ProductOptions)
	loadedAt, _ := c.loadedAt.Load().(time.Time)

	stale := loadedAt.IsZero()
	if !stale && c.ttl > 0 {
		stale = time.Since(loadedAt) > c.ttl
	}

	return Freshness{
		LoadedAt:     loadedAt,
		IsStale:      stale,
		ProductCount: len(products),
	}
}

// IsHealthy reports whether a usable snapshot is loaded.
func (c *Catalog) IsHealthy(ctx context.Context) bool {
	return !c.Freshness().IsStale
}
