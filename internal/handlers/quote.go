package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/printworks/pricing-service/internal/catalog"
	"github.com/printworks/pricing-service/internal/pkg/cuid2"
	"github.com/printworks/pricing-service/internal/pricing"
)

// ============================================================================
// Quote Endpoints
// ============================================================================

// SelectionPayload is a customer's option configuration by option IDs
type SelectionPayload struct {
	PaperStockID string   `json:"paperStockId,omitempty"`
	PrintSizeID  string   `json:"printSizeId,omitempty"`
	CoatingID    string   `json:"coatingId,omitempty"`
	TurnaroundID string   `json:"turnaroundId,omitempty"`
	AddOnIDs     []string `json:"addOnIds,omitempty" binding:"max=25"`
	Quantity     int      `json:"quantity" binding:"required,min=1"`
	Rush         bool     `json:"rush,omitempty"`
}

// QuoteRequest represents a single-quantity quote request
type QuoteRequest struct {
	ProductID  string           `json:"productId" binding:"required"`
	Selection  SelectionPayload `json:"selection" binding:"required"`
	CustomerID string           `json:"customerId,omitempty"`
}

// PreviewRequest represents a volume-preview request across quantities
type PreviewRequest struct {
	ProductID  string           `json:"productId" binding:"required"`
	Selection  SelectionPayload `json:"selection" binding:"required"`
	CustomerID string           `json:"customerId,omitempty"`
	Quantities []int            `json:"quantities" binding:"required,min=1,max=20"`
}

// QuoteResponse is a signed price breakdown
type QuoteResponse struct {
	QuoteID     string              `json:"quoteId"`
	ProductID   string              `json:"productId"`
	Quantity    int                 `json:"quantity"`
	Calculation *pricing.Components `json:"calculation"`
	Signature   string              `json:"signature"`
}

// MatrixRow is one quantity's entry in a volume preview
type MatrixRow struct {
	Quantity       int                 `json:"quantity"`
	Calculation    *pricing.Components `json:"calculation"`
	UnitFinalPrice float64             `json:"unitFinalPrice"`
}

// BrokerProfileLookup resolves a customer's broker profile, nil when the
// customer is not in the reseller program.
type BrokerProfileLookup func(ctx context.Context, customerID string) (*pricing.BrokerProfile, error)

// Global pricing instances (initialized by the application)
var (
	priceEngine    *pricing.Engine
	productCatalog *catalog.Catalog
	brokerTiers    []pricing.BrokerTier
	lookupProfile  BrokerProfileLookup
)

// InitPricing initializes the pricing instances.
// This should be called during application startup.
func InitPricing(engine *pricing.Engine, cat *catalog.Catalog, tiers []pricing.BrokerTier, lookup BrokerProfileLookup) {
	priceEngine = engine
	productCatalog = cat
	brokerTiers = tiers
	if len(brokerTiers) == 0 {
		brokerTiers = pricing.DefaultBrokerTiers()
	}
	lookupProfile = lookup
}

// resolveRequest turns a wire selection into a fully-populated engine request,
// including the customer's broker discount.
func resolveRequest(ctx context.Context, productID string, sel SelectionPayload, customerID string) (*pricing.Request, error) {
	req, err := productCatalog.ResolveSelection(productID, catalog.Selection{
		PaperStockID: sel.PaperStockID,
		PrintSizeID:  sel.PrintSizeID,
		CoatingID:    sel.CoatingID,
		TurnaroundID: sel.TurnaroundID,
		AddOnIDs:     sel.AddOnIDs,
		Quantity:     sel.Quantity,
		Rush:         sel.Rush,
	})
	if err != nil {
		return nil, err
	}

	if customerID != "" && lookupProfile != nil {
		profile, err := lookupProfile(ctx, customerID)
		if err != nil {
			return nil, err
		}
		if profile != nil {
			product, err := productCatalog.Product(productID)
			if err != nil {
				return nil, err
			}
			req.IsBroker = true
			req.BrokerDiscountPercent = pricing.ResolveBrokerDiscount(profile, brokerTiers, product.CategorySlug, sel.Rush)
		}
	}

	return req, nil
}

// writePricingError maps pricing and catalog errors onto HTTP statuses:
// malformed input is 400, an option outside the product's allowed set is 422.
func writePricingError(c *gin.Context, err error) {
	var invalid pricing.ErrInvalidInput
	if errors.As(err, &invalid) {
		c.JSON(http.StatusBadRequest, gin.H{"error": invalid.Error(), "field": invalid.Field})
		return
	}
	var unknown catalog.ErrUnknownOption
	if errors.As(err, &unknown) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": unknown.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// CreateQuote prices one product configuration
// POST /internal/quotes
func CreateQuote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if productCatalog == nil || !productCatalog.IsHealthy(c.Request.Context()) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Catalog unavailable or stale"})
		return
	}

	engineReq, err := resolveRequest(c.Request.Context(), req.ProductID, req.Selection, req.CustomerID)
	if err != nil {
		writePricingError(c, err)
		return
	}

	components, err := priceEngine.ComputePrice(engineReq)
	if err != nil {
		writePricingError(c, err)
		return
	}

	c.JSON(http.StatusOK, QuoteResponse{
		QuoteID:     cuid2.GeneratePrefixedId("qte", cuid2.PrefixedIdOptions{TimeSortable: true}),
		ProductID:   req.ProductID,
		Quantity:    engineReq.Quantity,
		Calculation: components,
		Signature:   pricing.SnapshotSignature(engineReq.Quantity, components),
	})
}

// PreviewQuote prices one configuration across multiple quantities
// POST /internal/quotes/preview
func PreviewQuote(c *gin.Context) {
	var req PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if productCatalog == nil || !productCatalog.IsHealthy(c.Request.Context()) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Catalog unavailable or stale"})
		return
	}

	engineReq, err := resolveRequest(c.Request.Context(), req.ProductID, req.Selection, req.CustomerID)
	if err != nil {
		writePricingError(c, err)
		return
	}

	entries, err := priceEngine.ComputePriceMatrix(engineReq, req.Quantities)
	if err != nil {
		writePricingError(c, err)
		return
	}

	rows := make([]*MatrixRow, len(entries))
	for i := range entries {
		rows[i] = &MatrixRow{
			Quantity:       entries[i].Quantity,
			Calculation:    &entries[i].Components,
			UnitFinalPrice: entries[i].Components.PerUnitPrice,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"productId":     req.ProductID,
		"pricingMatrix": rows,
		"total":         len(rows),
	})
}
