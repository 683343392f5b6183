package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/printworks/pricing-service/internal/database"
	"github.com/printworks/pricing-service/internal/pricing"
)

// ============================================================================
// Cart Endpoints
// ============================================================================

// CreateCartRequest opens a new cart
type CreateCartRequest struct {
	CustomerID string `json:"customerId,omitempty"`
}

// AddCartItemRequest prices a configuration and stores it as a cart line
type AddCartItemRequest struct {
	ProductID  string           `json:"productId" binding:"required"`
	Selection  SelectionPayload `json:"selection" binding:"required"`
	CustomerID string           `json:"customerId,omitempty"`
}

// CartItemResponse is one priced cart line
type CartItemResponse struct {
	ItemID      string              `json:"itemId"`
	ProductID   string              `json:"productId"`
	Quantity    int                 `json:"quantity"`
	Calculation *pricing.Components `json:"calculation"`
	Signature   string              `json:"signature"`
}

// CreateCart opens a cart
// POST /internal/carts
func CreateCart(c *gin.Context) {
	var req CreateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var customerID *string
	if req.CustomerID != "" {
		customerID = &req.CustomerID
	}

	cart, err := database.CreateCart(c.Request.Context(), customerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"cartId": cart.ID, "status": cart.Status})
}

// AddCartItem prices a configuration and appends it to an open cart. The
// breakdown is frozen at add time: checkout charges this snapshot even if
// catalog prices change in between.
// POST /internal/carts/:cartId/items
func AddCartItem(c *gin.Context) {
	cartID := c.Param("cartId")

	var req AddCartItemRequest
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

	selectionJSON, err := json.Marshal(req.Selection)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	componentsJSON, err := json.Marshal(components)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	item := &database.CartItem{
		CartID:         cartID,
		ProductID:      req.ProductID,
		Quantity:       engineReq.Quantity,
		SelectionJSON:  string(selectionJSON),
		ComponentsJSON: string(componentsJSON),
		Signature:      pricing.SnapshotSignature(engineReq.Quantity, components),
		FinalTotal:     components.FinalTotal,
	}
	if err := item.Insert(c.Request.Context()); err != nil {
		if err == database.ErrCartNotOpen {
			c.JSON(http.StatusConflict, gin.H{"error": "cart is not open"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, CartItemResponse{
		ItemID:      item.ID,
		ProductID:   item.ProductID,
		Quantity:    item.Quantity,
		Calculation: components,
		Signature:   item.Signature,
	})
}

// ListCartItems returns the cart's priced lines and running total
// GET /internal/carts/:cartId/items
func ListCartItems(c *gin.Context) {
	cartID := c.Param("cartId")

	cart, err := database.GetCart(c.Request.Context(), cartID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if cart == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "cart not found"})
		return
	}

	items, err := database.ListCartItems(c.Request.Context(), cartID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	lines := make([]*CartItemResponse, len(items))
	var total float64
	for i, item := range items {
		var components pricing.Components
		if err := json.Unmarshal([]byte(item.ComponentsJSON), &components); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		lines[i] = &CartItemResponse{
			ItemID:      item.ID,
			ProductID:   item.ProductID,
			Quantity:    item.Quantity,
			Calculation: &components,
			Signature:   item.Signature,
		}
		total += item.FinalTotal
	}

	c.JSON(http.StatusOK, gin.H{
		"cartId": cartID,
		"status": cart.Status,
		"items":  lines,
		"total":  total,
	})
}
