package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/printworks/pricing-service/internal/database"
	"github.com/printworks/pricing-service/internal/pricing"
)

// ============================================================================
// Checkout Endpoint
// ============================================================================

// Checkout verifies every cart line's price signature and freezes the cart
// into an order. A line whose snapshot does not match its signature aborts
// the checkout; nothing is charged on a tampered breakdown.
// POST /internal/checkout/:cartId
func Checkout(c *gin.Context) {
	cartID := c.Param("cartId")

	items, err := database.ListCartItems(c.Request.Context(), cartID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if len(items) == 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "cart is empty"})
		return
	}

	for _, item := range items {
		var components pricing.Components
		if err := json.Unmarshal([]byte(item.ComponentsJSON), &components); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if !pricing.VerifySnapshot(item.Quantity, &components, item.Signature) {
			c.JSON(http.StatusConflict, gin.H{
				"error":  "price snapshot verification failed",
				"itemId": item.ID,
			})
			return
		}
	}

	order, err := database.CreateOrderFromCart(c.Request.Context(), cartID)
	if err != nil {
		if err == database.ErrCartNotOpen {
			c.JSON(http.StatusConflict, gin.H{"error": "cart is not open"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"orderId": order.ID,
		"cartId":  order.CartID,
		"total":   order.Total,
		"items":   len(items),
	})
}
