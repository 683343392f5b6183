package handlers

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ============================================================================
// Broker Program Endpoints
// ============================================================================

// TierProjection shows what one broker tier would do to a given order
type TierProjection struct {
	Tier                  string  `json:"tier"`
	DiscountPercent       float64 `json:"discountPercent"`
	DiscountedTotal       float64 `json:"discountedTotal"`
	Savings               float64 `json:"savings"`
	MinimumAnnualVolume   float64 `json:"minimumAnnualVolume"`
	FreeShippingThreshold float64 `json:"freeShippingThreshold"`
	FreeShipping          bool    `json:"freeShipping"`
	PaymentTermsDays      int     `json:"paymentTermsDays"`
}

// BrokerProjections projects an order subtotal through every broker tier,
// for "join the reseller program" comparison pages.
// GET /internal/brokers/projections?subtotal=4500&rush=false
func BrokerProjections(c *gin.Context) {
	subtotal, err := strconv.ParseFloat(c.DefaultQuery("subtotal", "0"), 64)
	if err != nil || subtotal < 0 || math.IsInf(subtotal, 0) || math.IsNaN(subtotal) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "subtotal must be a non-negative number"})
		return
	}
	rush := c.DefaultQuery("rush", "false") == "true"

	projections := make([]*TierProjection, len(brokerTiers))
	for i, tier := range brokerTiers {
		pct := tier.BaseDiscountPercent
		if rush {
			pct = tier.RushOrderDiscountPercent
		}
		discounted := math.Round(subtotal*(1-pct/100)*100) / 100

		projections[i] = &TierProjection{
			Tier:                  tier.Name,
			DiscountPercent:       pct,
			DiscountedTotal:       discounted,
			Savings:               math.Round((subtotal-discounted)*100) / 100,
			MinimumAnnualVolume:   tier.MinimumAnnualVolume,
			FreeShippingThreshold: tier.FreeShippingThreshold,
			FreeShipping:          subtotal >= tier.FreeShippingThreshold,
			PaymentTermsDays:      tier.PaymentTermsDays,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"subtotal": subtotal,
		"rush":     rush,
		"tiers":    projections,
	})
}
