package database

import (
	"time"
)

// Product represents a configurable print product (flyers, business cards)
type Product struct {
	ID              string    `json:"id"`               // CUID2
	CategorySlug    string    `json:"category_slug"`    // flyers, business-cards, etc.
	Name            string    `json:"name"`             // Human-readable name
	BasePrice       float64   `json:"base_price"`       // Per-unit base price
	MinimumQuantity int       `json:"minimum_quantity"` // Orders below this are clamped up
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// PaperStockOption is a paper choice attached to a product
type PaperStockOption struct {
	ID             string   `json:"id"`                // CUID2
	ProductID      string   `json:"product_id"`        // FK to products.id
	Name           string   `json:"name"`              // "14pt Gloss Cover", etc.
	PricePerSqInch float64  `json:"price_per_sq_inch"` // Per-square-inch cost
	AreaSqInch     float64  `json:"area_sq_inch"`      // Sheet area in square inches
	PriceOverride  *float64 `json:"price_override"`    // Replaces computed cost when set
	SortOrder      int      `json:"sort_order"`
}

// PrintSizeOption is a size choice attached to a product
type PrintSizeOption struct {
	ID                   string  `json:"id"`                     // CUID2
	ProductID            string  `json:"product_id"`             // FK to products.id
	Name                 string  `json:"name"`                   // "4x6", "5x7", etc.
	PriceModifierPercent float64 `json:"price_modifier_percent"` // Percent of base price
	SortOrder            int     `json:"sort_order"`
}

// CoatingOption is a coating choice attached to a product
type CoatingOption struct {
	ID                   string  `json:"id"`                     // CUID2
	ProductID            string  `json:"product_id"`             // FK to products.id
	Name                 string  `json:"name"`                   // "UV Gloss", "Matte", etc.
	PriceModifierPercent float64 `json:"price_modifier_percent"` // Percent of base price
	SortOrder            int     `json:"sort_order"`
}

// TurnaroundOption is a production-speed choice attached to a product.
// The rush columns describe the variant applied when the order is rushed.
type TurnaroundOption struct {
	ID                string   `json:"id"`                  // CUID2
	ProductID         string   `json:"product_id"`          // FK to products.id
	Name              string   `json:"name"`                // "Standard 5-7 days", etc.
	MarkupPercent     float64  `json:"markup_percent"`      // Percent of base price
	PriceOverride     *float64 `json:"price_override"`      // Replaces markup when set
	RushMarkupPercent *float64 `json:"rush_markup_percent"` // Rush variant markup
	RushPriceOverride *float64 `json:"rush_price_override"` // Rush variant override
	SortOrder         int      `json:"sort_order"`
}

// AddOnOption is an add-on service attached to a product
type AddOnOption struct {
	ID             string   `json:"id"`               // CUID2
	ProductID      string   `json:"product_id"`       // FK to products.id
	Name           string   `json:"name"`             // "Rounded Corners", etc.
	PricingModel   string   `json:"pricing_model"`    // 'flat', 'percentage', 'per_unit', 'per_sq_inch', 'custom'
	FlatFee        float64  `json:"flat_fee"`
	Percent        float64  `json:"percent"`
	PricePerBundle float64  `json:"price_per_bundle"`
	ItemsPerBundle int      `json:"items_per_bundle"`
	PricePerSqInch float64  `json:"price_per_sq_inch"`
	AreaSqInch     float64  `json:"area_sq_inch"`
	CustomAmount   float64  `json:"custom_amount"`
	PriceOverride  *float64 `json:"price_override"` // Replaces model cost when set
	SortOrder      int      `json:"sort_order"`
}

// QuantityTierRow is a quantity discount band
type QuantityTierRow struct {
	ID              string  `json:"id"`           // CUID2
	MinQuantity     int     `json:"min_quantity"` // Inclusive lower bound
	MaxQuantity     int     `json:"max_quantity"` // Inclusive upper bound, 0 = unbounded
	DiscountPercent float64 `json:"discount_percent"`
}

// BrokerTierRow is a reseller program tier
type BrokerTierRow struct {
	Name                     string  `json:"name"` // Bronze, Silver, Gold, Platinum
	BaseDiscountPercent      float64 `json:"base_discount_percent"`
	RushOrderDiscountPercent float64 `json:"rush_order_discount_percent"`
	MinimumAnnualVolume      float64 `json:"minimum_annual_volume"`
	FreeShippingThreshold    float64 `json:"free_shipping_threshold"`
	PaymentTermsDays         int     `json:"payment_terms_days"`
}

// BrokerProfileRow links a customer to a broker tier plus per-category overrides
type BrokerProfileRow struct {
	CustomerID string    `json:"customer_id"` // CUID2
	TierName   string    `json:"tier_name"`   // FK to broker_tiers.name
	CreatedAt  time.Time `json:"created_at"`
}

// BrokerCategoryDiscount is a per-category override on a broker profile
type BrokerCategoryDiscount struct {
	CustomerID      string  `json:"customer_id"`   // FK to broker_profiles.customer_id
	CategorySlug    string  `json:"category_slug"` // flyers, business-cards, etc.
	DiscountPercent float64 `json:"discount_percent"`
}

// Cart is an open shopping cart
type Cart struct {
	ID         string     `json:"id"`          // CUID2
	CustomerID *string    `json:"customer_id"` // Optional, anonymous carts allowed
	Status     string     `json:"status"`      // 'open', 'checked_out'
	CreatedAt  time.Time  `json:"created_at"`
	CheckedOut *time.Time `json:"checked_out_at"`
}

// CartItem is a priced line in a cart. The price breakdown captured at
// add-to-cart time is stored as JSON together with its signature so the
// quote cannot drift or be tampered with before checkout.
type CartItem struct {
	ID             string    `json:"id"`         // CUID2
	CartID         string    `json:"cart_id"`    // FK to carts.id
	ProductID      string    `json:"product_id"` // FK to products.id
	Quantity       int       `json:"quantity"`
	SelectionJSON  string    `json:"selection"`       // Option IDs chosen
	ComponentsJSON string    `json:"components"`      // Full price breakdown snapshot
	Signature      string    `json:"signature"`       // SHA-256 over quantity + components
	FinalTotal     float64   `json:"final_total"`     // Denormalized for cart totals
	CreatedAt      time.Time `json:"created_at"`
}

// Order is a checked-out cart
type Order struct {
	ID         string    `json:"id"`          // CUID2
	CartID     string    `json:"cart_id"`     // FK to carts.id
	CustomerID *string   `json:"customer_id"`
	Total      float64   `json:"total"`
	CreatedAt  time.Time `json:"created_at"`
}

// OrderItem is a frozen cart line copied onto an order at checkout
type OrderItem struct {
	ID             string  `json:"id"`       // CUID2
	OrderID        string  `json:"order_id"` // FK to orders.id
	ProductID      string  `json:"product_id"`
	Quantity       int     `json:"quantity"`
	ComponentsJSON string  `json:"components"`
	Signature      string  `json:"signature"`
	FinalTotal     float64 `json:"final_total"`
}
