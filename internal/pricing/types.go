package pricing

// AddOnModel identifies how an add-on's contribution to the unit cost is
// computed. Every add-on carries exactly one model; the fields of AddOn that
// are read depend on it.
type AddOnModel string

const (
	AddOnFlat          AddOnModel = "flat"        // fixed fee per unit
	AddOnPercentage    AddOnModel = "percentage"  // percent of base price
	AddOnPerUnit       AddOnModel = "per_unit"    // bundle price amortized per unit
	AddOnPerSquareInch AddOnModel = "per_sq_inch" // fee scaled by printed area
	AddOnCustom        AddOnModel = "custom"      // literal configured amount
)

// PaperStock describes the paper selection's price effect. When
// PriceOverride is set it replaces the computed per-area cost entirely.
type PaperStock struct {
	PricePerSqInch float64  // cost per square inch of printed area
	AreaSqInch     float64  // printed area in square inches
	PriceOverride  *float64 // replaces PricePerSqInch * AreaSqInch when non-nil
}

// PrintSize describes the size selection's price effect as a percentage of
// the base price. Sizes have no override in current behavior.
type PrintSize struct {
	PriceModifierPercent float64
}

// Coating describes the coating/finish selection's price effect as a
// percentage of the base price.
type Coating struct {
	PriceModifierPercent float64
}

// Turnaround describes a production-speed selection. PriceOverride wins over
// MarkupPercent when non-nil; the two are mutually exclusive on input.
type Turnaround struct {
	MarkupPercent float64  // percent markup on base price
	PriceOverride *float64 // flat per-unit amount replacing the markup
}

// AddOn is one optional extra service. The fields consulted depend on Model;
// PriceOverride replaces the computed contribution regardless of model.
type AddOn struct {
	Model          AddOnModel
	FlatFee        float64  // flat
	Percent        float64  // percentage, of base price
	PricePerBundle float64  // per_unit
	ItemsPerBundle int      // per_unit, must be > 0
	PricePerSqInch float64  // per_sq_inch
	AreaSqInch     float64  // per_sq_inch, must be > 0
	CustomAmount   float64  // custom
	PriceOverride  *float64 // replaces the computed contribution when non-nil
}

// Request is the full input of one pricing calculation. Callers clamp
// Quantity to the product's minimum order quantity before calling; the
// engine only guards against quantity < 1 and non-finite numbers.
type Request struct {
	BasePrice float64
	Quantity  int

	Paper          *PaperStock
	Size           *PrintSize
	Coating        *Coating
	Turnaround     *Turnaround
	RushTurnaround *Turnaround // used instead of Turnaround when Rush is set
	Rush           bool

	AddOns []AddOn

	IsBroker              bool
	BrokerDiscountPercent float64 // resolved by the caller, 0-100

	// Tiers overrides the engine's quantity discount table for this request
	// (per-tenant customization). Nil means the engine default applies.
	Tiers []QuantityTier
}

// Components is the priced breakdown of one calculation. The first six
// fields are per-unit amounts; the rest are order-level. All amounts are
// rounded to cents and non-negative.
type Components struct {
	BasePrice          float64 `json:"basePrice"`
	PaperCost          float64 `json:"paperCost"`
	SizeModifier       float64 `json:"sizeModifier"`
	CoatingModifier    float64 `json:"coatingModifier"`
	TurnaroundModifier float64 `json:"turnaroundModifier"`
	AddOnCosts         float64 `json:"addOnCosts"`

	Subtotal         float64 `json:"subtotal"`
	QuantityDiscount float64 `json:"quantityDiscount"`
	BrokerDiscount   float64 `json:"brokerDiscount"`
	FinalTotal       float64 `json:"finalTotal"`
	PerUnitPrice     float64 `json:"perUnitPrice"`
	Savings          float64 `json:"savings"`

	// Applied percentages, kept for display so callers never re-derive them.
	QuantityDiscountPercent float64 `json:"quantityDiscountPercent"`
	BrokerDiscountPercent   float64 `json:"brokerDiscountPercent"`
}

// MatrixEntry is one row of a volume-pricing preview.
type MatrixEntry struct {
	Quantity   int
	Components Components
}

// EngineConfig contains configuration settings for the pricing engine.
type EngineConfig struct {
	// Tiers is the default quantity discount table, used when a request
	// does not carry its own.
	Tiers []QuantityTier

	// Validation limits
	MaxAddOns          int // maximum add-ons allowed on one request
	MaxMatrixQuantities int // maximum quantities in one matrix preview
}

// DefaultEngineConfig returns the default configuration for the engine.
func DefaultEngineConfig() *EngineConfig {
	return &EngineConfig{
		Tiers:               DefaultQuantityTiers(),
		MaxAddOns:           25,
		MaxMatrixQuantities: 20,
	}
}
