package pricing

import (
	"math"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Engine computes priced breakdowns for product configurations. It is pure:
// no I/O, no shared mutable state, safe to call from any number of
// goroutines concurrently.
type Engine struct {
	config  *EngineConfig
	metrics *MetricsRecorder
	logger  zerolog.Logger
}

// NewEngine creates a pricing engine. The config's tier table is validated
// once here so per-request computation never re-checks the default table.
func NewEngine(config *EngineConfig, metrics *MetricsRecorder) (*Engine, error) {
	if config == nil {
		config = DefaultEngineConfig()
	}
	if err := ValidateQuantityTiers(config.Tiers); err != nil {
		return nil, err
	}
	if metrics == nil {
		metrics = NewMetricsRecorder()
	}
	return &Engine{
		config:  config,
		metrics: metrics,
		logger:  log.With().Str("component", "pricing_engine").Logger(),
	}, nil
}

// ComputePrice computes the full price breakdown for one configuration.
//
// Per unit: base price, paper cost, size/coating/turnaround modifiers and
// add-on costs are summed, then scaled by quantity. The quantity discount
// applies to the subtotal; the broker discount applies to the
// post-quantity-discount amount, never the raw subtotal.
func (e *Engine) ComputePrice(req *Request) (*Components, error) {
	start := time.Now()
	defer func() {
		e.metrics.RecordCalculationDuration("quote", time.Since(start))
	}()

	if err := e.validate(req); err != nil {
		e.metrics.RecordCalculationError("quote")
		return nil, err
	}

	tiers := req.Tiers
	if tiers == nil {
		tiers = e.config.Tiers
	}

	basePrice := roundCents(req.BasePrice)
	paperCost := paperUnitCost(req.Paper)
	sizeModifier := percentOf(basePrice, sizePercent(req.Size))
	coatingModifier := percentOf(basePrice, coatingPercent(req.Coating))
	turnaroundModifier := turnaroundUnitCost(activeTurnaround(req), basePrice)

	addOnCosts := 0.0
	for i := range req.AddOns {
		addOnCosts += addOnUnitCost(&req.AddOns[i], basePrice)
	}
	addOnCosts = roundCents(addOnCosts)

	unitCost := basePrice + paperCost + sizeModifier + coatingModifier + turnaroundModifier + addOnCosts
	subtotal := roundCents(unitCost * float64(req.Quantity))

	quantityPct := LookupQuantityDiscount(tiers, req.Quantity)
	quantityDiscount := roundCents(subtotal * quantityPct / 100)
	afterQuantity := roundCents(subtotal - quantityDiscount)

	brokerPct := 0.0
	brokerDiscount := 0.0
	if req.IsBroker {
		brokerPct = req.BrokerDiscountPercent
		brokerDiscount = roundCents(afterQuantity * brokerPct / 100)
	}

	finalTotal := roundCents(afterQuantity - brokerDiscount)
	if finalTotal < 0 {
		// Defensive: combined discounts exceeded the subtotal. Clamp the
		// total at zero and scale both discounts so they still sum to it.
		quantityDiscount, brokerDiscount = scaleDiscounts(subtotal, quantityDiscount, brokerDiscount)
		finalTotal = 0
	}

	components := &Components{
		BasePrice:          basePrice,
		PaperCost:          paperCost,
		SizeModifier:       sizeModifier,
		CoatingModifier:    coatingModifier,
		TurnaroundModifier: turnaroundModifier,
		AddOnCosts:         addOnCosts,

		Subtotal:         subtotal,
		QuantityDiscount: quantityDiscount,
		BrokerDiscount:   brokerDiscount,
		FinalTotal:       finalTotal,
		PerUnitPrice:     roundCents(finalTotal / float64(req.Quantity)),
		Savings:          roundCents(subtotal - finalTotal),

		QuantityDiscountPercent: quantityPct,
		BrokerDiscountPercent:   brokerPct,
	}

	e.metrics.RecordQuantity(req.Quantity)
	if subtotal > 0 {
		e.metrics.RecordSavingsRatio(components.Savings / subtotal)
	}

	return components, nil
}

// ComputePriceMatrix computes the breakdown for each requested quantity,
// used to render "if you order N units, price is X" tables. Entries are
// identical to independent ComputePrice calls for the same quantities.
func (e *Engine) ComputePriceMatrix(req *Request, quantities []int) ([]MatrixEntry, error) {
	start := time.Now()
	defer func() {
		e.metrics.RecordCalculationDuration("matrix", time.Since(start))
	}()

	if len(quantities) == 0 {
		return nil, ErrInvalidInput{Field: "quantities", Reason: "must request at least one quantity"}
	}
	if len(quantities) > e.config.MaxMatrixQuantities {
		return nil, invalidf("quantities", "exceeds maximum of %d", e.config.MaxMatrixQuantities)
	}

	entries := make([]MatrixEntry, 0, len(quantities))
	for i, q := range quantities {
		r := *req
		r.Quantity = q
		components, err := e.ComputePrice(&r)
		if err != nil {
			if inv, ok := err.(ErrInvalidInput); ok && inv.Field == "quantity" {
				return nil, invalidf("quantities", "entry %d: %s", i, inv.Reason)
			}
			return nil, err
		}
		entries = append(entries, MatrixEntry{Quantity: q, Components: *components})
	}

	e.metrics.RecordMatrixSize(len(entries))
	return entries, nil
}

// validate rejects malformed requests with a field-attributed error. It
// checks engine invariants only; business minimums (minimum order quantity)
// are the caller's responsibility.
func (e *Engine) validate(req *Request) error {
	if req == nil {
		return ErrInvalidInput{Field: "request", Reason: "cannot be nil"}
	}
	if !isFinite(req.BasePrice) {
		return ErrInvalidInput{Field: "basePrice", Reason: "must be a finite number"}
	}
	if req.BasePrice < 0 {
		return ErrInvalidInput{Field: "basePrice", Reason: "must be >= 0"}
	}
	if req.Quantity < 1 {
		return ErrInvalidInput{Field: "quantity", Reason: "must be >= 1"}
	}
	if len(req.AddOns) > e.config.MaxAddOns {
		return invalidf("addOns", "exceeds maximum of %d", e.config.MaxAddOns)
	}

	if p := req.Paper; p != nil {
		if p.PriceOverride != nil {
			if err := checkAmount("paperStock.priceOverride", *p.PriceOverride); err != nil {
				return err
			}
		} else {
			if err := checkAmount("paperStock.pricePerSqInch", p.PricePerSqInch); err != nil {
				return err
			}
			if !isFinite(p.AreaSqInch) || p.AreaSqInch <= 0 {
				return ErrInvalidInput{Field: "paperStock.area", Reason: "must be > 0"}
			}
		}
	}
	if s := req.Size; s != nil {
		if err := checkAmount("printSize.priceModifierPercent", s.PriceModifierPercent); err != nil {
			return err
		}
	}
	if c := req.Coating; c != nil {
		if err := checkAmount("coating.priceModifierPercent", c.PriceModifierPercent); err != nil {
			return err
		}
	}
	if t := req.Turnaround; t != nil {
		if err := checkTurnaround("turnaround", t); err != nil {
			return err
		}
	}
	if t := req.RushTurnaround; t != nil {
		if err := checkTurnaround("rushTurnaround", t); err != nil {
			return err
		}
	}

	for i := range req.AddOns {
		if err := checkAddOn(i, &req.AddOns[i]); err != nil {
			return err
		}
	}

	if req.IsBroker {
		if !isFinite(req.BrokerDiscountPercent) || req.BrokerDiscountPercent < 0 || req.BrokerDiscountPercent > 100 {
			return ErrInvalidInput{Field: "brokerDiscountPercent", Reason: "must be between 0 and 100"}
		}
	}

	if req.Tiers != nil {
		if err := ValidateQuantityTiers(req.Tiers); err != nil {
			return err
		}
	}
	return nil
}

func checkTurnaround(field string, t *Turnaround) error {
	if t.PriceOverride != nil {
		return checkAmount(field+".priceOverride", *t.PriceOverride)
	}
	return checkAmount(field+".markupPercent", t.MarkupPercent)
}

func checkAddOn(i int, a *AddOn) error {
	field := func(name string) string {
		return "addOns[" + strconv.Itoa(i) + "]." + name
	}
	if a.PriceOverride != nil {
		return checkAmount(field("priceOverride"), *a.PriceOverride)
	}
	switch a.Model {
	case AddOnFlat:
		return checkAmount(field("flatFee"), a.FlatFee)
	case AddOnPercentage:
		return checkAmount(field("percent"), a.Percent)
	case AddOnPerUnit:
		if a.ItemsPerBundle <= 0 {
			return ErrInvalidInput{Field: field("itemsPerBundle"), Reason: "must be > 0"}
		}
		return checkAmount(field("pricePerBundle"), a.PricePerBundle)
	case AddOnPerSquareInch:
		if !isFinite(a.AreaSqInch) || a.AreaSqInch <= 0 {
			return ErrInvalidInput{Field: field("area"), Reason: "must be > 0"}
		}
		return checkAmount(field("pricePerSqInch"), a.PricePerSqInch)
	case AddOnCustom:
		return checkAmount(field("customAmount"), a.CustomAmount)
	default:
		return ErrInvalidInput{Field: field("pricingModel"), Reason: "unknown pricing model"}
	}
}

func checkAmount(field string, v float64) error {
	if !isFinite(v) {
		return ErrInvalidInput{Field: field, Reason: "must be a finite number"}
	}
	if v < 0 {
		return ErrInvalidInput{Field: field, Reason: "must be >= 0"}
	}
	return nil
}

// activeTurnaround returns the turnaround whose markup/override applies:
// the rush variant when the rush flag is set and one exists.
func activeTurnaround(req *Request) *Turnaround {
	if req.Rush && req.RushTurnaround != nil {
		return req.RushTurnaround
	}
	return req.Turnaround
}

func paperUnitCost(p *PaperStock) float64 {
	if p == nil {
		return 0
	}
	if p.PriceOverride != nil {
		return roundCents(*p.PriceOverride)
	}
	return roundCents(p.PricePerSqInch * p.AreaSqInch)
}

func turnaroundUnitCost(t *Turnaround, basePrice float64) float64 {
	if t == nil {
		return 0
	}
	if t.PriceOverride != nil {
		return roundCents(*t.PriceOverride)
	}
	return percentOf(basePrice, t.MarkupPercent)
}

func addOnUnitCost(a *AddOn, basePrice float64) float64 {
	if a.PriceOverride != nil {
		return roundCents(*a.PriceOverride)
	}
	switch a.Model {
	case AddOnFlat:
		return roundCents(a.FlatFee)
	case AddOnPercentage:
		return percentOf(basePrice, a.Percent)
	case AddOnPerUnit:
		return roundCents(a.PricePerBundle / float64(a.ItemsPerBundle))
	case AddOnPerSquareInch:
		return roundCents(a.PricePerSqInch * a.AreaSqInch)
	case AddOnCustom:
		return roundCents(a.CustomAmount)
	}
	return 0
}

// scaleDiscounts scales the two discounts proportionally so they sum to
// exactly the subtotal. Only reached when discounts would drive the total
// negative; not exercised by the default tables.
func scaleDiscounts(subtotal, quantityDiscount, brokerDiscount float64) (float64, float64) {
	total := quantityDiscount + brokerDiscount
	if total <= 0 {
		return 0, 0
	}
	scaledQuantity := roundCents(quantityDiscount * subtotal / total)
	return scaledQuantity, roundCents(subtotal - scaledQuantity)
}

func sizePercent(s *PrintSize) float64 {
	if s == nil {
		return 0
	}
	return s.PriceModifierPercent
}

func coatingPercent(c *Coating) float64 {
	if c == nil {
		return 0
	}
	return c.PriceModifierPercent
}

func percentOf(base, percent float64) float64 {
	return roundCents(base * percent / 100)
}

// roundCents rounds half away from zero to two decimal places, the fixed
// currency precision of every output amount.
func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
