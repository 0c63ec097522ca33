package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// UpdateKind selects the derivation strategy for a price update.
// The values double as wire names in the API.
type UpdateKind string

const (
	PercentIncrease UpdateKind = "percentage_increase"
	PercentDecrease UpdateKind = "percentage_decrease"
	DiscountKind    UpdateKind = "discount"
	FixedIncrease   UpdateKind = "fixed_increase"
	FixedDecrease   UpdateKind = "fixed_decrease"
	TargetMargin    UpdateKind = "target_margin"
	CompetitorMatch UpdateKind = "competitor_match"
	CostPlus        UpdateKind = "cost_plus"
)

// MarketPosition drives the adjustment applied on top of a competitor price.
type MarketPosition string

const (
	PositionPremium     MarketPosition = "premium"
	PositionCompetitive MarketPosition = "competitive"
	PositionValue       MarketPosition = "value"
)

// Adjustment factors relative to the competitor price.
var positionAdjustments = map[MarketPosition]decimal.Decimal{
	PositionPremium:     decimal.NewFromFloat(0.10),
	PositionCompetitive: decimal.NewFromFloat(-0.02),
	PositionValue:       decimal.NewFromFloat(-0.08),
}

// PositionAdjustment returns the relative adjustment for a market position.
func PositionAdjustment(p MarketPosition) (decimal.Decimal, error) {
	adj, ok := positionAdjustments[p]
	if !ok {
		return decimal.Zero, fmt.Errorf("unknown market position %q", p)
	}
	return adj, nil
}

var (
	ErrUnknownKind           = errors.New("unknown price update kind")
	ErrCostRequired          = errors.New("cost price is required for this update kind")
	ErrCompetitorPriceNeeded = errors.New("competitor price is required for competitor matching")
)

// DeriveInput is one product's snapshot plus the requested update.
// CostPrice and CompetitorPrice are optional; kinds that need them fail
// explicitly when they are absent.
type DeriveInput struct {
	Kind            UpdateKind
	CurrentPrice    decimal.Decimal
	CostPrice       *decimal.Decimal
	Value           decimal.Decimal
	CompetitorPrice *decimal.Decimal
	Position        MarketPosition
	OverheadPct     decimal.Decimal
}

// Derivation is the outcome of applying one strategy to one product.
// Margin, Markup and Profit are recomputed from the clamped price so they
// always describe the price that would actually be stored.
type Derivation struct {
	NewPrice decimal.Decimal
	Margin   decimal.Decimal
	Markup   decimal.Decimal
	Profit   decimal.Decimal
	Warnings []string
}

// Derive applies the requested strategy and returns the clamped result.
// The raw result is rounded to cents and never drops below MinPrice.
func Derive(in DeriveInput) (Derivation, error) {
	raw, err := rawPrice(in)
	if err != nil {
		return Derivation{}, err
	}

	d := Derivation{NewPrice: clampPrice(raw)}
	if in.CostPrice != nil {
		cost := *in.CostPrice
		d.Margin = ProfitMargin(cost, d.NewPrice)
		d.Markup = Markup(cost, d.NewPrice)
		d.Profit = Profit(cost, d.NewPrice)
		d.Warnings = PriceWarnings(cost, d.NewPrice, in.OverheadPct)
	}
	return d, nil
}

func rawPrice(in DeriveInput) (decimal.Decimal, error) {
	switch in.Kind {
	case PercentIncrease:
		return in.CurrentPrice.Mul(one.Add(in.Value.Div(hundred))), nil
	case PercentDecrease, DiscountKind:
		return in.CurrentPrice.Mul(one.Sub(in.Value.Div(hundred))), nil
	case FixedIncrease:
		return in.CurrentPrice.Add(in.Value), nil
	case FixedDecrease:
		return in.CurrentPrice.Sub(in.Value), nil
	case TargetMargin:
		if in.CostPrice == nil {
			return decimal.Zero, ErrCostRequired
		}
		return OptimalPrice(*in.CostPrice, in.Value)
	case CompetitorMatch:
		if in.CompetitorPrice == nil {
			return decimal.Zero, ErrCompetitorPriceNeeded
		}
		adj, err := PositionAdjustment(in.Position)
		if err != nil {
			return decimal.Zero, err
		}
		return in.CompetitorPrice.Mul(one.Add(adj)), nil
	case CostPlus:
		if in.CostPrice == nil {
			return decimal.Zero, ErrCostRequired
		}
		return TotalCost(*in.CostPrice, in.OverheadPct).Mul(one.Add(in.Value.Div(hundred))), nil
	default:
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnknownKind, in.Kind)
	}
}

// Warning thresholds for margin health.
var (
	lowMarginWarn  = decimal.NewFromInt(15)
	highMarginWarn = decimal.NewFromInt(60)
)

// PriceWarnings reports advisory issues with selling at the given price.
// Selling below the cost-plus-overhead floor is flagged with the minimum
// viable price; otherwise thin and excessive margins each get a note.
func PriceWarnings(cost, price, overheadPct decimal.Decimal) []string {
	var warnings []string
	floor := TotalCost(cost, overheadPct)
	margin := ProfitMargin(cost, price)

	if price.LessThan(floor) {
		warnings = append(warnings, fmt.Sprintf(
			"Selling at this price will lose money; minimum viable price is %s", floor.Round(2)))
	} else if margin.LessThan(lowMarginWarn) {
		warnings = append(warnings, "Profit margin below 15% may not cover operating expenses")
	}
	if margin.GreaterThan(highMarginWarn) {
		warnings = append(warnings, "Profit margin above 60% may reduce competitiveness")
	}
	return warnings
}

// HealthyMargin reports whether a target margin is inside the recommended
// band (15–70%) and prices the product at or above its overhead floor.
func HealthyMargin(cost, price, targetMarginPct, overheadPct decimal.Decimal) bool {
	if targetMarginPct.LessThan(lowMarginWarn) {
		return false
	}
	if targetMarginPct.GreaterThan(decimal.NewFromInt(70)) {
		return false
	}
	return price.GreaterThanOrEqual(TotalCost(cost, overheadPct))
}
