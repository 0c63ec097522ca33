// Package pricing holds the pure price math: margin and markup formulas,
// derivation strategies for price updates, and the business validation rules
// shared by the single and bulk update flows. Nothing in this package touches
// the database, the clock, or the network.
package pricing

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)

	// MinPrice is the floor every derived price is clamped to.
	MinPrice = decimal.NewFromFloat(0.01)
)

// ErrMarginTooHigh is returned when a target margin of 100% or more is
// requested — the formula cost / (1 - margin/100) has no solution there.
var ErrMarginTooHigh = errors.New("target margin must be below 100%")

// ProfitMargin returns the margin percentage (sell - cost) / sell * 100.
// When sell is not positive the margin is reported as zero rather than
// undefined; callers that need to reject unpriced products do so in
// validation, before this function is ever reached.
func ProfitMargin(cost, sell decimal.Decimal) decimal.Decimal {
	if !sell.IsPositive() {
		return decimal.Zero
	}
	return sell.Sub(cost).Div(sell).Mul(hundred)
}

// Markup returns the markup percentage (sell - cost) / cost * 100.
// Zero-cost products report zero markup, mirroring ProfitMargin's convention.
func Markup(cost, sell decimal.Decimal) decimal.Decimal {
	if !cost.IsPositive() {
		return decimal.Zero
	}
	return sell.Sub(cost).Div(cost).Mul(hundred)
}

// Profit returns the absolute profit per unit.
func Profit(cost, sell decimal.Decimal) decimal.Decimal {
	return sell.Sub(cost)
}

// OptimalPrice inverts ProfitMargin: the selling price at which a product
// with the given cost yields exactly targetMarginPct.
func OptimalPrice(cost, targetMarginPct decimal.Decimal) (decimal.Decimal, error) {
	if targetMarginPct.GreaterThanOrEqual(hundred) {
		return decimal.Zero, ErrMarginTooHigh
	}
	return cost.Div(one.Sub(targetMarginPct.Div(hundred))), nil
}

// TotalCost is the unit cost inflated by overhead.
func TotalCost(cost, overheadPct decimal.Decimal) decimal.Decimal {
	return cost.Mul(one.Add(overheadPct.Div(hundred)))
}

// BreakEvenResult reports the price floor for a product and a recommended
// selling price carrying a 25% margin over total cost.
type BreakEvenResult struct {
	TotalCost        decimal.Decimal
	BreakEvenPrice   decimal.Decimal
	RecommendedPrice decimal.Decimal
}

var recommendedFactor = decimal.NewFromFloat(1.25)

// BreakEven computes the break-even price (cost plus overhead) and the
// recommended price 25% above it.
func BreakEven(cost, overheadPct decimal.Decimal) BreakEvenResult {
	total := TotalCost(cost, overheadPct)
	return BreakEvenResult{
		TotalCost:        total.Round(2),
		BreakEvenPrice:   total.Round(2),
		RecommendedPrice: total.Mul(recommendedFactor).Round(2),
	}
}

// clampPrice rounds to cents and enforces the global price floor.
func clampPrice(p decimal.Decimal) decimal.Decimal {
	p = p.Round(2)
	if p.LessThan(MinPrice) {
		return MinPrice
	}
	return p
}
