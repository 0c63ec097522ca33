package pricing

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Result separates hard rejections from advisory notes. A request with
// warnings but no errors still proceeds; the warnings travel back to the
// caller on the response.
type Result struct {
	OK       bool
	Errors   []string
	Warnings []string
}

func (r *Result) addError(msg string)   { r.Errors = append(r.Errors, msg) }
func (r *Result) addWarning(msg string) { r.Warnings = append(r.Warnings, msg) }

func (r *Result) finish() Result {
	r.OK = len(r.Errors) == 0
	return *r
}

const minReasonLen = 5

// PriceUpdate is the rule-level view of a single price change request.
type PriceUpdate struct {
	NewPrice  decimal.Decimal
	CostPrice *decimal.Decimal
	Reason    string
}

// ValidatePriceUpdate applies the business rules for a single price change.
// Selling at or below cost is deliberately a warning, not an error: clearance
// and loss-leader pricing are legitimate, they just should not happen silently.
func ValidatePriceUpdate(u PriceUpdate) Result {
	var r Result

	if !u.NewPrice.IsPositive() {
		r.addError("Price must be greater than 0")
	}
	if u.CostPrice != nil && u.CostPrice.IsNegative() {
		r.addError("Cost price cannot be negative")
	}
	if u.CostPrice != nil && !u.CostPrice.IsNegative() && u.NewPrice.IsPositive() &&
		u.NewPrice.LessThanOrEqual(*u.CostPrice) {
		r.addWarning("Selling price should be higher than cost price")
	}
	if len(strings.TrimSpace(u.Reason)) < minReasonLen {
		r.addError("Change reason must be at least 5 characters")
	}

	return r.finish()
}

// ValidateBulkUpdate applies the rules shared by every bulk commit: a
// non-empty selection, a non-zero adjustment, and a usable reason.
func ValidateBulkUpdate(productIDs []uuid.UUID, value decimal.Decimal, reason string) Result {
	var r Result

	if len(productIDs) == 0 {
		r.addError("At least one product must be selected")
	}
	if value.IsZero() {
		r.addError("Update value must not be zero")
	}
	if len(strings.TrimSpace(reason)) < minReasonLen {
		r.addError("Change reason must be at least 5 characters")
	}

	return r.finish()
}
