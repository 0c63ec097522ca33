package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// BulkSelectionRequest picks the candidate set for a bulk update.
// category_id is only read for the "category" policy; product_ids only for
// "custom". An empty category_id yields an empty candidate set, not an error.
type BulkSelectionRequest struct {
	Policy     string   `json:"policy" validate:"required,oneof=all category low_margin custom"`
	CategoryID string   `json:"category_id"`
	ProductIDs []string `json:"product_ids"`
}

// BulkUpdateSpec is the adjustment applied uniformly to every selected
// product. Decrease kinds take the value as a positive magnitude.
// PriceField picks which price the adjustment mutates; it defaults to the
// selling price when omitted.
type BulkUpdateSpec struct {
	UpdateType  string          `json:"update_type" validate:"required,oneof=percentage_increase percentage_decrease fixed_increase fixed_decrease target_margin"`
	PriceField  string          `json:"price_field" validate:"omitempty,oneof=selling cost"`
	Value       decimal.Decimal `json:"value"`
	Reason      string          `json:"reason"`
	OverheadPct decimal.Decimal `json:"overhead_pct"`
}

type BulkPreviewRequest struct {
	Selection BulkSelectionRequest `json:"selection" validate:"required"`
	Update    BulkUpdateSpec       `json:"update"    validate:"required"`
	// DeselectedIDs are candidates the operator unticked; they stay visible
	// in the preview but are excluded from the totals and from commit.
	DeselectedIDs []string `json:"deselected_ids"`
}

type BulkCommitRequest struct {
	// ProductIDs is the approved selection, committed in this exact order.
	ProductIDs []string       `json:"product_ids" validate:"required"`
	Update     BulkUpdateSpec `json:"update"      validate:"required"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type BulkPreviewItem struct {
	ProductID        string           `json:"product_id"`
	SKU              string           `json:"sku"`
	Name             string           `json:"name"`
	CurrentPrice     decimal.Decimal  `json:"current_price"`
	CostPrice        *decimal.Decimal `json:"cost_price,omitempty"`
	NewPrice         decimal.Decimal  `json:"new_price"`
	CurrentMarginPct decimal.Decimal  `json:"current_margin_pct"`
	NewMarginPct     decimal.Decimal  `json:"new_margin_pct"`
	PriceChange      decimal.Decimal  `json:"price_change"`
	PriceChangePct   decimal.Decimal  `json:"price_change_pct"`
	Classification   string           `json:"classification"` // loss | low | good
	Selected         bool             `json:"selected"`
}

type BulkPreviewSummary struct {
	TotalCandidates   int             `json:"total_candidates"`
	SelectedCount     int             `json:"selected_count"`
	TotalCurrentValue decimal.Decimal `json:"total_current_value"`
	TotalNewValue     decimal.Decimal `json:"total_new_value"`
	TotalChange       decimal.Decimal `json:"total_change"`
	AvgMarginDeltaPct decimal.Decimal `json:"avg_margin_delta_pct"`
}

// BulkPreviewResponse distinguishes "no candidate set requested yet" from
// "the requested set came back empty": Loaded is false only while the
// category policy has no category chosen, so an empty Items slice with
// Loaded true means the selection genuinely matched nothing.
type BulkPreviewResponse struct {
	Loaded  bool               `json:"loaded"`
	Items   []BulkPreviewItem  `json:"items"`
	Summary BulkPreviewSummary `json:"summary"`
}

type BulkCommitFailure struct {
	ProductID string `json:"product_id"`
	Error     string `json:"error"`
}

type BulkCommitResponse struct {
	Succeeded int                 `json:"succeeded"`
	Failed    []BulkCommitFailure `json:"failed"`
}
