package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type UpdatePriceRequest struct {
	ProductID  string           `json:"product_id"  validate:"required,uuid"`
	NewPrice   decimal.Decimal  `json:"new_price"   validate:"required"`
	NewCost    *decimal.Decimal `json:"new_cost"`
	Reason     string           `json:"reason"      validate:"required"`
	ChangeType string           `json:"change_type" validate:"omitempty,oneof=manual_update cost_change promotion automated_rule"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PriceUpdateResponse struct {
	ProductID string          `json:"product_id"`
	OldPrice  decimal.Decimal `json:"old_price"`
	NewPrice  decimal.Decimal `json:"new_price"`
	MarginPct decimal.Decimal `json:"margin_pct"`
	MarkupPct decimal.Decimal `json:"markup_pct"`
	Warnings  []string        `json:"warnings,omitempty"`
}

// ProductPriceResponse is the public price lookup payload. It deliberately
// omits cost and margin — those never leave the back office.
type ProductPriceResponse struct {
	ProductID    string           `json:"product_id"`
	SKU          string           `json:"sku"`
	Name         string           `json:"name"`
	SellingPrice *decimal.Decimal `json:"selling_price"`
	Category     *string          `json:"category,omitempty"`
}

type PricingAnalyticsResponse struct {
	TotalProducts         int             `json:"total_products"`
	PricedProducts        int             `json:"priced_products"`
	AvgMarginPct          decimal.Decimal `json:"avg_margin_pct"`
	LowMarginCount        int             `json:"low_margin_count"`
	HighMarginCount       int             `json:"high_margin_count"`
	RecentChanges30d      int             `json:"recent_changes_30d"`
	TotalRevenuePotential decimal.Decimal `json:"total_revenue_potential"`
}
