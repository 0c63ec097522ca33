package dto

import "github.com/shopspring/decimal"

type PriceHistoryItem struct {
	ID           string           `json:"id"`
	ProductID    string           `json:"product_id"`
	ProductName  string           `json:"product_name,omitempty"`
	OldPrice     decimal.Decimal  `json:"old_price"`
	NewPrice     decimal.Decimal  `json:"new_price"`
	OldCost      *decimal.Decimal `json:"old_cost,omitempty"`
	NewCost      *decimal.Decimal `json:"new_cost,omitempty"`
	ChangePct    decimal.Decimal  `json:"change_pct"`
	ChangeReason string           `json:"change_reason"`
	ChangeType   string           `json:"change_type"`
	ChangedBy    string           `json:"changed_by"`
	CreatedAt    string           `json:"created_at"`
}

type PriceHistoryListResponse struct {
	Data  []PriceHistoryItem `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

type PriceHistoryStatsResponse struct {
	WindowDays      int             `json:"window_days"`
	TotalChanges    int             `json:"total_changes"`
	Increases       int             `json:"increases"`
	Decreases       int             `json:"decreases"`
	AvgIncreasePct  decimal.Decimal `json:"avg_increase_pct"`
	AvgDecreasePct  decimal.Decimal `json:"avg_decrease_pct"`
	ProductsChanged int             `json:"products_changed"`
}
