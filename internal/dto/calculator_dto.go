package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type SingleCalcRequest struct {
	CostPrice       decimal.Decimal `json:"cost_price"        validate:"required"`
	TargetMarginPct decimal.Decimal `json:"target_margin_pct" validate:"required"`
	OverheadPct     decimal.Decimal `json:"overhead_pct"`
}

type CompetitorCalcRequest struct {
	CostPrice       decimal.Decimal `json:"cost_price"       validate:"required"`
	CompetitorPrice decimal.Decimal `json:"competitor_price" validate:"required,gt=0"`
	MarketPosition  string          `json:"market_position"  validate:"required,oneof=premium competitive value"`
}

type StrategyCalcRequest struct {
	CostPrice   decimal.Decimal `json:"cost_price"   validate:"required"`
	Method      string          `json:"method"       validate:"required,oneof=margin markup cost_plus"`
	Value       decimal.Decimal `json:"value"        validate:"required"`
	OverheadPct decimal.Decimal `json:"overhead_pct"`
}

type BreakEvenRequest struct {
	CostPrice   decimal.Decimal `json:"cost_price" validate:"required,gt=0"`
	OverheadPct decimal.Decimal `json:"overhead_pct"`
}

type SaveCalculationRequest struct {
	Name            string                 `json:"name"             validate:"required,min=3"`
	Description     *string                `json:"description"`
	CalculationType string                 `json:"calculation_type" validate:"required,oneof=single_product competitor_analysis bulk_pricing break_even"`
	Inputs          map[string]interface{} `json:"inputs"           validate:"required"`
	Results         map[string]interface{} `json:"results"          validate:"required"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SingleCalcResponse struct {
	SellingPrice    decimal.Decimal `json:"selling_price"`
	MarginPct       decimal.Decimal `json:"margin_pct"`
	MarkupPct       decimal.Decimal `json:"markup_pct"`
	Profit          decimal.Decimal `json:"profit"`
	TotalCost       decimal.Decimal `json:"total_cost"`
	HealthyMargin   bool            `json:"healthy_margin"`
	Warnings        []string        `json:"warnings,omitempty"`
	Recommendations []string        `json:"recommendations,omitempty"`
}

type CompetitorCalcResponse struct {
	RecommendedPrice decimal.Decimal `json:"recommended_price"`
	AdjustmentPct    decimal.Decimal `json:"adjustment_pct"`
	MarginPct        decimal.Decimal `json:"margin_pct"`
	Profit           decimal.Decimal `json:"profit"`
	Warnings         []string        `json:"warnings,omitempty"`
}

type StrategyCalcResponse struct {
	SellingPrice decimal.Decimal `json:"selling_price"`
	MarginPct    decimal.Decimal `json:"margin_pct"`
	MarkupPct    decimal.Decimal `json:"markup_pct"`
	Profit       decimal.Decimal `json:"profit"`
}

type BreakEvenResponse struct {
	TotalCost            decimal.Decimal `json:"total_cost"`
	BreakEvenPrice       decimal.Decimal `json:"break_even_price"`
	RecommendedPrice     decimal.Decimal `json:"recommended_price"`
	RecommendedMarginPct decimal.Decimal `json:"recommended_margin_pct"`
}

type SavedCalculationResponse struct {
	ID              string                 `json:"id"`
	Name            string                 `json:"name"`
	Description     *string                `json:"description,omitempty"`
	CalculationType string                 `json:"calculation_type"`
	Inputs          map[string]interface{} `json:"inputs"`
	Results         map[string]interface{} `json:"results"`
	CreatedBy       string                 `json:"created_by"`
	CreatedAt       string                 `json:"created_at"`
}
