package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type DiscountRequest struct {
	Name        string          `json:"name"  validate:"required,min=3"`
	Description *string         `json:"description"`
	Type        string          `json:"type"  validate:"required,oneof=percentage fixed_amount buy_x_get_y bulk_discount"`
	Value       decimal.Decimal `json:"value" validate:"required"`

	MinQuantity   *int             `json:"min_quantity"`
	MaxQuantity   *int             `json:"max_quantity"`
	MinOrderValue *decimal.Decimal `json:"min_order_value"`
	BuyQuantity   *int             `json:"buy_quantity"`
	GetQuantity   *int             `json:"get_quantity"`

	ApplicableProducts   []string `json:"applicable_products"`
	ApplicableCategories []string `json:"applicable_categories"`

	StartsAt   *string `json:"starts_at"` // RFC 3339
	EndsAt     *string `json:"ends_at"`
	UsageLimit *int    `json:"usage_limit"`
	Active     *bool   `json:"active"`
}

// ApplicabilityRequest describes one order line against one discount.
type ApplicabilityRequest struct {
	ProductIDs  []string        `json:"product_ids"`
	CategoryIDs []string        `json:"category_ids"`
	OrderValue  decimal.Decimal `json:"order_value" validate:"required"`
	Quantity    int             `json:"quantity"    validate:"required,gt=0"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type DiscountResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Type        string          `json:"type"`
	Value       decimal.Decimal `json:"value"`

	MinQuantity   *int             `json:"min_quantity,omitempty"`
	MaxQuantity   *int             `json:"max_quantity,omitempty"`
	MinOrderValue *decimal.Decimal `json:"min_order_value,omitempty"`
	BuyQuantity   *int             `json:"buy_quantity,omitempty"`
	GetQuantity   *int             `json:"get_quantity,omitempty"`

	ApplicableProducts   []string `json:"applicable_products,omitempty"`
	ApplicableCategories []string `json:"applicable_categories,omitempty"`

	StartsAt   *string `json:"starts_at,omitempty"`
	EndsAt     *string `json:"ends_at,omitempty"`
	UsageLimit *int    `json:"usage_limit,omitempty"`
	UsageCount int     `json:"usage_count"`
	Active     bool    `json:"active"`
	CreatedAt  string  `json:"created_at"`
}

type ApplicabilityResponse struct {
	Applicable bool            `json:"applicable"`
	Reasons    []string        `json:"reasons,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
}
