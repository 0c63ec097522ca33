package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Discount types.
const (
	DiscountPercentage  = "percentage"
	DiscountFixedAmount = "fixed_amount"
	DiscountBuyXGetY    = "buy_x_get_y"
	DiscountBulk        = "bulk_discount"
)

// Discount is a promotional rule. Empty applicability lists mean the
// discount applies to the whole catalog.
type Discount struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"not null"`
	Description *string
	Type        string          `gorm:"not null"` // percentage | fixed_amount | buy_x_get_y | bulk_discount
	Value       decimal.Decimal `gorm:"type:decimal(10,2);not null"`

	MinQuantity   *int
	MaxQuantity   *int
	MinOrderValue *decimal.Decimal `gorm:"type:decimal(10,2)"`
	BuyQuantity   *int
	GetQuantity   *int

	ApplicableProducts   []string `gorm:"serializer:json;type:jsonb"`
	ApplicableCategories []string `gorm:"serializer:json;type:jsonb"`

	StartsAt   *time.Time
	EndsAt     *time.Time
	UsageLimit *int
	UsageCount int  `gorm:"not null;default:0"`
	Active     bool `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
