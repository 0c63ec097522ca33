package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is the catalog entry the pricing engine operates on. Cost and
// selling price are nullable: a product is only "priced" once both are set,
// and only priced products participate in bulk updates and analytics.
type Product struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SKU          string    `gorm:"uniqueIndex;not null"`
	Name         string    `gorm:"index;not null"`
	Description  *string
	CategoryID   *uuid.UUID       `gorm:"type:uuid;index"`
	CostPrice    *decimal.Decimal `gorm:"type:decimal(10,2)"`
	SellingPrice *decimal.Decimal `gorm:"type:decimal(10,2)"`
	// MarginPct is derived from (SellingPrice - CostPrice) / SellingPrice * 100
	MarginPct *decimal.Decimal `gorm:"type:decimal(5,2)"`
	Stock     int              `gorm:"not null;default:0"`
	Active    bool             `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Category *Category `gorm:"foreignKey:CategoryID"`
}

// Priced reports whether both prices are set.
func (p *Product) Priced() bool {
	return p.CostPrice != nil && p.SellingPrice != nil
}
