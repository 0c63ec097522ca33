package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Change types recorded on price history rows.
const (
	ChangeManual    = "manual_update"
	ChangeBulk      = "bulk_update"
	ChangeCost      = "cost_change"
	ChangePromotion = "promotion"
	ChangeAutomated = "automated_rule"
)

// PriceHistory records every price change of a product.
// Rows are immutable — never updated or deleted.
type PriceHistory struct {
	ID           uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID    uuid.UUID        `gorm:"type:uuid;not null;index"`
	OldPrice     decimal.Decimal  `gorm:"type:decimal(10,2);not null"`
	NewPrice     decimal.Decimal  `gorm:"type:decimal(10,2);not null"`
	OldCost      *decimal.Decimal `gorm:"type:decimal(10,2)"`
	NewCost      *decimal.Decimal `gorm:"type:decimal(10,2)"`
	ChangeReason string           `gorm:"not null"`
	ChangeType   string           `gorm:"not null;default:'manual_update'"` // manual_update | bulk_update | cost_change | promotion | automated_rule
	ChangedBy    string           `gorm:"not null"`
	CreatedAt    time.Time

	Product Product `gorm:"foreignKey:ProductID"`
}

// ChangePct is the relative price change recorded by this row.
func (h *PriceHistory) ChangePct() decimal.Decimal {
	if !h.OldPrice.IsPositive() {
		return decimal.Zero
	}
	return h.NewPrice.Sub(h.OldPrice).Div(h.OldPrice).Mul(decimal.NewFromInt(100))
}
