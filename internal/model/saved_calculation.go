package model

import (
	"time"

	"github.com/google/uuid"
)

// Calculation types a snapshot can be saved under.
const (
	CalcSingleProduct      = "single_product"
	CalcCompetitorAnalysis = "competitor_analysis"
	CalcBulkPricing        = "bulk_pricing"
	CalcBreakEven          = "break_even"
)

// SavedCalculation is an immutable snapshot of a calculator run: the inputs
// the user entered and the results they saw. Snapshots can be listed and
// deleted by their owner but never edited.
type SavedCalculation struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name            string    `gorm:"not null"`
	Description     *string
	CalculationType string                 `gorm:"not null"` // single_product | competitor_analysis | bulk_pricing | break_even
	Inputs          map[string]interface{} `gorm:"serializer:json;type:jsonb"`
	Results         map[string]interface{} `gorm:"serializer:json;type:jsonb"`
	CreatedBy       string                 `gorm:"not null;index"`
	CreatedAt       time.Time
}
