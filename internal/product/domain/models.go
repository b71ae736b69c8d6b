package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Tracking type governs which van stock reconciliation rules apply to a
// product's order and inventory lines.
const (
	TrackingNone   = "none"
	TrackingBatch  = "batch"
	TrackingSerial = "serial"
)

type Product struct {
	ID           snowflake.ID  `gorm:"primaryKey" json:"id"`
	BrandID      *snowflake.ID `gorm:"column:brand_id" json:"brand_id,omitempty"`
	Code         string        `gorm:"not null;uniqueIndex" json:"code"`
	Name         string        `gorm:"not null" json:"name"`
	Unit         string        `gorm:"not null;default:pcs" json:"unit"`
	Price        int64         `gorm:"not null" json:"price"`
	CurrencyCode string        `gorm:"column:currency_code;not null;default:IDR" json:"currency_code"`
	TaxRateID    *snowflake.ID `gorm:"column:tax_rate_id" json:"tax_rate_id,omitempty"`
	TrackingType string        `gorm:"column:tracking_type;not null;default:none" json:"tracking_type"`
	IsActive     bool          `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt    time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// ValidTrackingType reports whether value is a known tracking discipline.
func ValidTrackingType(value string) bool {
	switch value {
	case TrackingNone, TrackingBatch, TrackingSerial:
		return true
	default:
		return false
	}
}
