package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/lib/pq"
)

type Cooler struct {
	ID           snowflake.ID  `gorm:"primaryKey" json:"id"`
	BrandID      *snowflake.ID `gorm:"column:brand_id" json:"brand_id,omitempty"`
	CustomerID   *snowflake.ID `gorm:"column:customer_id" json:"customer_id,omitempty"`
	SerialNumber string        `gorm:"column:serial_number;not null;uniqueIndex" json:"serial_number"`
	Model        string        `json:"model"`
	Status       string        `gorm:"not null;default:active" json:"status"`
	CreatedAt    time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

type CoolerInspection struct {
	ID           snowflake.ID   `gorm:"primaryKey" json:"id"`
	CoolerID     snowflake.ID   `gorm:"column:cooler_id;not null" json:"cooler_id"`
	VisitID      snowflake.ID   `gorm:"column:visit_id;not null;index" json:"visit_id"`
	Condition    string         `json:"condition"`
	Temperature  *float64       `json:"temperature,omitempty"`
	IsStocked    bool           `gorm:"column:is_stocked" json:"is_stocked"`
	NeedsService bool           `gorm:"column:needs_service" json:"needs_service"`
	Notes        string         `json:"notes"`
	ImageURLs    pq.StringArray `gorm:"column:image_urls;type:text[]" json:"image_urls"`
	CreatedAt    time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (CoolerInspection) TableName() string { return "cooler_inspections" }
