package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type TaxRate struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"not null" json:"name"`
	Rate      float64      `gorm:"not null" json:"rate"`
	ValidFrom *time.Time   `gorm:"column:valid_from" json:"valid_from,omitempty"`
	ValidTo   *time.Time   `gorm:"column:valid_to" json:"valid_to,omitempty"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (TaxRate) TableName() string { return "tax_rates" }
