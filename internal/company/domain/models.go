package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Company struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Code      string       `gorm:"not null;uniqueIndex" json:"code"`
	Name      string       `gorm:"not null" json:"name"`
	Address   string       `json:"address"`
	Phone     string       `json:"phone"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}
