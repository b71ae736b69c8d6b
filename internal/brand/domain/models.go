package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Brand struct {
	ID        snowflake.ID  `gorm:"primaryKey" json:"id"`
	CompanyID *snowflake.ID `gorm:"column:company_id" json:"company_id,omitempty"`
	Code      string        `gorm:"not null;uniqueIndex" json:"code"`
	Name      string        `gorm:"not null" json:"name"`
	CreatedAt time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}
