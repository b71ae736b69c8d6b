package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/lib/pq"
)

type Customer struct {
	ID         snowflake.ID   `gorm:"primaryKey" json:"id"`
	CompanyID  *snowflake.ID  `gorm:"column:company_id" json:"company_id,omitempty"`
	Code       string         `gorm:"not null;uniqueIndex" json:"code"`
	Name       string         `gorm:"not null" json:"name"`
	OwnerName  string         `gorm:"column:owner_name" json:"owner_name"`
	Phone      string         `json:"phone"`
	Address    string         `json:"address"`
	Latitude   *float64       `json:"latitude,omitempty"`
	Longitude  *float64       `json:"longitude,omitempty"`
	CategoryID *snowflake.ID  `gorm:"column:category_id" json:"category_id,omitempty"`
	TypeID     *snowflake.ID  `gorm:"column:type_id" json:"type_id,omitempty"`
	ChannelID  *snowflake.ID  `gorm:"column:channel_id" json:"channel_id,omitempty"`
	ImageURLs  pq.StringArray `gorm:"column:image_urls;type:text[]" json:"image_urls"`
	IsActive   bool           `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedBy  *snowflake.ID  `gorm:"column:created_by" json:"created_by,omitempty"`
	UpdatedBy  *snowflake.ID  `gorm:"column:updated_by" json:"updated_by,omitempty"`
	CreatedAt  time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}
