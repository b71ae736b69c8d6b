package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type AuditLog struct {
	ID         snowflake.ID      `gorm:"primaryKey" json:"id"`
	ActorType  string            `gorm:"column:actor_type" json:"actor_type"`
	ActorID    string            `gorm:"column:actor_id" json:"actor_id"`
	Action     string            `gorm:"not null" json:"action"`
	Resource   string            `gorm:"not null" json:"resource"`
	ResourceID string            `gorm:"column:resource_id" json:"resource_id"`
	RequestID  string            `gorm:"column:request_id" json:"request_id"`
	IPAddress  string            `gorm:"column:ip_address" json:"ip_address,omitempty"`
	UserAgent  string            `gorm:"column:user_agent" json:"user_agent,omitempty"`
	Metadata   datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt  time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (AuditLog) TableName() string { return "audit_logs" }

type AuditCursor struct {
	ID        snowflake.ID
	CreatedAt time.Time
}

type ListFilter struct {
	Action     string
	Resource   string
	ResourceID string
	ActorType  string
	StartAt    *time.Time
	EndAt      *time.Time
	Cursor     *AuditCursor
	Limit      int
}
