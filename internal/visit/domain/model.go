package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/lib/pq"
)

type Visit struct {
	ID                snowflake.ID   `json:"id,string" gorm:"primaryKey"`
	CustomerID        snowflake.ID   `json:"customer_id,string"`
	SalesPersonID     snowflake.ID   `json:"sales_person_id,string"`
	VisitDate         time.Time      `json:"visit_date"`
	Status            string         `json:"status"`
	CheckInAt         *time.Time     `json:"check_in_at,omitempty"`
	CheckOutAt        *time.Time     `json:"check_out_at,omitempty"`
	CheckInLatitude   *float64       `json:"check_in_latitude,omitempty"`
	CheckInLongitude  *float64       `json:"check_in_longitude,omitempty"`
	CheckInDistanceM  *float64       `json:"check_in_distance_m,omitempty"`
	Notes             string         `json:"notes,omitempty"`
	SelfImageURLs     pq.StringArray `json:"self_image_urls" gorm:"column:self_image_urls;type:text[]"`
	CustomerImageURLs pq.StringArray `json:"customer_image_urls" gorm:"column:customer_image_urls;type:text[]"`
	CoolerImageURLs   pq.StringArray `json:"cooler_image_urls" gorm:"column:cooler_image_urls;type:text[]"`
	IsActive          bool           `json:"is_active" gorm:"default:true"`
	CreatedBy         *snowflake.ID  `json:"created_by,string,omitempty"`
	UpdatedBy         *snowflake.ID  `json:"updated_by,string,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

func (Visit) TableName() string { return "visits" }

const (
	StatusPlanned    = "planned"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusSkipped    = "skipped"
)

func ValidStatus(status string) bool {
	switch status {
	case StatusPlanned, StatusInProgress, StatusCompleted, StatusSkipped:
		return true
	}
	return false
}
