package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Order struct {
	ID             snowflake.ID  `json:"id,string" gorm:"primaryKey"`
	VisitID        *snowflake.ID `json:"visit_id,string,omitempty"`
	CustomerID     snowflake.ID  `json:"customer_id,string"`
	SalesPersonID  snowflake.ID  `json:"sales_person_id,string"`
	OrderNumber    string        `json:"order_number" gorm:"uniqueIndex"`
	Status         string        `json:"status"`
	Priority       string        `json:"priority"`
	ApprovalStatus string        `json:"approval_status"`
	ApprovedBy     *snowflake.ID `json:"approved_by,string,omitempty"`
	ApprovedAt     *time.Time    `json:"approved_at,omitempty"`
	Subtotal       int64         `json:"subtotal"`
	DiscountTotal  int64         `json:"discount_total"`
	TaxTotal       int64         `json:"tax_total"`
	ShippingTotal  int64         `json:"shipping_total"`
	Total          int64         `json:"total"`
	CurrencyCode   string        `json:"currency_code"`
	Notes          string        `json:"notes,omitempty"`
	Items          []OrderItem   `json:"items" gorm:"foreignKey:OrderID"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

func (Order) TableName() string { return "orders" }

type OrderItem struct {
	ID        snowflake.ID `json:"id,string" gorm:"primaryKey"`
	OrderID   snowflake.ID `json:"order_id,string" gorm:"index"`
	ProductID snowflake.ID `json:"product_id,string"`
	Quantity  int64        `json:"quantity"`
	UnitPrice int64        `json:"unit_price"`
	Discount  int64        `json:"discount"`
	TaxAmount int64        `json:"tax_amount"`
	LineTotal int64        `json:"line_total"`
}

func (OrderItem) TableName() string { return "order_items" }

const (
	StatusDraft     = "draft"
	StatusConfirmed = "confirmed"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"

	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"

	ApprovalNotRequired = "not_required"
	ApprovalPending     = "pending_approval"
	ApprovalApproved    = "approved"
	ApprovalRejected    = "rejected"
)

func ValidStatus(status string) bool {
	switch status {
	case StatusDraft, StatusConfirmed, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

func ValidPriority(priority string) bool {
	switch priority {
	case PriorityLow, PriorityNormal, PriorityHigh:
		return true
	}
	return false
}
