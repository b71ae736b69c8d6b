package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Payment struct {
	ID            snowflake.ID  `json:"id,string" gorm:"primaryKey"`
	PaymentNumber string        `json:"payment_number" gorm:"uniqueIndex"`
	VisitID       *snowflake.ID `json:"visit_id,string,omitempty"`
	OrderID       *snowflake.ID `json:"order_id,string,omitempty"`
	CustomerID    snowflake.ID  `json:"customer_id,string"`
	TotalAmount   int64         `json:"total_amount"`
	Method        string        `json:"method"`
	Notes         string        `json:"notes,omitempty"`
	PaymentDate   time.Time     `json:"payment_date"`
	CreatedBy     *snowflake.ID `json:"created_by,string,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

func (Payment) TableName() string { return "payments" }

const (
	MethodCash     = "cash"
	MethodTransfer = "transfer"
	MethodGiro     = "giro"
)

func ValidMethod(method string) bool {
	switch method {
	case MethodCash, MethodTransfer, MethodGiro:
		return true
	}
	return false
}
