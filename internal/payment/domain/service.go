package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// PaymentInput is one payment element inside a visit upload. A non-empty
// PaymentNumber makes the write an upsert keyed by that number.
type PaymentInput struct {
	PaymentNumber string `json:"payment_number,omitempty"`
	OrderID       string `json:"order_id,omitempty"`
	TotalAmount   int64  `json:"total_amount"`
	Method        string `json:"method"`
	Notes         string `json:"notes,omitempty"`
	PaymentDate   string `json:"payment_date,omitempty"`
}

// CreatePaymentRequest is a standalone payment recorded outside a visit.
type CreatePaymentRequest struct {
	CustomerID    string `json:"customer_id"`
	PaymentNumber string `json:"payment_number,omitempty"`
	OrderID       string `json:"order_id,omitempty"`
	TotalAmount   int64  `json:"total_amount"`
	Method        string `json:"method"`
	Notes         string `json:"notes,omitempty"`
	PaymentDate   string `json:"payment_date,omitempty"`
}

type Service interface {
	// UpsertForVisit writes the visit's payments inside tx. Existing rows are
	// matched by payment_number; an unmatched explicit number is kept as
	// given, and inputs without one get a fresh generated number.
	UpsertForVisit(ctx context.Context, tx *gorm.DB, visitID, customerID snowflake.ID, inputs []PaymentInput) ([]Payment, error)
	Create(ctx context.Context, req CreatePaymentRequest) (Payment, error)
	GeneratePaymentNumber(ctx context.Context, tx *gorm.DB, now time.Time) (string, error)
	GetByID(ctx context.Context, rawID string) (Payment, error)
	ListByVisit(ctx context.Context, rawVisitID string) ([]Payment, error)
	ListByCustomer(ctx context.Context, rawCustomerID string) ([]Payment, error)
}
