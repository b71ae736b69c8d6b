package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// OrderInput is one order element inside a visit upload. A non-empty ID makes
// the write an update of that order; item rows follow the same rule.
type OrderInput struct {
	ID       string           `json:"id,omitempty"`
	Status   string           `json:"status,omitempty"`
	Priority string           `json:"priority,omitempty"`
	Notes    string           `json:"notes,omitempty"`
	Shipping int64            `json:"shipping_total,omitempty"`
	Items    []OrderItemInput `json:"items"`
}

type OrderItemInput struct {
	ID        string `json:"id,omitempty"`
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	Discount  int64  `json:"discount,omitempty"`
	TaxAmount int64  `json:"tax_amount,omitempty"`
}

type Service interface {
	// UpsertForVisit writes the visit's orders inside tx, recomputing totals
	// from items on every write.
	UpsertForVisit(ctx context.Context, tx *gorm.DB, visitID, customerID, salesPersonID snowflake.ID, inputs []OrderInput) ([]Order, error)
	GetByID(ctx context.Context, rawID string) (Order, error)
	ListByVisit(ctx context.Context, rawVisitID string) ([]Order, error)
	ListByCustomer(ctx context.Context, rawCustomerID string) ([]Order, error)
	Approve(ctx context.Context, rawID string, approve bool) (Order, error)
}
