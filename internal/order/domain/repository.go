package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, order *Order) error
	Update(ctx context.Context, db *gorm.DB, order *Order) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Order, error)
	ListByVisit(ctx context.Context, db *gorm.DB, visitID snowflake.ID) ([]Order, error)
	ListByCustomer(ctx context.Context, db *gorm.DB, customerID snowflake.ID) ([]Order, error)
	InsertItems(ctx context.Context, db *gorm.DB, items []OrderItem) error
	UpdateItem(ctx context.Context, db *gorm.DB, item *OrderItem) error
	ItemsByOrder(ctx context.Context, db *gorm.DB, orderID snowflake.ID) ([]OrderItem, error)
	DeleteByVisit(ctx context.Context, db *gorm.DB, visitID snowflake.ID) error
}
