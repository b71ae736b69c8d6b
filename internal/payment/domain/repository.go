package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, payment *Payment) error
	Update(ctx context.Context, db *gorm.DB, payment *Payment) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Payment, error)
	FindByNumber(ctx context.Context, db *gorm.DB, number string) (*Payment, error)
	MaxSequenceForDay(ctx context.Context, db *gorm.DB, day time.Time) (int, error)
	ListByVisit(ctx context.Context, db *gorm.DB, visitID snowflake.ID) ([]Payment, error)
	ListByCustomer(ctx context.Context, db *gorm.DB, customerID snowflake.ID) ([]Payment, error)
	DeleteByVisit(ctx context.Context, db *gorm.DB, visitID snowflake.ID) error
}
