package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, rate *TaxRate) error
	Update(ctx context.Context, db *gorm.DB, rate *TaxRate) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*TaxRate, error)
	List(ctx context.Context, db *gorm.DB) ([]TaxRate, error)
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
