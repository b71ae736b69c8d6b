package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, document *StockDocument) error
	Update(ctx context.Context, db *gorm.DB, document *StockDocument) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*StockDocument, error)
	ListBySalesPerson(ctx context.Context, db *gorm.DB, salesPersonID snowflake.ID) ([]StockDocument, error)
	InsertLines(ctx context.Context, db *gorm.DB, lines []StockLine) error
	InsertAllocations(ctx context.Context, db *gorm.DB, allocations []StockAllocation) error
}
