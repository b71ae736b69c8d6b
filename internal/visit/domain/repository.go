package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/fieldline/fieldline/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListVisitFilter struct {
	CustomerID    *snowflake.ID
	SalesPersonID *snowflake.ID
	DateFrom      *time.Time
	DateTo        *time.Time
	Status        string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, visit *Visit) error
	Update(ctx context.Context, db *gorm.DB, visit *Visit) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Visit, error)
	List(ctx context.Context, db *gorm.DB, filter ListVisitFilter, page pagination.Pagination) ([]*Visit, error)
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
