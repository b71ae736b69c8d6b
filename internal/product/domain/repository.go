package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/fieldline/fieldline/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, product *Product) error
	Update(ctx context.Context, db *gorm.DB, product *Product) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Product, error)
	List(ctx context.Context, db *gorm.DB, filter ListProductFilter, page pagination.Pagination) ([]*Product, error)
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
