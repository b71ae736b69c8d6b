package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Currencies(ctx context.Context, db *gorm.DB) ([]Currency, error)
	Categories(ctx context.Context, db *gorm.DB) ([]CustomerCategory, error)
	Types(ctx context.Context, db *gorm.DB) ([]CustomerType, error)
	Channels(ctx context.Context, db *gorm.DB) ([]CustomerChannel, error)
	InsertItem(ctx context.Context, db *gorm.DB, table string, item *ReferenceItem) error
}
