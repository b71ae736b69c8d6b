package repository

import (
	"context"

	"github.com/fieldline/fieldline/internal/reference/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Currencies(ctx context.Context, db *gorm.DB) ([]domain.Currency, error) {
	var out []domain.Currency
	if err := db.WithContext(ctx).Order("code asc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repo) Categories(ctx context.Context, db *gorm.DB) ([]domain.CustomerCategory, error) {
	var out []domain.CustomerCategory
	if err := db.WithContext(ctx).Order("code asc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repo) Types(ctx context.Context, db *gorm.DB) ([]domain.CustomerType, error) {
	var out []domain.CustomerType
	if err := db.WithContext(ctx).Order("code asc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repo) Channels(ctx context.Context, db *gorm.DB) ([]domain.CustomerChannel, error) {
	var out []domain.CustomerChannel
	if err := db.WithContext(ctx).Order("code asc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repo) InsertItem(ctx context.Context, db *gorm.DB, table string, item *domain.ReferenceItem) error {
	return db.WithContext(ctx).Table(table).Create(item).Error
}
