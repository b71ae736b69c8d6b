package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/fieldline/fieldline/internal/vanstock/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, document *domain.StockDocument) error {
	return db.WithContext(ctx).Omit("Lines").Create(document).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, document *domain.StockDocument) error {
	return db.WithContext(ctx).Omit("Lines").Save(document).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.StockDocument, error) {
	var document domain.StockDocument
	err := db.WithContext(ctx).
		Preload("Lines").
		Preload("Lines.Allocations").
		Where("id = ?", id).
		First(&document).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &document, nil
}

func (r *repo) ListBySalesPerson(ctx context.Context, db *gorm.DB, salesPersonID snowflake.ID) ([]domain.StockDocument, error) {
	var documents []domain.StockDocument
	err := db.WithContext(ctx).
		Preload("Lines").
		Preload("Lines.Allocations").
		Where("sales_person_id = ?", salesPersonID).
		Order("created_at desc").
		Find(&documents).Error
	if err != nil {
		return nil, err
	}
	return documents, nil
}

func (r *repo) InsertLines(ctx context.Context, db *gorm.DB, lines []domain.StockLine) error {
	if len(lines) == 0 {
		return nil
	}
	return db.WithContext(ctx).Omit("Allocations").Create(&lines).Error
}

func (r *repo) InsertAllocations(ctx context.Context, db *gorm.DB, allocations []domain.StockAllocation) error {
	if len(allocations) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&allocations).Error
}
