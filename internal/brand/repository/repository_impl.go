package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/fieldline/fieldline/internal/brand/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, brand *domain.Brand) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO brands (id, company_id, code, name, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		brand.ID,
		brand.CompanyID,
		brand.Code,
		brand.Name,
		brand.CreatedAt,
		brand.UpdatedAt,
	).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, brand *domain.Brand) error {
	return db.WithContext(ctx).Exec(
		`UPDATE brands SET name = ?, updated_at = ? WHERE id = ?`,
		brand.Name,
		brand.UpdatedAt,
		brand.ID,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Brand, error) {
	var brand domain.Brand
	err := db.WithContext(ctx).Raw(
		`SELECT id, company_id, code, name, created_at, updated_at FROM brands WHERE id = ?`,
		id,
	).Scan(&brand).Error
	if err != nil {
		return nil, err
	}
	if brand.ID == 0 {
		return nil, nil
	}
	return &brand, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]domain.Brand, error) {
	var brands []domain.Brand
	if err := db.WithContext(ctx).Order("name asc").Find(&brands).Error; err != nil {
		return nil, err
	}
	return brands, nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Exec(`DELETE FROM brands WHERE id = ?`, id).Error
}
