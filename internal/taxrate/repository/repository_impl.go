package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/fieldline/fieldline/internal/taxrate/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, rate *domain.TaxRate) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO tax_rates (id, name, rate, valid_from, valid_to, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rate.ID,
		rate.Name,
		rate.Rate,
		rate.ValidFrom,
		rate.ValidTo,
		rate.CreatedAt,
		rate.UpdatedAt,
	).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, rate *domain.TaxRate) error {
	return db.WithContext(ctx).Exec(
		`UPDATE tax_rates SET name = ?, rate = ?, valid_from = ?, valid_to = ?, updated_at = ?
		 WHERE id = ?`,
		rate.Name,
		rate.Rate,
		rate.ValidFrom,
		rate.ValidTo,
		rate.UpdatedAt,
		rate.ID,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.TaxRate, error) {
	var rate domain.TaxRate
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, rate, valid_from, valid_to, created_at, updated_at
		 FROM tax_rates WHERE id = ?`,
		id,
	).Scan(&rate).Error
	if err != nil {
		return nil, err
	}
	if rate.ID == 0 {
		return nil, nil
	}
	return &rate, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]domain.TaxRate, error) {
	var rates []domain.TaxRate
	if err := db.WithContext(ctx).Order("name asc").Find(&rates).Error; err != nil {
		return nil, err
	}
	return rates, nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Exec(`DELETE FROM tax_rates WHERE id = ?`, id).Error
}
