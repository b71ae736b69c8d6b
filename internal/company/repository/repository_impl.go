package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/fieldline/fieldline/internal/company/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, company *domain.Company) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO companies (id, code, name, address, phone, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		company.ID,
		company.Code,
		company.Name,
		company.Address,
		company.Phone,
		company.CreatedAt,
		company.UpdatedAt,
	).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, company *domain.Company) error {
	return db.WithContext(ctx).Exec(
		`UPDATE companies SET name = ?, address = ?, phone = ?, updated_at = ? WHERE id = ?`,
		company.Name,
		company.Address,
		company.Phone,
		company.UpdatedAt,
		company.ID,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Company, error) {
	var company domain.Company
	err := db.WithContext(ctx).Raw(
		`SELECT id, code, name, address, phone, created_at, updated_at
		 FROM companies WHERE id = ?`,
		id,
	).Scan(&company).Error
	if err != nil {
		return nil, err
	}
	if company.ID == 0 {
		return nil, nil
	}
	return &company, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]domain.Company, error) {
	var companies []domain.Company
	if err := db.WithContext(ctx).Order("name asc").Find(&companies).Error; err != nil {
		return nil, err
	}
	return companies, nil
}
