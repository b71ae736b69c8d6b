package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/fieldline/fieldline/internal/visit/domain"
	"github.com/fieldline/fieldline/pkg/db/option"
	"github.com/fieldline/fieldline/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, visit *domain.Visit) error {
	return db.WithContext(ctx).Create(visit).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, visit *domain.Visit) error {
	return db.WithContext(ctx).Save(visit).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Visit, error) {
	var visit domain.Visit
	err := db.WithContext(ctx).Where("id = ?", id).First(&visit).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &visit, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListVisitFilter, page pagination.Pagination) ([]*domain.Visit, error) {
	query := db.WithContext(ctx).Model(&domain.Visit{})

	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.SalesPersonID != nil {
		query = query.Where("sales_person_id = ?", *filter.SalesPersonID)
	}
	if filter.DateFrom != nil {
		query = query.Where("visit_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("visit_date <= ?", *filter.DateTo)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	query = option.ApplyPagination(page).Apply(query).Order("created_at desc, id desc")

	var visits []*domain.Visit
	if err := query.Find(&visits).Error; err != nil {
		return nil, err
	}
	return visits, nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Exec(`DELETE FROM visits WHERE id = ?`, id).Error
}
