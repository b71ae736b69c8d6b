package repository

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/fieldline/fieldline/internal/cooler/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, cooler *domain.Cooler) error {
	return db.WithContext(ctx).Create(cooler).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, cooler *domain.Cooler) error {
	return db.WithContext(ctx).Save(cooler).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Cooler, error) {
	var cooler domain.Cooler
	err := db.WithContext(ctx).Where("id = ?", id).Take(&cooler).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &cooler, nil
}

func (r *repo) FindBySerial(ctx context.Context, db *gorm.DB, serialNumber string) (*domain.Cooler, error) {
	var cooler domain.Cooler
	err := db.WithContext(ctx).
		Where("serial_number = ?", strings.TrimSpace(serialNumber)).
		Take(&cooler).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &cooler, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]domain.Cooler, error) {
	var coolers []domain.Cooler
	if err := db.WithContext(ctx).Order("serial_number asc").Find(&coolers).Error; err != nil {
		return nil, err
	}
	return coolers, nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Exec(`DELETE FROM coolers WHERE id = ?`, id).Error
}

func (r *repo) UpsertInspection(ctx context.Context, db *gorm.DB, inspection *domain.CoolerInspection) error {
	return db.WithContext(ctx).Save(inspection).Error
}

func (r *repo) InspectionsByVisit(ctx context.Context, db *gorm.DB, visitID snowflake.ID) ([]domain.CoolerInspection, error) {
	var inspections []domain.CoolerInspection
	err := db.WithContext(ctx).
		Where("visit_id = ?", visitID).
		Order("created_at asc").
		Find(&inspections).Error
	if err != nil {
		return nil, err
	}
	return inspections, nil
}

func (r *repo) DeleteInspectionsByVisit(ctx context.Context, db *gorm.DB, visitID snowflake.ID) error {
	return db.WithContext(ctx).Exec(`DELETE FROM cooler_inspections WHERE visit_id = ?`, visitID).Error
}
