package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, cooler *Cooler) error
	Update(ctx context.Context, db *gorm.DB, cooler *Cooler) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Cooler, error)
	FindBySerial(ctx context.Context, db *gorm.DB, serialNumber string) (*Cooler, error)
	List(ctx context.Context, db *gorm.DB) ([]Cooler, error)
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error

	UpsertInspection(ctx context.Context, db *gorm.DB, inspection *CoolerInspection) error
	InspectionsByVisit(ctx context.Context, db *gorm.DB, visitID snowflake.ID) ([]CoolerInspection, error)
	DeleteInspectionsByVisit(ctx context.Context, db *gorm.DB, visitID snowflake.ID) error
}
