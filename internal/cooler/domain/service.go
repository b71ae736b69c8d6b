package domain

import (
	"context"
	"errors"
)

type CreateCoolerRequest struct {
	SerialNumber string `json:"serial_number"`
	Model        string `json:"model"`
	BrandID      string `json:"brand_id"`
	CustomerID   string `json:"customer_id"`
}

type UpdateCoolerRequest struct {
	ID         string
	Model      *string `json:"model"`
	Status     *string `json:"status"`
	CustomerID *string `json:"customer_id"`
}

type Service interface {
	Create(ctx context.Context, req CreateCoolerRequest) (Cooler, error)
	Update(ctx context.Context, req UpdateCoolerRequest) (Cooler, error)
	GetByID(ctx context.Context, id string) (Cooler, error)
	List(ctx context.Context) ([]Cooler, error)
	Delete(ctx context.Context, id string) error
	InspectionsByVisit(ctx context.Context, visitID string) ([]CoolerInspection, error)
}

var (
	ErrInvalidSerial = errors.New("invalid_serial_number")
	ErrInvalidID     = errors.New("invalid_id")
	ErrInvalidStatus = errors.New("invalid_status")
	ErrNotFound      = errors.New("not_found")
	ErrDuplicate     = errors.New("duplicate_serial_number")
)
