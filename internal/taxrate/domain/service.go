package domain

import (
	"context"
	"errors"
	"time"
)

type CreateTaxRateRequest struct {
	Name      string     `json:"name"`
	Rate      float64    `json:"rate"`
	ValidFrom *time.Time `json:"valid_from"`
	ValidTo   *time.Time `json:"valid_to"`
}

type UpdateTaxRateRequest struct {
	ID        string
	Name      *string    `json:"name"`
	Rate      *float64   `json:"rate"`
	ValidFrom *time.Time `json:"valid_from"`
	ValidTo   *time.Time `json:"valid_to"`
}

type Service interface {
	Create(ctx context.Context, req CreateTaxRateRequest) (TaxRate, error)
	Update(ctx context.Context, req UpdateTaxRateRequest) (TaxRate, error)
	GetByID(ctx context.Context, id string) (TaxRate, error)
	List(ctx context.Context) ([]TaxRate, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidName      = errors.New("invalid_name")
	ErrInvalidRate      = errors.New("invalid_rate")
	ErrInvalidID        = errors.New("invalid_id")
	ErrInvalidTimeRange = errors.New("invalid_time_range")
	ErrNotFound         = errors.New("not_found")
)
