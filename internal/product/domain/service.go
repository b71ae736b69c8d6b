package domain

import (
	"context"
	"errors"

	"github.com/fieldline/fieldline/pkg/db/pagination"
)

type CreateProductRequest struct {
	Name         string `json:"name"`
	Code         string `json:"code"`
	Unit         string `json:"unit"`
	Price        int64  `json:"price"`
	CurrencyCode string `json:"currency_code"`
	BrandID      string `json:"brand_id"`
	TaxRateID    string `json:"tax_rate_id"`
	TrackingType string `json:"tracking_type"`
}

type UpdateProductRequest struct {
	ID           string
	Name         *string `json:"name"`
	Unit         *string `json:"unit"`
	Price        *int64  `json:"price"`
	TrackingType *string `json:"tracking_type"`
	IsActive     *bool   `json:"is_active"`
}

type ListProductRequest struct {
	PageToken string
	PageSize  int32
	Name      string
	BrandID   string
	Tracking  string
}

type ListProductFilter struct {
	Name     string
	BrandID  string
	Tracking string
}

type ListProductResponse struct {
	pagination.PageInfo
	Products []Product `json:"products"`
}

type Service interface {
	Create(ctx context.Context, req CreateProductRequest) (Product, error)
	Update(ctx context.Context, req UpdateProductRequest) (Product, error)
	List(ctx context.Context, req ListProductRequest) (ListProductResponse, error)
	GetByID(ctx context.Context, id string) (Product, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidName     = errors.New("invalid_name")
	ErrInvalidID       = errors.New("invalid_id")
	ErrInvalidPrice    = errors.New("invalid_price")
	ErrInvalidTracking = errors.New("invalid_tracking_type")
	ErrNotFound        = errors.New("not_found")
	ErrDuplicate       = errors.New("duplicate_code")
)
