package domain

import (
	"context"
	"errors"
)

type CreateBrandRequest struct {
	Name      string `json:"name"`
	CompanyID string `json:"company_id"`
}

type UpdateBrandRequest struct {
	ID   string
	Name *string `json:"name"`
}

type Service interface {
	Create(ctx context.Context, req CreateBrandRequest) (Brand, error)
	Update(ctx context.Context, req UpdateBrandRequest) (Brand, error)
	GetByID(ctx context.Context, id string) (Brand, error)
	List(ctx context.Context) ([]Brand, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidName    = errors.New("invalid_name")
	ErrInvalidID      = errors.New("invalid_id")
	ErrInvalidCompany = errors.New("invalid_company")
	ErrNotFound       = errors.New("not_found")
	ErrDuplicate      = errors.New("duplicate_code")
)
