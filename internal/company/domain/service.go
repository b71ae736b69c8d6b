package domain

import (
	"context"
	"errors"
)

type CreateCompanyRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

type UpdateCompanyRequest struct {
	ID      string
	Name    *string `json:"name"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
}

type Service interface {
	Create(ctx context.Context, req CreateCompanyRequest) (Company, error)
	Update(ctx context.Context, req UpdateCompanyRequest) (Company, error)
	GetByID(ctx context.Context, id string) (Company, error)
	List(ctx context.Context) ([]Company, error)
}

var (
	ErrInvalidName = errors.New("invalid_name")
	ErrInvalidID   = errors.New("invalid_id")
	ErrNotFound    = errors.New("not_found")
	ErrDuplicate   = errors.New("duplicate_code")
)
