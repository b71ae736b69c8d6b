package domain

import (
	"context"
	"errors"

	"github.com/fieldline/fieldline/pkg/db/pagination"
)

type ListCustomerRequest struct {
	PageToken string
	PageSize  int32
	Name      string
	Code      string
	Category  string
	Channel   string
}

type ListCustomerFilter struct {
	Name     string
	Code     string
	Category string
	Channel  string
}

type ListCustomerResponse struct {
	pagination.PageInfo
	Customers []Customer `json:"customers"`
}

type CreateCustomerRequest struct {
	Name       string   `json:"name"`
	OwnerName  string   `json:"owner_name"`
	Phone      string   `json:"phone"`
	Address    string   `json:"address"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
	CompanyID  string   `json:"company_id"`
	CategoryID string   `json:"category_id"`
	TypeID     string   `json:"type_id"`
	ChannelID  string   `json:"channel_id"`
	ImageURLs  []string `json:"image_urls"`
}

type UpdateCustomerRequest struct {
	ID        string
	Name      *string  `json:"name"`
	OwnerName *string  `json:"owner_name"`
	Phone     *string  `json:"phone"`
	Address   *string  `json:"address"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	IsActive  *bool    `json:"is_active"`
	ImageURLs []string `json:"image_urls"`
}

type Service interface {
	Create(ctx context.Context, req CreateCustomerRequest) (Customer, error)
	Update(ctx context.Context, req UpdateCustomerRequest) (Customer, error)
	List(ctx context.Context, req ListCustomerRequest) (ListCustomerResponse, error)
	GetByID(ctx context.Context, id string) (Customer, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidName     = errors.New("invalid_name")
	ErrInvalidID       = errors.New("invalid_id")
	ErrInvalidLocation = errors.New("invalid_location")
	ErrNotFound        = errors.New("not_found")
	ErrDuplicate       = errors.New("duplicate_code")
)
