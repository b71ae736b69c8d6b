package domain

import (
	"context"
	"errors"
)

type ReferenceData struct {
	Currencies         []Currency         `json:"currencies"`
	CustomerCategories []CustomerCategory `json:"customer_categories"`
	CustomerTypes      []CustomerType     `json:"customer_types"`
	CustomerChannels   []CustomerChannel  `json:"customer_channels"`
}

type CreateReferenceItemRequest struct {
	Kind string
	Name string
}

type Service interface {
	All(ctx context.Context) (ReferenceData, error)
	CreateItem(ctx context.Context, req CreateReferenceItemRequest) (ReferenceItem, error)
}

var (
	ErrInvalidKind = errors.New("invalid_reference_kind")
	ErrInvalidName = errors.New("invalid_name")
	ErrDuplicate   = errors.New("duplicate_code")
)
