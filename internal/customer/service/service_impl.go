package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/fieldline/fieldline/internal/actorctx"
	"github.com/fieldline/fieldline/internal/customer/domain"
	"github.com/fieldline/fieldline/pkg/db"
	"github.com/fieldline/fieldline/pkg/db/pagination"
	"github.com/gosimple/slug"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("customer.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateCustomerRequest) (domain.Customer, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Customer{}, domain.ErrInvalidName
	}
	if err := validateLocation(req.Latitude, req.Longitude); err != nil {
		return domain.Customer{}, err
	}

	now := time.Now().UTC()
	id := s.genID.Generate()
	customer := domain.Customer{
		ID:        id,
		Code:      fmt.Sprintf("%s-%d", slug.Make(name), id%100000),
		Name:      name,
		OwnerName: strings.TrimSpace(req.OwnerName),
		Phone:     strings.TrimSpace(req.Phone),
		Address:   strings.TrimSpace(req.Address),
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		ImageURLs: req.ImageURLs,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if actorID, ok := actorctx.ActorIDFromContext(ctx); ok {
		customer.CreatedBy = &actorID
		customer.UpdatedBy = &actorID
	}

	var err error
	if customer.CompanyID, err = parseOptionalID(req.CompanyID); err != nil {
		return domain.Customer{}, err
	}
	if customer.CategoryID, err = parseOptionalID(req.CategoryID); err != nil {
		return domain.Customer{}, err
	}
	if customer.TypeID, err = parseOptionalID(req.TypeID); err != nil {
		return domain.Customer{}, err
	}
	if customer.ChannelID, err = parseOptionalID(req.ChannelID); err != nil {
		return domain.Customer{}, err
	}

	if err := s.repo.Insert(ctx, s.db, &customer); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Customer{}, domain.ErrDuplicate
		}
		return domain.Customer{}, err
	}
	return customer, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateCustomerRequest) (domain.Customer, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return domain.Customer{}, err
	}

	existing, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Customer{}, err
	}
	if existing == nil {
		return domain.Customer{}, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Customer{}, domain.ErrInvalidName
		}
		existing.Name = name
	}
	if req.OwnerName != nil {
		existing.OwnerName = strings.TrimSpace(*req.OwnerName)
	}
	if req.Phone != nil {
		existing.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Address != nil {
		existing.Address = strings.TrimSpace(*req.Address)
	}
	if req.Latitude != nil {
		existing.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		existing.Longitude = req.Longitude
	}
	if err := validateLocation(existing.Latitude, existing.Longitude); err != nil {
		return domain.Customer{}, err
	}
	if req.IsActive != nil {
		existing.IsActive = *req.IsActive
	}
	if req.ImageURLs != nil {
		existing.ImageURLs = req.ImageURLs
	}
	if actorID, ok := actorctx.ActorIDFromContext(ctx); ok {
		existing.UpdatedBy = &actorID
	}
	existing.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, existing); err != nil {
		return domain.Customer{}, err
	}
	return *existing, nil
}

func (s *Service) List(ctx context.Context, req domain.ListCustomerRequest) (domain.ListCustomerResponse, error) {
	filter := domain.ListCustomerFilter{
		Name:     strings.TrimSpace(req.Name),
		Code:     strings.TrimSpace(req.Code),
		Category: strings.TrimSpace(req.Category),
		Channel:  strings.TrimSpace(req.Channel),
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, filter, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  int(pageSize),
	})
	if err != nil {
		return domain.ListCustomerResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(customer *domain.Customer) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        customer.ID.String(),
			CreatedAt: customer.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	customers := make([]domain.Customer, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		customers = append(customers, *item)
	}

	resp := domain.ListCustomerResponse{Customers: customers}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

func (s *Service) GetByID(ctx context.Context, rawID string) (domain.Customer, error) {
	id, err := parseID(rawID)
	if err != nil {
		return domain.Customer{}, err
	}

	customer, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Customer{}, err
	}
	if customer == nil {
		return domain.Customer{}, domain.ErrNotFound
	}
	return *customer, nil
}

func (s *Service) Delete(ctx context.Context, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}

	existing, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.ErrNotFound
	}
	return s.repo.Delete(ctx, s.db, id)
}

func validateLocation(latitude, longitude *float64) error {
	if (latitude == nil) != (longitude == nil) {
		return domain.ErrInvalidLocation
	}
	if latitude == nil {
		return nil
	}
	if *latitude < -90 || *latitude > 90 || *longitude < -180 || *longitude > 180 {
		return domain.ErrInvalidLocation
	}
	return nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

func parseOptionalID(value string) (*snowflake.ID, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	id, err := snowflake.ParseString(value)
	if err != nil || id == 0 {
		return nil, domain.ErrInvalidID
	}
	return &id, nil
}
