package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/fieldline/fieldline/internal/taxrate/domain"
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
		log:   p.Log.Named("taxrate.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateTaxRateRequest) (domain.TaxRate, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.TaxRate{}, domain.ErrInvalidName
	}
	if req.Rate < 0 || req.Rate > 100 {
		return domain.TaxRate{}, domain.ErrInvalidRate
	}
	if req.ValidFrom != nil && req.ValidTo != nil && req.ValidFrom.After(*req.ValidTo) {
		return domain.TaxRate{}, domain.ErrInvalidTimeRange
	}

	now := time.Now().UTC()
	rate := domain.TaxRate{
		ID:        s.genID.Generate(),
		Name:      name,
		Rate:      req.Rate,
		ValidFrom: req.ValidFrom,
		ValidTo:   req.ValidTo,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Insert(ctx, s.db, &rate); err != nil {
		return domain.TaxRate{}, err
	}
	return rate, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateTaxRateRequest) (domain.TaxRate, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return domain.TaxRate{}, err
	}

	existing, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.TaxRate{}, err
	}
	if existing == nil {
		return domain.TaxRate{}, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.TaxRate{}, domain.ErrInvalidName
		}
		existing.Name = name
	}
	if req.Rate != nil {
		if *req.Rate < 0 || *req.Rate > 100 {
			return domain.TaxRate{}, domain.ErrInvalidRate
		}
		existing.Rate = *req.Rate
	}
	if req.ValidFrom != nil {
		existing.ValidFrom = req.ValidFrom
	}
	if req.ValidTo != nil {
		existing.ValidTo = req.ValidTo
	}
	if existing.ValidFrom != nil && existing.ValidTo != nil && existing.ValidFrom.After(*existing.ValidTo) {
		return domain.TaxRate{}, domain.ErrInvalidTimeRange
	}
	existing.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, existing); err != nil {
		return domain.TaxRate{}, err
	}
	return *existing, nil
}

func (s *Service) GetByID(ctx context.Context, rawID string) (domain.TaxRate, error) {
	id, err := parseID(rawID)
	if err != nil {
		return domain.TaxRate{}, err
	}

	rate, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.TaxRate{}, err
	}
	if rate == nil {
		return domain.TaxRate{}, domain.ErrNotFound
	}
	return *rate, nil
}

func (s *Service) List(ctx context.Context) ([]domain.TaxRate, error) {
	return s.repo.List(ctx, s.db)
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

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
