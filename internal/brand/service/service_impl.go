package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/fieldline/fieldline/internal/brand/domain"
	"github.com/fieldline/fieldline/pkg/db"
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
		log:   p.Log.Named("brand.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateBrandRequest) (domain.Brand, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Brand{}, domain.ErrInvalidName
	}

	now := time.Now().UTC()
	brand := domain.Brand{
		ID:        s.genID.Generate(),
		Code:      slug.Make(name),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if companyID := strings.TrimSpace(req.CompanyID); companyID != "" {
		id, err := snowflake.ParseString(companyID)
		if err != nil || id == 0 {
			return domain.Brand{}, domain.ErrInvalidCompany
		}
		brand.CompanyID = &id
	}

	if err := s.repo.Insert(ctx, s.db, &brand); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Brand{}, domain.ErrDuplicate
		}
		return domain.Brand{}, err
	}
	return brand, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateBrandRequest) (domain.Brand, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return domain.Brand{}, err
	}

	existing, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Brand{}, err
	}
	if existing == nil {
		return domain.Brand{}, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Brand{}, domain.ErrInvalidName
		}
		existing.Name = name
	}
	existing.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, existing); err != nil {
		return domain.Brand{}, err
	}
	return *existing, nil
}

func (s *Service) GetByID(ctx context.Context, rawID string) (domain.Brand, error) {
	id, err := parseID(rawID)
	if err != nil {
		return domain.Brand{}, err
	}

	brand, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Brand{}, err
	}
	if brand == nil {
		return domain.Brand{}, domain.ErrNotFound
	}
	return *brand, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Brand, error) {
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
