package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/fieldline/fieldline/internal/cooler/domain"
	"github.com/fieldline/fieldline/pkg/db"
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
		log:   p.Log.Named("cooler.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateCoolerRequest) (domain.Cooler, error) {
	serial := strings.TrimSpace(req.SerialNumber)
	if serial == "" {
		return domain.Cooler{}, domain.ErrInvalidSerial
	}

	now := time.Now().UTC()
	cooler := domain.Cooler{
		ID:           s.genID.Generate(),
		SerialNumber: serial,
		Model:        strings.TrimSpace(req.Model),
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var err error
	if cooler.BrandID, err = parseOptionalID(req.BrandID); err != nil {
		return domain.Cooler{}, err
	}
	if cooler.CustomerID, err = parseOptionalID(req.CustomerID); err != nil {
		return domain.Cooler{}, err
	}

	if err := s.repo.Insert(ctx, s.db, &cooler); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Cooler{}, domain.ErrDuplicate
		}
		return domain.Cooler{}, err
	}
	return cooler, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateCoolerRequest) (domain.Cooler, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return domain.Cooler{}, err
	}

	existing, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Cooler{}, err
	}
	if existing == nil {
		return domain.Cooler{}, domain.ErrNotFound
	}

	if req.Model != nil {
		existing.Model = strings.TrimSpace(*req.Model)
	}
	if req.Status != nil {
		status := strings.TrimSpace(*req.Status)
		switch status {
		case "active", "maintenance", "retired":
			existing.Status = status
		default:
			return domain.Cooler{}, domain.ErrInvalidStatus
		}
	}
	if req.CustomerID != nil {
		customerID, err := parseOptionalID(*req.CustomerID)
		if err != nil {
			return domain.Cooler{}, err
		}
		existing.CustomerID = customerID
	}
	existing.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, existing); err != nil {
		return domain.Cooler{}, err
	}
	return *existing, nil
}

func (s *Service) GetByID(ctx context.Context, rawID string) (domain.Cooler, error) {
	id, err := parseID(rawID)
	if err != nil {
		return domain.Cooler{}, err
	}

	cooler, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Cooler{}, err
	}
	if cooler == nil {
		return domain.Cooler{}, domain.ErrNotFound
	}
	return *cooler, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Cooler, error) {
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

func (s *Service) InspectionsByVisit(ctx context.Context, rawVisitID string) ([]domain.CoolerInspection, error) {
	visitID, err := parseID(rawVisitID)
	if err != nil {
		return nil, err
	}
	return s.repo.InspectionsByVisit(ctx, s.db, visitID)
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
