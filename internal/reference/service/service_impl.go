package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/fieldline/fieldline/internal/reference/domain"
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
		log:   p.Log.Named("reference.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) All(ctx context.Context) (domain.ReferenceData, error) {
	currencies, err := s.repo.Currencies(ctx, s.db)
	if err != nil {
		return domain.ReferenceData{}, err
	}
	categories, err := s.repo.Categories(ctx, s.db)
	if err != nil {
		return domain.ReferenceData{}, err
	}
	types, err := s.repo.Types(ctx, s.db)
	if err != nil {
		return domain.ReferenceData{}, err
	}
	channels, err := s.repo.Channels(ctx, s.db)
	if err != nil {
		return domain.ReferenceData{}, err
	}

	return domain.ReferenceData{
		Currencies:         currencies,
		CustomerCategories: categories,
		CustomerTypes:      types,
		CustomerChannels:   channels,
	}, nil
}

var kindTables = map[string]string{
	"customer_category": "customer_categories",
	"customer_type":     "customer_types",
	"customer_channel":  "customer_channels",
}

func (s *Service) CreateItem(ctx context.Context, req domain.CreateReferenceItemRequest) (domain.ReferenceItem, error) {
	table, ok := kindTables[strings.TrimSpace(req.Kind)]
	if !ok {
		return domain.ReferenceItem{}, domain.ErrInvalidKind
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.ReferenceItem{}, domain.ErrInvalidName
	}

	item := domain.ReferenceItem{
		ID:   s.genID.Generate(),
		Code: slug.Make(name),
		Name: name,
	}
	if err := s.repo.InsertItem(ctx, s.db, table, &item); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.ReferenceItem{}, domain.ErrDuplicate
		}
		return domain.ReferenceItem{}, err
	}
	return item, nil
}
