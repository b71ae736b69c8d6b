package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	obsmetrics "github.com/fieldline/fieldline/internal/observability/metrics"
	productdomain "github.com/fieldline/fieldline/internal/product/domain"
	"github.com/fieldline/fieldline/internal/vanstock/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Repo        domain.Repository
	ProductRepo productdomain.Repository
	Metrics     *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	repo        domain.Repository
	productRepo productdomain.Repository
	metrics     *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("vanstock.service"),
		genID:       p.GenID,
		repo:        p.Repo,
		productRepo: p.ProductRepo,
		metrics:     p.Metrics,
	}
}

func (s *Service) Post(ctx context.Context, req domain.PostDocumentRequest) (domain.StockDocument, []domain.LineError, error) {
	docType := strings.TrimSpace(req.DocType)
	if !domain.ValidDocType(docType) {
		return domain.StockDocument{}, nil, domain.ErrInvalidDocType
	}
	salesPersonID, err := parseID(req.SalesPersonID)
	if err != nil {
		return domain.StockDocument{}, nil, err
	}
	if len(req.Lines) == 0 {
		return domain.StockDocument{}, nil, domain.ErrNoLines
	}

	// Validate every line before touching the database so the caller sees
	// all violations at once.
	var lineErrors []domain.LineError
	trackingByLine := make([]string, len(req.Lines))
	for i, line := range req.Lines {
		productID, err := parseID(line.ProductID)
		if err != nil {
			lineErrors = append(lineErrors, domain.LineError{Index: i, Error: domain.ErrUnknownProduct.Error()})
			continue
		}
		product, err := s.productRepo.FindByID(ctx, s.db, productID)
		if err != nil {
			return domain.StockDocument{}, nil, err
		}
		if product == nil {
			lineErrors = append(lineErrors, domain.LineError{Index: i, Error: domain.ErrUnknownProduct.Error()})
			continue
		}
		trackingByLine[i] = product.TrackingType

		if err := domain.ReconcileLine(product.TrackingType, line); err != nil {
			lineErrors = append(lineErrors, domain.LineError{Index: i, Error: err.Error()})
		}
	}
	if len(lineErrors) > 0 {
		return domain.StockDocument{}, lineErrors, nil
	}

	now := time.Now().UTC()
	document := domain.StockDocument{
		ID:            s.genID.Generate(),
		DocType:       docType,
		SalesPersonID: salesPersonID,
		Status:        domain.StatusPosted,
		PostedAt:      &now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	document.DocNumber = fmt.Sprintf("VAN-%s-%s-%06d",
		strings.ToUpper(docType), now.Format("20060102"), int64(document.ID)%1000000)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Insert(ctx, tx, &document); err != nil {
			return err
		}

		lines := make([]domain.StockLine, 0, len(req.Lines))
		var allocations []domain.StockAllocation
		for i, input := range req.Lines {
			productID, _ := parseID(input.ProductID)
			line := domain.StockLine{
				ID:         s.genID.Generate(),
				DocumentID: document.ID,
				ProductID:  productID,
				Quantity:   input.Quantity,
			}
			lines = append(lines, line)

			switch trackingByLine[i] {
			case productdomain.TrackingBatch:
				for _, batch := range input.Batches {
					mfg, _ := time.Parse("2006-01-02", batch.MfgDate)
					exp, _ := time.Parse("2006-01-02", batch.ExpDate)
					allocations = append(allocations, domain.StockAllocation{
						ID:          s.genID.Generate(),
						LineID:      line.ID,
						BatchNumber: strings.TrimSpace(batch.BatchNumber),
						LotNumber:   strings.TrimSpace(batch.LotNumber),
						Quantity:    batch.Quantity,
						MfgDate:     &mfg,
						ExpDate:     &exp,
					})
				}
			case productdomain.TrackingSerial:
				for _, serial := range input.Serials {
					allocations = append(allocations, domain.StockAllocation{
						ID:           s.genID.Generate(),
						LineID:       line.ID,
						SerialNumber: strings.TrimSpace(serial),
						Quantity:     1,
					})
				}
			}
		}

		if err := s.repo.InsertLines(ctx, tx, lines); err != nil {
			return err
		}
		return s.repo.InsertAllocations(ctx, tx, allocations)
	})
	if err != nil {
		return domain.StockDocument{}, nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordStockDocument(ctx, docType)
	}

	posted, err := s.repo.FindByID(ctx, s.db, document.ID)
	if err != nil {
		return domain.StockDocument{}, nil, err
	}
	return *posted, nil, nil
}

func (s *Service) GetByID(ctx context.Context, rawID string) (domain.StockDocument, error) {
	id, err := parseID(rawID)
	if err != nil {
		return domain.StockDocument{}, err
	}

	document, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.StockDocument{}, err
	}
	if document == nil {
		return domain.StockDocument{}, domain.ErrNotFound
	}
	return *document, nil
}

func (s *Service) ListBySalesPerson(ctx context.Context, rawSalesPersonID string) ([]domain.StockDocument, error) {
	salesPersonID, err := parseID(rawSalesPersonID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListBySalesPerson(ctx, s.db, salesPersonID)
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
