package service

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/fieldline/fieldline/internal/actorctx"
	"github.com/fieldline/fieldline/internal/config"
	coolerdomain "github.com/fieldline/fieldline/internal/cooler/domain"
	customerdomain "github.com/fieldline/fieldline/internal/customer/domain"
	obsmetrics "github.com/fieldline/fieldline/internal/observability/metrics"
	orderdomain "github.com/fieldline/fieldline/internal/order/domain"
	paymentdomain "github.com/fieldline/fieldline/internal/payment/domain"
	"github.com/fieldline/fieldline/internal/storage"
	surveydomain "github.com/fieldline/fieldline/internal/survey/domain"
	"github.com/fieldline/fieldline/internal/visit/domain"
	"github.com/fieldline/fieldline/pkg/db"
	"github.com/fieldline/fieldline/pkg/db/pagination"
	"github.com/fieldline/fieldline/pkg/geo"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Repo         domain.Repository
	CustomerRepo customerdomain.Repository
	CoolerRepo   coolerdomain.Repository
	OrderRepo    orderdomain.Repository
	PaymentRepo  paymentdomain.Repository
	SurveyRepo   surveydomain.Repository
	Orders       orderdomain.Service
	Payments     paymentdomain.Service
	Surveys      surveydomain.Service
	Storage      storage.Client            `optional:"true"`
	Config       *config.SalesConfigHolder `optional:"true"`
	Metrics      *obsmetrics.Metrics       `optional:"true"`
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	repo         domain.Repository
	customerRepo customerdomain.Repository
	coolerRepo   coolerdomain.Repository
	orderRepo    orderdomain.Repository
	paymentRepo  paymentdomain.Repository
	surveyRepo   surveydomain.Repository
	orders       orderdomain.Service
	payments     paymentdomain.Service
	surveys      surveydomain.Service
	storage      storage.Client
	config       *config.SalesConfigHolder
	metrics      *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("visit.service"),
		genID:        p.GenID,
		repo:         p.Repo,
		customerRepo: p.CustomerRepo,
		coolerRepo:   p.CoolerRepo,
		orderRepo:    p.OrderRepo,
		paymentRepo:  p.PaymentRepo,
		surveyRepo:   p.SurveyRepo,
		orders:       p.Orders,
		payments:     p.Payments,
		surveys:      p.Surveys,
		storage:      p.Storage,
		config:       p.Config,
		metrics:      p.Metrics,
	}
}

func (s *Service) salesConfig() config.SalesConfig {
	if s.config != nil {
		return s.config.Get()
	}
	return config.DefaultSalesConfig()
}

func (s *Service) BulkUpsert(ctx context.Context, elements []domain.BulkElement) (domain.BulkResult, error) {
	if len(elements) == 0 {
		return domain.BulkResult{}, domain.ErrEmptyBatch
	}
	if max := s.salesConfig().MaxBulkBatchSize; max > 0 && len(elements) > max {
		return domain.BulkResult{}, domain.ErrBatchTooLarge
	}

	result := domain.BulkResult{
		Created: []domain.ElementResult{},
		Updated: []domain.ElementResult{},
		Failed:  []domain.ElementFailure{},
		Summary: domain.BulkSummary{Total: len(elements)},
	}

	for i, element := range elements {
		detail, outcome, err := s.processElement(ctx, element)
		if err != nil {
			outcome = domain.OutcomeFailed
			code, constraint := db.ErrorMeta(err)
			result.Failed = append(result.Failed, domain.ElementFailure{
				Index:      i,
				Error:      err.Error(),
				Code:       code,
				Constraint: constraint,
			})
			result.Summary.Failed++
			s.log.Warn("bulk visit element failed",
				zap.Int("index", i),
				zap.Error(err))
		} else {
			elementResult := domain.ElementResult{Index: i, Detail: detail}
			switch outcome {
			case domain.OutcomeCreated:
				result.Created = append(result.Created, elementResult)
				result.Summary.Created++
			default:
				result.Updated = append(result.Updated, elementResult)
				result.Summary.Updated++
			}
		}
		if s.metrics != nil {
			s.metrics.RecordVisitSyncElement(ctx, outcome)
		}
	}

	return result, nil
}

func (s *Service) processElement(ctx context.Context, element domain.BulkElement) (*domain.VisitDetail, string, error) {
	customerID, err := parseRequiredID(element.Visit.CustomerID, domain.ErrMissingCustomer)
	if err != nil {
		return nil, domain.OutcomeFailed, err
	}
	salesPersonID, err := parseRequiredID(element.Visit.SalesPersonID, domain.ErrMissingSales)
	if err != nil {
		return nil, domain.OutcomeFailed, err
	}

	customer, err := s.customerRepo.FindByID(ctx, s.db, customerID)
	if err != nil {
		return nil, domain.OutcomeFailed, err
	}
	if customer == nil {
		return nil, domain.OutcomeFailed, domain.ErrCustomerNotFound
	}

	var existing *domain.Visit
	if raw := strings.TrimSpace(element.Visit.ID); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil || id == 0 {
			return nil, domain.OutcomeFailed, domain.ErrInvalidID
		}
		existing, err = s.repo.FindByID(ctx, s.db, id)
		if err != nil {
			return nil, domain.OutcomeFailed, err
		}
		if existing == nil {
			return nil, domain.OutcomeFailed, domain.ErrNotFound
		}
	}

	visit, err := s.buildVisit(ctx, element.Visit, existing, customer, customerID, salesPersonID)
	if err != nil {
		return nil, domain.OutcomeFailed, err
	}

	replaced, err := s.attachImages(ctx, visit, existing, element.Images)
	if err != nil {
		return nil, domain.OutcomeFailed, err
	}

	detail := &domain.VisitDetail{}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if existing == nil {
			if err := s.repo.Insert(ctx, tx, visit); err != nil {
				return err
			}
		} else {
			if err := s.repo.Update(ctx, tx, visit); err != nil {
				return err
			}
		}

		orders, err := s.orders.UpsertForVisit(ctx, tx, visit.ID, customerID, salesPersonID, element.Orders)
		if err != nil {
			return err
		}
		payments, err := s.payments.UpsertForVisit(ctx, tx, visit.ID, customerID, element.Payments)
		if err != nil {
			return err
		}
		inspections, err := s.upsertInspections(ctx, tx, visit.ID, element.CoolerInspections)
		if err != nil {
			return err
		}

		var surveys []surveydomain.SurveyResponse
		if element.Survey != nil {
			response, err := s.surveys.UpsertForVisit(ctx, tx, visit.ID, customerID, *element.Survey)
			if err != nil {
				return err
			}
			surveys = append(surveys, response)
		}

		detail.Visit = *visit
		detail.Orders = orders
		detail.Payments = payments
		detail.Inspections = inspections
		detail.Surveys = surveys
		return nil
	})
	if err != nil {
		return nil, domain.OutcomeFailed, err
	}

	// Old images are only removed once the new state is committed. Failures
	// leave orphans in the bucket and are not surfaced to the caller.
	for _, url := range replaced {
		if err := s.storage.Delete(ctx, url); err != nil {
			s.log.Warn("stale visit image cleanup failed",
				zap.String("url", url),
				zap.Error(err))
		}
	}

	if existing == nil {
		return detail, domain.OutcomeCreated, nil
	}
	return detail, domain.OutcomeUpdated, nil
}

func (s *Service) buildVisit(ctx context.Context, input domain.VisitInput, existing *domain.Visit, customer *customerdomain.Customer, customerID, salesPersonID snowflake.ID) (*domain.Visit, error) {
	now := time.Now().UTC()

	visit := existing
	if visit == nil {
		visit = &domain.Visit{
			ID:        s.genID.Generate(),
			Status:    domain.StatusPlanned,
			VisitDate: now.Truncate(24 * time.Hour),
			IsActive:  true,
			CreatedAt: now,
		}
		if actorID, ok := actorctx.ActorIDFromContext(ctx); ok {
			visit.CreatedBy = &actorID
		}
	}
	visit.CustomerID = customerID
	visit.SalesPersonID = salesPersonID
	visit.UpdatedAt = now
	if actorID, ok := actorctx.ActorIDFromContext(ctx); ok {
		visit.UpdatedBy = &actorID
	}

	if raw := strings.TrimSpace(input.VisitDate); raw != "" {
		date, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, domain.ErrInvalidDate
		}
		visit.VisitDate = date
	}
	if status := strings.TrimSpace(input.Status); status != "" {
		if !domain.ValidStatus(status) {
			return nil, domain.ErrInvalidStatus
		}
		visit.Status = status
	}
	if notes := strings.TrimSpace(input.Notes); notes != "" {
		visit.Notes = notes
	}

	if raw := strings.TrimSpace(input.CheckInAt); raw != "" {
		checkIn, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, domain.ErrInvalidDate
		}
		utc := checkIn.UTC()
		visit.CheckInAt = &utc
	}
	if raw := strings.TrimSpace(input.CheckOutAt); raw != "" {
		checkOut, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, domain.ErrInvalidDate
		}
		utc := checkOut.UTC()
		visit.CheckOutAt = &utc
	}

	if input.CheckInLatitude != nil && input.CheckInLongitude != nil {
		visit.CheckInLatitude = input.CheckInLatitude
		visit.CheckInLongitude = input.CheckInLongitude

		if customer.Latitude != nil && customer.Longitude != nil {
			distance := geo.DistanceMeters(
				geo.Point{Latitude: *input.CheckInLatitude, Longitude: *input.CheckInLongitude},
				geo.Point{Latitude: *customer.Latitude, Longitude: *customer.Longitude},
			)
			visit.CheckInDistanceM = &distance

			cfg := s.salesConfig()
			if cfg.EnforceGeofence && distance > cfg.CheckInRadiusMeters {
				return nil, domain.ErrOutsideGeofence
			}
		}
	}

	return visit, nil
}

// attachImages uploads the element's files and swaps each image class that
// received new files. It returns the replaced URLs for post-commit cleanup.
func (s *Service) attachImages(ctx context.Context, visit *domain.Visit, existing *domain.Visit, images domain.ElementImages) ([]string, error) {
	if len(images.Self) == 0 && len(images.Customer) == 0 && len(images.Cooler) == 0 {
		return nil, nil
	}
	if s.storage == nil {
		return nil, storage.ErrNotConfigured
	}

	var replaced []string
	classes := []struct {
		name  string
		files []domain.ImageFile
		urls  *[]string
	}{
		{"self", images.Self, (*[]string)(&visit.SelfImageURLs)},
		{"customer", images.Customer, (*[]string)(&visit.CustomerImageURLs)},
		{"cooler", images.Cooler, (*[]string)(&visit.CoolerImageURLs)},
	}

	for _, class := range classes {
		if len(class.files) == 0 {
			continue
		}

		urls := make([]string, 0, len(class.files))
		for _, file := range class.files {
			key := fmt.Sprintf("visits/%s/%s/%s_%s",
				visit.ID, class.name, s.genID.Generate(), sanitizeFileName(file.Name))
			url, err := s.storage.Upload(ctx, file.Data, key, file.ContentType)
			if err != nil {
				return nil, err
			}
			urls = append(urls, url)
		}

		if existing != nil {
			replaced = append(replaced, *class.urls...)
		}
		*class.urls = urls
	}

	return replaced, nil
}

func (s *Service) upsertInspections(ctx context.Context, tx *gorm.DB, visitID snowflake.ID, inputs []domain.InspectionInput) ([]coolerdomain.CoolerInspection, error) {
	if len(inputs) == 0 {
		return nil, nil
	}

	existing, err := s.coolerRepo.InspectionsByVisit(ctx, tx, visitID)
	if err != nil {
		return nil, err
	}
	byCooler := make(map[snowflake.ID]*coolerdomain.CoolerInspection, len(existing))
	for i := range existing {
		byCooler[existing[i].CoolerID] = &existing[i]
	}

	now := time.Now().UTC()
	results := make([]coolerdomain.CoolerInspection, 0, len(inputs))
	for _, input := range inputs {
		coolerID, err := s.resolveCooler(ctx, tx, input)
		if err != nil {
			return nil, err
		}

		inspection := byCooler[coolerID]
		if inspection == nil {
			inspection = &coolerdomain.CoolerInspection{
				ID:        s.genID.Generate(),
				CoolerID:  coolerID,
				VisitID:   visitID,
				CreatedAt: now,
			}
		}
		inspection.Condition = strings.TrimSpace(input.Condition)
		inspection.Temperature = input.Temperature
		inspection.IsStocked = input.IsStocked
		inspection.NeedsService = input.NeedsService
		inspection.Notes = strings.TrimSpace(input.Notes)
		inspection.UpdatedAt = now

		if err := s.coolerRepo.UpsertInspection(ctx, tx, inspection); err != nil {
			return nil, err
		}
		results = append(results, *inspection)
	}
	return results, nil
}

// resolveCooler returns the referenced cooler, registering unknown serial
// numbers as new coolers so field teams can report equipment head office has
// not catalogued yet.
func (s *Service) resolveCooler(ctx context.Context, tx *gorm.DB, input domain.InspectionInput) (snowflake.ID, error) {
	if raw := strings.TrimSpace(input.CoolerID); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil || id == 0 {
			return 0, coolerdomain.ErrInvalidID
		}
		cooler, err := s.coolerRepo.FindByID(ctx, tx, id)
		if err != nil {
			return 0, err
		}
		if cooler == nil {
			return 0, coolerdomain.ErrNotFound
		}
		return cooler.ID, nil
	}

	serial := strings.TrimSpace(input.SerialNumber)
	if serial == "" {
		return 0, coolerdomain.ErrInvalidSerial
	}
	cooler, err := s.coolerRepo.FindBySerial(ctx, tx, serial)
	if err != nil {
		return 0, err
	}
	if cooler != nil {
		return cooler.ID, nil
	}

	now := time.Now().UTC()
	created := coolerdomain.Cooler{
		ID:           s.genID.Generate(),
		SerialNumber: serial,
		Model:        strings.TrimSpace(input.Model),
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.coolerRepo.Insert(ctx, tx, &created); err != nil {
		return 0, err
	}
	return created.ID, nil
}

func (s *Service) GetByID(ctx context.Context, rawID string) (domain.VisitDetail, error) {
	id, err := parseID(rawID)
	if err != nil {
		return domain.VisitDetail{}, err
	}

	visit, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.VisitDetail{}, err
	}
	if visit == nil {
		return domain.VisitDetail{}, domain.ErrNotFound
	}

	detail := domain.VisitDetail{Visit: *visit}
	if detail.Orders, err = s.orderRepo.ListByVisit(ctx, s.db, id); err != nil {
		return domain.VisitDetail{}, err
	}
	if detail.Payments, err = s.paymentRepo.ListByVisit(ctx, s.db, id); err != nil {
		return domain.VisitDetail{}, err
	}
	if detail.Inspections, err = s.coolerRepo.InspectionsByVisit(ctx, s.db, id); err != nil {
		return domain.VisitDetail{}, err
	}
	if detail.Surveys, err = s.surveyRepo.FindByVisit(ctx, s.db, id); err != nil {
		return domain.VisitDetail{}, err
	}
	return detail, nil
}

func (s *Service) List(ctx context.Context, req domain.ListVisitRequest) ([]*domain.Visit, *pagination.PageInfo, error) {
	filter := domain.ListVisitFilter{Status: strings.TrimSpace(req.Status)}

	var err error
	if filter.CustomerID, err = parseOptionalID(req.CustomerID); err != nil {
		return nil, nil, err
	}
	if filter.SalesPersonID, err = parseOptionalID(req.SalesPersonID); err != nil {
		return nil, nil, err
	}
	if raw := strings.TrimSpace(req.DateFrom); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, nil, domain.ErrInvalidDate
		}
		filter.DateFrom = &from
	}
	if raw := strings.TrimSpace(req.DateTo); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, nil, domain.ErrInvalidDate
		}
		filter.DateTo = &to
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	visits, err := s.repo.List(ctx, s.db, filter, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  pageSize,
	})
	if err != nil {
		return nil, nil, err
	}

	pageInfo := pagination.BuildCursorPageInfo(visits, int32(pageSize), func(visit *domain.Visit) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        visit.ID.String(),
			CreatedAt: visit.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(visits) > pageSize {
		visits = visits[:pageSize]
	}
	return visits, pageInfo, nil
}

func (s *Service) Delete(ctx context.Context, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}

	visit, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if visit == nil {
		return domain.ErrNotFound
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.paymentRepo.DeleteByVisit(ctx, tx, id); err != nil {
			return err
		}
		if err := s.orderRepo.DeleteByVisit(ctx, tx, id); err != nil {
			return err
		}
		if err := s.coolerRepo.DeleteInspectionsByVisit(ctx, tx, id); err != nil {
			return err
		}
		if err := s.surveyRepo.DeleteByVisit(ctx, tx, id); err != nil {
			return err
		}
		return s.repo.Delete(ctx, tx, id)
	})
	if err != nil {
		return err
	}

	if s.storage != nil {
		var urls []string
		urls = append(urls, visit.SelfImageURLs...)
		urls = append(urls, visit.CustomerImageURLs...)
		urls = append(urls, visit.CoolerImageURLs...)
		for _, url := range urls {
			if err := s.storage.Delete(ctx, url); err != nil {
				s.log.Warn("visit image cleanup failed",
					zap.String("url", url),
					zap.Error(err))
			}
		}
	}
	return nil
}

func sanitizeFileName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		}
		return '-'
	}, name)
	if name == "" || name == "." {
		return "image"
	}
	return name
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

func parseRequiredID(value string, missing error) (snowflake.ID, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, missing
	}
	id, err := snowflake.ParseString(value)
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
