package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/fieldline/fieldline/internal/actorctx"
	obsmetrics "github.com/fieldline/fieldline/internal/observability/metrics"
	"github.com/fieldline/fieldline/internal/payment/domain"
	"github.com/fieldline/fieldline/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Repo    domain.Repository
	Metrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	repo    domain.Repository
	metrics *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("payment.service"),
		genID:   p.GenID,
		repo:    p.Repo,
		metrics: p.Metrics,
	}
}

// GeneratePaymentNumber issues the next PAY-YYYYMMDD-NNN for the day, reading
// the current maximum inside the caller's transaction.
func (s *Service) GeneratePaymentNumber(ctx context.Context, tx *gorm.DB, now time.Time) (string, error) {
	max, err := s.repo.MaxSequenceForDay(ctx, tx, now)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("PAY-%s-%03d", now.Format("20060102"), max+1), nil
}

// fallbackNumber disambiguates a collided number with a millisecond-derived
// suffix so two writers racing on the same sequence both succeed.
func fallbackNumber(number string, now time.Time) string {
	return fmt.Sprintf("%s-%04d", number, now.UnixMilli()%10000)
}

func (s *Service) UpsertForVisit(ctx context.Context, tx *gorm.DB, visitID, customerID snowflake.ID, inputs []domain.PaymentInput) ([]domain.Payment, error) {
	if customerID == 0 {
		return nil, domain.ErrInvalidCustomer
	}

	results := make([]domain.Payment, 0, len(inputs))
	for _, input := range inputs {
		payment, err := s.upsertOne(ctx, tx, &visitID, customerID, input)
		if err != nil {
			return nil, err
		}
		results = append(results, payment)
	}
	return results, nil
}

// Create records a payment outside any visit, in its own transaction.
func (s *Service) Create(ctx context.Context, req domain.CreatePaymentRequest) (domain.Payment, error) {
	customerID, err := parseID(req.CustomerID)
	if err != nil {
		return domain.Payment{}, domain.ErrInvalidCustomer
	}

	var payment domain.Payment
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		payment, txErr = s.upsertOne(ctx, tx, nil, customerID, domain.PaymentInput{
			PaymentNumber: req.PaymentNumber,
			OrderID:       req.OrderID,
			TotalAmount:   req.TotalAmount,
			Method:        req.Method,
			Notes:         req.Notes,
			PaymentDate:   req.PaymentDate,
		})
		return txErr
	})
	if err != nil {
		return domain.Payment{}, err
	}
	return payment, nil
}

func (s *Service) upsertOne(ctx context.Context, tx *gorm.DB, visitID *snowflake.ID, customerID snowflake.ID, input domain.PaymentInput) (domain.Payment, error) {
	if input.TotalAmount <= 0 {
		return domain.Payment{}, domain.ErrInvalidAmount
	}
	method := strings.TrimSpace(input.Method)
	if method == "" {
		method = domain.MethodCash
	}
	if !domain.ValidMethod(method) {
		return domain.Payment{}, domain.ErrInvalidMethod
	}

	orderID, err := parseOptionalID(input.OrderID)
	if err != nil {
		return domain.Payment{}, err
	}

	now := time.Now().UTC()
	paymentDate := now
	if raw := strings.TrimSpace(input.PaymentDate); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			parsed, err = time.Parse(time.RFC3339, raw)
		}
		if err == nil {
			paymentDate = parsed.UTC()
		}
	}

	number := strings.TrimSpace(input.PaymentNumber)
	if number != "" {
		existing, err := s.repo.FindByNumber(ctx, tx, number)
		if err != nil {
			return domain.Payment{}, err
		}
		if existing != nil {
			existing.VisitID = visitID
			existing.OrderID = orderID
			existing.TotalAmount = input.TotalAmount
			existing.Method = method
			existing.Notes = strings.TrimSpace(input.Notes)
			existing.PaymentDate = paymentDate
			existing.UpdatedAt = now
			if err := s.repo.Update(ctx, tx, existing); err != nil {
				return domain.Payment{}, err
			}
			return *existing, nil
		}
		// Unmatched explicit number: the client assigned it offline, keep it.
	} else {
		number, err = s.GeneratePaymentNumber(ctx, tx, now)
		if err != nil {
			return domain.Payment{}, err
		}
	}

	payment := domain.Payment{
		ID:            s.genID.Generate(),
		PaymentNumber: number,
		VisitID:       visitID,
		OrderID:       orderID,
		CustomerID:    customerID,
		TotalAmount:   input.TotalAmount,
		Method:        method,
		Notes:         strings.TrimSpace(input.Notes),
		PaymentDate:   paymentDate,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if actorID, ok := actorctx.ActorIDFromContext(ctx); ok {
		payment.CreatedBy = &actorID
	}

	if err := s.insertWithFallback(ctx, tx, &payment, now); err != nil {
		return domain.Payment{}, err
	}
	return payment, nil
}

// insertWithFallback attempts the insert inside a savepoint so a unique
// violation on payment_number can be retried with the fallback suffix
// without aborting the caller's transaction.
func (s *Service) insertWithFallback(ctx context.Context, tx *gorm.DB, payment *domain.Payment, now time.Time) error {
	err := tx.Transaction(func(inner *gorm.DB) error {
		return s.repo.Insert(ctx, inner, payment)
	})
	if err == nil {
		if s.metrics != nil {
			s.metrics.RecordPaymentNumber(ctx, false)
		}
		return nil
	}
	if !db.IsDuplicateKeyErr(err) {
		return err
	}

	payment.PaymentNumber = fallbackNumber(payment.PaymentNumber, now)
	s.log.Warn("payment number collision, using fallback",
		zap.String("payment_number", payment.PaymentNumber))
	err = tx.Transaction(func(inner *gorm.DB) error {
		return s.repo.Insert(ctx, inner, payment)
	})
	if err == nil && s.metrics != nil {
		s.metrics.RecordPaymentNumber(ctx, true)
	}
	return err
}

func (s *Service) GetByID(ctx context.Context, rawID string) (domain.Payment, error) {
	id, err := parseID(rawID)
	if err != nil {
		return domain.Payment{}, err
	}

	payment, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Payment{}, err
	}
	if payment == nil {
		return domain.Payment{}, domain.ErrNotFound
	}
	return *payment, nil
}

func (s *Service) ListByVisit(ctx context.Context, rawVisitID string) ([]domain.Payment, error) {
	visitID, err := parseID(rawVisitID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByVisit(ctx, s.db, visitID)
}

func (s *Service) ListByCustomer(ctx context.Context, rawCustomerID string) ([]domain.Payment, error) {
	customerID, err := parseID(rawCustomerID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByCustomer(ctx, s.db, customerID)
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
