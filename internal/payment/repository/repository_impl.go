package repository

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/fieldline/fieldline/internal/payment/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, payment *domain.Payment) error {
	return db.WithContext(ctx).Create(payment).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, payment *domain.Payment) error {
	return db.WithContext(ctx).Save(payment).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Payment, error) {
	var payment domain.Payment
	err := db.WithContext(ctx).Where("id = ?", id).First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *repo) FindByNumber(ctx context.Context, db *gorm.DB, number string) (*domain.Payment, error) {
	var payment domain.Payment
	err := db.WithContext(ctx).Where("payment_number = ?", number).First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// MaxSequenceForDay scans the highest NNN already issued for the day's
// PAY-YYYYMMDD- prefix. Fallback-suffixed numbers are longer than the
// canonical 16 characters and are skipped.
func (r *repo) MaxSequenceForDay(ctx context.Context, db *gorm.DB, day time.Time) (int, error) {
	prefix := "PAY-" + day.Format("20060102") + "-"

	var numbers []string
	err := db.WithContext(ctx).
		Model(&domain.Payment{}).
		Where("payment_number LIKE ?", prefix+"%").
		Pluck("payment_number", &numbers).Error
	if err != nil {
		return 0, err
	}

	max := 0
	for _, number := range numbers {
		rest := strings.TrimPrefix(number, prefix)
		if len(rest) != 3 {
			continue
		}
		seq, err := strconv.Atoi(rest)
		if err != nil {
			continue
		}
		if seq > max {
			max = seq
		}
	}
	return max, nil
}

func (r *repo) ListByVisit(ctx context.Context, db *gorm.DB, visitID snowflake.ID) ([]domain.Payment, error) {
	var payments []domain.Payment
	err := db.WithContext(ctx).
		Where("visit_id = ?", visitID).
		Order("created_at asc").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *repo) ListByCustomer(ctx context.Context, db *gorm.DB, customerID snowflake.ID) ([]domain.Payment, error) {
	var payments []domain.Payment
	err := db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("payment_date desc, created_at desc").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *repo) DeleteByVisit(ctx context.Context, db *gorm.DB, visitID snowflake.ID) error {
	return db.WithContext(ctx).Exec(`DELETE FROM payments WHERE visit_id = ?`, visitID).Error
}
