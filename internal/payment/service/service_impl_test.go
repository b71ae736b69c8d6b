package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/fieldline/fieldline/internal/payment/domain"
	"github.com/fieldline/fieldline/internal/payment/repository"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupPaymentService(t *testing.T) (*Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	dsn := fmt.Sprintf("file:payments_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatal(err)
	}
	if err := db.AutoMigrate(&domain.Payment{}); err != nil {
		t.Fatal(err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatal(err)
	}

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	}).(*Service)
	return svc, db, node
}

func TestPaymentNumberSequencesWithinDay(t *testing.T) {
	svc, db, node := setupPaymentService(t)
	ctx := context.Background()
	visitID := node.Generate()
	customerID := node.Generate()

	inputs := []domain.PaymentInput{
		{TotalAmount: 150000, Method: domain.MethodCash},
		{TotalAmount: 90000, Method: domain.MethodTransfer},
	}
	payments, err := svc.UpsertForVisit(ctx, db, visitID, customerID, inputs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(payments) != 2 {
		t.Fatalf("expected 2 payments, got %d", len(payments))
	}

	day := time.Now().UTC().Format("20060102")
	if want := fmt.Sprintf("PAY-%s-001", day); payments[0].PaymentNumber != want {
		t.Fatalf("expected first number %s, got %s", want, payments[0].PaymentNumber)
	}
	if want := fmt.Sprintf("PAY-%s-002", day); payments[1].PaymentNumber != want {
		t.Fatalf("expected second number %s, got %s", want, payments[1].PaymentNumber)
	}
}

func TestPaymentNumberSkipsFallbackSuffixedRows(t *testing.T) {
	svc, db, node := setupPaymentService(t)
	ctx := context.Background()
	now := time.Now().UTC()
	day := now.Format("20060102")

	seeded := domain.Payment{
		ID:            node.Generate(),
		PaymentNumber: fmt.Sprintf("PAY-%s-007-1234", day),
		CustomerID:    node.Generate(),
		TotalAmount:   1000,
		Method:        domain.MethodCash,
		PaymentDate:   now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := db.Create(&seeded).Error; err != nil {
		t.Fatal(err)
	}

	number, err := svc.GeneratePaymentNumber(ctx, db, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := fmt.Sprintf("PAY-%s-001", day); number != want {
		t.Fatalf("expected %s, got %s", want, number)
	}
}

type staleSequenceRepo struct {
	domain.Repository
}

func (r *staleSequenceRepo) MaxSequenceForDay(ctx context.Context, db *gorm.DB, day time.Time) (int, error) {
	return 0, nil
}

func TestPaymentNumberCollisionFallsBackToSuffix(t *testing.T) {
	svc, db, node := setupPaymentService(t)
	svc.repo = &staleSequenceRepo{Repository: repository.Provide()}
	ctx := context.Background()
	now := time.Now().UTC()
	day := now.Format("20060102")

	occupied := domain.Payment{
		ID:            node.Generate(),
		PaymentNumber: fmt.Sprintf("PAY-%s-001", day),
		CustomerID:    node.Generate(),
		TotalAmount:   5000,
		Method:        domain.MethodCash,
		PaymentDate:   now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := db.Create(&occupied).Error; err != nil {
		t.Fatal(err)
	}

	payments, err := svc.UpsertForVisit(ctx, db, node.Generate(), node.Generate(), []domain.PaymentInput{
		{TotalAmount: 25000, Method: domain.MethodCash},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	number := payments[0].PaymentNumber
	prefix := fmt.Sprintf("PAY-%s-001-", day)
	if !strings.HasPrefix(number, prefix) {
		t.Fatalf("expected fallback prefix %s, got %s", prefix, number)
	}
	if suffix := strings.TrimPrefix(number, prefix); len(suffix) != 4 {
		t.Fatalf("expected 4 digit fallback suffix, got %q", suffix)
	}
}

func TestUpsertMatchesExistingByNumber(t *testing.T) {
	svc, db, node := setupPaymentService(t)
	ctx := context.Background()
	visitID := node.Generate()
	customerID := node.Generate()

	first, err := svc.UpsertForVisit(ctx, db, visitID, customerID, []domain.PaymentInput{
		{TotalAmount: 10000, Method: domain.MethodCash},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := svc.UpsertForVisit(ctx, db, visitID, customerID, []domain.PaymentInput{
		{PaymentNumber: first[0].PaymentNumber, TotalAmount: 17500, Method: domain.MethodTransfer},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if second[0].ID != first[0].ID {
		t.Fatalf("expected update of existing row, got new id %s", second[0].ID)
	}
	if second[0].TotalAmount != 17500 {
		t.Fatalf("expected amount 17500, got %d", second[0].TotalAmount)
	}
	if second[0].Method != domain.MethodTransfer {
		t.Fatalf("expected method transfer, got %s", second[0].Method)
	}

	var count int64
	db.Model(&domain.Payment{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected 1 payment row, got %d", count)
	}
}

func TestUpsertRejectsInvalidInput(t *testing.T) {
	svc, db, node := setupPaymentService(t)
	ctx := context.Background()

	_, err := svc.UpsertForVisit(ctx, db, node.Generate(), node.Generate(), []domain.PaymentInput{
		{TotalAmount: 0, Method: domain.MethodCash},
	})
	if err != domain.ErrInvalidAmount {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}

	_, err = svc.UpsertForVisit(ctx, db, node.Generate(), node.Generate(), []domain.PaymentInput{
		{TotalAmount: 500, Method: "barter"},
	})
	if err != domain.ErrInvalidMethod {
		t.Fatalf("expected ErrInvalidMethod, got %v", err)
	}

	_, err = svc.UpsertForVisit(ctx, db, node.Generate(), 0, nil)
	if err != domain.ErrInvalidCustomer {
		t.Fatalf("expected ErrInvalidCustomer, got %v", err)
	}
}

func TestUpsertKeepsUnmatchedExplicitNumber(t *testing.T) {
	svc, db, node := setupPaymentService(t)
	ctx := context.Background()

	payments, err := svc.UpsertForVisit(ctx, db, node.Generate(), node.Generate(), []domain.PaymentInput{
		{PaymentNumber: "PAY-20240101-042", TotalAmount: 30000, Method: domain.MethodCash},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payments[0].PaymentNumber != "PAY-20240101-042" {
		t.Fatalf("expected client-assigned number kept, got %s", payments[0].PaymentNumber)
	}

	var stored domain.Payment
	if err := db.Where("payment_number = ?", "PAY-20240101-042").First(&stored).Error; err != nil {
		t.Fatalf("row not stored under explicit number: %v", err)
	}
	if stored.TotalAmount != 30000 {
		t.Fatalf("expected amount 30000, got %d", stored.TotalAmount)
	}
}

func TestUpsertExplicitNumberCollisionFallsBack(t *testing.T) {
	svc, db, node := setupPaymentService(t)
	ctx := context.Background()
	now := time.Now().UTC()

	occupied := domain.Payment{
		ID:            node.Generate(),
		PaymentNumber: "PAY-20240101-042",
		CustomerID:    node.Generate(),
		TotalAmount:   1000,
		Method:        domain.MethodCash,
		PaymentDate:   now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := db.Create(&occupied).Error; err != nil {
		t.Fatal(err)
	}

	// A racing writer claims the number between the lookup and the insert.
	repo := &racingRepo{Repository: repository.Provide()}
	svc.repo = repo

	payments, err := svc.UpsertForVisit(ctx, db, node.Generate(), node.Generate(), []domain.PaymentInput{
		{PaymentNumber: "PAY-20240101-042", TotalAmount: 9000, Method: domain.MethodCash},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(payments[0].PaymentNumber, "PAY-20240101-042-") {
		t.Fatalf("expected fallback suffix on collided number, got %s", payments[0].PaymentNumber)
	}
}

// racingRepo hides existing rows from FindByNumber so the insert collides.
type racingRepo struct {
	domain.Repository
}

func (r *racingRepo) FindByNumber(ctx context.Context, db *gorm.DB, number string) (*domain.Payment, error) {
	return nil, nil
}

func TestPaymentCollisionInsideEnclosingTransaction(t *testing.T) {
	svc, db, node := setupPaymentService(t)
	svc.repo = &staleSequenceRepo{Repository: repository.Provide()}
	ctx := context.Background()
	now := time.Now().UTC()
	day := now.Format("20060102")

	occupied := domain.Payment{
		ID:            node.Generate(),
		PaymentNumber: fmt.Sprintf("PAY-%s-001", day),
		CustomerID:    node.Generate(),
		TotalAmount:   5000,
		Method:        domain.MethodCash,
		PaymentDate:   now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := db.Create(&occupied).Error; err != nil {
		t.Fatal(err)
	}

	var number string
	err := db.Transaction(func(tx *gorm.DB) error {
		payments, err := svc.UpsertForVisit(ctx, tx, node.Generate(), node.Generate(), []domain.PaymentInput{
			{TotalAmount: 2500, Method: domain.MethodCash},
		})
		if err != nil {
			return err
		}
		number = payments[0].PaymentNumber
		return nil
	})
	if err != nil {
		t.Fatalf("expected outer transaction to survive the collision, got %v", err)
	}

	prefix := fmt.Sprintf("PAY-%s-001-", day)
	if !strings.HasPrefix(number, prefix) {
		t.Fatalf("expected fallback prefix %s, got %s", prefix, number)
	}
	var count int64
	db.Model(&domain.Payment{}).Count(&count)
	if count != 2 {
		t.Fatalf("expected both rows committed, got %d", count)
	}
}

func TestCreateStandalonePayment(t *testing.T) {
	svc, db, node := setupPaymentService(t)
	ctx := context.Background()
	customerID := node.Generate()

	payment, err := svc.Create(ctx, domain.CreatePaymentRequest{
		CustomerID:  customerID.String(),
		TotalAmount: 45000,
		Method:      domain.MethodTransfer,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	day := time.Now().UTC().Format("20060102")
	if want := fmt.Sprintf("PAY-%s-001", day); payment.PaymentNumber != want {
		t.Fatalf("expected generated number %s, got %s", want, payment.PaymentNumber)
	}
	if payment.VisitID != nil {
		t.Fatalf("expected no visit attached, got %v", payment.VisitID)
	}

	var stored domain.Payment
	if err := db.Where("id = ?", payment.ID).First(&stored).Error; err != nil {
		t.Fatalf("row not stored: %v", err)
	}

	if _, err := svc.Create(ctx, domain.CreatePaymentRequest{TotalAmount: 100, Method: domain.MethodCash}); err != domain.ErrInvalidCustomer {
		t.Fatalf("expected ErrInvalidCustomer, got %v", err)
	}
}
