package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/fieldline/fieldline/internal/config"
	coolerdomain "github.com/fieldline/fieldline/internal/cooler/domain"
	coolerrepo "github.com/fieldline/fieldline/internal/cooler/repository"
	customerdomain "github.com/fieldline/fieldline/internal/customer/domain"
	customerrepo "github.com/fieldline/fieldline/internal/customer/repository"
	orderdomain "github.com/fieldline/fieldline/internal/order/domain"
	orderrepo "github.com/fieldline/fieldline/internal/order/repository"
	orderservice "github.com/fieldline/fieldline/internal/order/service"
	paymentdomain "github.com/fieldline/fieldline/internal/payment/domain"
	paymentrepo "github.com/fieldline/fieldline/internal/payment/repository"
	paymentservice "github.com/fieldline/fieldline/internal/payment/service"
	surveydomain "github.com/fieldline/fieldline/internal/survey/domain"
	surveyrepo "github.com/fieldline/fieldline/internal/survey/repository"
	surveyservice "github.com/fieldline/fieldline/internal/survey/service"
	"github.com/fieldline/fieldline/internal/visit/domain"
	"github.com/fieldline/fieldline/internal/visit/repository"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakeStorage struct {
	mu        sync.Mutex
	uploads   []string
	deletes   []string
	uploadErr error
	deleteErr error
}

func (f *fakeStorage) Upload(ctx context.Context, data []byte, name, contentType string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	url := "https://files.example.com/file/fieldline/" + name
	f.uploads = append(f.uploads, url)
	return url, nil
}

func (f *fakeStorage) Delete(ctx context.Context, fileURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, fileURL)
	return f.deleteErr
}

type bulkFixture struct {
	svc     *Service
	db      *gorm.DB
	node    *snowflake.Node
	storage *fakeStorage
}

func setupBulkFixture(t *testing.T) *bulkFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:visits_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatal(err)
	}
	err = db.AutoMigrate(
		&customerdomain.Customer{},
		&domain.Visit{},
		&orderdomain.Order{},
		&orderdomain.OrderItem{},
		&paymentdomain.Payment{},
		&coolerdomain.Cooler{},
		&coolerdomain.CoolerInspection{},
		&surveydomain.SurveyResponse{},
		&surveydomain.SurveyAnswer{},
	)
	if err != nil {
		t.Fatal(err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatal(err)
	}
	log := zap.NewNop()
	sales := config.NewStaticSalesConfigHolder(config.DefaultSalesConfig())

	orders := orderservice.New(orderservice.Params{
		DB: db, Log: log, GenID: node, Repo: orderrepo.Provide(), Config: sales,
	})
	payments := paymentservice.New(paymentservice.Params{
		DB: db, Log: log, GenID: node, Repo: paymentrepo.Provide(),
	})
	surveys := surveyservice.New(surveyservice.Params{
		DB: db, Log: log, GenID: node, Repo: surveyrepo.Provide(),
	})

	store := &fakeStorage{}
	svc := New(Params{
		DB:           db,
		Log:          log,
		GenID:        node,
		Repo:         repository.Provide(),
		CustomerRepo: customerrepo.Provide(),
		CoolerRepo:   coolerrepo.Provide(),
		OrderRepo:    orderrepo.Provide(),
		PaymentRepo:  paymentrepo.Provide(),
		SurveyRepo:   surveyrepo.Provide(),
		Orders:       orders,
		Payments:     payments,
		Surveys:      surveys,
		Storage:      store,
		Config:       sales,
	}).(*Service)

	return &bulkFixture{svc: svc, db: db, node: node, storage: store}
}

func (f *bulkFixture) seedCustomer(t *testing.T) customerdomain.Customer {
	t.Helper()
	now := time.Now().UTC()
	customer := customerdomain.Customer{
		ID:        f.node.Generate(),
		Code:      fmt.Sprintf("cust-%d", f.node.Generate()),
		Name:      "Toko Sumber Rejeki",
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := f.db.Create(&customer).Error; err != nil {
		t.Fatal(err)
	}
	return customer
}

func TestBulkUpsertSummaryAccountsForEveryElement(t *testing.T) {
	f := setupBulkFixture(t)
	customer := f.seedCustomer(t)
	salesPerson := f.node.Generate()

	elements := []domain.BulkElement{
		{Visit: domain.VisitInput{CustomerID: customer.ID.String(), SalesPersonID: salesPerson.String()}},
		{Visit: domain.VisitInput{SalesPersonID: salesPerson.String()}},
		{Visit: domain.VisitInput{CustomerID: customer.ID.String(), SalesPersonID: salesPerson.String()}},
	}

	result, err := f.svc.BulkUpsert(context.Background(), elements)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sum := result.Summary
	if sum.Total != 3 {
		t.Fatalf("expected total 3, got %d", sum.Total)
	}
	if sum.Created+sum.Updated+sum.Failed != sum.Total {
		t.Fatalf("summary does not add up: %+v", sum)
	}
	if sum.Created != 2 || sum.Failed != 1 {
		t.Fatalf("expected 2 created and 1 failed, got %+v", sum)
	}
	if len(result.Failed) != 1 || result.Failed[0].Index != 1 {
		t.Fatalf("expected the second element in the failed list, got %+v", result.Failed)
	}
	if result.Failed[0].Error == "" {
		t.Fatal("expected error message on failed element")
	}
}

func TestBulkUpsertMissingCustomerWritesNoRows(t *testing.T) {
	f := setupBulkFixture(t)
	salesPerson := f.node.Generate()

	result, err := f.svc.BulkUpsert(context.Background(), []domain.BulkElement{
		{
			Visit: domain.VisitInput{SalesPersonID: salesPerson.String()},
			Orders: []orderdomain.OrderInput{{
				Items: []orderdomain.OrderItemInput{{ProductID: f.node.Generate().String(), Quantity: 1, UnitPrice: 100}},
			}},
			Payments: []paymentdomain.PaymentInput{{TotalAmount: 100}},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Summary.Failed != 1 {
		t.Fatalf("expected 1 failed, got %+v", result.Summary)
	}

	var visits, orders, payments int64
	f.db.Model(&domain.Visit{}).Count(&visits)
	f.db.Model(&orderdomain.Order{}).Count(&orders)
	f.db.Model(&paymentdomain.Payment{}).Count(&payments)
	if visits != 0 || orders != 0 || payments != 0 {
		t.Fatalf("expected no rows, got visits=%d orders=%d payments=%d", visits, orders, payments)
	}
}

func TestBulkUpsertRoundTrip(t *testing.T) {
	f := setupBulkFixture(t)
	customer := f.seedCustomer(t)
	salesPerson := f.node.Generate()

	element := domain.BulkElement{
		Visit: domain.VisitInput{
			CustomerID:    customer.ID.String(),
			SalesPersonID: salesPerson.String(),
			VisitDate:     "2026-08-25",
			Status:        domain.StatusCompleted,
		},
		Orders: []orderdomain.OrderInput{{
			Items: []orderdomain.OrderItemInput{
				{ProductID: f.node.Generate().String(), Quantity: 3, UnitPrice: 12000},
				{ProductID: f.node.Generate().String(), Quantity: 1, UnitPrice: 45000},
			},
		}},
		Payments: []paymentdomain.PaymentInput{{TotalAmount: 81000, Method: paymentdomain.MethodCash}},
		CoolerInspections: []domain.InspectionInput{{
			SerialNumber: "CL-9931", IsStocked: true,
		}},
		Survey: &surveydomain.SurveyInput{
			SurveyCode: "availability",
			Answers:    map[string]string{"q1": "yes"},
		},
	}

	result, err := f.svc.BulkUpsert(context.Background(), []domain.BulkElement{element})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Summary.Created != 1 {
		t.Fatalf("expected 1 created, got %+v", result.Summary)
	}

	visitID := result.Created[0].Detail.Visit.ID
	detail, err := f.svc.GetByID(context.Background(), visitID.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(detail.Orders) != 1 || len(detail.Orders[0].Items) != 2 {
		t.Fatalf("expected 1 order with 2 items, got %+v", detail.Orders)
	}
	if len(detail.Payments) != 1 || detail.Payments[0].TotalAmount != 81000 {
		t.Fatalf("expected payment of 81000, got %+v", detail.Payments)
	}
	if len(detail.Inspections) != 1 {
		t.Fatalf("expected 1 inspection, got %d", len(detail.Inspections))
	}
	if len(detail.Surveys) != 1 || len(detail.Surveys[0].Answers) != 1 {
		t.Fatalf("expected 1 survey with 1 answer, got %+v", detail.Surveys)
	}

	// Unknown serial numbers register the cooler inline.
	var coolers int64
	f.db.Model(&coolerdomain.Cooler{}).Count(&coolers)
	if coolers != 1 {
		t.Fatalf("expected inline cooler creation, got %d coolers", coolers)
	}
}

func TestBulkUpsertUpdateKeepsOneVisitRow(t *testing.T) {
	f := setupBulkFixture(t)
	customer := f.seedCustomer(t)
	salesPerson := f.node.Generate()

	created, err := f.svc.BulkUpsert(context.Background(), []domain.BulkElement{
		{Visit: domain.VisitInput{CustomerID: customer.ID.String(), SalesPersonID: salesPerson.String()}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	visitID := created.Created[0].Detail.Visit.ID

	updated, err := f.svc.BulkUpsert(context.Background(), []domain.BulkElement{
		{Visit: domain.VisitInput{
			ID:            visitID.String(),
			CustomerID:    customer.ID.String(),
			SalesPersonID: salesPerson.String(),
			Status:        domain.StatusCompleted,
		}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Summary.Updated != 1 {
		t.Fatalf("expected 1 updated, got %+v", updated.Summary)
	}
	if updated.Updated[0].Detail.Visit.Status != domain.StatusCompleted {
		t.Fatalf("expected completed status, got %s", updated.Updated[0].Detail.Visit.Status)
	}

	var count int64
	f.db.Model(&domain.Visit{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected 1 visit row, got %d", count)
	}
}

func TestBulkUpsertGeofenceEnforcement(t *testing.T) {
	f := setupBulkFixture(t)
	sales := config.DefaultSalesConfig()
	sales.EnforceGeofence = true
	sales.CheckInRadiusMeters = 100
	f.svc.config = config.NewStaticSalesConfigHolder(sales)

	lat, lng := -6.1753924, 106.8271528
	customer := f.seedCustomer(t)
	f.db.Model(&customerdomain.Customer{}).
		Where("id = ?", customer.ID).
		Updates(map[string]any{"latitude": lat, "longitude": lng})

	farLat, farLng := -6.2, 106.9
	result, err := f.svc.BulkUpsert(context.Background(), []domain.BulkElement{
		{Visit: domain.VisitInput{
			CustomerID:       customer.ID.String(),
			SalesPersonID:    f.node.Generate().String(),
			CheckInLatitude:  &farLat,
			CheckInLongitude: &farLng,
		}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Summary.Failed != 1 {
		t.Fatalf("expected geofence failure, got %+v", result.Summary)
	}
	if result.Failed[0].Error != domain.ErrOutsideGeofence.Error() {
		t.Fatalf("expected geofence error, got %q", result.Failed[0].Error)
	}

	closeLat, closeLng := lat+0.0001, lng
	result, err = f.svc.BulkUpsert(context.Background(), []domain.BulkElement{
		{Visit: domain.VisitInput{
			CustomerID:       customer.ID.String(),
			SalesPersonID:    f.node.Generate().String(),
			CheckInLatitude:  &closeLat,
			CheckInLongitude: &closeLng,
		}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Summary.Created != 1 {
		t.Fatalf("expected check-in inside radius to pass, got %+v", result.Summary)
	}
	if result.Created[0].Detail.Visit.CheckInDistanceM == nil {
		t.Fatal("expected check-in distance recorded")
	}
}

func TestBulkUpsertUploadFailureFailsElement(t *testing.T) {
	f := setupBulkFixture(t)
	customer := f.seedCustomer(t)
	f.storage.uploadErr = errors.New("bucket unavailable")

	result, err := f.svc.BulkUpsert(context.Background(), []domain.BulkElement{
		{
			Visit: domain.VisitInput{
				CustomerID:    customer.ID.String(),
				SalesPersonID: f.node.Generate().String(),
			},
			Images: domain.ElementImages{
				Self: []domain.ImageFile{{Name: "selfie.jpg", ContentType: "image/jpeg", Data: []byte("x")}},
			},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Summary.Failed != 1 {
		t.Fatalf("expected element failure on upload error, got %+v", result.Summary)
	}

	var visits int64
	f.db.Model(&domain.Visit{}).Count(&visits)
	if visits != 0 {
		t.Fatalf("expected no visit rows, got %d", visits)
	}
}

func TestDeleteSurvivesStorageFailures(t *testing.T) {
	f := setupBulkFixture(t)
	customer := f.seedCustomer(t)

	created, err := f.svc.BulkUpsert(context.Background(), []domain.BulkElement{
		{
			Visit: domain.VisitInput{
				CustomerID:    customer.ID.String(),
				SalesPersonID: f.node.Generate().String(),
			},
			Images: domain.ElementImages{
				Self: []domain.ImageFile{{Name: "selfie.jpg", ContentType: "image/jpeg", Data: []byte("x")}},
			},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	visitID := created.Created[0].Detail.Visit.ID

	f.storage.deleteErr = errors.New("object store down")
	if err := f.svc.Delete(context.Background(), visitID.String()); err != nil {
		t.Fatalf("expected delete to succeed despite storage failure, got %v", err)
	}

	var visits int64
	f.db.Model(&domain.Visit{}).Count(&visits)
	if visits != 0 {
		t.Fatalf("expected visit row deleted, got %d", visits)
	}
	if len(f.storage.deletes) == 0 {
		t.Fatal("expected storage delete attempts")
	}
}

func TestBulkUpsertBatchLimits(t *testing.T) {
	f := setupBulkFixture(t)

	if _, err := f.svc.BulkUpsert(context.Background(), nil); err != domain.ErrEmptyBatch {
		t.Fatalf("expected ErrEmptyBatch, got %v", err)
	}

	sales := config.DefaultSalesConfig()
	sales.MaxBulkBatchSize = 2
	f.svc.config = config.NewStaticSalesConfigHolder(sales)

	elements := make([]domain.BulkElement, 3)
	if _, err := f.svc.BulkUpsert(context.Background(), elements); err != domain.ErrBatchTooLarge {
		t.Fatalf("expected ErrBatchTooLarge, got %v", err)
	}
}
