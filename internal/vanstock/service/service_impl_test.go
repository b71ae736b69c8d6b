package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	productdomain "github.com/fieldline/fieldline/internal/product/domain"
	productrepo "github.com/fieldline/fieldline/internal/product/repository"
	"github.com/fieldline/fieldline/internal/vanstock/domain"
	"github.com/fieldline/fieldline/internal/vanstock/repository"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupVanStockService(t *testing.T) (domain.Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	dsn := fmt.Sprintf("file:vanstock_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatal(err)
	}
	err = db.AutoMigrate(
		&productdomain.Product{},
		&domain.StockDocument{},
		&domain.StockLine{},
		&domain.StockAllocation{},
	)
	if err != nil {
		t.Fatal(err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatal(err)
	}

	svc := New(Params{
		DB:          db,
		Log:         zap.NewNop(),
		GenID:       node,
		Repo:        repository.Provide(),
		ProductRepo: productrepo.Provide(),
	})
	return svc, db, node
}

func seedProduct(t *testing.T, db *gorm.DB, node *snowflake.Node, trackingType string) productdomain.Product {
	t.Helper()
	now := time.Now().UTC()
	product := productdomain.Product{
		ID:           node.Generate(),
		Code:         fmt.Sprintf("prod-%d", node.Generate()),
		Name:         "Es Krim Coklat",
		TrackingType: trackingType,
		Unit:         "pcs",
		CurrencyCode: "IDR",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatal(err)
	}
	return product
}

func TestPostLoadDocumentPersistsAllocations(t *testing.T) {
	svc, db, node := setupVanStockService(t)
	batchProduct := seedProduct(t, db, node, "batch")
	serialProduct := seedProduct(t, db, node, "serial")

	doc, lineErrors, err := svc.Post(context.Background(), domain.PostDocumentRequest{
		DocType:       domain.DocTypeLoad,
		SalesPersonID: node.Generate().String(),
		Lines: []domain.LineInput{
			{
				ProductID: batchProduct.ID.String(),
				Quantity:  10,
				Batches: []domain.BatchInput{
					{BatchNumber: "B-1", LotNumber: "L-1", Quantity: 6, MfgDate: "2026-01-01", ExpDate: "2027-01-01"},
					{BatchNumber: "B-2", LotNumber: "L-1", Quantity: 4, MfgDate: "2026-02-01", ExpDate: "2027-02-01"},
				},
			},
			{
				ProductID: serialProduct.ID.String(),
				Quantity:  2,
				Serials:   []string{"SN-1", "SN-2"},
			},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lineErrors) != 0 {
		t.Fatalf("expected no line errors, got %+v", lineErrors)
	}

	if doc.Status != domain.StatusPosted || doc.PostedAt == nil {
		t.Fatalf("expected posted document, got %+v", doc)
	}
	if doc.DocNumber == "" {
		t.Fatal("expected generated doc number")
	}
	if len(doc.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(doc.Lines))
	}

	var allocations int64
	db.Model(&domain.StockAllocation{}).Count(&allocations)
	if allocations != 4 {
		t.Fatalf("expected 4 allocation rows, got %d", allocations)
	}
}

func TestPostRejectsInvalidLinesWithoutWriting(t *testing.T) {
	svc, db, node := setupVanStockService(t)
	batchProduct := seedProduct(t, db, node, "batch")

	_, lineErrors, err := svc.Post(context.Background(), domain.PostDocumentRequest{
		DocType:       domain.DocTypeUnload,
		SalesPersonID: node.Generate().String(),
		Lines: []domain.LineInput{
			{
				ProductID: batchProduct.ID.String(),
				Quantity:  10,
				Batches: []domain.BatchInput{
					{BatchNumber: "B-1", LotNumber: "L-1", Quantity: 3, MfgDate: "2026-01-01", ExpDate: "2027-01-01"},
				},
			},
			{ProductID: node.Generate().String(), Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lineErrors) != 2 {
		t.Fatalf("expected 2 line errors, got %+v", lineErrors)
	}
	if lineErrors[0].Error != domain.ErrBatchQuantityMismatch.Error() {
		t.Fatalf("expected batch mismatch on line 0, got %q", lineErrors[0].Error)
	}
	if lineErrors[1].Error != domain.ErrUnknownProduct.Error() {
		t.Fatalf("expected unknown product on line 1, got %q", lineErrors[1].Error)
	}

	var documents int64
	db.Model(&domain.StockDocument{}).Count(&documents)
	if documents != 0 {
		t.Fatalf("expected no documents written, got %d", documents)
	}
}

func TestPostValidatesDocType(t *testing.T) {
	svc, _, node := setupVanStockService(t)

	_, _, err := svc.Post(context.Background(), domain.PostDocumentRequest{
		DocType:       "transfer",
		SalesPersonID: node.Generate().String(),
		Lines:         []domain.LineInput{{ProductID: node.Generate().String(), Quantity: 1}},
	})
	if err != domain.ErrInvalidDocType {
		t.Fatalf("expected ErrInvalidDocType, got %v", err)
	}

	_, _, err = svc.Post(context.Background(), domain.PostDocumentRequest{
		DocType:       domain.DocTypeLoad,
		SalesPersonID: node.Generate().String(),
	})
	if err != domain.ErrNoLines {
		t.Fatalf("expected ErrNoLines, got %v", err)
	}
}
