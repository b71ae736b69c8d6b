package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/fieldline/fieldline/internal/actorctx"
	"github.com/fieldline/fieldline/internal/config"
	"github.com/fieldline/fieldline/internal/order/domain"
	"github.com/fieldline/fieldline/internal/order/repository"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupOrderService(t *testing.T, threshold int64) (*Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	dsn := fmt.Sprintf("file:orders_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatal(err)
	}
	if err := db.AutoMigrate(&domain.Order{}, &domain.OrderItem{}); err != nil {
		t.Fatal(err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatal(err)
	}

	sales := config.DefaultSalesConfig()
	sales.OrderApprovalThreshold = threshold

	svc := New(Params{
		DB:     db,
		Log:    zap.NewNop(),
		GenID:  node,
		Repo:   repository.Provide(),
		Config: config.NewStaticSalesConfigHolder(sales),
	}).(*Service)
	return svc, db, node
}

func orderInput(items ...domain.OrderItemInput) domain.OrderInput {
	return domain.OrderInput{Items: items}
}

func TestUpsertComputesTotals(t *testing.T) {
	svc, db, node := setupOrderService(t, 0)
	ctx := context.Background()

	productA := node.Generate()
	productB := node.Generate()

	input := domain.OrderInput{
		Shipping: 5000,
		Items: []domain.OrderItemInput{
			{ProductID: productA.String(), Quantity: 3, UnitPrice: 10000, Discount: 2000},
			{ProductID: productB.String(), Quantity: 2, UnitPrice: 7500, TaxAmount: 1650},
		},
	}
	orders, err := svc.UpsertForVisit(ctx, db, node.Generate(), node.Generate(), node.Generate(), []domain.OrderInput{input})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	order := orders[0]
	if order.Subtotal != 45000 {
		t.Fatalf("expected subtotal 45000, got %d", order.Subtotal)
	}
	if order.DiscountTotal != 2000 {
		t.Fatalf("expected discount 2000, got %d", order.DiscountTotal)
	}
	if order.TaxTotal != 1650 {
		t.Fatalf("expected tax 1650, got %d", order.TaxTotal)
	}
	if want := int64(45000 - 2000 + 1650 + 5000); order.Total != want {
		t.Fatalf("expected total %d, got %d", want, order.Total)
	}
	if len(order.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(order.Items))
	}
	if order.OrderNumber == "" {
		t.Fatal("expected generated order number")
	}
}

func TestApprovalThreshold(t *testing.T) {
	svc, db, node := setupOrderService(t, 100000)
	ctx := context.Background()

	below := orderInput(domain.OrderItemInput{
		ProductID: node.Generate().String(), Quantity: 1, UnitPrice: 50000,
	})
	above := orderInput(domain.OrderItemInput{
		ProductID: node.Generate().String(), Quantity: 4, UnitPrice: 50000,
	})

	orders, err := svc.UpsertForVisit(ctx, db, node.Generate(), node.Generate(), node.Generate(), []domain.OrderInput{below, above})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if orders[0].ApprovalStatus != domain.ApprovalNotRequired {
		t.Fatalf("expected not_required below threshold, got %s", orders[0].ApprovalStatus)
	}
	if orders[1].ApprovalStatus != domain.ApprovalPending {
		t.Fatalf("expected pending_approval at threshold, got %s", orders[1].ApprovalStatus)
	}
}

func TestUpdateByIDRecomputesAndInsertsNewItems(t *testing.T) {
	svc, db, node := setupOrderService(t, 0)
	ctx := context.Background()
	visitID := node.Generate()
	customerID := node.Generate()
	salesPersonID := node.Generate()

	created, err := svc.UpsertForVisit(ctx, db, visitID, customerID, salesPersonID, []domain.OrderInput{
		orderInput(domain.OrderItemInput{
			ProductID: node.Generate().String(), Quantity: 2, UnitPrice: 1000,
		}),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	order := created[0]

	update := domain.OrderInput{
		ID: order.ID.String(),
		Items: []domain.OrderItemInput{
			{ID: order.Items[0].ID.String(), ProductID: order.Items[0].ProductID.String(), Quantity: 5, UnitPrice: 1000},
			{ProductID: node.Generate().String(), Quantity: 1, UnitPrice: 300},
		},
	}
	updated, err := svc.UpsertForVisit(ctx, db, visitID, customerID, salesPersonID, []domain.OrderInput{update})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result := updated[0]
	if result.ID != order.ID {
		t.Fatalf("expected same order id, got %s", result.ID)
	}
	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items after update, got %d", len(result.Items))
	}
	if result.Subtotal != 5300 {
		t.Fatalf("expected subtotal 5300, got %d", result.Subtotal)
	}

	var count int64
	db.Model(&domain.Order{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected 1 order row, got %d", count)
	}
}

func TestUpdateRejectsForeignItemID(t *testing.T) {
	svc, db, node := setupOrderService(t, 0)
	ctx := context.Background()

	created, err := svc.UpsertForVisit(ctx, db, node.Generate(), node.Generate(), node.Generate(), []domain.OrderInput{
		orderInput(domain.OrderItemInput{
			ProductID: node.Generate().String(), Quantity: 1, UnitPrice: 100,
		}),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.UpsertForVisit(ctx, db, node.Generate(), node.Generate(), node.Generate(), []domain.OrderInput{{
		ID: created[0].ID.String(),
		Items: []domain.OrderItemInput{
			{ID: node.Generate().String(), ProductID: node.Generate().String(), Quantity: 1, UnitPrice: 100},
		},
	}})
	if err != domain.ErrItemNotInOrder {
		t.Fatalf("expected ErrItemNotInOrder, got %v", err)
	}
}

func TestApproveTransitions(t *testing.T) {
	svc, db, node := setupOrderService(t, 1000)
	approver := node.Generate()
	ctx := actorctx.WithActorID(context.Background(), approver)

	created, err := svc.UpsertForVisit(ctx, db, node.Generate(), node.Generate(), node.Generate(), []domain.OrderInput{
		orderInput(domain.OrderItemInput{
			ProductID: node.Generate().String(), Quantity: 10, UnitPrice: 500,
		}),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created[0].ApprovalStatus != domain.ApprovalPending {
		t.Fatalf("expected pending_approval, got %s", created[0].ApprovalStatus)
	}

	approved, err := svc.Approve(ctx, created[0].ID.String(), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if approved.ApprovalStatus != domain.ApprovalApproved {
		t.Fatalf("expected approved, got %s", approved.ApprovalStatus)
	}
	if approved.ApprovedBy == nil || *approved.ApprovedBy != approver {
		t.Fatal("expected approved_by set to acting user")
	}
	if approved.ApprovedAt == nil {
		t.Fatal("expected approved_at set")
	}

	if _, err := svc.Approve(ctx, created[0].ID.String(), false); err != domain.ErrNotPendingApproval {
		t.Fatalf("expected ErrNotPendingApproval on second decision, got %v", err)
	}
}

func TestUpsertRejectsEmptyOrInvalidItems(t *testing.T) {
	svc, db, node := setupOrderService(t, 0)
	ctx := context.Background()

	_, err := svc.UpsertForVisit(ctx, db, node.Generate(), node.Generate(), node.Generate(), []domain.OrderInput{{}})
	if err != domain.ErrNoItems {
		t.Fatalf("expected ErrNoItems, got %v", err)
	}

	_, err = svc.UpsertForVisit(ctx, db, node.Generate(), node.Generate(), node.Generate(), []domain.OrderInput{
		orderInput(domain.OrderItemInput{ProductID: node.Generate().String(), Quantity: 0, UnitPrice: 100}),
	})
	if err != domain.ErrInvalidQuantity {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
}
