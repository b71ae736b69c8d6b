package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/fieldline/fieldline/internal/actorctx"
	"github.com/fieldline/fieldline/internal/config"
	"github.com/fieldline/fieldline/internal/order/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	GenID  *snowflake.Node
	Repo   domain.Repository
	Config *config.SalesConfigHolder
}

type Service struct {
	db     *gorm.DB
	log    *zap.Logger
	genID  *snowflake.Node
	repo   domain.Repository
	config *config.SalesConfigHolder
}

func New(p Params) domain.Service {
	return &Service{
		db:     p.DB,
		log:    p.Log.Named("order.service"),
		genID:  p.GenID,
		repo:   p.Repo,
		config: p.Config,
	}
}

func (s *Service) UpsertForVisit(ctx context.Context, tx *gorm.DB, visitID, customerID, salesPersonID snowflake.ID, inputs []domain.OrderInput) ([]domain.Order, error) {
	results := make([]domain.Order, 0, len(inputs))
	for _, input := range inputs {
		order, err := s.upsertOne(ctx, tx, visitID, customerID, salesPersonID, input)
		if err != nil {
			return nil, err
		}
		results = append(results, order)
	}
	return results, nil
}

func (s *Service) upsertOne(ctx context.Context, tx *gorm.DB, visitID, customerID, salesPersonID snowflake.ID, input domain.OrderInput) (domain.Order, error) {
	if len(input.Items) == 0 {
		return domain.Order{}, domain.ErrNoItems
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return domain.Order{}, domain.ErrInvalidQuantity
		}
	}

	if strings.TrimSpace(input.ID) != "" {
		return s.updateExisting(ctx, tx, visitID, input)
	}
	return s.insertNew(ctx, tx, visitID, customerID, salesPersonID, input)
}

func (s *Service) insertNew(ctx context.Context, tx *gorm.DB, visitID, customerID, salesPersonID snowflake.ID, input domain.OrderInput) (domain.Order, error) {
	now := time.Now().UTC()

	order := domain.Order{
		ID:            s.genID.Generate(),
		VisitID:       &visitID,
		CustomerID:    customerID,
		SalesPersonID: salesPersonID,
		Status:        domain.StatusDraft,
		Priority:      domain.PriorityNormal,
		ShippingTotal: input.Shipping,
		CurrencyCode:  "IDR",
		Notes:         strings.TrimSpace(input.Notes),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	order.OrderNumber = fmt.Sprintf("ORD-%s-%06d", now.Format("20060102"), int64(order.ID)%1000000)

	if status := strings.TrimSpace(input.Status); status != "" {
		if !domain.ValidStatus(status) {
			return domain.Order{}, domain.ErrInvalidStatus
		}
		order.Status = status
	}
	if priority := strings.TrimSpace(input.Priority); priority != "" {
		if !domain.ValidPriority(priority) {
			return domain.Order{}, domain.ErrInvalidPriority
		}
		order.Priority = priority
	}

	items := make([]domain.OrderItem, 0, len(input.Items))
	for _, in := range input.Items {
		productID, err := snowflake.ParseString(strings.TrimSpace(in.ProductID))
		if err != nil || productID == 0 {
			return domain.Order{}, domain.ErrInvalidID
		}
		items = append(items, domain.OrderItem{
			ID:        s.genID.Generate(),
			OrderID:   order.ID,
			ProductID: productID,
			Quantity:  in.Quantity,
			UnitPrice: in.UnitPrice,
			Discount:  in.Discount,
			TaxAmount: in.TaxAmount,
			LineTotal: in.Quantity*in.UnitPrice - in.Discount + in.TaxAmount,
		})
	}

	recomputeTotals(&order, items)
	s.applyApprovalPolicy(&order)

	if err := s.repo.Insert(ctx, tx, &order); err != nil {
		return domain.Order{}, err
	}
	if err := s.repo.InsertItems(ctx, tx, items); err != nil {
		return domain.Order{}, err
	}
	order.Items = items
	return order, nil
}

func (s *Service) updateExisting(ctx context.Context, tx *gorm.DB, visitID snowflake.ID, input domain.OrderInput) (domain.Order, error) {
	id, err := parseID(input.ID)
	if err != nil {
		return domain.Order{}, err
	}

	order, err := s.repo.FindByID(ctx, tx, id)
	if err != nil {
		return domain.Order{}, err
	}
	if order == nil {
		return domain.Order{}, domain.ErrNotFound
	}

	existing := make(map[snowflake.ID]*domain.OrderItem, len(order.Items))
	for i := range order.Items {
		existing[order.Items[i].ID] = &order.Items[i]
	}

	var inserts []domain.OrderItem
	for _, in := range input.Items {
		productID, err := snowflake.ParseString(strings.TrimSpace(in.ProductID))
		if err != nil || productID == 0 {
			return domain.Order{}, domain.ErrInvalidID
		}
		lineTotal := in.Quantity*in.UnitPrice - in.Discount + in.TaxAmount

		if raw := strings.TrimSpace(in.ID); raw != "" {
			itemID, err := parseID(raw)
			if err != nil {
				return domain.Order{}, err
			}
			item, ok := existing[itemID]
			if !ok {
				return domain.Order{}, domain.ErrItemNotInOrder
			}
			item.ProductID = productID
			item.Quantity = in.Quantity
			item.UnitPrice = in.UnitPrice
			item.Discount = in.Discount
			item.TaxAmount = in.TaxAmount
			item.LineTotal = lineTotal
			if err := s.repo.UpdateItem(ctx, tx, item); err != nil {
				return domain.Order{}, err
			}
			continue
		}

		inserts = append(inserts, domain.OrderItem{
			ID:        s.genID.Generate(),
			OrderID:   order.ID,
			ProductID: productID,
			Quantity:  in.Quantity,
			UnitPrice: in.UnitPrice,
			Discount:  in.Discount,
			TaxAmount: in.TaxAmount,
			LineTotal: lineTotal,
		})
	}
	if err := s.repo.InsertItems(ctx, tx, inserts); err != nil {
		return domain.Order{}, err
	}

	order.VisitID = &visitID
	if status := strings.TrimSpace(input.Status); status != "" {
		if !domain.ValidStatus(status) {
			return domain.Order{}, domain.ErrInvalidStatus
		}
		order.Status = status
	}
	if priority := strings.TrimSpace(input.Priority); priority != "" {
		if !domain.ValidPriority(priority) {
			return domain.Order{}, domain.ErrInvalidPriority
		}
		order.Priority = priority
	}
	if notes := strings.TrimSpace(input.Notes); notes != "" {
		order.Notes = notes
	}
	if input.Shipping > 0 {
		order.ShippingTotal = input.Shipping
	}
	order.UpdatedAt = time.Now().UTC()

	items, err := s.repo.ItemsByOrder(ctx, tx, order.ID)
	if err != nil {
		return domain.Order{}, err
	}
	recomputeTotals(order, items)
	if order.ApprovalStatus != domain.ApprovalApproved && order.ApprovalStatus != domain.ApprovalRejected {
		s.applyApprovalPolicy(order)
	}

	if err := s.repo.Update(ctx, tx, order); err != nil {
		return domain.Order{}, err
	}
	order.Items = items
	return *order, nil
}

func recomputeTotals(order *domain.Order, items []domain.OrderItem) {
	var subtotal, discount, tax int64
	for _, item := range items {
		subtotal += item.Quantity * item.UnitPrice
		discount += item.Discount
		tax += item.TaxAmount
	}
	order.Subtotal = subtotal
	order.DiscountTotal = discount
	order.TaxTotal = tax
	order.Total = subtotal - discount + tax + order.ShippingTotal
}

// applyApprovalPolicy flags orders at or above the configured threshold for
// supervisor approval. Already approved or rejected orders are never reset.
func (s *Service) applyApprovalPolicy(order *domain.Order) {
	threshold := config.DefaultSalesConfig().OrderApprovalThreshold
	if s.config != nil {
		threshold = s.config.Get().OrderApprovalThreshold
	}
	if threshold > 0 && order.Total >= threshold {
		order.ApprovalStatus = domain.ApprovalPending
	} else {
		order.ApprovalStatus = domain.ApprovalNotRequired
	}
}

func (s *Service) GetByID(ctx context.Context, rawID string) (domain.Order, error) {
	id, err := parseID(rawID)
	if err != nil {
		return domain.Order{}, err
	}

	order, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Order{}, err
	}
	if order == nil {
		return domain.Order{}, domain.ErrNotFound
	}
	return *order, nil
}

func (s *Service) ListByVisit(ctx context.Context, rawVisitID string) ([]domain.Order, error) {
	visitID, err := parseID(rawVisitID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByVisit(ctx, s.db, visitID)
}

func (s *Service) ListByCustomer(ctx context.Context, rawCustomerID string) ([]domain.Order, error) {
	customerID, err := parseID(rawCustomerID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByCustomer(ctx, s.db, customerID)
}

func (s *Service) Approve(ctx context.Context, rawID string, approve bool) (domain.Order, error) {
	id, err := parseID(rawID)
	if err != nil {
		return domain.Order{}, err
	}

	order, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Order{}, err
	}
	if order == nil {
		return domain.Order{}, domain.ErrNotFound
	}
	if order.ApprovalStatus != domain.ApprovalPending {
		return domain.Order{}, domain.ErrNotPendingApproval
	}

	now := time.Now().UTC()
	if approve {
		order.ApprovalStatus = domain.ApprovalApproved
	} else {
		order.ApprovalStatus = domain.ApprovalRejected
	}
	order.ApprovedAt = &now
	if actorID, ok := actorctx.ActorIDFromContext(ctx); ok {
		order.ApprovedBy = &actorID
	}
	order.UpdatedAt = now

	if err := s.repo.Update(ctx, s.db, order); err != nil {
		return domain.Order{}, err
	}
	return *order, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
