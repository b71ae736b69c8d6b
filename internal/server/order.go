package server

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	orderdomain "github.com/fieldline/fieldline/internal/order/domain"
	paymentdomain "github.com/fieldline/fieldline/internal/payment/domain"
	"github.com/fieldline/fieldline/internal/providers/pdf"
	"github.com/gin-gonic/gin"
)

func (s *Server) ListOrders(c *gin.Context) {
	var query struct {
		VisitID    string `form:"visit_id"`
		CustomerID string `form:"customer_id"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	var (
		orders []orderdomain.Order
		err    error
	)
	switch {
	case strings.TrimSpace(query.VisitID) != "":
		orders, err = s.orderSvc.ListByVisit(c.Request.Context(), query.VisitID)
	case strings.TrimSpace(query.CustomerID) != "":
		orders, err = s.orderSvc.ListByCustomer(c.Request.Context(), query.CustomerID)
	default:
		AbortWithError(c, newValidationError("visit_id", "missing_filter", "visit_id or customer_id is required"))
		return
	}
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": orders})
}

func (s *Server) GetOrderByID(c *gin.Context) {
	order, err := s.orderSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": order})
}

type approveOrderRequest struct {
	Approve *bool `json:"approve"`
}

func (s *Server) ApproveOrder(c *gin.Context) {
	var req approveOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if req.Approve == nil {
		AbortWithError(c, newValidationError("approve", "missing_approve", "approve is required"))
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	order, err := s.orderSvc.Approve(c.Request.Context(), id, *req.Approve)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		_ = s.auditSvc.AuditLog(c.Request.Context(), "order.approve", "order", order.ID.String(), map[string]any{
			"approved":     *req.Approve,
			"order_number": order.OrderNumber,
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": order})
}

func (s *Server) OrderReceipt(c *gin.Context) {
	order, err := s.orderSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	data, err := s.buildReceiptData(c, order)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	receipt, err := s.receipts.GenerateOrderReceipt(c.Request.Context(), data)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	body, err := io.ReadAll(receipt)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", order.OrderNumber))
	c.Data(http.StatusOK, "application/pdf", body)
}

func (s *Server) buildReceiptData(c *gin.Context, order orderdomain.Order) (pdf.ReceiptData, error) {
	customer, err := s.customerSvc.GetByID(c.Request.Context(), order.CustomerID.String())
	if err != nil {
		return pdf.ReceiptData{}, err
	}

	payment := s.paymentForOrder(c, order)

	items := make([]pdf.ReceiptItem, 0, len(order.Items))
	for _, item := range order.Items {
		description := item.ProductID.String()
		if product, err := s.productSvc.GetByID(c.Request.Context(), item.ProductID.String()); err == nil {
			description = product.Name
		}
		items = append(items, pdf.ReceiptItem{
			Description: description,
			Qty:         item.Quantity,
			UnitPrice:   formatAmount(item.UnitPrice, order.CurrencyCode),
			Amount:      formatAmount(item.LineTotal, order.CurrencyCode),
		})
	}

	data := pdf.ReceiptData{
		OrderNumber:  order.OrderNumber,
		CustomerName: customer.Name,
		SalesPerson:  order.SalesPersonID.String(),
		Items:        items,
		Subtotal:     formatAmount(order.Subtotal, order.CurrencyCode),
		Discount:     formatAmount(order.DiscountTotal, order.CurrencyCode),
		Tax:          formatAmount(order.TaxTotal, order.CurrencyCode),
		Total:        formatAmount(order.Total, order.CurrencyCode),
	}
	if payment != nil {
		data.PaymentNumber = payment.PaymentNumber
		data.Method = payment.Method
		data.PaidAt = payment.PaymentDate.Format("2006-01-02")
	}

	return data, nil
}

func (s *Server) paymentForOrder(c *gin.Context, order orderdomain.Order) *paymentdomain.Payment {
	if order.VisitID == nil {
		return nil
	}
	payments, err := s.paymentSvc.ListByVisit(c.Request.Context(), order.VisitID.String())
	if err != nil {
		return nil
	}
	for i := range payments {
		if payments[i].OrderID != nil && *payments[i].OrderID == order.ID {
			return &payments[i]
		}
	}
	return nil
}

func formatAmount(amount int64, currency string) string {
	if currency == "" {
		return fmt.Sprintf("%d", amount)
	}
	return fmt.Sprintf("%s %d", currency, amount)
}
