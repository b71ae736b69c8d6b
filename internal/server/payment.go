package server

import (
	"net/http"
	"strings"

	paymentdomain "github.com/fieldline/fieldline/internal/payment/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) ListPayments(c *gin.Context) {
	var query struct {
		VisitID    string `form:"visit_id"`
		CustomerID string `form:"customer_id"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	var (
		payments []paymentdomain.Payment
		err      error
	)
	switch {
	case strings.TrimSpace(query.VisitID) != "":
		payments, err = s.paymentSvc.ListByVisit(c.Request.Context(), query.VisitID)
	case strings.TrimSpace(query.CustomerID) != "":
		payments, err = s.paymentSvc.ListByCustomer(c.Request.Context(), query.CustomerID)
	default:
		AbortWithError(c, newValidationError("visit_id", "missing_filter", "visit_id or customer_id is required"))
		return
	}
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": payments})
}

func (s *Server) CreatePayment(c *gin.Context) {
	var req paymentdomain.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	payment, err := s.paymentSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		_ = s.auditSvc.AuditLog(c.Request.Context(), "payment.create", "payment", payment.ID.String(), map[string]any{
			"payment_number": payment.PaymentNumber,
			"total_amount":   payment.TotalAmount,
		})
	}

	c.JSON(http.StatusCreated, gin.H{"data": payment})
}

func (s *Server) GetPaymentByID(c *gin.Context) {
	payment, err := s.paymentSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": payment})
}
