package server

import (
	"net/http"
	"strings"

	taxratedomain "github.com/fieldline/fieldline/internal/taxrate/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) ListTaxRates(c *gin.Context) {
	rates, err := s.taxRateSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": rates})
}

func (s *Server) CreateTaxRate(c *gin.Context) {
	var req taxratedomain.CreateTaxRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	rate, err := s.taxRateSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		_ = s.auditSvc.AuditLog(c.Request.Context(), "tax_rate.create", "tax_rate", rate.ID.String(), map[string]any{
			"name": rate.Name,
			"rate": rate.Rate,
		})
	}

	c.JSON(http.StatusCreated, gin.H{"data": rate})
}

func (s *Server) GetTaxRateByID(c *gin.Context) {
	rate, err := s.taxRateSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": rate})
}

func (s *Server) UpdateTaxRate(c *gin.Context) {
	var req taxratedomain.UpdateTaxRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = strings.TrimSpace(c.Param("id"))

	rate, err := s.taxRateSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": rate})
}

func (s *Server) DeleteTaxRate(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := s.taxRateSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		_ = s.auditSvc.AuditLog(c.Request.Context(), "tax_rate.delete", "tax_rate", id, nil)
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}
