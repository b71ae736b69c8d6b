package server

import (
	"net/http"
	"strings"

	companydomain "github.com/fieldline/fieldline/internal/company/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) ListCompanies(c *gin.Context) {
	companies, err := s.companySvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": companies})
}

func (s *Server) CreateCompany(c *gin.Context) {
	var req companydomain.CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	company, err := s.companySvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		_ = s.auditSvc.AuditLog(c.Request.Context(), "company.create", "company", company.ID.String(), map[string]any{
			"name": company.Name,
		})
	}

	c.JSON(http.StatusCreated, gin.H{"data": company})
}

func (s *Server) GetCompanyByID(c *gin.Context) {
	company, err := s.companySvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": company})
}

func (s *Server) UpdateCompany(c *gin.Context) {
	var req companydomain.UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = strings.TrimSpace(c.Param("id"))

	company, err := s.companySvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		_ = s.auditSvc.AuditLog(c.Request.Context(), "company.update", "company", company.ID.String(), nil)
	}

	c.JSON(http.StatusOK, gin.H{"data": company})
}
