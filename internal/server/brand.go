package server

import (
	"net/http"
	"strings"

	branddomain "github.com/fieldline/fieldline/internal/brand/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) ListBrands(c *gin.Context) {
	brands, err := s.brandSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": brands})
}

func (s *Server) CreateBrand(c *gin.Context) {
	var req branddomain.CreateBrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	brand, err := s.brandSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		_ = s.auditSvc.AuditLog(c.Request.Context(), "brand.create", "brand", brand.ID.String(), map[string]any{
			"name": brand.Name,
		})
	}

	c.JSON(http.StatusCreated, gin.H{"data": brand})
}

func (s *Server) GetBrandByID(c *gin.Context) {
	brand, err := s.brandSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": brand})
}

func (s *Server) UpdateBrand(c *gin.Context) {
	var req branddomain.UpdateBrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = strings.TrimSpace(c.Param("id"))

	brand, err := s.brandSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": brand})
}

func (s *Server) DeleteBrand(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := s.brandSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		_ = s.auditSvc.AuditLog(c.Request.Context(), "brand.delete", "brand", id, nil)
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}
