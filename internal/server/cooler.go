package server

import (
	"net/http"
	"strings"

	coolerdomain "github.com/fieldline/fieldline/internal/cooler/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) ListCoolers(c *gin.Context) {
	coolers, err := s.coolerSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": coolers})
}

func (s *Server) CreateCooler(c *gin.Context) {
	var req coolerdomain.CreateCoolerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	cooler, err := s.coolerSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		_ = s.auditSvc.AuditLog(c.Request.Context(), "cooler.create", "cooler", cooler.ID.String(), map[string]any{
			"serial_number": cooler.SerialNumber,
		})
	}

	c.JSON(http.StatusCreated, gin.H{"data": cooler})
}

func (s *Server) GetCoolerByID(c *gin.Context) {
	cooler, err := s.coolerSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": cooler})
}

func (s *Server) UpdateCooler(c *gin.Context) {
	var req coolerdomain.UpdateCoolerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = strings.TrimSpace(c.Param("id"))

	cooler, err := s.coolerSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": cooler})
}

func (s *Server) DeleteCooler(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := s.coolerSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		_ = s.auditSvc.AuditLog(c.Request.Context(), "cooler.delete", "cooler", id, nil)
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}
