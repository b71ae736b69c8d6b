package server

import (
	"net/http"
	"strings"

	visitdomain "github.com/fieldline/fieldline/internal/visit/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) ListVisits(c *gin.Context) {
	var req visitdomain.ListVisitRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	visits, pageInfo, err := s.visitSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":      visits,
		"page_info": pageInfo,
	})
}

func (s *Server) GetVisitByID(c *gin.Context) {
	detail, err := s.visitSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": detail})
}

func (s *Server) DeleteVisit(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := s.visitSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		_ = s.auditSvc.AuditLog(c.Request.Context(), "visit.delete", "visit", id, nil)
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}
