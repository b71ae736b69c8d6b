package server

import (
	"net/http"
	"strings"

	vanstockdomain "github.com/fieldline/fieldline/internal/vanstock/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) PostStockDocument(c *gin.Context) {
	var req vanstockdomain.PostDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	document, lineErrors, err := s.vanStockSvc.Post(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if len(lineErrors) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"type":    "validation_error",
				"message": "stock document rejected",
				"lines":   lineErrors,
			},
		})
		return
	}

	if s.auditSvc != nil {
		_ = s.auditSvc.AuditLog(c.Request.Context(), "van_stock.post", "stock_document", document.ID.String(), map[string]any{
			"doc_number": document.DocNumber,
			"doc_type":   document.DocType,
			"lines":      len(document.Lines),
		})
	}

	c.JSON(http.StatusCreated, gin.H{"data": document})
}

func (s *Server) ListStockDocuments(c *gin.Context) {
	salesPersonID := strings.TrimSpace(c.Query("sales_person_id"))
	if salesPersonID == "" {
		AbortWithError(c, newValidationError("sales_person_id", "missing_sales_person_id", "sales_person_id is required"))
		return
	}

	documents, err := s.vanStockSvc.ListBySalesPerson(c.Request.Context(), salesPersonID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": documents})
}

func (s *Server) GetStockDocumentByID(c *gin.Context) {
	document, err := s.vanStockSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": document})
}
