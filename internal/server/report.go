package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fieldline/fieldline/internal/report"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *Server) ExportVisitsReport(c *gin.Context) {
	dateRange, err := reportDateRange(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	workbook, filename, err := s.reportSvc.ExportVisits(c.Request.Context(), dateRange)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		_ = s.auditSvc.AuditLog(c.Request.Context(), "report.export", "report", "visits", nil)
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, xlsxContentType, workbook)
}

func (s *Server) ExportOrdersReport(c *gin.Context) {
	dateRange, err := reportDateRange(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	workbook, filename, err := s.reportSvc.ExportOrders(c.Request.Context(), dateRange)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		_ = s.auditSvc.AuditLog(c.Request.Context(), "report.export", "report", "orders", nil)
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, xlsxContentType, workbook)
}

func reportDateRange(c *gin.Context) (report.DateRange, error) {
	var dateRange report.DateRange

	if from := strings.TrimSpace(c.Query("date_from")); from != "" {
		parsed, err := time.Parse("2006-01-02", from)
		if err != nil {
			return report.DateRange{}, newValidationError("date_from", "invalid_date_from", "invalid date_from")
		}
		dateRange.From = parsed
	}

	if to := strings.TrimSpace(c.Query("date_to")); to != "" {
		parsed, err := time.Parse("2006-01-02", to)
		if err != nil {
			return report.DateRange{}, newValidationError("date_to", "invalid_date_to", "invalid date_to")
		}
		dateRange.To = parsed.Add(24*time.Hour - time.Nanosecond)
	}

	return dateRange, nil
}
