package report

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	orderdomain "github.com/fieldline/fieldline/internal/order/domain"
	visitdomain "github.com/fieldline/fieldline/internal/visit/domain"
	"github.com/xuri/excelize/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB  *gorm.DB
	Log *zap.Logger
}

// Service renders operational data as XLSX workbooks for office staff.
type Service struct {
	db  *gorm.DB
	log *zap.Logger
}

func New(p Params) *Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("report.service"),
	}
}

type DateRange struct {
	From time.Time
	To   time.Time
}

func (r DateRange) filter(query *gorm.DB, column string) *gorm.DB {
	if !r.From.IsZero() {
		query = query.Where(column+" >= ?", r.From)
	}
	if !r.To.IsZero() {
		query = query.Where(column+" <= ?", r.To)
	}
	return query
}

// ExportVisits returns an XLSX workbook of visits in the range, newest first.
func (s *Service) ExportVisits(ctx context.Context, dateRange DateRange) ([]byte, string, error) {
	var visits []visitdomain.Visit
	query := dateRange.filter(s.db.WithContext(ctx).Model(&visitdomain.Visit{}), "visit_date")
	if err := query.Order("visit_date desc, id desc").Find(&visits).Error; err != nil {
		return nil, "", err
	}

	headers := []string{
		"Visit ID", "Customer ID", "Sales Person ID", "Visit Date", "Status",
		"Check In", "Check Out", "Check In Distance (m)", "Notes",
	}
	rows := make([][]any, 0, len(visits))
	for _, visit := range visits {
		rows = append(rows, []any{
			visit.ID.String(),
			visit.CustomerID.String(),
			visit.SalesPersonID.String(),
			visit.VisitDate.Format("2006-01-02"),
			visit.Status,
			formatTime(visit.CheckInAt),
			formatTime(visit.CheckOutAt),
			formatFloat(visit.CheckInDistanceM),
			visit.Notes,
		})
	}

	data, err := buildWorkbook("Visits", headers, rows)
	if err != nil {
		return nil, "", err
	}
	return data, exportFileName("visits"), nil
}

// ExportOrders returns an XLSX workbook of orders in the range, newest first.
func (s *Service) ExportOrders(ctx context.Context, dateRange DateRange) ([]byte, string, error) {
	var orders []orderdomain.Order
	query := dateRange.filter(s.db.WithContext(ctx).Model(&orderdomain.Order{}), "created_at")
	if err := query.Order("created_at desc, id desc").Find(&orders).Error; err != nil {
		return nil, "", err
	}

	headers := []string{
		"Order Number", "Customer ID", "Sales Person ID", "Status", "Approval",
		"Subtotal", "Discount", "Tax", "Shipping", "Total", "Currency", "Created At",
	}
	rows := make([][]any, 0, len(orders))
	for _, order := range orders {
		rows = append(rows, []any{
			order.OrderNumber,
			order.CustomerID.String(),
			order.SalesPersonID.String(),
			order.Status,
			order.ApprovalStatus,
			order.Subtotal,
			order.DiscountTotal,
			order.TaxTotal,
			order.ShippingTotal,
			order.Total,
			order.CurrencyCode,
			order.CreatedAt.Format(time.RFC3339),
		})
	}

	data, err := buildWorkbook("Orders", headers, rows)
	if err != nil {
		return nil, "", err
	}
	return data, exportFileName("orders"), nil
}

func buildWorkbook(sheet string, headers []string, rows [][]any) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return nil, err
	}

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return nil, err
		}
	}

	for rowIdx, row := range rows {
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func exportFileName(kind string) string {
	return fmt.Sprintf("%s_%s.xlsx", kind, time.Now().UTC().Format("20060102_150405"))
}

func formatTime(value *time.Time) string {
	if value == nil {
		return ""
	}
	return value.Format(time.RFC3339)
}

func formatFloat(value *float64) string {
	if value == nil {
		return ""
	}
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", *value), "0"), ".")
}

var Module = fx.Module("report.service",
	fx.Provide(New),
)
