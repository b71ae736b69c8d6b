package domain

import (
	"context"

	coolerdomain "github.com/fieldline/fieldline/internal/cooler/domain"
	orderdomain "github.com/fieldline/fieldline/internal/order/domain"
	paymentdomain "github.com/fieldline/fieldline/internal/payment/domain"
	surveydomain "github.com/fieldline/fieldline/internal/survey/domain"
	"github.com/fieldline/fieldline/pkg/db/pagination"
)

// VisitInput is the visit portion of one bulk element. A non-empty ID makes
// the element an update of that visit.
type VisitInput struct {
	ID               string   `json:"id,omitempty"`
	CustomerID       string   `json:"customer_id"`
	SalesPersonID    string   `json:"sales_person_id"`
	VisitDate        string   `json:"visit_date"`
	Status           string   `json:"status,omitempty"`
	CheckInAt        string   `json:"check_in_at,omitempty"`
	CheckOutAt       string   `json:"check_out_at,omitempty"`
	CheckInLatitude  *float64 `json:"check_in_latitude,omitempty"`
	CheckInLongitude *float64 `json:"check_in_longitude,omitempty"`
	Notes            string   `json:"notes,omitempty"`
}

// InspectionInput references a cooler by id or, for coolers first seen in the
// field, by serial number. Unknown serials create the cooler inline.
type InspectionInput struct {
	CoolerID     string   `json:"cooler_id,omitempty"`
	SerialNumber string   `json:"serial_number,omitempty"`
	Model        string   `json:"model,omitempty"`
	Condition    string   `json:"condition,omitempty"`
	Temperature  *float64 `json:"temperature,omitempty"`
	IsStocked    bool     `json:"is_stocked"`
	NeedsService bool     `json:"needs_service"`
	Notes        string   `json:"notes,omitempty"`
}

// ImageFile is one uploaded image delivered out of band with the JSON body.
type ImageFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// ElementImages groups an element's uploads by image class.
type ElementImages struct {
	Self     []ImageFile
	Customer []ImageFile
	Cooler   []ImageFile
}

type BulkElement struct {
	Visit             VisitInput                   `json:"visit"`
	Orders            []orderdomain.OrderInput     `json:"orders,omitempty"`
	Payments          []paymentdomain.PaymentInput `json:"payments,omitempty"`
	CoolerInspections []InspectionInput            `json:"cooler_inspections,omitempty"`
	Survey            *surveydomain.SurveyInput    `json:"survey,omitempty"`

	Images ElementImages `json:"-"`
}

const (
	OutcomeCreated = "created"
	OutcomeUpdated = "updated"
	OutcomeFailed  = "failed"
)

// VisitDetail is a visit with the rows touched alongside it.
type VisitDetail struct {
	Visit       Visit                           `json:"visit"`
	Orders      []orderdomain.Order             `json:"orders,omitempty"`
	Payments    []paymentdomain.Payment         `json:"payments,omitempty"`
	Inspections []coolerdomain.CoolerInspection `json:"cooler_inspections,omitempty"`
	Surveys     []surveydomain.SurveyResponse   `json:"surveys,omitempty"`
}

type ElementResult struct {
	Index  int          `json:"index"`
	Detail *VisitDetail `json:"result,omitempty"`
}

// ElementFailure carries the driver error code and violated constraint when
// available, so clients can tell a retryable element from a doomed one.
type ElementFailure struct {
	Index      int    `json:"index"`
	Error      string `json:"error"`
	Code       string `json:"code,omitempty"`
	Constraint string `json:"constraint,omitempty"`
}

type BulkSummary struct {
	Total   int `json:"total"`
	Created int `json:"created"`
	Updated int `json:"updated"`
	Failed  int `json:"failed"`
}

type BulkResult struct {
	Created []ElementResult  `json:"created"`
	Updated []ElementResult  `json:"updated"`
	Failed  []ElementFailure `json:"failed"`
	Summary BulkSummary      `json:"summary"`
}

type ListVisitRequest struct {
	CustomerID    string `form:"customer_id"`
	SalesPersonID string `form:"sales_person_id"`
	DateFrom      string `form:"date_from"`
	DateTo        string `form:"date_to"`
	Status        string `form:"status"`

	pagination.Pagination
}

type Service interface {
	// BulkUpsert processes every element independently. An element error
	// marks that element failed and never aborts the batch; batch-level
	// errors are returned only for an empty or oversized request.
	BulkUpsert(ctx context.Context, elements []BulkElement) (BulkResult, error)
	GetByID(ctx context.Context, rawID string) (VisitDetail, error)
	List(ctx context.Context, req ListVisitRequest) ([]*Visit, *pagination.PageInfo, error)
	Delete(ctx context.Context, rawID string) error
}
