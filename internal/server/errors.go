package server

import (
	"errors"
	"net/http"
	"strings"

	auditdomain "github.com/fieldline/fieldline/internal/audit/domain"
	authdomain "github.com/fieldline/fieldline/internal/auth/domain"
	"github.com/fieldline/fieldline/internal/authorization"
	branddomain "github.com/fieldline/fieldline/internal/brand/domain"
	companydomain "github.com/fieldline/fieldline/internal/company/domain"
	coolerdomain "github.com/fieldline/fieldline/internal/cooler/domain"
	customerdomain "github.com/fieldline/fieldline/internal/customer/domain"
	orderdomain "github.com/fieldline/fieldline/internal/order/domain"
	paymentdomain "github.com/fieldline/fieldline/internal/payment/domain"
	productdomain "github.com/fieldline/fieldline/internal/product/domain"
	referencedomain "github.com/fieldline/fieldline/internal/reference/domain"
	"github.com/fieldline/fieldline/internal/storage"
	surveydomain "github.com/fieldline/fieldline/internal/survey/domain"
	taxratedomain "github.com/fieldline/fieldline/internal/taxrate/domain"
	vanstockdomain "github.com/fieldline/fieldline/internal/vanstock/domain"
	visitdomain "github.com/fieldline/fieldline/internal/visit/domain"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrConflict       = errors.New("conflict")
	ErrInternal       = errors.New("internal_error")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, authdomain.ErrInvalidCredentials),
		errors.Is(err, authdomain.ErrInvalidSession),
		errors.Is(err, authdomain.ErrSessionNotFound),
		errors.Is(err, authdomain.ErrSessionExpired),
		errors.Is(err, authdomain.ErrSessionRevoked),
		errors.Is(err, authdomain.ErrUserInactive):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, ErrForbidden),
		errors.Is(err, authorization.ErrForbidden):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "forbidden",
		}
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "conflict",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, storage.ErrNotConfigured),
		errors.Is(err, storage.ErrUploadFailed),
		errors.Is(err, storage.ErrAuthFailed):
		return http.StatusBadGateway, errorPayload{
			Type:    "storage_unavailable",
			Message: "object storage unavailable",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

var validationSentinels = []error{
	ErrInvalidRequest,
	branddomain.ErrInvalidName,
	branddomain.ErrInvalidID,
	branddomain.ErrInvalidCompany,
	companydomain.ErrInvalidName,
	companydomain.ErrInvalidID,
	coolerdomain.ErrInvalidSerial,
	coolerdomain.ErrInvalidID,
	coolerdomain.ErrInvalidStatus,
	customerdomain.ErrInvalidName,
	customerdomain.ErrInvalidID,
	customerdomain.ErrInvalidLocation,
	productdomain.ErrInvalidName,
	productdomain.ErrInvalidID,
	productdomain.ErrInvalidPrice,
	productdomain.ErrInvalidTracking,
	taxratedomain.ErrInvalidName,
	taxratedomain.ErrInvalidRate,
	taxratedomain.ErrInvalidID,
	taxratedomain.ErrInvalidTimeRange,
	referencedomain.ErrInvalidKind,
	referencedomain.ErrInvalidName,
	orderdomain.ErrInvalidID,
	orderdomain.ErrNoItems,
	orderdomain.ErrInvalidQuantity,
	orderdomain.ErrInvalidStatus,
	orderdomain.ErrInvalidPriority,
	orderdomain.ErrNotPendingApproval,
	orderdomain.ErrItemNotInOrder,
	paymentdomain.ErrInvalidID,
	paymentdomain.ErrInvalidAmount,
	paymentdomain.ErrInvalidMethod,
	paymentdomain.ErrInvalidCustomer,
	surveydomain.ErrInvalidID,
	surveydomain.ErrInvalidQuestion,
	visitdomain.ErrInvalidID,
	visitdomain.ErrMissingCustomer,
	visitdomain.ErrMissingSales,
	visitdomain.ErrInvalidStatus,
	visitdomain.ErrInvalidDate,
	visitdomain.ErrOutsideGeofence,
	visitdomain.ErrBatchTooLarge,
	visitdomain.ErrEmptyBatch,
	vanstockdomain.ErrInvalidID,
	vanstockdomain.ErrInvalidDocType,
	vanstockdomain.ErrNoLines,
	vanstockdomain.ErrAlreadyPosted,
	vanstockdomain.ErrUnknownProduct,
	auditdomain.ErrInvalidPageToken,
	auditdomain.ErrInvalidTimeRange,
	auditdomain.ErrInvalidAction,
	authdomain.ErrInvalidRole,
}

func isValidationError(err error) bool {
	for _, sentinel := range validationSentinels {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, branddomain.ErrNotFound),
		errors.Is(err, companydomain.ErrNotFound),
		errors.Is(err, coolerdomain.ErrNotFound),
		errors.Is(err, customerdomain.ErrNotFound),
		errors.Is(err, productdomain.ErrNotFound),
		errors.Is(err, taxratedomain.ErrNotFound),
		errors.Is(err, orderdomain.ErrNotFound),
		errors.Is(err, paymentdomain.ErrNotFound),
		errors.Is(err, surveydomain.ErrNotFound),
		errors.Is(err, visitdomain.ErrNotFound),
		errors.Is(err, vanstockdomain.ErrNotFound),
		errors.Is(err, authdomain.ErrUserNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, ErrConflict),
		errors.Is(err, authdomain.ErrUserExists),
		errors.Is(err, branddomain.ErrDuplicate),
		errors.Is(err, companydomain.ErrDuplicate),
		errors.Is(err, coolerdomain.ErrDuplicate),
		errors.Is(err, customerdomain.ErrDuplicate),
		errors.Is(err, productdomain.ErrDuplicate),
		errors.Is(err, referencedomain.ErrDuplicate),
		errors.Is(err, gorm.ErrDuplicatedKey):
		return true
	default:
		return false
	}
}

func validationErrorCode(err error) string {
	if errors.Is(err, ErrInvalidRequest) {
		return "invalid_request"
	}
	return err.Error()
}

func validationErrorField(code string) string {
	if code == "invalid_request" {
		return "request"
	}
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	if strings.HasPrefix(code, "missing_") {
		return strings.TrimPrefix(code, "missing_")
	}
	return ""
}

func validationErrorMessage(code string) string {
	switch code {
	case "invalid_request":
		return "invalid request"
	default:
		return strings.ReplaceAll(code, "_", " ")
	}
}

func classifyErrorForLog(err error) (string, string) {
	status, payload := mapError(err)
	switch {
	case status >= http.StatusInternalServerError:
		return "server_error", payload.Type
	case status >= http.StatusBadRequest:
		return "client_error", payload.Type
	default:
		return "", ""
	}
}
