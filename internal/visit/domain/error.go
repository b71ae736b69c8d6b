package domain

import "errors"

var (
	ErrInvalidID        = errors.New("invalid_visit_id")
	ErrNotFound         = errors.New("visit_not_found")
	ErrMissingCustomer  = errors.New("missing_customer_id")
	ErrMissingSales     = errors.New("missing_sales_person_id")
	ErrCustomerNotFound = errors.New("customer_not_found")
	ErrInvalidStatus    = errors.New("invalid_visit_status")
	ErrInvalidDate      = errors.New("invalid_visit_date")
	ErrOutsideGeofence  = errors.New("check_in_outside_geofence")
	ErrBatchTooLarge    = errors.New("bulk_batch_too_large")
	ErrEmptyBatch       = errors.New("bulk_batch_empty")
)
