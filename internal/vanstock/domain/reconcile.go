package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrBatchQuantityMismatch  = errors.New("batch_quantities_do_not_sum_to_line_quantity")
	ErrBatchFieldsRequired    = errors.New("batch_allocation_fields_required")
	ErrDuplicateBatch         = errors.New("duplicate_batch_lot_pair")
	ErrInvalidBatchDates      = errors.New("exp_date_must_follow_mfg_date")
	ErrSerialCountMismatch    = errors.New("serial_count_does_not_match_line_quantity")
	ErrEmptySerial            = errors.New("serial_number_empty")
	ErrDuplicateSerial        = errors.New("duplicate_serial_number")
	ErrAllocationsNotAllowed  = errors.New("allocations_not_allowed_for_untracked_product")
	ErrInvalidLineQuantity    = errors.New("invalid_line_quantity")
	ErrInvalidBatchQuantity   = errors.New("invalid_batch_quantity")
	ErrAllocationTypeConflict = errors.New("line_mixes_batch_and_serial_allocations")
)

// BatchInput is one batch allocation of a stock line.
type BatchInput struct {
	BatchNumber string `json:"batch_number"`
	LotNumber   string `json:"lot_number"`
	Quantity    int64  `json:"quantity"`
	MfgDate     string `json:"mfg_date"`
	ExpDate     string `json:"exp_date"`
}

// LineInput is one product line of a load or unload request.
type LineInput struct {
	ProductID string       `json:"product_id"`
	Quantity  int64        `json:"quantity"`
	Batches   []BatchInput `json:"batches,omitempty"`
	Serials   []string     `json:"serials,omitempty"`
}

// ReconcileLine checks a line's allocations against the product's tracking
// discipline. It is pure: no I/O, first violation wins.
func ReconcileLine(trackingType string, line LineInput) error {
	if line.Quantity <= 0 {
		return ErrInvalidLineQuantity
	}
	if len(line.Batches) > 0 && len(line.Serials) > 0 {
		return ErrAllocationTypeConflict
	}

	switch trackingType {
	case "batch":
		return reconcileBatches(line.Quantity, line.Batches)
	case "serial":
		return reconcileSerials(line.Quantity, line.Serials)
	default:
		if len(line.Batches) > 0 || len(line.Serials) > 0 {
			return ErrAllocationsNotAllowed
		}
		return nil
	}
}

func reconcileBatches(quantity int64, batches []BatchInput) error {
	if len(batches) == 0 {
		return ErrBatchQuantityMismatch
	}

	seen := make(map[string]struct{}, len(batches))
	var sum int64
	for _, batch := range batches {
		batchNumber := strings.TrimSpace(batch.BatchNumber)
		lotNumber := strings.TrimSpace(batch.LotNumber)
		if batchNumber == "" || lotNumber == "" || batch.MfgDate == "" || batch.ExpDate == "" {
			return ErrBatchFieldsRequired
		}
		if batch.Quantity <= 0 {
			return ErrInvalidBatchQuantity
		}

		mfg, err := time.Parse("2006-01-02", batch.MfgDate)
		if err != nil {
			return ErrBatchFieldsRequired
		}
		exp, err := time.Parse("2006-01-02", batch.ExpDate)
		if err != nil {
			return ErrBatchFieldsRequired
		}
		if !exp.After(mfg) {
			return ErrInvalidBatchDates
		}

		key := batchNumber + "\x00" + lotNumber
		if _, dup := seen[key]; dup {
			return ErrDuplicateBatch
		}
		seen[key] = struct{}{}
		sum += batch.Quantity
	}

	if sum != quantity {
		return ErrBatchQuantityMismatch
	}
	return nil
}

func reconcileSerials(quantity int64, serials []string) error {
	if int64(len(serials)) != quantity {
		return ErrSerialCountMismatch
	}

	seen := make(map[string]struct{}, len(serials))
	for _, serial := range serials {
		serial = strings.TrimSpace(serial)
		if serial == "" {
			return ErrEmptySerial
		}
		key := strings.ToLower(serial)
		if _, dup := seen[key]; dup {
			return ErrDuplicateSerial
		}
		seen[key] = struct{}{}
	}
	return nil
}
