package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func batchLine(quantity int64, batches ...BatchInput) LineInput {
	return LineInput{ProductID: "1", Quantity: quantity, Batches: batches}
}

func serialLine(quantity int64, serials ...string) LineInput {
	return LineInput{ProductID: "1", Quantity: quantity, Serials: serials}
}

func validBatch(quantity int64) BatchInput {
	return BatchInput{
		BatchNumber: "B-100",
		LotNumber:   "L-1",
		Quantity:    quantity,
		MfgDate:     "2026-01-10",
		ExpDate:     "2027-01-10",
	}
}

func TestReconcileBatchLines(t *testing.T) {
	tests := []struct {
		name string
		line LineInput
		want error
	}{
		{
			name: "quantities sum to line quantity",
			line: batchLine(10,
				validBatch(6),
				BatchInput{BatchNumber: "B-200", LotNumber: "L-1", Quantity: 4, MfgDate: "2026-02-01", ExpDate: "2027-02-01"},
			),
			want: nil,
		},
		{
			name: "sum below line quantity",
			line: batchLine(10, validBatch(6)),
			want: ErrBatchQuantityMismatch,
		},
		{
			name: "sum above line quantity",
			line: batchLine(5, validBatch(6)),
			want: ErrBatchQuantityMismatch,
		},
		{
			name: "no batches at all",
			line: batchLine(5),
			want: ErrBatchQuantityMismatch,
		},
		{
			name: "missing lot number",
			line: batchLine(3, BatchInput{BatchNumber: "B-1", Quantity: 3, MfgDate: "2026-01-01", ExpDate: "2027-01-01"}),
			want: ErrBatchFieldsRequired,
		},
		{
			name: "missing dates",
			line: batchLine(3, BatchInput{BatchNumber: "B-1", LotNumber: "L-1", Quantity: 3}),
			want: ErrBatchFieldsRequired,
		},
		{
			name: "duplicate batch and lot pair",
			line: batchLine(6, validBatch(3), validBatch(3)),
			want: ErrDuplicateBatch,
		},
		{
			name: "expiry before manufacture",
			line: batchLine(3, BatchInput{BatchNumber: "B-1", LotNumber: "L-1", Quantity: 3, MfgDate: "2027-01-01", ExpDate: "2026-01-01"}),
			want: ErrInvalidBatchDates,
		},
		{
			name: "expiry equal to manufacture",
			line: batchLine(3, BatchInput{BatchNumber: "B-1", LotNumber: "L-1", Quantity: 3, MfgDate: "2026-01-01", ExpDate: "2026-01-01"}),
			want: ErrInvalidBatchDates,
		},
		{
			name: "zero batch quantity",
			line: batchLine(3, BatchInput{BatchNumber: "B-1", LotNumber: "L-1", Quantity: 0, MfgDate: "2026-01-01", ExpDate: "2027-01-01"}),
			want: ErrInvalidBatchQuantity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReconcileLine("batch", tt.line))
		})
	}
}

func TestReconcileSerialLines(t *testing.T) {
	tests := []struct {
		name string
		line LineInput
		want error
	}{
		{
			name: "count matches quantity",
			line: serialLine(3, "SN-1", "SN-2", "SN-3"),
			want: nil,
		},
		{
			name: "too few serials",
			line: serialLine(3, "SN-1", "SN-2"),
			want: ErrSerialCountMismatch,
		},
		{
			name: "too many serials",
			line: serialLine(1, "SN-1", "SN-2"),
			want: ErrSerialCountMismatch,
		},
		{
			name: "blank serial",
			line: serialLine(2, "SN-1", "  "),
			want: ErrEmptySerial,
		},
		{
			name: "case insensitive duplicate",
			line: serialLine(2, "sn-1", "SN-1"),
			want: ErrDuplicateSerial,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReconcileLine("serial", tt.line))
		})
	}
}

func TestReconcileUntrackedLines(t *testing.T) {
	assert.NoError(t, ReconcileLine("none", LineInput{ProductID: "1", Quantity: 4}))
	assert.Equal(t, ErrAllocationsNotAllowed,
		ReconcileLine("none", serialLine(1, "SN-1")))
	assert.Equal(t, ErrAllocationsNotAllowed,
		ReconcileLine("none", batchLine(1, validBatch(1))))
	assert.Equal(t, ErrInvalidLineQuantity,
		ReconcileLine("none", LineInput{ProductID: "1", Quantity: 0}))
	assert.Equal(t, ErrAllocationTypeConflict,
		ReconcileLine("batch", LineInput{ProductID: "1", Quantity: 1, Batches: []BatchInput{validBatch(1)}, Serials: []string{"SN-1"}}))
}
