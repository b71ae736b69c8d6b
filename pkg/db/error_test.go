package db

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestErrorMetaPostgres(t *testing.T) {
	err := &pgconn.PgError{Code: "23505", ConstraintName: "payments_payment_number_key"}

	code, constraint := ErrorMeta(err)
	if code != "23505" {
		t.Fatalf("expected code 23505, got %q", code)
	}
	if constraint != "payments_payment_number_key" {
		t.Fatalf("expected constraint name, got %q", constraint)
	}
}

func TestErrorMetaSQLite(t *testing.T) {
	err := errors.New("UNIQUE constraint failed: payments.payment_number")

	code, constraint := ErrorMeta(err)
	if code != "unique_violation" {
		t.Fatalf("expected unique_violation, got %q", code)
	}
	if constraint != "payments.payment_number" {
		t.Fatalf("expected column reference, got %q", constraint)
	}
}

func TestErrorMetaUnknown(t *testing.T) {
	code, constraint := ErrorMeta(errors.New("connection reset"))
	if code != "" || constraint != "" {
		t.Fatalf("expected empty metadata, got %q %q", code, constraint)
	}

	code, constraint = ErrorMeta(nil)
	if code != "" || constraint != "" {
		t.Fatalf("expected empty metadata for nil, got %q %q", code, constraint)
	}
}
