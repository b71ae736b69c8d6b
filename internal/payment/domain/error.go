package domain

import "errors"

var (
	ErrInvalidID       = errors.New("invalid_payment_id")
	ErrNotFound        = errors.New("payment_not_found")
	ErrInvalidAmount   = errors.New("invalid_payment_amount")
	ErrInvalidMethod   = errors.New("invalid_payment_method")
	ErrInvalidCustomer = errors.New("invalid_customer_id")
)
