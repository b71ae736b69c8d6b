package domain

import "errors"

var (
	ErrInvalidID          = errors.New("invalid_order_id")
	ErrNotFound           = errors.New("order_not_found")
	ErrNoItems            = errors.New("order_has_no_items")
	ErrInvalidQuantity    = errors.New("invalid_item_quantity")
	ErrInvalidStatus      = errors.New("invalid_order_status")
	ErrInvalidPriority    = errors.New("invalid_order_priority")
	ErrNotPendingApproval = errors.New("order_not_pending_approval")
	ErrItemNotInOrder     = errors.New("item_not_in_order")
)
