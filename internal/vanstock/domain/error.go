package domain

import "errors"

var (
	ErrInvalidID      = errors.New("invalid_document_id")
	ErrNotFound       = errors.New("document_not_found")
	ErrInvalidDocType = errors.New("invalid_doc_type")
	ErrNoLines        = errors.New("document_has_no_lines")
	ErrAlreadyPosted  = errors.New("document_already_posted")
	ErrUnknownProduct = errors.New("unknown_product")
)
