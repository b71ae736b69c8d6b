package domain

import "context"

type PostDocumentRequest struct {
	DocType       string      `json:"doc_type"`
	SalesPersonID string      `json:"sales_person_id"`
	Lines         []LineInput `json:"lines"`
}

// LineError ties a validation failure to the line that caused it.
type LineError struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

type Service interface {
	// Post validates every line against its product's tracking type and, when
	// all lines pass, persists the document atomically. Line errors reject
	// the whole document.
	Post(ctx context.Context, req PostDocumentRequest) (StockDocument, []LineError, error)
	GetByID(ctx context.Context, rawID string) (StockDocument, error)
	ListBySalesPerson(ctx context.Context, rawSalesPersonID string) ([]StockDocument, error)
}
