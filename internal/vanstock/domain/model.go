package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type StockDocument struct {
	ID            snowflake.ID `json:"id,string" gorm:"primaryKey"`
	DocNumber     string       `json:"doc_number" gorm:"uniqueIndex"`
	DocType       string       `json:"doc_type"`
	SalesPersonID snowflake.ID `json:"sales_person_id,string"`
	Status        string       `json:"status"`
	PostedAt      *time.Time   `json:"posted_at,omitempty"`
	Lines         []StockLine  `json:"lines" gorm:"foreignKey:DocumentID"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

func (StockDocument) TableName() string { return "van_stock_documents" }

type StockLine struct {
	ID          snowflake.ID      `json:"id,string" gorm:"primaryKey"`
	DocumentID  snowflake.ID      `json:"document_id,string" gorm:"index"`
	ProductID   snowflake.ID      `json:"product_id,string"`
	Quantity    int64             `json:"quantity"`
	Allocations []StockAllocation `json:"allocations,omitempty" gorm:"foreignKey:LineID"`
}

func (StockLine) TableName() string { return "van_stock_lines" }

type StockAllocation struct {
	ID           snowflake.ID `json:"id,string" gorm:"primaryKey"`
	LineID       snowflake.ID `json:"line_id,string" gorm:"index"`
	BatchNumber  string       `json:"batch_number,omitempty"`
	LotNumber    string       `json:"lot_number,omitempty"`
	SerialNumber string       `json:"serial_number,omitempty"`
	Quantity     int64        `json:"quantity,omitempty"`
	MfgDate      *time.Time   `json:"mfg_date,omitempty"`
	ExpDate      *time.Time   `json:"exp_date,omitempty"`
}

func (StockAllocation) TableName() string { return "van_stock_allocations" }

const (
	DocTypeLoad   = "load"
	DocTypeUnload = "unload"

	StatusDraft  = "draft"
	StatusPosted = "posted"
)

func ValidDocType(docType string) bool {
	return docType == DocTypeLoad || docType == DocTypeUnload
}
