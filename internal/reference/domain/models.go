package domain

import "github.com/bwmarrin/snowflake"

type Currency struct {
	Code   string `gorm:"primaryKey" json:"code"`
	Name   string `gorm:"not null" json:"name"`
	Symbol string `json:"symbol"`
}

// ReferenceItem is a slug-coded lookup row shared by the customer
// category, type and channel tables.
type ReferenceItem struct {
	ID   snowflake.ID `gorm:"primaryKey" json:"id"`
	Code string       `gorm:"not null;uniqueIndex" json:"code"`
	Name string       `gorm:"not null" json:"name"`
}

type CustomerCategory struct{ ReferenceItem }

func (CustomerCategory) TableName() string { return "customer_categories" }

type CustomerType struct{ ReferenceItem }

func (CustomerType) TableName() string { return "customer_types" }

type CustomerChannel struct{ ReferenceItem }

func (CustomerChannel) TableName() string { return "customer_channels" }
