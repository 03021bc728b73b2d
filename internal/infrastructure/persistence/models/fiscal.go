package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailcore/backend/internal/domain/fiscal"
)

// BookEntryModel is the persistence model for fiscal book lines.
// Rows are insert-only; corrections happen through reversal entries.
type BookEntryModel struct {
	BaseModel
	SyncColumns
	Book       fiscal.BookType `gorm:"type:varchar(10);not null;index:idx_book_period,priority:1"`
	BranchID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_book_period,priority:2"`
	GroupID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	CFOPCode   string          `gorm:"type:varchar(10);not null"`
	InvoiceNum string          `gorm:"type:varchar(30)"`
	Value      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Base       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Tax        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ReversalOf *uuid.UUID      `gorm:"type:uuid"`
	EntryDate  time.Time       `gorm:"not null;index:idx_book_period,priority:3"`
}

// TableName returns the table name for GORM
func (BookEntryModel) TableName() string {
	return "fiscal_book_entries"
}

// ToDomain converts the persistence model to a domain BookEntry
func (m *BookEntryModel) ToDomain() *fiscal.BookEntry {
	return &fiscal.BookEntry{
		BaseEntity: m.BaseModel.ToDomain(),
		Book:       m.Book,
		BranchID:   m.BranchID,
		GroupID:    m.GroupID,
		CFOPCode:   m.CFOPCode,
		InvoiceNum: m.InvoiceNum,
		Value:      m.Value,
		Base:       m.Base,
		Tax:        m.Tax,
		ReversalOf: m.ReversalOf,
		EntryDate:  m.EntryDate,
	}
}

// FromDomain populates the persistence model from a domain BookEntry
func (m *BookEntryModel) FromDomain(e *fiscal.BookEntry) {
	m.FromDomainBaseEntity(e.BaseEntity)
	m.Book = e.Book
	m.BranchID = e.BranchID
	m.GroupID = e.GroupID
	m.CFOPCode = e.CFOPCode
	m.InvoiceNum = e.InvoiceNum
	m.Value = e.Value
	m.Base = e.Base
	m.Tax = e.Tax
	m.ReversalOf = e.ReversalOf
	m.EntryDate = e.EntryDate
}

// CFOPModel is the persistence model for fiscal operation codes
type CFOPModel struct {
	BaseModel
	Code        string `gorm:"type:varchar(10);not null;uniqueIndex"`
	Description string `gorm:"type:varchar(200);not null"`
}

// TableName returns the table name for GORM
func (CFOPModel) TableName() string {
	return "cfop_data"
}

// ToDomain converts the persistence model to a domain CFOP
func (m *CFOPModel) ToDomain() *fiscal.CFOP {
	return &fiscal.CFOP{
		BaseEntity:  m.BaseModel.ToDomain(),
		Code:        m.Code,
		Description: m.Description,
	}
}

// FromDomain populates the persistence model from a domain CFOP
func (m *CFOPModel) FromDomain(c *fiscal.CFOP) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.Code = c.Code
	m.Description = c.Description
}
