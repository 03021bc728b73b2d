package fiscal

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailcore/backend/internal/domain/shared"
)

// BookType selects the fiscal book an entry belongs to
type BookType string

const (
	BookICMS BookType = "ICMS"
	BookIPI  BookType = "IPI"
	BookISS  BookType = "ISS"
)

// IsValid checks if the type is a valid BookType
func (b BookType) IsValid() bool {
	return b == BookICMS || b == BookIPI || b == BookISS
}

// String returns the string representation of BookType
func (b BookType) String() string {
	return string(b)
}

// BookEntry is one immutable line in a fiscal book. Entries are never
// updated or deleted; undoing one means writing a reversal with negated
// signs that references the original.
type BookEntry struct {
	shared.BaseEntity
	Book       BookType
	BranchID   uuid.UUID
	GroupID    uuid.UUID
	CFOPCode   string
	InvoiceNum string
	Value      decimal.Decimal
	Base       decimal.Decimal
	Tax        decimal.Decimal
	ReversalOf *uuid.UUID
	EntryDate  time.Time
}

// NewBookEntry writes a fiscal book line for an operation
func NewBookEntry(book BookType, branchID, groupID uuid.UUID, cfopCode, invoiceNum string, value, base, tax decimal.Decimal, now time.Time) (*BookEntry, error) {
	if !book.IsValid() {
		return nil, shared.NewDomainError("INVALID_BOOK", "Unknown fiscal book")
	}
	return &BookEntry{
		BaseEntity: shared.NewBaseEntity(now),
		Book:       book,
		BranchID:   branchID,
		GroupID:    groupID,
		CFOPCode:   cfopCode,
		InvoiceNum: invoiceNum,
		Value:      value,
		Base:       base,
		Tax:        tax,
		EntryDate:  now,
	}, nil
}

// Reverse produces the reversal entry that cancels this one: the same
// book, CFOP and invoice with every amount negated, referencing the
// original. Reversals themselves cannot be reversed.
func (e *BookEntry) Reverse(now time.Time) (*BookEntry, error) {
	if e.ReversalOf != nil {
		return nil, shared.NewDomainError("ALREADY_REVERSED", "A reversal entry cannot be reversed")
	}
	original := e.ID
	return &BookEntry{
		BaseEntity: shared.NewBaseEntity(now),
		Book:       e.Book,
		BranchID:   e.BranchID,
		GroupID:    e.GroupID,
		CFOPCode:   e.CFOPCode,
		InvoiceNum: e.InvoiceNum,
		Value:      e.Value.Neg(),
		Base:       e.Base.Neg(),
		Tax:        e.Tax.Neg(),
		ReversalOf: &original,
		EntryDate:  now,
	}, nil
}

// BookEntryRepository persists fiscal book lines. The store only ever
// inserts; there is no update operation.
type BookEntryRepository interface {
	Save(ctx context.Context, entry *BookEntry) error
	FindByID(ctx context.Context, id uuid.UUID) (*BookEntry, error)
	FindByGroup(ctx context.Context, groupID uuid.UUID) ([]*BookEntry, error)
	ListByPeriod(ctx context.Context, book BookType, branchID uuid.UUID, from, to time.Time) ([]*BookEntry, error)
}

// CFOPRepository persists fiscal operation codes
type CFOPRepository interface {
	Save(ctx context.Context, cfop *CFOP) error
	FindByCode(ctx context.Context, code string) (*CFOP, error)
}
