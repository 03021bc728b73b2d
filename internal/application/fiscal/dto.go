package fiscal

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailcore/backend/internal/domain/fiscal"
)

// AddEntryRequest writes one fiscal book line
type AddEntryRequest struct {
	Book       string          `json:"book" binding:"required"`
	GroupID    uuid.UUID       `json:"group_id" binding:"required"`
	CFOPCode   string          `json:"cfop_code" binding:"required"`
	InvoiceNum string          `json:"invoice_num"`
	Value      decimal.Decimal `json:"value"`
	Base       decimal.Decimal `json:"base"`
	Tax        decimal.Decimal `json:"tax"`
}

// RegisterCFOPRequest registers a fiscal operation code
type RegisterCFOPRequest struct {
	Code        string `json:"code" binding:"required"`
	Description string `json:"description" binding:"required"`
}

// EntryResponse is the external view of a book entry
type EntryResponse struct {
	ID         uuid.UUID       `json:"id"`
	Book       string          `json:"book"`
	BranchID   uuid.UUID       `json:"branch_id"`
	GroupID    uuid.UUID       `json:"group_id"`
	CFOPCode   string          `json:"cfop_code"`
	InvoiceNum string          `json:"invoice_num,omitempty"`
	Value      decimal.Decimal `json:"value"`
	Base       decimal.Decimal `json:"base"`
	Tax        decimal.Decimal `json:"tax"`
	ReversalOf *uuid.UUID      `json:"reversal_of,omitempty"`
	EntryDate  time.Time       `json:"entry_date"`
}

// ToEntryResponse maps a book entry to its external view
func ToEntryResponse(e *fiscal.BookEntry) EntryResponse {
	return EntryResponse{
		ID:         e.ID,
		Book:       e.Book.String(),
		BranchID:   e.BranchID,
		GroupID:    e.GroupID,
		CFOPCode:   e.CFOPCode,
		InvoiceNum: e.InvoiceNum,
		Value:      e.Value,
		Base:       e.Base,
		Tax:        e.Tax,
		ReversalOf: e.ReversalOf,
		EntryDate:  e.EntryDate,
	}
}

// ToEntryResponses maps a slice of book entries
func ToEntryResponses(entries []*fiscal.BookEntry) []EntryResponse {
	responses := make([]EntryResponse, len(entries))
	for i, e := range entries {
		responses[i] = ToEntryResponse(e)
	}
	return responses
}

// CFOPResponse is the external view of a fiscal operation code
type CFOPResponse struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}
