package fiscal

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/retailcore/backend/internal/domain/fiscal"
	"github.com/retailcore/backend/internal/domain/shared"
)

// BookService writes and queries the fiscal books. The books are
// append-only; fixing an entry means reversing it and writing a new one.
type BookService struct {
	entryRepo fiscal.BookEntryRepository
	cfopRepo  fiscal.CFOPRepository
}

// NewBookService creates a new BookService
func NewBookService(entryRepo fiscal.BookEntryRepository, cfopRepo fiscal.CFOPRepository) *BookService {
	return &BookService{
		entryRepo: entryRepo,
		cfopRepo:  cfopRepo,
	}
}

// AddEntry writes one book line. The CFOP must be registered.
func (s *BookService) AddEntry(ctx context.Context, rc shared.RunContext, req AddEntryRequest) (*EntryResponse, error) {
	if _, err := s.cfopRepo.FindByCode(ctx, req.CFOPCode); err != nil {
		return nil, err
	}

	entry, err := fiscal.NewBookEntry(fiscal.BookType(req.Book), rc.BranchID, req.GroupID,
		req.CFOPCode, req.InvoiceNum, req.Value, req.Base, req.Tax, rc.Clock.Now())
	if err != nil {
		return nil, err
	}
	if err := s.entryRepo.Save(ctx, entry); err != nil {
		return nil, err
	}

	response := ToEntryResponse(entry)
	return &response, nil
}

// ReverseEntry cancels a book line by writing its negated sibling
func (s *BookService) ReverseEntry(ctx context.Context, rc shared.RunContext, entryID uuid.UUID) (*EntryResponse, error) {
	entry, err := s.entryRepo.FindByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	reversal, err := entry.Reverse(rc.Clock.Now())
	if err != nil {
		return nil, err
	}
	if err := s.entryRepo.Save(ctx, reversal); err != nil {
		return nil, err
	}

	response := ToEntryResponse(reversal)
	return &response, nil
}

// EntriesByGroup lists the book lines produced for a payment group
func (s *BookService) EntriesByGroup(ctx context.Context, groupID uuid.UUID) ([]EntryResponse, error) {
	entries, err := s.entryRepo.FindByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return ToEntryResponses(entries), nil
}

// EntriesByPeriod lists the lines of one book for a branch and period
func (s *BookService) EntriesByPeriod(ctx context.Context, book fiscal.BookType, branchID uuid.UUID, from, to time.Time) ([]EntryResponse, error) {
	if !book.IsValid() {
		return nil, shared.NewDomainError("INVALID_BOOK", "Unknown fiscal book")
	}
	entries, err := s.entryRepo.ListByPeriod(ctx, book, branchID, from, to)
	if err != nil {
		return nil, err
	}
	return ToEntryResponses(entries), nil
}

// RegisterCFOP registers a fiscal operation code
func (s *BookService) RegisterCFOP(ctx context.Context, rc shared.RunContext, req RegisterCFOPRequest) (*CFOPResponse, error) {
	cfop, err := fiscal.NewCFOP(req.Code, req.Description, rc.Clock.Now())
	if err != nil {
		return nil, err
	}
	if err := s.cfopRepo.Save(ctx, cfop); err != nil {
		return nil, err
	}
	return &CFOPResponse{Code: cfop.Code, Description: cfop.Description}, nil
}

// GetCFOP retrieves a fiscal operation code
func (s *BookService) GetCFOP(ctx context.Context, code string) (*CFOPResponse, error) {
	cfop, err := s.cfopRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return &CFOPResponse{Code: cfop.Code, Description: cfop.Description}, nil
}
