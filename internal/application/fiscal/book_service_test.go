package fiscal

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/retailcore/backend/internal/domain/fiscal"
	"github.com/retailcore/backend/internal/domain/shared"
)

var testNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

// MockBookEntryRepository is a mock implementation of fiscal.BookEntryRepository
type MockBookEntryRepository struct {
	mock.Mock
}

func (m *MockBookEntryRepository) Save(ctx context.Context, entry *fiscal.BookEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockBookEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*fiscal.BookEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fiscal.BookEntry), args.Error(1)
}

func (m *MockBookEntryRepository) FindByGroup(ctx context.Context, groupID uuid.UUID) ([]*fiscal.BookEntry, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*fiscal.BookEntry), args.Error(1)
}

func (m *MockBookEntryRepository) ListByPeriod(ctx context.Context, book fiscal.BookType, branchID uuid.UUID, from, to time.Time) ([]*fiscal.BookEntry, error) {
	args := m.Called(ctx, book, branchID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*fiscal.BookEntry), args.Error(1)
}

// MockCFOPRepository is a mock implementation of fiscal.CFOPRepository
type MockCFOPRepository struct {
	mock.Mock
}

func (m *MockCFOPRepository) Save(ctx context.Context, cfop *fiscal.CFOP) error {
	args := m.Called(ctx, cfop)
	return args.Error(0)
}

func (m *MockCFOPRepository) FindByCode(ctx context.Context, code string) (*fiscal.CFOP, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fiscal.CFOP), args.Error(1)
}

type fiscalFixture struct {
	entryRepo *MockBookEntryRepository
	cfopRepo  *MockCFOPRepository
	service   *BookService
	rc        shared.RunContext
}

func newFiscalFixture(t *testing.T) *fiscalFixture {
	t.Helper()
	f := &fiscalFixture{
		entryRepo: new(MockBookEntryRepository),
		cfopRepo:  new(MockCFOPRepository),
	}
	f.service = NewBookService(f.entryRepo, f.cfopRepo)
	f.rc = shared.NewRunContext(uuid.New(), uuid.New(), uuid.New(),
		shared.DefaultParameters(), shared.FixedClock{Instant: testNow})
	return f
}

func TestBookService_AddEntry(t *testing.T) {
	t.Run("writes a line stamped with the caller's branch", func(t *testing.T) {
		f := newFiscalFixture(t)
		cfop, err := fiscal.NewCFOP("5.102", "Sale of acquired goods", testNow)
		require.NoError(t, err)

		f.cfopRepo.On("FindByCode", mock.Anything, "5.102").Return(cfop, nil)
		f.entryRepo.On("Save", mock.Anything, mock.AnythingOfType("*fiscal.BookEntry")).Return(nil)

		response, err := f.service.AddEntry(context.Background(), f.rc, AddEntryRequest{
			Book:     "ICMS",
			GroupID:  uuid.New(),
			CFOPCode: "5.102",
			Value:    decimal.NewFromInt(100),
			Base:     decimal.NewFromInt(100),
			Tax:      decimal.NewFromInt(18),
		})

		require.NoError(t, err)
		assert.Equal(t, f.rc.BranchID, response.BranchID)
		assert.Equal(t, "ICMS", response.Book)
	})

	t.Run("rejects an unregistered CFOP", func(t *testing.T) {
		f := newFiscalFixture(t)

		f.cfopRepo.On("FindByCode", mock.Anything, "9.999").Return(nil, shared.ErrNotFound)

		_, err := f.service.AddEntry(context.Background(), f.rc, AddEntryRequest{
			Book:     "ICMS",
			GroupID:  uuid.New(),
			CFOPCode: "9.999",
		})

		assert.ErrorIs(t, err, shared.ErrNotFound)
		f.entryRepo.AssertNotCalled(t, "Save")
	})
}

func TestBookService_ReverseEntry(t *testing.T) {
	t.Run("writes the negated sibling referencing the original", func(t *testing.T) {
		f := newFiscalFixture(t)
		entry, err := fiscal.NewBookEntry(fiscal.BookICMS, f.rc.BranchID, uuid.New(),
			"5.102", "1234", decimal.NewFromInt(100), decimal.NewFromInt(100), decimal.NewFromInt(18), testNow)
		require.NoError(t, err)

		f.entryRepo.On("FindByID", mock.Anything, entry.ID).Return(entry, nil)
		f.entryRepo.On("Save", mock.Anything, mock.AnythingOfType("*fiscal.BookEntry")).Return(nil)

		response, err := f.service.ReverseEntry(context.Background(), f.rc, entry.ID)

		require.NoError(t, err)
		assert.True(t, response.Value.Equal(decimal.NewFromInt(-100)))
		assert.True(t, response.Tax.Equal(decimal.NewFromInt(-18)))
		require.NotNil(t, response.ReversalOf)
		assert.Equal(t, entry.ID, *response.ReversalOf)
	})

	t.Run("a reversal cannot be reversed", func(t *testing.T) {
		f := newFiscalFixture(t)
		entry, err := fiscal.NewBookEntry(fiscal.BookICMS, f.rc.BranchID, uuid.New(),
			"5.102", "1234", decimal.NewFromInt(100), decimal.NewFromInt(100), decimal.NewFromInt(18), testNow)
		require.NoError(t, err)
		reversal, err := entry.Reverse(testNow)
		require.NoError(t, err)

		f.entryRepo.On("FindByID", mock.Anything, reversal.ID).Return(reversal, nil)

		_, err = f.service.ReverseEntry(context.Background(), f.rc, reversal.ID)
		assert.Error(t, err)
		f.entryRepo.AssertNotCalled(t, "Save")
	})
}

func TestBookService_EntriesByPeriod(t *testing.T) {
	f := newFiscalFixture(t)
	branchID := uuid.New()
	from := testNow.AddDate(0, -1, 0)

	f.entryRepo.On("ListByPeriod", mock.Anything, fiscal.BookICMS, branchID, from, testNow).
		Return([]*fiscal.BookEntry{}, nil)

	entries, err := f.service.EntriesByPeriod(context.Background(), fiscal.BookICMS, branchID, from, testNow)
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = f.service.EntriesByPeriod(context.Background(), "VAT", branchID, from, testNow)
	assert.Error(t, err)
}
