package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/retailcore/backend/internal/domain/catalog"
	"github.com/retailcore/backend/internal/domain/inventory"
	"github.com/retailcore/backend/internal/domain/shared"
)

// MockSellableRepository is a mock implementation of catalog.SellableRepository
type MockSellableRepository struct {
	mock.Mock
}

func (m *MockSellableRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Sellable, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Sellable), args.Error(1)
}

func (m *MockSellableRepository) FindByCode(ctx context.Context, code string) (*catalog.Sellable, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Sellable), args.Error(1)
}

func (m *MockSellableRepository) FindAll(ctx context.Context, filter catalog.SellableFilter) ([]catalog.Sellable, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Sellable), args.Error(1)
}

func (m *MockSellableRepository) Save(ctx context.Context, sellable *catalog.Sellable) error {
	args := m.Called(ctx, sellable)
	return args.Error(0)
}

// MockCategoryRepository is a mock implementation of catalog.CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Category, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

// MockStorableRepository is a mock implementation of inventory.StorableRepository
type MockStorableRepository struct {
	mock.Mock
}

func (m *MockStorableRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Storable, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Storable), args.Error(1)
}

func (m *MockStorableRepository) FindBySellable(ctx context.Context, sellableID uuid.UUID) (*inventory.Storable, error) {
	args := m.Called(ctx, sellableID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Storable), args.Error(1)
}

func (m *MockStorableRepository) FindBySellableForUpdate(ctx context.Context, sellableID uuid.UUID) (*inventory.Storable, error) {
	args := m.Called(ctx, sellableID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Storable), args.Error(1)
}

func (m *MockStorableRepository) Save(ctx context.Context, storable *inventory.Storable) error {
	args := m.Called(ctx, storable)
	return args.Error(0)
}
