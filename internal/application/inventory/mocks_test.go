package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/retailcore/backend/internal/domain/inventory"
)

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
