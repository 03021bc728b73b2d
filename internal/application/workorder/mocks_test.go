package workorder

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/retailcore/backend/internal/domain/catalog"
	"github.com/retailcore/backend/internal/domain/inventory"
	"github.com/retailcore/backend/internal/domain/payment"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/domain/workorder"
)

// MockWorkOrderRepository is a mock implementation of workorder.WorkOrderRepository
type MockWorkOrderRepository struct {
	mock.Mock
}

func (m *MockWorkOrderRepository) Save(ctx context.Context, order *workorder.WorkOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockWorkOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*workorder.WorkOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workorder.WorkOrder), args.Error(1)
}

func (m *MockWorkOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*workorder.WorkOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workorder.WorkOrder), args.Error(1)
}

func (m *MockWorkOrderRepository) List(ctx context.Context, filter workorder.WorkOrderFilter) (*shared.Paginated[*workorder.WorkOrder], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*workorder.WorkOrder]), args.Error(1)
}

func (m *MockWorkOrderRepository) Update(ctx context.Context, order *workorder.WorkOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

// MockProductionOrderRepository is a mock implementation of workorder.ProductionOrderRepository
type MockProductionOrderRepository struct {
	mock.Mock
}

func (m *MockProductionOrderRepository) Save(ctx context.Context, order *workorder.ProductionOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockProductionOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*workorder.ProductionOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workorder.ProductionOrder), args.Error(1)
}

func (m *MockProductionOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*workorder.ProductionOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workorder.ProductionOrder), args.Error(1)
}

func (m *MockProductionOrderRepository) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[*workorder.ProductionOrder], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*workorder.ProductionOrder]), args.Error(1)
}

func (m *MockProductionOrderRepository) Update(ctx context.Context, order *workorder.ProductionOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

// MockGroupRepository is a mock implementation of payment.GroupRepository
type MockGroupRepository struct {
	mock.Mock
}

func (m *MockGroupRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.PaymentGroup, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.PaymentGroup), args.Error(1)
}

func (m *MockGroupRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*payment.PaymentGroup, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.PaymentGroup), args.Error(1)
}

func (m *MockGroupRepository) Save(ctx context.Context, group *payment.PaymentGroup) error {
	args := m.Called(ctx, group)
	return args.Error(0)
}

// MockMethodRepository is a mock implementation of payment.MethodRepository
type MockMethodRepository struct {
	mock.Mock
}

func (m *MockMethodRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.PaymentMethod, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.PaymentMethod), args.Error(1)
}

func (m *MockMethodRepository) FindByType(ctx context.Context, methodType payment.MethodType) (*payment.PaymentMethod, error) {
	args := m.Called(ctx, methodType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.PaymentMethod), args.Error(1)
}

func (m *MockMethodRepository) Save(ctx context.Context, method *payment.PaymentMethod) error {
	args := m.Called(ctx, method)
	return args.Error(0)
}

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
