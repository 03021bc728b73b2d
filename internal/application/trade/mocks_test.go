package trade

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/retailcore/backend/internal/domain/catalog"
	"github.com/retailcore/backend/internal/domain/fiscal"
	"github.com/retailcore/backend/internal/domain/inventory"
	"github.com/retailcore/backend/internal/domain/payment"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/domain/trade"
)

// MockSaleRepository is a mock implementation of SaleRepository
type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) Save(ctx context.Context, sale *trade.Sale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

func (m *MockSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Sale, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*trade.Sale, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindByIdentifier(ctx context.Context, branchID uuid.UUID, identifier int64) (*trade.Sale, error) {
	args := m.Called(ctx, branchID, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Sale), args.Error(1)
}

func (m *MockSaleRepository) List(ctx context.Context, filter trade.SaleFilter) (*shared.Paginated[*trade.Sale], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*trade.Sale]), args.Error(1)
}

func (m *MockSaleRepository) Update(ctx context.Context, sale *trade.Sale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

// MockReturnedSaleRepository is a mock implementation of ReturnedSaleRepository
type MockReturnedSaleRepository struct {
	mock.Mock
}

func (m *MockReturnedSaleRepository) Save(ctx context.Context, r *trade.ReturnedSale) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReturnedSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.ReturnedSale, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.ReturnedSale), args.Error(1)
}

func (m *MockReturnedSaleRepository) FindBySale(ctx context.Context, saleID uuid.UUID) ([]*trade.ReturnedSale, error) {
	args := m.Called(ctx, saleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*trade.ReturnedSale), args.Error(1)
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

// MockRenegotiationRepository mocks trade.RenegotiationRepository
type MockRenegotiationRepository struct {
	mock.Mock
}

func (m *MockRenegotiationRepository) Save(ctx context.Context, r *trade.RenegotiationData) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRenegotiationRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.RenegotiationData, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.RenegotiationData), args.Error(1)
}

// MockPurchaseOrderRepository mocks trade.PurchaseOrderRepository
type MockPurchaseOrderRepository struct {
	mock.Mock
}

func (m *MockPurchaseOrderRepository) Save(ctx context.Context, order *trade.PurchaseOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.PurchaseOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*trade.PurchaseOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[*trade.PurchaseOrder], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*trade.PurchaseOrder]), args.Error(1)
}

func (m *MockPurchaseOrderRepository) Update(ctx context.Context, order *trade.PurchaseOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

// MockReceivingOrderRepository mocks trade.ReceivingOrderRepository
type MockReceivingOrderRepository struct {
	mock.Mock
}

func (m *MockReceivingOrderRepository) Save(ctx context.Context, order *trade.ReceivingOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockReceivingOrderRepository) FindByPurchase(ctx context.Context, purchaseID uuid.UUID) ([]*trade.ReceivingOrder, error) {
	args := m.Called(ctx, purchaseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*trade.ReceivingOrder), args.Error(1)
}
