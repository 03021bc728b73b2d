package workorder

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/retailcore/backend/internal/domain/catalog"
	"github.com/retailcore/backend/internal/domain/inventory"
	"github.com/retailcore/backend/internal/domain/payment"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/domain/workorder"
)

var testNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

type orderFixture struct {
	orderRepo    *MockWorkOrderRepository
	groupRepo    *MockGroupRepository
	methodRepo   *MockMethodRepository
	sellableRepo *MockSellableRepository
	storableRepo *MockStorableRepository
	ids          *shared.SequentialIdentifierFactory
	service      *WorkOrderService
	rc           shared.RunContext
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	f := &orderFixture{
		orderRepo:    new(MockWorkOrderRepository),
		groupRepo:    new(MockGroupRepository),
		methodRepo:   new(MockMethodRepository),
		sellableRepo: new(MockSellableRepository),
		storableRepo: new(MockStorableRepository),
		ids:          new(shared.SequentialIdentifierFactory),
	}
	f.service = NewWorkOrderService(f.orderRepo, f.groupRepo, f.methodRepo,
		f.sellableRepo, f.storableRepo, f.ids)
	f.rc = shared.NewRunContext(uuid.New(), uuid.New(), uuid.New(),
		shared.DefaultParameters(), shared.FixedClock{Instant: testNow})
	return f
}

func newTestSellable(t *testing.T, price int64) *catalog.Sellable {
	t.Helper()
	s, err := catalog.NewSellable("SRV-001", "Repair part", catalog.SellableKindProduct,
		decimal.NewFromInt(price), decimal.NewFromInt(price/2), "un", testNow)
	require.NoError(t, err)
	return s
}

func newTestStorable(t *testing.T, sellableID, branchID uuid.UUID, balance int64) *inventory.Storable {
	t.Helper()
	s, err := inventory.NewStorable(sellableID, testNow)
	require.NoError(t, err)
	require.NoError(t, s.IncreaseStock(decimal.NewFromInt(balance), branchID, nil,
		inventory.StockTransactionInitial, uuid.New(), testNow))
	return s
}

func billMethod(t *testing.T) *payment.PaymentMethod {
	t.Helper()
	m, err := payment.NewPaymentMethod(payment.MethodBill, "Bill", decimal.NewFromFloat(0.5), 12, testNow)
	require.NoError(t, err)
	return m
}

// approvedOrder builds an order with one 2 x 50 line, ready to finish
func approvedOrder(t *testing.T, f *orderFixture, sellableID uuid.UUID) (*workorder.WorkOrder, *payment.PaymentGroup) {
	t.Helper()
	group := payment.NewPaymentGroup(f.rc.BranchID, testNow)
	group.SetPayer(uuid.New())
	order := workorder.NewWorkOrder(f.ids.Next(), f.rc.BranchID, *group.PayerID, group.ID, "screen swap", testNow)
	_, err := order.AddItem(sellableID, decimal.NewFromInt(2), decimal.NewFromInt(50), testNow)
	require.NoError(t, err)
	require.NoError(t, order.SendForApproval(f.rc.UserID, "", testNow))
	require.NoError(t, order.Approve(f.rc.UserID, uuid.New(), testNow))
	order.ClearDomainEvents()
	return order, group
}

func TestWorkOrderService_Create(t *testing.T) {
	f := newOrderFixture(t)
	sellable := newTestSellable(t, 80)

	f.sellableRepo.On("FindByID", mock.Anything, sellable.ID).Return(sellable, nil)
	f.groupRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.orderRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

	response, err := f.service.Create(context.Background(), f.rc, CreateWorkOrderRequest{
		ClientID:    uuid.New(),
		Description: "screen swap",
		Items: []WorkOrderItemRequest{
			{SellableID: sellable.ID, Quantity: decimal.NewFromInt(1)},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, workorder.WorkOrderStatusOpened.String(), response.Status)
	assert.Equal(t, int64(1), response.Identifier)
	// price defaults to the sellable's effective price
	assert.True(t, response.Total.Equal(decimal.NewFromInt(80)))
	f.groupRepo.AssertExpectations(t)
}

func TestWorkOrderService_CreateRejectsBlockedSellable(t *testing.T) {
	f := newOrderFixture(t)
	sellable := newTestSellable(t, 80)
	require.NoError(t, sellable.Block(testNow))

	f.sellableRepo.On("FindByID", mock.Anything, sellable.ID).Return(sellable, nil)

	_, err := f.service.Create(context.Background(), f.rc, CreateWorkOrderRequest{
		ClientID:    uuid.New(),
		Description: "screen swap",
		Items: []WorkOrderItemRequest{
			{SellableID: sellable.ID, Quantity: decimal.NewFromInt(1)},
		},
	})
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_SELLABLE", domainErr.Code)
}

func TestWorkOrderService_Finish(t *testing.T) {
	f := newOrderFixture(t)
	sellableID := uuid.New()
	order, group := approvedOrder(t, f, sellableID)
	storable := newTestStorable(t, sellableID, f.rc.BranchID, 5)

	f.orderRepo.On("FindByIDForUpdate", mock.Anything, order.ID).Return(order, nil)
	f.orderRepo.On("Update", mock.Anything, order).Return(nil)
	f.groupRepo.On("FindByIDForUpdate", mock.Anything, group.ID).Return(group, nil)
	f.groupRepo.On("Save", mock.Anything, group).Return(nil)
	f.methodRepo.On("FindByType", mock.Anything, payment.MethodBill).Return(billMethod(t), nil)
	f.storableRepo.On("FindBySellableForUpdate", mock.Anything, sellableID).Return(storable, nil)
	f.storableRepo.On("Save", mock.Anything, storable).Return(nil)

	response, err := f.service.Finish(context.Background(), f.rc, order.ID, FinishWorkOrderRequest{
		MethodType:   "BILL",
		Installments: 2,
		IntervalDays: 30,
	})
	require.NoError(t, err)

	assert.Equal(t, workorder.WorkOrderStatusFinished.String(), response.Status)
	// two units left stock
	assert.True(t, storable.BalanceFor(f.rc.BranchID).Equal(decimal.NewFromInt(3)))
	// the client owes two 50 installments
	require.Len(t, group.Payments, 2)
	assert.True(t, group.Total().Equal(decimal.NewFromInt(100)))
	for _, p := range group.Payments {
		assert.Equal(t, payment.StatusToPay, p.Status)
	}
}

func TestWorkOrderService_FinishRetriesOnConcurrencyConflict(t *testing.T) {
	f := newOrderFixture(t)
	sellableID := uuid.New()
	order, group := approvedOrder(t, f, sellableID)
	storable := newTestStorable(t, sellableID, f.rc.BranchID, 5)

	f.orderRepo.On("FindByIDForUpdate", mock.Anything, order.ID).
		Return(nil, shared.ErrConcurrencyConflict).Once()
	f.orderRepo.On("FindByIDForUpdate", mock.Anything, order.ID).Return(order, nil)
	f.orderRepo.On("Update", mock.Anything, order).Return(nil)
	f.groupRepo.On("FindByIDForUpdate", mock.Anything, group.ID).Return(group, nil)
	f.groupRepo.On("Save", mock.Anything, group).Return(nil)
	f.methodRepo.On("FindByType", mock.Anything, payment.MethodBill).Return(billMethod(t), nil)
	f.storableRepo.On("FindBySellableForUpdate", mock.Anything, sellableID).Return(storable, nil)
	f.storableRepo.On("Save", mock.Anything, storable).Return(nil)

	_, err := f.service.Finish(context.Background(), f.rc, order.ID, FinishWorkOrderRequest{
		MethodType: "BILL",
	})
	require.NoError(t, err)
	f.orderRepo.AssertNumberOfCalls(t, "FindByIDForUpdate", 2)
}

func TestWorkOrderService_FinishSkipsServiceLines(t *testing.T) {
	f := newOrderFixture(t)
	sellableID := uuid.New()
	order, group := approvedOrder(t, f, sellableID)

	f.orderRepo.On("FindByIDForUpdate", mock.Anything, order.ID).Return(order, nil)
	f.orderRepo.On("Update", mock.Anything, order).Return(nil)
	f.groupRepo.On("FindByIDForUpdate", mock.Anything, group.ID).Return(group, nil)
	f.groupRepo.On("Save", mock.Anything, group).Return(nil)
	f.methodRepo.On("FindByType", mock.Anything, payment.MethodBill).Return(billMethod(t), nil)
	// labor has no stock-bearing facet
	f.storableRepo.On("FindBySellableForUpdate", mock.Anything, sellableID).
		Return(nil, shared.ErrNotFound)

	response, err := f.service.Finish(context.Background(), f.rc, order.ID, FinishWorkOrderRequest{
		MethodType: "BILL",
	})
	require.NoError(t, err)
	assert.Equal(t, workorder.WorkOrderStatusFinished.String(), response.Status)
	f.storableRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestWorkOrderService_Cancel(t *testing.T) {
	f := newOrderFixture(t)
	order := workorder.NewWorkOrder(f.ids.Next(), f.rc.BranchID, uuid.New(), uuid.New(), "screen swap", testNow)

	f.orderRepo.On("FindByIDForUpdate", mock.Anything, order.ID).Return(order, nil)
	f.orderRepo.On("Update", mock.Anything, order).Return(nil)

	response, err := f.service.Cancel(context.Background(), f.rc, order.ID, "client gave up")
	require.NoError(t, err)
	assert.Equal(t, workorder.WorkOrderStatusCancelled.String(), response.Status)
}
