package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/retailcore/backend/internal/domain/inventory"
	"github.com/retailcore/backend/internal/domain/shared"
)

var testNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

type inventoryFixture struct {
	storableRepo *MockStorableRepository
	service      *InventoryService
	rc           shared.RunContext
}

func newInventoryFixture(t *testing.T) *inventoryFixture {
	t.Helper()
	f := &inventoryFixture{storableRepo: new(MockStorableRepository)}
	f.service = NewInventoryService(f.storableRepo)
	f.rc = shared.NewRunContext(uuid.New(), uuid.New(), uuid.New(),
		shared.DefaultParameters(), shared.FixedClock{Instant: testNow})
	return f
}

func newStorable(t *testing.T) *inventory.Storable {
	t.Helper()
	storable, err := inventory.NewStorable(uuid.New(), testNow)
	require.NoError(t, err)
	return storable
}

func TestInventoryService_RegisterStock(t *testing.T) {
	t.Run("books received quantity with a moving-average cost", func(t *testing.T) {
		f := newInventoryFixture(t)
		storable := newStorable(t)

		f.storableRepo.On("FindBySellableForUpdate", mock.Anything, storable.SellableID).Return(storable, nil)
		f.storableRepo.On("Save", mock.Anything, storable).Return(nil)

		cost := decimal.NewFromInt(6)
		response, err := f.service.RegisterStock(context.Background(), f.rc, storable.SellableID, RegisterStockRequest{
			Quantity: decimal.NewFromInt(10),
			UnitCost: &cost,
		})

		require.NoError(t, err)
		require.Len(t, response.Items, 1)
		assert.True(t, response.Items[0].Quantity.Equal(decimal.NewFromInt(10)))
		assert.True(t, response.Items[0].StockCost.Equal(cost))
		require.Len(t, storable.Transactions, 1)
		assert.Equal(t, inventory.StockTransactionReceived, storable.Transactions[0].Kind)
	})

	t.Run("rejects a non-positive quantity", func(t *testing.T) {
		f := newInventoryFixture(t)
		storable := newStorable(t)

		f.storableRepo.On("FindBySellableForUpdate", mock.Anything, storable.SellableID).Return(storable, nil)

		_, err := f.service.RegisterStock(context.Background(), f.rc, storable.SellableID, RegisterStockRequest{
			Quantity: decimal.Zero,
		})

		assert.Error(t, err)
		f.storableRepo.AssertNotCalled(t, "Save")
	})
}

func TestInventoryService_AdjustStock(t *testing.T) {
	t.Run("a negative adjustment decreases the balance", func(t *testing.T) {
		f := newInventoryFixture(t)
		storable := newStorable(t)
		require.NoError(t, storable.IncreaseStock(decimal.NewFromInt(10), f.rc.BranchID, nil,
			inventory.StockTransactionInitial, f.rc.UserID, testNow))

		f.storableRepo.On("FindBySellableForUpdate", mock.Anything, storable.SellableID).Return(storable, nil)
		f.storableRepo.On("Save", mock.Anything, storable).Return(nil)

		response, err := f.service.AdjustStock(context.Background(), f.rc, storable.SellableID, AdjustStockRequest{
			Quantity: decimal.NewFromInt(-3),
		})

		require.NoError(t, err)
		assert.True(t, response.Items[0].Quantity.Equal(decimal.NewFromInt(7)))
		last := storable.Transactions[len(storable.Transactions)-1]
		assert.Equal(t, inventory.StockTransactionManualAdjustment, last.Kind)
		assert.True(t, last.Quantity.Equal(decimal.NewFromInt(-3)))
	})

	t.Run("an adjustment below zero stock fails", func(t *testing.T) {
		f := newInventoryFixture(t)
		storable := newStorable(t)

		f.storableRepo.On("FindBySellableForUpdate", mock.Anything, storable.SellableID).Return(storable, nil)

		_, err := f.service.AdjustStock(context.Background(), f.rc, storable.SellableID, AdjustStockRequest{
			Quantity: decimal.NewFromInt(-1),
		})

		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	})

	t.Run("retries once on a concurrency conflict", func(t *testing.T) {
		f := newInventoryFixture(t)
		storable := newStorable(t)

		f.storableRepo.On("FindBySellableForUpdate", mock.Anything, storable.SellableID).Return(storable, nil)
		f.storableRepo.On("Save", mock.Anything, storable).Return(shared.ErrConcurrencyConflict).Once()
		f.storableRepo.On("Save", mock.Anything, storable).Return(nil).Once()

		_, err := f.service.AdjustStock(context.Background(), f.rc, storable.SellableID, AdjustStockRequest{
			Quantity: decimal.NewFromInt(5),
		})

		require.NoError(t, err)
		f.storableRepo.AssertExpectations(t)
	})
}

func TestInventoryService_TransferStock(t *testing.T) {
	t.Run("moves quantity and carries the source cost", func(t *testing.T) {
		f := newInventoryFixture(t)
		storable := newStorable(t)
		target := uuid.New()
		cost := decimal.NewFromInt(6)
		require.NoError(t, storable.IncreaseStock(decimal.NewFromInt(10), f.rc.BranchID, &cost,
			inventory.StockTransactionInitial, f.rc.UserID, testNow))

		f.storableRepo.On("FindBySellableForUpdate", mock.Anything, storable.SellableID).Return(storable, nil)
		f.storableRepo.On("Save", mock.Anything, storable).Return(nil)

		response, err := f.service.TransferStock(context.Background(), f.rc, storable.SellableID, TransferStockRequest{
			FromBranchID: f.rc.BranchID,
			ToBranchID:   target,
			Quantity:     decimal.NewFromInt(4),
		})

		require.NoError(t, err)
		assert.True(t, storable.BalanceFor(f.rc.BranchID).Equal(decimal.NewFromInt(6)))
		assert.True(t, storable.BalanceFor(target).Equal(decimal.NewFromInt(4)))
		assert.True(t, storable.CostFor(target).Equal(cost))
		assert.Len(t, response.Items, 2)
	})

	t.Run("rejects a transfer onto itself", func(t *testing.T) {
		f := newInventoryFixture(t)
		branch := uuid.New()

		_, err := f.service.TransferStock(context.Background(), f.rc, uuid.New(), TransferStockRequest{
			FromBranchID: branch,
			ToBranchID:   branch,
			Quantity:     decimal.NewFromInt(1),
		})

		assert.Error(t, err)
		f.storableRepo.AssertNotCalled(t, "FindBySellableForUpdate")
	})

	t.Run("a transfer larger than the source balance fails atomically", func(t *testing.T) {
		f := newInventoryFixture(t)
		storable := newStorable(t)

		f.storableRepo.On("FindBySellableForUpdate", mock.Anything, storable.SellableID).Return(storable, nil)

		_, err := f.service.TransferStock(context.Background(), f.rc, storable.SellableID, TransferStockRequest{
			FromBranchID: f.rc.BranchID,
			ToBranchID:   uuid.New(),
			Quantity:     decimal.NewFromInt(1),
		})

		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		f.storableRepo.AssertNotCalled(t, "Save")
	})
}
