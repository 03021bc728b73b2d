package trade

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailcore/backend/internal/domain/shared"
)

func newConfirmedPurchase(t *testing.T, quantity int64) (*PurchaseOrder, *PurchaseItem) {
	o := NewPurchaseOrder(1, uuid.New(), uuid.New(), uuid.New(), testNow)
	item, err := o.AddItem(uuid.New(), qty(quantity), decimal.NewFromInt(10), testNow)
	require.NoError(t, err)
	require.NoError(t, o.SetPending(testNow))
	require.NoError(t, o.Confirm(testNow))
	return o, item
}

func TestPurchaseOrder_Lifecycle(t *testing.T) {
	o := NewPurchaseOrder(1, uuid.New(), uuid.New(), uuid.New(), testNow)

	// empty orders cannot be sent
	require.Error(t, o.SetPending(testNow))

	_, err := o.AddItem(uuid.New(), qty(5), decimal.NewFromInt(10), testNow)
	require.NoError(t, err)
	assert.True(t, o.TotalAmount().Equal(decimal.NewFromInt(50)))

	require.NoError(t, o.SetPending(testNow))
	// items are frozen after quoting
	_, err = o.AddItem(uuid.New(), qty(1), decimal.NewFromInt(10), testNow)
	assert.True(t, shared.IsInvalidStateTransition(err))

	require.NoError(t, o.Confirm(testNow))
	assert.Equal(t, PurchaseStatusConfirmed, o.Status)
}

func TestPurchaseOrder_Receive_Monotonic(t *testing.T) {
	o, item := newConfirmedPurchase(t, 10)

	require.NoError(t, o.Receive(item.ID, qty(4), testNow))
	assert.True(t, item.QuantityReceived.Equal(qty(4)))
	assert.Equal(t, PurchaseStatusConfirmed, o.Status)

	// over-receiving the pending quantity is rejected
	err := o.Receive(item.ID, qty(7), testNow)
	require.Error(t, err)
	assert.True(t, item.QuantityReceived.Equal(qty(4)))

	// the final delivery closes the order
	require.NoError(t, o.Receive(item.ID, qty(6), testNow))
	assert.Equal(t, PurchaseStatusClosed, o.Status)
	require.NotNil(t, o.CloseDate)
}

func TestPurchaseOrder_Cancel(t *testing.T) {
	o := NewPurchaseOrder(1, uuid.New(), uuid.New(), uuid.New(), testNow)
	_, err := o.AddItem(uuid.New(), qty(1), decimal.NewFromInt(10), testNow)
	require.NoError(t, err)
	require.NoError(t, o.Cancel(testNow))

	o2, _ := newConfirmedPurchase(t, 1)
	err = o2.Cancel(testNow)
	assert.True(t, shared.IsInvalidStateTransition(err))
}

func TestReceivingOrder_Close(t *testing.T) {
	o, item := newConfirmedPurchase(t, 10)

	r, err := NewReceivingOrder(2, o, "NF-123", testNow)
	require.NoError(t, err)
	_, err = r.AddItem(item, qty(10))
	require.NoError(t, err)
	assert.True(t, r.TotalAmount().Equal(decimal.NewFromInt(100)))

	require.NoError(t, r.Close(o, testNow))
	assert.Equal(t, ReceivingStatusClosed, r.Status)
	assert.Equal(t, PurchaseStatusClosed, o.Status)
	assert.True(t, item.Pending().IsZero())

	// a closed delivery cannot be reapplied
	require.Error(t, r.Close(o, testNow))
}

func TestReceivingOrder_RejectsOverDelivery(t *testing.T) {
	_, item := newConfirmedPurchase(t, 3)
	o2, _ := newConfirmedPurchase(t, 3)

	r, err := NewReceivingOrder(2, o2, "NF-9", testNow)
	require.NoError(t, err)
	_, err = r.AddItem(item, qty(4))
	require.Error(t, err)
}

func TestReturnedSale_QuantityBounds(t *testing.T) {
	s := newQuoteSale()
	item, err := s.AddItem(uuid.New(), qty(2), decimal.NewFromInt(50), decimal.NewFromInt(50), false, testNow)
	require.NoError(t, err)
	require.NoError(t, s.Order(testNow))
	require.NoError(t, s.Confirm(testNow))

	r, err := NewReturnedSale(3, s, uuid.New(), "defective", testNow)
	require.NoError(t, err)

	_, err = r.AddItem(item, qty(1))
	require.NoError(t, err)
	// cumulative returns cannot exceed the sold quantity
	_, err = r.AddItem(item, qty(2))
	require.Error(t, err)
	_, err = r.AddItem(item, qty(1))
	require.NoError(t, err)
	assert.True(t, r.TotalAmount().Equal(decimal.NewFromInt(100)))
}

func TestReturnedSale_CreditsDiscountedValue(t *testing.T) {
	s := newQuoteSale()
	item, err := s.AddItem(uuid.New(), qty(3), decimal.NewFromInt(10), decimal.NewFromInt(10), false, testNow)
	require.NoError(t, err)
	require.NoError(t, s.ApplyDiscount(decimal.NewFromInt(1), 2, testNow))
	require.NoError(t, s.Order(testNow))
	require.NoError(t, s.Confirm(testNow))

	r, err := NewReturnedSale(3, s, uuid.New(), "defective", testNow)
	require.NoError(t, err)

	// partial returns carry proportional discount shares; once the whole
	// quantity is back the credit equals the discounted total exactly
	_, err = r.AddItem(item, qty(1))
	require.NoError(t, err)
	_, err = r.AddItem(item, qty(2))
	require.NoError(t, err)
	assert.True(t, r.TotalAmount().Equal(decimal.NewFromInt(29)), "got %s", r.TotalAmount())
}

func TestReturnedSale_RequiresConfirmedSale(t *testing.T) {
	s := newQuoteSale()
	_, err := NewReturnedSale(3, s, uuid.New(), "changed mind", testNow)
	assert.True(t, shared.IsInvalidStateTransition(err))
}

func TestRenegotiationData_Validation(t *testing.T) {
	_, err := NewRenegotiationData(4, uuid.New(), uuid.New(), uuid.New(), uuid.New(), nil, decimal.NewFromInt(100), decimal.Zero, testNow)
	require.Error(t, err)

	r, err := NewRenegotiationData(4, uuid.New(), uuid.New(), uuid.New(), uuid.New(), []uuid.UUID{uuid.New()}, decimal.NewFromInt(100), decimal.NewFromInt(5), testNow)
	require.NoError(t, err)
	assert.True(t, r.PenaltyWaived.Equal(decimal.NewFromInt(5)))
}
