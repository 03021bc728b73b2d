package payment

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/domain/shared/valueobject"
)

var testNow = time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC)

func newTestMethod(t *testing.T, methodType MethodType, penaltyPct float64) *PaymentMethod {
	m, err := NewPaymentMethod(methodType, "", decimal.NewFromFloat(penaltyPct), 12, testNow)
	require.NoError(t, err)
	return m
}

func newTestGroup(t *testing.T) (*PaymentGroup, *shared.SequentialIdentifierFactory) {
	g := NewPaymentGroup(uuid.New(), testNow)
	g.SetPayer(uuid.New())
	return g, &shared.SequentialIdentifierFactory{}
}

func addToPayPayment(t *testing.T, g *PaymentGroup, ids shared.IdentifierFactory, method *PaymentMethod, value float64, due time.Time) *Payment {
	p, err := g.AddPayment(ids, valueobject.NewMoneyBRLFromFloat(value), "test", method, DirectionIn, nil, due, testNow)
	require.NoError(t, err)
	require.NoError(t, g.SetPaymentsToPay(testNow))
	require.Equal(t, StatusToPay, p.Status)
	return p
}

func TestPayment_Lifecycle(t *testing.T) {
	g, ids := newTestGroup(t)
	m := newTestMethod(t, MethodCheck, 0)
	p := addToPayPayment(t, g, ids, m, 100, testNow.AddDate(0, 0, 30))

	require.NoError(t, g.Pay(p.ID, nil, testNow))
	assert.Equal(t, StatusPaid, p.Status)
	require.NotNil(t, p.PaidValue)
	assert.True(t, p.PaidValue.Equal(decimal.NewFromInt(100)))
	require.NotNil(t, p.PaidDate)

	require.NoError(t, p.Submit(nil, testNow))
	assert.Equal(t, StatusReviewing, p.Status)

	require.NoError(t, p.Reject("bounced", nil, testNow))
	assert.Equal(t, StatusPaid, p.Status)
	assert.Equal(t, "bounced", p.RejectReason)

	require.NoError(t, p.Submit(nil, testNow))
	require.NoError(t, p.Confirm(testNow))
	assert.Equal(t, StatusConfirmed, p.Status)
}

func TestPayment_PaidValueIdentity(t *testing.T) {
	g, ids := newTestGroup(t)
	m := newTestMethod(t, MethodBill, 0)
	p := addToPayPayment(t, g, ids, m, 100, testNow)

	p.Discount = decimal.NewFromFloat(5)
	p.Interest = decimal.NewFromFloat(2)
	require.NoError(t, g.Pay(p.ID, nil, testNow))

	// paid_value = value - discount + interest
	assert.True(t, p.PaidValue.Equal(decimal.NewFromFloat(97)))
}

func TestPayment_PayAmount_RecordsPenalty(t *testing.T) {
	g, ids := newTestGroup(t)
	m := newTestMethod(t, MethodCheck, 0)
	p := addToPayPayment(t, g, ids, m, 100, testNow)

	require.NoError(t, p.PayAmount(decimal.NewFromFloat(103), nil, testNow))
	assert.True(t, p.Penalty.Equal(decimal.NewFromFloat(3)))
	assert.True(t, p.PaidValue.Equal(decimal.NewFromFloat(103)))
}

func TestPayment_InvalidTransitions(t *testing.T) {
	g, ids := newTestGroup(t)
	m := newTestMethod(t, MethodMoney, 0)
	p, err := g.AddPayment(ids, valueobject.NewMoneyBRLFromFloat(50), "x", m, DirectionIn, nil, testNow, testNow)
	require.NoError(t, err)

	// preview payments cannot be paid
	err = p.Pay(nil, testNow)
	assert.True(t, shared.IsInvalidStateTransition(err))

	// submit requires paid
	err = p.Submit(nil, testNow)
	assert.True(t, shared.IsInvalidStateTransition(err))

	// reject requires reviewing
	err = p.Reject("no", nil, testNow)
	assert.True(t, shared.IsInvalidStateTransition(err))
}

func TestPayment_GetPayableValue_CheckPenalty(t *testing.T) {
	g, ids := newTestGroup(t)
	m := newTestMethod(t, MethodCheck, 0.5)
	due := testNow.AddDate(0, 0, -10)
	p := addToPayPayment(t, g, ids, m, 100, due)

	// 100 + 10 days * 0.5% * 100 = 105.00
	got := p.GetPayableValue(testNow)
	assert.True(t, got.Equal(decimal.NewFromFloat(105)), "got %s", got)
}

func TestPayment_GetPayableValue_NoPenaltyCases(t *testing.T) {
	g, ids := newTestGroup(t)

	// money method never accrues penalty
	money := newTestMethod(t, MethodMoney, 0.5)
	p := addToPayPayment(t, g, ids, money, 100, testNow.AddDate(0, 0, -10))
	assert.True(t, p.GetPayableValue(testNow).Equal(decimal.NewFromInt(100)))

	// not yet overdue
	check := newTestMethod(t, MethodCheck, 0.5)
	p2, err := g.AddPayment(ids, valueobject.NewMoneyBRLFromFloat(100), "x", check, DirectionIn, nil, testNow.AddDate(0, 0, 5), testNow)
	require.NoError(t, err)
	require.NoError(t, g.SetPaymentsToPay(testNow))
	assert.True(t, p2.GetPayableValue(testNow).Equal(decimal.NewFromInt(100)))

	// settled payments return the realized paid value
	require.NoError(t, g.Pay(p2.ID, nil, testNow))
	assert.True(t, p2.GetPayableValue(testNow).Equal(*p2.PaidValue))
}

func TestPayment_Cancel_CreatesNegativeSibling(t *testing.T) {
	g, ids := newTestGroup(t)
	m := newTestMethod(t, MethodCheck, 0)
	p := addToPayPayment(t, g, ids, m, 25, testNow.AddDate(0, 0, 60))

	sibling, err := g.CancelPayment(ids, p.ID, testNow)
	require.NoError(t, err)
	require.NotNil(t, sibling)

	assert.Equal(t, StatusCancelled, p.Status)
	assert.True(t, sibling.Value.Equal(decimal.NewFromInt(-25)))
	assert.Equal(t, "Cancellation of #1", sibling.Description)
	assert.True(t, sibling.DueDate.Equal(testNow))

	// idempotent on already-cancelled
	again, err := g.CancelPayment(ids, p.ID, testNow)
	require.NoError(t, err)
	assert.Nil(t, again)
}

func TestPayment_Cancel_PaidRejected(t *testing.T) {
	g, ids := newTestGroup(t)
	m := newTestMethod(t, MethodCheck, 0)
	p := addToPayPayment(t, g, ids, m, 40, testNow)
	require.NoError(t, g.Pay(p.ID, nil, testNow))

	_, err := g.CancelPayment(ids, p.ID, testNow)
	assert.True(t, shared.IsInvalidStateTransition(err))
}

func TestPayment_IsDivergentOn(t *testing.T) {
	g, ids := newTestGroup(t)
	m := newTestMethod(t, MethodCheck, 0)
	due := time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC)
	p := addToPayPayment(t, g, ids, m, 100, due)

	// unpaid obligation is divergent on its due date
	assert.True(t, p.IsDivergentOn(due))
	assert.False(t, p.IsDivergentOn(due.AddDate(0, 0, 1)))

	// paid on schedule with the exact amount: not divergent
	require.NoError(t, g.Pay(p.ID, &due, testNow))
	assert.False(t, p.IsDivergentOn(due))

	// paid late: divergent on both due and paid days
	p2 := addToPayPayment(t, g, ids, m, 50, due)
	late := due.AddDate(0, 0, 3)
	require.NoError(t, g.Pay(p2.ID, &late, testNow))
	assert.True(t, p2.IsDivergentOn(due))
	assert.True(t, p2.IsDivergentOn(late))
}
