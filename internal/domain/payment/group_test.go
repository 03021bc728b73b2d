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

func monthlyDueDates(first time.Time, n int) []time.Time {
	dates := make([]time.Time, n)
	for i := range dates {
		dates[i] = first.AddDate(0, i, 0)
	}
	return dates
}

func TestPaymentGroup_CreateInpayments(t *testing.T) {
	g, ids := newTestGroup(t)
	m := newTestMethod(t, MethodBill, 0)

	created, err := g.CreateInpayments(ids, m, valueobject.NewMoneyBRLFromFloat(100), monthlyDueDates(testNow, 4), 2, testNow)
	require.NoError(t, err)
	require.Len(t, created, 4)

	for i, p := range created {
		assert.True(t, p.Value.Equal(decimal.NewFromInt(25)), "installment %d", i+1)
		assert.Equal(t, StatusPreview, p.Status)
		assert.Equal(t, DirectionIn, p.Direction)
	}
	assert.Equal(t, "installment 2/4", created[1].Description)
	assert.True(t, created[3].DueDate.Equal(testNow.AddDate(0, 3, 0)))
}

func TestPaymentGroup_CreateInpayments_RoundingDrift(t *testing.T) {
	g, ids := newTestGroup(t)
	m := newTestMethod(t, MethodBill, 0)

	created, err := g.CreateInpayments(ids, m, valueobject.NewMoneyBRLFromFloat(100), monthlyDueDates(testNow, 3), 2, testNow)
	require.NoError(t, err)

	sum := decimal.Zero
	for _, p := range created {
		sum = sum.Add(p.Value)
	}
	assert.True(t, sum.Equal(decimal.NewFromInt(100)))
	assert.True(t, created[0].Value.Equal(decimal.NewFromFloat(33.33)))
	assert.True(t, created[1].Value.Equal(decimal.NewFromFloat(33.33)))
	assert.True(t, created[2].Value.Equal(decimal.NewFromFloat(33.34)))
}

func TestPaymentGroup_CreateInpayments_TooManyInstallments(t *testing.T) {
	g, ids := newTestGroup(t)
	m, err := NewPaymentMethod(MethodBill, "", decimal.Zero, 2, testNow)
	require.NoError(t, err)

	_, err = g.CreateInpayments(ids, m, valueobject.NewMoneyBRLFromFloat(100), monthlyDueDates(testNow, 3), 2, testNow)
	require.Error(t, err)
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "TOO_MANY_INSTALLMENTS", derr.Code)
}

func TestPaymentGroup_SetPaymentsToPay_RequiresCounterparty(t *testing.T) {
	g := NewPaymentGroup(uuid.New(), testNow)
	ids := &shared.SequentialIdentifierFactory{}
	m := newTestMethod(t, MethodMoney, 0)
	_, err := g.AddPayment(ids, valueobject.NewMoneyBRLFromFloat(10), "x", m, DirectionIn, nil, testNow, testNow)
	require.NoError(t, err)

	err = g.SetPaymentsToPay(testNow)
	require.Error(t, err)
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Contains(t, derr.Code, "MISSING_COUNTERPARTY")

	g.SetPayer(uuid.New())
	require.NoError(t, g.SetPaymentsToPay(testNow))
	assert.Equal(t, GroupStatusOpen, g.Status)
}

func TestPaymentGroup_TotalInvariant(t *testing.T) {
	g, ids := newTestGroup(t)
	m := newTestMethod(t, MethodBill, 0)

	_, err := g.CreateInpayments(ids, m, valueobject.NewMoneyBRLFromFloat(100), monthlyDueDates(testNow, 4), 2, testNow)
	require.NoError(t, err)
	require.NoError(t, g.SetPaymentsToPay(testNow))
	assert.True(t, g.Total().Equal(decimal.NewFromInt(100)))

	// cancelling an installment leaves the non-cancelled sum at 75 and the
	// negative sibling outside the total
	_, err = g.CancelPayment(ids, g.Payments[0].ID, testNow)
	require.NoError(t, err)
	assert.True(t, g.Total().Equal(decimal.NewFromInt(75)))
	assert.True(t, g.GetBalance().Equal(decimal.NewFromInt(75)))
}

func TestPaymentGroup_GetBalance(t *testing.T) {
	g, ids := newTestGroup(t)
	m := newTestMethod(t, MethodBill, 0)

	created, err := g.CreateInpayments(ids, m, valueobject.NewMoneyBRLFromFloat(100), monthlyDueDates(testNow, 4), 2, testNow)
	require.NoError(t, err)
	require.NoError(t, g.SetPaymentsToPay(testNow))

	require.NoError(t, g.Pay(created[0].ID, nil, testNow))
	assert.True(t, g.GetBalance().Equal(decimal.NewFromInt(75)))

	require.NoError(t, g.Pay(created[1].ID, nil, testNow))
	require.NoError(t, g.Pay(created[2].ID, nil, testNow))
	require.NoError(t, g.Pay(created[3].ID, nil, testNow))
	assert.True(t, g.GetBalance().IsZero())
	require.NoError(t, g.Close(testNow))
	assert.Equal(t, GroupStatusClosed, g.Status)
}

func TestPaymentGroup_Close_RejectsOpenPayments(t *testing.T) {
	g, ids := newTestGroup(t)
	m := newTestMethod(t, MethodBill, 0)
	_, err := g.CreateInpayments(ids, m, valueobject.NewMoneyBRLFromFloat(100), monthlyDueDates(testNow, 2), 2, testNow)
	require.NoError(t, err)
	require.NoError(t, g.SetPaymentsToPay(testNow))

	err = g.Close(testNow)
	require.Error(t, err)
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Contains(t, derr.Code, "OPEN_PAYMENTS")
}

func TestPaymentGroup_ClearPreviewPayments(t *testing.T) {
	g, ids := newTestGroup(t)
	money := newTestMethod(t, MethodMoney, 0)
	card := newTestMethod(t, MethodCard, 0)

	_, err := g.AddPayment(ids, valueobject.NewMoneyBRLFromFloat(40), "a", money, DirectionIn, nil, testNow, testNow)
	require.NoError(t, err)
	_, err = g.AddPayment(ids, valueobject.NewMoneyBRLFromFloat(60), "b", card, DirectionIn, nil, testNow, testNow)
	require.NoError(t, err)

	g.ClearPreviewPayments(&card.ID, testNow)
	require.Len(t, g.Payments, 1)
	assert.Equal(t, card.ID, g.Payments[0].MethodID)

	g.ClearPreviewPayments(nil, testNow)
	assert.Empty(t, g.Payments)
}

func TestPaymentGroup_CancelOutstanding(t *testing.T) {
	g, ids := newTestGroup(t)
	m := newTestMethod(t, MethodBill, 0)
	created, err := g.CreateInpayments(ids, m, valueobject.NewMoneyBRLFromFloat(90), monthlyDueDates(testNow, 3), 2, testNow)
	require.NoError(t, err)
	require.NoError(t, g.SetPaymentsToPay(testNow))
	require.NoError(t, g.Pay(created[0].ID, nil, testNow))

	siblings, err := g.CancelOutstanding(ids, testNow)
	require.NoError(t, err)
	assert.Len(t, siblings, 2)
	assert.Equal(t, StatusPaid, created[0].Status)
	assert.Equal(t, StatusCancelled, created[1].Status)
	assert.Equal(t, StatusCancelled, created[2].Status)
}

func TestPaymentGroup_Pay_PublishesEvent(t *testing.T) {
	g, ids := newTestGroup(t)
	m := newTestMethod(t, MethodMoney, 0)
	p, err := g.AddPayment(ids, valueobject.NewMoneyBRLFromFloat(10), "x", m, DirectionIn, nil, testNow, testNow)
	require.NoError(t, err)
	require.NoError(t, g.SetPaymentsToPay(testNow))
	g.ClearDomainEvents()

	require.NoError(t, g.Pay(p.ID, nil, testNow))
	events := g.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypePaymentConfirmed, events[0].EventType())
	assert.Equal(t, g.BranchID, events[0].BranchID())
}
