package payment

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailcore/backend/internal/domain/shared/valueobject"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestComputeFlowHistory_RunningBalances(t *testing.T) {
	g, ids := newTestGroup(t)
	check := newTestMethod(t, MethodCheck, 0)

	jan10 := day(2014, time.January, 10)
	jan15 := day(2014, time.January, 15)

	inflow, err := g.AddPayment(ids, valueobject.NewMoneyBRLFromFloat(100), "sale", check, DirectionIn, nil, jan10, testNow)
	require.NoError(t, err)
	_, err = g.AddPayment(ids, valueobject.NewMoneyBRLFromFloat(40), "supplier", check, DirectionOut, nil, jan15, testNow)
	require.NoError(t, err)
	require.NoError(t, g.SetPaymentsToPay(testNow))
	require.NoError(t, g.Pay(inflow.ID, &jan10, testNow))

	rows := ComputeFlowHistory(g.Payments, jan10, jan15, false)
	require.Len(t, rows, 2)

	first := rows[0]
	assert.True(t, first.Date.Equal(jan10))
	assert.Equal(t, 1, first.ToReceiveCount)
	assert.True(t, first.Received.Equal(decimal.NewFromInt(100)))
	assert.True(t, first.BalanceExpected.Equal(decimal.NewFromInt(100)))
	assert.True(t, first.BalanceReal.Equal(decimal.NewFromInt(100)))

	second := rows[1]
	assert.True(t, second.Date.Equal(jan15))
	assert.Equal(t, 1, second.ToPayCount)
	assert.True(t, second.ToPay.Equal(decimal.NewFromInt(40)))
	assert.True(t, second.PreviousBalance.Equal(decimal.NewFromInt(100)))
	// 100 real balance minus the 40 falling due
	assert.True(t, second.BalanceExpected.Equal(decimal.NewFromInt(60)))
	// the outflow is still unpaid, so the real balance does not move
	assert.True(t, second.BalanceReal.Equal(decimal.NewFromInt(100)))
}

func TestComputeFlowHistory_ExcludesPreviewAndCancelled(t *testing.T) {
	g, ids := newTestGroup(t)
	check := newTestMethod(t, MethodCheck, 0)

	jan10 := day(2014, time.January, 10)
	kept, err := g.AddPayment(ids, valueobject.NewMoneyBRLFromFloat(50), "kept", check, DirectionIn, nil, jan10, testNow)
	require.NoError(t, err)
	dropped, err := g.AddPayment(ids, valueobject.NewMoneyBRLFromFloat(30), "dropped", check, DirectionIn, nil, jan10, testNow)
	require.NoError(t, err)
	require.NoError(t, g.SetPaymentsToPay(testNow))
	_, err = g.CancelPayment(ids, dropped.ID, testNow)
	require.NoError(t, err)

	// a preview payment on the same day
	_, err = g.AddPayment(ids, valueobject.NewMoneyBRLFromFloat(20), "preview", check, DirectionIn, nil, jan10, testNow)
	require.NoError(t, err)

	rows := ComputeFlowHistory(g.Payments, jan10, jan10, false)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].ToReceiveCount)
	assert.True(t, rows[0].ToReceive.Equal(kept.Value))
}

func TestComputeFlowHistory_BalanceCarriesFromBeforeRange(t *testing.T) {
	g, ids := newTestGroup(t)
	check := newTestMethod(t, MethodCheck, 0)

	jan5 := day(2014, time.January, 5)
	jan20 := day(2014, time.January, 20)

	early, err := g.AddPayment(ids, valueobject.NewMoneyBRLFromFloat(200), "early", check, DirectionIn, nil, jan5, testNow)
	require.NoError(t, err)
	_, err = g.AddPayment(ids, valueobject.NewMoneyBRLFromFloat(70), "later", check, DirectionOut, nil, jan20, testNow)
	require.NoError(t, err)
	require.NoError(t, g.SetPaymentsToPay(testNow))
	require.NoError(t, g.Pay(early.ID, &jan5, testNow))

	// querying only the later window still sees the earlier inflow in the
	// running balance
	rows := ComputeFlowHistory(g.Payments, day(2014, time.January, 15), jan20, false)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].PreviousBalance.Equal(decimal.NewFromInt(200)))
	assert.True(t, rows[0].BalanceExpected.Equal(decimal.NewFromInt(130)))
}

func TestComputeFlowHistory_Divergent(t *testing.T) {
	g, ids := newTestGroup(t)
	check := newTestMethod(t, MethodCheck, 0)

	jan10 := day(2014, time.January, 10)
	jan12 := day(2014, time.January, 12)

	late, err := g.AddPayment(ids, valueobject.NewMoneyBRLFromFloat(100), "late", check, DirectionIn, nil, jan10, testNow)
	require.NoError(t, err)
	require.NoError(t, g.SetPaymentsToPay(testNow))
	require.NoError(t, g.Pay(late.ID, &jan12, testNow))

	rows := ComputeFlowHistory(g.Payments, jan10, jan12, true)
	require.Len(t, rows, 2)
	require.Len(t, rows[0].Divergent, 1)
	assert.Equal(t, late.ID, rows[0].Divergent[0].ID)
	require.Len(t, rows[1].Divergent, 1)

	// without the flag the rows carry no divergent payments
	plain := ComputeFlowHistory(g.Payments, jan10, jan12, false)
	assert.Empty(t, plain[0].Divergent)
}
