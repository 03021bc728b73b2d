package trade

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailcore/backend/internal/domain/shared"
)

var testNow = time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC)

func newQuoteSale() *Sale {
	return NewSale(1, uuid.New(), uuid.New(), "5.102", testNow)
}

func qty(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func TestSale_AddItem_PriceAboveBase(t *testing.T) {
	s := newQuoteSale()

	_, err := s.AddItem(uuid.New(), qty(1), decimal.NewFromInt(110), decimal.NewFromInt(100), false, testNow)
	require.Error(t, err)
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "PRICE_ABOVE_BASE", derr.Code)

	// allowed when the parameter permits it
	_, err = s.AddItem(uuid.New(), qty(1), decimal.NewFromInt(110), decimal.NewFromInt(100), true, testNow)
	require.NoError(t, err)
}

func TestSale_Lifecycle(t *testing.T) {
	s := newQuoteSale()

	// empty quotes cannot be ordered
	err := s.Order(testNow)
	require.Error(t, err)

	_, err = s.AddItem(uuid.New(), qty(1), decimal.NewFromInt(100), decimal.NewFromInt(100), false, testNow)
	require.NoError(t, err)
	require.NoError(t, s.Order(testNow))
	require.NoError(t, s.Confirm(testNow))
	require.NotNil(t, s.ConfirmDate)
	require.NoError(t, s.SetPaid(testNow))
	assert.Equal(t, SaleStatusPaid, s.Status)

	events := s.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeSaleConfirmed, events[0].EventType())
}

func TestSale_Cancel_OnlyBeforeConfirmation(t *testing.T) {
	s := newQuoteSale()
	_, err := s.AddItem(uuid.New(), qty(1), decimal.NewFromInt(50), decimal.NewFromInt(50), false, testNow)
	require.NoError(t, err)
	require.NoError(t, s.Order(testNow))
	require.NoError(t, s.Cancel(testNow))
	assert.Equal(t, SaleStatusCancelled, s.Status)

	s2 := newQuoteSale()
	_, err = s2.AddItem(uuid.New(), qty(1), decimal.NewFromInt(50), decimal.NewFromInt(50), false, testNow)
	require.NoError(t, err)
	require.NoError(t, s2.Order(testNow))
	require.NoError(t, s2.Confirm(testNow))
	err = s2.Cancel(testNow)
	assert.True(t, shared.IsInvalidStateTransition(err))
}

func TestSale_ApplyDiscount_Proportional(t *testing.T) {
	s := newQuoteSale()
	_, err := s.AddItem(uuid.New(), qty(1), decimal.NewFromInt(60), decimal.NewFromInt(60), false, testNow)
	require.NoError(t, err)
	_, err = s.AddItem(uuid.New(), qty(1), decimal.NewFromInt(40), decimal.NewFromInt(40), false, testNow)
	require.NoError(t, err)

	require.NoError(t, s.ApplyDiscount(decimal.NewFromInt(10), 2, testNow))
	assert.True(t, s.Items[0].Discount.Equal(decimal.NewFromInt(6)))
	assert.True(t, s.Items[1].Discount.Equal(decimal.NewFromInt(4)))
	// prices stay at the catalog value, the discount lives on the line
	assert.True(t, s.Items[0].Price.Equal(decimal.NewFromInt(60)))
	assert.True(t, s.Items[0].Total().Equal(decimal.NewFromInt(54)))
	assert.True(t, s.Items[1].Total().Equal(decimal.NewFromInt(36)))
	assert.True(t, s.TotalAmount().Equal(decimal.NewFromInt(90)))
}

func TestSale_ApplyDiscount_ExactOnAwkwardQuantities(t *testing.T) {
	s := newQuoteSale()
	// 1.00 over three units has no finite per-unit representation; the
	// line carries the amount so the total still comes out exact
	_, err := s.AddItem(uuid.New(), qty(3), decimal.NewFromInt(10), decimal.NewFromInt(10), false, testNow)
	require.NoError(t, err)

	require.NoError(t, s.ApplyDiscount(decimal.NewFromInt(1), 2, testNow))
	assert.True(t, s.Items[0].Discount.Equal(decimal.NewFromInt(1)))
	assert.True(t, s.TotalAmount().Equal(decimal.NewFromInt(29)), "got %s", s.TotalAmount())
}

func TestSale_ApplyDiscount_ResidualOnLargestLine(t *testing.T) {
	s := newQuoteSale()
	_, err := s.AddItem(uuid.New(), qty(1), decimal.NewFromInt(70), decimal.NewFromInt(70), false, testNow)
	require.NoError(t, err)
	_, err = s.AddItem(uuid.New(), qty(1), decimal.NewFromInt(30), decimal.NewFromInt(30), false, testNow)
	require.NoError(t, err)

	// 0.05 does not split evenly over 70/30; the cent lands on the big line
	require.NoError(t, s.ApplyDiscount(decimal.NewFromFloat(0.05), 2, testNow))
	total := s.TotalAmount()
	assert.True(t, total.Equal(decimal.NewFromFloat(99.95)), "got %s", total)
	assert.True(t, s.Items[0].Discount.Equal(decimal.NewFromFloat(0.03)))
	assert.True(t, s.Items[1].Discount.Equal(decimal.NewFromFloat(0.02)))
}

func TestSale_ApplyDiscount_NeverBelowZero(t *testing.T) {
	s := newQuoteSale()
	_, err := s.AddItem(uuid.New(), qty(1), decimal.NewFromInt(10), decimal.NewFromInt(10), false, testNow)
	require.NoError(t, err)

	err = s.ApplyDiscount(decimal.NewFromInt(15), 2, testNow)
	require.Error(t, err)
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "INVALID_DISCOUNT", derr.Code)
	// a failed discount leaves the line untouched
	assert.True(t, s.Items[0].Discount.IsZero())
	assert.True(t, s.Items[0].Total().Equal(decimal.NewFromInt(10)))
}

func TestSale_ReturnAndRenegotiate(t *testing.T) {
	s := newQuoteSale()
	_, err := s.AddItem(uuid.New(), qty(1), decimal.NewFromInt(100), decimal.NewFromInt(100), false, testNow)
	require.NoError(t, err)
	require.NoError(t, s.Order(testNow))
	require.NoError(t, s.Confirm(testNow))
	s.ClearDomainEvents()

	require.NoError(t, s.Return(testNow))
	assert.Equal(t, SaleStatusReturned, s.Status)
	events := s.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeSaleReturned, events[0].EventType())

	// renegotiation requires confirmed
	err = s.Renegotiate(testNow)
	assert.True(t, shared.IsInvalidStateTransition(err))
}
