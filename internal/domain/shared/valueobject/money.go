package valueobject

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Currency represents a currency code (ISO 4217)
type Currency string

const (
	BRL Currency = "BRL" // Brazilian Real (default)
	USD Currency = "USD" // US Dollar
	EUR Currency = "EUR" // Euro
)

// DefaultCurrency is the default currency for the system
const DefaultCurrency = BRL

// Money is a value object representing monetary amounts
// It is immutable - all operations return new Money instances
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoney creates a new Money with the specified amount and currency
func NewMoney(amount decimal.Decimal, currency Currency) (Money, error) {
	if currency == "" {
		return Money{}, errors.New("currency cannot be empty")
	}
	return Money{
		amount:   amount,
		currency: currency,
	}, nil
}

// NewMoneyBRL creates Money in BRL
func NewMoneyBRL(amount decimal.Decimal) Money {
	return Money{amount: amount, currency: BRL}
}

// NewMoneyBRLFromFloat creates Money in BRL from float64
func NewMoneyBRLFromFloat(amount float64) Money {
	return Money{amount: decimal.NewFromFloat(amount), currency: BRL}
}

// NewMoneyBRLFromString creates Money in BRL from string
func NewMoneyBRLFromString(amount string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount string: %w", err)
	}
	return Money{amount: d, currency: BRL}, nil
}

// Zero returns a zero-value Money in the specified currency
func Zero(currency Currency) Money {
	return Money{amount: decimal.Zero, currency: currency}
}

// ZeroBRL returns a zero-value Money in BRL
func ZeroBRL() Money {
	return Zero(BRL)
}

// Amount returns the decimal amount
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the currency code
func (m Money) Currency() Currency {
	return m.currency
}

// IsZero returns true if the amount is zero
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsPositive returns true if the amount is positive
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// IsNegative returns true if the amount is negative
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// Add returns a new Money with the sum of both amounts
// Returns error if currencies don't match
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("currency mismatch: %s vs %s", m.currency, other.currency)
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

// Sub returns a new Money with the difference of both amounts
// Returns error if currencies don't match
func (m Money) Sub(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("currency mismatch: %s vs %s", m.currency, other.currency)
	}
	return Money{amount: m.amount.Sub(other.amount), currency: m.currency}, nil
}

// Mul returns a new Money multiplied by the given factor
func (m Money) Mul(factor decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(factor), currency: m.currency}
}

// Neg returns a new Money with the sign flipped
func (m Money) Neg() Money {
	return Money{amount: m.amount.Neg(), currency: m.currency}
}

// Equal returns true if both amount and currency match
func (m Money) Equal(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// String returns a human-readable representation
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.String(), m.currency)
}

// RoundHalfUp rounds the amount half-up at the given number of minor-unit
// decimals. All ledger arithmetic is performed at this precision.
func (m Money) RoundHalfUp(precision int32) Money {
	return Money{amount: roundHalfUp(m.amount, precision), currency: m.currency}
}

// Split divides the amount into n installments at the given precision.
// Installments 1..n-1 each receive round_half_up(total/n); the last one is
// the remainder, so it absorbs the rounding drift and the parts sum to the
// total exactly.
func (m Money) Split(n int, precision int32) ([]Money, error) {
	if n <= 0 {
		return nil, errors.New("installment count must be positive")
	}
	parts := make([]Money, 0, n)
	per := roundHalfUp(m.amount.Div(decimal.NewFromInt(int64(n))), precision)
	allocated := decimal.Zero
	for k := 1; k < n; k++ {
		parts = append(parts, Money{amount: per, currency: m.currency})
		allocated = allocated.Add(per)
	}
	parts = append(parts, Money{amount: m.amount.Sub(allocated), currency: m.currency})
	return parts, nil
}

// AllocateProportionally distributes total across the given weights at the
// given precision. Residual minor units land on the largest weight. Shares
// follow the sign of the total; weights must be non-negative with a
// positive sum.
func AllocateProportionally(total Money, weights []decimal.Decimal, precision int32) ([]Money, error) {
	if len(weights) == 0 {
		return nil, errors.New("no weights to allocate over")
	}
	sum := decimal.Zero
	largest := 0
	for i, w := range weights {
		if w.IsNegative() {
			return nil, errors.New("weights must be non-negative")
		}
		sum = sum.Add(w)
		if w.GreaterThan(weights[largest]) {
			largest = i
		}
	}
	if !sum.IsPositive() {
		return nil, errors.New("weight sum must be positive")
	}

	shares := make([]Money, len(weights))
	allocated := decimal.Zero
	for i, w := range weights {
		share := roundHalfUp(total.amount.Mul(w).Div(sum), precision)
		shares[i] = Money{amount: share, currency: total.currency}
		allocated = allocated.Add(share)
	}
	residual := total.amount.Sub(allocated)
	if !residual.IsZero() {
		shares[largest] = Money{amount: shares[largest].amount.Add(residual), currency: total.currency}
	}
	return shares, nil
}

// roundHalfUp rounds half away from zero for positive values, matching the
// half-up convention of the currency minor unit.
func roundHalfUp(d decimal.Decimal, precision int32) decimal.Decimal {
	return d.Round(precision)
}
