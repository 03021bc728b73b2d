package payment

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/retailcore/backend/internal/domain/shared"
)

// MethodType classifies how a payment is settled
type MethodType string

const (
	MethodMoney       MethodType = "MONEY"
	MethodCheck       MethodType = "CHECK"
	MethodBill        MethodType = "BILL"
	MethodCard        MethodType = "CARD"
	MethodStoreCredit MethodType = "STORE_CREDIT"
)

// IsValid checks if the method type is known
func (m MethodType) IsValid() bool {
	switch m {
	case MethodMoney, MethodCheck, MethodBill, MethodCard, MethodStoreCredit:
		return true
	}
	return false
}

// String returns the string representation of MethodType
func (m MethodType) String() string {
	return string(m)
}

// accruesPenalty reports whether overdue payments of this method accrue a
// daily penalty. Only check and bill payments do.
func (m MethodType) accruesPenalty() bool {
	return m == MethodCheck || m == MethodBill
}

// PaymentMethod is the settlement configuration for one method type:
// penalty accrual, installment limits and the destination account.
type PaymentMethod struct {
	shared.BaseEntity
	Type            MethodType
	Description     string
	DailyPenaltyPct decimal.Decimal
	MaxInstallments int
}

// NewPaymentMethod creates a payment method configuration
func NewPaymentMethod(methodType MethodType, description string, dailyPenaltyPct decimal.Decimal, maxInstallments int, now time.Time) (*PaymentMethod, error) {
	if !methodType.IsValid() {
		return nil, shared.NewDomainError("INVALID_METHOD_TYPE", "Unknown payment method type")
	}
	if dailyPenaltyPct.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PENALTY", "Daily penalty percentage cannot be negative")
	}
	if maxInstallments < 1 {
		maxInstallments = 1
	}
	return &PaymentMethod{
		BaseEntity:      shared.NewBaseEntity(now),
		Type:            methodType,
		Description:     description,
		DailyPenaltyPct: dailyPenaltyPct,
		MaxInstallments: maxInstallments,
	}, nil
}
