package payment

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailcore/backend/internal/domain/shared"
)

// Status represents the lifecycle state of a payment
type Status string

const (
	StatusPreview   Status = "PREVIEW"
	StatusToPay     Status = "TO_PAY"
	StatusPaid      Status = "PAID"
	StatusReviewing Status = "REVIEWING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
)

// IsValid checks if the status is a valid payment Status
func (s Status) IsValid() bool {
	switch s {
	case StatusPreview, StatusToPay, StatusPaid, StatusReviewing, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsSettled reports whether the payment has a realized paid value
func (s Status) IsSettled() bool {
	return s == StatusPaid || s == StatusReviewing || s == StatusConfirmed
}

// Direction tells whether money flows in (receivable) or out (payable)
type Direction string

const (
	DirectionIn  Direction = "IN"
	DirectionOut Direction = "OUT"
)

// IsValid checks if the direction is known
func (d Direction) IsValid() bool {
	return d == DirectionIn || d == DirectionOut
}

// Payment is one financial obligation: a value, a due date and a lifecycle
// from preview to paid or cancelled. Payments always belong to a
// PaymentGroup and are mutated through it.
type Payment struct {
	shared.BaseEntity
	Identifier  int64
	GroupID     uuid.UUID
	MethodID    uuid.UUID
	MethodType  MethodType
	PenaltyPct  decimal.Decimal
	Direction   Direction
	Value       decimal.Decimal
	BaseValue   decimal.Decimal
	PaidValue   *decimal.Decimal
	Discount    decimal.Decimal
	Interest    decimal.Decimal
	Penalty     decimal.Decimal
	DueDate     time.Time
	PaidDate    *time.Time
	CancelDate  *time.Time
	Status      Status
	Description string
	// DestinationID is the account or till the settled value lands on.
	DestinationID *uuid.UUID
	RejectReason  string
}

// newPayment builds a preview payment; groups are the only callers.
func newPayment(identifier int64, groupID uuid.UUID, method *PaymentMethod, direction Direction, value decimal.Decimal, description string, destinationID *uuid.UUID, dueDate, now time.Time) *Payment {
	return &Payment{
		BaseEntity:    shared.NewBaseEntity(now),
		Identifier:    identifier,
		GroupID:       groupID,
		MethodID:      method.ID,
		MethodType:    method.Type,
		PenaltyPct:    method.DailyPenaltyPct,
		Direction:     direction,
		Value:         value,
		BaseValue:     value,
		Discount:      decimal.Zero,
		Interest:      decimal.Zero,
		Penalty:       decimal.Zero,
		DueDate:       dueDate,
		Status:        StatusPreview,
		Description:   description,
		DestinationID: destinationID,
	}
}

// SetToPay promotes a preview payment to an open obligation
func (p *Payment) SetToPay(now time.Time) error {
	if p.Status != StatusPreview {
		return shared.NewInvalidStateTransition("Payment", p.Status.String(), StatusToPay.String())
	}
	p.Status = StatusToPay
	p.UpdatedAt = now
	return nil
}

// Pay settles the payment. The paid value is value minus discount plus
// interest; the paid date defaults to now.
func (p *Payment) Pay(paidDate *time.Time, now time.Time) error {
	if p.Status != StatusToPay {
		return shared.NewInvalidStateTransition("Payment", p.Status.String(), StatusPaid.String())
	}
	when := now
	if paidDate != nil {
		when = *paidDate
	}
	paid := p.Value.Sub(p.Discount).Add(p.Interest)
	p.PaidValue = &paid
	p.PaidDate = &when
	p.Status = StatusPaid
	p.UpdatedAt = now
	return nil
}

// PayAmount settles the payment with an explicit received amount. Any
// difference beyond value - discount + interest is recorded as penalty.
func (p *Payment) PayAmount(amount decimal.Decimal, paidDate *time.Time, now time.Time) error {
	if p.Status != StatusToPay {
		return shared.NewInvalidStateTransition("Payment", p.Status.String(), StatusPaid.String())
	}
	when := now
	if paidDate != nil {
		when = *paidDate
	}
	expected := p.Value.Sub(p.Discount).Add(p.Interest)
	p.Penalty = amount.Sub(expected)
	p.PaidValue = &amount
	p.PaidDate = &when
	p.Status = StatusPaid
	p.UpdatedAt = now
	return nil
}

// Submit sends a settled check or bill for deposit review
func (p *Payment) Submit(when *time.Time, now time.Time) error {
	if p.Status != StatusPaid {
		return shared.NewInvalidStateTransition("Payment", p.Status.String(), StatusReviewing.String())
	}
	p.Status = StatusReviewing
	if when != nil {
		p.UpdatedAt = *when
	} else {
		p.UpdatedAt = now
	}
	return nil
}

// Reject bounces a payment under review back to paid, recording the reason
func (p *Payment) Reject(reason string, when *time.Time, now time.Time) error {
	if p.Status != StatusReviewing {
		return shared.NewInvalidStateTransition("Payment", p.Status.String(), StatusPaid.String())
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Rejection reason is required")
	}
	p.Status = StatusPaid
	p.RejectReason = reason
	if when != nil {
		p.UpdatedAt = *when
	} else {
		p.UpdatedAt = now
	}
	return nil
}

// Confirm acknowledges a reviewed payment as cleared
func (p *Payment) Confirm(now time.Time) error {
	if p.Status != StatusReviewing {
		return shared.NewInvalidStateTransition("Payment", p.Status.String(), StatusConfirmed.String())
	}
	p.Status = StatusConfirmed
	p.UpdatedAt = now
	return nil
}

// cancel marks the payment cancelled and returns the negative sibling that
// documents the cancellation. Idempotent on already-cancelled payments;
// settled payments cannot be cancelled.
func (p *Payment) cancel(siblingIdentifier int64, now time.Time) (*Payment, error) {
	if p.Status == StatusCancelled {
		return nil, nil
	}
	if p.Status.IsSettled() {
		return nil, shared.NewInvalidStateTransition("Payment", p.Status.String(), StatusCancelled.String())
	}
	p.Status = StatusCancelled
	p.CancelDate = &now
	p.UpdatedAt = now

	sibling := &Payment{
		BaseEntity:    shared.NewBaseEntity(now),
		Identifier:    siblingIdentifier,
		GroupID:       p.GroupID,
		MethodID:      p.MethodID,
		MethodType:    p.MethodType,
		PenaltyPct:    p.PenaltyPct,
		Direction:     p.Direction,
		Value:         p.Value.Neg(),
		BaseValue:     p.BaseValue.Neg(),
		DueDate:       now,
		CancelDate:    &now,
		Status:        StatusCancelled,
		Description:   fmt.Sprintf("Cancellation of #%d", p.Identifier),
		DestinationID: p.DestinationID,
	}
	return sibling, nil
}

// GetPayableValue returns the amount due when paying at the given date.
// Check and bill payments accrue a daily penalty proportional to the days
// overdue; settled payments return the realized paid value.
func (p *Payment) GetPayableValue(paidDate time.Time) decimal.Decimal {
	switch {
	case p.Status == StatusPreview || p.Status == StatusCancelled:
		return p.Value
	case p.Status.IsSettled():
		if p.PaidValue != nil {
			return *p.PaidValue
		}
		return p.Value
	}

	if !p.MethodType.accruesPenalty() || p.PenaltyPct.IsZero() {
		return p.Value
	}
	days := daysBetween(p.DueDate, paidDate)
	if days <= 0 {
		return p.Value
	}
	penalty := p.Value.
		Mul(p.PenaltyPct).
		Div(decimal.NewFromInt(100)).
		Mul(decimal.NewFromInt(int64(days)))
	return p.Value.Add(penalty)
}

// IsDivergentOn reports whether the payment diverges from its schedule on
// the given day: it is referenced by that day (due, paid or cancelled) and
// its realized values do not match the planned ones.
func (p *Payment) IsDivergentOn(day time.Time) bool {
	d := truncateToDay(day)
	referenced := truncateToDay(p.DueDate).Equal(d)
	if p.PaidDate != nil && truncateToDay(*p.PaidDate).Equal(d) {
		referenced = true
	}
	if p.CancelDate != nil && truncateToDay(*p.CancelDate).Equal(d) {
		referenced = true
	}
	if !referenced {
		return false
	}
	if p.PaidValue == nil || p.PaidDate == nil {
		return true
	}
	if !p.Value.Equal(*p.PaidValue) {
		return true
	}
	return !truncateToDay(p.DueDate).Equal(truncateToDay(*p.PaidDate))
}

// daysBetween returns whole days from a to b, by calendar day
func daysBetween(a, b time.Time) int {
	return int(truncateToDay(b).Sub(truncateToDay(a)).Hours() / 24)
}

// truncateToDay drops the time-of-day component in UTC
func truncateToDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
