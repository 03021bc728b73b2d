package payment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/domain/shared/valueobject"
)

// GroupStatus represents the lifecycle state of a payment group
type GroupStatus string

const (
	GroupStatusPreview   GroupStatus = "PREVIEW"
	GroupStatusOpen      GroupStatus = "OPEN"
	GroupStatusClosed    GroupStatus = "CLOSED"
	GroupStatusCancelled GroupStatus = "CANCELLED"
)

// IsValid checks if the status is a valid GroupStatus
func (s GroupStatus) IsValid() bool {
	switch s {
	case GroupStatusPreview, GroupStatusOpen, GroupStatusClosed, GroupStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of GroupStatus
func (s GroupStatus) String() string {
	return string(s)
}

// PaymentGroup aggregates the payments of one logical obligation: a sale,
// a purchase, a return or a renegotiation. All payment mutations go
// through the group, which holds the row lock in the store.
type PaymentGroup struct {
	shared.BaseAggregateRoot
	Status GroupStatus
	// PayerID and PayeeID identify the counterparty; a payment cannot
	// progress past preview until one is known.
	PayerID         *uuid.UUID
	PayeeID         *uuid.UUID
	BranchID        uuid.UUID
	DefaultMethodID *uuid.UUID
	Installments    int
	IntervalDays    int
	Payments        []*Payment
}

// NewPaymentGroup creates an empty group in preview
func NewPaymentGroup(branchID uuid.UUID, now time.Time) *PaymentGroup {
	return &PaymentGroup{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(now),
		Status:            GroupStatusPreview,
		BranchID:          branchID,
		Installments:      1,
	}
}

// SetPayer records the party that owes the group's inbound payments
func (g *PaymentGroup) SetPayer(personID uuid.UUID) {
	g.PayerID = &personID
}

// SetPayee records the party the group's outbound payments are owed to
func (g *PaymentGroup) SetPayee(personID uuid.UUID) {
	g.PayeeID = &personID
}

// HasCounterparty reports whether either side of the obligation is known
func (g *PaymentGroup) HasCounterparty() bool {
	return g.PayerID != nil || g.PayeeID != nil
}

// AddPayment creates a preview payment inside the group
func (g *PaymentGroup) AddPayment(ids shared.IdentifierFactory, value valueobject.Money, description string, method *PaymentMethod, direction Direction, destinationID *uuid.UUID, dueDate, now time.Time) (*Payment, error) {
	if g.Status != GroupStatusPreview && g.Status != GroupStatusOpen {
		return nil, shared.NewInvalidStateTransition("PaymentGroup", g.Status.String(), g.Status.String())
	}
	if method == nil {
		return nil, shared.NewDomainError("INVALID_METHOD", "Payment method is required")
	}
	if !direction.IsValid() {
		return nil, shared.NewDomainError("INVALID_DIRECTION", "Payment direction must be in or out")
	}
	if !value.Amount().IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment value must be positive")
	}
	p := newPayment(ids.Next(), g.ID, method, direction, value.Amount(), description, destinationID, dueDate, now)
	g.Payments = append(g.Payments, p)
	g.Touch(now)
	return p, nil
}

// CreateInpayments materializes inbound installments for a method: one
// payment per due date, values split half-up with the last installment
// absorbing the rounding drift.
func (g *PaymentGroup) CreateInpayments(ids shared.IdentifierFactory, method *PaymentMethod, total valueobject.Money, dueDates []time.Time, precision int32, now time.Time) ([]*Payment, error) {
	return g.createPayments(ids, method, DirectionIn, total, dueDates, precision, now)
}

// CreateOutpayments materializes outbound installments for a method
func (g *PaymentGroup) CreateOutpayments(ids shared.IdentifierFactory, method *PaymentMethod, total valueobject.Money, dueDates []time.Time, precision int32, now time.Time) ([]*Payment, error) {
	return g.createPayments(ids, method, DirectionOut, total, dueDates, precision, now)
}

func (g *PaymentGroup) createPayments(ids shared.IdentifierFactory, method *PaymentMethod, direction Direction, total valueobject.Money, dueDates []time.Time, precision int32, now time.Time) ([]*Payment, error) {
	if len(dueDates) == 0 {
		return nil, shared.NewDomainError("INVALID_DUE_DATES", "At least one due date is required")
	}
	if method != nil && len(dueDates) > method.MaxInstallments {
		return nil, shared.NewDomainError("TOO_MANY_INSTALLMENTS", "Installment count exceeds the method maximum")
	}
	parts, err := total.Split(len(dueDates), precision)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_AMOUNT", err.Error())
	}
	created := make([]*Payment, 0, len(dueDates))
	for i, due := range dueDates {
		p, err := g.AddPayment(ids, parts[i], installmentDescription(i+1, len(dueDates), method), method, direction, nil, due, now)
		if err != nil {
			return nil, err
		}
		created = append(created, p)
	}
	return created, nil
}

func installmentDescription(n, total int, method *PaymentMethod) string {
	desc := "installment"
	if method != nil && method.Description != "" {
		desc = method.Description
	}
	return desc + " " + itoa(n) + "/" + itoa(total)
}

func itoa(n int) string {
	return decimal.NewFromInt(int64(n)).String()
}

// SetPaymentsToPay promotes every preview payment to an open obligation
// and opens the group. A counterparty must be known first.
func (g *PaymentGroup) SetPaymentsToPay(now time.Time) error {
	if !g.HasCounterparty() {
		return shared.NewInvariantViolation("MISSING_COUNTERPARTY",
			"payments cannot progress past preview without a payer or payee")
	}
	if g.Status != GroupStatusPreview && g.Status != GroupStatusOpen {
		return shared.NewInvalidStateTransition("PaymentGroup", g.Status.String(), GroupStatusOpen.String())
	}
	for _, p := range g.Payments {
		if p.Status != StatusPreview {
			continue
		}
		if err := p.SetToPay(now); err != nil {
			return err
		}
	}
	if g.Status == GroupStatusPreview {
		g.Status = GroupStatusOpen
	}
	g.Touch(now)
	return nil
}

// Pay settles one member payment and publishes payment.confirmed
func (g *PaymentGroup) Pay(paymentID uuid.UUID, paidDate *time.Time, now time.Time) error {
	p, err := g.payment(paymentID)
	if err != nil {
		return err
	}
	if err := p.Pay(paidDate, now); err != nil {
		return err
	}
	g.Touch(now)
	g.AddDomainEvent(NewPaymentConfirmedEvent(g, p, now))
	return nil
}

// FreezeMoneyEntries settles every open money payment created inside the
// window. Cash received during a till session sits in the drawer, so
// closing the drawer realizes those obligations.
func (g *PaymentGroup) FreezeMoneyEntries(from, to, now time.Time) (int, error) {
	frozen := 0
	for _, p := range g.Payments {
		if p.MethodType != MethodMoney || p.Status != StatusToPay {
			continue
		}
		if p.CreatedAt.Before(from) || p.CreatedAt.After(to) {
			continue
		}
		if err := p.Pay(nil, now); err != nil {
			return frozen, err
		}
		g.AddDomainEvent(NewPaymentConfirmedEvent(g, p, now))
		frozen++
	}
	if frozen > 0 {
		g.Touch(now)
	}
	return frozen, nil
}

// CancelPayment cancels one member payment, appending the negative sibling
// that documents the cancellation. Cancelling twice is a no-op.
func (g *PaymentGroup) CancelPayment(ids shared.IdentifierFactory, paymentID uuid.UUID, now time.Time) (*Payment, error) {
	p, err := g.payment(paymentID)
	if err != nil {
		return nil, err
	}
	sibling, err := p.cancel(ids.Next(), now)
	if err != nil {
		return nil, err
	}
	if sibling == nil {
		return nil, nil
	}
	g.Payments = append(g.Payments, sibling)
	g.Touch(now)
	g.AddDomainEvent(NewPaymentCancelledEvent(g, p, now))
	return sibling, nil
}

// CancelOutstanding cancels every to-pay payment in the group; used when a
// sale is returned or renegotiated.
func (g *PaymentGroup) CancelOutstanding(ids shared.IdentifierFactory, now time.Time) ([]*Payment, error) {
	siblings := make([]*Payment, 0)
	for _, p := range g.snapshot() {
		if p.Status != StatusToPay {
			continue
		}
		sibling, err := g.CancelPayment(ids, p.ID, now)
		if err != nil {
			return nil, err
		}
		if sibling != nil {
			siblings = append(siblings, sibling)
		}
	}
	return siblings, nil
}

// ClearPreviewPayments removes preview payments, optionally keeping those
// of one method. Used when the payment scheme changes before confirmation.
func (g *PaymentGroup) ClearPreviewPayments(exceptMethodID *uuid.UUID, now time.Time) {
	kept := g.Payments[:0]
	removed := false
	for _, p := range g.Payments {
		if p.Status == StatusPreview &&
			(exceptMethodID == nil || p.MethodID != *exceptMethodID) {
			removed = true
			continue
		}
		kept = append(kept, p)
	}
	g.Payments = kept
	if removed {
		g.Touch(now)
	}
}

// Total returns the sum of non-cancelled payment values; the group-total
// invariant keeps this equal to the obligation's amount.
func (g *PaymentGroup) Total() decimal.Decimal {
	total := decimal.Zero
	for _, p := range g.Payments {
		if p.Status == StatusCancelled || p.Status == StatusPreview {
			continue
		}
		total = total.Add(p.Value)
	}
	return total
}

// GetBalance returns the outstanding amount: non-cancelled values minus
// realized paid values.
func (g *PaymentGroup) GetBalance() decimal.Decimal {
	balance := decimal.Zero
	for _, p := range g.Payments {
		if p.Status == StatusCancelled || p.Status == StatusPreview {
			continue
		}
		balance = balance.Add(p.Value)
		if p.Status.IsSettled() && p.PaidValue != nil {
			balance = balance.Sub(*p.PaidValue)
		}
	}
	return balance
}

// Close closes the group once no payment remains open
func (g *PaymentGroup) Close(now time.Time) error {
	if g.Status != GroupStatusOpen {
		return shared.NewInvalidStateTransition("PaymentGroup", g.Status.String(), GroupStatusClosed.String())
	}
	for _, p := range g.Payments {
		if p.Status == StatusToPay || p.Status == StatusPreview {
			return shared.NewInvariantViolation("OPEN_PAYMENTS",
				"group cannot close while payments remain open")
		}
	}
	g.Status = GroupStatusClosed
	g.Touch(now)
	return nil
}

// Cancel cancels an open group after cancelling its outstanding payments
func (g *PaymentGroup) Cancel(ids shared.IdentifierFactory, now time.Time) error {
	if g.Status != GroupStatusOpen && g.Status != GroupStatusPreview {
		return shared.NewInvalidStateTransition("PaymentGroup", g.Status.String(), GroupStatusCancelled.String())
	}
	if _, err := g.CancelOutstanding(ids, now); err != nil {
		return err
	}
	g.ClearPreviewPayments(nil, now)
	g.Status = GroupStatusCancelled
	g.Touch(now)
	return nil
}

func (g *PaymentGroup) payment(id uuid.UUID) (*Payment, error) {
	for _, p := range g.Payments {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

// snapshot copies the payment slice so iteration survives appends
func (g *PaymentGroup) snapshot() []*Payment {
	out := make([]*Payment, len(g.Payments))
	copy(out, g.Payments)
	return out
}
