package payment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailcore/backend/internal/domain/shared"
)

// Event types published by the payment aggregates
const (
	EventTypePaymentConfirmed = "payment.confirmed"
	EventTypePaymentCancelled = "payment.cancelled"
	EventTypeTillOpened       = "till.opened"
	EventTypeTillClosed       = "till.closed"
)

// PaymentConfirmedEvent is published when a payment is settled
type PaymentConfirmedEvent struct {
	shared.BaseDomainEvent
	PaymentID  uuid.UUID       `json:"payment_id"`
	Identifier int64           `json:"identifier"`
	Value      decimal.Decimal `json:"value"`
	Direction  Direction       `json:"direction"`
}

// NewPaymentConfirmedEvent creates a PaymentConfirmedEvent
func NewPaymentConfirmedEvent(g *PaymentGroup, p *Payment, now time.Time) *PaymentConfirmedEvent {
	return &PaymentConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentConfirmed, "PaymentGroup", g.ID, g.BranchID, now),
		PaymentID:       p.ID,
		Identifier:      p.Identifier,
		Value:           p.Value,
		Direction:       p.Direction,
	}
}

// PaymentCancelledEvent is published when a payment is cancelled
type PaymentCancelledEvent struct {
	shared.BaseDomainEvent
	PaymentID  uuid.UUID       `json:"payment_id"`
	Identifier int64           `json:"identifier"`
	Value      decimal.Decimal `json:"value"`
}

// NewPaymentCancelledEvent creates a PaymentCancelledEvent
func NewPaymentCancelledEvent(g *PaymentGroup, p *Payment, now time.Time) *PaymentCancelledEvent {
	return &PaymentCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentCancelled, "PaymentGroup", g.ID, g.BranchID, now),
		PaymentID:       p.ID,
		Identifier:      p.Identifier,
		Value:           p.Value,
	}
}

// TillOpenedEvent is published when a till session opens
type TillOpenedEvent struct {
	shared.BaseDomainEvent
	StationID   uuid.UUID       `json:"station_id"`
	InitialCash decimal.Decimal `json:"initial_cash"`
}

// NewTillOpenedEvent creates a TillOpenedEvent
func NewTillOpenedEvent(t *Till, now time.Time) *TillOpenedEvent {
	return &TillOpenedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTillOpened, "Till", t.ID, t.BranchID, now),
		StationID:       t.StationID,
		InitialCash:     t.InitialCash,
	}
}

// TillClosedEvent is published when a till session closes
type TillClosedEvent struct {
	shared.BaseDomainEvent
	StationID    uuid.UUID       `json:"station_id"`
	ExpectedCash decimal.Decimal `json:"expected_cash"`
	FinalCash    decimal.Decimal `json:"final_cash"`
	HasShortfall bool            `json:"has_shortfall"`
}

// NewTillClosedEvent creates a TillClosedEvent
func NewTillClosedEvent(t *Till, summary *TillClosingSummary, now time.Time) *TillClosedEvent {
	return &TillClosedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTillClosed, "Till", t.ID, t.BranchID, now),
		StationID:       t.StationID,
		ExpectedCash:    summary.ExpectedCash,
		FinalCash:       summary.FinalCash,
		HasShortfall:    summary.HasShortfall,
	}
}
