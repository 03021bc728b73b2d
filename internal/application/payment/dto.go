package payment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailcore/backend/internal/domain/payment"
)

// PayRequest settles one payment of a group
type PayRequest struct {
	PaidDate *time.Time       `json:"paid_date"`
	Amount   *decimal.Decimal `json:"amount"`
}

// PaymentResponse is the external view of a payment
type PaymentResponse struct {
	ID          uuid.UUID        `json:"id"`
	Identifier  int64            `json:"identifier"`
	GroupID     uuid.UUID        `json:"group_id"`
	Status      string           `json:"status"`
	Direction   string           `json:"direction"`
	Value       decimal.Decimal  `json:"value"`
	PaidValue   *decimal.Decimal `json:"paid_value,omitempty"`
	DueDate     time.Time        `json:"due_date"`
	PaidDate    *time.Time       `json:"paid_date,omitempty"`
	Description string           `json:"description"`
}

// ToPaymentResponse maps a payment to its external view
func ToPaymentResponse(p *payment.Payment) PaymentResponse {
	return PaymentResponse{
		ID:          p.ID,
		Identifier:  p.Identifier,
		GroupID:     p.GroupID,
		Status:      p.Status.String(),
		Direction:   string(p.Direction),
		Value:       p.Value,
		PaidValue:   p.PaidValue,
		DueDate:     p.DueDate,
		PaidDate:    p.PaidDate,
		Description: p.Description,
	}
}

// GroupResponse is the external view of a payment group
type GroupResponse struct {
	ID       uuid.UUID         `json:"id"`
	Status   string            `json:"status"`
	Total    decimal.Decimal   `json:"total"`
	Balance  decimal.Decimal   `json:"balance"`
	Payments []PaymentResponse `json:"payments"`
}

// ToGroupResponse maps a group to its external view
func ToGroupResponse(g *payment.PaymentGroup) GroupResponse {
	payments := make([]PaymentResponse, 0, len(g.Payments))
	for _, p := range g.Payments {
		payments = append(payments, ToPaymentResponse(p))
	}
	return GroupResponse{
		ID:       g.ID,
		Status:   g.Status.String(),
		Total:    g.Total(),
		Balance:  g.GetBalance(),
		Payments: payments,
	}
}

// OpenTillRequest opens a station's till
type OpenTillRequest struct {
	InitialCash decimal.Decimal `json:"initial_cash"`
}

// CloseTillRequest closes a station's till
type CloseTillRequest struct {
	FinalCash    decimal.Decimal `json:"final_cash" binding:"required"`
	Observations string          `json:"observations"`
}

// TillResponse is the external view of a till session
type TillResponse struct {
	ID           uuid.UUID       `json:"id"`
	StationID    uuid.UUID       `json:"station_id"`
	Status       string          `json:"status"`
	InitialCash  decimal.Decimal `json:"initial_cash"`
	ExpectedCash decimal.Decimal `json:"expected_cash"`
}

// ToTillResponse maps a till to its external view
func ToTillResponse(t *payment.Till) TillResponse {
	return TillResponse{
		ID:           t.ID,
		StationID:    t.StationID,
		Status:       t.Status.String(),
		InitialCash:  t.InitialCash,
		ExpectedCash: t.ExpectedCash(),
	}
}

// TillClosingResponse reports the closing arithmetic
type TillClosingResponse struct {
	ExpectedCash decimal.Decimal `json:"expected_cash"`
	FinalCash    decimal.Decimal `json:"final_cash"`
	Difference   decimal.Decimal `json:"difference"`
	HasShortfall bool            `json:"has_shortfall"`
}

// FlowHistoryRequest queries the per-day payment flow aggregation
type FlowHistoryRequest struct {
	Start            time.Time `json:"start" binding:"required"`
	End              time.Time `json:"end" binding:"required"`
	IncludeDivergent bool      `json:"include_divergent"`
}

// FlowHistoryDayResponse is one aggregated day
type FlowHistoryDayResponse struct {
	Date            time.Time         `json:"date"`
	ToPayCount      int               `json:"to_pay_count"`
	ToPay           decimal.Decimal   `json:"to_pay"`
	PaidCount       int               `json:"paid_count"`
	Paid            decimal.Decimal   `json:"paid"`
	ToReceiveCount  int               `json:"to_receive_count"`
	ToReceive       decimal.Decimal   `json:"to_receive"`
	ReceivedCount   int               `json:"received_count"`
	Received        decimal.Decimal   `json:"received"`
	PreviousBalance decimal.Decimal   `json:"previous_balance"`
	BalanceExpected decimal.Decimal   `json:"balance_expected"`
	BalanceReal     decimal.Decimal   `json:"balance_real"`
	Divergent       []PaymentResponse `json:"divergent,omitempty"`
}

// TillMovementRequest adds a cash movement outside the payment flow
type TillMovementRequest struct {
	Description string           `json:"description" binding:"required"`
	Value       decimal.Decimal  `json:"value" binding:"required"`
	PaymentID   *uuid.UUID       `json:"payment_id"`
}
