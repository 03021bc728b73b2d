package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailcore/backend/internal/domain/shared"
)

// Event types published by the trade aggregates
const (
	EventTypeSaleConfirmed     = "sale.confirmed"
	EventTypeSaleReturned      = "sale.returned"
	EventTypePurchaseReceived  = "purchase.received"
	EventTypeSaleRenegotiated  = "sale.renegotiated"
)

// SaleConfirmedEvent is published when a sale is confirmed
type SaleConfirmedEvent struct {
	shared.BaseDomainEvent
	SaleID     uuid.UUID       `json:"sale_id"`
	Identifier int64           `json:"identifier"`
	GroupID    uuid.UUID       `json:"group_id"`
	Total      decimal.Decimal `json:"total"`
}

// NewSaleConfirmedEvent creates a SaleConfirmedEvent
func NewSaleConfirmedEvent(s *Sale, now time.Time) *SaleConfirmedEvent {
	return &SaleConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleConfirmed, "Sale", s.ID, s.BranchID, now),
		SaleID:          s.ID,
		Identifier:      s.Identifier,
		GroupID:         s.GroupID,
		Total:           s.TotalAmount(),
	}
}

// SaleReturnedEvent is published when a sale is returned
type SaleReturnedEvent struct {
	shared.BaseDomainEvent
	SaleID     uuid.UUID `json:"sale_id"`
	Identifier int64     `json:"identifier"`
	GroupID    uuid.UUID `json:"group_id"`
}

// NewSaleReturnedEvent creates a SaleReturnedEvent
func NewSaleReturnedEvent(s *Sale, now time.Time) *SaleReturnedEvent {
	return &SaleReturnedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleReturned, "Sale", s.ID, s.BranchID, now),
		SaleID:          s.ID,
		Identifier:      s.Identifier,
		GroupID:         s.GroupID,
	}
}
