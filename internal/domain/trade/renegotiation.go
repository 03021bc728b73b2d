package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailcore/backend/internal/domain/shared"
)

// RenegotiationData records the replacement of a group's outstanding
// payments by a new schedule: the old installments get cancelled, a fresh
// group carries the renegotiated total minus whatever penalty was waived.
type RenegotiationData struct {
	shared.BaseAggregateRoot
	Identifier     int64
	BranchID       uuid.UUID
	ClientID       uuid.UUID
	ResponsibleID  uuid.UUID
	OriginalGroups []uuid.UUID
	NewGroupID     uuid.UUID
	Total          decimal.Decimal
	PenaltyWaived  decimal.Decimal
	Notes          string
	SignedDate     time.Time
}

// NewRenegotiationData opens a renegotiation over one or more groups
func NewRenegotiationData(identifier int64, branchID, clientID, responsibleID, newGroupID uuid.UUID, originalGroups []uuid.UUID, total, penaltyWaived decimal.Decimal, now time.Time) (*RenegotiationData, error) {
	if len(originalGroups) == 0 {
		return nil, shared.NewDomainError("INVALID_RENEGOTIATION", "At least one original group is required")
	}
	if !total.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Renegotiated total must be positive")
	}
	if penaltyWaived.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Waived penalty cannot be negative")
	}
	return &RenegotiationData{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(now),
		Identifier:        identifier,
		BranchID:          branchID,
		ClientID:          clientID,
		ResponsibleID:     responsibleID,
		OriginalGroups:    originalGroups,
		NewGroupID:        newGroupID,
		Total:             total,
		PenaltyWaived:     penaltyWaived,
		SignedDate:        now,
	}, nil
}
