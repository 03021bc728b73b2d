package workorder

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailcore/backend/internal/domain/shared"
)

// EventTypeWorkOrderFinished is published when a work order finishes
const EventTypeWorkOrderFinished = "workorder.finished"

// WorkOrderFinishedEvent carries the completed order's totals so the
// payment side can materialize the group.
type WorkOrderFinishedEvent struct {
	shared.BaseDomainEvent
	OrderID    uuid.UUID       `json:"order_id"`
	Identifier int64           `json:"identifier"`
	GroupID    uuid.UUID       `json:"group_id"`
	Total      decimal.Decimal `json:"total"`
}

// NewWorkOrderFinishedEvent creates a WorkOrderFinishedEvent
func NewWorkOrderFinishedEvent(w *WorkOrder, now time.Time) *WorkOrderFinishedEvent {
	return &WorkOrderFinishedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeWorkOrderFinished, "WorkOrder", w.ID, w.BranchID, now),
		OrderID:         w.ID,
		Identifier:      w.Identifier,
		GroupID:         w.GroupID,
		Total:           w.TotalAmount(),
	}
}
