package workorder

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailcore/backend/internal/domain/shared"
)

// WorkOrderStatus represents the lifecycle state of a service order
type WorkOrderStatus string

const (
	WorkOrderStatusOpened          WorkOrderStatus = "OPENED"
	WorkOrderStatusWaitingApproval WorkOrderStatus = "WAITING_APPROVAL"
	WorkOrderStatusInProgress      WorkOrderStatus = "IN_PROGRESS"
	WorkOrderStatusFinished        WorkOrderStatus = "FINISHED"
	WorkOrderStatusClosed          WorkOrderStatus = "CLOSED"
	WorkOrderStatusCancelled       WorkOrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid WorkOrderStatus
func (s WorkOrderStatus) IsValid() bool {
	switch s {
	case WorkOrderStatusOpened, WorkOrderStatusWaitingApproval, WorkOrderStatusInProgress,
		WorkOrderStatusFinished, WorkOrderStatusClosed, WorkOrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of WorkOrderStatus
func (s WorkOrderStatus) String() string {
	return string(s)
}

// workOrderTransitions is the allowed transition table
var workOrderTransitions = map[WorkOrderStatus][]WorkOrderStatus{
	WorkOrderStatusOpened:          {WorkOrderStatusWaitingApproval, WorkOrderStatusCancelled},
	WorkOrderStatusWaitingApproval: {WorkOrderStatusInProgress, WorkOrderStatusCancelled},
	WorkOrderStatusInProgress:      {WorkOrderStatusFinished, WorkOrderStatusCancelled},
	WorkOrderStatusFinished:        {WorkOrderStatusClosed},
}

// CanTransitionTo reports whether the transition table allows the move
func (s WorkOrderStatus) CanTransitionTo(target WorkOrderStatus) bool {
	for _, allowed := range workOrderTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// WorkOrderHistoryEntry is one immutable record of a status change. One
// entry is appended per transition and entries are never rewritten.
type WorkOrderHistoryEntry struct {
	ID       uuid.UUID
	OrderID  uuid.UUID
	UserID   uuid.UUID
	From     WorkOrderStatus
	To       WorkOrderStatus
	Notes    string
	Occurred time.Time
}

// WorkOrderItem is one material or service line consumed by the order
type WorkOrderItem struct {
	ID         uuid.UUID
	OrderID    uuid.UUID
	SellableID uuid.UUID
	Quantity   decimal.Decimal
	Price      decimal.Decimal
}

// Total returns quantity times price
func (i *WorkOrderItem) Total() decimal.Decimal {
	return i.Price.Mul(i.Quantity)
}

// WorkOrder is a service order: equipment in, materials and labor applied,
// payments owed on finish. Every status change appends a history entry.
type WorkOrder struct {
	shared.BaseAggregateRoot
	Identifier   int64
	Status       WorkOrderStatus
	BranchID     uuid.UUID
	ClientID     uuid.UUID
	ExecutorID   *uuid.UUID
	GroupID      uuid.UUID
	Description  string
	OpenDate     time.Time
	ApproveDate  *time.Time
	FinishDate   *time.Time
	Items        []*WorkOrderItem
	History      []*WorkOrderHistoryEntry
}

// NewWorkOrder opens a service order for a client
func NewWorkOrder(identifier int64, branchID, clientID, groupID uuid.UUID, description string, now time.Time) *WorkOrder {
	return &WorkOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(now),
		Identifier:        identifier,
		Status:            WorkOrderStatusOpened,
		BranchID:          branchID,
		ClientID:          clientID,
		GroupID:           groupID,
		Description:       description,
		OpenDate:          now,
	}
}

// AddItem appends a material or service line before the order finishes
func (w *WorkOrder) AddItem(sellableID uuid.UUID, quantity, price decimal.Decimal, now time.Time) (*WorkOrderItem, error) {
	if w.Status == WorkOrderStatusFinished || w.Status == WorkOrderStatusClosed || w.Status == WorkOrderStatusCancelled {
		return nil, shared.NewInvalidStateTransition("WorkOrder", w.Status.String(), w.Status.String())
	}
	if !quantity.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Item quantity must be positive")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Item price cannot be negative")
	}
	item := &WorkOrderItem{
		ID:         uuid.New(),
		OrderID:    w.ID,
		SellableID: sellableID,
		Quantity:   quantity,
		Price:      price,
	}
	w.Items = append(w.Items, item)
	w.Touch(now)
	return item, nil
}

// TotalAmount returns the sum of the line totals
func (w *WorkOrder) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, item := range w.Items {
		total = total.Add(item.Total())
	}
	return total
}

// SendForApproval moves an opened order to waiting approval
func (w *WorkOrder) SendForApproval(userID uuid.UUID, notes string, now time.Time) error {
	return w.transition(WorkOrderStatusWaitingApproval, userID, notes, now)
}

// Approve starts execution and records the executor
func (w *WorkOrder) Approve(userID, executorID uuid.UUID, now time.Time) error {
	if err := w.transition(WorkOrderStatusInProgress, userID, "", now); err != nil {
		return err
	}
	w.ExecutorID = &executorID
	w.ApproveDate = &now
	return nil
}

// Finish completes the work. The application service commits the material
// consumption to stock and materializes the payment group.
func (w *WorkOrder) Finish(userID uuid.UUID, now time.Time) error {
	if len(w.Items) == 0 {
		return shared.NewDomainError("EMPTY_ORDER", "Cannot finish an order with no items")
	}
	if err := w.transition(WorkOrderStatusFinished, userID, "", now); err != nil {
		return err
	}
	w.FinishDate = &now
	w.AddDomainEvent(NewWorkOrderFinishedEvent(w, now))
	return nil
}

// Close archives a finished order once its payments are settled
func (w *WorkOrder) Close(userID uuid.UUID, now time.Time) error {
	return w.transition(WorkOrderStatusClosed, userID, "", now)
}

// Cancel aborts the order before any work is committed
func (w *WorkOrder) Cancel(userID uuid.UUID, reason string, now time.Time) error {
	return w.transition(WorkOrderStatusCancelled, userID, reason, now)
}

func (w *WorkOrder) transition(target WorkOrderStatus, userID uuid.UUID, notes string, now time.Time) error {
	if !w.Status.CanTransitionTo(target) {
		return shared.NewInvalidStateTransition("WorkOrder", w.Status.String(), target.String())
	}
	w.History = append(w.History, &WorkOrderHistoryEntry{
		ID:       uuid.New(),
		OrderID:  w.ID,
		UserID:   userID,
		From:     w.Status,
		To:       target,
		Notes:    notes,
		Occurred: now,
	})
	w.Status = target
	w.Touch(now)
	return nil
}
