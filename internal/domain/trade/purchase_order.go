package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailcore/backend/internal/domain/shared"
)

// PurchaseStatus represents the lifecycle state of a purchase order
type PurchaseStatus string

const (
	PurchaseStatusQuoting   PurchaseStatus = "QUOTING"
	PurchaseStatusPending   PurchaseStatus = "PENDING"
	PurchaseStatusConfirmed PurchaseStatus = "CONFIRMED"
	PurchaseStatusClosed    PurchaseStatus = "CLOSED"
	PurchaseStatusCancelled PurchaseStatus = "CANCELLED"
)

// IsValid checks if the status is a valid PurchaseStatus
func (s PurchaseStatus) IsValid() bool {
	switch s {
	case PurchaseStatusQuoting, PurchaseStatusPending, PurchaseStatusConfirmed,
		PurchaseStatusClosed, PurchaseStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of PurchaseStatus
func (s PurchaseStatus) String() string {
	return string(s)
}

// PurchaseItem is one line of a purchase order. QuantityReceived only ever
// grows, one receiving at a time, and never past QuantityOrdered.
type PurchaseItem struct {
	ID               uuid.UUID
	OrderID          uuid.UUID
	SellableID       uuid.UUID
	QuantityOrdered  decimal.Decimal
	QuantityReceived decimal.Decimal
	Cost             decimal.Decimal
}

// Pending returns the quantity still expected from the supplier
func (i *PurchaseItem) Pending() decimal.Decimal {
	return i.QuantityOrdered.Sub(i.QuantityReceived)
}

// Total returns ordered quantity times unit cost
func (i *PurchaseItem) Total() decimal.Decimal {
	return i.Cost.Mul(i.QuantityOrdered)
}

// PurchaseOrder is the buying transaction aggregate. Goods arrive through
// ReceivingOrders, which bump the per-line received quantities and close
// the order once everything ordered has arrived.
type PurchaseOrder struct {
	shared.BaseAggregateRoot
	Identifier   int64
	Status       PurchaseStatus
	BranchID     uuid.UUID
	SupplierID   uuid.UUID
	GroupID      uuid.UUID
	OpenDate     time.Time
	ConfirmDate  *time.Time
	CloseDate    *time.Time
	ExpectedDate *time.Time
	Notes        string
	Items        []*PurchaseItem
}

// NewPurchaseOrder opens a purchase order in quoting
func NewPurchaseOrder(identifier int64, branchID, supplierID, groupID uuid.UUID, now time.Time) *PurchaseOrder {
	return &PurchaseOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(now),
		Identifier:        identifier,
		Status:            PurchaseStatusQuoting,
		BranchID:          branchID,
		SupplierID:        supplierID,
		GroupID:           groupID,
		OpenDate:          now,
	}
}

// AddItem appends a line while the order is still being quoted
func (o *PurchaseOrder) AddItem(sellableID uuid.UUID, quantity, cost decimal.Decimal, now time.Time) (*PurchaseItem, error) {
	if o.Status != PurchaseStatusQuoting {
		return nil, shared.NewInvalidStateTransition("PurchaseOrder", o.Status.String(), o.Status.String())
	}
	if !quantity.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Item quantity must be positive")
	}
	if cost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Item cost cannot be negative")
	}
	item := &PurchaseItem{
		ID:               uuid.New(),
		OrderID:          o.ID,
		SellableID:       sellableID,
		QuantityOrdered:  quantity,
		QuantityReceived: decimal.Zero,
		Cost:             cost,
	}
	o.Items = append(o.Items, item)
	o.Touch(now)
	return item, nil
}

// TotalAmount returns the sum of the line totals
func (o *PurchaseOrder) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Total())
	}
	return total
}

// SetPending sends the quote to the supplier
func (o *PurchaseOrder) SetPending(now time.Time) error {
	if o.Status != PurchaseStatusQuoting {
		return shared.NewInvalidStateTransition("PurchaseOrder", o.Status.String(), PurchaseStatusPending.String())
	}
	if len(o.Items) == 0 {
		return shared.NewDomainError("EMPTY_ORDER", "Cannot send an order with no items")
	}
	o.Status = PurchaseStatusPending
	o.Touch(now)
	return nil
}

// Confirm acknowledges the supplier accepted the order
func (o *PurchaseOrder) Confirm(now time.Time) error {
	if o.Status != PurchaseStatusPending {
		return shared.NewInvalidStateTransition("PurchaseOrder", o.Status.String(), PurchaseStatusConfirmed.String())
	}
	o.Status = PurchaseStatusConfirmed
	o.ConfirmDate = &now
	o.Touch(now)
	return nil
}

// Receive bumps a line's received quantity. Received quantities only grow;
// once every line is fully received the order closes itself.
func (o *PurchaseOrder) Receive(itemID uuid.UUID, quantity decimal.Decimal, now time.Time) error {
	if o.Status != PurchaseStatusConfirmed {
		return shared.NewInvalidStateTransition("PurchaseOrder", o.Status.String(), o.Status.String())
	}
	if !quantity.IsPositive() {
		return nil
	}
	item := o.item(itemID)
	if item == nil {
		return shared.ErrNotFound
	}
	if quantity.GreaterThan(item.Pending()) {
		return shared.NewDomainError("INVALID_QUANTITY", "Received quantity exceeds the pending quantity")
	}
	item.QuantityReceived = item.QuantityReceived.Add(quantity)
	o.Touch(now)
	if o.fullyReceived() {
		o.Status = PurchaseStatusClosed
		o.CloseDate = &now
	}
	return nil
}

// Cancel cancels an order that has not been confirmed yet
func (o *PurchaseOrder) Cancel(now time.Time) error {
	if o.Status != PurchaseStatusQuoting && o.Status != PurchaseStatusPending {
		return shared.NewInvalidStateTransition("PurchaseOrder", o.Status.String(), PurchaseStatusCancelled.String())
	}
	o.Status = PurchaseStatusCancelled
	o.Touch(now)
	return nil
}

func (o *PurchaseOrder) item(id uuid.UUID) *PurchaseItem {
	for _, item := range o.Items {
		if item.ID == id {
			return item
		}
	}
	return nil
}

func (o *PurchaseOrder) fullyReceived() bool {
	for _, item := range o.Items {
		if item.Pending().IsPositive() {
			return false
		}
	}
	return true
}

// ReceivingStatus represents the state of a receiving order
type ReceivingStatus string

const (
	ReceivingStatusPending ReceivingStatus = "PENDING"
	ReceivingStatusClosed  ReceivingStatus = "CLOSED"
)

// ReceivingItem records the quantity of one purchase line arriving in one
// delivery.
type ReceivingItem struct {
	ID             uuid.UUID
	PurchaseItemID uuid.UUID
	SellableID     uuid.UUID
	Quantity       decimal.Decimal
	Cost           decimal.Decimal
}

// ReceivingOrder is one physical delivery against a purchase order. Its
// confirmation drives the purchase's received quantities, the stock
// increases and the outbound payment schedule.
type ReceivingOrder struct {
	shared.BaseAggregateRoot
	Identifier    int64
	Status        ReceivingStatus
	PurchaseID    uuid.UUID
	BranchID      uuid.UUID
	InvoiceNumber string
	ReceivalDate  time.Time
	Items         []*ReceivingItem
}

// NewReceivingOrder opens a delivery against a confirmed purchase
func NewReceivingOrder(identifier int64, purchase *PurchaseOrder, invoiceNumber string, now time.Time) (*ReceivingOrder, error) {
	if purchase.Status != PurchaseStatusConfirmed {
		return nil, shared.NewInvalidStateTransition("PurchaseOrder", purchase.Status.String(), purchase.Status.String())
	}
	return &ReceivingOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(now),
		Identifier:        identifier,
		Status:            ReceivingStatusPending,
		PurchaseID:        purchase.ID,
		BranchID:          purchase.BranchID,
		InvoiceNumber:     invoiceNumber,
		ReceivalDate:      now,
	}, nil
}

// AddItem records the arriving quantity of one purchase line
func (r *ReceivingOrder) AddItem(purchaseItem *PurchaseItem, quantity decimal.Decimal) (*ReceivingItem, error) {
	if r.Status != ReceivingStatusPending {
		return nil, shared.NewInvalidStateTransition("ReceivingOrder", string(r.Status), string(r.Status))
	}
	if !quantity.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Received quantity must be positive")
	}
	if quantity.GreaterThan(purchaseItem.Pending()) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Received quantity exceeds the pending quantity")
	}
	item := &ReceivingItem{
		ID:             uuid.New(),
		PurchaseItemID: purchaseItem.ID,
		SellableID:     purchaseItem.SellableID,
		Quantity:       quantity,
		Cost:           purchaseItem.Cost,
	}
	r.Items = append(r.Items, item)
	return item, nil
}

// TotalAmount returns the value of this delivery
func (r *ReceivingOrder) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, item := range r.Items {
		total = total.Add(item.Cost.Mul(item.Quantity))
	}
	return total
}

// Close applies the delivery to the purchase order and closes it
func (r *ReceivingOrder) Close(purchase *PurchaseOrder, now time.Time) error {
	if r.Status != ReceivingStatusPending {
		return shared.NewInvalidStateTransition("ReceivingOrder", string(r.Status), string(ReceivingStatusClosed))
	}
	if len(r.Items) == 0 {
		return shared.NewDomainError("EMPTY_ORDER", "Cannot close a delivery with no items")
	}
	for _, item := range r.Items {
		if err := purchase.Receive(item.PurchaseItemID, item.Quantity, now); err != nil {
			return err
		}
	}
	r.Status = ReceivingStatusClosed
	r.Touch(now)
	return nil
}
