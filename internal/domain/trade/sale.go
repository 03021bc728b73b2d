package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/domain/shared/valueobject"
)

// SaleStatus represents the lifecycle state of a sale
type SaleStatus string

const (
	SaleStatusQuote        SaleStatus = "QUOTE"
	SaleStatusOrdered      SaleStatus = "ORDERED"
	SaleStatusConfirmed    SaleStatus = "CONFIRMED"
	SaleStatusPaid         SaleStatus = "PAID"
	SaleStatusReturned     SaleStatus = "RETURNED"
	SaleStatusRenegotiated SaleStatus = "RENEGOTIATED"
	SaleStatusCancelled    SaleStatus = "CANCELLED"
)

// IsValid checks if the status is a valid SaleStatus
func (s SaleStatus) IsValid() bool {
	switch s {
	case SaleStatusQuote, SaleStatusOrdered, SaleStatusConfirmed,
		SaleStatusPaid, SaleStatusReturned, SaleStatusRenegotiated, SaleStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of SaleStatus
func (s SaleStatus) String() string {
	return string(s)
}

// IsTerminal reports whether no further transition leaves the status
func (s SaleStatus) IsTerminal() bool {
	return s == SaleStatusReturned || s == SaleStatusRenegotiated || s == SaleStatusCancelled
}

// SaleItem is one line of a sale: a sellable at a quantity and a price.
// BasePrice is the catalog price at the time the line was added; Price may
// deviate from it when markups are permitted. Discount is this line's
// allocated share of the sale discount, held as an amount so the line
// totals sum to the discounted total exactly.
type SaleItem struct {
	ID         uuid.UUID
	SaleID     uuid.UUID
	SellableID uuid.UUID
	Quantity   decimal.Decimal
	Price      decimal.Decimal
	BasePrice  decimal.Decimal
	Discount   decimal.Decimal
}

// Total returns quantity times the price, minus the line discount
func (i *SaleItem) Total() decimal.Decimal {
	return i.Price.Mul(i.Quantity).Sub(i.Discount)
}

// BaseTotal returns quantity times the catalog price
func (i *SaleItem) BaseTotal() decimal.Decimal {
	return i.BasePrice.Mul(i.Quantity)
}

// Sale is the selling transaction aggregate: lines, counterparties and the
// payment group that materializes its financial side. Stock, payment and
// fiscal effects of confirmation are orchestrated by the application
// service; the aggregate owns the state machine and the line arithmetic.
type Sale struct {
	shared.BaseAggregateRoot
	Identifier    int64
	Status        SaleStatus
	BranchID      uuid.UUID
	ClientID      *uuid.UUID
	SalesPersonID *uuid.UUID
	GroupID       uuid.UUID
	CFOPCode      string
	Discount      decimal.Decimal
	Surcharge     decimal.Decimal
	OpenDate      time.Time
	ConfirmDate   *time.Time
	CloseDate     *time.Time
	ReturnDate    *time.Time
	CancelDate    *time.Time
	Items         []*SaleItem
}

// NewSale opens a sale in quote at the given branch
func NewSale(identifier int64, branchID, groupID uuid.UUID, cfopCode string, now time.Time) *Sale {
	return &Sale{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(now),
		Identifier:        identifier,
		Status:            SaleStatusQuote,
		BranchID:          branchID,
		GroupID:           groupID,
		CFOPCode:          cfopCode,
		Discount:          decimal.Zero,
		Surcharge:         decimal.Zero,
		OpenDate:          now,
	}
}

// SetClient records the buying party
func (s *Sale) SetClient(personID uuid.UUID) {
	s.ClientID = &personID
}

// SetSalesPerson records the selling employee
func (s *Sale) SetSalesPerson(personID uuid.UUID) {
	s.SalesPersonID = &personID
}

// AddItem appends a line to a quote or ordered sale. Prices above the
// catalog base price are rejected unless higher sale prices are allowed.
func (s *Sale) AddItem(sellableID uuid.UUID, quantity, price, basePrice decimal.Decimal, allowHigherPrice bool, now time.Time) (*SaleItem, error) {
	if s.Status != SaleStatusQuote && s.Status != SaleStatusOrdered {
		return nil, shared.NewInvalidStateTransition("Sale", s.Status.String(), s.Status.String())
	}
	if !quantity.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Item quantity must be positive")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Item price cannot be negative")
	}
	if !allowHigherPrice && price.GreaterThan(basePrice) {
		return nil, shared.NewDomainError("PRICE_ABOVE_BASE", "Item price cannot exceed the catalog price")
	}
	item := &SaleItem{
		ID:         uuid.New(),
		SaleID:     s.ID,
		SellableID: sellableID,
		Quantity:   quantity,
		Price:      price,
		BasePrice:  basePrice,
		Discount:   decimal.Zero,
	}
	s.Items = append(s.Items, item)
	s.Touch(now)
	return item, nil
}

// ApplyDiscount distributes a total discount across the lines proportionally
// to their base totals. Each line stores its allocated share as an amount,
// never a derived unit price, so the line totals sum to the discounted
// total exactly. Residual cents land on the largest line; no line may drop
// below zero.
func (s *Sale) ApplyDiscount(discount decimal.Decimal, precision int32, now time.Time) error {
	if s.Status != SaleStatusQuote && s.Status != SaleStatusOrdered {
		return shared.NewInvalidStateTransition("Sale", s.Status.String(), s.Status.String())
	}
	if discount.IsNegative() {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}
	if len(s.Items) == 0 {
		return shared.NewDomainError("EMPTY_SALE", "Cannot discount a sale with no items")
	}

	weights := make([]decimal.Decimal, len(s.Items))
	for i, item := range s.Items {
		weights[i] = item.BaseTotal()
	}
	shares, err := valueobject.AllocateProportionally(valueobject.NewMoneyBRL(discount), weights, precision)
	if err != nil {
		return shared.NewDomainError("INVALID_DISCOUNT", err.Error())
	}
	for i, item := range s.Items {
		if shares[i].Amount().GreaterThan(item.Price.Mul(item.Quantity)) {
			return shared.NewDomainError("INVALID_DISCOUNT", "Discount would drive a line total below zero")
		}
	}
	for i, item := range s.Items {
		item.Discount = shares[i].Amount()
	}
	s.Discount = discount
	s.Touch(now)
	return nil
}

// TotalSalesAmount returns the sum of the line totals
func (s *Sale) TotalSalesAmount() decimal.Decimal {
	total := decimal.Zero
	for _, item := range s.Items {
		total = total.Add(item.Total())
	}
	return total
}

// TotalAmount returns the line sum plus surcharge; line totals already
// carry the distributed discount.
func (s *Sale) TotalAmount() decimal.Decimal {
	return s.TotalSalesAmount().Add(s.Surcharge)
}

// Order promotes a quote with at least one item to ordered
func (s *Sale) Order(now time.Time) error {
	if s.Status != SaleStatusQuote {
		return shared.NewInvalidStateTransition("Sale", s.Status.String(), SaleStatusOrdered.String())
	}
	if len(s.Items) == 0 {
		return shared.NewDomainError("EMPTY_SALE", "Cannot order a sale with no items")
	}
	s.Status = SaleStatusOrdered
	s.Touch(now)
	return nil
}

// Confirm marks the sale confirmed and publishes sale.confirmed. The
// caller is responsible for the stock, payment and fiscal side effects.
func (s *Sale) Confirm(now time.Time) error {
	if s.Status != SaleStatusOrdered {
		return shared.NewInvalidStateTransition("Sale", s.Status.String(), SaleStatusConfirmed.String())
	}
	s.Status = SaleStatusConfirmed
	s.ConfirmDate = &now
	s.Touch(now)
	s.AddDomainEvent(NewSaleConfirmedEvent(s, now))
	return nil
}

// SetPaid closes a confirmed sale whose group balance reached zero
func (s *Sale) SetPaid(now time.Time) error {
	if s.Status != SaleStatusConfirmed {
		return shared.NewInvalidStateTransition("Sale", s.Status.String(), SaleStatusPaid.String())
	}
	s.Status = SaleStatusPaid
	s.CloseDate = &now
	s.Touch(now)
	return nil
}

// Return marks a confirmed or paid sale returned and publishes
// sale.returned. Stock restoration and payment cancellation are the
// application service's side of the operation.
func (s *Sale) Return(now time.Time) error {
	if s.Status != SaleStatusConfirmed && s.Status != SaleStatusPaid {
		return shared.NewInvalidStateTransition("Sale", s.Status.String(), SaleStatusReturned.String())
	}
	s.Status = SaleStatusReturned
	s.ReturnDate = &now
	s.Touch(now)
	s.AddDomainEvent(NewSaleReturnedEvent(s, now))
	return nil
}

// Renegotiate marks a confirmed sale renegotiated; its outstanding
// payments move to the renegotiation's new schedule.
func (s *Sale) Renegotiate(now time.Time) error {
	if s.Status != SaleStatusConfirmed {
		return shared.NewInvalidStateTransition("Sale", s.Status.String(), SaleStatusRenegotiated.String())
	}
	s.Status = SaleStatusRenegotiated
	s.Touch(now)
	return nil
}

// Cancel cancels a sale before confirmation. Confirmed sales must go
// through the return path so fiscal reversals are produced.
func (s *Sale) Cancel(now time.Time) error {
	if s.Status != SaleStatusQuote && s.Status != SaleStatusOrdered {
		return shared.NewInvalidStateTransition("Sale", s.Status.String(), SaleStatusCancelled.String())
	}
	s.Status = SaleStatusCancelled
	s.CancelDate = &now
	s.Touch(now)
	return nil
}
