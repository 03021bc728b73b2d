package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailcore/backend/internal/domain/shared"
)

// ReturnedSaleItem links one original sale line to the quantity brought
// back. Quantity never exceeds the original line's quantity. Discount is
// the share of the original line discount credited with this return.
type ReturnedSaleItem struct {
	ID         uuid.UUID
	SaleItemID uuid.UUID
	SellableID uuid.UUID
	Quantity   decimal.Decimal
	Price      decimal.Decimal
	Discount   decimal.Decimal
}

// Total returns the value credited for the returned quantity
func (i *ReturnedSaleItem) Total() decimal.Decimal {
	return i.Price.Mul(i.Quantity).Sub(i.Discount)
}

// ReturnedSale records which items of a sale came back and why. It is the
// inverse of the sale's item set: its application restores stock, cancels
// outstanding installments and reverses fiscal entries.
type ReturnedSale struct {
	shared.BaseAggregateRoot
	Identifier    int64
	SaleID        uuid.UUID
	BranchID      uuid.UUID
	ResponsibleID uuid.UUID
	Reason        string
	ReturnDate    time.Time
	Items         []*ReturnedSaleItem
}

// NewReturnedSale opens a return against a confirmed or paid sale
func NewReturnedSale(identifier int64, sale *Sale, responsibleID uuid.UUID, reason string, now time.Time) (*ReturnedSale, error) {
	if sale.Status != SaleStatusConfirmed && sale.Status != SaleStatusPaid {
		return nil, shared.NewInvalidStateTransition("Sale", sale.Status.String(), SaleStatusReturned.String())
	}
	if reason == "" {
		return nil, shared.NewDomainError("INVALID_REASON", "Return reason is required")
	}
	return &ReturnedSale{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(now),
		Identifier:        identifier,
		SaleID:            sale.ID,
		BranchID:          sale.BranchID,
		ResponsibleID:     responsibleID,
		Reason:            reason,
		ReturnDate:        now,
	}, nil
}

// AddItem records the returned quantity of one original sale line
func (r *ReturnedSale) AddItem(original *SaleItem, quantity decimal.Decimal) (*ReturnedSaleItem, error) {
	if !quantity.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Returned quantity must be positive")
	}
	returned := r.returnedQuantity(original.ID).Add(quantity)
	if returned.GreaterThan(original.Quantity) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Returned quantity exceeds the sold quantity")
	}
	// The discount share is allocated cumulatively against the returned
	// quantity so the shares of successive partial returns sum to the
	// original line discount once everything is back.
	target := original.Discount.Mul(returned).Div(original.Quantity).Round(4)
	if returned.Equal(original.Quantity) {
		target = original.Discount
	}
	item := &ReturnedSaleItem{
		ID:         uuid.New(),
		SaleItemID: original.ID,
		SellableID: original.SellableID,
		Quantity:   quantity,
		Price:      original.Price,
		Discount:   target.Sub(r.creditedDiscount(original.ID)),
	}
	r.Items = append(r.Items, item)
	return item, nil
}

// ReturnAll records every line of the sale at its full quantity
func (r *ReturnedSale) ReturnAll(sale *Sale) error {
	for _, item := range sale.Items {
		if _, err := r.AddItem(item, item.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// TotalAmount returns the value credited by this return
func (r *ReturnedSale) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, item := range r.Items {
		total = total.Add(item.Total())
	}
	return total
}

func (r *ReturnedSale) creditedDiscount(saleItemID uuid.UUID) decimal.Decimal {
	total := decimal.Zero
	for _, item := range r.Items {
		if item.SaleItemID == saleItemID {
			total = total.Add(item.Discount)
		}
	}
	return total
}

func (r *ReturnedSale) returnedQuantity(saleItemID uuid.UUID) decimal.Decimal {
	total := decimal.Zero
	for _, item := range r.Items {
		if item.SaleItemID == saleItemID {
			total = total.Add(item.Quantity)
		}
	}
	return total
}
