package catalog

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/domain/shared/valueobject"
)

// SellableStatus represents the availability of a sellable
type SellableStatus string

const (
	SellableStatusAvailable SellableStatus = "AVAILABLE"
	SellableStatusSold      SellableStatus = "SOLD"
	SellableStatusClosed    SellableStatus = "CLOSED"
	SellableStatusBlocked   SellableStatus = "BLOCKED"
)

// IsValid checks if the status is a valid SellableStatus
func (s SellableStatus) IsValid() bool {
	switch s {
	case SellableStatusAvailable, SellableStatusSold, SellableStatusClosed, SellableStatusBlocked:
		return true
	}
	return false
}

// String returns the string representation of SellableStatus
func (s SellableStatus) String() string {
	return string(s)
}

// SellableKind tells what backs the sellable
type SellableKind string

const (
	SellableKindProduct         SellableKind = "PRODUCT"
	SellableKindService         SellableKind = "SERVICE"
	SellableKindGiftCertificate SellableKind = "GIFT_CERTIFICATE"
)

// IsValid checks if the kind is known
func (k SellableKind) IsValid() bool {
	switch k {
	case SellableKindProduct, SellableKindService, SellableKindGiftCertificate:
		return true
	}
	return false
}

// Category groups sellables and suggests pricing defaults. A category may
// reference a base category; suggested markup and commission cascade from
// it when unset.
type Category struct {
	shared.BaseEntity
	Name                string
	BaseCategoryID      *uuid.UUID
	SuggestedMarkup     decimal.Decimal
	SuggestedCommission decimal.Decimal
}

// NewCategory creates a category
func NewCategory(name string, baseCategoryID *uuid.UUID, markup, commission decimal.Decimal, now time.Time) (*Category, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_CATEGORY_NAME", "Category name cannot be empty")
	}
	return &Category{
		BaseEntity:          shared.NewBaseEntity(now),
		Name:                name,
		BaseCategoryID:      baseCategoryID,
		SuggestedMarkup:     markup,
		SuggestedCommission: commission,
	}, nil
}

// Sellable is the uniform description of anything that can appear on a sale
// or purchase line: a product, a service or a gift certificate.
type Sellable struct {
	shared.BaseAggregateRoot
	Code        string
	Description string
	Kind        SellableKind
	Status      SellableStatus
	BasePrice   decimal.Decimal
	Cost        decimal.Decimal
	Unit        string
	TaxConstant string
	CategoryID  *uuid.UUID
	// Commission overrides the category's suggested commission when set.
	Commission *decimal.Decimal
	OnSalePrice decimal.Decimal
	OnSaleStart *time.Time
	OnSaleEnd   *time.Time
}

// NewSellable creates an available sellable with a unique code
func NewSellable(code, description string, kind SellableKind, basePrice, cost decimal.Decimal, unit string, now time.Time) (*Sellable, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Sellable code cannot be empty")
	}
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Sellable description cannot be empty")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", fmt.Sprintf("unknown sellable kind %q", kind))
	}
	if basePrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Base price cannot be negative")
	}
	return &Sellable{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(now),
		Code:              code,
		Description:       description,
		Kind:              kind,
		Status:            SellableStatusAvailable,
		BasePrice:         basePrice,
		Cost:              cost,
		Unit:              unit,
	}, nil
}

// CanBeSold reports whether the sellable may appear on a new sale line.
// This must agree with the status: available iff sellable.
func (s *Sellable) CanBeSold() bool {
	return s.Status == SellableStatusAvailable
}

// Price returns the effective price at the given instant: the on-sale
// price inside the promotional window, the base price otherwise.
func (s *Sellable) Price(now time.Time) valueobject.Money {
	if s.OnSaleStart != nil && s.OnSaleEnd != nil &&
		!now.Before(*s.OnSaleStart) && !now.After(*s.OnSaleEnd) {
		return valueobject.NewMoneyBRL(s.OnSalePrice)
	}
	return valueobject.NewMoneyBRL(s.BasePrice)
}

// SetOnSale configures the promotional window
func (s *Sellable) SetOnSale(price decimal.Decimal, start, end time.Time, now time.Time) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "On-sale price cannot be negative")
	}
	if end.Before(start) {
		return shared.NewDomainError("INVALID_WINDOW", "On-sale window end precedes its start")
	}
	s.OnSalePrice = price
	s.OnSaleStart = &start
	s.OnSaleEnd = &end
	s.Touch(now)
	return nil
}

// EffectiveCommission resolves the commission percentage: the sellable's
// own commission wins over the category suggestion.
func (s *Sellable) EffectiveCommission(category *Category) decimal.Decimal {
	if s.Commission != nil {
		return *s.Commission
	}
	if category != nil {
		return category.SuggestedCommission
	}
	return decimal.Zero
}

// MarkSold flags a unique sellable (e.g. a gift certificate) as sold
func (s *Sellable) MarkSold(now time.Time) error {
	if s.Status != SellableStatusAvailable {
		return shared.NewInvalidStateTransition("Sellable", s.Status.String(), SellableStatusSold.String())
	}
	s.Status = SellableStatusSold
	s.Touch(now)
	return nil
}

// Block makes the sellable temporarily unsellable
func (s *Sellable) Block(now time.Time) error {
	if s.Status != SellableStatusAvailable {
		return shared.NewInvalidStateTransition("Sellable", s.Status.String(), SellableStatusBlocked.String())
	}
	s.Status = SellableStatusBlocked
	s.Touch(now)
	return nil
}

// Unblock makes a blocked sellable available again
func (s *Sellable) Unblock(now time.Time) error {
	if s.Status != SellableStatusBlocked {
		return shared.NewInvalidStateTransition("Sellable", s.Status.String(), SellableStatusAvailable.String())
	}
	s.Status = SellableStatusAvailable
	s.Touch(now)
	return nil
}

// Close retires the sellable permanently
func (s *Sellable) Close(now time.Time) error {
	if s.Status == SellableStatusClosed {
		return shared.NewInvalidStateTransition("Sellable", s.Status.String(), SellableStatusClosed.String())
	}
	s.Status = SellableStatusClosed
	s.Touch(now)
	return nil
}
