package inventory

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailcore/backend/internal/domain/shared"
)

// StockTransactionKind classifies a stock ledger movement
type StockTransactionKind string

const (
	StockTransactionInitial            StockTransactionKind = "INITIAL"
	StockTransactionReceived           StockTransactionKind = "RECEIVED"
	StockTransactionSold               StockTransactionKind = "SOLD"
	StockTransactionReturnedSale       StockTransactionKind = "RETURNED_SALE"
	StockTransactionTransferFrom       StockTransactionKind = "TRANSFER_FROM"
	StockTransactionTransferTo         StockTransactionKind = "TRANSFER_TO"
	StockTransactionProductionReserved StockTransactionKind = "PRODUCTION_RESERVED"
	StockTransactionProductionConsumed StockTransactionKind = "PRODUCTION_CONSUMED"
	StockTransactionProductionLost     StockTransactionKind = "PRODUCTION_LOST"
	StockTransactionProductionProduced StockTransactionKind = "PRODUCTION_PRODUCED"
	StockTransactionManualAdjustment   StockTransactionKind = "MANUAL_ADJUSTMENT"
)

// IsValid checks if the kind is a known StockTransactionKind
func (k StockTransactionKind) IsValid() bool {
	switch k {
	case StockTransactionInitial, StockTransactionReceived, StockTransactionSold,
		StockTransactionReturnedSale, StockTransactionTransferFrom, StockTransactionTransferTo,
		StockTransactionProductionReserved, StockTransactionProductionConsumed,
		StockTransactionProductionLost, StockTransactionProductionProduced,
		StockTransactionManualAdjustment:
		return true
	}
	return false
}

// StockTransaction is an immutable ledger record of one stock movement.
// Quantity is signed: positive for increases, negative for decreases.
type StockTransaction struct {
	ID            uuid.UUID
	StorableID    uuid.UUID
	BranchID      uuid.UUID
	Kind          StockTransactionKind
	Quantity      decimal.Decimal
	UnitCost      decimal.Decimal
	ResponsibleID uuid.UUID
	CreatedAt     time.Time
}

// StockItem is the on-hand balance of one storable at one branch.
type StockItem struct {
	BranchID      uuid.UUID
	Quantity      decimal.Decimal
	LogicQuantity decimal.Decimal
	// StockCost is the moving-average unit cost of the on-hand quantity.
	StockCost decimal.Decimal
}

// Storable is the stock-bearing facet of a product sellable. It owns the
// per-branch balances and the append-only movement ledger.
type Storable struct {
	shared.BaseAggregateRoot
	SellableID   uuid.UUID
	Items        []*StockItem
	Transactions []*StockTransaction
}

// NewStorable creates a storable facet for a product sellable
func NewStorable(sellableID uuid.UUID, now time.Time) (*Storable, error) {
	if sellableID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SELLABLE", "Storable requires a sellable")
	}
	return &Storable{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(now),
		SellableID:        sellableID,
	}, nil
}

// item returns the stock item for a branch, creating a zero balance cell
// when the branch has never held this storable.
func (s *Storable) item(branchID uuid.UUID) *StockItem {
	for _, it := range s.Items {
		if it.BranchID == branchID {
			return it
		}
	}
	it := &StockItem{
		BranchID:      branchID,
		Quantity:      decimal.Zero,
		LogicQuantity: decimal.Zero,
		StockCost:     decimal.Zero,
	}
	s.Items = append(s.Items, it)
	return it
}

// BalanceFor returns the on-hand quantity at a branch
func (s *Storable) BalanceFor(branchID uuid.UUID) decimal.Decimal {
	for _, it := range s.Items {
		if it.BranchID == branchID {
			return it.Quantity
		}
	}
	return decimal.Zero
}

// CostFor returns the moving-average unit cost at a branch
func (s *Storable) CostFor(branchID uuid.UUID) decimal.Decimal {
	for _, it := range s.Items {
		if it.BranchID == branchID {
			return it.StockCost
		}
	}
	return decimal.Zero
}

// IncreaseStock adds quantity at a branch, recomputing the moving-average
// cost when a unit cost is supplied, and appends a ledger record.
func (s *Storable) IncreaseStock(quantity decimal.Decimal, branchID uuid.UUID, unitCost *decimal.Decimal, kind StockTransactionKind, responsibleID uuid.UUID, now time.Time) error {
	if !quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Stock increase must be positive")
	}
	if !kind.IsValid() {
		return shared.NewDomainError("INVALID_KIND", fmt.Sprintf("unknown stock transaction kind %q", kind))
	}
	it := s.item(branchID)

	cost := it.StockCost
	if unitCost != nil {
		current := it.Quantity.Mul(it.StockCost)
		incoming := quantity.Mul(*unitCost)
		cost = current.Add(incoming).Div(it.Quantity.Add(quantity))
	}
	it.Quantity = it.Quantity.Add(quantity)
	it.StockCost = cost

	s.appendTransaction(branchID, kind, quantity, cost, responsibleID, now)
	s.Touch(now)
	return nil
}

// DecreaseStock removes quantity at a branch and appends a ledger record.
// A decrease that would drive the balance negative fails.
func (s *Storable) DecreaseStock(quantity decimal.Decimal, branchID uuid.UUID, kind StockTransactionKind, responsibleID uuid.UUID, now time.Time) error {
	if !quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Stock decrease must be positive")
	}
	if !kind.IsValid() {
		return shared.NewDomainError("INVALID_KIND", fmt.Sprintf("unknown stock transaction kind %q", kind))
	}
	it := s.item(branchID)
	if it.Quantity.LessThan(quantity) {
		return shared.ErrInsufficientStock
	}
	it.Quantity = it.Quantity.Sub(quantity)

	s.appendTransaction(branchID, kind, quantity.Neg(), it.StockCost, responsibleID, now)
	s.Touch(now)
	return nil
}

// IncreaseLogicStock adjusts the logical (committed but not physical)
// quantity at a branch.
func (s *Storable) IncreaseLogicStock(quantity decimal.Decimal, branchID uuid.UUID, now time.Time) error {
	if !quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Logic stock increase must be positive")
	}
	it := s.item(branchID)
	it.LogicQuantity = it.LogicQuantity.Add(quantity)
	s.Touch(now)
	return nil
}

// DecreaseLogicStock releases logical quantity at a branch
func (s *Storable) DecreaseLogicStock(quantity decimal.Decimal, branchID uuid.UUID, now time.Time) error {
	if !quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Logic stock decrease must be positive")
	}
	it := s.item(branchID)
	if it.LogicQuantity.LessThan(quantity) {
		return shared.ErrInsufficientStock
	}
	it.LogicQuantity = it.LogicQuantity.Sub(quantity)
	s.Touch(now)
	return nil
}

func (s *Storable) appendTransaction(branchID uuid.UUID, kind StockTransactionKind, quantity, unitCost decimal.Decimal, responsibleID uuid.UUID, now time.Time) {
	s.Transactions = append(s.Transactions, &StockTransaction{
		ID:            uuid.New(),
		StorableID:    s.ID,
		BranchID:      branchID,
		Kind:          kind,
		Quantity:      quantity,
		UnitCost:      unitCost,
		ResponsibleID: responsibleID,
		CreatedAt:     now,
	})
}
