package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailcore/backend/internal/domain/inventory"
)

// StorableModel is the persistence model for the Storable aggregate root.
// Stock items hold the per-branch balances; transactions are the ledger
// and are insert-only.
type StorableModel struct {
	AggregateModel
	SellableID   uuid.UUID               `gorm:"type:uuid;not null;uniqueIndex"`
	Items        []StockItemModel        `gorm:"foreignKey:StorableID;references:ID"`
	Transactions []StockTransactionModel `gorm:"foreignKey:StorableID;references:ID"`
}

// TableName returns the table name for GORM
func (StorableModel) TableName() string {
	return "storables"
}

// StockItemModel is one (storable, branch) balance cell
type StockItemModel struct {
	StorableID    uuid.UUID       `gorm:"type:uuid;primaryKey"`
	BranchID      uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Quantity      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	LogicQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	StockCost     decimal.Decimal `gorm:"type:decimal(18,6);not null"`
}

// TableName returns the table name for GORM
func (StockItemModel) TableName() string {
	return "stock_items"
}

// StockTransactionModel is one ledger line
type StockTransactionModel struct {
	ID            uuid.UUID                      `gorm:"type:uuid;primary_key"`
	StorableID    uuid.UUID                      `gorm:"type:uuid;not null;index"`
	BranchID      uuid.UUID                      `gorm:"type:uuid;not null;index"`
	Kind          inventory.StockTransactionKind `gorm:"type:varchar(30);not null"`
	Quantity      decimal.Decimal                `gorm:"type:decimal(18,4);not null"`
	UnitCost      decimal.Decimal                `gorm:"type:decimal(18,6);not null"`
	ResponsibleID uuid.UUID                      `gorm:"type:uuid;not null"`
	CreatedAt     time.Time                      `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (StockTransactionModel) TableName() string {
	return "stock_transactions"
}

// ToDomain converts the persistence model to a domain Storable
func (m *StorableModel) ToDomain() *inventory.Storable {
	s := &inventory.Storable{
		SellableID:   m.SellableID,
		Items:        make([]*inventory.StockItem, len(m.Items)),
		Transactions: make([]*inventory.StockTransaction, len(m.Transactions)),
	}
	m.PopulateAggregateRoot(&s.BaseAggregateRoot)

	for i, item := range m.Items {
		s.Items[i] = &inventory.StockItem{
			BranchID:      item.BranchID,
			Quantity:      item.Quantity,
			LogicQuantity: item.LogicQuantity,
			StockCost:     item.StockCost,
		}
	}
	for i, tx := range m.Transactions {
		s.Transactions[i] = &inventory.StockTransaction{
			ID:            tx.ID,
			StorableID:    tx.StorableID,
			BranchID:      tx.BranchID,
			Kind:          tx.Kind,
			Quantity:      tx.Quantity,
			UnitCost:      tx.UnitCost,
			ResponsibleID: tx.ResponsibleID,
			CreatedAt:     tx.CreatedAt,
		}
	}
	return s
}

// FromDomain populates the persistence model from a domain Storable
func (m *StorableModel) FromDomain(s *inventory.Storable) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.SellableID = s.SellableID

	m.Items = make([]StockItemModel, len(s.Items))
	for i, item := range s.Items {
		m.Items[i] = StockItemModel{
			StorableID:    s.ID,
			BranchID:      item.BranchID,
			Quantity:      item.Quantity,
			LogicQuantity: item.LogicQuantity,
			StockCost:     item.StockCost,
		}
	}

	m.Transactions = make([]StockTransactionModel, len(s.Transactions))
	for i, tx := range s.Transactions {
		m.Transactions[i] = StockTransactionModel{
			ID:            tx.ID,
			StorableID:    tx.StorableID,
			BranchID:      tx.BranchID,
			Kind:          tx.Kind,
			Quantity:      tx.Quantity,
			UnitCost:      tx.UnitCost,
			ResponsibleID: tx.ResponsibleID,
			CreatedAt:     tx.CreatedAt,
		}
	}
}

// StorableModelFromDomain creates a new persistence model from a domain Storable
func StorableModelFromDomain(s *inventory.Storable) *StorableModel {
	m := &StorableModel{}
	m.FromDomain(s)
	return m
}
