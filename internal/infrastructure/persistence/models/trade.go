package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailcore/backend/internal/domain/trade"
)

// SaleModel is the persistence model for the Sale aggregate root.
type SaleModel struct {
	AggregateModel
	SyncColumns
	Identifier    int64            `gorm:"not null;uniqueIndex:idx_sale_branch_identifier,priority:2"`
	Status        trade.SaleStatus `gorm:"type:varchar(20);not null;index"`
	BranchID      uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_sale_branch_identifier,priority:1"`
	ClientID      *uuid.UUID       `gorm:"type:uuid;index"`
	SalesPersonID *uuid.UUID       `gorm:"type:uuid;index"`
	GroupID       uuid.UUID        `gorm:"type:uuid;not null;index"`
	CFOPCode      string           `gorm:"type:varchar(10)"`
	Discount      decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	Surcharge     decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	OpenDate      time.Time        `gorm:"not null;index"`
	ConfirmDate   *time.Time
	CloseDate     *time.Time
	ReturnDate    *time.Time
	CancelDate    *time.Time
	Items         []SaleItemModel `gorm:"foreignKey:SaleID;references:ID"`
}

// TableName returns the table name for GORM
func (SaleModel) TableName() string {
	return "sales"
}

// SaleItemModel is one sold line
type SaleItemModel struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key"`
	SaleID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	SellableID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Price      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BasePrice  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Discount   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (SaleItemModel) TableName() string {
	return "sale_items"
}

// ToDomain converts the persistence model to a domain Sale
func (m *SaleModel) ToDomain() *trade.Sale {
	s := &trade.Sale{
		Identifier:    m.Identifier,
		Status:        m.Status,
		BranchID:      m.BranchID,
		ClientID:      m.ClientID,
		SalesPersonID: m.SalesPersonID,
		GroupID:       m.GroupID,
		CFOPCode:      m.CFOPCode,
		Discount:      m.Discount,
		Surcharge:     m.Surcharge,
		OpenDate:      m.OpenDate,
		ConfirmDate:   m.ConfirmDate,
		CloseDate:     m.CloseDate,
		ReturnDate:    m.ReturnDate,
		CancelDate:    m.CancelDate,
		Items:         make([]*trade.SaleItem, len(m.Items)),
	}
	m.PopulateAggregateRoot(&s.BaseAggregateRoot)

	for i, item := range m.Items {
		s.Items[i] = &trade.SaleItem{
			ID:         item.ID,
			SaleID:     item.SaleID,
			SellableID: item.SellableID,
			Quantity:   item.Quantity,
			Price:      item.Price,
			BasePrice:  item.BasePrice,
			Discount:   item.Discount,
		}
	}
	return s
}

// FromDomain populates the persistence model from a domain Sale
func (m *SaleModel) FromDomain(s *trade.Sale) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.Identifier = s.Identifier
	m.Status = s.Status
	m.BranchID = s.BranchID
	m.ClientID = s.ClientID
	m.SalesPersonID = s.SalesPersonID
	m.GroupID = s.GroupID
	m.CFOPCode = s.CFOPCode
	m.Discount = s.Discount
	m.Surcharge = s.Surcharge
	m.OpenDate = s.OpenDate
	m.ConfirmDate = s.ConfirmDate
	m.CloseDate = s.CloseDate
	m.ReturnDate = s.ReturnDate
	m.CancelDate = s.CancelDate

	m.Items = make([]SaleItemModel, len(s.Items))
	for i, item := range s.Items {
		m.Items[i] = SaleItemModel{
			ID:         item.ID,
			SaleID:     item.SaleID,
			SellableID: item.SellableID,
			Quantity:   item.Quantity,
			Price:      item.Price,
			BasePrice:  item.BasePrice,
			Discount:   item.Discount,
		}
	}
}

// SaleModelFromDomain creates a new persistence model from a domain Sale
func SaleModelFromDomain(s *trade.Sale) *SaleModel {
	m := &SaleModel{}
	m.FromDomain(s)
	return m
}

// ReturnedSaleModel is the persistence model for sale returns
type ReturnedSaleModel struct {
	AggregateModel
	SyncColumns
	Identifier    int64                   `gorm:"not null;index"`
	SaleID        uuid.UUID               `gorm:"type:uuid;not null;index"`
	BranchID      uuid.UUID               `gorm:"type:uuid;not null;index"`
	ResponsibleID uuid.UUID               `gorm:"type:uuid;not null"`
	Reason        string                  `gorm:"type:varchar(500)"`
	ReturnDate    time.Time               `gorm:"not null"`
	Items         []ReturnedSaleItemModel `gorm:"foreignKey:ReturnedSaleID;references:ID"`
}

// TableName returns the table name for GORM
func (ReturnedSaleModel) TableName() string {
	return "returned_sales"
}

// ReturnedSaleItemModel is one returned line
type ReturnedSaleItemModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key"`
	ReturnedSaleID uuid.UUID       `gorm:"type:uuid;not null;index"`
	SaleItemID     uuid.UUID       `gorm:"type:uuid;not null"`
	SellableID     uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Price          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Discount       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (ReturnedSaleItemModel) TableName() string {
	return "returned_sale_items"
}

// ToDomain converts the persistence model to a domain ReturnedSale
func (m *ReturnedSaleModel) ToDomain() *trade.ReturnedSale {
	r := &trade.ReturnedSale{
		Identifier:    m.Identifier,
		SaleID:        m.SaleID,
		BranchID:      m.BranchID,
		ResponsibleID: m.ResponsibleID,
		Reason:        m.Reason,
		ReturnDate:    m.ReturnDate,
		Items:         make([]*trade.ReturnedSaleItem, len(m.Items)),
	}
	m.PopulateAggregateRoot(&r.BaseAggregateRoot)

	for i, item := range m.Items {
		r.Items[i] = &trade.ReturnedSaleItem{
			ID:         item.ID,
			SaleItemID: item.SaleItemID,
			SellableID: item.SellableID,
			Quantity:   item.Quantity,
			Price:      item.Price,
			Discount:   item.Discount,
		}
	}
	return r
}

// FromDomain populates the persistence model from a domain ReturnedSale
func (m *ReturnedSaleModel) FromDomain(r *trade.ReturnedSale) {
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	m.Identifier = r.Identifier
	m.SaleID = r.SaleID
	m.BranchID = r.BranchID
	m.ResponsibleID = r.ResponsibleID
	m.Reason = r.Reason
	m.ReturnDate = r.ReturnDate

	m.Items = make([]ReturnedSaleItemModel, len(r.Items))
	for i, item := range r.Items {
		m.Items[i] = ReturnedSaleItemModel{
			ID:             item.ID,
			ReturnedSaleID: r.ID,
			SaleItemID:     item.SaleItemID,
			SellableID:     item.SellableID,
			Quantity:       item.Quantity,
			Price:          item.Price,
			Discount:       item.Discount,
		}
	}
}

// RenegotiationModel is the persistence model for debt renegotiations.
// The original group ids are stored as a uuid array column.
type RenegotiationModel struct {
	AggregateModel
	SyncColumns
	Identifier     int64           `gorm:"not null;index"`
	BranchID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ClientID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ResponsibleID  uuid.UUID       `gorm:"type:uuid;not null"`
	OriginalGroups string          `gorm:"type:jsonb;not null;default:'[]'"`
	NewGroupID     uuid.UUID       `gorm:"type:uuid;not null"`
	Total          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PenaltyWaived  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Notes          string          `gorm:"type:varchar(500)"`
	SignedDate     time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (RenegotiationModel) TableName() string {
	return "renegotiations"
}

// ToDomain converts the persistence model to a domain RenegotiationData
func (m *RenegotiationModel) ToDomain() (*trade.RenegotiationData, error) {
	r := &trade.RenegotiationData{
		Identifier:    m.Identifier,
		BranchID:      m.BranchID,
		ClientID:      m.ClientID,
		ResponsibleID: m.ResponsibleID,
		NewGroupID:    m.NewGroupID,
		Total:         m.Total,
		PenaltyWaived: m.PenaltyWaived,
		Notes:         m.Notes,
		SignedDate:    m.SignedDate,
	}
	m.PopulateAggregateRoot(&r.BaseAggregateRoot)

	if m.OriginalGroups != "" {
		if err := json.Unmarshal([]byte(m.OriginalGroups), &r.OriginalGroups); err != nil {
			return nil, fmt.Errorf("unmarshaling renegotiated groups: %w", err)
		}
	}
	return r, nil
}

// FromDomain populates the persistence model from a domain RenegotiationData
func (m *RenegotiationModel) FromDomain(r *trade.RenegotiationData) error {
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	m.Identifier = r.Identifier
	m.BranchID = r.BranchID
	m.ClientID = r.ClientID
	m.ResponsibleID = r.ResponsibleID
	m.NewGroupID = r.NewGroupID
	m.Total = r.Total
	m.PenaltyWaived = r.PenaltyWaived
	m.Notes = r.Notes
	m.SignedDate = r.SignedDate

	groups, err := json.Marshal(r.OriginalGroups)
	if err != nil {
		return fmt.Errorf("marshaling renegotiated groups: %w", err)
	}
	m.OriginalGroups = string(groups)
	return nil
}

// PurchaseOrderModel is the persistence model for purchase orders
type PurchaseOrderModel struct {
	AggregateModel
	SyncColumns
	Identifier   int64                `gorm:"not null;index"`
	Status       trade.PurchaseStatus `gorm:"type:varchar(20);not null;index"`
	BranchID     uuid.UUID            `gorm:"type:uuid;not null;index"`
	SupplierID   uuid.UUID            `gorm:"type:uuid;not null;index"`
	GroupID      uuid.UUID            `gorm:"type:uuid;not null"`
	OpenDate     time.Time            `gorm:"not null"`
	ConfirmDate  *time.Time
	CloseDate    *time.Time
	ExpectedDate *time.Time
	Notes        string              `gorm:"type:varchar(500)"`
	Items        []PurchaseItemModel `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (PurchaseOrderModel) TableName() string {
	return "purchase_orders"
}

// PurchaseItemModel is one ordered line
type PurchaseItemModel struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	SellableID       uuid.UUID       `gorm:"type:uuid;not null"`
	QuantityOrdered  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	QuantityReceived decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Cost             decimal.Decimal `gorm:"type:decimal(18,6);not null"`
}

// TableName returns the table name for GORM
func (PurchaseItemModel) TableName() string {
	return "purchase_items"
}

// ToDomain converts the persistence model to a domain PurchaseOrder
func (m *PurchaseOrderModel) ToDomain() *trade.PurchaseOrder {
	o := &trade.PurchaseOrder{
		Identifier:   m.Identifier,
		Status:       m.Status,
		BranchID:     m.BranchID,
		SupplierID:   m.SupplierID,
		GroupID:      m.GroupID,
		OpenDate:     m.OpenDate,
		ConfirmDate:  m.ConfirmDate,
		CloseDate:    m.CloseDate,
		ExpectedDate: m.ExpectedDate,
		Notes:        m.Notes,
		Items:        make([]*trade.PurchaseItem, len(m.Items)),
	}
	m.PopulateAggregateRoot(&o.BaseAggregateRoot)

	for i, item := range m.Items {
		o.Items[i] = &trade.PurchaseItem{
			ID:               item.ID,
			OrderID:          item.OrderID,
			SellableID:       item.SellableID,
			QuantityOrdered:  item.QuantityOrdered,
			QuantityReceived: item.QuantityReceived,
			Cost:             item.Cost,
		}
	}
	return o
}

// FromDomain populates the persistence model from a domain PurchaseOrder
func (m *PurchaseOrderModel) FromDomain(o *trade.PurchaseOrder) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.Identifier = o.Identifier
	m.Status = o.Status
	m.BranchID = o.BranchID
	m.SupplierID = o.SupplierID
	m.GroupID = o.GroupID
	m.OpenDate = o.OpenDate
	m.ConfirmDate = o.ConfirmDate
	m.CloseDate = o.CloseDate
	m.ExpectedDate = o.ExpectedDate
	m.Notes = o.Notes

	m.Items = make([]PurchaseItemModel, len(o.Items))
	for i, item := range o.Items {
		m.Items[i] = PurchaseItemModel{
			ID:               item.ID,
			OrderID:          item.OrderID,
			SellableID:       item.SellableID,
			QuantityOrdered:  item.QuantityOrdered,
			QuantityReceived: item.QuantityReceived,
			Cost:             item.Cost,
		}
	}
}

// ReceivingOrderModel is the persistence model for deliveries
type ReceivingOrderModel struct {
	AggregateModel
	SyncColumns
	Identifier    int64                 `gorm:"not null;index"`
	Status        trade.ReceivingStatus `gorm:"type:varchar(20);not null"`
	PurchaseID    uuid.UUID             `gorm:"type:uuid;not null;index"`
	BranchID      uuid.UUID             `gorm:"type:uuid;not null;index"`
	InvoiceNumber string                `gorm:"type:varchar(50)"`
	ReceivalDate  time.Time             `gorm:"not null"`
	Items         []ReceivingItemModel  `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (ReceivingOrderModel) TableName() string {
	return "receiving_orders"
}

// ReceivingItemModel is one received line
type ReceivingItemModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	PurchaseItemID uuid.UUID       `gorm:"type:uuid;not null"`
	SellableID     uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Cost           decimal.Decimal `gorm:"type:decimal(18,6);not null"`
}

// TableName returns the table name for GORM
func (ReceivingItemModel) TableName() string {
	return "receiving_items"
}

// ToDomain converts the persistence model to a domain ReceivingOrder
func (m *ReceivingOrderModel) ToDomain() *trade.ReceivingOrder {
	o := &trade.ReceivingOrder{
		Identifier:    m.Identifier,
		Status:        m.Status,
		PurchaseID:    m.PurchaseID,
		BranchID:      m.BranchID,
		InvoiceNumber: m.InvoiceNumber,
		ReceivalDate:  m.ReceivalDate,
		Items:         make([]*trade.ReceivingItem, len(m.Items)),
	}
	m.PopulateAggregateRoot(&o.BaseAggregateRoot)

	for i, item := range m.Items {
		o.Items[i] = &trade.ReceivingItem{
			ID:             item.ID,
			PurchaseItemID: item.PurchaseItemID,
			SellableID:     item.SellableID,
			Quantity:       item.Quantity,
			Cost:           item.Cost,
		}
	}
	return o
}

// FromDomain populates the persistence model from a domain ReceivingOrder
func (m *ReceivingOrderModel) FromDomain(o *trade.ReceivingOrder) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.Identifier = o.Identifier
	m.Status = o.Status
	m.PurchaseID = o.PurchaseID
	m.BranchID = o.BranchID
	m.InvoiceNumber = o.InvoiceNumber
	m.ReceivalDate = o.ReceivalDate

	m.Items = make([]ReceivingItemModel, len(o.Items))
	for i, item := range o.Items {
		m.Items[i] = ReceivingItemModel{
			ID:             item.ID,
			OrderID:        o.ID,
			PurchaseItemID: item.PurchaseItemID,
			SellableID:     item.SellableID,
			Quantity:       item.Quantity,
			Cost:           item.Cost,
		}
	}
}
