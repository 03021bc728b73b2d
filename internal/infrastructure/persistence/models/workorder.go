package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailcore/backend/internal/domain/workorder"
)

// WorkOrderModel is the persistence model for service orders
type WorkOrderModel struct {
	AggregateModel
	SyncColumns
	Identifier  int64                     `gorm:"not null;index"`
	Status      workorder.WorkOrderStatus `gorm:"type:varchar(20);not null;index"`
	BranchID    uuid.UUID                 `gorm:"type:uuid;not null;index"`
	ClientID    uuid.UUID                 `gorm:"type:uuid;not null;index"`
	ExecutorID  *uuid.UUID                `gorm:"type:uuid"`
	GroupID     uuid.UUID                 `gorm:"type:uuid;not null"`
	Description string                    `gorm:"type:varchar(500)"`
	OpenDate    time.Time                 `gorm:"not null"`
	ApproveDate *time.Time
	FinishDate  *time.Time
	Items       []WorkOrderItemModel    `gorm:"foreignKey:OrderID;references:ID"`
	History     []WorkOrderHistoryModel `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (WorkOrderModel) TableName() string {
	return "work_orders"
}

// WorkOrderItemModel is one service or part line
type WorkOrderItemModel struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	SellableID uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Price      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (WorkOrderItemModel) TableName() string {
	return "work_order_items"
}

// WorkOrderHistoryModel is one status transition record
type WorkOrderHistoryModel struct {
	ID       uuid.UUID                 `gorm:"type:uuid;primary_key"`
	OrderID  uuid.UUID                 `gorm:"type:uuid;not null;index"`
	UserID   uuid.UUID                 `gorm:"type:uuid;not null"`
	From     workorder.WorkOrderStatus `gorm:"column:from_status;type:varchar(20);not null"`
	To       workorder.WorkOrderStatus `gorm:"column:to_status;type:varchar(20);not null"`
	Notes    string                    `gorm:"type:varchar(300)"`
	Occurred time.Time                 `gorm:"not null"`
}

// TableName returns the table name for GORM
func (WorkOrderHistoryModel) TableName() string {
	return "work_order_history"
}

// ToDomain converts the persistence model to a domain WorkOrder
func (m *WorkOrderModel) ToDomain() *workorder.WorkOrder {
	o := &workorder.WorkOrder{
		Identifier:  m.Identifier,
		Status:      m.Status,
		BranchID:    m.BranchID,
		ClientID:    m.ClientID,
		ExecutorID:  m.ExecutorID,
		GroupID:     m.GroupID,
		Description: m.Description,
		OpenDate:    m.OpenDate,
		ApproveDate: m.ApproveDate,
		FinishDate:  m.FinishDate,
		Items:       make([]*workorder.WorkOrderItem, len(m.Items)),
		History:     make([]*workorder.WorkOrderHistoryEntry, len(m.History)),
	}
	m.PopulateAggregateRoot(&o.BaseAggregateRoot)

	for i, item := range m.Items {
		o.Items[i] = &workorder.WorkOrderItem{
			ID:         item.ID,
			OrderID:    item.OrderID,
			SellableID: item.SellableID,
			Quantity:   item.Quantity,
			Price:      item.Price,
		}
	}
	for i, h := range m.History {
		o.History[i] = &workorder.WorkOrderHistoryEntry{
			ID:       h.ID,
			OrderID:  h.OrderID,
			UserID:   h.UserID,
			From:     h.From,
			To:       h.To,
			Notes:    h.Notes,
			Occurred: h.Occurred,
		}
	}
	return o
}

// FromDomain populates the persistence model from a domain WorkOrder
func (m *WorkOrderModel) FromDomain(o *workorder.WorkOrder) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.Identifier = o.Identifier
	m.Status = o.Status
	m.BranchID = o.BranchID
	m.ClientID = o.ClientID
	m.ExecutorID = o.ExecutorID
	m.GroupID = o.GroupID
	m.Description = o.Description
	m.OpenDate = o.OpenDate
	m.ApproveDate = o.ApproveDate
	m.FinishDate = o.FinishDate

	m.Items = make([]WorkOrderItemModel, len(o.Items))
	for i, item := range o.Items {
		m.Items[i] = WorkOrderItemModel{
			ID:         item.ID,
			OrderID:    item.OrderID,
			SellableID: item.SellableID,
			Quantity:   item.Quantity,
			Price:      item.Price,
		}
	}

	m.History = make([]WorkOrderHistoryModel, len(o.History))
	for i, h := range o.History {
		m.History[i] = WorkOrderHistoryModel{
			ID:       h.ID,
			OrderID:  h.OrderID,
			UserID:   h.UserID,
			From:     h.From,
			To:       h.To,
			Notes:    h.Notes,
			Occurred: h.Occurred,
		}
	}
}

// WorkOrderModelFromDomain creates a new persistence model from a domain WorkOrder
func WorkOrderModelFromDomain(o *workorder.WorkOrder) *WorkOrderModel {
	m := &WorkOrderModel{}
	m.FromDomain(o)
	return m
}

// ProductionOrderModel is the persistence model for production orders
type ProductionOrderModel struct {
	AggregateModel
	SyncColumns
	Identifier      int64                      `gorm:"not null;index"`
	Status          workorder.ProductionStatus `gorm:"type:varchar(20);not null;index"`
	BranchID        uuid.UUID                  `gorm:"type:uuid;not null;index"`
	ResponsibleID   uuid.UUID                  `gorm:"type:uuid;not null"`
	ProductID       uuid.UUID                  `gorm:"type:uuid;not null;index"`
	QuantityPlanned decimal.Decimal            `gorm:"type:decimal(18,4);not null"`
	QuantityMade    decimal.Decimal            `gorm:"type:decimal(18,4);not null"`
	QuantityLost    decimal.Decimal            `gorm:"type:decimal(18,4);not null"`
	OpenDate        time.Time                  `gorm:"not null"`
	CloseDate       *time.Time
	Materials       []ProductionMaterialModel `gorm:"foreignKey:OrderID;references:ID"`
	Tests           []QualityTestModel        `gorm:"foreignKey:OrderID;references:ID"`
	Results         []QualityTestResultModel  `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (ProductionOrderModel) TableName() string {
	return "production_orders"
}

// ProductionMaterialModel is one consumed input line
type ProductionMaterialModel struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	SellableID uuid.UUID       `gorm:"type:uuid;not null"`
	Needed     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Reserved   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Consumed   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Lost       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (ProductionMaterialModel) TableName() string {
	return "production_materials"
}

// QualityTestModel is one quality requirement on the produced item
type QualityTestModel struct {
	ID           uuid.UUID                 `gorm:"type:uuid;primary_key"`
	OrderID      uuid.UUID                 `gorm:"type:uuid;not null;index"`
	Description  string                    `gorm:"type:varchar(300);not null"`
	Type         workorder.QualityTestType `gorm:"type:varchar(20);not null"`
	ExpectedBool bool                      `gorm:"not null;default:false"`
	RangeMin     decimal.Decimal           `gorm:"type:decimal(18,4);not null"`
	RangeMax     decimal.Decimal           `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (QualityTestModel) TableName() string {
	return "quality_tests"
}

// QualityTestResultModel is one recorded measurement
type QualityTestResultModel struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key"`
	OrderID  uuid.UUID `gorm:"type:uuid;not null;index"`
	TestID   uuid.UUID `gorm:"type:uuid;not null;index"`
	ItemSeq  int       `gorm:"not null"`
	Passed   bool      `gorm:"not null"`
	Recorded time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (QualityTestResultModel) TableName() string {
	return "quality_test_results"
}

// ToDomain converts the persistence model to a domain ProductionOrder
func (m *ProductionOrderModel) ToDomain() *workorder.ProductionOrder {
	o := &workorder.ProductionOrder{
		Identifier:      m.Identifier,
		Status:          m.Status,
		BranchID:        m.BranchID,
		ResponsibleID:   m.ResponsibleID,
		ProductID:       m.ProductID,
		QuantityPlanned: m.QuantityPlanned,
		QuantityMade:    m.QuantityMade,
		QuantityLost:    m.QuantityLost,
		OpenDate:        m.OpenDate,
		CloseDate:       m.CloseDate,
		Materials:       make([]*workorder.ProductionMaterial, len(m.Materials)),
		Tests:           make([]*workorder.QualityTest, len(m.Tests)),
		Results:         make([]*workorder.QualityTestResult, len(m.Results)),
	}
	m.PopulateAggregateRoot(&o.BaseAggregateRoot)

	for i, mat := range m.Materials {
		o.Materials[i] = &workorder.ProductionMaterial{
			ID:         mat.ID,
			OrderID:    mat.OrderID,
			SellableID: mat.SellableID,
			Needed:     mat.Needed,
			Reserved:   mat.Reserved,
			Consumed:   mat.Consumed,
			Lost:       mat.Lost,
		}
	}
	for i, t := range m.Tests {
		o.Tests[i] = &workorder.QualityTest{
			ID:           t.ID,
			Description:  t.Description,
			Type:         t.Type,
			ExpectedBool: t.ExpectedBool,
			RangeMin:     t.RangeMin,
			RangeMax:     t.RangeMax,
		}
	}
	for i, r := range m.Results {
		o.Results[i] = &workorder.QualityTestResult{
			ID:       r.ID,
			TestID:   r.TestID,
			ItemSeq:  r.ItemSeq,
			Passed:   r.Passed,
			Recorded: r.Recorded,
		}
	}
	return o
}

// FromDomain populates the persistence model from a domain ProductionOrder
func (m *ProductionOrderModel) FromDomain(o *workorder.ProductionOrder) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.Identifier = o.Identifier
	m.Status = o.Status
	m.BranchID = o.BranchID
	m.ResponsibleID = o.ResponsibleID
	m.ProductID = o.ProductID
	m.QuantityPlanned = o.QuantityPlanned
	m.QuantityMade = o.QuantityMade
	m.QuantityLost = o.QuantityLost
	m.OpenDate = o.OpenDate
	m.CloseDate = o.CloseDate

	m.Materials = make([]ProductionMaterialModel, len(o.Materials))
	for i, mat := range o.Materials {
		m.Materials[i] = ProductionMaterialModel{
			ID:         mat.ID,
			OrderID:    mat.OrderID,
			SellableID: mat.SellableID,
			Needed:     mat.Needed,
			Reserved:   mat.Reserved,
			Consumed:   mat.Consumed,
			Lost:       mat.Lost,
		}
	}

	m.Tests = make([]QualityTestModel, len(o.Tests))
	for i, t := range o.Tests {
		m.Tests[i] = QualityTestModel{
			ID:           t.ID,
			OrderID:      o.ID,
			Description:  t.Description,
			Type:         t.Type,
			ExpectedBool: t.ExpectedBool,
			RangeMin:     t.RangeMin,
			RangeMax:     t.RangeMax,
		}
	}

	m.Results = make([]QualityTestResultModel, len(o.Results))
	for i, r := range o.Results {
		m.Results[i] = QualityTestResultModel{
			ID:       r.ID,
			OrderID:  o.ID,
			TestID:   r.TestID,
			ItemSeq:  r.ItemSeq,
			Passed:   r.Passed,
			Recorded: r.Recorded,
		}
	}
}
