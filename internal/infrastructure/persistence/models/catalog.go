package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailcore/backend/internal/domain/catalog"
)

// SellableModel is the persistence model for the Sellable aggregate root.
type SellableModel struct {
	AggregateModel
	SyncColumns
	Code        string                 `gorm:"type:varchar(50);not null;uniqueIndex"`
	Description string                 `gorm:"type:varchar(300);not null"`
	Kind        catalog.SellableKind   `gorm:"type:varchar(20);not null"`
	Status      catalog.SellableStatus `gorm:"type:varchar(20);not null;index"`
	BasePrice   decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	Cost        decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	Unit        string                 `gorm:"type:varchar(20)"`
	TaxConstant string                 `gorm:"type:varchar(20)"`
	CategoryID  *uuid.UUID             `gorm:"type:uuid;index"`
	Commission  *decimal.Decimal       `gorm:"type:decimal(8,4)"`
	OnSalePrice decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	OnSaleStart *time.Time
	OnSaleEnd   *time.Time
}

// TableName returns the table name for GORM
func (SellableModel) TableName() string {
	return "sellables"
}

// ToDomain converts the persistence model to a domain Sellable
func (m *SellableModel) ToDomain() *catalog.Sellable {
	s := &catalog.Sellable{
		Code:        m.Code,
		Description: m.Description,
		Kind:        m.Kind,
		Status:      m.Status,
		BasePrice:   m.BasePrice,
		Cost:        m.Cost,
		Unit:        m.Unit,
		TaxConstant: m.TaxConstant,
		CategoryID:  m.CategoryID,
		Commission:  m.Commission,
		OnSalePrice: m.OnSalePrice,
		OnSaleStart: m.OnSaleStart,
		OnSaleEnd:   m.OnSaleEnd,
	}
	m.PopulateAggregateRoot(&s.BaseAggregateRoot)
	return s
}

// FromDomain populates the persistence model from a domain Sellable
func (m *SellableModel) FromDomain(s *catalog.Sellable) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.Code = s.Code
	m.Description = s.Description
	m.Kind = s.Kind
	m.Status = s.Status
	m.BasePrice = s.BasePrice
	m.Cost = s.Cost
	m.Unit = s.Unit
	m.TaxConstant = s.TaxConstant
	m.CategoryID = s.CategoryID
	m.Commission = s.Commission
	m.OnSalePrice = s.OnSalePrice
	m.OnSaleStart = s.OnSaleStart
	m.OnSaleEnd = s.OnSaleEnd
}

// SellableModelFromDomain creates a new persistence model from a domain Sellable
func SellableModelFromDomain(s *catalog.Sellable) *SellableModel {
	m := &SellableModel{}
	m.FromDomain(s)
	return m
}

// CategoryModel is the persistence model for sellable categories
type CategoryModel struct {
	BaseModel
	Name                string          `gorm:"type:varchar(150);not null"`
	BaseCategoryID      *uuid.UUID      `gorm:"type:uuid;index"`
	SuggestedMarkup     decimal.Decimal `gorm:"type:decimal(8,4);not null"`
	SuggestedCommission decimal.Decimal `gorm:"type:decimal(8,4);not null"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "sellable_categories"
}

// ToDomain converts the persistence model to a domain Category
func (m *CategoryModel) ToDomain() *catalog.Category {
	return &catalog.Category{
		BaseEntity:          m.BaseModel.ToDomain(),
		Name:                m.Name,
		BaseCategoryID:      m.BaseCategoryID,
		SuggestedMarkup:     m.SuggestedMarkup,
		SuggestedCommission: m.SuggestedCommission,
	}
}

// FromDomain populates the persistence model from a domain Category
func (m *CategoryModel) FromDomain(c *catalog.Category) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.Name = c.Name
	m.BaseCategoryID = c.BaseCategoryID
	m.SuggestedMarkup = c.SuggestedMarkup
	m.SuggestedCommission = c.SuggestedCommission
}
