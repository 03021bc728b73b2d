package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailcore/backend/internal/domain/payment"
)

// PaymentMethodModel is the persistence model for payment methods
type PaymentMethodModel struct {
	BaseModel
	Type            payment.MethodType `gorm:"type:varchar(20);not null;uniqueIndex"`
	Description     string             `gorm:"type:varchar(100);not null"`
	DailyPenaltyPct decimal.Decimal    `gorm:"type:decimal(8,4);not null"`
	MaxInstallments int                `gorm:"not null;default:1"`
}

// TableName returns the table name for GORM
func (PaymentMethodModel) TableName() string {
	return "payment_methods"
}

// ToDomain converts the persistence model to a domain PaymentMethod
func (m *PaymentMethodModel) ToDomain() *payment.PaymentMethod {
	return &payment.PaymentMethod{
		BaseEntity:      m.BaseModel.ToDomain(),
		Type:            m.Type,
		Description:     m.Description,
		DailyPenaltyPct: m.DailyPenaltyPct,
		MaxInstallments: m.MaxInstallments,
	}
}

// FromDomain populates the persistence model from a domain PaymentMethod
func (m *PaymentMethodModel) FromDomain(pm *payment.PaymentMethod) {
	m.FromDomainBaseEntity(pm.BaseEntity)
	m.Type = pm.Type
	m.Description = pm.Description
	m.DailyPenaltyPct = pm.DailyPenaltyPct
	m.MaxInstallments = pm.MaxInstallments
}

// PaymentGroupModel is the persistence model for the PaymentGroup
// aggregate root.
type PaymentGroupModel struct {
	AggregateModel
	SyncColumns
	Status          payment.GroupStatus `gorm:"type:varchar(20);not null;index"`
	PayerID         *uuid.UUID          `gorm:"type:uuid;index"`
	PayeeID         *uuid.UUID          `gorm:"type:uuid;index"`
	BranchID        uuid.UUID           `gorm:"type:uuid;not null;index"`
	DefaultMethodID *uuid.UUID          `gorm:"type:uuid"`
	Installments    int                 `gorm:"not null;default:1"`
	IntervalDays    int                 `gorm:"not null;default:30"`
	Payments        []PaymentModel      `gorm:"foreignKey:GroupID;references:ID"`
}

// TableName returns the table name for GORM
func (PaymentGroupModel) TableName() string {
	return "payment_groups"
}

// PaymentModel is the persistence model for a single payment
type PaymentModel struct {
	BaseModel
	Identifier    int64              `gorm:"not null;index"`
	GroupID       uuid.UUID          `gorm:"type:uuid;not null;index"`
	MethodID      uuid.UUID          `gorm:"type:uuid;not null"`
	MethodType    payment.MethodType `gorm:"type:varchar(20);not null;index"`
	PenaltyPct    decimal.Decimal    `gorm:"type:decimal(8,4);not null"`
	Direction     payment.Direction  `gorm:"type:varchar(10);not null;index"`
	Value         decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
	BaseValue     decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
	PaidValue     *decimal.Decimal   `gorm:"type:decimal(18,4)"`
	Discount      decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
	Interest      decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
	Penalty       decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
	DueDate       time.Time          `gorm:"not null;index"`
	PaidDate      *time.Time         `gorm:"index"`
	CancelDate    *time.Time
	Status        payment.Status `gorm:"type:varchar(20);not null;index"`
	Description   string         `gorm:"type:varchar(300)"`
	DestinationID *uuid.UUID     `gorm:"type:uuid"`
	RejectReason  string         `gorm:"type:varchar(300)"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain PaymentGroup
func (m *PaymentGroupModel) ToDomain() *payment.PaymentGroup {
	g := &payment.PaymentGroup{
		Status:          m.Status,
		PayerID:         m.PayerID,
		PayeeID:         m.PayeeID,
		BranchID:        m.BranchID,
		DefaultMethodID: m.DefaultMethodID,
		Installments:    m.Installments,
		IntervalDays:    m.IntervalDays,
		Payments:        make([]*payment.Payment, len(m.Payments)),
	}
	m.PopulateAggregateRoot(&g.BaseAggregateRoot)

	for i, pm := range m.Payments {
		g.Payments[i] = pm.ToDomain()
	}
	return g
}

// FromDomain populates the persistence model from a domain PaymentGroup
func (m *PaymentGroupModel) FromDomain(g *payment.PaymentGroup) {
	m.FromDomainAggregateRoot(g.BaseAggregateRoot)
	m.Status = g.Status
	m.PayerID = g.PayerID
	m.PayeeID = g.PayeeID
	m.BranchID = g.BranchID
	m.DefaultMethodID = g.DefaultMethodID
	m.Installments = g.Installments
	m.IntervalDays = g.IntervalDays

	m.Payments = make([]PaymentModel, len(g.Payments))
	for i, p := range g.Payments {
		m.Payments[i].FromDomain(p)
	}
}

// PaymentGroupModelFromDomain creates a new persistence model from a domain PaymentGroup
func PaymentGroupModelFromDomain(g *payment.PaymentGroup) *PaymentGroupModel {
	m := &PaymentGroupModel{}
	m.FromDomain(g)
	return m
}

// ToDomain converts the persistence model to a domain Payment
func (m *PaymentModel) ToDomain() *payment.Payment {
	return &payment.Payment{
		BaseEntity:    m.BaseModel.ToDomain(),
		Identifier:    m.Identifier,
		GroupID:       m.GroupID,
		MethodID:      m.MethodID,
		MethodType:    m.MethodType,
		PenaltyPct:    m.PenaltyPct,
		Direction:     m.Direction,
		Value:         m.Value,
		BaseValue:     m.BaseValue,
		PaidValue:     m.PaidValue,
		Discount:      m.Discount,
		Interest:      m.Interest,
		Penalty:       m.Penalty,
		DueDate:       m.DueDate,
		PaidDate:      m.PaidDate,
		CancelDate:    m.CancelDate,
		Status:        m.Status,
		Description:   m.Description,
		DestinationID: m.DestinationID,
		RejectReason:  m.RejectReason,
	}
}

// FromDomain populates the persistence model from a domain Payment
func (m *PaymentModel) FromDomain(p *payment.Payment) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.Identifier = p.Identifier
	m.GroupID = p.GroupID
	m.MethodID = p.MethodID
	m.MethodType = p.MethodType
	m.PenaltyPct = p.PenaltyPct
	m.Direction = p.Direction
	m.Value = p.Value
	m.BaseValue = p.BaseValue
	m.PaidValue = p.PaidValue
	m.Discount = p.Discount
	m.Interest = p.Interest
	m.Penalty = p.Penalty
	m.DueDate = p.DueDate
	m.PaidDate = p.PaidDate
	m.CancelDate = p.CancelDate
	m.Status = p.Status
	m.Description = p.Description
	m.DestinationID = p.DestinationID
	m.RejectReason = p.RejectReason
}

// TillModel is the persistence model for the Till aggregate root
type TillModel struct {
	AggregateModel
	StationID          uuid.UUID          `gorm:"type:uuid;not null;index"`
	BranchID           uuid.UUID          `gorm:"type:uuid;not null;index"`
	Status             payment.TillStatus `gorm:"type:varchar(20);not null;index"`
	InitialCash        decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
	FinalCash          decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
	ResponsibleOpenID  uuid.UUID          `gorm:"type:uuid;not null"`
	ResponsibleCloseID *uuid.UUID         `gorm:"type:uuid"`
	OpeningDate        time.Time          `gorm:"not null"`
	ClosingDate        *time.Time
	Observations       string           `gorm:"type:text"`
	Entries            []TillEntryModel `gorm:"foreignKey:TillID;references:ID"`
}

// TableName returns the table name for GORM
func (TillModel) TableName() string {
	return "tills"
}

// TillEntryModel is one cash movement inside a till session
type TillEntryModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	TillID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	PaymentID   *uuid.UUID      `gorm:"type:uuid"`
	Description string          `gorm:"type:varchar(300);not null"`
	Value       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (TillEntryModel) TableName() string {
	return "till_entries"
}

// ToDomain converts the persistence model to a domain Till
func (m *TillModel) ToDomain() *payment.Till {
	t := &payment.Till{
		StationID:          m.StationID,
		BranchID:           m.BranchID,
		Status:             m.Status,
		InitialCash:        m.InitialCash,
		FinalCash:          m.FinalCash,
		ResponsibleOpenID:  m.ResponsibleOpenID,
		ResponsibleCloseID: m.ResponsibleCloseID,
		OpeningDate:        m.OpeningDate,
		ClosingDate:        m.ClosingDate,
		Observations:       m.Observations,
		Entries:            make([]*payment.TillEntry, len(m.Entries)),
	}
	m.PopulateAggregateRoot(&t.BaseAggregateRoot)

	for i, em := range m.Entries {
		t.Entries[i] = &payment.TillEntry{
			ID:          em.ID,
			TillID:      em.TillID,
			PaymentID:   em.PaymentID,
			Description: em.Description,
			Value:       em.Value,
			CreatedAt:   em.CreatedAt,
		}
	}
	return t
}

// FromDomain populates the persistence model from a domain Till
func (m *TillModel) FromDomain(t *payment.Till) {
	m.FromDomainAggregateRoot(t.BaseAggregateRoot)
	m.StationID = t.StationID
	m.BranchID = t.BranchID
	m.Status = t.Status
	m.InitialCash = t.InitialCash
	m.FinalCash = t.FinalCash
	m.ResponsibleOpenID = t.ResponsibleOpenID
	m.ResponsibleCloseID = t.ResponsibleCloseID
	m.OpeningDate = t.OpeningDate
	m.ClosingDate = t.ClosingDate
	m.Observations = t.Observations

	m.Entries = make([]TillEntryModel, len(t.Entries))
	for i, e := range t.Entries {
		m.Entries[i] = TillEntryModel{
			ID:          e.ID,
			TillID:      e.TillID,
			PaymentID:   e.PaymentID,
			Description: e.Description,
			Value:       e.Value,
			CreatedAt:   e.CreatedAt,
		}
	}
}

// TillModelFromDomain creates a new persistence model from a domain Till
func TillModelFromDomain(t *payment.Till) *TillModel {
	m := &TillModel{}
	m.FromDomain(t)
	return m
}
