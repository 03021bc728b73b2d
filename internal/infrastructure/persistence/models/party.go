package models

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/retailcore/backend/internal/domain/party"
)

// PersonModel is the persistence model for the Person aggregate root.
// Role facets live in their own rows with a jsonb payload, one row per
// facet kind.
type PersonModel struct {
	AggregateModel
	SyncColumns
	Name        string             `gorm:"type:varchar(200);not null;index"`
	Phone       string             `gorm:"type:varchar(30)"`
	MobilePhone string             `gorm:"type:varchar(30)"`
	Email       string             `gorm:"type:varchar(200);index"`
	Notes       string             `gorm:"type:text"`
	Facets      []PersonFacetModel `gorm:"foreignKey:PersonID;references:ID"`
	Addresses   []AddressModel     `gorm:"foreignKey:PersonID;references:ID"`
}

// TableName returns the table name for GORM
func (PersonModel) TableName() string {
	return "persons"
}

// PersonFacetModel is one role facet row attached to a person
type PersonFacetModel struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key"`
	PersonID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_person_facet,priority:1"`
	Kind     string    `gorm:"type:varchar(30);not null;uniqueIndex:idx_person_facet,priority:2"`
	Payload  string    `gorm:"type:jsonb;not null;default:'{}'"`
}

// TableName returns the table name for GORM
func (PersonFacetModel) TableName() string {
	return "person_facets"
}

// AddressModel is the persistence model for a person's address
type AddressModel struct {
	BaseModel
	PersonID       uuid.UUID `gorm:"type:uuid;not null;index"`
	CityLocationID uuid.UUID `gorm:"type:uuid;not null"`
	Street         string    `gorm:"type:varchar(200);not null"`
	Number         string    `gorm:"type:varchar(20)"`
	Complement     string    `gorm:"type:varchar(100)"`
	District       string    `gorm:"type:varchar(100)"`
	PostalCode     string    `gorm:"type:varchar(20)"`
	IsMain         bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (AddressModel) TableName() string {
	return "addresses"
}

// CityLocationModel is the persistence model for the shared city registry
type CityLocationModel struct {
	BaseModel
	City    string `gorm:"type:varchar(100);not null;uniqueIndex:idx_city_location,priority:1"`
	State   string `gorm:"type:varchar(100);not null;uniqueIndex:idx_city_location,priority:2"`
	Country string `gorm:"type:varchar(100);not null;uniqueIndex:idx_city_location,priority:3"`
}

// TableName returns the table name for GORM
func (CityLocationModel) TableName() string {
	return "city_locations"
}

// ToDomain converts the persistence model to a domain Person
func (m *PersonModel) ToDomain() (*party.Person, error) {
	p := &party.Person{
		Name:        m.Name,
		Phone:       m.Phone,
		MobilePhone: m.MobilePhone,
		Email:       m.Email,
		Notes:       m.Notes,
		Facets:      make(map[party.FacetKind]party.Facet, len(m.Facets)),
		Addresses:   make([]*party.Address, len(m.Addresses)),
	}
	m.PopulateAggregateRoot(&p.BaseAggregateRoot)

	for _, fm := range m.Facets {
		facet, err := unmarshalFacet(party.FacetKind(fm.Kind), fm.Payload)
		if err != nil {
			return nil, err
		}
		p.Facets[facet.Kind()] = facet
	}
	for i, am := range m.Addresses {
		p.Addresses[i] = am.ToDomain()
	}
	return p, nil
}

// FromDomain populates the persistence model from a domain Person
func (m *PersonModel) FromDomain(p *party.Person) error {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.Name = p.Name
	m.Phone = p.Phone
	m.MobilePhone = p.MobilePhone
	m.Email = p.Email
	m.Notes = p.Notes

	m.Facets = make([]PersonFacetModel, 0, len(p.Facets))
	for kind, facet := range p.Facets {
		payload, err := json.Marshal(facet)
		if err != nil {
			return fmt.Errorf("marshaling %s facet: %w", kind, err)
		}
		m.Facets = append(m.Facets, PersonFacetModel{
			ID:       uuid.New(),
			PersonID: p.ID,
			Kind:     kind.String(),
			Payload:  string(payload),
		})
	}

	m.Addresses = make([]AddressModel, len(p.Addresses))
	for i, addr := range p.Addresses {
		m.Addresses[i].FromDomain(addr)
	}
	return nil
}

// PersonModelFromDomain creates a new persistence model from a domain Person
func PersonModelFromDomain(p *party.Person) (*PersonModel, error) {
	m := &PersonModel{}
	if err := m.FromDomain(p); err != nil {
		return nil, err
	}
	return m, nil
}

func unmarshalFacet(kind party.FacetKind, payload string) (party.Facet, error) {
	var (
		facet party.Facet
		err   error
	)
	switch kind {
	case party.FacetIndividual:
		var f party.Individual
		err = json.Unmarshal([]byte(payload), &f)
		facet = f
	case party.FacetCompany:
		var f party.Company
		err = json.Unmarshal([]byte(payload), &f)
		facet = f
	case party.FacetClient:
		var f party.Client
		err = json.Unmarshal([]byte(payload), &f)
		facet = f
	case party.FacetSupplier:
		var f party.Supplier
		err = json.Unmarshal([]byte(payload), &f)
		facet = f
	case party.FacetEmployee:
		var f party.Employee
		err = json.Unmarshal([]byte(payload), &f)
		facet = f
	case party.FacetSalesPerson:
		var f party.SalesPerson
		err = json.Unmarshal([]byte(payload), &f)
		facet = f
	case party.FacetLoginUser:
		var f party.LoginUser
		err = json.Unmarshal([]byte(payload), &f)
		facet = f
	case party.FacetBranch:
		var f party.Branch
		err = json.Unmarshal([]byte(payload), &f)
		facet = f
	case party.FacetCreditProvider:
		var f party.CreditProvider
		err = json.Unmarshal([]byte(payload), &f)
		facet = f
	case party.FacetTransporter:
		var f party.Transporter
		err = json.Unmarshal([]byte(payload), &f)
		facet = f
	case party.FacetBankBranch:
		var f party.BankBranch
		err = json.Unmarshal([]byte(payload), &f)
		facet = f
	default:
		return nil, fmt.Errorf("unknown facet kind %q", kind)
	}
	if err != nil {
		return nil, fmt.Errorf("unmarshaling %s facet: %w", kind, err)
	}
	return facet, nil
}

// ToDomain converts the persistence model to a domain Address
func (m *AddressModel) ToDomain() *party.Address {
	return &party.Address{
		BaseEntity:     m.BaseModel.ToDomain(),
		PersonID:       m.PersonID,
		CityLocationID: m.CityLocationID,
		Street:         m.Street,
		Number:         m.Number,
		Complement:     m.Complement,
		District:       m.District,
		PostalCode:     m.PostalCode,
		IsMain:         m.IsMain,
	}
}

// FromDomain populates the persistence model from a domain Address
func (m *AddressModel) FromDomain(a *party.Address) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.PersonID = a.PersonID
	m.CityLocationID = a.CityLocationID
	m.Street = a.Street
	m.Number = a.Number
	m.Complement = a.Complement
	m.District = a.District
	m.PostalCode = a.PostalCode
	m.IsMain = a.IsMain
}

// ToDomain converts the persistence model to a domain CityLocation
func (m *CityLocationModel) ToDomain() *party.CityLocation {
	return &party.CityLocation{
		BaseEntity: m.BaseModel.ToDomain(),
		City:       m.City,
		State:      m.State,
		Country:    m.Country,
	}
}

// FromDomain populates the persistence model from a domain CityLocation
func (m *CityLocationModel) FromDomain(c *party.CityLocation) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.City = c.City
	m.State = c.State
	m.Country = c.Country
}
