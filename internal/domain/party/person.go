package party

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/retailcore/backend/internal/domain/shared"
)

// FacetKind identifies a role facet attached to a Person.
type FacetKind string

const (
	FacetIndividual     FacetKind = "INDIVIDUAL"
	FacetCompany        FacetKind = "COMPANY"
	FacetClient         FacetKind = "CLIENT"
	FacetSupplier       FacetKind = "SUPPLIER"
	FacetEmployee       FacetKind = "EMPLOYEE"
	FacetSalesPerson    FacetKind = "SALES_PERSON"
	FacetLoginUser      FacetKind = "LOGIN_USER"
	FacetBranch         FacetKind = "BRANCH"
	FacetCreditProvider FacetKind = "CREDIT_PROVIDER"
	FacetTransporter    FacetKind = "TRANSPORTER"
	FacetBankBranch     FacetKind = "BANK_BRANCH"
)

// IsValid checks if the facet kind is known
func (k FacetKind) IsValid() bool {
	switch k {
	case FacetIndividual, FacetCompany, FacetClient, FacetSupplier,
		FacetEmployee, FacetSalesPerson, FacetLoginUser, FacetBranch,
		FacetCreditProvider, FacetTransporter, FacetBankBranch:
		return true
	}
	return false
}

// String returns the string representation of the facet kind
func (k FacetKind) String() string {
	return string(k)
}

// isIdentityFacet reports whether the kind establishes the person's legal
// identity. One of these must exist before any other facet is attached.
func (k FacetKind) isIdentityFacet() bool {
	return k == FacetIndividual || k == FacetCompany
}

// Facet is a role-specific record attached to a Person.
type Facet interface {
	Kind() FacetKind
}

// ClientStatus represents the standing of a client
type ClientStatus string

const (
	ClientStatusSolvent   ClientStatus = "SOLVENT"
	ClientStatusIndebted  ClientStatus = "INDEBTED"
	ClientStatusInsolvent ClientStatus = "INSOLVENT"
	ClientStatusInactive  ClientStatus = "INACTIVE"
)

// IsValid checks if the status is a valid ClientStatus
func (s ClientStatus) IsValid() bool {
	switch s {
	case ClientStatusSolvent, ClientStatusIndebted, ClientStatusInsolvent, ClientStatusInactive:
		return true
	}
	return false
}

// String returns the string representation of ClientStatus
func (s ClientStatus) String() string {
	return string(s)
}

// Individual is the natural-person identity facet.
type Individual struct {
	CPF       string
	RG        string
	BirthDate *time.Time
}

func (Individual) Kind() FacetKind { return FacetIndividual }

// Company is the legal-entity identity facet.
type Company struct {
	CNPJ              string
	FancyName         string
	StateRegistration string
}

func (Company) Kind() FacetKind { return FacetCompany }

// Client marks a person that can appear as the counterparty of a sale.
type Client struct {
	Status      ClientStatus
	CreditLimit decimal.Decimal
	Since       time.Time
}

func (Client) Kind() FacetKind { return FacetClient }

// Supplier marks a person goods can be purchased from.
type Supplier struct {
	ProductDescription string
}

func (Supplier) Kind() FacetKind { return FacetSupplier }

// EmployeeHistoryEntry records a role or salary change.
type EmployeeHistoryEntry struct {
	Role      string
	Salary    decimal.Decimal
	StartedAt time.Time
}

// Employee marks a person employed by the enterprise.
type Employee struct {
	Role       string
	Salary     decimal.Decimal
	Registry   string
	AdmittedAt time.Time
	History    []EmployeeHistoryEntry
}

func (Employee) Kind() FacetKind { return FacetEmployee }

// SalesPerson marks an employee that earns commission on sales.
type SalesPerson struct {
	CommissionPct decimal.Decimal
}

func (SalesPerson) Kind() FacetKind { return FacetSalesPerson }

// LoginUser marks a person that can authenticate against the system.
type LoginUser struct {
	Username string
}

func (LoginUser) Kind() FacetKind { return FacetLoginUser }

// Branch marks a person as a legally-registered location that issues
// fiscal documents and holds inventory.
type Branch struct {
	Acronym string
	Active  bool
}

func (Branch) Kind() FacetKind { return FacetBranch }

// CreditProvider marks a person providing card or store credit.
type CreditProvider struct {
	ProviderType string
	MonthlyFee   decimal.Decimal
}

func (CreditProvider) Kind() FacetKind { return FacetCreditProvider }

// Transporter marks a person delivering goods.
type Transporter struct {
	FreightPct decimal.Decimal
}

func (Transporter) Kind() FacetKind { return FacetTransporter }

// BankBranch identifies a bank agency for check payments.
type BankBranch struct {
	BankNumber string
	Agency     string
}

func (BankBranch) Kind() FacetKind { return FacetBankBranch }

// Person is a single identity with independent role facets. A person must
// carry an Individual or Company facet before any other role can be
// attached.
type Person struct {
	shared.BaseAggregateRoot
	Name        string
	Phone       string
	MobilePhone string
	Email       string
	Notes       string
	Facets      map[FacetKind]Facet
	Addresses   []*Address
}

// NewPerson creates a new person with no facets
func NewPerson(name string, now time.Time) (*Person, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Person name cannot be empty")
	}
	p := &Person{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(now),
		Name:              name,
		Facets:            make(map[FacetKind]Facet),
	}
	p.AddDomainEvent(NewPersonCreatedEvent(p, now))
	return p, nil
}

// HasFacet reports whether the person carries the given facet
func (p *Person) HasFacet(kind FacetKind) bool {
	_, ok := p.Facets[kind]
	return ok
}

// Facet returns the facet of the given kind, or an error when absent.
// Operations that require a facet state this precondition explicitly.
func (p *Person) Facet(kind FacetKind) (Facet, error) {
	f, ok := p.Facets[kind]
	if !ok {
		return nil, shared.NewInvariantViolation("MISSING_FACET",
			fmt.Sprintf("person %s has no %s facet", p.ID, kind))
	}
	return f, nil
}

// AttachFacet attaches a role facet. An identity facet (Individual or
// Company) must exist first; attaching a facet kind twice is rejected.
func (p *Person) AttachFacet(f Facet, now time.Time) error {
	kind := f.Kind()
	if !kind.IsValid() {
		return shared.NewDomainError("INVALID_FACET", fmt.Sprintf("unknown facet kind %q", kind))
	}
	if p.HasFacet(kind) {
		return shared.ErrAlreadyExists
	}
	if !kind.isIdentityFacet() && !p.HasFacet(FacetIndividual) && !p.HasFacet(FacetCompany) {
		return shared.NewInvariantViolation("IDENTITY_FACET_REQUIRED",
			"person needs an Individual or Company facet before other roles")
	}
	p.Facets[kind] = f
	p.Touch(now)
	p.AddDomainEvent(NewFacetAttachedEvent(p, kind, now))
	return nil
}

// RemoveFacet detaches a role facet. Identity facets cannot be removed
// while dependent role facets remain.
func (p *Person) RemoveFacet(kind FacetKind, now time.Time) error {
	if !p.HasFacet(kind) {
		return shared.ErrNotFound
	}
	if kind.isIdentityFacet() && len(p.Facets) > 1 {
		other := p.HasFacet(FacetIndividual) && p.HasFacet(FacetCompany)
		if !other {
			return shared.NewInvariantViolation("IDENTITY_FACET_REQUIRED",
				"cannot remove the last identity facet while role facets remain")
		}
	}
	delete(p.Facets, kind)
	p.Touch(now)
	return nil
}

// Client returns the client facet, or an error when absent
func (p *Person) Client() (*Client, error) {
	f, err := p.Facet(FacetClient)
	if err != nil {
		return nil, err
	}
	c := f.(Client)
	return &c, nil
}

// SetClientStatus updates the standing of the client facet
func (p *Person) SetClientStatus(status ClientStatus, now time.Time) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_CLIENT_STATUS", fmt.Sprintf("unknown client status %q", status))
	}
	f, err := p.Facet(FacetClient)
	if err != nil {
		return err
	}
	c := f.(Client)
	c.Status = status
	p.Facets[FacetClient] = c
	p.Touch(now)
	return nil
}

// AddAddress attaches an address. When main is requested, any previous
// main address is demoted so at most one main address exists.
func (p *Person) AddAddress(addr *Address, main bool, now time.Time) {
	if main {
		for _, a := range p.Addresses {
			a.IsMain = false
		}
		addr.IsMain = true
	}
	addr.PersonID = p.ID
	p.Addresses = append(p.Addresses, addr)
	p.Touch(now)
}

// MainAddress returns the main address, or nil when the person has none
func (p *Person) MainAddress() *Address {
	for _, a := range p.Addresses {
		if a.IsMain {
			return a
		}
	}
	return nil
}
