package party

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailcore/backend/internal/domain/party"
	"github.com/retailcore/backend/internal/domain/shared"
)

// CreatePersonRequest creates a person with no facets
type CreatePersonRequest struct {
	Name        string `json:"name" binding:"required"`
	Phone       string `json:"phone"`
	MobilePhone string `json:"mobile_phone"`
	Email       string `json:"email" binding:"omitempty,email"`
	Notes       string `json:"notes"`
}

// UpdatePersonRequest updates the contact details of a person
type UpdatePersonRequest struct {
	Name        *string `json:"name"`
	Phone       *string `json:"phone"`
	MobilePhone *string `json:"mobile_phone"`
	Email       *string `json:"email" binding:"omitempty,email"`
	Notes       *string `json:"notes"`
}

// AttachFacetRequest attaches one role facet. The payload matching the
// kind must be present; the others are ignored.
type AttachFacetRequest struct {
	Kind           string                `json:"kind" binding:"required"`
	Individual     *IndividualPayload    `json:"individual,omitempty"`
	Company        *CompanyPayload       `json:"company,omitempty"`
	Client         *ClientPayload        `json:"client,omitempty"`
	Supplier       *SupplierPayload      `json:"supplier,omitempty"`
	Employee       *EmployeePayload      `json:"employee,omitempty"`
	SalesPerson    *SalesPersonPayload   `json:"sales_person,omitempty"`
	LoginUser      *LoginUserPayload     `json:"login_user,omitempty"`
	Branch         *BranchPayload        `json:"branch,omitempty"`
	CreditProvider *CreditProviderPayload `json:"credit_provider,omitempty"`
	Transporter    *TransporterPayload   `json:"transporter,omitempty"`
	BankBranch     *BankBranchPayload    `json:"bank_branch,omitempty"`
}

// IndividualPayload carries the natural-person identity facet
type IndividualPayload struct {
	CPF       string     `json:"cpf" binding:"required"`
	RG        string     `json:"rg"`
	BirthDate *time.Time `json:"birth_date"`
}

// CompanyPayload carries the legal-entity identity facet
type CompanyPayload struct {
	CNPJ              string `json:"cnpj" binding:"required"`
	FancyName         string `json:"fancy_name"`
	StateRegistration string `json:"state_registration"`
}

// ClientPayload carries the client role facet
type ClientPayload struct {
	CreditLimit decimal.Decimal `json:"credit_limit"`
}

// SupplierPayload carries the supplier role facet
type SupplierPayload struct {
	ProductDescription string `json:"product_description"`
}

// EmployeePayload carries the employee role facet
type EmployeePayload struct {
	Role       string          `json:"role" binding:"required"`
	Salary     decimal.Decimal `json:"salary"`
	Registry   string          `json:"registry"`
	AdmittedAt time.Time       `json:"admitted_at"`
}

// SalesPersonPayload carries the salesperson role facet
type SalesPersonPayload struct {
	CommissionPct decimal.Decimal `json:"commission_pct"`
}

// LoginUserPayload carries the login user role facet
type LoginUserPayload struct {
	Username string `json:"username" binding:"required"`
}

// BranchPayload carries the branch role facet
type BranchPayload struct {
	Acronym string `json:"acronym" binding:"required"`
	Active  bool   `json:"active"`
}

// CreditProviderPayload carries the credit provider role facet
type CreditProviderPayload struct {
	ProviderType string          `json:"provider_type"`
	MonthlyFee   decimal.Decimal `json:"monthly_fee"`
}

// TransporterPayload carries the transporter role facet
type TransporterPayload struct {
	FreightPct decimal.Decimal `json:"freight_pct"`
}

// BankBranchPayload carries the bank branch role facet
type BankBranchPayload struct {
	BankNumber string `json:"bank_number" binding:"required"`
	Agency     string `json:"agency" binding:"required"`
}

// buildFacet materializes the domain facet named by the request kind
func buildFacet(req AttachFacetRequest, now time.Time) (party.Facet, error) {
	kind := party.FacetKind(req.Kind)
	switch kind {
	case party.FacetIndividual:
		if req.Individual == nil {
			return nil, missingPayload(kind)
		}
		return party.Individual{CPF: req.Individual.CPF, RG: req.Individual.RG, BirthDate: req.Individual.BirthDate}, nil
	case party.FacetCompany:
		if req.Company == nil {
			return nil, missingPayload(kind)
		}
		return party.Company{CNPJ: req.Company.CNPJ, FancyName: req.Company.FancyName, StateRegistration: req.Company.StateRegistration}, nil
	case party.FacetClient:
		if req.Client == nil {
			return nil, missingPayload(kind)
		}
		return party.Client{Status: party.ClientStatusSolvent, CreditLimit: req.Client.CreditLimit, Since: now}, nil
	case party.FacetSupplier:
		if req.Supplier == nil {
			return nil, missingPayload(kind)
		}
		return party.Supplier{ProductDescription: req.Supplier.ProductDescription}, nil
	case party.FacetEmployee:
		if req.Employee == nil {
			return nil, missingPayload(kind)
		}
		admitted := req.Employee.AdmittedAt
		if admitted.IsZero() {
			admitted = now
		}
		return party.Employee{
			Role:       req.Employee.Role,
			Salary:     req.Employee.Salary,
			Registry:   req.Employee.Registry,
			AdmittedAt: admitted,
			History: []party.EmployeeHistoryEntry{
				{Role: req.Employee.Role, Salary: req.Employee.Salary, StartedAt: admitted},
			},
		}, nil
	case party.FacetSalesPerson:
		if req.SalesPerson == nil {
			return nil, missingPayload(kind)
		}
		return party.SalesPerson{CommissionPct: req.SalesPerson.CommissionPct}, nil
	case party.FacetLoginUser:
		if req.LoginUser == nil {
			return nil, missingPayload(kind)
		}
		return party.LoginUser{Username: req.LoginUser.Username}, nil
	case party.FacetBranch:
		if req.Branch == nil {
			return nil, missingPayload(kind)
		}
		return party.Branch{Acronym: req.Branch.Acronym, Active: req.Branch.Active}, nil
	case party.FacetCreditProvider:
		if req.CreditProvider == nil {
			return nil, missingPayload(kind)
		}
		return party.CreditProvider{ProviderType: req.CreditProvider.ProviderType, MonthlyFee: req.CreditProvider.MonthlyFee}, nil
	case party.FacetTransporter:
		if req.Transporter == nil {
			return nil, missingPayload(kind)
		}
		return party.Transporter{FreightPct: req.Transporter.FreightPct}, nil
	case party.FacetBankBranch:
		if req.BankBranch == nil {
			return nil, missingPayload(kind)
		}
		return party.BankBranch{BankNumber: req.BankBranch.BankNumber, Agency: req.BankBranch.Agency}, nil
	default:
		return nil, shared.NewDomainError("INVALID_FACET", "Unknown facet kind "+req.Kind)
	}
}

func missingPayload(kind party.FacetKind) error {
	return shared.NewDomainError("INVALID_FACET", "Missing payload for facet "+kind.String())
}

// AddAddressRequest attaches an address; the city location is resolved
// or created from the folded (city, state, country) key.
type AddAddressRequest struct {
	Street     string `json:"street" binding:"required"`
	Number     string `json:"number"`
	Complement string `json:"complement"`
	District   string `json:"district"`
	PostalCode string `json:"postal_code"`
	City       string `json:"city" binding:"required"`
	State      string `json:"state" binding:"required"`
	Country    string `json:"country" binding:"required"`
	Main       bool   `json:"main"`
}

// SetClientStatusRequest updates the standing of the client facet
type SetClientStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// AddressResponse is the external view of an address
type AddressResponse struct {
	ID         uuid.UUID `json:"id"`
	Street     string    `json:"street"`
	Number     string    `json:"number"`
	Complement string    `json:"complement,omitempty"`
	District   string    `json:"district"`
	PostalCode string    `json:"postal_code"`
	IsMain     bool      `json:"is_main"`
}

// PersonResponse is the external view of a person
type PersonResponse struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	Phone       string            `json:"phone,omitempty"`
	MobilePhone string            `json:"mobile_phone,omitempty"`
	Email       string            `json:"email,omitempty"`
	Notes       string            `json:"notes,omitempty"`
	Facets      []string          `json:"facets"`
	Addresses   []AddressResponse `json:"addresses"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// ToPersonResponse maps a person to its external view
func ToPersonResponse(p *party.Person) PersonResponse {
	facets := make([]string, 0, len(p.Facets))
	for kind := range p.Facets {
		facets = append(facets, kind.String())
	}
	sort.Strings(facets)

	addresses := make([]AddressResponse, 0, len(p.Addresses))
	for _, a := range p.Addresses {
		addresses = append(addresses, AddressResponse{
			ID:         a.ID,
			Street:     a.Street,
			Number:     a.Number,
			Complement: a.Complement,
			District:   a.District,
			PostalCode: a.PostalCode,
			IsMain:     a.IsMain,
		})
	}

	return PersonResponse{
		ID:          p.ID,
		Name:        p.Name,
		Phone:       p.Phone,
		MobilePhone: p.MobilePhone,
		Email:       p.Email,
		Notes:       p.Notes,
		Facets:      facets,
		Addresses:   addresses,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
