package party

import (
	"context"

	"github.com/google/uuid"

	"github.com/retailcore/backend/internal/domain/party"
	"github.com/retailcore/backend/internal/domain/shared"
)

// PersonService manages the person registry: one record per real-world
// party, with role facets attached on top.
type PersonService struct {
	personRepo     party.PersonRepository
	locationRepo   party.CityLocationRepository
	eventPublisher shared.EventPublisher
}

// NewPersonService creates a new PersonService
func NewPersonService(personRepo party.PersonRepository, locationRepo party.CityLocationRepository) *PersonService {
	return &PersonService{
		personRepo:   personRepo,
		locationRepo: locationRepo,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *PersonService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CreatePerson registers a person with no facets
func (s *PersonService) CreatePerson(ctx context.Context, rc shared.RunContext, req CreatePersonRequest) (*PersonResponse, error) {
	person, err := party.NewPerson(req.Name, rc.Clock.Now())
	if err != nil {
		return nil, err
	}
	person.Phone = req.Phone
	person.MobilePhone = req.MobilePhone
	person.Email = req.Email
	person.Notes = req.Notes

	if err := s.personRepo.Save(ctx, person); err != nil {
		return nil, err
	}
	s.publish(ctx, person)

	response := ToPersonResponse(person)
	return &response, nil
}

// GetPerson retrieves a person with facets and addresses
func (s *PersonService) GetPerson(ctx context.Context, id uuid.UUID) (*PersonResponse, error) {
	person, err := s.personRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToPersonResponse(person)
	return &response, nil
}

// ListPersons lists persons matching the filter
func (s *PersonService) ListPersons(ctx context.Context, filter party.PersonFilter) ([]PersonResponse, error) {
	persons, err := s.personRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]PersonResponse, len(persons))
	for i := range persons {
		responses[i] = ToPersonResponse(&persons[i])
	}
	return responses, nil
}

// UpdatePerson updates the contact details of a person
func (s *PersonService) UpdatePerson(ctx context.Context, rc shared.RunContext, id uuid.UUID, req UpdatePersonRequest) (*PersonResponse, error) {
	person, err := s.personRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, shared.NewDomainError("INVALID_NAME", "Person name cannot be empty")
		}
		person.Name = *req.Name
	}
	if req.Phone != nil {
		person.Phone = *req.Phone
	}
	if req.MobilePhone != nil {
		person.MobilePhone = *req.MobilePhone
	}
	if req.Email != nil {
		person.Email = *req.Email
	}
	if req.Notes != nil {
		person.Notes = *req.Notes
	}
	person.Touch(rc.Clock.Now())

	if err := s.personRepo.Save(ctx, person); err != nil {
		return nil, err
	}

	response := ToPersonResponse(person)
	return &response, nil
}

// AttachFacet attaches a role facet to a person. Roles other than
// Individual and Company require an identity facet to exist first.
func (s *PersonService) AttachFacet(ctx context.Context, rc shared.RunContext, id uuid.UUID, req AttachFacetRequest) (*PersonResponse, error) {
	now := rc.Clock.Now()
	person, err := s.personRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	facet, err := buildFacet(req, now)
	if err != nil {
		return nil, err
	}
	if err := person.AttachFacet(facet, now); err != nil {
		return nil, err
	}

	if err := s.personRepo.Save(ctx, person); err != nil {
		return nil, err
	}
	s.publish(ctx, person)

	response := ToPersonResponse(person)
	return &response, nil
}

// RemoveFacet detaches a role facet from a person
func (s *PersonService) RemoveFacet(ctx context.Context, rc shared.RunContext, id uuid.UUID, kind party.FacetKind) (*PersonResponse, error) {
	person, err := s.personRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := person.RemoveFacet(kind, rc.Clock.Now()); err != nil {
		return nil, err
	}
	if err := s.personRepo.Save(ctx, person); err != nil {
		return nil, err
	}

	response := ToPersonResponse(person)
	return &response, nil
}

// SetClientStatus updates the standing of the person's client facet
func (s *PersonService) SetClientStatus(ctx context.Context, rc shared.RunContext, id uuid.UUID, req SetClientStatusRequest) (*PersonResponse, error) {
	person, err := s.personRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := person.SetClientStatus(party.ClientStatus(req.Status), rc.Clock.Now()); err != nil {
		return nil, err
	}
	if err := s.personRepo.Save(ctx, person); err != nil {
		return nil, err
	}

	response := ToPersonResponse(person)
	return &response, nil
}

// AddAddress attaches an address to a person, resolving the city
// location through its folded key so spelling variants share one row.
func (s *PersonService) AddAddress(ctx context.Context, rc shared.RunContext, id uuid.UUID, req AddAddressRequest) (*PersonResponse, error) {
	now := rc.Clock.Now()
	person, err := s.personRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	location, err := party.NewCityLocation(req.City, req.State, req.Country, now)
	if err != nil {
		return nil, err
	}
	location, err = s.locationRepo.FindOrCreate(ctx, location)
	if err != nil {
		return nil, err
	}

	address, err := party.NewAddress(location.ID, req.Street, req.Number, req.District, req.PostalCode, now)
	if err != nil {
		return nil, err
	}
	address.Complement = req.Complement
	person.AddAddress(address, req.Main, now)

	if err := s.personRepo.Save(ctx, person); err != nil {
		return nil, err
	}

	response := ToPersonResponse(person)
	return &response, nil
}

// DeletePerson removes a person and its facet and address records
func (s *PersonService) DeletePerson(ctx context.Context, id uuid.UUID) error {
	return s.personRepo.Delete(ctx, id)
}

func (s *PersonService) publish(ctx context.Context, person *party.Person) {
	if s.eventPublisher == nil {
		return
	}
	events := person.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	person.ClearDomainEvents()
}
