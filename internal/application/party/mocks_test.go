package party

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/retailcore/backend/internal/domain/party"
)

// MockPersonRepository is a mock implementation of party.PersonRepository
type MockPersonRepository struct {
	mock.Mock
}

func (m *MockPersonRepository) FindByID(ctx context.Context, id uuid.UUID) (*party.Person, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*party.Person), args.Error(1)
}

func (m *MockPersonRepository) FindAll(ctx context.Context, filter party.PersonFilter) ([]party.Person, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]party.Person), args.Error(1)
}

func (m *MockPersonRepository) FindByFacet(ctx context.Context, kind party.FacetKind, filter party.PersonFilter) ([]party.Person, error) {
	args := m.Called(ctx, kind, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]party.Person), args.Error(1)
}

func (m *MockPersonRepository) Save(ctx context.Context, person *party.Person) error {
	args := m.Called(ctx, person)
	return args.Error(0)
}

func (m *MockPersonRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCityLocationRepository is a mock implementation of party.CityLocationRepository
type MockCityLocationRepository struct {
	mock.Mock
}

func (m *MockCityLocationRepository) FindByID(ctx context.Context, id uuid.UUID) (*party.CityLocation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*party.CityLocation), args.Error(1)
}

func (m *MockCityLocationRepository) FindOrCreate(ctx context.Context, location *party.CityLocation) (*party.CityLocation, error) {
	args := m.Called(ctx, location)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*party.CityLocation), args.Error(1)
}
