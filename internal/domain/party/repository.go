package party

import (
	"context"

	"github.com/google/uuid"

	"github.com/retailcore/backend/internal/domain/shared"
)

// PersonFilter defines filtering options for person queries
type PersonFilter struct {
	shared.Filter
	Facet        *FacetKind
	ClientStatus *ClientStatus
}

// PersonRepository defines the interface for person persistence
type PersonRepository interface {
	// FindByID finds a person with all facets and addresses loaded
	FindByID(ctx context.Context, id uuid.UUID) (*Person, error)

	// FindAll finds persons matching the filter
	FindAll(ctx context.Context, filter PersonFilter) ([]Person, error)

	// FindByFacet finds persons carrying the given facet kind
	FindByFacet(ctx context.Context, kind FacetKind, filter PersonFilter) ([]Person, error)

	// Save creates or updates a person and its facet records
	Save(ctx context.Context, person *Person) error

	// Delete removes a person; facet and address rows cascade
	Delete(ctx context.Context, id uuid.UUID) error
}

// CityLocationRepository defines the interface for city location persistence
type CityLocationRepository interface {
	// FindByID finds a city location by ID
	FindByID(ctx context.Context, id uuid.UUID) (*CityLocation, error)

	// FindOrCreate resolves a location by its folded key, creating the row
	// when no equivalent location exists yet
	FindOrCreate(ctx context.Context, location *CityLocation) (*CityLocation, error)
}
