package party

import (
	"time"

	"github.com/google/uuid"

	"github.com/retailcore/backend/internal/domain/shared"
)

// Event types published by the party aggregate
const (
	EventTypePersonCreated = "person.created"
	EventTypeFacetAttached = "person.facet_attached"
)

// PersonCreatedEvent is published when a new person is registered
type PersonCreatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewPersonCreatedEvent creates a PersonCreatedEvent
func NewPersonCreatedEvent(p *Person, now time.Time) *PersonCreatedEvent {
	return &PersonCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePersonCreated, "Person", p.ID, uuid.Nil, now),
		Name:            p.Name,
	}
}

// FacetAttachedEvent is published when a role facet is attached to a person
type FacetAttachedEvent struct {
	shared.BaseDomainEvent
	Facet FacetKind `json:"facet"`
}

// NewFacetAttachedEvent creates a FacetAttachedEvent
func NewFacetAttachedEvent(p *Person, kind FacetKind, now time.Time) *FacetAttachedEvent {
	return &FacetAttachedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeFacetAttached, "Person", p.ID, uuid.Nil, now),
		Facet:           kind,
	}
}
