package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PaymentFilter defines filtering options for payment queries
type PaymentFilter struct {
	Direction *Direction
	Status    *Status
	Method    *MethodType
	DueFrom   *time.Time
	DueTo     *time.Time
	GroupID   *uuid.UUID
}

// MethodRepository defines the interface for payment method persistence
type MethodRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PaymentMethod, error)
	FindByType(ctx context.Context, methodType MethodType) (*PaymentMethod, error)
	Save(ctx context.Context, method *PaymentMethod) error
}

// GroupRepository defines the interface for payment group persistence
type GroupRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PaymentGroup, error)
	// FindByIDForUpdate loads the group with its row locked; every payment
	// mutation happens under this lock
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*PaymentGroup, error)
	Save(ctx context.Context, group *PaymentGroup) error
}

// PaymentRepository defines read access to payments across groups
type PaymentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	FindAll(ctx context.Context, filter PaymentFilter) ([]*Payment, error)
	// FindForFlowHistory loads every payment outside preview and cancelled,
	// the input of the flow history aggregation
	FindForFlowHistory(ctx context.Context) ([]*Payment, error)
}

// TillRepository defines the interface for till persistence. Open and
// close run under an exclusive advisory lock on the station.
type TillRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Till, error)
	// FindOpenByStation returns the station's open till, or ErrNotFound
	FindOpenByStation(ctx context.Context, stationID uuid.UUID) (*Till, error)
	Save(ctx context.Context, till *Till) error
	// WithStationLock runs fn holding the station's advisory lock
	WithStationLock(ctx context.Context, stationID uuid.UUID, fn func(ctx context.Context) error) error
}
