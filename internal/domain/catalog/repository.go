package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/retailcore/backend/internal/domain/shared"
)

// SellableFilter defines filtering options for sellable queries
type SellableFilter struct {
	shared.Filter
	Status     *SellableStatus
	Kind       *SellableKind
	CategoryID *uuid.UUID
}

// SellableRepository defines the interface for sellable persistence
type SellableRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Sellable, error)
	// FindByCode finds a sellable by its unique code
	FindByCode(ctx context.Context, code string) (*Sellable, error)
	FindAll(ctx context.Context, filter SellableFilter) ([]Sellable, error)
	Save(ctx context.Context, sellable *Sellable) error
}

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Category, error)
	Save(ctx context.Context, category *Category) error
}
