package inventory

import (
	"context"

	"github.com/google/uuid"
)

// StorableRepository defines the interface for storable persistence.
// Implementations must serialize mutations per (storable, branch) cell;
// the gorm implementation locks the stock item rows.
type StorableRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Storable, error)
	// FindBySellable finds the storable facet of a sellable
	FindBySellable(ctx context.Context, sellableID uuid.UUID) (*Storable, error)
	// FindBySellableForUpdate loads the storable with its stock item rows
	// locked for the duration of the surrounding transaction
	FindBySellableForUpdate(ctx context.Context, sellableID uuid.UUID) (*Storable, error)
	Save(ctx context.Context, storable *Storable) error
}
