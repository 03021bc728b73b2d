package workorder

import (
	"context"

	"github.com/google/uuid"

	"github.com/retailcore/backend/internal/domain/shared"
)

// WorkOrderFilter narrows work order queries
type WorkOrderFilter struct {
	shared.Filter
	Status   *WorkOrderStatus
	BranchID *uuid.UUID
	ClientID *uuid.UUID
}

// WorkOrderRepository persists service orders with items and history
type WorkOrderRepository interface {
	Save(ctx context.Context, order *WorkOrder) error
	FindByID(ctx context.Context, id uuid.UUID) (*WorkOrder, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*WorkOrder, error)
	List(ctx context.Context, filter WorkOrderFilter) (*shared.Paginated[*WorkOrder], error)
	Update(ctx context.Context, order *WorkOrder) error
}

// ProductionOrderRepository persists production orders
type ProductionOrderRepository interface {
	Save(ctx context.Context, order *ProductionOrder) error
	FindByID(ctx context.Context, id uuid.UUID) (*ProductionOrder, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*ProductionOrder, error)
	List(ctx context.Context, filter shared.Filter) (*shared.Paginated[*ProductionOrder], error)
	Update(ctx context.Context, order *ProductionOrder) error
}
