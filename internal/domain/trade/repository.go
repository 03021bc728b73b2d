package trade

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/retailcore/backend/internal/domain/shared"
)

// SaleFilter narrows sale queries
type SaleFilter struct {
	shared.Filter
	Status   *SaleStatus
	BranchID *uuid.UUID
	ClientID *uuid.UUID
	From     *time.Time
	To       *time.Time
}

// SaleRepository persists sales and their items
type SaleRepository interface {
	Save(ctx context.Context, sale *Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)
	// FindByIDForUpdate loads the sale under a row lock so confirmation
	// and return serialize per sale.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Sale, error)
	FindByIdentifier(ctx context.Context, branchID uuid.UUID, identifier int64) (*Sale, error)
	List(ctx context.Context, filter SaleFilter) (*shared.Paginated[*Sale], error)
	Update(ctx context.Context, sale *Sale) error
}

// ReturnedSaleRepository persists sale returns
type ReturnedSaleRepository interface {
	Save(ctx context.Context, r *ReturnedSale) error
	FindByID(ctx context.Context, id uuid.UUID) (*ReturnedSale, error)
	FindBySale(ctx context.Context, saleID uuid.UUID) ([]*ReturnedSale, error)
}

// RenegotiationRepository persists renegotiations
type RenegotiationRepository interface {
	Save(ctx context.Context, r *RenegotiationData) error
	FindByID(ctx context.Context, id uuid.UUID) (*RenegotiationData, error)
}

// PurchaseOrderRepository persists purchase orders and their items
type PurchaseOrderRepository interface {
	Save(ctx context.Context, order *PurchaseOrder) error
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)
	List(ctx context.Context, filter shared.Filter) (*shared.Paginated[*PurchaseOrder], error)
	Update(ctx context.Context, order *PurchaseOrder) error
}

// ReceivingOrderRepository persists deliveries
type ReceivingOrderRepository interface {
	Save(ctx context.Context, order *ReceivingOrder) error
	FindByPurchase(ctx context.Context, purchaseID uuid.UUID) ([]*ReceivingOrder, error)
}
