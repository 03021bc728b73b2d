package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/retailcore/backend/internal/domain/inventory"
	"github.com/retailcore/backend/internal/domain/shared"
)

// InventoryService maintains per-branch stock balances and the movement
// ledger behind them. Every mutation loads the storable, applies the
// movement and saves; a concurrent writer surfaces as a concurrency
// conflict and the operation is retried once on a fresh load.
type InventoryService struct {
	storableRepo inventory.StorableRepository
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(storableRepo inventory.StorableRepository) *InventoryService {
	return &InventoryService{storableRepo: storableRepo}
}

// GetStock retrieves the stock record of a sellable
func (s *InventoryService) GetStock(ctx context.Context, sellableID uuid.UUID) (*StorableResponse, error) {
	storable, err := s.storableRepo.FindBySellable(ctx, sellableID)
	if err != nil {
		return nil, err
	}
	response := ToStorableResponse(storable)
	return &response, nil
}

// GetLedger retrieves the movement ledger of a sellable
func (s *InventoryService) GetLedger(ctx context.Context, sellableID uuid.UUID) ([]StockTransactionResponse, error) {
	storable, err := s.storableRepo.FindBySellable(ctx, sellableID)
	if err != nil {
		return nil, err
	}
	return ToTransactionResponses(storable.Transactions), nil
}

// RegisterStock books received or opening quantity at the caller's branch
func (s *InventoryService) RegisterStock(ctx context.Context, rc shared.RunContext, sellableID uuid.UUID, req RegisterStockRequest) (*StorableResponse, error) {
	kind := inventory.StockTransactionReceived
	if req.Initial {
		kind = inventory.StockTransactionInitial
	}
	return s.mutate(ctx, sellableID, func(storable *inventory.Storable) error {
		return storable.IncreaseStock(req.Quantity, rc.BranchID, req.UnitCost, kind, rc.UserID, rc.Clock.Now())
	})
}

// AdjustStock corrects the balance at the caller's branch. The sign of
// the quantity picks the direction; both sides land in the ledger as
// manual adjustments.
func (s *InventoryService) AdjustStock(ctx context.Context, rc shared.RunContext, sellableID uuid.UUID, req AdjustStockRequest) (*StorableResponse, error) {
	if req.Quantity.IsZero() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Stock adjustment cannot be zero")
	}
	return s.mutate(ctx, sellableID, func(storable *inventory.Storable) error {
		now := rc.Clock.Now()
		if req.Quantity.IsPositive() {
			return storable.IncreaseStock(req.Quantity, rc.BranchID, req.UnitCost, inventory.StockTransactionManualAdjustment, rc.UserID, now)
		}
		return storable.DecreaseStock(req.Quantity.Neg(), rc.BranchID, inventory.StockTransactionManualAdjustment, rc.UserID, now)
	})
}

// TransferStock moves quantity between branches. Both legs hit the same
// aggregate, so the move commits atomically or not at all.
func (s *InventoryService) TransferStock(ctx context.Context, rc shared.RunContext, sellableID uuid.UUID, req TransferStockRequest) (*StorableResponse, error) {
	if req.FromBranchID == req.ToBranchID {
		return nil, shared.NewDomainError("INVALID_TRANSFER", "Transfer source and target branches must differ")
	}
	return s.mutate(ctx, sellableID, func(storable *inventory.Storable) error {
		now := rc.Clock.Now()
		if err := storable.DecreaseStock(req.Quantity, req.FromBranchID, inventory.StockTransactionTransferFrom, rc.UserID, now); err != nil {
			return err
		}
		cost := storable.CostFor(req.FromBranchID)
		return storable.IncreaseStock(req.Quantity, req.ToBranchID, &cost, inventory.StockTransactionTransferTo, rc.UserID, now)
	})
}

// mutate applies op to the storable of a sellable and saves, retrying
// once when a concurrent writer got there first.
func (s *InventoryService) mutate(ctx context.Context, sellableID uuid.UUID, op func(*inventory.Storable) error) (*StorableResponse, error) {
	response, err := s.mutateOnce(ctx, sellableID, op)
	if errors.Is(err, shared.ErrConcurrencyConflict) {
		response, err = s.mutateOnce(ctx, sellableID, op)
	}
	return response, err
}

func (s *InventoryService) mutateOnce(ctx context.Context, sellableID uuid.UUID, op func(*inventory.Storable) error) (*StorableResponse, error) {
	storable, err := s.storableRepo.FindBySellableForUpdate(ctx, sellableID)
	if err != nil {
		return nil, err
	}
	if err := op(storable); err != nil {
		return nil, err
	}
	if err := s.storableRepo.Save(ctx, storable); err != nil {
		return nil, err
	}
	response := ToStorableResponse(storable)
	return &response, nil
}
