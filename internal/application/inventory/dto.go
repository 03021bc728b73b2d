package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailcore/backend/internal/domain/inventory"
)

// RegisterStockRequest books an opening or received quantity at a branch
type RegisterStockRequest struct {
	Quantity decimal.Decimal  `json:"quantity"`
	UnitCost *decimal.Decimal `json:"unit_cost"`
	Initial  bool             `json:"initial"`
}

// AdjustStockRequest corrects the on-hand balance at a branch. Quantity
// is signed: positive adds, negative removes.
type AdjustStockRequest struct {
	Quantity decimal.Decimal  `json:"quantity"`
	UnitCost *decimal.Decimal `json:"unit_cost"`
	Reason   string           `json:"reason"`
}

// TransferStockRequest moves quantity between two branches
type TransferStockRequest struct {
	FromBranchID uuid.UUID       `json:"from_branch_id" binding:"required"`
	ToBranchID   uuid.UUID       `json:"to_branch_id" binding:"required"`
	Quantity     decimal.Decimal `json:"quantity"`
}

// StockItemResponse is the on-hand balance of one branch
type StockItemResponse struct {
	BranchID      uuid.UUID       `json:"branch_id"`
	Quantity      decimal.Decimal `json:"quantity"`
	LogicQuantity decimal.Decimal `json:"logic_quantity"`
	StockCost     decimal.Decimal `json:"stock_cost"`
}

// StockTransactionResponse is one ledger line
type StockTransactionResponse struct {
	ID            uuid.UUID       `json:"id"`
	BranchID      uuid.UUID       `json:"branch_id"`
	Kind          string          `json:"kind"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	ResponsibleID uuid.UUID       `json:"responsible_id"`
	CreatedAt     time.Time       `json:"created_at"`
}

// StorableResponse is the external view of a stock record
type StorableResponse struct {
	ID         uuid.UUID           `json:"id"`
	SellableID uuid.UUID           `json:"sellable_id"`
	Items      []StockItemResponse `json:"items"`
}

// ToStorableResponse maps a storable to its external view
func ToStorableResponse(s *inventory.Storable) StorableResponse {
	items := make([]StockItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, StockItemResponse{
			BranchID:      it.BranchID,
			Quantity:      it.Quantity,
			LogicQuantity: it.LogicQuantity,
			StockCost:     it.StockCost,
		})
	}
	return StorableResponse{
		ID:         s.ID,
		SellableID: s.SellableID,
		Items:      items,
	}
}

// ToTransactionResponses maps the ledger to its external view
func ToTransactionResponses(transactions []*inventory.StockTransaction) []StockTransactionResponse {
	responses := make([]StockTransactionResponse, 0, len(transactions))
	for _, tx := range transactions {
		responses = append(responses, StockTransactionResponse{
			ID:            tx.ID,
			BranchID:      tx.BranchID,
			Kind:          string(tx.Kind),
			Quantity:      tx.Quantity,
			UnitCost:      tx.UnitCost,
			ResponsibleID: tx.ResponsibleID,
			CreatedAt:     tx.CreatedAt,
		})
	}
	return responses
}
