package workorder

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailcore/backend/internal/domain/workorder"
)

// WorkOrderItemRequest is one material or service line
type WorkOrderItemRequest struct {
	SellableID uuid.UUID        `json:"sellable_id" binding:"required"`
	Quantity   decimal.Decimal  `json:"quantity" binding:"required"`
	Price      *decimal.Decimal `json:"price"`
}

// CreateWorkOrderRequest opens a service order for a client
type CreateWorkOrderRequest struct {
	ClientID    uuid.UUID              `json:"client_id" binding:"required"`
	Description string                 `json:"description" binding:"required"`
	Items       []WorkOrderItemRequest `json:"items"`
}

// FinishWorkOrderRequest completes the order and bills the client
type FinishWorkOrderRequest struct {
	MethodType   string `json:"method_type" binding:"required"`
	Installments int    `json:"installments"`
	IntervalDays int    `json:"interval_days"`
}

// WorkOrderItemResponse is the external view of an order line
type WorkOrderItemResponse struct {
	ID         uuid.UUID       `json:"id"`
	SellableID uuid.UUID       `json:"sellable_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	Total      decimal.Decimal `json:"total"`
}

// WorkOrderResponse is the external view of a work order
type WorkOrderResponse struct {
	ID          uuid.UUID               `json:"id"`
	Identifier  int64                   `json:"identifier"`
	Status      string                  `json:"status"`
	ClientID    uuid.UUID               `json:"client_id"`
	GroupID     uuid.UUID               `json:"group_id"`
	Description string                  `json:"description"`
	Total       decimal.Decimal         `json:"total"`
	OpenDate    time.Time               `json:"open_date"`
	Items       []WorkOrderItemResponse `json:"items"`
}

// ToWorkOrderResponse maps a work order to its external view
func ToWorkOrderResponse(w *workorder.WorkOrder) WorkOrderResponse {
	items := make([]WorkOrderItemResponse, 0, len(w.Items))
	for _, it := range w.Items {
		items = append(items, WorkOrderItemResponse{
			ID:         it.ID,
			SellableID: it.SellableID,
			Quantity:   it.Quantity,
			Price:      it.Price,
			Total:      it.Total(),
		})
	}
	return WorkOrderResponse{
		ID:          w.ID,
		Identifier:  w.Identifier,
		Status:      w.Status.String(),
		ClientID:    w.ClientID,
		GroupID:     w.GroupID,
		Description: w.Description,
		Total:       w.TotalAmount(),
		OpenDate:    w.OpenDate,
		Items:       items,
	}
}

// ProductionMaterialRequest declares one input of a production order
type ProductionMaterialRequest struct {
	SellableID uuid.UUID       `json:"sellable_id" binding:"required"`
	Needed     decimal.Decimal `json:"needed" binding:"required"`
}

// QualityTestRequest declares one check applied to each produced item
type QualityTestRequest struct {
	Description  string          `json:"description" binding:"required"`
	Type         string          `json:"type" binding:"required,oneof=BOOLEAN DECIMAL"`
	ExpectedBool bool            `json:"expected_bool"`
	RangeMin     decimal.Decimal `json:"range_min"`
	RangeMax     decimal.Decimal `json:"range_max"`
}

// CreateProductionRequest opens a production order
type CreateProductionRequest struct {
	ProductID uuid.UUID                   `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal             `json:"quantity" binding:"required"`
	Materials []ProductionMaterialRequest `json:"materials" binding:"required"`
	Tests     []QualityTestRequest        `json:"tests"`
}

// ProductionMaterialResponse is the external view of a production input
type ProductionMaterialResponse struct {
	SellableID uuid.UUID       `json:"sellable_id"`
	Needed     decimal.Decimal `json:"needed"`
	Reserved   decimal.Decimal `json:"reserved"`
	Consumed   decimal.Decimal `json:"consumed"`
	Lost       decimal.Decimal `json:"lost"`
}

// ProductionResponse is the external view of a production order
type ProductionResponse struct {
	ID              uuid.UUID                    `json:"id"`
	Identifier      int64                        `json:"identifier"`
	Status          string                       `json:"status"`
	ProductID       uuid.UUID                    `json:"product_id"`
	QuantityPlanned decimal.Decimal              `json:"quantity_planned"`
	QuantityMade    decimal.Decimal              `json:"quantity_made"`
	QuantityLost    decimal.Decimal              `json:"quantity_lost"`
	Materials       []ProductionMaterialResponse `json:"materials"`
}

// ToProductionResponse maps a production order to its external view
func ToProductionResponse(o *workorder.ProductionOrder) ProductionResponse {
	materials := make([]ProductionMaterialResponse, 0, len(o.Materials))
	for _, m := range o.Materials {
		materials = append(materials, ProductionMaterialResponse{
			SellableID: m.SellableID,
			Needed:     m.Needed,
			Reserved:   m.Reserved,
			Consumed:   m.Consumed,
			Lost:       m.Lost,
		})
	}
	return ProductionResponse{
		ID:              o.ID,
		Identifier:      o.Identifier,
		Status:          o.Status.String(),
		ProductID:       o.ProductID,
		QuantityPlanned: o.QuantityPlanned,
		QuantityMade:    o.QuantityMade,
		QuantityLost:    o.QuantityLost,
		Materials:       materials,
	}
}

// SendForApprovalRequest moves the order to the approval queue
type SendForApprovalRequest struct {
	Notes string `json:"notes"`
}

// ApproveWorkOrderRequest approves the order and assigns its executor
type ApproveWorkOrderRequest struct {
	ExecutorID uuid.UUID `json:"executor_id" binding:"required"`
}

// CancelWorkOrderRequest cancels the order
type CancelWorkOrderRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ProductionQuantityRequest records produced or lost quantity
type ProductionQuantityRequest struct {
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
}

// TestResultRequest records one quality test evaluation
type TestResultRequest struct {
	TestID        uuid.UUID        `json:"test_id" binding:"required"`
	ItemSeq       int              `json:"item_seq" binding:"min=0"`
	BoolResult    *bool            `json:"bool_result"`
	DecimalResult *decimal.Decimal `json:"decimal_result"`
}
