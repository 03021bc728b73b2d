package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailcore/backend/internal/domain/trade"
)

// SaleItemRequest is one line of a sale being created
type SaleItemRequest struct {
	SellableID uuid.UUID       `json:"sellable_id" binding:"required"`
	Quantity   decimal.Decimal `json:"quantity" binding:"required"`
	Price      *decimal.Decimal `json:"price"`
}

// CreateSaleRequest creates a sale quote
type CreateSaleRequest struct {
	ClientID      *uuid.UUID        `json:"client_id"`
	SalesPersonID *uuid.UUID        `json:"sales_person_id"`
	CFOPCode      string            `json:"cfop_code" binding:"required"`
	Items         []SaleItemRequest `json:"items" binding:"required,min=1,dive"`
	Discount      *decimal.Decimal  `json:"discount"`
}

// ConfirmSaleRequest confirms an ordered sale with a payment scheme
type ConfirmSaleRequest struct {
	MethodType   string `json:"method_type" binding:"required"`
	Installments int    `json:"installments" binding:"required,min=1"`
	IntervalDays int    `json:"interval_days" binding:"min=0"`
}

// ReturnSaleRequest returns a confirmed sale
type ReturnSaleRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// SaleItemResponse is one line of a sale
type SaleItemResponse struct {
	ID         uuid.UUID       `json:"id"`
	SellableID uuid.UUID       `json:"sellable_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	BasePrice  decimal.Decimal `json:"base_price"`
	Discount   decimal.Decimal `json:"discount"`
	Total      decimal.Decimal `json:"total"`
}

// SaleResponse is the external view of a sale
type SaleResponse struct {
	ID          uuid.UUID          `json:"id"`
	Identifier  int64              `json:"identifier"`
	Status      string             `json:"status"`
	BranchID    uuid.UUID          `json:"branch_id"`
	ClientID    *uuid.UUID         `json:"client_id,omitempty"`
	GroupID     uuid.UUID          `json:"group_id"`
	CFOPCode    string             `json:"cfop_code"`
	Discount    decimal.Decimal    `json:"discount"`
	Total       decimal.Decimal    `json:"total"`
	OpenDate    time.Time          `json:"open_date"`
	ConfirmDate *time.Time         `json:"confirm_date,omitempty"`
	Items       []SaleItemResponse `json:"items"`
}

// ToSaleResponse maps a sale aggregate to its external view
func ToSaleResponse(s *trade.Sale) SaleResponse {
	items := make([]SaleItemResponse, 0, len(s.Items))
	for _, item := range s.Items {
		items = append(items, SaleItemResponse{
			ID:         item.ID,
			SellableID: item.SellableID,
			Quantity:   item.Quantity,
			Price:      item.Price,
			BasePrice:  item.BasePrice,
			Discount:   item.Discount,
			Total:      item.Total(),
		})
	}
	return SaleResponse{
		ID:          s.ID,
		Identifier:  s.Identifier,
		Status:      s.Status.String(),
		BranchID:    s.BranchID,
		ClientID:    s.ClientID,
		GroupID:     s.GroupID,
		CFOPCode:    s.CFOPCode,
		Discount:    s.Discount,
		Total:       s.TotalAmount(),
		OpenDate:    s.OpenDate,
		ConfirmDate: s.ConfirmDate,
		Items:       items,
	}
}

// PurchaseItemRequest is one line of a purchase being created
type PurchaseItemRequest struct {
	SellableID uuid.UUID       `json:"sellable_id" binding:"required"`
	Quantity   decimal.Decimal `json:"quantity" binding:"required"`
	Cost       decimal.Decimal `json:"cost" binding:"required"`
}

// CreatePurchaseRequest creates a purchase order
type CreatePurchaseRequest struct {
	SupplierID uuid.UUID             `json:"supplier_id" binding:"required"`
	Items      []PurchaseItemRequest `json:"items" binding:"required,min=1,dive"`
}

// ReceiveItemRequest is one arriving line of a delivery
type ReceiveItemRequest struct {
	PurchaseItemID uuid.UUID       `json:"purchase_item_id" binding:"required"`
	Quantity       decimal.Decimal `json:"quantity" binding:"required"`
}

// ReceivePurchaseRequest applies one delivery to a purchase order
type ReceivePurchaseRequest struct {
	InvoiceNumber string               `json:"invoice_number" binding:"required"`
	MethodType    string               `json:"method_type" binding:"required"`
	Installments  int                  `json:"installments" binding:"required,min=1"`
	IntervalDays  int                  `json:"interval_days" binding:"min=0"`
	Items         []ReceiveItemRequest `json:"items" binding:"required,min=1,dive"`
}

// PurchaseResponse is the external view of a purchase order
type PurchaseResponse struct {
	ID         uuid.UUID       `json:"id"`
	Identifier int64           `json:"identifier"`
	Status     string          `json:"status"`
	SupplierID uuid.UUID       `json:"supplier_id"`
	GroupID    uuid.UUID       `json:"group_id"`
	Total      decimal.Decimal `json:"total"`
}

// ToPurchaseResponse maps a purchase order to its external view
func ToPurchaseResponse(o *trade.PurchaseOrder) PurchaseResponse {
	return PurchaseResponse{
		ID:         o.ID,
		Identifier: o.Identifier,
		Status:     o.Status.String(),
		SupplierID: o.SupplierID,
		GroupID:    o.GroupID,
		Total:      o.TotalAmount(),
	}
}

// RenegotiateRequest replaces the open installments of one or more groups
// with a single new schedule
type RenegotiateRequest struct {
	ClientID      uuid.UUID       `json:"client_id" binding:"required"`
	GroupIDs      []uuid.UUID     `json:"group_ids" binding:"required,min=1"`
	Total         decimal.Decimal `json:"total" binding:"required"`
	PenaltyWaived decimal.Decimal `json:"penalty_waived"`
	MethodType    string          `json:"method_type" binding:"required"`
	Installments  int             `json:"installments" binding:"required,min=1"`
	IntervalDays  int             `json:"interval_days" binding:"min=0"`
	Notes         string          `json:"notes"`
}

// RenegotiationResponse is the external view of a renegotiation
type RenegotiationResponse struct {
	ID             uuid.UUID       `json:"id"`
	Identifier     int64           `json:"identifier"`
	ClientID       uuid.UUID       `json:"client_id"`
	ResponsibleID  uuid.UUID       `json:"responsible_id"`
	OriginalGroups []uuid.UUID     `json:"original_groups"`
	NewGroupID     uuid.UUID       `json:"new_group_id"`
	Total          decimal.Decimal `json:"total"`
	PenaltyWaived  decimal.Decimal `json:"penalty_waived"`
	Notes          string          `json:"notes,omitempty"`
	SignedDate     time.Time       `json:"signed_date"`
}

// ToRenegotiationResponse maps a renegotiation to its external view
func ToRenegotiationResponse(r *trade.RenegotiationData) RenegotiationResponse {
	return RenegotiationResponse{
		ID:             r.ID,
		Identifier:     r.Identifier,
		ClientID:       r.ClientID,
		ResponsibleID:  r.ResponsibleID,
		OriginalGroups: r.OriginalGroups,
		NewGroupID:     r.NewGroupID,
		Total:          r.Total,
		PenaltyWaived:  r.PenaltyWaived,
		Notes:          r.Notes,
		SignedDate:     r.SignedDate,
	}
}
