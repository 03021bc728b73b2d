package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailcore/backend/internal/domain/catalog"
)

// CreateSellableRequest registers a sellable in the catalog
type CreateSellableRequest struct {
	Code        string           `json:"code" binding:"required"`
	Description string           `json:"description" binding:"required"`
	Kind        string           `json:"kind" binding:"required"`
	BasePrice   decimal.Decimal  `json:"base_price"`
	Cost        decimal.Decimal  `json:"cost"`
	Unit        string           `json:"unit"`
	TaxConstant string           `json:"tax_constant"`
	CategoryID  *uuid.UUID       `json:"category_id"`
	Commission  *decimal.Decimal `json:"commission"`
	// Storable opens a stock record for the sellable; only products
	// carry stock.
	Storable bool `json:"storable"`
}

// UpdateSellableRequest updates the mutable fields of a sellable
type UpdateSellableRequest struct {
	Description *string          `json:"description"`
	BasePrice   *decimal.Decimal `json:"base_price"`
	Cost        *decimal.Decimal `json:"cost"`
	TaxConstant *string          `json:"tax_constant"`
	CategoryID  *uuid.UUID       `json:"category_id"`
	Commission  *decimal.Decimal `json:"commission"`
}

// SetOnSaleRequest opens a promotional price window
type SetOnSaleRequest struct {
	Price decimal.Decimal `json:"price"`
	Start time.Time       `json:"start" binding:"required"`
	End   time.Time       `json:"end" binding:"required"`
}

// CreateCategoryRequest registers a sellable category
type CreateCategoryRequest struct {
	Name                string          `json:"name" binding:"required"`
	BaseCategoryID      *uuid.UUID      `json:"base_category_id"`
	SuggestedMarkup     decimal.Decimal `json:"suggested_markup"`
	SuggestedCommission decimal.Decimal `json:"suggested_commission"`
}

// SellableResponse is the external view of a sellable
type SellableResponse struct {
	ID             uuid.UUID        `json:"id"`
	Code           string           `json:"code"`
	Description    string           `json:"description"`
	Kind           string           `json:"kind"`
	Status         string           `json:"status"`
	BasePrice      decimal.Decimal  `json:"base_price"`
	EffectivePrice decimal.Decimal  `json:"effective_price"`
	Cost           decimal.Decimal  `json:"cost"`
	Unit           string           `json:"unit,omitempty"`
	TaxConstant    string           `json:"tax_constant,omitempty"`
	CategoryID     *uuid.UUID       `json:"category_id,omitempty"`
	Commission     *decimal.Decimal `json:"commission,omitempty"`
	OnSalePrice    decimal.Decimal  `json:"on_sale_price"`
	OnSaleStart    *time.Time       `json:"on_sale_start,omitempty"`
	OnSaleEnd      *time.Time       `json:"on_sale_end,omitempty"`
}

// ToSellableResponse maps a sellable to its external view at an instant
func ToSellableResponse(s *catalog.Sellable, now time.Time) SellableResponse {
	return SellableResponse{
		ID:             s.ID,
		Code:           s.Code,
		Description:    s.Description,
		Kind:           string(s.Kind),
		Status:         s.Status.String(),
		BasePrice:      s.BasePrice,
		EffectivePrice: s.Price(now).Amount(),
		Cost:           s.Cost,
		Unit:           s.Unit,
		TaxConstant:    s.TaxConstant,
		CategoryID:     s.CategoryID,
		Commission:     s.Commission,
		OnSalePrice:    s.OnSalePrice,
		OnSaleStart:    s.OnSaleStart,
		OnSaleEnd:      s.OnSaleEnd,
	}
}

// CategoryResponse is the external view of a category
type CategoryResponse struct {
	ID                  uuid.UUID       `json:"id"`
	Name                string          `json:"name"`
	BaseCategoryID      *uuid.UUID      `json:"base_category_id,omitempty"`
	SuggestedMarkup     decimal.Decimal `json:"suggested_markup"`
	SuggestedCommission decimal.Decimal `json:"suggested_commission"`
}

// ToCategoryResponse maps a category to its external view
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:                  c.ID,
		Name:                c.Name,
		BaseCategoryID:      c.BaseCategoryID,
		SuggestedMarkup:     c.SuggestedMarkup,
		SuggestedCommission: c.SuggestedCommission,
	}
}
