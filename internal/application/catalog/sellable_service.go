package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/retailcore/backend/internal/domain/catalog"
	"github.com/retailcore/backend/internal/domain/inventory"
	"github.com/retailcore/backend/internal/domain/shared"
)

// SellableService manages the catalog: sellables, their categories and
// the stock records backing product sellables.
type SellableService struct {
	sellableRepo catalog.SellableRepository
	categoryRepo catalog.CategoryRepository
	storableRepo inventory.StorableRepository
}

// NewSellableService creates a new SellableService
func NewSellableService(
	sellableRepo catalog.SellableRepository,
	categoryRepo catalog.CategoryRepository,
	storableRepo inventory.StorableRepository,
) *SellableService {
	return &SellableService{
		sellableRepo: sellableRepo,
		categoryRepo: categoryRepo,
		storableRepo: storableRepo,
	}
}

// CreateSellable registers a sellable; codes are stored uppercase. A
// product flagged storable gets its stock record in the same operation.
func (s *SellableService) CreateSellable(ctx context.Context, rc shared.RunContext, req CreateSellableRequest) (*SellableResponse, error) {
	now := rc.Clock.Now()
	code := strings.ToUpper(strings.TrimSpace(req.Code))

	sellable, err := catalog.NewSellable(code, req.Description, catalog.SellableKind(req.Kind), req.BasePrice, req.Cost, req.Unit, now)
	if err != nil {
		return nil, err
	}
	sellable.TaxConstant = req.TaxConstant
	sellable.CategoryID = req.CategoryID
	sellable.Commission = req.Commission

	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
	}
	if req.Storable && sellable.Kind != catalog.SellableKindProduct {
		return nil, shared.NewDomainError("INVALID_KIND", "Only products carry stock")
	}

	if err := s.sellableRepo.Save(ctx, sellable); err != nil {
		return nil, err
	}

	if req.Storable {
		storable, err := inventory.NewStorable(sellable.ID, now)
		if err != nil {
			return nil, err
		}
		if err := s.storableRepo.Save(ctx, storable); err != nil {
			return nil, err
		}
	}

	response := ToSellableResponse(sellable, now)
	return &response, nil
}

// GetSellable retrieves a sellable by ID
func (s *SellableService) GetSellable(ctx context.Context, rc shared.RunContext, id uuid.UUID) (*SellableResponse, error) {
	sellable, err := s.sellableRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToSellableResponse(sellable, rc.Clock.Now())
	return &response, nil
}

// GetSellableByCode retrieves a sellable by its unique code
func (s *SellableService) GetSellableByCode(ctx context.Context, rc shared.RunContext, code string) (*SellableResponse, error) {
	sellable, err := s.sellableRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	response := ToSellableResponse(sellable, rc.Clock.Now())
	return &response, nil
}

// ListSellables lists sellables matching the filter
func (s *SellableService) ListSellables(ctx context.Context, rc shared.RunContext, filter catalog.SellableFilter) ([]SellableResponse, error) {
	sellables, err := s.sellableRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	now := rc.Clock.Now()
	responses := make([]SellableResponse, len(sellables))
	for i := range sellables {
		responses[i] = ToSellableResponse(&sellables[i], now)
	}
	return responses, nil
}

// UpdateSellable updates the mutable fields of a sellable
func (s *SellableService) UpdateSellable(ctx context.Context, rc shared.RunContext, id uuid.UUID, req UpdateSellableRequest) (*SellableResponse, error) {
	now := rc.Clock.Now()
	sellable, err := s.sellableRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Description != nil {
		if *req.Description == "" {
			return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Sellable description cannot be empty")
		}
		sellable.Description = *req.Description
	}
	if req.BasePrice != nil {
		if req.BasePrice.IsNegative() {
			return nil, shared.NewDomainError("INVALID_PRICE", "Base price cannot be negative")
		}
		sellable.BasePrice = *req.BasePrice
	}
	if req.Cost != nil {
		sellable.Cost = *req.Cost
	}
	if req.TaxConstant != nil {
		sellable.TaxConstant = *req.TaxConstant
	}
	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
		sellable.CategoryID = req.CategoryID
	}
	if req.Commission != nil {
		sellable.Commission = req.Commission
	}
	sellable.Touch(now)

	if err := s.sellableRepo.Save(ctx, sellable); err != nil {
		return nil, err
	}

	response := ToSellableResponse(sellable, now)
	return &response, nil
}

// SetOnSale opens a promotional price window on a sellable
func (s *SellableService) SetOnSale(ctx context.Context, rc shared.RunContext, id uuid.UUID, req SetOnSaleRequest) (*SellableResponse, error) {
	now := rc.Clock.Now()
	sellable, err := s.sellableRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := sellable.SetOnSale(req.Price, req.Start, req.End, now); err != nil {
		return nil, err
	}
	if err := s.sellableRepo.Save(ctx, sellable); err != nil {
		return nil, err
	}

	response := ToSellableResponse(sellable, now)
	return &response, nil
}

// Block makes a sellable temporarily unsellable
func (s *SellableService) Block(ctx context.Context, rc shared.RunContext, id uuid.UUID) (*SellableResponse, error) {
	return s.transition(ctx, rc, id, (*catalog.Sellable).Block)
}

// Unblock makes a blocked sellable available again
func (s *SellableService) Unblock(ctx context.Context, rc shared.RunContext, id uuid.UUID) (*SellableResponse, error) {
	return s.transition(ctx, rc, id, (*catalog.Sellable).Unblock)
}

// Close retires a sellable permanently
func (s *SellableService) Close(ctx context.Context, rc shared.RunContext, id uuid.UUID) (*SellableResponse, error) {
	return s.transition(ctx, rc, id, (*catalog.Sellable).Close)
}

func (s *SellableService) transition(ctx context.Context, rc shared.RunContext, id uuid.UUID, op func(*catalog.Sellable, time.Time) error) (*SellableResponse, error) {
	now := rc.Clock.Now()
	sellable, err := s.sellableRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := op(sellable, now); err != nil {
		return nil, err
	}
	if err := s.sellableRepo.Save(ctx, sellable); err != nil {
		return nil, err
	}

	response := ToSellableResponse(sellable, now)
	return &response, nil
}

// CreateCategory registers a category
func (s *SellableService) CreateCategory(ctx context.Context, rc shared.RunContext, req CreateCategoryRequest) (*CategoryResponse, error) {
	if req.BaseCategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.BaseCategoryID); err != nil {
			return nil, err
		}
	}
	category, err := catalog.NewCategory(req.Name, req.BaseCategoryID, req.SuggestedMarkup, req.SuggestedCommission, rc.Clock.Now())
	if err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	response := ToCategoryResponse(category)
	return &response, nil
}

// ListCategories lists categories matching the filter
func (s *SellableService) ListCategories(ctx context.Context, filter shared.Filter) ([]CategoryResponse, error) {
	categories, err := s.categoryRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]CategoryResponse, len(categories))
	for i := range categories {
		responses[i] = ToCategoryResponse(&categories[i])
	}
	return responses, nil
}
