package workorder

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailcore/backend/internal/domain/inventory"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/domain/workorder"
)

// ProductionService orchestrates production orders. Approval moves the
// needed materials from physical to logical stock; production and losses
// release the logical quantity and produced units enter stock at the
// producing branch.
type ProductionService struct {
	orderRepo    workorder.ProductionOrderRepository
	storableRepo inventory.StorableRepository
	identifiers  shared.IdentifierFactory
}

// NewProductionService creates a new ProductionService
func NewProductionService(
	orderRepo workorder.ProductionOrderRepository,
	storableRepo inventory.StorableRepository,
	identifiers shared.IdentifierFactory,
) *ProductionService {
	return &ProductionService{
		orderRepo:    orderRepo,
		storableRepo: storableRepo,
		identifiers:  identifiers,
	}
}

// Create opens a production order with its bill of materials
func (s *ProductionService) Create(ctx context.Context, rc shared.RunContext, req CreateProductionRequest) (*ProductionResponse, error) {
	now := rc.Clock.Now()
	order, err := workorder.NewProductionOrder(s.identifiers.Next(), rc.BranchID, rc.UserID, req.ProductID, req.Quantity, now)
	if err != nil {
		return nil, err
	}
	for _, m := range req.Materials {
		if _, err := order.AddMaterial(m.SellableID, m.Needed); err != nil {
			return nil, err
		}
	}
	for _, t := range req.Tests {
		test := &workorder.QualityTest{
			ID:           uuid.New(),
			Description:  t.Description,
			Type:         workorder.QualityTestType(t.Type),
			ExpectedBool: t.ExpectedBool,
			RangeMin:     t.RangeMin,
			RangeMax:     t.RangeMax,
		}
		if err := order.AddQualityTest(test); err != nil {
			return nil, err
		}
	}
	if err := order.Wait(now); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	response := ToProductionResponse(order)
	return &response, nil
}

// Approve reserves the needed materials: their physical quantity moves to
// logical stock so concurrent sales cannot promise them away.
func (s *ProductionService) Approve(ctx context.Context, rc shared.RunContext, orderID uuid.UUID) (*ProductionResponse, error) {
	response, err := s.approve(ctx, rc, orderID)
	if errors.Is(err, shared.ErrConcurrencyConflict) {
		response, err = s.approve(ctx, rc, orderID)
	}
	return response, err
}

func (s *ProductionService) approve(ctx context.Context, rc shared.RunContext, orderID uuid.UUID) (*ProductionResponse, error) {
	now := rc.Clock.Now()
	order, err := s.orderRepo.FindByIDForUpdate(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.Approve(now); err != nil {
		return nil, err
	}
	for _, m := range order.Materials {
		storable, err := s.storableRepo.FindBySellableForUpdate(ctx, m.SellableID)
		if err != nil {
			return nil, err
		}
		if err := storable.DecreaseStock(m.Reserved, order.BranchID, inventory.StockTransactionProductionReserved, rc.UserID, now); err != nil {
			return nil, err
		}
		if err := storable.IncreaseLogicStock(m.Reserved, order.BranchID, now); err != nil {
			return nil, err
		}
		if err := s.storableRepo.Save(ctx, storable); err != nil {
			return nil, err
		}
	}
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}
	response := ToProductionResponse(order)
	return &response, nil
}

// Produce records finished units: consumed materials leave logical stock
// and the produced quantity enters stock at the branch.
func (s *ProductionService) Produce(ctx context.Context, rc shared.RunContext, orderID uuid.UUID, quantity decimal.Decimal) (*ProductionResponse, error) {
	return s.record(ctx, rc, orderID, quantity, false)
}

// Loss records spoiled units: their share of materials leaves logical
// stock with nothing produced in return.
func (s *ProductionService) Loss(ctx context.Context, rc shared.RunContext, orderID uuid.UUID, quantity decimal.Decimal) (*ProductionResponse, error) {
	return s.record(ctx, rc, orderID, quantity, true)
}

func (s *ProductionService) record(ctx context.Context, rc shared.RunContext, orderID uuid.UUID, quantity decimal.Decimal, loss bool) (*ProductionResponse, error) {
	response, err := s.doRecord(ctx, rc, orderID, quantity, loss)
	if errors.Is(err, shared.ErrConcurrencyConflict) {
		response, err = s.doRecord(ctx, rc, orderID, quantity, loss)
	}
	return response, err
}

func (s *ProductionService) doRecord(ctx context.Context, rc shared.RunContext, orderID uuid.UUID, quantity decimal.Decimal, loss bool) (*ProductionResponse, error) {
	now := rc.Clock.Now()
	order, err := s.orderRepo.FindByIDForUpdate(ctx, orderID)
	if err != nil {
		return nil, err
	}

	before := make(map[uuid.UUID]decimal.Decimal, len(order.Materials))
	for _, m := range order.Materials {
		before[m.SellableID] = m.Consumed.Add(m.Lost)
	}

	if loss {
		err = order.Loss(quantity, now)
	} else {
		err = order.Produce(quantity, now)
	}
	if err != nil {
		return nil, err
	}

	for _, m := range order.Materials {
		spent := m.Consumed.Add(m.Lost).Sub(before[m.SellableID])
		if !spent.IsPositive() {
			continue
		}
		storable, err := s.storableRepo.FindBySellableForUpdate(ctx, m.SellableID)
		if err != nil {
			return nil, err
		}
		if err := storable.DecreaseLogicStock(spent, order.BranchID, now); err != nil {
			return nil, err
		}
		if err := s.storableRepo.Save(ctx, storable); err != nil {
			return nil, err
		}
	}

	if !loss {
		storable, err := s.storableRepo.FindBySellableForUpdate(ctx, order.ProductID)
		if err != nil {
			return nil, err
		}
		if err := storable.IncreaseStock(quantity, order.BranchID, nil, inventory.StockTransactionProductionProduced, rc.UserID, now); err != nil {
			return nil, err
		}
		if err := s.storableRepo.Save(ctx, storable); err != nil {
			return nil, err
		}
	}

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}
	response := ToProductionResponse(order)
	return &response, nil
}

// RecordTestResult evaluates one quality test for one produced item
func (s *ProductionService) RecordTestResult(ctx context.Context, rc shared.RunContext, orderID, testID uuid.UUID, itemSeq int, boolResult *bool, decResult *decimal.Decimal) (*ProductionResponse, error) {
	now := rc.Clock.Now()
	order, err := s.orderRepo.FindByIDForUpdate(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if _, err := order.RecordTestResult(testID, itemSeq, boolResult, decResult, now); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}
	response := ToProductionResponse(order)
	return &response, nil
}

// Close ends the order once every produced item passed every test
func (s *ProductionService) Close(ctx context.Context, rc shared.RunContext, orderID uuid.UUID) (*ProductionResponse, error) {
	order, err := s.orderRepo.FindByIDForUpdate(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.Close(rc.Clock.Now()); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}
	response := ToProductionResponse(order)
	return &response, nil
}
