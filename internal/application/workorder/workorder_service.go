package workorder

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/retailcore/backend/internal/domain/catalog"
	"github.com/retailcore/backend/internal/domain/inventory"
	"github.com/retailcore/backend/internal/domain/payment"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/domain/shared/valueobject"
	"github.com/retailcore/backend/internal/domain/workorder"
)

// WorkOrderService orchestrates service orders: opening, approval and the
// finish step that consumes materials and bills the client.
type WorkOrderService struct {
	orderRepo      workorder.WorkOrderRepository
	groupRepo      payment.GroupRepository
	methodRepo     payment.MethodRepository
	sellableRepo   catalog.SellableRepository
	storableRepo   inventory.StorableRepository
	identifiers    shared.IdentifierFactory
	eventPublisher shared.EventPublisher
}

// NewWorkOrderService creates a new WorkOrderService
func NewWorkOrderService(
	orderRepo workorder.WorkOrderRepository,
	groupRepo payment.GroupRepository,
	methodRepo payment.MethodRepository,
	sellableRepo catalog.SellableRepository,
	storableRepo inventory.StorableRepository,
	identifiers shared.IdentifierFactory,
) *WorkOrderService {
	return &WorkOrderService{
		orderRepo:    orderRepo,
		groupRepo:    groupRepo,
		methodRepo:   methodRepo,
		sellableRepo: sellableRepo,
		storableRepo: storableRepo,
		identifiers:  identifiers,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *WorkOrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create opens a work order and its payment group
func (s *WorkOrderService) Create(ctx context.Context, rc shared.RunContext, req CreateWorkOrderRequest) (*WorkOrderResponse, error) {
	now := rc.Clock.Now()

	group := payment.NewPaymentGroup(rc.BranchID, now)
	group.SetPayer(req.ClientID)

	order := workorder.NewWorkOrder(s.identifiers.Next(), rc.BranchID, req.ClientID, group.ID, req.Description, now)
	for _, line := range req.Items {
		if err := s.addItem(ctx, order, line, now); err != nil {
			return nil, err
		}
	}

	if err := s.groupRepo.Save(ctx, group); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	response := ToWorkOrderResponse(order)
	return &response, nil
}

// AddItem appends a material or service line to an open order
func (s *WorkOrderService) AddItem(ctx context.Context, rc shared.RunContext, orderID uuid.UUID, req WorkOrderItemRequest) (*WorkOrderResponse, error) {
	now := rc.Clock.Now()
	order, err := s.orderRepo.FindByIDForUpdate(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.addItem(ctx, order, req, now); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}
	response := ToWorkOrderResponse(order)
	return &response, nil
}

// SendForApproval moves an opened order to the approval queue
func (s *WorkOrderService) SendForApproval(ctx context.Context, rc shared.RunContext, orderID uuid.UUID, notes string) (*WorkOrderResponse, error) {
	return s.transition(ctx, orderID, func(order *workorder.WorkOrder) error {
		return order.SendForApproval(rc.UserID, notes, rc.Clock.Now())
	})
}

// Approve accepts the order and assigns its executor
func (s *WorkOrderService) Approve(ctx context.Context, rc shared.RunContext, orderID, executorID uuid.UUID) (*WorkOrderResponse, error) {
	return s.transition(ctx, orderID, func(order *workorder.WorkOrder) error {
		return order.Approve(rc.UserID, executorID, rc.Clock.Now())
	})
}

// Finish completes the order: materials leave stock and the client's
// installments materialize on the payment group.
func (s *WorkOrderService) Finish(ctx context.Context, rc shared.RunContext, orderID uuid.UUID, req FinishWorkOrderRequest) (*WorkOrderResponse, error) {
	response, err := s.finish(ctx, rc, orderID, req)
	if errors.Is(err, shared.ErrConcurrencyConflict) {
		response, err = s.finish(ctx, rc, orderID, req)
	}
	return response, err
}

func (s *WorkOrderService) finish(ctx context.Context, rc shared.RunContext, orderID uuid.UUID, req FinishWorkOrderRequest) (*WorkOrderResponse, error) {
	now := rc.Clock.Now()
	order, err := s.orderRepo.FindByIDForUpdate(ctx, orderID)
	if err != nil {
		return nil, err
	}
	group, err := s.groupRepo.FindByIDForUpdate(ctx, order.GroupID)
	if err != nil {
		return nil, err
	}
	method, err := s.methodRepo.FindByType(ctx, payment.MethodType(req.MethodType))
	if err != nil {
		return nil, err
	}

	if err := order.Finish(rc.UserID, now); err != nil {
		return nil, err
	}

	for _, item := range order.Items {
		storable, err := s.storableRepo.FindBySellableForUpdate(ctx, item.SellableID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				// service lines have no stock-bearing facet
				continue
			}
			return nil, err
		}
		if err := storable.DecreaseStock(item.Quantity, order.BranchID, inventory.StockTransactionSold, rc.UserID, now); err != nil {
			return nil, err
		}
		if err := s.storableRepo.Save(ctx, storable); err != nil {
			return nil, err
		}
	}

	total := valueobject.NewMoneyBRL(order.TotalAmount())
	dueDates := installmentDueDates(now, req.Installments, req.IntervalDays)
	if _, err := group.CreateInpayments(s.identifiers, method, total, dueDates, rc.Params.CurrencyPrecision, now); err != nil {
		return nil, err
	}
	if err := group.SetPaymentsToPay(now); err != nil {
		return nil, err
	}

	if err := s.groupRepo.Save(ctx, group); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}
	s.publish(ctx, order, group)

	response := ToWorkOrderResponse(order)
	return &response, nil
}

// Close archives a finished order
func (s *WorkOrderService) Close(ctx context.Context, rc shared.RunContext, orderID uuid.UUID) (*WorkOrderResponse, error) {
	return s.transition(ctx, orderID, func(order *workorder.WorkOrder) error {
		return order.Close(rc.UserID, rc.Clock.Now())
	})
}

// Cancel aborts an order before execution starts
func (s *WorkOrderService) Cancel(ctx context.Context, rc shared.RunContext, orderID uuid.UUID, reason string) (*WorkOrderResponse, error) {
	return s.transition(ctx, orderID, func(order *workorder.WorkOrder) error {
		return order.Cancel(rc.UserID, reason, rc.Clock.Now())
	})
}

func (s *WorkOrderService) transition(ctx context.Context, orderID uuid.UUID, fn func(order *workorder.WorkOrder) error) (*WorkOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForUpdate(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := fn(order); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}
	response := ToWorkOrderResponse(order)
	return &response, nil
}

func (s *WorkOrderService) addItem(ctx context.Context, order *workorder.WorkOrder, req WorkOrderItemRequest, now time.Time) error {
	sellable, err := s.sellableRepo.FindByID(ctx, req.SellableID)
	if err != nil {
		return err
	}
	if !sellable.CanBeSold() {
		return shared.NewDomainError("NOT_SELLABLE", "Sellable is not available for sale")
	}
	price := sellable.Price(now).Amount()
	if req.Price != nil {
		price = *req.Price
	}
	_, err = order.AddItem(req.SellableID, req.Quantity, price, now)
	return err
}

func (s *WorkOrderService) publish(ctx context.Context, order *workorder.WorkOrder, group *payment.PaymentGroup) {
	if s.eventPublisher == nil {
		return
	}
	events := append(order.GetDomainEvents(), group.GetDomainEvents()...)
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	order.ClearDomainEvents()
	group.ClearDomainEvents()
}

// installmentDueDates spreads n due dates from the first one at the given
// day interval.
func installmentDueDates(first time.Time, n, intervalDays int) []time.Time {
	if n <= 0 {
		n = 1
	}
	if intervalDays <= 0 {
		intervalDays = 30
	}
	dates := make([]time.Time, n)
	for i := 0; i < n; i++ {
		dates[i] = first.AddDate(0, 0, (i+1)*intervalDays)
	}
	return dates
}
