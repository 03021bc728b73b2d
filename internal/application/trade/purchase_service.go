package trade

import (
	"context"
	"errors"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailcore/backend/internal/domain/inventory"
	"github.com/retailcore/backend/internal/domain/payment"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/domain/shared/valueobject"
	"github.com/retailcore/backend/internal/domain/trade"
)

// icmsRate is the ICMS percentage applied on sale book entries
var icmsRate = decimal.NewFromInt(18)

func icmsTax(total decimal.Decimal) decimal.Decimal {
	return total.Mul(icmsRate).Div(decimal.NewFromInt(100)).Round(2)
}

func itoa64(n int64) string {
	return strconv.FormatInt(n, 10)
}

// PurchaseService orchestrates the buying flow: order creation and the
// receiving step that moves stock in and schedules the outbound payments.
type PurchaseService struct {
	purchaseRepo   trade.PurchaseOrderRepository
	receivingRepo  trade.ReceivingOrderRepository
	groupRepo      payment.GroupRepository
	methodRepo     payment.MethodRepository
	storableRepo   inventory.StorableRepository
	identifiers    shared.IdentifierFactory
	eventPublisher shared.EventPublisher
}

// NewPurchaseService creates a new PurchaseService
func NewPurchaseService(
	purchaseRepo trade.PurchaseOrderRepository,
	receivingRepo trade.ReceivingOrderRepository,
	groupRepo payment.GroupRepository,
	methodRepo payment.MethodRepository,
	storableRepo inventory.StorableRepository,
	identifiers shared.IdentifierFactory,
) *PurchaseService {
	return &PurchaseService{
		purchaseRepo:  purchaseRepo,
		receivingRepo: receivingRepo,
		groupRepo:     groupRepo,
		methodRepo:    methodRepo,
		storableRepo:  storableRepo,
		identifiers:   identifiers,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *PurchaseService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create opens a purchase order against a supplier and sends it pending
func (s *PurchaseService) Create(ctx context.Context, rc shared.RunContext, req CreatePurchaseRequest) (*PurchaseResponse, error) {
	now := rc.Clock.Now()

	group := payment.NewPaymentGroup(rc.BranchID, now)
	group.SetPayee(req.SupplierID)
	if err := s.groupRepo.Save(ctx, group); err != nil {
		return nil, err
	}

	order := trade.NewPurchaseOrder(s.identifiers.Next(), rc.BranchID, req.SupplierID, group.ID, now)
	for _, item := range req.Items {
		if _, err := order.AddItem(item.SellableID, item.Quantity, item.Cost, now); err != nil {
			return nil, err
		}
	}
	if err := order.SetPending(now); err != nil {
		return nil, err
	}

	if err := s.purchaseRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	response := ToPurchaseResponse(order)
	return &response, nil
}

// Confirm acknowledges the supplier accepted the order
func (s *PurchaseService) Confirm(ctx context.Context, rc shared.RunContext, orderID uuid.UUID) (*PurchaseResponse, error) {
	now := rc.Clock.Now()
	order, err := s.purchaseRepo.FindByIDForUpdate(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.Confirm(now); err != nil {
		return nil, err
	}
	if err := s.purchaseRepo.Update(ctx, order); err != nil {
		return nil, err
	}
	response := ToPurchaseResponse(order)
	return &response, nil
}

// Receive applies one delivery: received quantities grow, stock increases
// at the purchase cost and outbound installments are scheduled for the
// delivered value.
func (s *PurchaseService) Receive(ctx context.Context, rc shared.RunContext, orderID uuid.UUID, req ReceivePurchaseRequest) (*PurchaseResponse, error) {
	response, err := s.receive(ctx, rc, orderID, req)
	if errors.Is(err, shared.ErrConcurrencyConflict) {
		response, err = s.receive(ctx, rc, orderID, req)
	}
	return response, err
}

func (s *PurchaseService) receive(ctx context.Context, rc shared.RunContext, orderID uuid.UUID, req ReceivePurchaseRequest) (*PurchaseResponse, error) {
	now := rc.Clock.Now()

	order, err := s.purchaseRepo.FindByIDForUpdate(ctx, orderID)
	if err != nil {
		return nil, err
	}
	receiving, err := trade.NewReceivingOrder(s.identifiers.Next(), order, req.InvoiceNumber, now)
	if err != nil {
		return nil, err
	}
	for _, line := range req.Items {
		item := purchaseItem(order, line.PurchaseItemID)
		if item == nil {
			return nil, shared.ErrNotFound
		}
		if _, err := receiving.AddItem(item, line.Quantity); err != nil {
			return nil, err
		}
	}
	if err := receiving.Close(order, now); err != nil {
		return nil, err
	}

	for _, item := range receiving.Items {
		storable, err := s.storableRepo.FindBySellableForUpdate(ctx, item.SellableID)
		if err != nil {
			return nil, err
		}
		cost := item.Cost
		if err := storable.IncreaseStock(item.Quantity, rc.BranchID, &cost, inventory.StockTransactionReceived, rc.UserID, now); err != nil {
			return nil, err
		}
		if err := s.storableRepo.Save(ctx, storable); err != nil {
			return nil, err
		}
	}

	group, err := s.groupRepo.FindByIDForUpdate(ctx, order.GroupID)
	if err != nil {
		return nil, err
	}
	method, err := s.methodRepo.FindByType(ctx, payment.MethodType(req.MethodType))
	if err != nil {
		return nil, err
	}
	total := valueobject.NewMoneyBRL(receiving.TotalAmount())
	dueDates := installmentDueDates(now, req.Installments, req.IntervalDays)
	if _, err := group.CreateOutpayments(s.identifiers, method, total, dueDates, rc.Params.CurrencyPrecision, now); err != nil {
		return nil, err
	}
	if err := group.SetPaymentsToPay(now); err != nil {
		return nil, err
	}

	if err := s.receivingRepo.Save(ctx, receiving); err != nil {
		return nil, err
	}
	if err := s.groupRepo.Save(ctx, group); err != nil {
		return nil, err
	}
	if err := s.purchaseRepo.Update(ctx, order); err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		events := group.GetDomainEvents()
		if len(events) > 0 {
			_ = s.eventPublisher.Publish(ctx, events...)
			group.ClearDomainEvents()
		}
	}

	response := ToPurchaseResponse(order)
	return &response, nil
}

func purchaseItem(order *trade.PurchaseOrder, id uuid.UUID) *trade.PurchaseItem {
	for _, item := range order.Items {
		if item.ID == id {
			return item
		}
	}
	return nil
}
