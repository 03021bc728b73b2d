package trade

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/retailcore/backend/internal/domain/catalog"
	"github.com/retailcore/backend/internal/domain/fiscal"
	"github.com/retailcore/backend/internal/domain/inventory"
	"github.com/retailcore/backend/internal/domain/payment"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/domain/shared/valueobject"
	"github.com/retailcore/backend/internal/domain/trade"
)

// SaleService orchestrates the selling flow: quote creation, confirmation
// with its stock, payment and fiscal side effects, and returns.
type SaleService struct {
	saleRepo       trade.SaleRepository
	returnRepo     trade.ReturnedSaleRepository
	groupRepo      payment.GroupRepository
	methodRepo     payment.MethodRepository
	sellableRepo   catalog.SellableRepository
	storableRepo   inventory.StorableRepository
	bookRepo       fiscal.BookEntryRepository
	identifiers    shared.IdentifierFactory
	eventPublisher shared.EventPublisher
}

// NewSaleService creates a new SaleService
func NewSaleService(
	saleRepo trade.SaleRepository,
	returnRepo trade.ReturnedSaleRepository,
	groupRepo payment.GroupRepository,
	methodRepo payment.MethodRepository,
	sellableRepo catalog.SellableRepository,
	storableRepo inventory.StorableRepository,
	bookRepo fiscal.BookEntryRepository,
	identifiers shared.IdentifierFactory,
) *SaleService {
	return &SaleService{
		saleRepo:     saleRepo,
		returnRepo:   returnRepo,
		groupRepo:    groupRepo,
		methodRepo:   methodRepo,
		sellableRepo: sellableRepo,
		storableRepo: storableRepo,
		bookRepo:     bookRepo,
		identifiers:  identifiers,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *SaleService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create opens a sale quote with its items and optional discount
func (s *SaleService) Create(ctx context.Context, rc shared.RunContext, req CreateSaleRequest) (*SaleResponse, error) {
	now := rc.Clock.Now()

	group := payment.NewPaymentGroup(rc.BranchID, now)
	if req.ClientID != nil {
		group.SetPayer(*req.ClientID)
	}
	if err := s.groupRepo.Save(ctx, group); err != nil {
		return nil, err
	}

	sale := trade.NewSale(s.identifiers.Next(), rc.BranchID, group.ID, req.CFOPCode, now)
	if req.ClientID != nil {
		sale.SetClient(*req.ClientID)
	}
	if req.SalesPersonID != nil {
		sale.SetSalesPerson(*req.SalesPersonID)
	}

	for _, item := range req.Items {
		sellable, err := s.sellableRepo.FindByID(ctx, item.SellableID)
		if err != nil {
			return nil, err
		}
		if !sellable.CanBeSold() {
			return nil, shared.NewDomainError("NOT_SELLABLE", "Sellable is not available for sale")
		}
		basePrice := sellable.Price(now).Amount()
		price := basePrice
		if item.Price != nil {
			price = *item.Price
		}
		if _, err := sale.AddItem(sellable.ID, item.Quantity, price, basePrice, rc.Params.AllowHigherSalePrice, now); err != nil {
			return nil, err
		}
	}

	if req.Discount != nil && req.Discount.IsPositive() {
		if err := sale.ApplyDiscount(*req.Discount, rc.Params.CurrencyPrecision, now); err != nil {
			return nil, err
		}
	}

	if err := sale.Order(now); err != nil {
		return nil, err
	}
	if err := s.saleRepo.Save(ctx, sale); err != nil {
		return nil, err
	}

	response := ToSaleResponse(sale)
	return &response, nil
}

// GetByID retrieves a sale by ID
func (s *SaleService) GetByID(ctx context.Context, saleID uuid.UUID) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	response := ToSaleResponse(sale)
	return &response, nil
}

// Confirm confirms an ordered sale: stock decreases per line, installment
// payments materialize in to-pay, a fiscal book entry is written and
// sale.confirmed is published. A concurrency conflict on the optimistic
// save is retried once with fresh state.
func (s *SaleService) Confirm(ctx context.Context, rc shared.RunContext, saleID uuid.UUID, req ConfirmSaleRequest) (*SaleResponse, error) {
	response, err := s.confirm(ctx, rc, saleID, req)
	if errors.Is(err, shared.ErrConcurrencyConflict) {
		response, err = s.confirm(ctx, rc, saleID, req)
	}
	return response, err
}

func (s *SaleService) confirm(ctx context.Context, rc shared.RunContext, saleID uuid.UUID, req ConfirmSaleRequest) (*SaleResponse, error) {
	now := rc.Clock.Now()

	sale, err := s.saleRepo.FindByIDForUpdate(ctx, saleID)
	if err != nil {
		return nil, err
	}
	group, err := s.groupRepo.FindByIDForUpdate(ctx, sale.GroupID)
	if err != nil {
		return nil, err
	}
	method, err := s.methodRepo.FindByType(ctx, payment.MethodType(req.MethodType))
	if err != nil {
		return nil, err
	}

	if err := sale.Confirm(now); err != nil {
		return nil, err
	}

	for _, item := range sale.Items {
		storable, err := s.storableRepo.FindBySellableForUpdate(ctx, item.SellableID)
		if err != nil {
			return nil, err
		}
		if err := storable.DecreaseStock(item.Quantity, rc.BranchID, inventory.StockTransactionSold, rc.UserID, now); err != nil {
			return nil, err
		}
		if err := s.storableRepo.Save(ctx, storable); err != nil {
			return nil, err
		}
	}

	total := valueobject.NewMoneyBRL(sale.TotalAmount())
	if rc.Params.CreatePaymentsOnStockDecrease {
		// the toggle settles the whole sale in cash immediately; the paid
		// date is now, never rewritten to the open date
		p, err := group.AddPayment(s.identifiers, total, "Sale "+itoa64(sale.Identifier), method, payment.DirectionIn, nil, now, now)
		if err != nil {
			return nil, err
		}
		if err := group.SetPaymentsToPay(now); err != nil {
			return nil, err
		}
		if err := group.Pay(p.ID, nil, now); err != nil {
			return nil, err
		}
	} else {
		dueDates := installmentDueDates(now, req.Installments, req.IntervalDays)
		if _, err := group.CreateInpayments(s.identifiers, method, total, dueDates, rc.Params.CurrencyPrecision, now); err != nil {
			return nil, err
		}
		if err := group.SetPaymentsToPay(now); err != nil {
			return nil, err
		}
	}

	entry, err := fiscal.NewBookEntry(fiscal.BookICMS, sale.BranchID, group.ID, sale.CFOPCode,
		itoa64(sale.Identifier), sale.TotalAmount(), sale.TotalAmount(), icmsTax(sale.TotalAmount()), now)
	if err != nil {
		return nil, err
	}
	if err := s.bookRepo.Save(ctx, entry); err != nil {
		return nil, err
	}

	if err := s.groupRepo.Save(ctx, group); err != nil {
		return nil, err
	}
	if err := s.saleRepo.Update(ctx, sale); err != nil {
		return nil, err
	}

	s.publish(ctx, sale, group)

	response := ToSaleResponse(sale)
	return &response, nil
}

// Return returns a confirmed sale in full: stock is restored, outstanding
// installments are cancelled with negative siblings and the fiscal entries
// are reversed.
func (s *SaleService) Return(ctx context.Context, rc shared.RunContext, saleID uuid.UUID, req ReturnSaleRequest) (*SaleResponse, error) {
	response, err := s.doReturn(ctx, rc, saleID, req)
	if errors.Is(err, shared.ErrConcurrencyConflict) {
		response, err = s.doReturn(ctx, rc, saleID, req)
	}
	return response, err
}

func (s *SaleService) doReturn(ctx context.Context, rc shared.RunContext, saleID uuid.UUID, req ReturnSaleRequest) (*SaleResponse, error) {
	now := rc.Clock.Now()

	sale, err := s.saleRepo.FindByIDForUpdate(ctx, saleID)
	if err != nil {
		return nil, err
	}
	group, err := s.groupRepo.FindByIDForUpdate(ctx, sale.GroupID)
	if err != nil {
		return nil, err
	}

	returned, err := trade.NewReturnedSale(s.identifiers.Next(), sale, rc.UserID, req.Reason, now)
	if err != nil {
		return nil, err
	}
	if err := returned.ReturnAll(sale); err != nil {
		return nil, err
	}

	for _, item := range returned.Items {
		storable, err := s.storableRepo.FindBySellableForUpdate(ctx, item.SellableID)
		if err != nil {
			return nil, err
		}
		if err := storable.IncreaseStock(item.Quantity, rc.BranchID, nil, inventory.StockTransactionReturnedSale, rc.UserID, now); err != nil {
			return nil, err
		}
		if err := s.storableRepo.Save(ctx, storable); err != nil {
			return nil, err
		}
	}

	if _, err := group.CancelOutstanding(s.identifiers, now); err != nil {
		return nil, err
	}

	entries, err := s.bookRepo.FindByGroup(ctx, group.ID)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if entry.ReversalOf != nil {
			continue
		}
		reversal, err := entry.Reverse(now)
		if err != nil {
			return nil, err
		}
		if err := s.bookRepo.Save(ctx, reversal); err != nil {
			return nil, err
		}
	}

	if err := sale.Return(now); err != nil {
		return nil, err
	}

	if err := s.returnRepo.Save(ctx, returned); err != nil {
		return nil, err
	}
	if err := s.groupRepo.Save(ctx, group); err != nil {
		return nil, err
	}
	if err := s.saleRepo.Update(ctx, sale); err != nil {
		return nil, err
	}

	s.publish(ctx, sale, group)

	response := ToSaleResponse(sale)
	return &response, nil
}

// Cancel cancels a sale that has not been confirmed yet
func (s *SaleService) Cancel(ctx context.Context, rc shared.RunContext, saleID uuid.UUID) error {
	now := rc.Clock.Now()
	sale, err := s.saleRepo.FindByIDForUpdate(ctx, saleID)
	if err != nil {
		return err
	}
	if err := sale.Cancel(now); err != nil {
		return err
	}
	group, err := s.groupRepo.FindByIDForUpdate(ctx, sale.GroupID)
	if err != nil {
		return err
	}
	if err := group.Cancel(s.identifiers, now); err != nil {
		return err
	}
	if err := s.groupRepo.Save(ctx, group); err != nil {
		return err
	}
	return s.saleRepo.Update(ctx, sale)
}

func (s *SaleService) publish(ctx context.Context, sale *trade.Sale, group *payment.PaymentGroup) {
	if s.eventPublisher == nil {
		return
	}
	events := append(sale.GetDomainEvents(), group.GetDomainEvents()...)
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	sale.ClearDomainEvents()
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
	for i := range dates {
		dates[i] = first.AddDate(0, 0, (i+1)*intervalDays)
	}
	return dates
}
