package payment

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/retailcore/backend/internal/domain/payment"
	"github.com/retailcore/backend/internal/domain/shared"
)

// PaymentService mutates payments through their owning group, which is
// loaded under a row lock, and answers the flow history query.
type PaymentService struct {
	groupRepo      payment.GroupRepository
	paymentRepo    payment.PaymentRepository
	identifiers    shared.IdentifierFactory
	eventPublisher shared.EventPublisher
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(groupRepo payment.GroupRepository, paymentRepo payment.PaymentRepository, identifiers shared.IdentifierFactory) *PaymentService {
	return &PaymentService{
		groupRepo:   groupRepo,
		paymentRepo: paymentRepo,
		identifiers: identifiers,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *PaymentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// GetGroup retrieves a payment group with its payments
func (s *PaymentService) GetGroup(ctx context.Context, groupID uuid.UUID) (*GroupResponse, error) {
	group, err := s.groupRepo.FindByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	response := ToGroupResponse(group)
	return &response, nil
}

// Pay settles one payment of a group. An explicit amount books the
// difference over value - discount + interest as penalty.
func (s *PaymentService) Pay(ctx context.Context, rc shared.RunContext, groupID, paymentID uuid.UUID, req PayRequest) (*GroupResponse, error) {
	response, err := s.pay(ctx, rc, groupID, paymentID, req)
	if errors.Is(err, shared.ErrConcurrencyConflict) {
		response, err = s.pay(ctx, rc, groupID, paymentID, req)
	}
	return response, err
}

func (s *PaymentService) pay(ctx context.Context, rc shared.RunContext, groupID, paymentID uuid.UUID, req PayRequest) (*GroupResponse, error) {
	now := rc.Clock.Now()
	group, err := s.groupRepo.FindByIDForUpdate(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if req.Amount != nil {
		p, err := findPayment(group, paymentID)
		if err != nil {
			return nil, err
		}
		if err := p.PayAmount(*req.Amount, req.PaidDate, now); err != nil {
			return nil, err
		}
		group.AddDomainEvent(payment.NewPaymentConfirmedEvent(group, p, now))
	} else if err := group.Pay(paymentID, req.PaidDate, now); err != nil {
		return nil, err
	}

	if err := s.groupRepo.Save(ctx, group); err != nil {
		return nil, err
	}
	s.publish(ctx, group)

	response := ToGroupResponse(group)
	return &response, nil
}

// CancelPayment cancels one payment, appending its negative sibling
func (s *PaymentService) CancelPayment(ctx context.Context, rc shared.RunContext, groupID, paymentID uuid.UUID) (*GroupResponse, error) {
	now := rc.Clock.Now()
	group, err := s.groupRepo.FindByIDForUpdate(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if _, err := group.CancelPayment(s.identifiers, paymentID, now); err != nil {
		return nil, err
	}
	if err := s.groupRepo.Save(ctx, group); err != nil {
		return nil, err
	}
	s.publish(ctx, group)

	response := ToGroupResponse(group)
	return &response, nil
}

// FlowHistory aggregates payments into per-day rows over a date range
func (s *PaymentService) FlowHistory(ctx context.Context, req FlowHistoryRequest) ([]FlowHistoryDayResponse, error) {
	payments, err := s.paymentRepo.FindForFlowHistory(ctx)
	if err != nil {
		return nil, err
	}
	rows := payment.ComputeFlowHistory(payments, req.Start, req.End, req.IncludeDivergent)

	out := make([]FlowHistoryDayResponse, 0, len(rows))
	for _, row := range rows {
		divergent := make([]PaymentResponse, 0, len(row.Divergent))
		for _, p := range row.Divergent {
			divergent = append(divergent, ToPaymentResponse(p))
		}
		out = append(out, FlowHistoryDayResponse{
			Date:            row.Date,
			ToPayCount:      row.ToPayCount,
			ToPay:           row.ToPay,
			PaidCount:       row.PaidCount,
			Paid:            row.Paid,
			ToReceiveCount:  row.ToReceiveCount,
			ToReceive:       row.ToReceive,
			ReceivedCount:   row.ReceivedCount,
			Received:        row.Received,
			PreviousBalance: row.PreviousBalance,
			BalanceExpected: row.BalanceExpected,
			BalanceReal:     row.BalanceReal,
			Divergent:       divergent,
		})
	}
	return out, nil
}

func (s *PaymentService) publish(ctx context.Context, group *payment.PaymentGroup) {
	if s.eventPublisher == nil {
		return
	}
	events := group.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	group.ClearDomainEvents()
}

func findPayment(group *payment.PaymentGroup, paymentID uuid.UUID) (*payment.Payment, error) {
	for _, p := range group.Payments {
		if p.ID == paymentID {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}
