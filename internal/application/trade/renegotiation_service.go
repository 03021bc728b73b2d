package trade

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/retailcore/backend/internal/domain/payment"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/domain/shared/valueobject"
	"github.com/retailcore/backend/internal/domain/trade"
)

// RenegotiationService replaces the outstanding installments of one or more
// payment groups with a single fresh schedule.
type RenegotiationService struct {
	renegRepo      trade.RenegotiationRepository
	groupRepo      payment.GroupRepository
	methodRepo     payment.MethodRepository
	identifiers    shared.IdentifierFactory
	eventPublisher shared.EventPublisher
}

// NewRenegotiationService creates a new RenegotiationService
func NewRenegotiationService(
	renegRepo trade.RenegotiationRepository,
	groupRepo payment.GroupRepository,
	methodRepo payment.MethodRepository,
	identifiers shared.IdentifierFactory,
) *RenegotiationService {
	return &RenegotiationService{
		renegRepo:   renegRepo,
		groupRepo:   groupRepo,
		methodRepo:  methodRepo,
		identifiers: identifiers,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *RenegotiationService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Renegotiate cancels every open installment of the original groups and
// opens a new group carrying the renegotiated total.
func (s *RenegotiationService) Renegotiate(ctx context.Context, rc shared.RunContext, req RenegotiateRequest) (*RenegotiationResponse, error) {
	response, err := s.renegotiate(ctx, rc, req)
	if errors.Is(err, shared.ErrConcurrencyConflict) {
		response, err = s.renegotiate(ctx, rc, req)
	}
	return response, err
}

func (s *RenegotiationService) renegotiate(ctx context.Context, rc shared.RunContext, req RenegotiateRequest) (*RenegotiationResponse, error) {
	now := rc.Clock.Now()

	method, err := s.methodRepo.FindByType(ctx, payment.MethodType(req.MethodType))
	if err != nil {
		return nil, err
	}

	originals := make([]*payment.PaymentGroup, 0, len(req.GroupIDs))
	for _, groupID := range req.GroupIDs {
		group, err := s.groupRepo.FindByIDForUpdate(ctx, groupID)
		if err != nil {
			return nil, err
		}
		if _, err := group.CancelOutstanding(s.identifiers, now); err != nil {
			return nil, err
		}
		if err := group.Close(now); err != nil {
			return nil, err
		}
		originals = append(originals, group)
	}

	newGroup := payment.NewPaymentGroup(rc.BranchID, now)
	newGroup.SetPayer(req.ClientID)

	total := valueobject.NewMoneyBRL(req.Total)
	dueDates := installmentDueDates(now, req.Installments, req.IntervalDays)
	if _, err := newGroup.CreateInpayments(s.identifiers, method, total, dueDates, rc.Params.CurrencyPrecision, now); err != nil {
		return nil, err
	}
	if err := newGroup.SetPaymentsToPay(now); err != nil {
		return nil, err
	}

	reneg, err := trade.NewRenegotiationData(s.identifiers.Next(), rc.BranchID, req.ClientID, rc.UserID,
		newGroup.ID, req.GroupIDs, req.Total, req.PenaltyWaived, now)
	if err != nil {
		return nil, err
	}
	reneg.Notes = req.Notes

	for _, group := range originals {
		if err := s.groupRepo.Save(ctx, group); err != nil {
			return nil, err
		}
	}
	if err := s.groupRepo.Save(ctx, newGroup); err != nil {
		return nil, err
	}
	if err := s.renegRepo.Save(ctx, reneg); err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		for _, event := range reneg.GetDomainEvents() {
			_ = s.eventPublisher.Publish(ctx, event)
		}
		reneg.ClearDomainEvents()
	}

	response := ToRenegotiationResponse(reneg)
	return &response, nil
}

// GetByID loads one renegotiation record
func (s *RenegotiationService) GetByID(ctx context.Context, id uuid.UUID) (*RenegotiationResponse, error) {
	reneg, err := s.renegRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToRenegotiationResponse(reneg)
	return &response, nil
}
