package payment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailcore/backend/internal/domain/payment"
	"github.com/retailcore/backend/internal/domain/shared"
)

// TillService opens and closes the per-station cash drawer. At most one
// till per station may be open; open and close run under the station's
// advisory lock so two terminals cannot race the invariant.
type TillService struct {
	tillRepo       payment.TillRepository
	paymentRepo    payment.PaymentRepository
	groupRepo      payment.GroupRepository
	eventPublisher shared.EventPublisher
}

// NewTillService creates a new TillService
func NewTillService(tillRepo payment.TillRepository, paymentRepo payment.PaymentRepository, groupRepo payment.GroupRepository) *TillService {
	return &TillService{tillRepo: tillRepo, paymentRepo: paymentRepo, groupRepo: groupRepo}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *TillService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Open opens the station's till with the given opening cash
func (s *TillService) Open(ctx context.Context, rc shared.RunContext, req OpenTillRequest) (*TillResponse, error) {
	var response *TillResponse
	err := s.tillRepo.WithStationLock(ctx, rc.StationID, func(ctx context.Context) error {
		_, err := s.tillRepo.FindOpenByStation(ctx, rc.StationID)
		if err == nil {
			return shared.NewInvariantViolation("TILL_ALREADY_OPEN",
				"the station already has an open till")
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return err
		}

		till, err := payment.OpenTill(rc.StationID, rc.BranchID, rc.UserID, req.InitialCash, rc.Clock.Now())
		if err != nil {
			return err
		}
		if err := s.tillRepo.Save(ctx, till); err != nil {
			return err
		}
		s.publish(ctx, till)
		r := ToTillResponse(till)
		response = &r
		return nil
	})
	return response, err
}

// Current returns the station's open till
func (s *TillService) Current(ctx context.Context, rc shared.RunContext) (*TillResponse, error) {
	till, err := s.tillRepo.FindOpenByStation(ctx, rc.StationID)
	if err != nil {
		return nil, err
	}
	response := ToTillResponse(till)
	return &response, nil
}

// AddCredit records money entering the station's open drawer
func (s *TillService) AddCredit(ctx context.Context, rc shared.RunContext, description string, value decimal.Decimal, paymentID *uuid.UUID) error {
	return s.tillRepo.WithStationLock(ctx, rc.StationID, func(ctx context.Context) error {
		till, err := s.tillRepo.FindOpenByStation(ctx, rc.StationID)
		if err != nil {
			return err
		}
		if err := till.AddCredit(description, value, paymentID, rc.Clock.Now()); err != nil {
			return err
		}
		return s.tillRepo.Save(ctx, till)
	})
}

// AddDebit records money leaving the station's open drawer
func (s *TillService) AddDebit(ctx context.Context, rc shared.RunContext, description string, value decimal.Decimal, paymentID *uuid.UUID) error {
	return s.tillRepo.WithStationLock(ctx, rc.StationID, func(ctx context.Context) error {
		till, err := s.tillRepo.FindOpenByStation(ctx, rc.StationID)
		if err != nil {
			return err
		}
		if err := till.AddDebit(description, value, paymentID, rc.Clock.Now()); err != nil {
			return err
		}
		return s.tillRepo.Save(ctx, till)
	})
}

// Close closes the station's till. A shortfall comes back as a warning in
// the response, never as an error.
func (s *TillService) Close(ctx context.Context, rc shared.RunContext, req CloseTillRequest) (*TillClosingResponse, error) {
	var response *TillClosingResponse
	err := s.tillRepo.WithStationLock(ctx, rc.StationID, func(ctx context.Context) error {
		till, err := s.tillRepo.FindOpenByStation(ctx, rc.StationID)
		if err != nil {
			return err
		}
		summary, err := till.Close(req.FinalCash, rc.UserID, req.Observations, rc.Clock.Now())
		if err != nil {
			return err
		}
		if err := s.tillRepo.Save(ctx, till); err != nil {
			return err
		}
		if err := s.freezeDayEntries(ctx, till, rc.Clock.Now()); err != nil {
			return err
		}
		s.publish(ctx, till)
		response = &TillClosingResponse{
			ExpectedCash: summary.ExpectedCash,
			FinalCash:    summary.FinalCash,
			Difference:   summary.Difference,
			HasShortfall: summary.HasShortfall,
		}
		return nil
	})
	return response, err
}

// freezeDayEntries settles the money payments still to pay from the till
// session. The cash was received into the drawer during the day, so
// closing the drawer realizes those obligations.
func (s *TillService) freezeDayEntries(ctx context.Context, till *payment.Till, now time.Time) error {
	status := payment.StatusToPay
	method := payment.MethodMoney
	open, err := s.paymentRepo.FindAll(ctx, payment.PaymentFilter{Status: &status, Method: &method})
	if err != nil {
		return err
	}

	closedAt := now
	if till.ClosingDate != nil {
		closedAt = *till.ClosingDate
	}
	groupIDs := make(map[uuid.UUID]struct{})
	for _, p := range open {
		if p.CreatedAt.Before(till.OpeningDate) || p.CreatedAt.After(closedAt) {
			continue
		}
		groupIDs[p.GroupID] = struct{}{}
	}

	for groupID := range groupIDs {
		group, err := s.groupRepo.FindByIDForUpdate(ctx, groupID)
		if err != nil {
			return err
		}
		if group.BranchID != till.BranchID {
			continue
		}
		frozen, err := group.FreezeMoneyEntries(till.OpeningDate, closedAt, now)
		if err != nil {
			return err
		}
		if frozen == 0 {
			continue
		}
		if err := s.groupRepo.Save(ctx, group); err != nil {
			return err
		}
		s.publishGroup(ctx, group)
	}
	return nil
}

func (s *TillService) publishGroup(ctx context.Context, group *payment.PaymentGroup) {
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

func (s *TillService) publish(ctx context.Context, till *payment.Till) {
	if s.eventPublisher == nil {
		return
	}
	events := till.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	till.ClearDomainEvents()
}
