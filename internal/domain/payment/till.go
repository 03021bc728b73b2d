package payment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailcore/backend/internal/domain/shared"
)

// TillStatus represents the state of a cash drawer session
type TillStatus string

const (
	TillStatusOpened TillStatus = "OPENED"
	TillStatusClosed TillStatus = "CLOSED"
)

// IsValid checks if the status is a valid TillStatus
func (s TillStatus) IsValid() bool {
	return s == TillStatusOpened || s == TillStatusClosed
}

// String returns the string representation of TillStatus
func (s TillStatus) String() string {
	return string(s)
}

// TillEntry is one cash movement inside a till session. Value is signed:
// positive for money in, negative for money out.
type TillEntry struct {
	ID          uuid.UUID
	TillID      uuid.UUID
	PaymentID   *uuid.UUID
	Description string
	Value       decimal.Decimal
	CreatedAt   time.Time
}

// TillClosingSummary is the arithmetic result of closing a till. A cash
// shortfall is reported here as a warning, never as a hard failure.
type TillClosingSummary struct {
	ExpectedCash decimal.Decimal
	FinalCash    decimal.Decimal
	Difference   decimal.Decimal
	HasShortfall bool
}

// Till is the cash drawer of one station during one open/close cycle. At
// most one till per station may be open at any time; the repository
// serializes open/close under the station's advisory lock.
type Till struct {
	shared.BaseAggregateRoot
	StationID          uuid.UUID
	BranchID           uuid.UUID
	Status             TillStatus
	InitialCash        decimal.Decimal
	FinalCash          decimal.Decimal
	ResponsibleOpenID  uuid.UUID
	ResponsibleCloseID *uuid.UUID
	OpeningDate        time.Time
	ClosingDate        *time.Time
	Observations       string
	Entries            []*TillEntry
}

// OpenTill opens a till session recording the opening cash and the
// responsible user.
func OpenTill(stationID, branchID, responsibleID uuid.UUID, initialCash decimal.Decimal, now time.Time) (*Till, error) {
	if stationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STATION", "Till requires a station")
	}
	if initialCash.IsNegative() {
		return nil, shared.NewDomainError("INVALID_CASH", "Opening cash cannot be negative")
	}
	t := &Till{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(now),
		StationID:         stationID,
		BranchID:          branchID,
		Status:            TillStatusOpened,
		InitialCash:       initialCash,
		ResponsibleOpenID: responsibleID,
		OpeningDate:       now,
	}
	t.AddDomainEvent(NewTillOpenedEvent(t, now))
	return t, nil
}

// AddCredit records money entering the drawer
func (t *Till) AddCredit(description string, value decimal.Decimal, paymentID *uuid.UUID, now time.Time) error {
	if t.Status != TillStatusOpened {
		return shared.NewInvalidStateTransition("Till", t.Status.String(), t.Status.String())
	}
	if !value.IsPositive() {
		return shared.NewDomainError("INVALID_CASH", "Credit value must be positive")
	}
	t.appendEntry(description, value, paymentID, now)
	return nil
}

// AddDebit records money leaving the drawer
func (t *Till) AddDebit(description string, value decimal.Decimal, paymentID *uuid.UUID, now time.Time) error {
	if t.Status != TillStatusOpened {
		return shared.NewInvalidStateTransition("Till", t.Status.String(), t.Status.String())
	}
	if !value.IsPositive() {
		return shared.NewDomainError("INVALID_CASH", "Debit value must be positive")
	}
	t.appendEntry(description, value.Neg(), paymentID, now)
	return nil
}

// ExpectedCash returns opening cash plus the signed sum of all entries
func (t *Till) ExpectedCash() decimal.Decimal {
	total := t.InitialCash
	for _, e := range t.Entries {
		total = total.Add(e.Value)
	}
	return total
}

// Close ends the session, recording final cash, the responsible user and
// observations. A final cash below the expected amount is a shortfall
// warning in the summary, not an error.
func (t *Till) Close(finalCash decimal.Decimal, responsibleID uuid.UUID, observations string, now time.Time) (*TillClosingSummary, error) {
	if t.Status != TillStatusOpened {
		return nil, shared.NewInvalidStateTransition("Till", t.Status.String(), TillStatusClosed.String())
	}
	if finalCash.IsNegative() {
		return nil, shared.NewDomainError("INVALID_CASH", "Final cash cannot be negative")
	}

	expected := t.ExpectedCash()
	summary := &TillClosingSummary{
		ExpectedCash: expected,
		FinalCash:    finalCash,
		Difference:   finalCash.Sub(expected),
		HasShortfall: finalCash.LessThan(expected),
	}

	t.Status = TillStatusClosed
	t.FinalCash = finalCash
	t.ResponsibleCloseID = &responsibleID
	t.ClosingDate = &now
	t.Observations = observations
	t.Touch(now)
	t.AddDomainEvent(NewTillClosedEvent(t, summary, now))
	return summary, nil
}

func (t *Till) appendEntry(description string, value decimal.Decimal, paymentID *uuid.UUID, now time.Time) {
	t.Entries = append(t.Entries, &TillEntry{
		ID:          uuid.New(),
		TillID:      t.ID,
		PaymentID:   paymentID,
		Description: description,
		Value:       value,
		CreatedAt:   now,
	})
	t.Touch(now)
}
