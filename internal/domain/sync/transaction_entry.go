package sync

import (
	"time"

	"github.com/google/uuid"
)

// EntryType records how a synchronized row last changed
type EntryType string

const (
	EntryCreated  EntryType = "created"
	EntryModified EntryType = "modified"
)

// IsValid checks if the type is a known EntryType
func (t EntryType) IsValid() bool {
	return t == EntryCreated || t == EntryModified
}

// String returns the string representation of EntryType
func (t EntryType) String() string {
	return string(t)
}

// TransactionEntry is the change marker every synchronized row points at.
// TETime is refreshed by the persistence layer on every update, so
// (TETime, StationID) forms the row's vector clock.
type TransactionEntry struct {
	ID        int64
	TETime    time.Time
	UserID    uuid.UUID
	StationID uuid.UUID
	Type      EntryType
}

// NewTransactionEntry marks a freshly created row
func NewTransactionEntry(id int64, userID, stationID uuid.UUID, now time.Time) *TransactionEntry {
	return &TransactionEntry{
		ID:        id,
		TETime:    now.UTC(),
		UserID:    userID,
		StationID: stationID,
		Type:      EntryCreated,
	}
}

// MarkModified refreshes the entry for a row update
func (e *TransactionEntry) MarkModified(userID, stationID uuid.UUID, now time.Time) {
	e.TETime = now.UTC()
	e.UserID = userID
	e.StationID = stationID
	e.Type = EntryModified
}
