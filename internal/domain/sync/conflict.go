package sync

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// RowVersion is the vector clock of a destination row: when it last
// changed and on which station.
type RowVersion struct {
	TETime    time.Time
	StationID uuid.UUID
}

// Resolution is the outcome of comparing an incoming record against the
// destination row.
type Resolution int

const (
	// ApplyIncoming means the incoming record wins and overwrites the row
	ApplyIncoming Resolution = iota
	// KeepLocal means the destination row is newer and the record is skipped
	KeepLocal
)

// Resolve decides a write conflict by last-writer-wins on te_time, ties
// broken by station id lexicographically. Equal versions resolve to
// KeepLocal, which is what makes a double apply a no-op.
func Resolve(incoming RowVersion, local *RowVersion) Resolution {
	if local == nil {
		return ApplyIncoming
	}
	if incoming.TETime.After(local.TETime) {
		return ApplyIncoming
	}
	if incoming.TETime.Before(local.TETime) {
		return KeepLocal
	}
	if strings.Compare(incoming.StationID.String(), local.StationID.String()) > 0 {
		return ApplyIncoming
	}
	return KeepLocal
}
