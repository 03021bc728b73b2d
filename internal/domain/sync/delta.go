package sync

import (
	"time"

	"github.com/google/uuid"

	"github.com/retailcore/backend/internal/domain/shared"
)

// DeltaRecord is one replicated row change. Payload is the full row
// without surrogate keys; identities resolve at the destination through
// the natural key (TEID, OriginBranchID).
type DeltaRecord struct {
	Table          string         `json:"table"`
	TEID           int64          `json:"te_id"`
	TETime         time.Time      `json:"te_time"`
	StationID      uuid.UUID      `json:"station_id"`
	OriginBranchID uuid.UUID      `json:"origin_branch_id"`
	Type           EntryType      `json:"type"`
	Payload        map[string]any `json:"payload"`
}

// Validate rejects records a well-formed peer would never send
func (r *DeltaRecord) Validate() error {
	if r.Table == "" {
		return shared.NewDomainError("DATA_ERROR", "Delta record without a table")
	}
	if r.TEID <= 0 {
		return shared.NewDomainError("DATA_ERROR", "Delta record without a transaction entry")
	}
	if r.TETime.IsZero() {
		return shared.NewDomainError("DATA_ERROR", "Delta record without a te_time")
	}
	if r.OriginBranchID == uuid.Nil {
		return shared.NewDomainError("DATA_ERROR", "Delta record without an origin branch")
	}
	if !r.Type.IsValid() {
		return shared.NewDomainError("DATA_ERROR", "Delta record with an unknown change type")
	}
	return nil
}

// NaturalKey identifies a replicated row across the whole installation
type NaturalKey struct {
	TEID           int64
	OriginBranchID uuid.UUID
}

// Key returns the record's destination-side identity
func (r *DeltaRecord) Key() NaturalKey {
	return NaturalKey{TEID: r.TEID, OriginBranchID: r.OriginBranchID}
}

// BatchFooter terminates a framed batch and tells the destination which
// te_time the watermark may advance to once the batch commits.
type BatchFooter struct {
	BatchEnd              bool      `json:"batch_end"`
	AppliedThroughTETime  time.Time `json:"applied_through_te_time"`
}

// Batch is one transport unit: the records of a fetch window plus the
// footer that closes it.
type Batch struct {
	Records []DeltaRecord
	Footer  BatchFooter
}

// NewBatch builds a batch whose footer carries the newest te_time among
// the records, or the given watermark when the window was empty.
func NewBatch(records []DeltaRecord, watermark time.Time) Batch {
	newest := watermark
	for _, r := range records {
		if r.TETime.After(newest) {
			newest = r.TETime
		}
	}
	return Batch{
		Records: records,
		Footer:  BatchFooter{BatchEnd: true, AppliedThroughTETime: newest},
	}
}
