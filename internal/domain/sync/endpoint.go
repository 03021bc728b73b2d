package sync

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Source is the fetch side of a replication link: it yields row changes
// newer than the watermark for one table, already filtered to the origin
// side its policy replicates.
type Source interface {
	Fetch(ctx context.Context, table TableSpec, since time.Time, limit int) ([]DeltaRecord, error)
}

// ApplyResult summarizes one applied batch
type ApplyResult struct {
	Applied     int `json:"applied"`
	Skipped     int `json:"skipped"`
	Quarantined int `json:"quarantined"`
}

// Destination is the apply side of a replication link. Apply runs the
// whole batch inside one transaction; an error means nothing of the batch
// is visible and the watermark must not advance.
type Destination interface {
	Apply(ctx context.Context, batch Batch) (*ApplyResult, error)
}

// BranchSyncRepository persists the per-(branch, policy) watermarks
type BranchSyncRepository interface {
	FindOrCreate(ctx context.Context, branchID uuid.UUID, policy Policy) (*BranchSynchronization, error)
	Update(ctx context.Context, b *BranchSynchronization) error
	ListByBranch(ctx context.Context, branchID uuid.UUID) ([]*BranchSynchronization, error)
}

// QuarantineStore keeps batches and records that repeatedly failed to
// apply, out of the replication path, for manual inspection.
type QuarantineStore interface {
	QuarantineBatch(ctx context.Context, branchID uuid.UUID, table string, batch Batch, reason string) error
	QuarantineRecord(ctx context.Context, branchID uuid.UUID, record DeltaRecord, reason string) error
}
