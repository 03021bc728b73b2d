package sync

import (
	"time"

	"github.com/google/uuid"

	"github.com/retailcore/backend/internal/domain/shared"
)

// BranchSynchronization is the high-watermark row for one (branch, policy)
// pair: the latest te_time whose changes are known to be reflected on the
// other side. The watermark only ever moves forward, and only after the
// destination commit returns.
type BranchSynchronization struct {
	shared.BaseEntity
	BranchID  uuid.UUID
	Policy    Policy
	Watermark time.Time
}

// NewBranchSynchronization starts bookkeeping for a branch and policy with
// the zero watermark, so the first cycle replicates everything.
func NewBranchSynchronization(branchID uuid.UUID, policy Policy, now time.Time) (*BranchSynchronization, error) {
	if branchID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BRANCH", "Synchronization requires a branch")
	}
	if !policy.IsValid() {
		return nil, shared.NewDomainError("INVALID_POLICY", "Unknown synchronization policy")
	}
	return &BranchSynchronization{
		BaseEntity: shared.NewBaseEntity(now),
		BranchID:   branchID,
		Policy:     policy,
	}, nil
}

// Advance moves the watermark to the given te_time. Moving backwards is an
// invariant violation; advancing to the current watermark is a no-op.
func (b *BranchSynchronization) Advance(appliedThrough time.Time, now time.Time) error {
	applied := appliedThrough.UTC()
	if applied.Before(b.Watermark) {
		return shared.NewInvariantViolation("WATERMARK_REGRESSION",
			"synchronization watermark cannot move backwards")
	}
	if applied.Equal(b.Watermark) {
		return nil
	}
	b.Watermark = applied
	b.UpdatedAt = now
	return nil
}
