package sync

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/domain/sync"
)

// Config tunes one replication link
type Config struct {
	// Side is the end of the link this process runs on
	Side sync.Side
	// BatchSize caps the records fetched per cycle and table
	BatchSize int
	// ApplyAttempts is how many times a batch is offered to the
	// destination before it is quarantined
	ApplyAttempts int
	// RetryInterval seeds the exponential backoff between attempts
	RetryInterval time.Duration
	// Interval is the pause between cycles when running continuously
	Interval time.Duration
}

// CycleReport summarizes one synchronization cycle for a branch
type CycleReport struct {
	BranchID    uuid.UUID
	Policy      sync.Policy
	Fetched     int
	Applied     int
	Skipped     int
	Quarantined int
	Watermark   time.Time
}

// Coordinator drives replication for one branch: fetch changes past the
// watermark, ship them as a batch, apply them at the destination and only
// then advance the watermark. A batch that never applies is quarantined
// so one poisoned window cannot stall the link forever.
type Coordinator struct {
	registry   *sync.Registry
	source     sync.Source
	dest       sync.Destination
	syncRepo   sync.BranchSyncRepository
	quarantine sync.QuarantineStore
	clock      shared.Clock
	logger     *zap.Logger
	cfg        Config
}

// NewCoordinator creates a coordinator over a fetch source and an apply
// destination
func NewCoordinator(
	registry *sync.Registry,
	source sync.Source,
	dest sync.Destination,
	syncRepo sync.BranchSyncRepository,
	quarantine sync.QuarantineStore,
	clock shared.Clock,
	logger *zap.Logger,
	cfg Config,
) *Coordinator {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = shared.DefaultParameters().SyncBatchSize
	}
	if cfg.ApplyAttempts <= 0 {
		cfg.ApplyAttempts = 3
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = time.Second
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if clock == nil {
		clock = shared.SystemClock{}
	}
	return &Coordinator{
		registry:   registry,
		source:     source,
		dest:       dest,
		syncRepo:   syncRepo,
		quarantine: quarantine,
		clock:      clock,
		logger:     logger,
		cfg:        cfg,
	}
}

// Run freezes the table registry and synchronizes the branch on the
// configured interval until the context is cancelled.
func (c *Coordinator) Run(ctx context.Context, branchID uuid.UUID) error {
	c.registry.Freeze()
	ticker := time.NewTicker(c.cfg.Interval)
	defer ticker.Stop()
	for {
		if _, err := c.SyncBranch(ctx, branchID); err != nil {
			c.logger.Error("synchronization cycle failed",
				zap.String("branch_id", branchID.String()),
				zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// SyncBranch runs one cycle for every policy that carries changes
// originating on this side.
func (c *Coordinator) SyncBranch(ctx context.Context, branchID uuid.UUID) ([]CycleReport, error) {
	policies := []sync.Policy{sync.PolicyShopToOffice, sync.PolicyOfficeToShop, sync.PolicyBidirectional}
	reports := make([]CycleReport, 0, len(policies))
	for _, policy := range policies {
		if !policy.Replicates(c.cfg.Side) {
			continue
		}
		report, err := c.syncPolicy(ctx, branchID, policy)
		if err != nil {
			return reports, err
		}
		reports = append(reports, *report)
	}
	return reports, nil
}

// syncPolicy replicates every table under one policy past the branch
// watermark and advances it once the batch has committed remotely.
func (c *Coordinator) syncPolicy(ctx context.Context, branchID uuid.UUID, policy sync.Policy) (*CycleReport, error) {
	bs, err := c.syncRepo.FindOrCreate(ctx, branchID, policy)
	if err != nil {
		return nil, err
	}
	report := &CycleReport{BranchID: branchID, Policy: policy, Watermark: bs.Watermark}

	tables, err := c.registry.Tables()
	if err != nil {
		return nil, err
	}

	// The watermark is shared by every table under the policy, so it may
	// only advance to a point below which each table's window is known
	// complete. A table whose fetch hit the batch cap is complete only
	// below its last fetched te_time; rows at exactly that instant may
	// sit beyond the cap. Capping the advance at the instant just below
	// it leaves them for the next cycle. When the capped page holds a
	// single instant the watermark moves onto it anyway, otherwise the
	// cycle could never make progress past that row.
	var window []sync.DeltaRecord
	capped := false
	safeThrough := time.Time{}
	for _, table := range tables {
		if table.Policy != policy {
			continue
		}
		records, err := c.source.Fetch(ctx, table, bs.Watermark, c.cfg.BatchSize)
		if err != nil {
			return nil, err
		}
		window = append(window, records...)
		if len(records) == c.cfg.BatchSize {
			last := records[len(records)-1].TETime
			complete := last
			for _, rec := range records {
				if rec.TETime.Before(last) && (complete.Equal(last) || rec.TETime.After(complete)) {
					complete = rec.TETime
				}
			}
			if !capped || complete.Before(safeThrough) {
				safeThrough = complete
			}
			capped = true
		}
	}
	report.Fetched = len(window)

	valid := make([]sync.DeltaRecord, 0, len(window))
	for _, rec := range window {
		if err := rec.Validate(); err != nil {
			if qerr := c.quarantine.QuarantineRecord(ctx, branchID, rec, err.Error()); qerr != nil {
				return nil, qerr
			}
			report.Quarantined++
			continue
		}
		valid = append(valid, rec)
	}

	// Quarantined records still move the watermark, otherwise one
	// poisoned row would be refetched every cycle.
	newest := bs.Watermark
	for _, rec := range window {
		if rec.TETime.After(newest) {
			newest = rec.TETime
		}
	}
	if capped && safeThrough.Before(newest) {
		newest = safeThrough
	}

	ordered, err := c.registry.ApplyOrder(valid)
	if err != nil {
		return nil, err
	}
	if len(ordered) == 0 {
		if newest.After(bs.Watermark) {
			now := c.clock.Now()
			if err := bs.Advance(newest, now); err != nil {
				return nil, err
			}
			if err := c.syncRepo.Update(ctx, bs); err != nil {
				return nil, err
			}
			report.Watermark = bs.Watermark
		}
		return report, nil
	}
	batch := sync.NewBatch(ordered, bs.Watermark)

	result, err := c.apply(ctx, batch)
	if err != nil {
		// A dead transport heals on its own; leave the watermark where
		// it is and let the next cycle retry the same window.
		if errors.Is(err, shared.ErrTransportFailure) {
			return nil, err
		}
		if qerr := c.quarantine.QuarantineBatch(ctx, branchID, policy.String(), batch, err.Error()); qerr != nil {
			return nil, qerr
		}
		report.Quarantined += len(batch.Records)
		c.logger.Warn("batch quarantined",
			zap.String("branch_id", branchID.String()),
			zap.String("policy", policy.String()),
			zap.Int("records", len(batch.Records)),
			zap.Error(err))
		if err := bs.Advance(newest, c.clock.Now()); err != nil {
			return nil, err
		}
		if err := c.syncRepo.Update(ctx, bs); err != nil {
			return nil, err
		}
		report.Watermark = bs.Watermark
		return report, nil
	}
	report.Applied = result.Applied
	report.Skipped = result.Skipped
	report.Quarantined += result.Quarantined

	now := c.clock.Now()
	if err := bs.Advance(newest, now); err != nil {
		return nil, err
	}
	if err := c.syncRepo.Update(ctx, bs); err != nil {
		return nil, err
	}
	report.Watermark = bs.Watermark

	c.logger.Info("cycle completed",
		zap.String("branch_id", branchID.String()),
		zap.String("policy", policy.String()),
		zap.Int("applied", report.Applied),
		zap.Int("skipped", report.Skipped),
		zap.Time("watermark", report.Watermark))
	return report, nil
}

// apply offers the batch to the destination, retrying transport failures
// with exponential backoff. Any other error aborts immediately since the
// destination already saw and rejected the batch content.
func (c *Coordinator) apply(ctx context.Context, batch sync.Batch) (*sync.ApplyResult, error) {
	policy := backoff.WithContext(
		backoff.WithMaxRetries(
			backoff.NewExponentialBackOff(backoff.WithInitialInterval(c.cfg.RetryInterval)),
			uint64(c.cfg.ApplyAttempts-1)),
		ctx)

	var result *sync.ApplyResult
	operation := func() error {
		r, err := c.dest.Apply(ctx, batch)
		if err != nil {
			if errors.Is(err, shared.ErrTransportFailure) {
				return err
			}
			return backoff.Permanent(err)
		}
		result = r
		return nil
	}
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return result, nil
}

// Status returns the branch's watermarks over every policy
func (c *Coordinator) Status(ctx context.Context, branchID uuid.UUID) ([]*sync.BranchSynchronization, error) {
	return c.syncRepo.ListByBranch(ctx, branchID)
}
