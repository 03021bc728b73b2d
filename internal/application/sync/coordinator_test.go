package sync

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/domain/sync"
)

var testNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

// fakeSource serves canned records per table, honoring the watermark
type fakeSource struct {
	records []sync.DeltaRecord
	// ignoreSince simulates a peer that re-delivers already-seen records
	ignoreSince bool
}

func (s *fakeSource) Fetch(_ context.Context, table sync.TableSpec, since time.Time, limit int) ([]sync.DeltaRecord, error) {
	var out []sync.DeltaRecord
	for _, rec := range s.records {
		if rec.Table != table.Name {
			continue
		}
		if !s.ignoreSince && !rec.TETime.After(since) {
			continue
		}
		out = append(out, rec)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// fakeDestination applies batches with last-writer-wins over the natural
// key, optionally failing the first few attempts.
type fakeDestination struct {
	versions    map[sync.NaturalKey]sync.RowVersion
	applied     []sync.DeltaRecord
	attempts    int
	failuresLeft int
	failWith    error
}

func newFakeDestination() *fakeDestination {
	return &fakeDestination{versions: make(map[sync.NaturalKey]sync.RowVersion)}
}

func (d *fakeDestination) Apply(_ context.Context, batch sync.Batch) (*sync.ApplyResult, error) {
	d.attempts++
	if d.failuresLeft > 0 {
		d.failuresLeft--
		return nil, d.failWith
	}
	result := &sync.ApplyResult{}
	for _, rec := range batch.Records {
		incoming := sync.RowVersion{TETime: rec.TETime, StationID: rec.StationID}
		var local *sync.RowVersion
		if v, ok := d.versions[rec.Key()]; ok {
			local = &v
		}
		if sync.Resolve(incoming, local) == sync.KeepLocal {
			result.Skipped++
			continue
		}
		d.versions[rec.Key()] = incoming
		d.applied = append(d.applied, rec)
		result.Applied++
	}
	return result, nil
}

// fakeSyncRepo keeps watermarks in memory
type fakeSyncRepo struct {
	rows map[sync.Policy]*sync.BranchSynchronization
}

func newFakeSyncRepo() *fakeSyncRepo {
	return &fakeSyncRepo{rows: make(map[sync.Policy]*sync.BranchSynchronization)}
}

func (r *fakeSyncRepo) FindOrCreate(_ context.Context, branchID uuid.UUID, policy sync.Policy) (*sync.BranchSynchronization, error) {
	if bs, ok := r.rows[policy]; ok {
		return bs, nil
	}
	bs, err := sync.NewBranchSynchronization(branchID, policy, testNow)
	if err != nil {
		return nil, err
	}
	r.rows[policy] = bs
	return bs, nil
}

func (r *fakeSyncRepo) Update(_ context.Context, bs *sync.BranchSynchronization) error {
	r.rows[bs.Policy] = bs
	return nil
}

func (r *fakeSyncRepo) ListByBranch(_ context.Context, _ uuid.UUID) ([]*sync.BranchSynchronization, error) {
	out := make([]*sync.BranchSynchronization, 0, len(r.rows))
	for _, bs := range r.rows {
		out = append(out, bs)
	}
	return out, nil
}

// fakeQuarantine records what was set aside
type fakeQuarantine struct {
	batches []sync.Batch
	records []sync.DeltaRecord
}

func (q *fakeQuarantine) QuarantineBatch(_ context.Context, _ uuid.UUID, _ string, batch sync.Batch, _ string) error {
	q.batches = append(q.batches, batch)
	return nil
}

func (q *fakeQuarantine) QuarantineRecord(_ context.Context, _ uuid.UUID, record sync.DeltaRecord, _ string) error {
	q.records = append(q.records, record)
	return nil
}

type coordinatorFixture struct {
	registry   *sync.Registry
	source     *fakeSource
	dest       *fakeDestination
	syncRepo   *fakeSyncRepo
	quarantine *fakeQuarantine
	branchID   uuid.UUID
	coordinator *Coordinator
}

func newCoordinatorFixture(t *testing.T) *coordinatorFixture {
	t.Helper()
	f := &coordinatorFixture{
		registry:   sync.NewRegistry(),
		source:     &fakeSource{},
		dest:       newFakeDestination(),
		syncRepo:   newFakeSyncRepo(),
		quarantine: &fakeQuarantine{},
		branchID:   uuid.New(),
	}
	require.NoError(t, f.registry.Register(sync.TableSpec{Name: "person", Policy: sync.PolicyShopToOffice}))
	require.NoError(t, f.registry.Register(sync.TableSpec{Name: "sale", Policy: sync.PolicyShopToOffice, DependsOn: []string{"person"}}))
	f.coordinator = NewCoordinator(
		f.registry, f.source, f.dest, f.syncRepo, f.quarantine,
		shared.FixedClock{Instant: testNow}, zap.NewNop(),
		Config{Side: sync.SideShop, BatchSize: 100, ApplyAttempts: 3, RetryInterval: time.Millisecond})
	return f
}

func (f *coordinatorFixture) record(table string, teid int64, teTime time.Time) sync.DeltaRecord {
	return sync.DeltaRecord{
		Table:          table,
		TEID:           teid,
		TETime:         teTime,
		StationID:      uuid.New(),
		OriginBranchID: f.branchID,
		Type:           sync.EntryCreated,
		Payload:        map[string]any{"name": "x"},
	}
}

func shopReport(t *testing.T, reports []CycleReport) CycleReport {
	t.Helper()
	for _, r := range reports {
		if r.Policy == sync.PolicyShopToOffice {
			return r
		}
	}
	t.Fatal("no report for SHOP_TO_OFFICE")
	return CycleReport{}
}

func TestCoordinator_SyncBranch(t *testing.T) {
	f := newCoordinatorFixture(t)
	f.source.records = []sync.DeltaRecord{
		f.record("sale", 3, testNow.Add(3*time.Minute)),
		f.record("person", 1, testNow.Add(time.Minute)),
		f.record("person", 2, testNow.Add(2*time.Minute)),
	}

	reports, err := f.coordinator.SyncBranch(context.Background(), f.branchID)
	require.NoError(t, err)

	report := shopReport(t, reports)
	assert.Equal(t, 3, report.Fetched)
	assert.Equal(t, 3, report.Applied)
	assert.True(t, report.Watermark.Equal(testNow.Add(3*time.Minute)))

	// referencing rows land after their targets, persons in te_time order
	require.Len(t, f.dest.applied, 3)
	assert.Equal(t, "person", f.dest.applied[0].Table)
	assert.Equal(t, int64(1), f.dest.applied[0].TEID)
	assert.Equal(t, "person", f.dest.applied[1].Table)
	assert.Equal(t, "sale", f.dest.applied[2].Table)
}

func TestCoordinator_SecondCycleFetchesNothing(t *testing.T) {
	f := newCoordinatorFixture(t)
	f.source.records = []sync.DeltaRecord{f.record("person", 1, testNow.Add(time.Minute))}

	_, err := f.coordinator.SyncBranch(context.Background(), f.branchID)
	require.NoError(t, err)
	reports, err := f.coordinator.SyncBranch(context.Background(), f.branchID)
	require.NoError(t, err)

	assert.Equal(t, 0, shopReport(t, reports).Fetched)
	assert.Equal(t, 1, len(f.dest.applied))
}

func TestCoordinator_RedeliveredRecordsAreSkipped(t *testing.T) {
	f := newCoordinatorFixture(t)
	f.source.ignoreSince = true
	f.source.records = []sync.DeltaRecord{f.record("person", 1, testNow.Add(time.Minute))}

	_, err := f.coordinator.SyncBranch(context.Background(), f.branchID)
	require.NoError(t, err)
	reports, err := f.coordinator.SyncBranch(context.Background(), f.branchID)
	require.NoError(t, err)

	report := shopReport(t, reports)
	assert.Equal(t, 0, report.Applied)
	assert.Equal(t, 1, report.Skipped)
	assert.Len(t, f.dest.applied, 1)
}

func TestCoordinator_RetriesTransportFailure(t *testing.T) {
	f := newCoordinatorFixture(t)
	f.source.records = []sync.DeltaRecord{f.record("person", 1, testNow.Add(time.Minute))}
	f.dest.failuresLeft = 2
	f.dest.failWith = shared.ErrTransportFailure

	reports, err := f.coordinator.SyncBranch(context.Background(), f.branchID)
	require.NoError(t, err)

	assert.Equal(t, 3, f.dest.attempts)
	assert.Equal(t, 1, shopReport(t, reports).Applied)
	assert.Empty(t, f.quarantine.batches)
}

func TestCoordinator_TransportExhaustionKeepsWatermark(t *testing.T) {
	f := newCoordinatorFixture(t)
	f.source.records = []sync.DeltaRecord{f.record("person", 1, testNow.Add(time.Minute))}
	f.dest.failuresLeft = 100
	f.dest.failWith = shared.ErrTransportFailure

	_, err := f.coordinator.SyncBranch(context.Background(), f.branchID)
	require.ErrorIs(t, err, shared.ErrTransportFailure)

	assert.Equal(t, 3, f.dest.attempts)
	assert.Empty(t, f.quarantine.batches)
	bs := f.syncRepo.rows[sync.PolicyShopToOffice]
	assert.True(t, bs.Watermark.IsZero())
}

func TestCoordinator_RejectedBatchIsQuarantined(t *testing.T) {
	f := newCoordinatorFixture(t)
	f.source.records = []sync.DeltaRecord{f.record("person", 1, testNow.Add(time.Minute))}
	f.dest.failuresLeft = 100
	f.dest.failWith = shared.ErrApplyFailure

	reports, err := f.coordinator.SyncBranch(context.Background(), f.branchID)
	require.NoError(t, err)

	// rejection is permanent, no point retrying the same content
	assert.Equal(t, 1, f.dest.attempts)
	require.Len(t, f.quarantine.batches, 1)
	report := shopReport(t, reports)
	assert.Equal(t, 1, report.Quarantined)
	// the watermark moves past the quarantined window
	assert.True(t, report.Watermark.Equal(testNow.Add(time.Minute)))
}

func TestCoordinator_MalformedRecordIsQuarantined(t *testing.T) {
	f := newCoordinatorFixture(t)
	bad := f.record("person", 2, testNow.Add(2*time.Minute))
	bad.OriginBranchID = uuid.Nil
	f.source.records = []sync.DeltaRecord{
		f.record("person", 1, testNow.Add(time.Minute)),
		bad,
	}

	reports, err := f.coordinator.SyncBranch(context.Background(), f.branchID)
	require.NoError(t, err)

	report := shopReport(t, reports)
	assert.Equal(t, 1, report.Applied)
	assert.Equal(t, 1, report.Quarantined)
	require.Len(t, f.quarantine.records, 1)
	assert.Equal(t, int64(2), f.quarantine.records[0].TEID)
	// the bad record does not hold the watermark back
	assert.True(t, report.Watermark.Equal(testNow.Add(2*time.Minute)))
}

func TestCoordinator_BatchCapDoesNotSkipLaggingTable(t *testing.T) {
	f := newCoordinatorFixture(t)
	f.coordinator = NewCoordinator(
		f.registry, f.source, f.dest, f.syncRepo, f.quarantine,
		shared.FixedClock{Instant: testNow}, zap.NewNop(),
		Config{Side: sync.SideShop, BatchSize: 1, ApplyAttempts: 3, RetryInterval: time.Millisecond})
	f.source.records = []sync.DeltaRecord{
		f.record("person", 1, testNow.Add(time.Minute)),
		f.record("person", 2, testNow.Add(2*time.Minute)),
		f.record("sale", 3, testNow.Add(5*time.Minute)),
	}

	// the person window is truncated at one row, so the watermark must
	// not jump to the sale row's instant
	reports, err := f.coordinator.SyncBranch(context.Background(), f.branchID)
	require.NoError(t, err)
	assert.True(t, shopReport(t, reports).Watermark.Equal(testNow.Add(time.Minute)))

	// the next cycle picks up the row the cap left behind
	reports, err = f.coordinator.SyncBranch(context.Background(), f.branchID)
	require.NoError(t, err)
	assert.True(t, shopReport(t, reports).Watermark.Equal(testNow.Add(2*time.Minute)))

	reports, err = f.coordinator.SyncBranch(context.Background(), f.branchID)
	require.NoError(t, err)
	assert.True(t, shopReport(t, reports).Watermark.Equal(testNow.Add(5*time.Minute)))

	teids := make([]int64, 0, len(f.dest.applied))
	for _, rec := range f.dest.applied {
		teids = append(teids, rec.TEID)
	}
	assert.ElementsMatch(t, []int64{1, 2, 3}, teids)
}

func TestCoordinator_SideFiltersPolicies(t *testing.T) {
	f := newCoordinatorFixture(t)

	reports, err := f.coordinator.SyncBranch(context.Background(), f.branchID)
	require.NoError(t, err)

	policies := make([]sync.Policy, 0, len(reports))
	for _, r := range reports {
		policies = append(policies, r.Policy)
	}
	assert.ElementsMatch(t, []sync.Policy{sync.PolicyShopToOffice, sync.PolicyBidirectional}, policies)
}
