package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retailcore/backend/internal/domain/shared"
	domainsync "github.com/retailcore/backend/internal/domain/sync"
	"github.com/retailcore/backend/internal/infrastructure/persistence/models"
)

// Column aliases used when joining synchronized tables against their
// transaction entries. The sync_ prefix keeps them out of the payload.
const (
	colTETime    = "sync_te_time"
	colStationID = "sync_station_id"
	colEntryType = "sync_te_type"
)

// StoreSource reads row changes straight from the synchronized tables.
// Every emitted record carries the row as a column map plus the version
// from its transaction entry. Only rows that originated at this branch
// are emitted, so rows applied from a peer never echo back to it.
type StoreSource struct {
	db       *gorm.DB
	branchID uuid.UUID
}

var _ domainsync.Source = (*StoreSource)(nil)

// NewStoreSource creates a source over the local store of one branch
func NewStoreSource(db *gorm.DB, branchID uuid.UUID) *StoreSource {
	return &StoreSource{db: db, branchID: branchID}
}

// Fetch returns up to limit locally originated rows of the table changed
// after since, ordered by change time
func (s *StoreSource) Fetch(ctx context.Context, table domainsync.TableSpec, since time.Time, limit int) ([]domainsync.DeltaRecord, error) {
	var rows []map[string]any
	err := s.db.WithContext(ctx).
		Table(table.Name).
		Select(fmt.Sprintf("%s.*, te.te_time AS %s, te.station_id AS %s, te.type AS %s",
			table.Name, colTETime, colStationID, colEntryType)).
		Joins(fmt.Sprintf("JOIN transaction_entries te ON te.id = %s.te_id", table.Name)).
		Where("te.te_time > ?", since).
		Where(fmt.Sprintf("%s.origin_branch_id = ?", table.Name), s.branchID).
		Order("te.te_time, te.id").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	records := make([]domainsync.DeltaRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := rowToRecord(table.Name, row)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func rowToRecord(table string, row map[string]any) (domainsync.DeltaRecord, error) {
	teTime, err := asTime(row[colTETime])
	if err != nil {
		return domainsync.DeltaRecord{}, fmt.Errorf("%s: bad te_time: %w", table, err)
	}
	stationID, err := asUUID(row[colStationID])
	if err != nil {
		return domainsync.DeltaRecord{}, fmt.Errorf("%s: bad station id: %w", table, err)
	}
	originBranch, err := asUUID(row["origin_branch_id"])
	if err != nil {
		return domainsync.DeltaRecord{}, fmt.Errorf("%s: bad origin branch: %w", table, err)
	}
	entryType, _ := row[colEntryType].(string)

	payload := make(map[string]any, len(row))
	for k, v := range row {
		switch k {
		case colTETime, colStationID, colEntryType, "te_id", "id":
			// te_id and the surrogate id are local and never travel; a
			// row's identity on the wire is (origin_te_id, origin_branch_id).
		default:
			payload[k] = v
		}
	}

	return domainsync.DeltaRecord{
		Table:          table,
		TEID:           asInt64(row["origin_te_id"]),
		TETime:         teTime,
		StationID:      stationID,
		OriginBranchID: originBranch,
		Type:           domainsync.EntryType(entryType),
		Payload:        payload,
	}, nil
}

// StoreDestination applies replicated batches to the local store. The
// whole batch runs in one transaction; write conflicts resolve by
// last-writer-wins on the row version.
type StoreDestination struct {
	db *gorm.DB
}

var _ domainsync.Destination = (*StoreDestination)(nil)

// NewStoreDestination creates a destination over the local store
func NewStoreDestination(db *gorm.DB) *StoreDestination {
	return &StoreDestination{db: db}
}

// Apply applies the batch inside one transaction. A failed record rolls
// the whole batch back so the watermark never moves past a half-applied
// window.
func (d *StoreDestination) Apply(ctx context.Context, batch domainsync.Batch) (*domainsync.ApplyResult, error) {
	result := &domainsync.ApplyResult{}

	// Applying peer rows must not restamp them.
	ctx = WithoutStamping(ctx)

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range batch.Records {
			rec := &batch.Records[i]
			if err := rec.Validate(); err != nil {
				result.Quarantined++
				continue
			}
			applied, err := d.applyRecord(tx, rec)
			if err != nil {
				return errors.Join(shared.ErrApplyFailure, err)
			}
			if applied {
				result.Applied++
			} else {
				result.Skipped++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (d *StoreDestination) applyRecord(tx *gorm.DB, rec *domainsync.DeltaRecord) (bool, error) {
	var local struct {
		TEID      int64     `gorm:"column:local_te_id"`
		TETime    time.Time `gorm:"column:local_te_time"`
		StationID string    `gorm:"column:local_station_id"`
	}
	err := tx.Table(rec.Table).
		Select(fmt.Sprintf("%s.te_id AS local_te_id, te.te_time AS local_te_time, te.station_id AS local_station_id", rec.Table)).
		Joins(fmt.Sprintf("JOIN transaction_entries te ON te.id = %s.te_id", rec.Table)).
		Where(fmt.Sprintf("%s.origin_te_id = ? AND %s.origin_branch_id = ?", rec.Table, rec.Table), rec.TEID, rec.OriginBranchID).
		Take(&local).Error

	incoming := domainsync.RowVersion{TETime: rec.TETime, StationID: rec.StationID}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return true, d.insertRecord(tx, rec)
	}
	if err != nil {
		return false, err
	}

	localStation, parseErr := uuid.Parse(local.StationID)
	if parseErr != nil {
		return false, fmt.Errorf("parsing local station id: %w", parseErr)
	}
	localVersion := domainsync.RowVersion{TETime: local.TETime, StationID: localStation}
	if domainsync.Resolve(incoming, &localVersion) == domainsync.KeepLocal {
		return false, nil
	}
	return true, d.updateRecord(tx, rec, local.TEID)
}

func (d *StoreDestination) insertRecord(tx *gorm.DB, rec *domainsync.DeltaRecord) error {
	// The incoming version is preserved verbatim so a relay does not
	// rewrite history.
	entry := models.TransactionEntryModel{
		TETime:    rec.TETime,
		StationID: rec.StationID,
		UserID:    uuid.Nil,
		Type:      rec.Type,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return err
	}

	data := make(map[string]any, len(rec.Payload)+2)
	for k, v := range rec.Payload {
		if k == "id" {
			// Tolerate peers that still ship their surrogate key.
			continue
		}
		data[k] = v
	}
	data["id"] = uuid.NewString()
	data["te_id"] = entry.ID
	return tx.Table(rec.Table).Create(&data).Error
}

func (d *StoreDestination) updateRecord(tx *gorm.DB, rec *domainsync.DeltaRecord, localTEID int64) error {
	err := tx.Model(&models.TransactionEntryModel{}).
		Where("id = ?", localTEID).
		Updates(map[string]any{
			"te_time":    rec.TETime,
			"station_id": rec.StationID,
			"type":       rec.Type,
		}).Error
	if err != nil {
		return err
	}

	data := make(map[string]any, len(rec.Payload))
	for k, v := range rec.Payload {
		switch k {
		case "id", "origin_te_id", "origin_branch_id":
			// Identity columns never change.
		default:
			data[k] = v
		}
	}
	if len(data) == 0 {
		return nil
	}
	return tx.Table(rec.Table).
		Where("origin_te_id = ? AND origin_branch_id = ?", rec.TEID, rec.OriginBranchID).
		Updates(data).Error
}

func asInt64(v any) int64 {
	switch value := v.(type) {
	case int64:
		return value
	case int32:
		return int64(value)
	case int:
		return int64(value)
	case float64:
		return int64(value)
	default:
		return 0
	}
}

func asTime(v any) (time.Time, error) {
	switch value := v.(type) {
	case time.Time:
		return value, nil
	case string:
		return time.Parse(time.RFC3339Nano, value)
	default:
		return time.Time{}, fmt.Errorf("unexpected time value %T", v)
	}
}

func asUUID(v any) (uuid.UUID, error) {
	switch value := v.(type) {
	case uuid.UUID:
		return value, nil
	case string:
		return uuid.Parse(value)
	case []byte:
		if len(value) == 16 {
			return uuid.FromBytes(value)
		}
		return uuid.Parse(string(value))
	case [16]byte:
		return uuid.UUID(value), nil
	default:
		return uuid.Nil, fmt.Errorf("unexpected uuid value %T", v)
	}
}
