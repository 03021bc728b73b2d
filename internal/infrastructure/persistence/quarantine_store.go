package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domainsync "github.com/retailcore/backend/internal/domain/sync"
	"github.com/retailcore/backend/internal/infrastructure/persistence/models"
)

// GormQuarantineStore implements QuarantineStore using GORM
type GormQuarantineStore struct {
	db *gorm.DB
}

// NewGormQuarantineStore creates a new GormQuarantineStore
func NewGormQuarantineStore(db *gorm.DB) *GormQuarantineStore {
	return &GormQuarantineStore{db: db}
}

// QuarantineBatch stores a rejected batch out of the replication path
func (s *GormQuarantineStore) QuarantineBatch(ctx context.Context, branchID uuid.UUID, table string, batch domainsync.Batch, reason string) error {
	payload, err := json.Marshal(struct {
		Records []domainsync.DeltaRecord `json:"records"`
		Footer  domainsync.BatchFooter   `json:"footer"`
	}{batch.Records, batch.Footer})
	if err != nil {
		return fmt.Errorf("marshaling quarantined batch: %w", err)
	}

	return s.db.WithContext(ctx).Create(&models.QuarantineBatchModel{
		ID:        uuid.New(),
		BranchID:  branchID,
		Table:     table,
		Payload:   string(payload),
		Reason:    reason,
		CreatedAt: time.Now().UTC(),
	}).Error
}

// QuarantineRecord stores a single malformed record for inspection
func (s *GormQuarantineStore) QuarantineRecord(ctx context.Context, branchID uuid.UUID, record domainsync.DeltaRecord, reason string) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshaling quarantined record: %w", err)
	}

	return s.db.WithContext(ctx).Create(&models.QuarantineRecordModel{
		ID:             uuid.New(),
		BranchID:       branchID,
		Table:          record.Table,
		TEID:           record.TEID,
		OriginBranchID: record.OriginBranchID,
		Payload:        string(payload),
		Reason:         reason,
		CreatedAt:      time.Now().UTC(),
	}).Error
}
