package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/retailcore/backend/internal/domain/sync"
)

// TransactionEntryModel is the change marker table every synchronized
// row points at through its te_id column. te_time is refreshed on every
// write, so it orders the replication stream.
type TransactionEntryModel struct {
	ID        int64          `gorm:"primaryKey;autoIncrement"`
	TETime    time.Time      `gorm:"column:te_time;not null;index"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null"`
	StationID uuid.UUID      `gorm:"type:uuid;not null"`
	Type      sync.EntryType `gorm:"type:varchar(10);not null"`
}

// TableName returns the table name for GORM
func (TransactionEntryModel) TableName() string {
	return "transaction_entries"
}

// ToDomain converts the persistence model to a domain TransactionEntry
func (m *TransactionEntryModel) ToDomain() *sync.TransactionEntry {
	return &sync.TransactionEntry{
		ID:        m.ID,
		TETime:    m.TETime,
		UserID:    m.UserID,
		StationID: m.StationID,
		Type:      m.Type,
	}
}

// BranchSyncModel is the per-(branch, policy) replication watermark
type BranchSyncModel struct {
	BaseModel
	BranchID  uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_branch_policy,priority:1"`
	Policy    sync.Policy `gorm:"type:varchar(20);not null;uniqueIndex:idx_branch_policy,priority:2"`
	Watermark time.Time   `gorm:"not null"`
}

// TableName returns the table name for GORM
func (BranchSyncModel) TableName() string {
	return "branch_synchronizations"
}

// ToDomain converts the persistence model to a domain BranchSynchronization
func (m *BranchSyncModel) ToDomain() *sync.BranchSynchronization {
	return &sync.BranchSynchronization{
		BaseEntity: m.BaseModel.ToDomain(),
		BranchID:   m.BranchID,
		Policy:     m.Policy,
		Watermark:  m.Watermark,
	}
}

// FromDomain populates the persistence model from a domain BranchSynchronization
func (m *BranchSyncModel) FromDomain(b *sync.BranchSynchronization) {
	m.FromDomainBaseEntity(b.BaseEntity)
	m.BranchID = b.BranchID
	m.Policy = b.Policy
	m.Watermark = b.Watermark
}

// QuarantineBatchModel holds a rejected replication batch for inspection
type QuarantineBatchModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	BranchID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Table     string    `gorm:"column:table_name;type:varchar(100);not null"`
	Payload   string    `gorm:"type:jsonb;not null"`
	Reason    string    `gorm:"type:varchar(500);not null"`
	CreatedAt time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (QuarantineBatchModel) TableName() string {
	return "sync_quarantine_batches"
}

// QuarantineRecordModel holds a single malformed record set aside from
// the replication path
type QuarantineRecordModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key"`
	BranchID       uuid.UUID `gorm:"type:uuid;not null;index"`
	Table          string    `gorm:"column:table_name;type:varchar(100);not null"`
	TEID           int64     `gorm:"column:te_id;not null"`
	OriginBranchID uuid.UUID `gorm:"type:uuid;not null"`
	Payload        string    `gorm:"type:jsonb;not null"`
	Reason         string    `gorm:"type:varchar(500);not null"`
	CreatedAt      time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (QuarantineRecordModel) TableName() string {
	return "sync_quarantine_records"
}
