package persistence

import (
	"context"
	"reflect"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domainsync "github.com/retailcore/backend/internal/domain/sync"
	"github.com/retailcore/backend/internal/infrastructure/logger"
	"github.com/retailcore/backend/internal/infrastructure/persistence/models"
)

type stampSkipKey struct{}

// WithoutStamping marks the context so writes are not change-tracked.
// The replication destination uses it when applying peer rows; restamping
// those would bounce them straight back to the peer.
func WithoutStamping(ctx context.Context) context.Context {
	return context.WithValue(ctx, stampSkipKey{}, true)
}

func stampingSuppressed(ctx context.Context) bool {
	suppressed, _ := ctx.Value(stampSkipKey{}).(bool)
	return suppressed
}

// Stamper provides GORM callback hooks that maintain the transaction
// entry rows behind every synchronized table. Models embedding
// SyncColumns get a fresh entry on insert and a te_time bump on update;
// everything else passes through untouched.
type Stamper struct {
	branchID  uuid.UUID
	stationID uuid.UUID
	now       func() time.Time
}

// NewStamper creates a stamper for the local branch and station
func NewStamper(branchID, stationID uuid.UUID) *Stamper {
	return &Stamper{
		branchID:  branchID,
		stationID: stationID,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// RegisterCallbacks registers the change-tracking callbacks with GORM
func (s *Stamper) RegisterCallbacks(db *gorm.DB) error {
	if err := db.Callback().Create().Before("gorm:create").Register("sync:stamp_create", s.beforeCreate); err != nil {
		return err
	}
	return db.Callback().Update().Before("gorm:update").Register("sync:stamp_update", s.beforeUpdate)
}

func (s *Stamper) beforeCreate(db *gorm.DB) {
	if db.Statement.Schema == nil || db.Statement.Schema.LookUpField("te_id") == nil {
		return
	}
	if db.Statement.Context != nil && stampingSuppressed(db.Statement.Context) {
		return
	}

	s.eachRow(db, func(row reflect.Value) {
		entry := models.TransactionEntryModel{
			TETime:    s.now(),
			UserID:    s.userID(db.Statement.Context),
			StationID: s.stationID,
			Type:      domainsync.EntryCreated,
		}
		if err := db.Session(&gorm.Session{NewDB: true}).Create(&entry).Error; err != nil {
			_ = db.AddError(err)
			return
		}

		setInt(row, "TEID", entry.ID)
		// Locally created rows are their own origin.
		if getInt(row, "OriginTEID") == 0 {
			setInt(row, "OriginTEID", entry.ID)
			setUUID(row, "OriginBranchID", s.branchID)
		}
	})
}

func (s *Stamper) beforeUpdate(db *gorm.DB) {
	if db.Statement.Schema == nil || db.Statement.Schema.LookUpField("te_id") == nil {
		return
	}
	if db.Statement.Context != nil && stampingSuppressed(db.Statement.Context) {
		return
	}

	s.eachRow(db, func(row reflect.Value) {
		teID := getInt(row, "TEID")
		if teID == 0 {
			return
		}
		err := db.Session(&gorm.Session{NewDB: true}).
			Model(&models.TransactionEntryModel{}).
			Where("id = ?", teID).
			Updates(map[string]interface{}{
				"te_time":    s.now(),
				"user_id":    s.userID(db.Statement.Context),
				"station_id": s.stationID,
				"type":       domainsync.EntryModified,
			}).Error
		if err != nil {
			_ = db.AddError(err)
		}
	})
}

// eachRow visits every model instance of the statement, handling both
// single-struct and batch writes
func (s *Stamper) eachRow(db *gorm.DB, fn func(row reflect.Value)) {
	value := db.Statement.ReflectValue
	switch value.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < value.Len(); i++ {
			row := value.Index(i)
			for row.Kind() == reflect.Ptr {
				row = row.Elem()
			}
			if row.Kind() == reflect.Struct {
				fn(row)
			}
		}
	case reflect.Struct:
		fn(value)
	}
}

func (s *Stamper) userID(ctx context.Context) uuid.UUID {
	if ctx == nil {
		return uuid.Nil
	}
	id, err := uuid.Parse(logger.GetUserID(ctx))
	if err != nil {
		return uuid.Nil
	}
	return id
}

func getInt(row reflect.Value, name string) int64 {
	field := row.FieldByName(name)
	if !field.IsValid() || field.Kind() != reflect.Int64 {
		return 0
	}
	return field.Int()
}

func setInt(row reflect.Value, name string, value int64) {
	field := row.FieldByName(name)
	if field.IsValid() && field.CanSet() && field.Kind() == reflect.Int64 {
		field.SetInt(value)
	}
}

func setUUID(row reflect.Value, name string, value uuid.UUID) {
	field := row.FieldByName(name)
	if field.IsValid() && field.CanSet() && field.Type() == reflect.TypeOf(uuid.UUID{}) {
		field.Set(reflect.ValueOf(value))
	}
}
