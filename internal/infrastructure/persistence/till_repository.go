package persistence

import (
	"context"
	"errors"
	"hash/fnv"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/retailcore/backend/internal/domain/payment"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/infrastructure/persistence/models"
)

// GormTillRepository implements TillRepository using GORM
type GormTillRepository struct {
	db *gorm.DB
}

// NewGormTillRepository creates a new GormTillRepository
func NewGormTillRepository(db *gorm.DB) *GormTillRepository {
	return &GormTillRepository{db: db}
}

// FindByID finds a till with its entries loaded
func (r *GormTillRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.Till, error) {
	var model models.TillModel
	if err := r.db.WithContext(ctx).
		Preload("Entries", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at")
		}).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindOpenByStation returns the station's open till, or ErrNotFound
func (r *GormTillRepository) FindOpenByStation(ctx context.Context, stationID uuid.UUID) (*payment.Till, error) {
	var model models.TillModel
	if err := r.db.WithContext(ctx).
		Preload("Entries", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at")
		}).
		Where("station_id = ? AND status = ?", stationID, payment.TillStatusOpened).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save persists the till and its entries
func (r *GormTillRepository) Save(ctx context.Context, till *payment.Till) error {
	model := models.TillModelFromDomain(till)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Entries").
			Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, UpdateAll: true}).
			Create(model).Error; err != nil {
			return err
		}

		// Entries are append-only.
		for i := range model.Entries {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&model.Entries[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// WithStationLock runs fn holding the station's advisory lock. The lock
// serializes till opening and closing per station across all processes
// connected to the same database.
func (r *GormTillRepository) WithStationLock(ctx context.Context, stationID uuid.UUID, fn func(ctx context.Context) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", stationLockKey(stationID)).Error; err != nil {
			return err
		}
		return fn(ctx)
	})
}

// stationLockKey folds the station uuid into the bigint space of
// pg_advisory_xact_lock
func stationLockKey(stationID uuid.UUID) int64 {
	h := fnv.New64a()
	_, _ = h.Write(stationID[:])
	return int64(h.Sum64())
}
