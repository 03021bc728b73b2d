package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/retailcore/backend/internal/domain/inventory"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/infrastructure/persistence/models"
)

// GormStorableRepository implements StorableRepository using GORM
type GormStorableRepository struct {
	db *gorm.DB
}

// NewGormStorableRepository creates a new GormStorableRepository
func NewGormStorableRepository(db *gorm.DB) *GormStorableRepository {
	return &GormStorableRepository{db: db}
}

// FindByID finds a storable by its ID
func (r *GormStorableRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Storable, error) {
	return r.find(r.db.WithContext(ctx), "id = ?", id)
}

// FindBySellable finds the storable facet of a sellable
func (r *GormStorableRepository) FindBySellable(ctx context.Context, sellableID uuid.UUID) (*inventory.Storable, error) {
	return r.find(r.db.WithContext(ctx), "sellable_id = ?", sellableID)
}

// FindBySellableForUpdate loads the storable with its row locked for the
// duration of the surrounding transaction
func (r *GormStorableRepository) FindBySellableForUpdate(ctx context.Context, sellableID uuid.UUID) (*inventory.Storable, error) {
	return r.find(
		r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}),
		"sellable_id = ?", sellableID,
	)
}

func (r *GormStorableRepository) find(db *gorm.DB, query string, arg any) (*inventory.Storable, error) {
	var model models.StorableModel
	if err := db.
		Preload("Items").
		Preload("Transactions", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at")
		}).
		Where(query, arg).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save persists the storable, its balance cells, and any new ledger
// lines. The version check turns a lost update into ErrConcurrencyConflict
// so the caller can reload and retry.
func (r *GormStorableRepository) Save(ctx context.Context, storable *inventory.Storable) error {
	model := models.StorableModelFromDomain(storable)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.StorableModel{}).
			Where("id = ? AND version = ?", model.ID, model.Version-1).
			Updates(map[string]interface{}{
				"version":    model.Version,
				"updated_at": model.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&models.StorableModel{}).Where("id = ?", model.ID).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return shared.ErrConcurrencyConflict
			}
			if err := tx.Omit("Items", "Transactions").Create(model).Error; err != nil {
				return err
			}
		}

		for i := range model.Items {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "storable_id"}, {Name: "branch_id"}},
				UpdateAll: true,
			}).Create(&model.Items[i]).Error; err != nil {
				return err
			}
		}

		// The ledger is append-only; existing lines never change.
		for i := range model.Transactions {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&model.Transactions[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
