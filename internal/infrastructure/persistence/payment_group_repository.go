package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/retailcore/backend/internal/domain/payment"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/infrastructure/persistence/models"
)

// GormGroupRepository implements GroupRepository using GORM
type GormGroupRepository struct {
	db *gorm.DB
}

// NewGormGroupRepository creates a new GormGroupRepository
func NewGormGroupRepository(db *gorm.DB) *GormGroupRepository {
	return &GormGroupRepository{db: db}
}

// FindByID finds a payment group with its payments loaded
func (r *GormGroupRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.PaymentGroup, error) {
	return r.find(r.db.WithContext(ctx), id)
}

// FindByIDForUpdate loads the group with its row locked; every payment
// mutation happens under this lock
func (r *GormGroupRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*payment.PaymentGroup, error) {
	return r.find(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormGroupRepository) find(db *gorm.DB, id uuid.UUID) (*payment.PaymentGroup, error) {
	var model models.PaymentGroupModel
	if err := db.
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("due_date, identifier")
		}).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save persists the group and all of its payments. The version check on
// the group row turns a lost update into ErrConcurrencyConflict.
func (r *GormGroupRepository) Save(ctx context.Context, group *payment.PaymentGroup) error {
	model := models.PaymentGroupModelFromDomain(group)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.PaymentGroupModel{}).
			Where("id = ? AND version = ?", model.ID, model.Version-1).
			Updates(map[string]interface{}{
				"status":            model.Status,
				"payer_id":          model.PayerID,
				"payee_id":          model.PayeeID,
				"default_method_id": model.DefaultMethodID,
				"installments":      model.Installments,
				"interval_days":     model.IntervalDays,
				"version":           model.Version,
				"updated_at":        model.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&models.PaymentGroupModel{}).Where("id = ?", model.ID).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return shared.ErrConcurrencyConflict
			}
			if err := tx.Omit("Payments").Create(model).Error; err != nil {
				return err
			}
		}

		for i := range model.Payments {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				UpdateAll: true,
			}).Create(&model.Payments[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
