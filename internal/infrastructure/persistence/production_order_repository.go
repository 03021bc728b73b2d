package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/domain/workorder"
	"github.com/retailcore/backend/internal/infrastructure/persistence/models"
)

// GormProductionOrderRepository implements ProductionOrderRepository using GORM
type GormProductionOrderRepository struct {
	db *gorm.DB
}

// NewGormProductionOrderRepository creates a new GormProductionOrderRepository
func NewGormProductionOrderRepository(db *gorm.DB) *GormProductionOrderRepository {
	return &GormProductionOrderRepository{db: db}
}

// Save creates a production order with its materials and tests
func (r *GormProductionOrderRepository) Save(ctx context.Context, order *workorder.ProductionOrder) error {
	model := &models.ProductionOrderModel{}
	model.FromDomain(order)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(model).Error
	})
}

// FindByID finds a production order with materials, tests and results loaded
func (r *GormProductionOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*workorder.ProductionOrder, error) {
	return r.find(r.db.WithContext(ctx), id)
}

// FindByIDForUpdate loads the order under a row lock so production
// records serialize per order
func (r *GormProductionOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*workorder.ProductionOrder, error) {
	return r.find(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormProductionOrderRepository) find(db *gorm.DB, id uuid.UUID) (*workorder.ProductionOrder, error) {
	var model models.ProductionOrderModel
	if err := db.
		Preload("Materials").
		Preload("Tests").
		Preload("Results", func(db *gorm.DB) *gorm.DB {
			return db.Order("recorded")
		}).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// List finds production orders matching the filter, paginated
func (r *GormProductionOrderRepository) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[*workorder.ProductionOrder], error) {
	query := r.db.WithContext(ctx).Model(&models.ProductionOrderModel{}).
		Preload("Materials").
		Preload("Tests").
		Preload("Results")

	return paginate(query, filter, DocumentSortFields, func(q *gorm.DB) ([]*workorder.ProductionOrder, error) {
		var orderModels []models.ProductionOrderModel
		if err := q.Find(&orderModels).Error; err != nil {
			return nil, err
		}
		orders := make([]*workorder.ProductionOrder, len(orderModels))
		for i := range orderModels {
			orders[i] = orderModels[i].ToDomain()
		}
		return orders, nil
	})
}

// Update persists changes to a production order under a version check
func (r *GormProductionOrderRepository) Update(ctx context.Context, order *workorder.ProductionOrder) error {
	model := &models.ProductionOrderModel{}
	model.FromDomain(order)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.ProductionOrderModel{}).
			Where("id = ? AND version = ?", model.ID, model.Version-1).
			Updates(map[string]interface{}{
				"status":           model.Status,
				"quantity_made":    model.QuantityMade,
				"quantity_lost":    model.QuantityLost,
				"close_date":       model.CloseDate,
				"version":          model.Version,
				"updated_at":       model.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		for i := range model.Materials {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				UpdateAll: true,
			}).Create(&model.Materials[i]).Error; err != nil {
				return err
			}
		}
		for i := range model.Tests {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&model.Tests[i]).Error; err != nil {
				return err
			}
		}
		for i := range model.Results {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&model.Results[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
