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

// GormWorkOrderRepository implements WorkOrderRepository using GORM
type GormWorkOrderRepository struct {
	db *gorm.DB
}

// NewGormWorkOrderRepository creates a new GormWorkOrderRepository
func NewGormWorkOrderRepository(db *gorm.DB) *GormWorkOrderRepository {
	return &GormWorkOrderRepository{db: db}
}

// Save creates a work order with its items and history
func (r *GormWorkOrderRepository) Save(ctx context.Context, order *workorder.WorkOrder) error {
	model := models.WorkOrderModelFromDomain(order)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(model).Error
	})
}

// FindByID finds a work order with items and history loaded
func (r *GormWorkOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*workorder.WorkOrder, error) {
	return r.find(r.db.WithContext(ctx), id)
}

// FindByIDForUpdate loads the order under a row lock so transitions
// serialize per order
func (r *GormWorkOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*workorder.WorkOrder, error) {
	return r.find(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormWorkOrderRepository) find(db *gorm.DB, id uuid.UUID) (*workorder.WorkOrder, error) {
	var model models.WorkOrderModel
	if err := db.
		Preload("Items").
		Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("occurred")
		}).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// List finds work orders matching the filter, paginated
func (r *GormWorkOrderRepository) List(ctx context.Context, filter workorder.WorkOrderFilter) (*shared.Paginated[*workorder.WorkOrder], error) {
	query := r.db.WithContext(ctx).Model(&models.WorkOrderModel{}).
		Preload("Items").
		Preload("History")

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.BranchID != nil {
		query = query.Where("branch_id = ?", *filter.BranchID)
	}
	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
	}

	return paginate(query, filter.Filter, DocumentSortFields, func(q *gorm.DB) ([]*workorder.WorkOrder, error) {
		var orderModels []models.WorkOrderModel
		if err := q.Find(&orderModels).Error; err != nil {
			return nil, err
		}
		orders := make([]*workorder.WorkOrder, len(orderModels))
		for i := range orderModels {
			orders[i] = orderModels[i].ToDomain()
		}
		return orders, nil
	})
}

// Update persists changes to a work order under a version check. Items
// are upserted and history lines appended.
func (r *GormWorkOrderRepository) Update(ctx context.Context, order *workorder.WorkOrder) error {
	model := models.WorkOrderModelFromDomain(order)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.WorkOrderModel{}).
			Where("id = ? AND version = ?", model.ID, model.Version-1).
			Updates(map[string]interface{}{
				"status":       model.Status,
				"executor_id":  model.ExecutorID,
				"description":  model.Description,
				"approve_date": model.ApproveDate,
				"finish_date":  model.FinishDate,
				"version":      model.Version,
				"updated_at":   model.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		for i := range model.Items {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				UpdateAll: true,
			}).Create(&model.Items[i]).Error; err != nil {
				return err
			}
		}
		for i := range model.History {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&model.History[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
