package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/domain/trade"
	"github.com/retailcore/backend/internal/infrastructure/persistence/models"
)

// GormPurchaseOrderRepository implements PurchaseOrderRepository using GORM
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// Save creates a purchase order with its items
func (r *GormPurchaseOrderRepository) Save(ctx context.Context, order *trade.PurchaseOrder) error {
	model := &models.PurchaseOrderModel{}
	model.FromDomain(order)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(model).Error
	})
}

// FindByID finds a purchase order with its items loaded
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.PurchaseOrder, error) {
	return r.find(r.db.WithContext(ctx), id)
}

// FindByIDForUpdate loads the order under a row lock so confirmation and
// receiving serialize per order
func (r *GormPurchaseOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*trade.PurchaseOrder, error) {
	return r.find(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormPurchaseOrderRepository) find(db *gorm.DB, id uuid.UUID) (*trade.PurchaseOrder, error) {
	var model models.PurchaseOrderModel
	if err := db.Preload("Items").First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// List finds purchase orders matching the filter, paginated
func (r *GormPurchaseOrderRepository) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[*trade.PurchaseOrder], error) {
	query := r.db.WithContext(ctx).Model(&models.PurchaseOrderModel{}).Preload("Items")

	return paginate(query, filter, DocumentSortFields, func(q *gorm.DB) ([]*trade.PurchaseOrder, error) {
		var orderModels []models.PurchaseOrderModel
		if err := q.Find(&orderModels).Error; err != nil {
			return nil, err
		}
		orders := make([]*trade.PurchaseOrder, len(orderModels))
		for i := range orderModels {
			orders[i] = orderModels[i].ToDomain()
		}
		return orders, nil
	})
}

// Update persists changes to a purchase order under a version check
func (r *GormPurchaseOrderRepository) Update(ctx context.Context, order *trade.PurchaseOrder) error {
	model := &models.PurchaseOrderModel{}
	model.FromDomain(order)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.PurchaseOrderModel{}).
			Where("id = ? AND version = ?", model.ID, model.Version-1).
			Updates(map[string]interface{}{
				"status":        model.Status,
				"confirm_date":  model.ConfirmDate,
				"close_date":    model.CloseDate,
				"expected_date": model.ExpectedDate,
				"notes":         model.Notes,
				"version":       model.Version,
				"updated_at":    model.UpdatedAt,
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
		return nil
	})
}
