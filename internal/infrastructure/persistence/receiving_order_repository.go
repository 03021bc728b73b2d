package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retailcore/backend/internal/domain/trade"
	"github.com/retailcore/backend/internal/infrastructure/persistence/models"
)

// GormReceivingOrderRepository implements ReceivingOrderRepository using GORM
type GormReceivingOrderRepository struct {
	db *gorm.DB
}

// NewGormReceivingOrderRepository creates a new GormReceivingOrderRepository
func NewGormReceivingOrderRepository(db *gorm.DB) *GormReceivingOrderRepository {
	return &GormReceivingOrderRepository{db: db}
}

// Save creates a receiving order with its items. Deliveries are immutable
// once recorded.
func (r *GormReceivingOrderRepository) Save(ctx context.Context, order *trade.ReceivingOrder) error {
	model := &models.ReceivingOrderModel{}
	model.FromDomain(order)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByPurchase finds all deliveries recorded against a purchase order
func (r *GormReceivingOrderRepository) FindByPurchase(ctx context.Context, purchaseID uuid.UUID) ([]*trade.ReceivingOrder, error) {
	var orderModels []models.ReceivingOrderModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("purchase_id = ?", purchaseID).
		Order("receival_date").
		Find(&orderModels).Error; err != nil {
		return nil, err
	}

	orders := make([]*trade.ReceivingOrder, len(orderModels))
	for i := range orderModels {
		orders[i] = orderModels[i].ToDomain()
	}
	return orders, nil
}
