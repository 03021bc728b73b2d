package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/domain/trade"
	"github.com/retailcore/backend/internal/infrastructure/persistence/models"
)

// GormReturnedSaleRepository implements ReturnedSaleRepository using GORM
type GormReturnedSaleRepository struct {
	db *gorm.DB
}

// NewGormReturnedSaleRepository creates a new GormReturnedSaleRepository
func NewGormReturnedSaleRepository(db *gorm.DB) *GormReturnedSaleRepository {
	return &GormReturnedSaleRepository{db: db}
}

// Save creates a sale return with its items. Returns are immutable once
// written.
func (r *GormReturnedSaleRepository) Save(ctx context.Context, ret *trade.ReturnedSale) error {
	model := &models.ReturnedSaleModel{}
	model.FromDomain(ret)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByID finds a sale return with its items loaded
func (r *GormReturnedSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.ReturnedSale, error) {
	var model models.ReturnedSaleModel
	if err := r.db.WithContext(ctx).Preload("Items").First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySale finds all returns recorded against a sale
func (r *GormReturnedSaleRepository) FindBySale(ctx context.Context, saleID uuid.UUID) ([]*trade.ReturnedSale, error) {
	var returnModels []models.ReturnedSaleModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("sale_id = ?", saleID).
		Order("return_date").
		Find(&returnModels).Error; err != nil {
		return nil, err
	}

	returns := make([]*trade.ReturnedSale, len(returnModels))
	for i := range returnModels {
		returns[i] = returnModels[i].ToDomain()
	}
	return returns, nil
}
