package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/retailcore/backend/internal/domain/catalog"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/infrastructure/persistence/models"
)

// GormSellableRepository implements SellableRepository using GORM
type GormSellableRepository struct {
	db *gorm.DB
}

// NewGormSellableRepository creates a new GormSellableRepository
func NewGormSellableRepository(db *gorm.DB) *GormSellableRepository {
	return &GormSellableRepository{db: db}
}

// FindByID finds a sellable by its ID
func (r *GormSellableRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Sellable, error) {
	var model models.SellableModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode finds a sellable by its unique code
func (r *GormSellableRepository) FindByCode(ctx context.Context, code string) (*catalog.Sellable, error) {
	var model models.SellableModel
	if err := r.db.WithContext(ctx).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds sellables matching the filter
func (r *GormSellableRepository) FindAll(ctx context.Context, filter catalog.SellableFilter) ([]catalog.Sellable, error) {
	query := r.db.WithContext(ctx).Model(&models.SellableModel{})

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Kind != nil {
		query = query.Where("kind = ?", *filter.Kind)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("code ILIKE ? OR description ILIKE ?", pattern, pattern)
	}

	var sellableModels []models.SellableModel
	if err := applyFilter(query, filter.Filter, sellableSortFields).Find(&sellableModels).Error; err != nil {
		return nil, err
	}

	sellables := make([]catalog.Sellable, len(sellableModels))
	for i := range sellableModels {
		sellables[i] = *sellableModels[i].ToDomain()
	}
	return sellables, nil
}

// Save creates or updates a sellable
func (r *GormSellableRepository) Save(ctx context.Context, sellable *catalog.Sellable) error {
	model := models.SellableModelFromDomain(sellable)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, UpdateAll: true}).
		Create(model).Error
	if err != nil && isUniqueViolation(err) {
		return shared.ErrAlreadyExists
	}
	return err
}

var sellableSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"code":        true,
	"description": true,
	"base_price":  true,
	"status":      true,
}
