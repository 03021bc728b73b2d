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

// GormRenegotiationRepository implements RenegotiationRepository using GORM
type GormRenegotiationRepository struct {
	db *gorm.DB
}

// NewGormRenegotiationRepository creates a new GormRenegotiationRepository
func NewGormRenegotiationRepository(db *gorm.DB) *GormRenegotiationRepository {
	return &GormRenegotiationRepository{db: db}
}

// Save creates a renegotiation record. Renegotiations are immutable once
// signed.
func (r *GormRenegotiationRepository) Save(ctx context.Context, reneg *trade.RenegotiationData) error {
	model := &models.RenegotiationModel{}
	if err := model.FromDomain(reneg); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByID finds a renegotiation by its ID
func (r *GormRenegotiationRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.RenegotiationData, error) {
	var model models.RenegotiationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}
