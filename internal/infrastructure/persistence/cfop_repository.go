package persistence

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/retailcore/backend/internal/domain/fiscal"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/infrastructure/persistence/models"
)

// GormCFOPRepository implements CFOPRepository using GORM
type GormCFOPRepository struct {
	db *gorm.DB
}

// NewGormCFOPRepository creates a new GormCFOPRepository
func NewGormCFOPRepository(db *gorm.DB) *GormCFOPRepository {
	return &GormCFOPRepository{db: db}
}

// Save creates or updates a fiscal operation code
func (r *GormCFOPRepository) Save(ctx context.Context, cfop *fiscal.CFOP) error {
	model := &models.CFOPModel{}
	model.FromDomain(cfop)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "code"}}, UpdateAll: true}).
		Create(model).Error
}

// FindByCode finds a fiscal operation code
func (r *GormCFOPRepository) FindByCode(ctx context.Context, code string) (*fiscal.CFOP, error) {
	var model models.CFOPModel
	if err := r.db.WithContext(ctx).
		Where("code = ?", strings.TrimSpace(code)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}
