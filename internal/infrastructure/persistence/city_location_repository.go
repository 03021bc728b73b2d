package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retailcore/backend/internal/domain/party"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/infrastructure/persistence/models"
)

// GormCityLocationRepository implements CityLocationRepository using GORM
type GormCityLocationRepository struct {
	db *gorm.DB
}

// NewGormCityLocationRepository creates a new GormCityLocationRepository
func NewGormCityLocationRepository(db *gorm.DB) *GormCityLocationRepository {
	return &GormCityLocationRepository{db: db}
}

// FindByID finds a city location by ID
func (r *GormCityLocationRepository) FindByID(ctx context.Context, id uuid.UUID) (*party.CityLocation, error) {
	var model models.CityLocationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindOrCreate resolves a location by its folded key, creating the row
// when no equivalent location exists yet. Lookup compares the folded
// forms so "São Paulo" and "sao paulo" hit the same row.
func (r *GormCityLocationRepository) FindOrCreate(ctx context.Context, location *party.CityLocation) (*party.CityLocation, error) {
	var existing *party.CityLocation

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Folding (case plus diacritics) cannot be expressed portably in
		// SQL, and the table stays small, so matching happens in memory.
		var candidates []models.CityLocationModel
		if err := tx.Find(&candidates).Error; err != nil {
			return err
		}

		key := location.NormalizedKey()
		for i := range candidates {
			c := candidates[i].ToDomain()
			if c.NormalizedKey() == key {
				existing = c
				return nil
			}
		}

		model := &models.CityLocationModel{}
		model.FromDomain(location)
		if err := tx.Create(model).Error; err != nil {
			return err
		}
		existing = location
		return nil
	})
	if err != nil {
		return nil, err
	}
	return existing, nil
}
