package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/retailcore/backend/internal/domain/party"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/infrastructure/persistence/models"
)

// GormPersonRepository implements PersonRepository using GORM
type GormPersonRepository struct {
	db *gorm.DB
}

// NewGormPersonRepository creates a new GormPersonRepository
func NewGormPersonRepository(db *gorm.DB) *GormPersonRepository {
	return &GormPersonRepository{db: db}
}

// FindByID finds a person with all facets and addresses loaded
func (r *GormPersonRepository) FindByID(ctx context.Context, id uuid.UUID) (*party.Person, error) {
	var model models.PersonModel
	if err := r.db.WithContext(ctx).
		Preload("Facets").
		Preload("Addresses").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindAll finds persons matching the filter
func (r *GormPersonRepository) FindAll(ctx context.Context, filter party.PersonFilter) ([]party.Person, error) {
	query := r.db.WithContext(ctx).Model(&models.PersonModel{}).
		Preload("Facets").
		Preload("Addresses")

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR email ILIKE ?", pattern, pattern)
	}
	if filter.Facet != nil {
		query = query.Where(
			"id IN (?)",
			r.db.Model(&models.PersonFacetModel{}).Select("person_id").Where("kind = ?", filter.Facet.String()),
		)
	}
	if filter.ClientStatus != nil {
		query = query.Where(
			"id IN (?)",
			r.db.Model(&models.PersonFacetModel{}).Select("person_id").
				Where("kind = ? AND payload->>'Status' = ?", party.FacetClient.String(), filter.ClientStatus.String()),
		)
	}

	var personModels []models.PersonModel
	if err := applyFilter(query, filter.Filter, personSortFields).Find(&personModels).Error; err != nil {
		return nil, err
	}
	return toPersons(personModels)
}

// FindByFacet finds persons carrying the given facet kind
func (r *GormPersonRepository) FindByFacet(ctx context.Context, kind party.FacetKind, filter party.PersonFilter) ([]party.Person, error) {
	filter.Facet = &kind
	return r.FindAll(ctx, filter)
}

// Save creates or updates a person and its facet records. Facet and
// address rows are replaced wholesale; the aggregate is small enough
// that diffing them is not worth the code.
func (r *GormPersonRepository) Save(ctx context.Context, person *party.Person) error {
	model, err := models.PersonModelFromDomain(person)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("person_id = ?", person.ID).Delete(&models.PersonFacetModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("person_id = ?", person.ID).Delete(&models.AddressModel{}).Error; err != nil {
			return err
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).
			Clauses(clause.OnConflict{UpdateAll: true}).
			Create(model).Error
	})
}

// Delete removes a person; facet and address rows cascade
func (r *GormPersonRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("person_id = ?", id).Delete(&models.PersonFacetModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("person_id = ?", id).Delete(&models.AddressModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.PersonModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

var personSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"email":      true,
}

func toPersons(personModels []models.PersonModel) ([]party.Person, error) {
	persons := make([]party.Person, len(personModels))
	for i := range personModels {
		p, err := personModels[i].ToDomain()
		if err != nil {
			return nil, err
		}
		persons[i] = *p
	}
	return persons, nil
}
