package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retailcore/backend/internal/domain/fiscal"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/infrastructure/persistence/models"
)

// GormBookEntryRepository implements BookEntryRepository using GORM
type GormBookEntryRepository struct {
	db *gorm.DB
}

// NewGormBookEntryRepository creates a new GormBookEntryRepository
func NewGormBookEntryRepository(db *gorm.DB) *GormBookEntryRepository {
	return &GormBookEntryRepository{db: db}
}

// Save inserts a fiscal book line. The store only ever inserts;
// corrections go through reversal entries.
func (r *GormBookEntryRepository) Save(ctx context.Context, entry *fiscal.BookEntry) error {
	model := &models.BookEntryModel{}
	model.FromDomain(entry)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByID finds a book entry by its ID
func (r *GormBookEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*fiscal.BookEntry, error) {
	var model models.BookEntryModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByGroup finds all book entries written for a payment group
func (r *GormBookEntryRepository) FindByGroup(ctx context.Context, groupID uuid.UUID) ([]*fiscal.BookEntry, error) {
	var entryModels []models.BookEntryModel
	if err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("entry_date").
		Find(&entryModels).Error; err != nil {
		return nil, err
	}
	return toBookEntries(entryModels), nil
}

// ListByPeriod lists one book's entries for a branch inside a date range
func (r *GormBookEntryRepository) ListByPeriod(ctx context.Context, book fiscal.BookType, branchID uuid.UUID, from, to time.Time) ([]*fiscal.BookEntry, error) {
	var entryModels []models.BookEntryModel
	if err := r.db.WithContext(ctx).
		Where("book = ? AND branch_id = ? AND entry_date >= ? AND entry_date <= ?", book, branchID, from, to).
		Order("entry_date").
		Find(&entryModels).Error; err != nil {
		return nil, err
	}
	return toBookEntries(entryModels), nil
}

func toBookEntries(entryModels []models.BookEntryModel) []*fiscal.BookEntry {
	entries := make([]*fiscal.BookEntry, len(entryModels))
	for i := range entryModels {
		entries[i] = entryModels[i].ToDomain()
	}
	return entries
}
