package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/retailcore/backend/internal/domain/shared"
	domainsync "github.com/retailcore/backend/internal/domain/sync"
	"github.com/retailcore/backend/internal/infrastructure/persistence/models"
)

// GormBranchSyncRepository implements BranchSyncRepository using GORM
type GormBranchSyncRepository struct {
	db *gorm.DB
}

// NewGormBranchSyncRepository creates a new GormBranchSyncRepository
func NewGormBranchSyncRepository(db *gorm.DB) *GormBranchSyncRepository {
	return &GormBranchSyncRepository{db: db}
}

// FindOrCreate resolves the watermark row for a (branch, policy) pair,
// creating it at the zero watermark on first contact
func (r *GormBranchSyncRepository) FindOrCreate(ctx context.Context, branchID uuid.UUID, policy domainsync.Policy) (*domainsync.BranchSynchronization, error) {
	var model models.BranchSyncModel
	err := r.db.WithContext(ctx).
		Where("branch_id = ? AND policy = ?", branchID, policy).
		First(&model).Error
	if err == nil {
		return model.ToDomain(), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	b, err := domainsync.NewBranchSynchronization(branchID, policy, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	model = models.BranchSyncModel{}
	model.FromDomain(b)

	// Another process may create the row concurrently; the conflict
	// clause makes the insert a no-op and the reload wins either way.
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).
		Where("branch_id = ? AND policy = ?", branchID, policy).
		First(&model).Error; err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// Update persists a watermark advance
func (r *GormBranchSyncRepository) Update(ctx context.Context, b *domainsync.BranchSynchronization) error {
	result := r.db.WithContext(ctx).
		Model(&models.BranchSyncModel{}).
		Where("id = ?", b.ID).
		Updates(map[string]interface{}{
			"watermark":  b.Watermark,
			"updated_at": b.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ListByBranch lists all watermark rows of a branch
func (r *GormBranchSyncRepository) ListByBranch(ctx context.Context, branchID uuid.UUID) ([]*domainsync.BranchSynchronization, error) {
	var rowModels []models.BranchSyncModel
	if err := r.db.WithContext(ctx).
		Where("branch_id = ?", branchID).
		Order("policy").
		Find(&rowModels).Error; err != nil {
		return nil, err
	}

	rows := make([]*domainsync.BranchSynchronization, len(rowModels))
	for i := range rowModels {
		rows[i] = rowModels[i].ToDomain()
	}
	return rows, nil
}
