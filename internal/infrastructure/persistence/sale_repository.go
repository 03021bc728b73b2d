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

// GormSaleRepository implements SaleRepository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// Save creates a sale with its items
func (r *GormSaleRepository) Save(ctx context.Context, sale *trade.Sale) error {
	model := models.SaleModelFromDomain(sale)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(model).Error
	})
}

// FindByID finds a sale with its items loaded
func (r *GormSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Sale, error) {
	return r.find(r.db.WithContext(ctx), "id = ?", id)
}

// FindByIDForUpdate loads the sale under a row lock so confirmation and
// return serialize per sale
func (r *GormSaleRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*trade.Sale, error) {
	return r.find(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), "id = ?", id)
}

// FindByIdentifier finds a sale by its branch-scoped document number
func (r *GormSaleRepository) FindByIdentifier(ctx context.Context, branchID uuid.UUID, identifier int64) (*trade.Sale, error) {
	var model models.SaleModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("branch_id = ? AND identifier = ?", branchID, identifier).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

func (r *GormSaleRepository) find(db *gorm.DB, query string, arg any) (*trade.Sale, error) {
	var model models.SaleModel
	if err := db.Preload("Items").Where(query, arg).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// List finds sales matching the filter, paginated
func (r *GormSaleRepository) List(ctx context.Context, filter trade.SaleFilter) (*shared.Paginated[*trade.Sale], error) {
	query := r.db.WithContext(ctx).Model(&models.SaleModel{}).Preload("Items")

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.BranchID != nil {
		query = query.Where("branch_id = ?", *filter.BranchID)
	}
	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
	}
	if filter.From != nil {
		query = query.Where("open_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("open_date <= ?", *filter.To)
	}

	return paginate(query, filter.Filter, DocumentSortFields, func(q *gorm.DB) ([]*trade.Sale, error) {
		var saleModels []models.SaleModel
		if err := q.Find(&saleModels).Error; err != nil {
			return nil, err
		}
		sales := make([]*trade.Sale, len(saleModels))
		for i := range saleModels {
			sales[i] = saleModels[i].ToDomain()
		}
		return sales, nil
	})
}

// Update persists changes to a sale. The version check turns a lost
// update into ErrConcurrencyConflict.
func (r *GormSaleRepository) Update(ctx context.Context, sale *trade.Sale) error {
	model := models.SaleModelFromDomain(sale)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.SaleModel{}).
			Where("id = ? AND version = ?", model.ID, model.Version-1).
			Updates(map[string]interface{}{
				"status":          model.Status,
				"client_id":       model.ClientID,
				"sales_person_id": model.SalesPersonID,
				"cfop_code":       model.CFOPCode,
				"discount":        model.Discount,
				"surcharge":       model.Surcharge,
				"confirm_date":    model.ConfirmDate,
				"close_date":      model.CloseDate,
				"return_date":     model.ReturnDate,
				"cancel_date":     model.CancelDate,
				"version":         model.Version,
				"updated_at":      model.UpdatedAt,
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
