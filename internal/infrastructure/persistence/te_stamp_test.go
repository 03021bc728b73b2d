package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailcore/backend/internal/domain/catalog"
	"github.com/retailcore/backend/internal/infrastructure/persistence/models"
)

func stampedSellableModel() *models.SellableModel {
	sellable, _ := catalog.NewSellable("WID001", "Widget", catalog.SellableKindProduct,
		decimal.NewFromInt(10), decimal.NewFromInt(6), "un", time.Now().UTC())
	return models.SellableModelFromDomain(sellable)
}

func TestStamper_Create(t *testing.T) {
	t.Run("stamps synchronized rows with a fresh transaction entry", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGorm(t)
		defer mockDB.Close()

		branchID := uuid.New()
		stationID := uuid.New()
		require.NoError(t, NewStamper(branchID, stationID).RegisterCallbacks(gormDB))

		mock.ExpectQuery(`INSERT INTO "transaction_entries" .* RETURNING "id"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(77)))
		mock.ExpectExec(`INSERT INTO "sellables" .*`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		model := stampedSellableModel()
		require.NoError(t, gormDB.Create(model).Error)

		assert.Equal(t, int64(77), model.TEID)
		assert.Equal(t, int64(77), model.OriginTEID)
		assert.Equal(t, branchID, model.OriginBranchID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("preserves the origin of replicated rows", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGorm(t)
		defer mockDB.Close()

		require.NoError(t, NewStamper(uuid.New(), uuid.New()).RegisterCallbacks(gormDB))

		remoteBranch := uuid.New()
		model := stampedSellableModel()
		model.OriginTEID = 500
		model.OriginBranchID = remoteBranch

		mock.ExpectQuery(`INSERT INTO "transaction_entries" .* RETURNING "id"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(78)))
		mock.ExpectExec(`INSERT INTO "sellables" .*`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, gormDB.Create(model).Error)

		assert.Equal(t, int64(78), model.TEID)
		assert.Equal(t, int64(500), model.OriginTEID)
		assert.Equal(t, remoteBranch, model.OriginBranchID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("skips stamping when suppressed", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGorm(t)
		defer mockDB.Close()

		require.NoError(t, NewStamper(uuid.New(), uuid.New()).RegisterCallbacks(gormDB))

		mock.ExpectExec(`INSERT INTO "sellables" .*`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		model := stampedSellableModel()
		ctx := WithoutStamping(context.Background())
		require.NoError(t, gormDB.WithContext(ctx).Create(model).Error)

		assert.Zero(t, model.TEID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ignores tables without sync columns", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGorm(t)
		defer mockDB.Close()

		require.NoError(t, NewStamper(uuid.New(), uuid.New()).RegisterCallbacks(gormDB))

		mock.ExpectExec(`INSERT INTO "sellable_categories" .*`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		category := &models.CategoryModel{Name: "Tools"}
		category.ID = uuid.New()
		category.CreatedAt = time.Now().UTC()
		category.UpdatedAt = category.CreatedAt

		require.NoError(t, gormDB.Create(category).Error)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStamper_Update(t *testing.T) {
	t.Run("bumps the transaction entry of the updated row", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGorm(t)
		defer mockDB.Close()

		require.NoError(t, NewStamper(uuid.New(), uuid.New()).RegisterCallbacks(gormDB))

		model := stampedSellableModel()
		model.TEID = 90
		model.OriginTEID = 90
		model.OriginBranchID = uuid.New()

		mock.ExpectExec(`UPDATE "transaction_entries" SET .* WHERE id = \$5`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE "sellables" SET .*`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, gormDB.Model(model).Update("description", "Bigger widget").Error)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
