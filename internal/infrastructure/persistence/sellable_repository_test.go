package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/retailcore/backend/internal/domain/catalog"
	"github.com/retailcore/backend/internal/domain/shared"
)

func newMockGorm(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func sellableRows(id uuid.UUID, code string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "version", "code", "description", "kind", "status", "base_price", "cost", "unit", "on_sale_price"}).
		AddRow(id, 1, code, "Widget", catalog.SellableKindProduct, catalog.SellableStatusAvailable, decimal.NewFromInt(10), decimal.NewFromInt(6), "un", decimal.Zero)
}

func TestGormSellableRepository_FindByID(t *testing.T) {
	t.Run("finds existing sellable", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGorm(t)
		defer mockDB.Close()
		repo := NewGormSellableRepository(gormDB)

		id := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "sellables" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(id, 1).
			WillReturnRows(sellableRows(id, "WID001"))

		sellable, err := repo.FindByID(context.Background(), id)

		assert.NoError(t, err)
		require.NotNil(t, sellable)
		assert.Equal(t, id, sellable.ID)
		assert.Equal(t, "WID001", sellable.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps missing row to not found", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGorm(t)
		defer mockDB.Close()
		repo := NewGormSellableRepository(gormDB)

		id := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "sellables" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(id, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		sellable, err := repo.FindByID(context.Background(), id)

		assert.Nil(t, sellable)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormSellableRepository_FindByCode(t *testing.T) {
	t.Run("normalizes the code before querying", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGorm(t)
		defer mockDB.Close()
		repo := NewGormSellableRepository(gormDB)

		id := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "sellables" WHERE code = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("WID001", 1).
			WillReturnRows(sellableRows(id, "WID001"))

		sellable, err := repo.FindByCode(context.Background(), "  wid001 ")

		assert.NoError(t, err)
		require.NotNil(t, sellable)
		assert.Equal(t, "WID001", sellable.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps missing code to not found", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGorm(t)
		defer mockDB.Close()
		repo := NewGormSellableRepository(gormDB)

		mock.ExpectQuery(`SELECT \* FROM "sellables" WHERE code = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("NOPE", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		sellable, err := repo.FindByCode(context.Background(), "NOPE")

		assert.Nil(t, sellable)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormSellableRepository_FindAll(t *testing.T) {
	t.Run("applies status filter", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGorm(t)
		defer mockDB.Close()
		repo := NewGormSellableRepository(gormDB)

		status := catalog.SellableStatusAvailable
		mock.ExpectQuery(`SELECT \* FROM "sellables" WHERE status = \$1 .*LIMIT .*`).
			WithArgs(status, 20).
			WillReturnRows(sellableRows(uuid.New(), "WID001"))

		sellables, err := repo.FindAll(context.Background(), catalog.SellableFilter{
			Filter: shared.DefaultFilter(),
			Status: &status,
		})

		assert.NoError(t, err)
		assert.Len(t, sellables, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
