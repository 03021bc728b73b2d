package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailcore/backend/internal/domain/shared"
	domainsync "github.com/retailcore/backend/internal/domain/sync"
)

func TestGormBranchSyncRepository_FindOrCreate(t *testing.T) {
	t.Run("returns the existing watermark row", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGorm(t)
		defer mockDB.Close()
		repo := NewGormBranchSyncRepository(gormDB)

		branchID := uuid.New()
		watermark := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

		rows := sqlmock.NewRows([]string{"id", "branch_id", "policy", "watermark"}).
			AddRow(uuid.New(), branchID, domainsync.PolicyShopToOffice, watermark)

		mock.ExpectQuery(`SELECT \* FROM "branch_synchronizations" WHERE branch_id = \$1 AND policy = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(branchID, domainsync.PolicyShopToOffice, 1).
			WillReturnRows(rows)

		sync, err := repo.FindOrCreate(context.Background(), branchID, domainsync.PolicyShopToOffice)

		assert.NoError(t, err)
		require.NotNil(t, sync)
		assert.Equal(t, branchID, sync.BranchID)
		assert.True(t, sync.Watermark.Equal(watermark))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("creates the row at the zero watermark on first contact", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGorm(t)
		defer mockDB.Close()
		repo := NewGormBranchSyncRepository(gormDB)

		branchID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "branch_synchronizations" WHERE branch_id = \$1 AND policy = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(branchID, domainsync.PolicyShopToOffice, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		mock.ExpectExec(`INSERT INTO "branch_synchronizations" .* ON CONFLICT DO NOTHING`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		mock.ExpectQuery(`SELECT \* FROM "branch_synchronizations" WHERE branch_id = \$1 AND policy = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(branchID, domainsync.PolicyShopToOffice, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "branch_id", "policy", "watermark"}).
				AddRow(uuid.New(), branchID, domainsync.PolicyShopToOffice, time.Time{}))

		sync, err := repo.FindOrCreate(context.Background(), branchID, domainsync.PolicyShopToOffice)

		assert.NoError(t, err)
		require.NotNil(t, sync)
		assert.True(t, sync.Watermark.IsZero())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormBranchSyncRepository_Update(t *testing.T) {
	t.Run("persists the advanced watermark", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGorm(t)
		defer mockDB.Close()
		repo := NewGormBranchSyncRepository(gormDB)

		sync, err := domainsync.NewBranchSynchronization(uuid.New(), domainsync.PolicyShopToOffice, time.Now().UTC())
		require.NoError(t, err)
		require.NoError(t, sync.Advance(time.Now().UTC(), time.Now().UTC()))

		mock.ExpectExec(`UPDATE "branch_synchronizations" SET .* WHERE id = \$3`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Update(context.Background(), sync))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps a vanished row to not found", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGorm(t)
		defer mockDB.Close()
		repo := NewGormBranchSyncRepository(gormDB)

		sync, err := domainsync.NewBranchSynchronization(uuid.New(), domainsync.PolicyShopToOffice, time.Now().UTC())
		require.NoError(t, err)

		mock.ExpectExec(`UPDATE "branch_synchronizations" SET .* WHERE id = \$3`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Update(context.Background(), sync), shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
