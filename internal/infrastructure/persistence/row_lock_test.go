package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: mockDB}), &gorm.Config{})
	require.NoError(t, err)
	return db, mock
}

func TestStockSnapshotRowLocking(t *testing.T) {
	ctx := context.Background()
	productID := uuid.New()

	t.Run("locking repository takes a row lock on postgres", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewGormStockSnapshotRepository(db, true)

		mock.ExpectQuery(`SELECT \* FROM "stock_snapshots" WHERE product_id = \$1 ORDER BY "stock_snapshots"\."id" LIMIT \$2 FOR UPDATE`).
			WithArgs(productID, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "quantity_available", "average_cost"}).
				AddRow(uuid.New(), productID, "10", "2.50"))

		snapshot, err := repo.FindByProduct(ctx, productID)
		require.NoError(t, err)
		assert.Equal(t, productID, snapshot.ProductID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("plain repository reads without a lock", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewGormStockSnapshotRepository(db, false)

		mock.ExpectQuery(`SELECT \* FROM "stock_snapshots" WHERE product_id = \$1 ORDER BY "stock_snapshots"\."id" LIMIT \$2$`).
			WithArgs(productID, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "quantity_available", "average_cost"}).
				AddRow(uuid.New(), productID, "10", "2.50"))

		_, err := repo.FindByProduct(ctx, productID)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("sequence read takes a row lock on postgres", func(t *testing.T) {
		db, mock := newMockDB(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT \* FROM "document_sequences" WHERE kind = \$1 ORDER BY "document_sequences"\."kind" LIMIT \$2 FOR UPDATE`).
			WithArgs("delivery_note", 1).
			WillReturnRows(sqlmock.NewRows([]string{"kind", "prefix", "next_value", "width"}).
				AddRow("delivery_note", "DN", 7, 6))
		mock.ExpectExec(`UPDATE "document_sequences" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		number, err := NewGormNumberGenerator(db).Next(ctx, "delivery_note")
		require.NoError(t, err)
		assert.Equal(t, "DN-000007", number)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
