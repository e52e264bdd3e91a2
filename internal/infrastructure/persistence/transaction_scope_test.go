package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appdoc "github.com/tradedoc/backend/internal/application/document"
	appledger "github.com/tradedoc/backend/internal/application/ledger"
	"github.com/tradedoc/backend/internal/domain/ledger"
	"github.com/tradedoc/backend/internal/domain/shared"
)

func TestGormLedgerTransactionScope(t *testing.T) {
	db := newTestDB(t)
	scope := NewGormLedgerTransactionScope(db)
	ctx := context.Background()

	t.Run("commits on success", func(t *testing.T) {
		productID := uuid.New()
		err := scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
			snapshot, err := ledger.NewStockSnapshot(productID)
			require.NoError(t, err)
			require.NoError(t, snapshot.ApplyIn(dec("10"), dec("4"), time.Now()))
			return repos.SnapshotRepo().Save(ctx, snapshot)
		})
		require.NoError(t, err)

		found, err := NewGormStockSnapshotRepository(db, false).FindByProduct(ctx, productID)
		require.NoError(t, err)
		assert.True(t, found.QuantityAvailable.Equal(dec("10")))
	})

	t.Run("rolls back on error", func(t *testing.T) {
		productID := uuid.New()
		boom := errors.New("ledger write rejected")
		err := scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
			snapshot, err := ledger.NewStockSnapshot(productID)
			require.NoError(t, err)
			if err := repos.SnapshotRepo().Save(ctx, snapshot); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		_, err = NewGormStockSnapshotRepository(db, false).FindByProduct(ctx, productID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormDocumentTransactionScope(t *testing.T) {
	db := newTestDB(t)
	scope := NewGormDocumentTransactionScope(db)
	ctx := context.Background()

	t.Run("note and ledger writes commit together", func(t *testing.T) {
		note := makeNote(t, 1)
		productID := note.Items[0].ProductID
		err := scope.Execute(ctx, func(repos appdoc.TransactionalRepositories) error {
			if err := repos.NoteRepo().Create(ctx, note); err != nil {
				return err
			}
			snapshot, err := ledger.NewStockSnapshot(productID)
			require.NoError(t, err)
			return repos.SnapshotRepo().Save(ctx, snapshot)
		})
		require.NoError(t, err)

		_, err = NewGormDeliveryNoteRepository(db).FindByID(ctx, note.ID)
		require.NoError(t, err)
		_, err = NewGormStockSnapshotRepository(db, false).FindByProduct(ctx, productID)
		require.NoError(t, err)
	})

	t.Run("note write rolls back with the failing step", func(t *testing.T) {
		note := makeNote(t, 1)
		boom := errors.New("movement write rejected")
		err := scope.Execute(ctx, func(repos appdoc.TransactionalRepositories) error {
			if err := repos.NoteRepo().Create(ctx, note); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		_, err = NewGormDeliveryNoteRepository(db).FindByID(ctx, note.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
