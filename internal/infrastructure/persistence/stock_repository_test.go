package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradedoc/backend/internal/domain/ledger"
	"github.com/tradedoc/backend/internal/domain/shared"
)

func TestGormStockSnapshotRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormStockSnapshotRepository(db, false)
	ctx := context.Background()

	t.Run("save and find by product", func(t *testing.T) {
		productID := uuid.New()
		snapshot, err := ledger.NewStockSnapshot(productID)
		require.NoError(t, err)
		require.NoError(t, snapshot.ApplyIn(dec("10"), dec("2.50"), time.Now()))

		require.NoError(t, repo.Save(ctx, snapshot))

		found, err := repo.FindByProduct(ctx, productID)
		require.NoError(t, err)
		assert.Equal(t, snapshot.ID, found.ID)
		assert.True(t, found.QuantityAvailable.Equal(dec("10")))
		assert.True(t, found.AverageCost.Equal(dec("2.50")))
	})

	t.Run("save updates in place", func(t *testing.T) {
		productID := uuid.New()
		snapshot, err := ledger.NewStockSnapshot(productID)
		require.NoError(t, err)
		require.NoError(t, snapshot.ApplyIn(dec("5"), dec("1"), time.Now()))
		require.NoError(t, repo.Save(ctx, snapshot))

		require.NoError(t, snapshot.ApplyOut(dec("3"), time.Now()))
		require.NoError(t, repo.Save(ctx, snapshot))

		found, err := repo.FindByProduct(ctx, productID)
		require.NoError(t, err)
		assert.True(t, found.QuantityAvailable.Equal(dec("2")))
	})

	t.Run("unknown product", func(t *testing.T) {
		_, err := repo.FindByProduct(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("has_stock filter", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewGormStockSnapshotRepository(db, false)

		stocked, err := ledger.NewStockSnapshot(uuid.New())
		require.NoError(t, err)
		require.NoError(t, stocked.ApplyIn(dec("4"), dec("1"), time.Now()))
		require.NoError(t, repo.Save(ctx, stocked))

		empty, err := ledger.NewStockSnapshot(uuid.New())
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, empty))

		all, err := repo.FindAll(ctx, shared.Filter{})
		require.NoError(t, err)
		assert.Len(t, all, 2)

		filter := shared.Filter{Filters: map[string]interface{}{"has_stock": true}}
		withStock, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, withStock, 1)
		assert.Equal(t, stocked.ProductID, withStock[0].ProductID)

		count, err := repo.Count(ctx, filter)
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)
	})
}

func TestGormStockMovementRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormStockMovementRepository(db)
	ctx := context.Background()
	actorID := uuid.New()

	newMovement := func(t *testing.T, productID uuid.UUID, movType ledger.MovementType, source ledger.MovementSource, quantity string) *ledger.StockMovement {
		t.Helper()
		m, err := ledger.NewStockMovement(productID, movType, source, dec(quantity), time.Now(), actorID)
		require.NoError(t, err)
		return m
	}

	t.Run("create and find by id", func(t *testing.T) {
		movement := newMovement(t, uuid.New(), ledger.MovementTypeIn, ledger.SourcePurchase, "5")
		movement.WithUnitCost(dec("3.25")).WithNotes("first receipt")

		require.NoError(t, repo.Create(ctx, movement))

		found, err := repo.FindByID(ctx, movement.ID)
		require.NoError(t, err)
		assert.Equal(t, ledger.MovementTypeIn, found.Type)
		require.NotNil(t, found.UnitCost)
		assert.True(t, found.UnitCost.Equal(dec("3.25")))
		assert.Equal(t, "first receipt", found.Notes)
	})

	t.Run("reference queries and delete by reference", func(t *testing.T) {
		noteID := uuid.New()
		productA := uuid.New()
		productB := uuid.New()

		for _, p := range []uuid.UUID{productA, productB} {
			m := newMovement(t, p, ledger.MovementTypeOut, ledger.SourceSaleLocal, "2")
			m.WithReference(ledger.ReferenceTypeDeliveryNote, noteID)
			require.NoError(t, repo.Create(ctx, m))
		}
		unrelated := newMovement(t, productA, ledger.MovementTypeOut, ledger.SourceSaleLocal, "1")
		unrelated.WithReference(ledger.ReferenceTypeDeliveryNote, uuid.New())
		require.NoError(t, repo.Create(ctx, unrelated))

		live, err := repo.FindByReference(ctx, ledger.ReferenceTypeDeliveryNote, noteID)
		require.NoError(t, err)
		assert.Len(t, live, 2)

		require.NoError(t, repo.DeleteByReference(ctx, ledger.ReferenceTypeDeliveryNote, noteID))

		live, err = repo.FindByReference(ctx, ledger.ReferenceTypeDeliveryNote, noteID)
		require.NoError(t, err)
		assert.Empty(t, live)

		// the unrelated movement survives
		_, err = repo.FindByID(ctx, unrelated.ID)
		require.NoError(t, err)
	})

	t.Run("update and delete", func(t *testing.T) {
		movement := newMovement(t, uuid.New(), ledger.MovementTypeAdjustment, ledger.SourceAdjustment, "4")
		require.NoError(t, repo.Create(ctx, movement))

		movement.Quantity = dec("-2")
		movement.Notes = "recount"
		require.NoError(t, repo.Update(ctx, movement))

		found, err := repo.FindByID(ctx, movement.ID)
		require.NoError(t, err)
		assert.True(t, found.Quantity.Equal(dec("-2")))

		require.NoError(t, repo.Delete(ctx, movement.ID))
		_, err = repo.FindByID(ctx, movement.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		assert.ErrorIs(t, repo.Delete(ctx, movement.ID), shared.ErrNotFound)
	})

	t.Run("find by product with filters", func(t *testing.T) {
		productID := uuid.New()
		in := newMovement(t, productID, ledger.MovementTypeIn, ledger.SourcePurchase, "5")
		require.NoError(t, repo.Create(ctx, in))
		adj := newMovement(t, productID, ledger.MovementTypeAdjustment, ledger.SourceAdjustment, "-1")
		require.NoError(t, repo.Create(ctx, adj))

		all, err := repo.FindByProduct(ctx, productID, shared.Filter{})
		require.NoError(t, err)
		assert.Len(t, all, 2)

		adjustments, err := repo.FindByProduct(ctx, productID, shared.Filter{
			Filters: map[string]interface{}{"source": "adjustment"},
		})
		require.NoError(t, err)
		require.Len(t, adjustments, 1)
		assert.Equal(t, adj.ID, adjustments[0].ID)
	})
}
