package document

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradedoc/backend/internal/domain/shared"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestNote(t *testing.T, noteType NoteType) *DeliveryNote {
	t.Helper()
	note, err := NewDeliveryNote("DN-000001", noteType, uuid.New(), time.Now(), "TND")
	require.NoError(t, err)
	return note
}

func TestNewDeliveryNoteItem(t *testing.T) {
	noteID := uuid.New()
	productID := uuid.New()

	t.Run("line total applies discount and rounds", func(t *testing.T) {
		item, err := NewDeliveryNoteItem(noteID, productID, dec("3"), dec("19.99"), dec("10"))
		require.NoError(t, err)
		// 3 * 19.99 * 0.9 = 53.973 -> 53.97
		assert.True(t, item.LineTotal.Equal(dec("53.97")), "got %s", item.LineTotal)
	})

	t.Run("zero discount", func(t *testing.T) {
		item, err := NewDeliveryNoteItem(noteID, productID, dec("2"), dec("5"), decimal.Zero)
		require.NoError(t, err)
		assert.True(t, item.LineTotal.Equal(dec("10")))
	})

	t.Run("full discount yields zero total", func(t *testing.T) {
		item, err := NewDeliveryNoteItem(noteID, productID, dec("2"), dec("5"), dec("100"))
		require.NoError(t, err)
		assert.True(t, item.LineTotal.IsZero())
	})

	cases := []struct {
		name     string
		quantity string
		price    string
		discount string
		code     string
	}{
		{"zero quantity", "0", "5", "0", "INVALID_QUANTITY"},
		{"negative quantity", "-1", "5", "0", "INVALID_QUANTITY"},
		{"negative price", "1", "-5", "0", "INVALID_PRICE"},
		{"negative discount", "1", "5", "-1", "INVALID_DISCOUNT"},
		{"discount above 100", "1", "5", "101", "INVALID_DISCOUNT"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewDeliveryNoteItem(noteID, productID, dec(tc.quantity), dec(tc.price), dec(tc.discount))
			var domainErr *shared.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, tc.code, domainErr.Code)
		})
	}

	t.Run("missing product", func(t *testing.T) {
		_, err := NewDeliveryNoteItem(noteID, uuid.Nil, dec("1"), dec("5"), decimal.Zero)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_PRODUCT", domainErr.Code)
	})
}

func TestDeliveryNoteItemUpdatePricing(t *testing.T) {
	item, err := NewDeliveryNoteItem(uuid.New(), uuid.New(), dec("1"), dec("10"), decimal.Zero)
	require.NoError(t, err)

	err = item.UpdatePricing(dec("4"), dec("2.50"), dec("20"))
	require.NoError(t, err)
	// 4 * 2.50 * 0.8 = 8
	assert.True(t, item.LineTotal.Equal(dec("8")))

	err = item.UpdatePricing(dec("0"), dec("2.50"), decimal.Zero)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_QUANTITY", domainErr.Code)
}

func TestNewDeliveryNote(t *testing.T) {
	clientID := uuid.New()
	date := time.Date(2026, 4, 2, 16, 30, 0, 0, time.UTC)

	t.Run("valid note", func(t *testing.T) {
		note, err := NewDeliveryNote("DN-000042", NoteTypeExport, clientID, date, "EUR")
		require.NoError(t, err)
		assert.Equal(t, NoteStatusActive, note.Status)
		assert.Equal(t, time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC), note.Date)
		assert.Empty(t, note.Items)
	})

	cases := []struct {
		name     string
		number   string
		noteType NoteType
		clientID uuid.UUID
		currency string
		code     string
	}{
		{"empty number", "", NoteTypeLocal, clientID, "TND", "INVALID_NUMBER"},
		{"bad type", "DN-1", NoteType("wholesale"), clientID, "TND", "INVALID_NOTE_TYPE"},
		{"missing client", "DN-1", NoteTypeLocal, uuid.Nil, "TND", "INVALID_CLIENT"},
		{"empty currency", "DN-1", NoteTypeLocal, clientID, "", "INVALID_CURRENCY"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewDeliveryNote(tc.number, tc.noteType, tc.clientID, date, tc.currency)
			var domainErr *shared.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, tc.code, domainErr.Code)
		})
	}
}

func TestDeliveryNoteItemsAndTotals(t *testing.T) {
	note := newTestNote(t, NoteTypeLocal)
	productA := uuid.New()
	productB := uuid.New()

	_, err := note.AddItem(productA, dec("2"), dec("10"), decimal.Zero)
	require.NoError(t, err)
	_, err = note.AddItem(productB, dec("1"), dec("7.50"), dec("10"))
	require.NoError(t, err)

	// 20 + 6.75
	assert.True(t, note.Total().Equal(dec("26.75")))

	lines := note.OutLines()
	require.Len(t, lines, 2)
	assert.Equal(t, productA, lines[0].ProductID)
	assert.True(t, lines[0].Quantity.Equal(dec("2")))
	assert.Equal(t, productB, lines[1].ProductID)

	item := note.FindItem(note.Items[1].ID)
	require.NotNil(t, item)
	assert.Equal(t, productB, item.ProductID)
	assert.Nil(t, note.FindItem(uuid.New()))
}

func TestDeliveryNoteLifecycleTransitions(t *testing.T) {
	note := newTestNote(t, NoteTypeLocal)

	assert.True(t, note.IsActive())
	assert.True(t, note.Cancel())
	assert.False(t, note.IsActive())

	// cancelling again is a no-op
	assert.False(t, note.Cancel())
	assert.Equal(t, NoteStatusCancelled, note.Status)

	assert.True(t, note.Reactivate())
	assert.True(t, note.IsActive())
	assert.False(t, note.Reactivate())
}

func TestNoteTypeMovementSource(t *testing.T) {
	assert.Equal(t, "sale_local", NoteTypeLocal.MovementSource().String())
	assert.Equal(t, "sale_export", NoteTypeExport.MovementSource().String())
}

func TestNewCancellation(t *testing.T) {
	note := newTestNote(t, NoteTypeLocal)
	_, err := note.AddItem(uuid.New(), dec("3"), dec("4"), dec("5"))
	require.NoError(t, err)
	actorID := uuid.New()

	c := NewCancellation(note, "client withdrew the order", actorID)

	assert.Equal(t, note.ID, c.DeliveryNoteID)
	assert.Equal(t, actorID, c.ActorID)
	assert.Equal(t, "client withdrew the order", c.Reason)
	require.Len(t, c.Items, 1)
	assert.Equal(t, note.Items[0].ID, c.Items[0].ItemID)
	assert.Equal(t, note.Items[0].ProductID, c.Items[0].ProductID)
	assert.True(t, c.Items[0].Quantity.Equal(dec("3")))
	assert.True(t, c.Items[0].UnitPrice.Equal(dec("4")))
	assert.True(t, c.Items[0].DiscountPercent.Equal(dec("5")))
}
