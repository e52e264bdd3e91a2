package document

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradedoc/backend/internal/domain/document"
	"github.com/tradedoc/backend/internal/domain/shared"
)

func invoiceFixture(t *testing.T, noteType document.NoteType) (*fixture, *NoteResponse) {
	t.Helper()
	f := newFixture()
	client := f.addClient(t, "TND")
	product := f.addProduct(t, "10", "12", "19")
	f.seedStock(t, product.ID, "50", "5")

	note, err := f.noteSvc.Create(context.Background(), f.actor, CreateNoteRequest{
		Type:     noteType,
		ClientID: client.ID,
		Date:     noteDate,
		Items:    []NoteItemRequest{{ProductID: product.ID, Quantity: dec("4")}},
	})
	require.NoError(t, err)
	return f, note
}

func TestInvoiceServiceCreateFromDeliveryNote(t *testing.T) {
	ctx := context.Background()
	invoiceDate := time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC)

	t.Run("generates a local invoice with stamped tax", func(t *testing.T) {
		f, note := invoiceFixture(t, document.NoteTypeLocal)

		resp, err := f.invoiceSvc.CreateFromDeliveryNote(ctx, f.actor, CreateInvoiceRequest{
			DeliveryNoteID: note.ID,
			Date:           invoiceDate,
		})
		require.NoError(t, err)
		assert.Equal(t, "INV-000001", resp.Number)
		assert.Equal(t, "local", resp.Type)
		assert.False(t, resp.AlreadyExists)
		assert.Equal(t, "2026-07-10", resp.Date)
		assert.Empty(t, resp.DueDate)
		require.Len(t, resp.Items, 1)
		assert.True(t, resp.Items[0].TaxRate.Equal(dec("19")))

		// 4 * 10 = 40; tax 7.60
		assert.True(t, resp.Subtotal.Equal(dec("40")))
		assert.True(t, resp.TaxAmount.Equal(dec("7.60")))
		assert.True(t, resp.Total.Equal(dec("47.60")))
	})

	t.Run("export note yields export numbering and 30-day term", func(t *testing.T) {
		f, note := invoiceFixture(t, document.NoteTypeExport)

		resp, err := f.invoiceSvc.CreateFromDeliveryNote(ctx, f.actor, CreateInvoiceRequest{
			DeliveryNoteID: note.ID,
			Date:           invoiceDate,
		})
		require.NoError(t, err)
		assert.Equal(t, "EXP-000001", resp.Number)
		assert.Equal(t, "export", resp.Type)
		assert.Equal(t, "2026-08-09", resp.DueDate)
	})

	t.Run("second generation returns the existing invoice", func(t *testing.T) {
		f, note := invoiceFixture(t, document.NoteTypeLocal)

		first, err := f.invoiceSvc.CreateFromDeliveryNote(ctx, f.actor, CreateInvoiceRequest{
			DeliveryNoteID: note.ID, Date: invoiceDate,
		})
		require.NoError(t, err)

		second, err := f.invoiceSvc.CreateFromDeliveryNote(ctx, f.actor, CreateInvoiceRequest{
			DeliveryNoteID: note.ID, Date: invoiceDate,
		})
		require.NoError(t, err)
		assert.True(t, second.AlreadyExists)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, first.Number, second.Number)

		_, total, err := f.invoiceSvc.List(ctx, shared.Filter{})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
	})

	t.Run("cancelling the invoice allows a fresh generation", func(t *testing.T) {
		f, note := invoiceFixture(t, document.NoteTypeLocal)

		first, err := f.invoiceSvc.CreateFromDeliveryNote(ctx, f.actor, CreateInvoiceRequest{
			DeliveryNoteID: note.ID, Date: invoiceDate,
		})
		require.NoError(t, err)

		_, err = f.invoiceSvc.Cancel(ctx, f.actor, first.ID)
		require.NoError(t, err)

		second, err := f.invoiceSvc.CreateFromDeliveryNote(ctx, f.actor, CreateInvoiceRequest{
			DeliveryNoteID: note.ID, Date: invoiceDate,
		})
		require.NoError(t, err)
		assert.False(t, second.AlreadyExists)
		assert.NotEqual(t, first.ID, second.ID)
		assert.NotEqual(t, first.Number, second.Number)
	})

	t.Run("cancelled note cannot be invoiced", func(t *testing.T) {
		f, note := invoiceFixture(t, document.NoteTypeLocal)
		_, err := f.noteSvc.Cancel(ctx, f.actor, note.ID, CancelNoteRequest{})
		require.NoError(t, err)

		_, err = f.invoiceSvc.CreateFromDeliveryNote(ctx, f.actor, CreateInvoiceRequest{
			DeliveryNoteID: note.ID, Date: invoiceDate,
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})

	t.Run("unknown note", func(t *testing.T) {
		f := newFixture()

		_, err := f.invoiceSvc.CreateFromDeliveryNote(ctx, f.actor, CreateInvoiceRequest{
			DeliveryNoteID: uuid.New(), Date: invoiceDate,
		})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("gives up after repeated number collisions", func(t *testing.T) {
		f, note := invoiceFixture(t, document.NoteTypeLocal)

		// burn the numbers the generator will produce so every insert collides
		for i := 1; i <= 10; i++ {
			f.invoices.numbers[fmt.Sprintf("INV-%06d", i)] = true
		}

		_, err := f.invoiceSvc.CreateFromDeliveryNote(ctx, f.actor, CreateInvoiceRequest{
			DeliveryNoteID: note.ID, Date: invoiceDate,
		})
		assert.ErrorIs(t, err, shared.ErrNumberExhausted)
	})
}

func TestInvoiceServiceCancel(t *testing.T) {
	ctx := context.Background()
	f, note := invoiceFixture(t, document.NoteTypeLocal)

	invoice, err := f.invoiceSvc.CreateFromDeliveryNote(ctx, f.actor, CreateInvoiceRequest{
		DeliveryNoteID: note.ID,
	})
	require.NoError(t, err)

	t.Run("cancel marks the invoice cancelled", func(t *testing.T) {
		resp, err := f.invoiceSvc.Cancel(ctx, f.actor, invoice.ID)
		require.NoError(t, err)
		assert.Equal(t, "cancelled", resp.Status)
	})

	t.Run("cancelling twice is a no-op", func(t *testing.T) {
		resp, err := f.invoiceSvc.Cancel(ctx, f.actor, invoice.ID)
		require.NoError(t, err)
		assert.Equal(t, "cancelled", resp.Status)
	})

	t.Run("source note and ledger are untouched", func(t *testing.T) {
		got, err := f.noteSvc.Get(ctx, note.ID)
		require.NoError(t, err)
		assert.Equal(t, "active", got.Status)
	})

	t.Run("unknown invoice", func(t *testing.T) {
		_, err := f.invoiceSvc.Cancel(ctx, f.actor, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestInvoiceServiceQueries(t *testing.T) {
	ctx := context.Background()
	f, note := invoiceFixture(t, document.NoteTypeLocal)

	created, err := f.invoiceSvc.CreateFromDeliveryNote(ctx, f.actor, CreateInvoiceRequest{
		DeliveryNoteID: note.ID,
	})
	require.NoError(t, err)

	got, err := f.invoiceSvc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Number, got.Number)
	assert.False(t, got.AlreadyExists)

	invoices, total, err := f.invoiceSvc.List(ctx, shared.Filter{})
	require.NoError(t, err)
	assert.Len(t, invoices, 1)
	assert.EqualValues(t, 1, total)
}
