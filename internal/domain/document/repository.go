package document

import (
	"context"

	"github.com/google/uuid"

	"github.com/tradedoc/backend/internal/domain/shared"
)

// DeliveryNoteRepository persists delivery notes with their items
type DeliveryNoteRepository interface {
	Create(ctx context.Context, note *DeliveryNote) error
	Update(ctx context.Context, note *DeliveryNote) error
	FindByID(ctx context.Context, id uuid.UUID) (*DeliveryNote, error)
	FindByNumber(ctx context.Context, number string) (*DeliveryNote, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*DeliveryNote, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	CreateItem(ctx context.Context, item *DeliveryNoteItem) error
	UpdateItem(ctx context.Context, item *DeliveryNoteItem) error
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
}

// CancellationRepository persists cancellation records and their item snapshots
type CancellationRepository interface {
	Create(ctx context.Context, cancellation *DeliveryNoteCancellation) error
	FindByNote(ctx context.Context, noteID uuid.UUID) ([]*DeliveryNoteCancellation, error)
	// ProtectedItemIDs returns the IDs of note items referenced by any
	// cancellation snapshot of the note. Those lines must survive edits
	// so a later reactivation can still be matched against history.
	ProtectedItemIDs(ctx context.Context, noteID uuid.UUID) (map[uuid.UUID]bool, error)
	// DeleteByNote removes the note's cancellation records and their
	// item snapshots. Reactivation consumes the records this way.
	DeleteByNote(ctx context.Context, noteID uuid.UUID) error
}

// InvoiceRepository persists invoices with their items
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *Invoice) error
	Update(ctx context.Context, invoice *Invoice) error
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	FindByNumber(ctx context.Context, number string) (*Invoice, error)
	// FindActiveByNote returns the active invoice generated from the
	// note, or shared.ErrNotFound when none exists.
	FindActiveByNote(ctx context.Context, noteID uuid.UUID) (*Invoice, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Invoice, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
