package document

import (
	"context"

	"github.com/google/uuid"

	"github.com/tradedoc/backend/internal/domain/catalog"
	"github.com/tradedoc/backend/internal/domain/document"
	"github.com/tradedoc/backend/internal/domain/ledger"
	"github.com/tradedoc/backend/internal/domain/shared"
)

// DeliveryNoteService drives the delivery-note lifecycle. Every
// transition that changes stock runs the ledger reconciliation inside
// the same transaction as the document change, keeping the invariant
// that an active note's items always mirror its live movements and a
// cancelled note has none.
type DeliveryNoteService struct {
	scope     TransactionScope
	numbers   document.NumberGenerator
	ledger    *ledger.Service
	publisher shared.TopicPublisher
}

// NewDeliveryNoteService creates a new DeliveryNoteService
func NewDeliveryNoteService(scope TransactionScope, numbers document.NumberGenerator, publisher shared.TopicPublisher) *DeliveryNoteService {
	if publisher == nil {
		publisher = shared.NoOpTopicPublisher{}
	}
	return &DeliveryNoteService{
		scope:     scope,
		numbers:   numbers,
		ledger:    ledger.NewService(),
		publisher: publisher,
	}
}

// Create creates an active delivery note and applies one outbound
// movement per line. Fails atomically when any product lacks stock.
func (s *DeliveryNoteService) Create(ctx context.Context, actor shared.Actor, req CreateNoteRequest) (*NoteResponse, error) {
	if len(req.Items) == 0 {
		return nil, shared.ErrEmptyDocument
	}
	if !req.Type.IsValid() {
		return nil, shared.NewDomainError("INVALID_NOTE_TYPE", "Invalid delivery note type")
	}

	var note *document.DeliveryNote
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		client, err := repos.ClientRepo().FindByID(ctx, req.ClientID)
		if err != nil {
			return err
		}
		if !client.IsActive() {
			return shared.NewDomainError("INACTIVE_CLIENT", "Cannot issue documents to an inactive client")
		}

		currency := req.Currency
		if currency == "" {
			currency = client.Currency
		}

		number, err := s.numbers.Next(ctx, document.KindDeliveryNote)
		if err != nil {
			return err
		}

		note, err = document.NewDeliveryNote(number, req.Type, client.ID, req.Date, currency)
		if err != nil {
			return err
		}

		for _, line := range req.Items {
			product, err := s.resolveProduct(ctx, repos.ProductRepo(), line.ProductID)
			if err != nil {
				return err
			}
			unitPrice := product.SalePriceFor(req.Type == document.NoteTypeExport)
			if line.UnitPrice != nil {
				unitPrice = *line.UnitPrice
			}
			if _, err := note.AddItem(product.ID, line.Quantity, unitPrice, line.DiscountPercent); err != nil {
				return err
			}
		}

		if err := repos.NoteRepo().Create(ctx, note); err != nil {
			return err
		}

		return s.applyOutMovements(ctx, repos, note, actor.ID)
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, shared.TopicDeliveryNotes, shared.TopicStock, shared.TopicStockMovements)
	return ToNoteResponse(note), nil
}

// Edit rewrites the note's header and item list. Lines referenced by a
// cancellation snapshot survive removal so a later reactivation can be
// matched against history. When the note is active the ledger is
// reconciled to the new item list in the same transaction; a cancelled
// note has no live movements, so only the document changes.
func (s *DeliveryNoteService) Edit(ctx context.Context, actor shared.Actor, noteID uuid.UUID, req EditNoteRequest) (*NoteResponse, error) {
	var note *document.DeliveryNote
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		note, err = repos.NoteRepo().FindByID(ctx, noteID)
		if err != nil {
			return err
		}

		if req.ClientID != note.ClientID {
			client, err := repos.ClientRepo().FindByID(ctx, req.ClientID)
			if err != nil {
				return err
			}
			if !client.IsActive() {
				return shared.NewDomainError("INACTIVE_CLIENT", "Cannot issue documents to an inactive client")
			}
			note.ClientID = client.ID
		}
		note.Date = shared.DateOnly(req.Date)
		note.Touch()

		protected, err := repos.CancellationRepo().ProtectedItemIDs(ctx, noteID)
		if err != nil {
			return err
		}

		requested := make(map[uuid.UUID]bool, len(req.Items))
		for _, line := range req.Items {
			if line.ItemID == nil {
				continue
			}
			requested[*line.ItemID] = true
		}

		// Drop lines absent from the request, keeping protected ones.
		kept := note.Items[:0]
		for i := range note.Items {
			item := note.Items[i]
			if requested[item.ID] || protected[item.ID] {
				kept = append(kept, item)
				continue
			}
			if err := repos.NoteRepo().DeleteItem(ctx, item.ID); err != nil {
				return err
			}
		}
		note.Items = kept

		for _, line := range req.Items {
			if line.ItemID != nil {
				item := note.FindItem(*line.ItemID)
				if item == nil {
					return shared.NewDomainError("ITEM_NOT_FOUND", "Delivery note item not found")
				}
				unitPrice := item.UnitPrice
				if line.UnitPrice != nil {
					unitPrice = *line.UnitPrice
				}
				if err := item.UpdatePricing(line.Quantity, unitPrice, line.DiscountPercent); err != nil {
					return err
				}
				if err := repos.NoteRepo().UpdateItem(ctx, item); err != nil {
					return err
				}
				continue
			}

			product, err := s.resolveProduct(ctx, repos.ProductRepo(), line.ProductID)
			if err != nil {
				return err
			}
			unitPrice := product.SalePriceFor(note.Type == document.NoteTypeExport)
			if line.UnitPrice != nil {
				unitPrice = *line.UnitPrice
			}
			item, err := note.AddItem(product.ID, line.Quantity, unitPrice, line.DiscountPercent)
			if err != nil {
				return err
			}
			if err := repos.NoteRepo().CreateItem(ctx, item); err != nil {
				return err
			}
		}

		if len(note.Items) == 0 {
			return shared.ErrEmptyDocument
		}

		if err := repos.NoteRepo().Update(ctx, note); err != nil {
			return err
		}

		if note.IsActive() {
			return s.ledger.Reconcile(ctx, repos.SnapshotRepo(), repos.MovementRepo(),
				ledger.ReferenceTypeDeliveryNote, note.ID, note.OutLines(),
				note.Type.MovementSource(), note.Date, actor.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, shared.TopicDeliveryNotes, shared.TopicStock, shared.TopicStockMovements)
	return ToNoteResponse(note), nil
}

// Cancel cancels the note: its items are snapshotted into a
// cancellation record and every live movement reversed, returning the
// stock. Cancelling an already cancelled note is a successful no-op.
func (s *DeliveryNoteService) Cancel(ctx context.Context, actor shared.Actor, noteID uuid.UUID, req CancelNoteRequest) (*NoteResponse, error) {
	var (
		note       *document.DeliveryNote
		transition bool
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		note, err = repos.NoteRepo().FindByID(ctx, noteID)
		if err != nil {
			return err
		}
		if !note.Cancel() {
			return nil
		}
		transition = true

		cancellation := document.NewCancellation(note, req.Reason, actor.ID)
		if err := repos.CancellationRepo().Create(ctx, cancellation); err != nil {
			return err
		}
		if err := s.ledger.ReverseByReference(ctx, repos.SnapshotRepo(), repos.MovementRepo(),
			ledger.ReferenceTypeDeliveryNote, note.ID); err != nil {
			return err
		}
		return repos.NoteRepo().Update(ctx, note)
	})
	if err != nil {
		return nil, err
	}

	if transition {
		s.publisher.Publish(ctx, shared.TopicDeliveryNotes, shared.TopicStock, shared.TopicStockMovements)
	}
	return ToNoteResponse(note), nil
}

// Reactivate returns a cancelled note to active, re-applying one
// outbound movement per current line and consuming the note's
// cancellation records. Fails atomically when stock no longer
// suffices; the note then stays cancelled. Reactivating an active
// note is a successful no-op.
func (s *DeliveryNoteService) Reactivate(ctx context.Context, actor shared.Actor, noteID uuid.UUID) (*NoteResponse, error) {
	var (
		note       *document.DeliveryNote
		transition bool
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		note, err = repos.NoteRepo().FindByID(ctx, noteID)
		if err != nil {
			return err
		}
		if !note.Reactivate() {
			return nil
		}
		transition = true

		if len(note.Items) == 0 {
			return shared.ErrEmptyDocument
		}
		if err := s.applyOutMovements(ctx, repos, note, actor.ID); err != nil {
			return err
		}
		if err := repos.CancellationRepo().DeleteByNote(ctx, note.ID); err != nil {
			return err
		}
		return repos.NoteRepo().Update(ctx, note)
	})
	if err != nil {
		return nil, err
	}

	if transition {
		s.publisher.Publish(ctx, shared.TopicDeliveryNotes, shared.TopicStock, shared.TopicStockMovements)
	}
	return ToNoteResponse(note), nil
}

// Get returns one delivery note
func (s *DeliveryNoteService) Get(ctx context.Context, noteID uuid.UUID) (*NoteResponse, error) {
	var note *document.DeliveryNote
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		note, err = repos.NoteRepo().FindByID(ctx, noteID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ToNoteResponse(note), nil
}

// List returns delivery notes with pagination
func (s *DeliveryNoteService) List(ctx context.Context, filter shared.Filter) ([]*NoteResponse, int64, error) {
	var (
		responses []*NoteResponse
		total     int64
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		notes, err := repos.NoteRepo().FindAll(ctx, filter)
		if err != nil {
			return err
		}
		total, err = repos.NoteRepo().Count(ctx, filter)
		if err != nil {
			return err
		}
		responses = make([]*NoteResponse, 0, len(notes))
		for _, n := range notes {
			responses = append(responses, ToNoteResponse(n))
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return responses, total, nil
}

func (s *DeliveryNoteService) resolveProduct(ctx context.Context, products catalog.ProductRepository, productID uuid.UUID) (*catalog.Product, error) {
	product, err := products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive() {
		return nil, shared.NewDomainError("INACTIVE_PRODUCT", "Cannot sell an inactive product")
	}
	return product, nil
}

func (s *DeliveryNoteService) applyOutMovements(ctx context.Context, repos TransactionalRepositories, note *document.DeliveryNote, actorID uuid.UUID) error {
	for i := range note.Items {
		item := &note.Items[i]
		_, err := s.ledger.ApplyOut(ctx, repos.SnapshotRepo(), repos.MovementRepo(), ledger.ApplyOutInput{
			ProductID:     item.ProductID,
			Quantity:      item.Quantity,
			Date:          note.Date,
			Source:        note.Type.MovementSource(),
			ReferenceType: ledger.ReferenceTypeDeliveryNote,
			ReferenceID:   note.ID,
			ActorID:       actorID,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
