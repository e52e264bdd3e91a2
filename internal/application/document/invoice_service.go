package document

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tradedoc/backend/internal/domain/document"
	"github.com/tradedoc/backend/internal/domain/shared"
)

// numberAttempts bounds the retries when generated invoice numbers
// collide with existing ones
const numberAttempts = 5

// InvoiceService generates invoices from delivery notes. Generation is
// idempotent: if an active invoice already exists for the note it is
// returned unchanged instead of creating a second one.
type InvoiceService struct {
	scope     TransactionScope
	numbers   document.NumberGenerator
	publisher shared.TopicPublisher
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(scope TransactionScope, numbers document.NumberGenerator, publisher shared.TopicPublisher) *InvoiceService {
	if publisher == nil {
		publisher = shared.NoOpTopicPublisher{}
	}
	return &InvoiceService{
		scope:     scope,
		numbers:   numbers,
		publisher: publisher,
	}
}

// CreateFromDeliveryNote generates an invoice for an active delivery
// note, copying the note's line figures and stamping each line with the
// product's current tax rate. Returns the existing invoice with
// AlreadyExists set when the note is already invoiced.
func (s *InvoiceService) CreateFromDeliveryNote(ctx context.Context, actor shared.Actor, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	date := req.Date
	if date.IsZero() {
		date = time.Now()
	}

	var (
		invoice       *document.Invoice
		alreadyExists bool
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		note, err := repos.NoteRepo().FindByID(ctx, req.DeliveryNoteID)
		if err != nil {
			return err
		}

		existing, err := repos.InvoiceRepo().FindActiveByNote(ctx, note.ID)
		if err == nil {
			invoice = existing
			alreadyExists = true
			return nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return err
		}

		if !note.IsActive() {
			return shared.NewDomainError("INVALID_STATE", "Cannot invoice a cancelled delivery note")
		}
		if len(note.Items) == 0 {
			return shared.ErrEmptyDocument
		}

		taxRate := func(productID uuid.UUID) (decimal.Decimal, error) {
			product, err := repos.ProductRepo().FindByID(ctx, productID)
			if err != nil {
				return decimal.Zero, err
			}
			return product.TaxRate, nil
		}

		kind := document.KindInvoiceLocal
		if note.Type == document.NoteTypeExport {
			kind = document.KindInvoiceExport
		}

		for attempt := 0; attempt < numberAttempts; attempt++ {
			number, err := s.numbers.Next(ctx, kind)
			if err != nil {
				return err
			}
			candidate, err := document.NewInvoiceFromNote(number, note, date, taxRate)
			if err != nil {
				return err
			}
			err = repos.InvoiceRepo().Create(ctx, candidate)
			if err == nil {
				invoice = candidate
				return nil
			}
			if !errors.Is(err, shared.ErrAlreadyExists) {
				return err
			}
		}
		return shared.ErrNumberExhausted
	})
	if err != nil {
		return nil, err
	}

	if !alreadyExists {
		s.publisher.Publish(ctx, shared.TopicInvoices)
	}
	return ToInvoiceResponse(invoice, alreadyExists), nil
}

// Cancel cancels an invoice. The source delivery note and the stock
// ledger are unaffected. Cancelling twice is a successful no-op.
func (s *InvoiceService) Cancel(ctx context.Context, actor shared.Actor, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	var (
		invoice    *document.Invoice
		transition bool
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		invoice, err = repos.InvoiceRepo().FindByID(ctx, invoiceID)
		if err != nil {
			return err
		}
		if !invoice.Cancel() {
			return nil
		}
		transition = true
		return repos.InvoiceRepo().Update(ctx, invoice)
	})
	if err != nil {
		return nil, err
	}

	if transition {
		s.publisher.Publish(ctx, shared.TopicInvoices)
	}
	return ToInvoiceResponse(invoice, false), nil
}

// Get returns one invoice
func (s *InvoiceService) Get(ctx context.Context, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	var invoice *document.Invoice
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		invoice, err = repos.InvoiceRepo().FindByID(ctx, invoiceID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ToInvoiceResponse(invoice, false), nil
}

// List returns invoices with pagination
func (s *InvoiceService) List(ctx context.Context, filter shared.Filter) ([]*InvoiceResponse, int64, error) {
	var (
		responses []*InvoiceResponse
		total     int64
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		invoices, err := repos.InvoiceRepo().FindAll(ctx, filter)
		if err != nil {
			return err
		}
		total, err = repos.InvoiceRepo().Count(ctx, filter)
		if err != nil {
			return err
		}
		responses = make([]*InvoiceResponse, 0, len(invoices))
		for _, inv := range invoices {
			responses = append(responses, ToInvoiceResponse(inv, false))
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return responses, total, nil
}
