package document

import (
	"context"

	"github.com/tradedoc/backend/internal/domain/catalog"
	"github.com/tradedoc/backend/internal/domain/document"
	"github.com/tradedoc/backend/internal/domain/ledger"
	"github.com/tradedoc/backend/internal/domain/partner"
)

// TransactionScope provides transactional access to the document
// repositories. Document transitions touch the stock ledger, so the
// ledger repositories are part of the same scope: a delivery note and
// its movements commit or roll back together.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all repositories a
// document operation may need, scoped to one transaction.
type TransactionalRepositories interface {
	// NoteRepo returns the delivery note repository scoped to the current transaction
	NoteRepo() document.DeliveryNoteRepository
	// CancellationRepo returns the cancellation repository scoped to the current transaction
	CancellationRepo() document.CancellationRepository
	// InvoiceRepo returns the invoice repository scoped to the current transaction
	InvoiceRepo() document.InvoiceRepository
	// SnapshotRepo returns the stock snapshot repository scoped to the current transaction
	SnapshotRepo() ledger.StockSnapshotRepository
	// MovementRepo returns the stock movement repository scoped to the current transaction
	MovementRepo() ledger.StockMovementRepository
	// ProductRepo returns the product repository scoped to the current transaction
	ProductRepo() catalog.ProductRepository
	// ClientRepo returns the client repository scoped to the current transaction
	ClientRepo() partner.ClientRepository
}

// NoOpTransactionScope runs functions without a real transaction.
// Useful for testing with in-memory repositories.
type NoOpTransactionScope struct {
	noteRepo         document.DeliveryNoteRepository
	cancellationRepo document.CancellationRepository
	invoiceRepo      document.InvoiceRepository
	snapshotRepo     ledger.StockSnapshotRepository
	movementRepo     ledger.StockMovementRepository
	productRepo      catalog.ProductRepository
	clientRepo       partner.ClientRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	noteRepo document.DeliveryNoteRepository,
	cancellationRepo document.CancellationRepository,
	invoiceRepo document.InvoiceRepository,
	snapshotRepo ledger.StockSnapshotRepository,
	movementRepo ledger.StockMovementRepository,
	productRepo catalog.ProductRepository,
	clientRepo partner.ClientRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		noteRepo:         noteRepo,
		cancellationRepo: cancellationRepo,
		invoiceRepo:      invoiceRepo,
		snapshotRepo:     snapshotRepo,
		movementRepo:     movementRepo,
		productRepo:      productRepo,
		clientRepo:       clientRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// NoteRepo returns the delivery note repository.
func (s *NoOpTransactionScope) NoteRepo() document.DeliveryNoteRepository {
	return s.noteRepo
}

// CancellationRepo returns the cancellation repository.
func (s *NoOpTransactionScope) CancellationRepo() document.CancellationRepository {
	return s.cancellationRepo
}

// InvoiceRepo returns the invoice repository.
func (s *NoOpTransactionScope) InvoiceRepo() document.InvoiceRepository {
	return s.invoiceRepo
}

// SnapshotRepo returns the stock snapshot repository.
func (s *NoOpTransactionScope) SnapshotRepo() ledger.StockSnapshotRepository {
	return s.snapshotRepo
}

// MovementRepo returns the stock movement repository.
func (s *NoOpTransactionScope) MovementRepo() ledger.StockMovementRepository {
	return s.movementRepo
}

// ProductRepo returns the product repository.
func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository {
	return s.productRepo
}

// ClientRepo returns the client repository.
func (s *NoOpTransactionScope) ClientRepo() partner.ClientRepository {
	return s.clientRepo
}
