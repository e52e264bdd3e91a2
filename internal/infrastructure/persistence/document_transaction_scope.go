package persistence

import (
	"context"

	"gorm.io/gorm"

	appdoc "github.com/tradedoc/backend/internal/application/document"
	"github.com/tradedoc/backend/internal/domain/catalog"
	"github.com/tradedoc/backend/internal/domain/document"
	"github.com/tradedoc/backend/internal/domain/ledger"
	"github.com/tradedoc/backend/internal/domain/partner"
)

// GormDocumentTransactionScope implements the document TransactionScope
// using GORM transactions. A document transition and its ledger effects
// commit or roll back together.
type GormDocumentTransactionScope struct {
	db *gorm.DB
}

// NewGormDocumentTransactionScope creates a new GormDocumentTransactionScope
func NewGormDocumentTransactionScope(db *gorm.DB) *GormDocumentTransactionScope {
	return &GormDocumentTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormDocumentTransactionScope) Execute(ctx context.Context, fn func(repos appdoc.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormDocumentRepositories{tx: tx})
	})
}

type gormDocumentRepositories struct {
	tx *gorm.DB
}

// NoteRepo returns the delivery note repository scoped to the current transaction
func (r *gormDocumentRepositories) NoteRepo() document.DeliveryNoteRepository {
	return NewGormDeliveryNoteRepository(r.tx)
}

// CancellationRepo returns the cancellation repository scoped to the current transaction
func (r *gormDocumentRepositories) CancellationRepo() document.CancellationRepository {
	return NewGormCancellationRepository(r.tx)
}

// InvoiceRepo returns the invoice repository scoped to the current transaction
func (r *gormDocumentRepositories) InvoiceRepo() document.InvoiceRepository {
	return NewGormInvoiceRepository(r.tx)
}

// SnapshotRepo returns the stock snapshot repository scoped to the current transaction
func (r *gormDocumentRepositories) SnapshotRepo() ledger.StockSnapshotRepository {
	return NewGormStockSnapshotRepository(r.tx, supportsRowLocks(r.tx))
}

// MovementRepo returns the stock movement repository scoped to the current transaction
func (r *gormDocumentRepositories) MovementRepo() ledger.StockMovementRepository {
	return NewGormStockMovementRepository(r.tx)
}

// ProductRepo returns the product repository scoped to the current transaction
func (r *gormDocumentRepositories) ProductRepo() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

// ClientRepo returns the client repository scoped to the current transaction
func (r *gormDocumentRepositories) ClientRepo() partner.ClientRepository {
	return NewGormClientRepository(r.tx)
}

var _ appdoc.TransactionScope = (*GormDocumentTransactionScope)(nil)
var _ appdoc.TransactionalRepositories = (*gormDocumentRepositories)(nil)
