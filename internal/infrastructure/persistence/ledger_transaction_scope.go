package persistence

import (
	"context"

	"gorm.io/gorm"

	appledger "github.com/tradedoc/backend/internal/application/ledger"
	"github.com/tradedoc/backend/internal/domain/ledger"
)

// GormLedgerTransactionScope implements the ledger TransactionScope
// using GORM transactions. Snapshot reads inside the scope take row
// locks on dialects that support them.
type GormLedgerTransactionScope struct {
	db *gorm.DB
}

// NewGormLedgerTransactionScope creates a new GormLedgerTransactionScope
func NewGormLedgerTransactionScope(db *gorm.DB) *GormLedgerTransactionScope {
	return &GormLedgerTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormLedgerTransactionScope) Execute(ctx context.Context, fn func(repos appledger.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormLedgerRepositories{tx: tx})
	})
}

type gormLedgerRepositories struct {
	tx *gorm.DB
}

// SnapshotRepo returns the stock snapshot repository scoped to the current transaction
func (r *gormLedgerRepositories) SnapshotRepo() ledger.StockSnapshotRepository {
	return NewGormStockSnapshotRepository(r.tx, supportsRowLocks(r.tx))
}

// MovementRepo returns the stock movement repository scoped to the current transaction
func (r *gormLedgerRepositories) MovementRepo() ledger.StockMovementRepository {
	return NewGormStockMovementRepository(r.tx)
}

var _ appledger.TransactionScope = (*GormLedgerTransactionScope)(nil)
var _ appledger.TransactionalRepositories = (*gormLedgerRepositories)(nil)
