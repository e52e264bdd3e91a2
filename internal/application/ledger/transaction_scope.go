package ledger

import (
	"context"

	"github.com/tradedoc/backend/internal/domain/ledger"
)

// TransactionScope provides transactional access to the stock ledger
// repositories. Snapshot reads inside Execute take row locks, so two
// writers touching the same product serialize on the database.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the ledger repositories
// within a transaction. Both repositories share the same underlying
// database transaction.
type TransactionalRepositories interface {
	// SnapshotRepo returns the stock snapshot repository scoped to the current transaction
	SnapshotRepo() ledger.StockSnapshotRepository
	// MovementRepo returns the stock movement repository scoped to the current transaction
	MovementRepo() ledger.StockMovementRepository
}

// NoOpTransactionScope runs functions without a real transaction.
// Useful for testing with in-memory repositories.
type NoOpTransactionScope struct {
	snapshotRepo ledger.StockSnapshotRepository
	movementRepo ledger.StockMovementRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	snapshotRepo ledger.StockSnapshotRepository,
	movementRepo ledger.StockMovementRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		snapshotRepo: snapshotRepo,
		movementRepo: movementRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// SnapshotRepo returns the stock snapshot repository.
func (s *NoOpTransactionScope) SnapshotRepo() ledger.StockSnapshotRepository {
	return s.snapshotRepo
}

// MovementRepo returns the stock movement repository.
func (s *NoOpTransactionScope) MovementRepo() ledger.StockMovementRepository {
	return s.movementRepo
}
