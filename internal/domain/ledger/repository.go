package ledger

import (
	"context"

	"github.com/google/uuid"

	"github.com/tradedoc/backend/internal/domain/shared"
)

// StockSnapshotRepository persists per-product stock snapshots
type StockSnapshotRepository interface {
	// FindByProduct returns the snapshot for a product, or shared.ErrNotFound
	FindByProduct(ctx context.Context, productID uuid.UUID) (*StockSnapshot, error)
	// Save inserts or updates a snapshot
	Save(ctx context.Context, snapshot *StockSnapshot) error
	// FindAll lists snapshots with filtering and pagination
	FindAll(ctx context.Context, filter shared.Filter) ([]StockSnapshot, error)
	// Count counts snapshots matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// StockMovementRepository persists the immutable movement ledger
type StockMovementRepository interface {
	// Create appends a movement row
	Create(ctx context.Context, movement *StockMovement) error
	// Update rewrites an existing movement row (adjustment edits only)
	Update(ctx context.Context, movement *StockMovement) error
	// Delete removes a movement row by ID (adjustment deletes only)
	Delete(ctx context.Context, id uuid.UUID) error
	// FindByID returns a movement by ID, or shared.ErrNotFound
	FindByID(ctx context.Context, id uuid.UUID) (*StockMovement, error)
	// FindByReference returns all live movements tied to a document reference
	FindByReference(ctx context.Context, referenceType string, referenceID uuid.UUID) ([]StockMovement, error)
	// DeleteByReference removes all movements tied to a document reference
	DeleteByReference(ctx context.Context, referenceType string, referenceID uuid.UUID) error
	// FindByProduct lists movements for a product
	FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]StockMovement, error)
	// FindAll lists movements with filtering and pagination
	FindAll(ctx context.Context, filter shared.Filter) ([]StockMovement, error)
	// Count counts movements matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
