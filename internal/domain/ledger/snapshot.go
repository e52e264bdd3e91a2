package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tradedoc/backend/internal/domain/shared"
)

// InsufficientStockError is returned when an outbound movement would
// drive the on-hand quantity below zero. It is a recoverable validation
// failure; the enclosing transaction is rolled back so no partial state
// is ever visible.
type InsufficientStockError struct {
	ProductID uuid.UUID
	Available decimal.Decimal
	Requested decimal.Decimal
}

// Error implements the error interface
func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: available %s, requested %s",
		e.ProductID, e.Available.String(), e.Requested.String())
}

// StockSnapshot is the current aggregate (quantity, average cost) of a
// product, maintained alongside the movement ledger. It is created
// lazily on a product's first inbound movement and mutated in place
// forever after, never deleted.
type StockSnapshot struct {
	shared.BaseEntity
	ProductID         uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_snapshots_product"`
	QuantityAvailable decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	AverageCost       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	LastMovementDate  time.Time       `gorm:"type:date"`
}

// TableName returns the table name for GORM
func (StockSnapshot) TableName() string {
	return "stock_snapshots"
}

// NewStockSnapshot creates an empty snapshot for a product
func NewStockSnapshot(productID uuid.UUID) (*StockSnapshot, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	return &StockSnapshot{
		BaseEntity:        shared.NewBaseEntity(),
		ProductID:         productID,
		QuantityAvailable: decimal.Zero,
		AverageCost:       decimal.Zero,
	}, nil
}

// ApplyIn increases the quantity and recomputes the weighted-average
// cost. With prior quantity q0 at cost c0 and incoming qty at cost c,
// the new cost is (q0*c0 + qty*c) / (q0 + qty), rounded to 2 decimal
// places; with no prior stock it is simply c.
func (s *StockSnapshot) ApplyIn(quantity, unitCost decimal.Decimal, date time.Time) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitCost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}

	if s.QuantityAvailable.GreaterThan(decimal.Zero) {
		totalValue := s.QuantityAvailable.Mul(s.AverageCost).Add(quantity.Mul(unitCost))
		s.AverageCost = totalValue.Div(s.QuantityAvailable.Add(quantity)).Round(2)
	} else {
		s.AverageCost = unitCost.Round(2)
	}

	s.QuantityAvailable = s.QuantityAvailable.Add(quantity)
	s.LastMovementDate = shared.DateOnly(date)
	s.Touch()
	return nil
}

// ApplyOut decreases the quantity. The average cost tracks acquisition,
// not disposal, and is deliberately left untouched. Fails with
// InsufficientStockError if the result would be negative.
func (s *StockSnapshot) ApplyOut(quantity decimal.Decimal, date time.Time) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if s.QuantityAvailable.LessThan(quantity) {
		return &InsufficientStockError{
			ProductID: s.ProductID,
			Available: s.QuantityAvailable,
			Requested: quantity,
		}
	}

	s.QuantityAvailable = s.QuantityAvailable.Sub(quantity)
	s.LastMovementDate = shared.DateOnly(date)
	s.Touch()
	return nil
}

// ApplyDelta applies a signed quantity change, used for adjustments and
// reversals. Rejects a negative result.
func (s *StockSnapshot) ApplyDelta(delta decimal.Decimal, date time.Time) error {
	result := s.QuantityAvailable.Add(delta)
	if result.IsNegative() {
		return &InsufficientStockError{
			ProductID: s.ProductID,
			Available: s.QuantityAvailable,
			Requested: delta.Neg(),
		}
	}

	s.QuantityAvailable = result
	s.LastMovementDate = shared.DateOnly(date)
	s.Touch()
	return nil
}

// StockValue returns quantity * average cost
func (s *StockSnapshot) StockValue() decimal.Decimal {
	return s.QuantityAvailable.Mul(s.AverageCost)
}

// HasStock reports whether any quantity is available
func (s *StockSnapshot) HasStock() bool {
	return s.QuantityAvailable.GreaterThan(decimal.Zero)
}

// CanFulfill reports whether the available quantity covers the request
func (s *StockSnapshot) CanFulfill(quantity decimal.Decimal) bool {
	return s.QuantityAvailable.GreaterThanOrEqual(quantity)
}
