package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tradedoc/backend/internal/domain/shared"
)

// Service provides the ledger operations shared by every caller that
// mutates stock: the stock API itself and the delivery-note lifecycle.
// Every method operates on the repositories it is handed, so callers
// decide the transaction boundary; none of these methods must ever be
// invoked outside one.
type Service struct{}

// NewService creates a new ledger domain service
func NewService() *Service {
	return &Service{}
}

// ApplyInInput describes an inbound movement
type ApplyInInput struct {
	ProductID uuid.UUID
	Quantity  decimal.Decimal
	UnitCost  decimal.Decimal
	Date      time.Time
	Source    MovementSource
	ActorID   uuid.UUID
	Notes     string
}

// ApplyOutInput describes an outbound movement tied to a document
type ApplyOutInput struct {
	ProductID     uuid.UUID
	Quantity      decimal.Decimal
	Date          time.Time
	ReferenceType string
	ReferenceID   uuid.UUID
	Source        MovementSource
	ActorID       uuid.UUID
	Notes         string
}

// OutLine is one desired outbound line in a reconciliation
type OutLine struct {
	ProductID uuid.UUID
	Quantity  decimal.Decimal
}

// ApplyIn records an inbound movement: it creates the snapshot on a
// product's first receipt, recomputes the weighted-average cost and
// appends the movement row.
func (s *Service) ApplyIn(ctx context.Context, snapshots StockSnapshotRepository, movements StockMovementRepository, in ApplyInInput) (*StockMovement, error) {
	snapshot, err := s.loadOrCreateSnapshot(ctx, snapshots, in.ProductID)
	if err != nil {
		return nil, err
	}

	if err := snapshot.ApplyIn(in.Quantity, in.UnitCost, in.Date); err != nil {
		return nil, err
	}

	movement, err := NewStockMovement(in.ProductID, MovementTypeIn, in.Source, in.Quantity, in.Date, in.ActorID)
	if err != nil {
		return nil, err
	}
	movement.WithUnitCost(in.UnitCost)
	if in.Notes != "" {
		movement.WithNotes(in.Notes)
	}

	if err := movements.Create(ctx, movement); err != nil {
		return nil, err
	}
	if err := snapshots.Save(ctx, snapshot); err != nil {
		return nil, err
	}
	return movement, nil
}

// ApplyOut records an outbound movement. The average cost is left
// untouched: cost tracks acquisition, not disposal. Returns
// InsufficientStockError when the product has no snapshot or not
// enough quantity; the caller's transaction must then roll back.
func (s *Service) ApplyOut(ctx context.Context, snapshots StockSnapshotRepository, movements StockMovementRepository, out ApplyOutInput) (*StockMovement, error) {
	snapshot, err := snapshots.FindByProduct(ctx, out.ProductID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, &InsufficientStockError{
				ProductID: out.ProductID,
				Available: decimal.Zero,
				Requested: out.Quantity,
			}
		}
		return nil, err
	}

	if err := snapshot.ApplyOut(out.Quantity, out.Date); err != nil {
		return nil, err
	}

	movement, err := NewStockMovement(out.ProductID, MovementTypeOut, out.Source, out.Quantity, out.Date, out.ActorID)
	if err != nil {
		return nil, err
	}
	if out.ReferenceType != "" {
		movement.WithReference(out.ReferenceType, out.ReferenceID)
	}
	if out.Notes != "" {
		movement.WithNotes(out.Notes)
	}

	if err := movements.Create(ctx, movement); err != nil {
		return nil, err
	}
	if err := snapshots.Save(ctx, snapshot); err != nil {
		return nil, err
	}
	return movement, nil
}

// ReverseByReference undoes the net ledger effect of every live
// movement tied to a document reference and deletes those rows.
// Delivery notes only ever produce "out" movements, so a reversal only
// ever increases quantity and never touches the average cost.
// ApplyDelta still guards against a negative result.
func (s *Service) ReverseByReference(ctx context.Context, snapshots StockSnapshotRepository, movements StockMovementRepository, referenceType string, referenceID uuid.UUID) error {
	live, err := movements.FindByReference(ctx, referenceType, referenceID)
	if err != nil {
		return err
	}
	if len(live) == 0 {
		return nil
	}

	for i := range live {
		snapshot, err := snapshots.FindByProduct(ctx, live[i].ProductID)
		if err != nil {
			return err
		}
		if err := snapshot.ApplyDelta(live[i].SignedQuantity().Neg(), time.Now()); err != nil {
			return err
		}
		if err := snapshots.Save(ctx, snapshot); err != nil {
			return err
		}
	}

	return movements.DeleteByReference(ctx, referenceType, referenceID)
}

// Reconcile brings the live movements for a document reference in line
// with the desired outbound lines: it reverses whatever is currently
// applied, then applies one "out" movement per desired line. Passing an
// empty desired set makes it a plain reversal. Idempotent with respect
// to the desired state; must run inside one transaction.
func (s *Service) Reconcile(
	ctx context.Context,
	snapshots StockSnapshotRepository,
	movements StockMovementRepository,
	referenceType string,
	referenceID uuid.UUID,
	desired []OutLine,
	source MovementSource,
	date time.Time,
	actorID uuid.UUID,
) error {
	if err := s.ReverseByReference(ctx, snapshots, movements, referenceType, referenceID); err != nil {
		return err
	}

	for _, line := range desired {
		if _, err := s.ApplyOut(ctx, snapshots, movements, ApplyOutInput{
			ProductID:     line.ProductID,
			Quantity:      line.Quantity,
			Date:          date,
			ReferenceType: referenceType,
			ReferenceID:   referenceID,
			Source:        source,
			ActorID:       actorID,
		}); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAdjustment records a signed manual correction
func (s *Service) ApplyAdjustment(ctx context.Context, snapshots StockSnapshotRepository, movements StockMovementRepository, productID uuid.UUID, quantity decimal.Decimal, date time.Time, actorID uuid.UUID, notes string) (*StockMovement, error) {
	snapshot, err := s.loadOrCreateSnapshot(ctx, snapshots, productID)
	if err != nil {
		return nil, err
	}

	if err := snapshot.ApplyDelta(quantity, date); err != nil {
		return nil, err
	}

	movement, err := NewStockMovement(productID, MovementTypeAdjustment, SourceAdjustment, quantity, date, actorID)
	if err != nil {
		return nil, err
	}
	if notes != "" {
		movement.WithNotes(notes)
	}

	if err := movements.Create(ctx, movement); err != nil {
		return nil, err
	}
	if err := snapshots.Save(ctx, snapshot); err != nil {
		return nil, err
	}
	return movement, nil
}

// EditAdjustment rewrites an adjustment-sourced movement. The old
// effect is reversed, the new quantity validated against the snapshot,
// and the new effect applied, all on the row itself. Only movements
// with source "adjustment" may be edited.
func (s *Service) EditAdjustment(ctx context.Context, snapshots StockSnapshotRepository, movements StockMovementRepository, movementID uuid.UUID, quantity decimal.Decimal, date time.Time, notes string) (*StockMovement, error) {
	movement, err := movements.FindByID(ctx, movementID)
	if err != nil {
		return nil, err
	}
	if !movement.IsAdjustment() {
		return nil, shared.NewDomainError("INVALID_STATE", "Only adjustment movements can be edited")
	}
	if quantity.IsZero() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Adjustment quantity cannot be zero")
	}

	snapshot, err := snapshots.FindByProduct(ctx, movement.ProductID)
	if err != nil {
		return nil, err
	}

	// Reverse the old effect, then apply the new one; the net delta is
	// validated in a single step so the intermediate state cannot fail
	// spuriously.
	net := quantity.Sub(movement.SignedQuantity())
	if err := snapshot.ApplyDelta(net, date); err != nil {
		return nil, err
	}

	movement.Quantity = quantity
	movement.MovementDate = shared.DateOnly(date)
	if notes != "" {
		movement.Notes = notes
	}
	movement.Touch()

	if err := movements.Update(ctx, movement); err != nil {
		return nil, err
	}
	if err := snapshots.Save(ctx, snapshot); err != nil {
		return nil, err
	}
	return movement, nil
}

// DeleteAdjustment removes an adjustment-sourced movement, reversing
// its effect on the snapshot. Rejects when the reversal would drive the
// quantity negative.
func (s *Service) DeleteAdjustment(ctx context.Context, snapshots StockSnapshotRepository, movements StockMovementRepository, movementID uuid.UUID) error {
	movement, err := movements.FindByID(ctx, movementID)
	if err != nil {
		return err
	}
	if !movement.IsAdjustment() {
		return shared.NewDomainError("INVALID_STATE", "Only adjustment movements can be deleted")
	}

	snapshot, err := snapshots.FindByProduct(ctx, movement.ProductID)
	if err != nil {
		return err
	}
	if err := snapshot.ApplyDelta(movement.SignedQuantity().Neg(), time.Now()); err != nil {
		return err
	}

	if err := movements.Delete(ctx, movement.ID); err != nil {
		return err
	}
	return snapshots.Save(ctx, snapshot)
}

func (s *Service) loadOrCreateSnapshot(ctx context.Context, snapshots StockSnapshotRepository, productID uuid.UUID) (*StockSnapshot, error) {
	snapshot, err := snapshots.FindByProduct(ctx, productID)
	if err == nil {
		return snapshot, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	return NewStockSnapshot(productID)
}
