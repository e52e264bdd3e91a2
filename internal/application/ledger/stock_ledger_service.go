package ledger

import (
	"context"

	"github.com/google/uuid"

	"github.com/tradedoc/backend/internal/domain/ledger"
	"github.com/tradedoc/backend/internal/domain/shared"
)

// StockLedgerService exposes the stock ledger to the outside: purchase
// receipts, manual adjustments and stock queries. Document-driven
// movements go through the delivery-note service instead, which drives
// the same domain service inside its own transactions.
type StockLedgerService struct {
	scope     TransactionScope
	domain    *ledger.Service
	publisher shared.TopicPublisher
}

// NewStockLedgerService creates a new StockLedgerService
func NewStockLedgerService(scope TransactionScope, publisher shared.TopicPublisher) *StockLedgerService {
	if publisher == nil {
		publisher = shared.NoOpTopicPublisher{}
	}
	return &StockLedgerService{
		scope:     scope,
		domain:    ledger.NewService(),
		publisher: publisher,
	}
}

// RecordPurchase records an inbound purchase movement and updates the
// weighted-average cost.
func (s *StockLedgerService) RecordPurchase(ctx context.Context, actor shared.Actor, req RecordPurchaseRequest) (*MovementResponse, error) {
	var movement *ledger.StockMovement
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		movement, err = s.domain.ApplyIn(ctx, repos.SnapshotRepo(), repos.MovementRepo(), ledger.ApplyInInput{
			ProductID: req.ProductID,
			Quantity:  req.Quantity,
			UnitCost:  req.UnitCost,
			Date:      req.Date,
			Source:    ledger.SourcePurchase,
			ActorID:   actor.ID,
			Notes:     req.Notes,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, shared.TopicStock, shared.TopicStockMovements)
	return ToMovementResponse(movement), nil
}

// RecordAdjustment records a signed manual stock correction. Requires
// the stock-adjust permission.
func (s *StockLedgerService) RecordAdjustment(ctx context.Context, actor shared.Actor, req RecordAdjustmentRequest) (*MovementResponse, error) {
	if !actor.HasPermission(shared.PermissionStockAdjust) {
		return nil, shared.ErrForbidden
	}

	var movement *ledger.StockMovement
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		movement, err = s.domain.ApplyAdjustment(ctx, repos.SnapshotRepo(), repos.MovementRepo(),
			req.ProductID, req.Quantity, req.Date, actor.ID, req.Notes)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, shared.TopicStock, shared.TopicStockMovements)
	return ToMovementResponse(movement), nil
}

// EditAdjustment rewrites an existing adjustment in place
func (s *StockLedgerService) EditAdjustment(ctx context.Context, actor shared.Actor, req EditAdjustmentRequest) (*MovementResponse, error) {
	if !actor.HasPermission(shared.PermissionStockAdjust) {
		return nil, shared.ErrForbidden
	}

	var movement *ledger.StockMovement
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		movement, err = s.domain.EditAdjustment(ctx, repos.SnapshotRepo(), repos.MovementRepo(),
			req.MovementID, req.Quantity, req.Date, req.Notes)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, shared.TopicStock, shared.TopicStockMovements)
	return ToMovementResponse(movement), nil
}

// DeleteAdjustment removes an adjustment, reversing its stock effect
func (s *StockLedgerService) DeleteAdjustment(ctx context.Context, actor shared.Actor, movementID uuid.UUID) error {
	if !actor.HasPermission(shared.PermissionStockAdjust) {
		return shared.ErrForbidden
	}

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		return s.domain.DeleteAdjustment(ctx, repos.SnapshotRepo(), repos.MovementRepo(), movementID)
	})
	if err != nil {
		return err
	}

	s.publisher.Publish(ctx, shared.TopicStock, shared.TopicStockMovements)
	return nil
}

// GetStock returns the current snapshot for a product
func (s *StockLedgerService) GetStock(ctx context.Context, productID uuid.UUID) (*StockResponse, error) {
	var resp *StockResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		snapshot, err := repos.SnapshotRepo().FindByProduct(ctx, productID)
		if err != nil {
			return err
		}
		resp = ToStockResponse(snapshot)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// ListStock returns stock snapshots with pagination
func (s *StockLedgerService) ListStock(ctx context.Context, filter shared.Filter) ([]*StockResponse, int64, error) {
	var (
		responses []*StockResponse
		total     int64
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		snapshots, err := repos.SnapshotRepo().FindAll(ctx, filter)
		if err != nil {
			return err
		}
		total, err = repos.SnapshotRepo().Count(ctx, filter)
		if err != nil {
			return err
		}
		responses = make([]*StockResponse, 0, len(snapshots))
		for i := range snapshots {
			responses = append(responses, ToStockResponse(&snapshots[i]))
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return responses, total, nil
}

// ListMovements returns the movement history for a product, newest first
func (s *StockLedgerService) ListMovements(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]*MovementResponse, int64, error) {
	var (
		responses []*MovementResponse
		total     int64
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		movements, err := repos.MovementRepo().FindByProduct(ctx, productID, filter)
		if err != nil {
			return err
		}
		total, err = repos.MovementRepo().Count(ctx, filter)
		if err != nil {
			return err
		}
		responses = make([]*MovementResponse, 0, len(movements))
		for i := range movements {
			responses = append(responses, ToMovementResponse(&movements[i]))
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return responses, total, nil
}
