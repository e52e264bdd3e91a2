package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tradedoc/backend/internal/domain/ledger"
	"github.com/tradedoc/backend/internal/domain/shared"
)

// RecordPurchaseRequest records an inbound purchase movement
type RecordPurchaseRequest struct {
	ProductID uuid.UUID       `json:"productId" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity" validate:"required"`
	UnitCost  decimal.Decimal `json:"unitCost" validate:"required"`
	Date      time.Time       `json:"date" validate:"required"`
	Notes     string          `json:"notes"`
}

// RecordAdjustmentRequest records a manual stock adjustment.
// Quantity is signed: positive adds stock, negative removes it.
type RecordAdjustmentRequest struct {
	ProductID uuid.UUID       `json:"productId" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity" validate:"required"`
	Date      time.Time       `json:"date" validate:"required"`
	Notes     string          `json:"notes"`
}

// EditAdjustmentRequest rewrites an existing adjustment
type EditAdjustmentRequest struct {
	MovementID uuid.UUID       `json:"movementId" validate:"required"`
	Quantity   decimal.Decimal `json:"quantity" validate:"required"`
	Date       time.Time       `json:"date" validate:"required"`
	Notes      string          `json:"notes"`
}

// StockResponse is the API view of a stock snapshot
type StockResponse struct {
	ProductID         uuid.UUID       `json:"productId"`
	QuantityAvailable decimal.Decimal `json:"quantityAvailable"`
	AverageCost       decimal.Decimal `json:"averageCost"`
	StockValue        decimal.Decimal `json:"stockValue"`
	LastMovementDate  *string         `json:"lastMovementDate,omitempty"`
}

// MovementResponse is the API view of a stock movement
type MovementResponse struct {
	ID            uuid.UUID        `json:"id"`
	ProductID     uuid.UUID        `json:"productId"`
	Type          string           `json:"type"`
	Source        string           `json:"source"`
	ReferenceType string           `json:"referenceType,omitempty"`
	ReferenceID   *uuid.UUID       `json:"referenceId,omitempty"`
	Quantity      decimal.Decimal  `json:"quantity"`
	UnitCost      *decimal.Decimal `json:"unitCost,omitempty"`
	Date          string           `json:"date"`
	Notes         string           `json:"notes,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
}

// ToStockResponse converts a snapshot to its API view
func ToStockResponse(s *ledger.StockSnapshot) *StockResponse {
	resp := &StockResponse{
		ProductID:         s.ProductID,
		QuantityAvailable: s.QuantityAvailable,
		AverageCost:       s.AverageCost,
		StockValue:        s.StockValue(),
	}
	if !s.LastMovementDate.IsZero() {
		d := shared.FormatDate(s.LastMovementDate)
		resp.LastMovementDate = &d
	}
	return resp
}

// ToMovementResponse converts a movement to its API view
func ToMovementResponse(m *ledger.StockMovement) *MovementResponse {
	return &MovementResponse{
		ID:            m.ID,
		ProductID:     m.ProductID,
		Type:          m.Type.String(),
		Source:        m.Source.String(),
		ReferenceType: m.ReferenceType,
		ReferenceID:   m.ReferenceID,
		Quantity:      m.Quantity,
		UnitCost:      m.UnitCost,
		Date:          shared.FormatDate(m.MovementDate),
		Notes:         m.Notes,
		CreatedAt:     m.CreatedAt,
	}
}
