package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tradedoc/backend/internal/domain/shared"
)

// MovementType represents the direction of a stock movement
type MovementType string

const (
	// MovementTypeIn represents stock entering inventory
	MovementTypeIn MovementType = "in"
	// MovementTypeOut represents stock leaving inventory
	MovementTypeOut MovementType = "out"
	// MovementTypeAdjustment represents a manual correction; its quantity is signed
	MovementTypeAdjustment MovementType = "adjustment"
)

// String returns the string representation of MovementType
func (t MovementType) String() string {
	return string(t)
}

// IsValid returns true if the movement type is valid
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypeIn, MovementTypeOut, MovementTypeAdjustment:
		return true
	}
	return false
}

// MovementSource represents the business origin of a movement
type MovementSource string

const (
	SourcePurchase     MovementSource = "purchase"
	SourceSaleLocal    MovementSource = "sale_local"
	SourceSaleExport   MovementSource = "sale_export"
	SourceDeliveryNote MovementSource = "delivery_note"
	SourceAdjustment   MovementSource = "adjustment"
	SourceReturn       MovementSource = "return"
)

// String returns the string representation of MovementSource
func (s MovementSource) String() string {
	return string(s)
}

// IsValid returns true if the movement source is valid
func (s MovementSource) IsValid() bool {
	switch s {
	case SourcePurchase, SourceSaleLocal, SourceSaleExport, SourceDeliveryNote, SourceAdjustment, SourceReturn:
		return true
	}
	return false
}

// Reference document types movements can point at
const (
	ReferenceTypeDeliveryNote = "delivery_note"
	ReferenceTypeAdjustment   = "adjustment"
)

// StockMovement is an immutable row in the movement ledger. A movement
// is only ever removed as part of a reverse-by-reference reconciliation;
// adjustment-sourced rows may additionally be edited or deleted by an
// authorized actor, implemented as reverse-old-effect then apply-new.
type StockMovement struct {
	shared.BaseEntity
	ProductID     uuid.UUID        `gorm:"type:uuid;not null;index:idx_stock_movements_product"`
	Type          MovementType     `gorm:"type:varchar(20);not null"`
	Source        MovementSource   `gorm:"type:varchar(30);not null"`
	ReferenceType string           `gorm:"type:varchar(30);index:idx_stock_movements_reference,priority:1"`
	ReferenceID   *uuid.UUID       `gorm:"type:uuid;index:idx_stock_movements_reference,priority:2"`
	Quantity      decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	UnitCost      *decimal.Decimal `gorm:"type:decimal(18,4)"`
	MovementDate  time.Time        `gorm:"type:date;not null"`
	Notes         string           `gorm:"type:varchar(255)"`
	ActorID       uuid.UUID        `gorm:"type:uuid;not null"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewStockMovement creates a validated stock movement. The movement date
// is truncated to a calendar date. For "in" and "out" movements quantity
// must be positive; adjustment quantity is a signed delta and must be
// non-zero.
func NewStockMovement(
	productID uuid.UUID,
	movType MovementType,
	source MovementSource,
	quantity decimal.Decimal,
	movementDate time.Time,
	actorID uuid.UUID,
) (*StockMovement, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if !movType.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Invalid movement type")
	}
	if !source.IsValid() {
		return nil, shared.NewDomainError("INVALID_SOURCE", "Invalid movement source")
	}
	if actorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACTOR", "Actor ID cannot be empty")
	}
	switch movType {
	case MovementTypeAdjustment:
		if quantity.IsZero() {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Adjustment quantity cannot be zero")
		}
	default:
		if quantity.LessThanOrEqual(decimal.Zero) {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
		}
	}

	return &StockMovement{
		BaseEntity:   shared.NewBaseEntity(),
		ProductID:    productID,
		Type:         movType,
		Source:       source,
		Quantity:     quantity,
		MovementDate: shared.DateOnly(movementDate),
		ActorID:      actorID,
	}, nil
}

// WithUnitCost sets the unit cost for the movement
func (m *StockMovement) WithUnitCost(cost decimal.Decimal) *StockMovement {
	m.UnitCost = &cost
	return m
}

// WithReference attaches the source document reference
func (m *StockMovement) WithReference(refType string, refID uuid.UUID) *StockMovement {
	m.ReferenceType = refType
	m.ReferenceID = &refID
	return m
}

// WithNotes sets free-form notes on the movement
func (m *StockMovement) WithNotes(notes string) *StockMovement {
	m.Notes = notes
	return m
}

// SignedQuantity returns the quantity with its effect on the snapshot:
// positive for "in", negative for "out", as stored for adjustments.
func (m *StockMovement) SignedQuantity() decimal.Decimal {
	switch m.Type {
	case MovementTypeIn:
		return m.Quantity
	case MovementTypeOut:
		return m.Quantity.Neg()
	default:
		return m.Quantity
	}
}

// IsAdjustment reports whether this movement came from a manual adjustment
func (m *StockMovement) IsAdjustment() bool {
	return m.Source == SourceAdjustment
}
