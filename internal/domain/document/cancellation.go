package document

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tradedoc/backend/internal/domain/shared"
)

// CancellationItem freezes one line of the note as it stood when cancelled.
// ItemID keeps the original line identity so later edits can tell which
// lines a reactivation would restore.
type CancellationItem struct {
	shared.BaseEntity
	CancellationID  uuid.UUID       `gorm:"type:uuid;not null;index:idx_cancellation_items_cancellation"`
	ItemID          uuid.UUID       `gorm:"type:uuid;not null;index:idx_cancellation_items_item"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (CancellationItem) TableName() string {
	return "delivery_note_cancellation_items"
}

// DeliveryNoteCancellation records one cancellation of a delivery note,
// together with the item snapshot needed to restore stock on reactivation.
type DeliveryNoteCancellation struct {
	shared.BaseEntity
	DeliveryNoteID uuid.UUID `gorm:"type:uuid;not null;index:idx_delivery_note_cancellations_note"`
	CancelledAt    time.Time `gorm:"not null"`
	Reason         string    `gorm:"type:text"`
	ActorID        uuid.UUID `gorm:"type:uuid;not null"`

	Items []CancellationItem `gorm:"foreignKey:CancellationID;references:ID"`
}

// TableName returns the table name for GORM
func (DeliveryNoteCancellation) TableName() string {
	return "delivery_note_cancellations"
}

// NewCancellation snapshots the note's current items into a cancellation record
func NewCancellation(note *DeliveryNote, reason string, actorID uuid.UUID) *DeliveryNoteCancellation {
	c := &DeliveryNoteCancellation{
		BaseEntity:     shared.NewBaseEntity(),
		DeliveryNoteID: note.ID,
		CancelledAt:    time.Now(),
		Reason:         reason,
		ActorID:        actorID,
		Items:          make([]CancellationItem, 0, len(note.Items)),
	}
	for i := range note.Items {
		item := &note.Items[i]
		c.Items = append(c.Items, CancellationItem{
			BaseEntity:      shared.NewBaseEntity(),
			CancellationID:  c.ID,
			ItemID:          item.ID,
			ProductID:       item.ProductID,
			Quantity:        item.Quantity,
			UnitPrice:       item.UnitPrice,
			DiscountPercent: item.DiscountPercent,
		})
	}
	return c
}
