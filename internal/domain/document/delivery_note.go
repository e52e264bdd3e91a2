package document

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tradedoc/backend/internal/domain/ledger"
	"github.com/tradedoc/backend/internal/domain/shared"
)

// NoteType distinguishes local from export sales
type NoteType string

const (
	NoteTypeLocal  NoteType = "local"
	NoteTypeExport NoteType = "export"
)

// String returns the string representation of NoteType
func (t NoteType) String() string {
	return string(t)
}

// IsValid returns true if the note type is valid
func (t NoteType) IsValid() bool {
	return t == NoteTypeLocal || t == NoteTypeExport
}

// MovementSource returns the ledger source recorded for this note type
func (t NoteType) MovementSource() ledger.MovementSource {
	if t == NoteTypeExport {
		return ledger.SourceSaleExport
	}
	return ledger.SourceSaleLocal
}

// NoteStatus is the delivery-note lifecycle state
type NoteStatus string

const (
	NoteStatusActive    NoteStatus = "active"
	NoteStatusCancelled NoteStatus = "cancelled"
)

// String returns the string representation of NoteStatus
func (s NoteStatus) String() string {
	return string(s)
}

// IsValid returns true if the status is valid
func (s NoteStatus) IsValid() bool {
	return s == NoteStatusActive || s == NoteStatusCancelled
}

// DeliveryNoteItem is a line on a delivery note
type DeliveryNoteItem struct {
	shared.BaseEntity
	DeliveryNoteID  uuid.UUID       `gorm:"type:uuid;not null;index:idx_delivery_note_items_note"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	LineTotal       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (DeliveryNoteItem) TableName() string {
	return "delivery_note_items"
}

// NewDeliveryNoteItem creates a validated line item with its total computed
func NewDeliveryNoteItem(noteID, productID uuid.UUID, quantity, unitPrice, discountPercent decimal.Decimal) (*DeliveryNoteItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if discountPercent.IsNegative() || discountPercent.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount must be between 0 and 100")
	}

	item := &DeliveryNoteItem{
		BaseEntity:      shared.NewBaseEntity(),
		DeliveryNoteID:  noteID,
		ProductID:       productID,
		Quantity:        quantity,
		UnitPrice:       unitPrice,
		DiscountPercent: discountPercent,
	}
	item.recalculate()
	return item, nil
}

// UpdatePricing rewrites quantity, price and discount and recomputes the total
func (i *DeliveryNoteItem) UpdatePricing(quantity, unitPrice, discountPercent decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if discountPercent.IsNegative() || discountPercent.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount must be between 0 and 100")
	}

	i.Quantity = quantity
	i.UnitPrice = unitPrice
	i.DiscountPercent = discountPercent
	i.recalculate()
	i.Touch()
	return nil
}

// Subtotal returns quantity * unitPrice * (1 - discount/100), unrounded
func (i *DeliveryNoteItem) Subtotal() decimal.Decimal {
	discountFactor := decimal.NewFromInt(1).Sub(i.DiscountPercent.Div(decimal.NewFromInt(100)))
	return i.Quantity.Mul(i.UnitPrice).Mul(discountFactor)
}

func (i *DeliveryNoteItem) recalculate() {
	i.LineTotal = i.Subtotal().Round(2)
}

// DeliveryNote is the aggregate root for the delivery-note lifecycle.
// Its live ledger movements must always mirror the current item list
// and status; every transition that touches stock therefore runs the
// ledger reconciliation inside the same transaction.
type DeliveryNote struct {
	shared.BaseEntity
	Number   string     `gorm:"type:varchar(30);not null;uniqueIndex:idx_delivery_notes_number"`
	Type     NoteType   `gorm:"type:varchar(10);not null"`
	ClientID uuid.UUID  `gorm:"type:uuid;not null;index:idx_delivery_notes_client"`
	Date     time.Time  `gorm:"type:date;not null"`
	Status   NoteStatus `gorm:"type:varchar(10);not null;default:'active'"`
	Currency string     `gorm:"type:varchar(3);not null"`

	Items []DeliveryNoteItem `gorm:"foreignKey:DeliveryNoteID;references:ID"`
}

// TableName returns the table name for GORM
func (DeliveryNote) TableName() string {
	return "delivery_notes"
}

// NewDeliveryNote creates an active delivery note without items
func NewDeliveryNote(number string, noteType NoteType, clientID uuid.UUID, date time.Time, currency string) (*DeliveryNote, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Document number cannot be empty")
	}
	if !noteType.IsValid() {
		return nil, shared.NewDomainError("INVALID_NOTE_TYPE", "Invalid delivery note type")
	}
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client ID cannot be empty")
	}
	if currency == "" {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency cannot be empty")
	}

	return &DeliveryNote{
		BaseEntity: shared.NewBaseEntity(),
		Number:     number,
		Type:       noteType,
		ClientID:   clientID,
		Date:       shared.DateOnly(date),
		Status:     NoteStatusActive,
		Currency:   currency,
		Items:      make([]DeliveryNoteItem, 0),
	}, nil
}

// AddItem appends a new line to the note
func (n *DeliveryNote) AddItem(productID uuid.UUID, quantity, unitPrice, discountPercent decimal.Decimal) (*DeliveryNoteItem, error) {
	item, err := NewDeliveryNoteItem(n.ID, productID, quantity, unitPrice, discountPercent)
	if err != nil {
		return nil, err
	}
	n.Items = append(n.Items, *item)
	n.Touch()
	return &n.Items[len(n.Items)-1], nil
}

// IsActive reports whether the note is in the active state
func (n *DeliveryNote) IsActive() bool {
	return n.Status == NoteStatusActive
}

// Cancel moves the note to cancelled. Requesting the current status is
// a successful no-op; the bool reports whether a transition happened.
func (n *DeliveryNote) Cancel() bool {
	if n.Status == NoteStatusCancelled {
		return false
	}
	n.Status = NoteStatusCancelled
	n.Touch()
	return true
}

// Reactivate moves the note back to active. No-op when already active.
func (n *DeliveryNote) Reactivate() bool {
	if n.Status == NoteStatusActive {
		return false
	}
	n.Status = NoteStatusActive
	n.Touch()
	return true
}

// Total returns the sum of all line totals
func (n *DeliveryNote) Total() decimal.Decimal {
	total := decimal.Zero
	for i := range n.Items {
		total = total.Add(n.Items[i].LineTotal)
	}
	return total
}

// OutLines maps the current item list to ledger outbound lines
func (n *DeliveryNote) OutLines() []ledger.OutLine {
	lines := make([]ledger.OutLine, 0, len(n.Items))
	for i := range n.Items {
		lines = append(lines, ledger.OutLine{
			ProductID: n.Items[i].ProductID,
			Quantity:  n.Items[i].Quantity,
		})
	}
	return lines
}

// FindItem returns the item with the given ID, or nil
func (n *DeliveryNote) FindItem(itemID uuid.UUID) *DeliveryNoteItem {
	for i := range n.Items {
		if n.Items[i].ID == itemID {
			return &n.Items[i]
		}
	}
	return nil
}
