package document

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tradedoc/backend/internal/domain/shared"
)

// InvoiceType mirrors the note type of the source delivery note
type InvoiceType string

const (
	InvoiceTypeLocal  InvoiceType = "local"
	InvoiceTypeExport InvoiceType = "export"
)

// String returns the string representation of InvoiceType
func (t InvoiceType) String() string {
	return string(t)
}

// IsValid returns true if the invoice type is valid
func (t InvoiceType) IsValid() bool {
	return t == InvoiceTypeLocal || t == InvoiceTypeExport
}

// InvoiceStatus is the invoice lifecycle state
type InvoiceStatus string

const (
	InvoiceStatusActive    InvoiceStatus = "active"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// exportPaymentTermDays is the payment window granted on export invoices
const exportPaymentTermDays = 30

// InvoiceItem is a line on an invoice. TaxRate is copied onto the line
// at generation time so later catalog changes never rewrite an issued
// invoice.
type InvoiceItem struct {
	shared.BaseEntity
	InvoiceID       uuid.UUID       `gorm:"type:uuid;not null;index:idx_invoice_items_invoice"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	TaxRate         decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	TaxAmount       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	LineTotal       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// NewInvoiceItem builds an invoice line from note-line figures plus a tax rate
func NewInvoiceItem(invoiceID, productID uuid.UUID, quantity, unitPrice, discountPercent, taxRate decimal.Decimal) (*InvoiceItem, error) {
	if taxRate.IsNegative() {
		return nil, shared.NewDomainError("INVALID_TAX_RATE", "Tax rate cannot be negative")
	}

	item := &InvoiceItem{
		BaseEntity:      shared.NewBaseEntity(),
		InvoiceID:       invoiceID,
		ProductID:       productID,
		Quantity:        quantity,
		UnitPrice:       unitPrice,
		DiscountPercent: discountPercent,
		TaxRate:         taxRate,
	}

	hundred := decimal.NewFromInt(100)
	discountFactor := decimal.NewFromInt(1).Sub(discountPercent.Div(hundred))
	subtotal := quantity.Mul(unitPrice).Mul(discountFactor)
	item.Subtotal = subtotal.Round(2)
	item.TaxAmount = subtotal.Mul(taxRate.Div(hundred)).Round(2)
	item.LineTotal = item.Subtotal.Add(item.TaxAmount)
	return item, nil
}

// Invoice is generated from an active delivery note. At most one active
// invoice exists per (delivery note, type) pair.
type Invoice struct {
	shared.BaseEntity
	Number         string        `gorm:"type:varchar(30);not null;uniqueIndex:idx_invoices_number"`
	Type           InvoiceType   `gorm:"type:varchar(10);not null"`
	Status         InvoiceStatus `gorm:"type:varchar(10);not null;default:'active'"`
	DeliveryNoteID uuid.UUID     `gorm:"type:uuid;not null;index:idx_invoices_delivery_note"`
	ClientID       uuid.UUID     `gorm:"type:uuid;not null;index:idx_invoices_client"`
	Date           time.Time     `gorm:"type:date;not null"`
	DueDate        *time.Time    `gorm:"type:date"`
	Currency       string        `gorm:"type:varchar(3);not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Total          decimal.Decimal `gorm:"type:decimal(18,2);not null"`

	Items []InvoiceItem `gorm:"foreignKey:InvoiceID;references:ID"`
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// DueDateFor applies the payment-term rule: export invoices are due
// thirty calendar days after the invoice date, local invoices carry no
// payment terms and have no due date.
func DueDateFor(invoiceType InvoiceType, date time.Time) *time.Time {
	if invoiceType != InvoiceTypeExport {
		return nil
	}
	due := shared.DateOnly(date).AddDate(0, 0, exportPaymentTermDays)
	return &due
}

// TaxRateLookup resolves the tax rate to stamp on a generated line
type TaxRateLookup func(productID uuid.UUID) (decimal.Decimal, error)

// NewInvoiceFromNote derives an invoice from an active delivery note,
// copying line figures and stamping each line with its current tax rate.
func NewInvoiceFromNote(number string, note *DeliveryNote, date time.Time, taxRate TaxRateLookup) (*Invoice, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Document number cannot be empty")
	}
	if !note.IsActive() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot invoice a cancelled delivery note")
	}
	if len(note.Items) == 0 {
		return nil, shared.ErrEmptyDocument
	}

	invoiceType := InvoiceTypeLocal
	if note.Type == NoteTypeExport {
		invoiceType = InvoiceTypeExport
	}

	inv := &Invoice{
		BaseEntity:     shared.NewBaseEntity(),
		Number:         number,
		Type:           invoiceType,
		Status:         InvoiceStatusActive,
		DeliveryNoteID: note.ID,
		ClientID:       note.ClientID,
		Date:           shared.DateOnly(date),
		DueDate:        DueDateFor(invoiceType, date),
		Currency:       note.Currency,
		Subtotal:       decimal.Zero,
		TaxAmount:      decimal.Zero,
		Total:          decimal.Zero,
		Items:          make([]InvoiceItem, 0, len(note.Items)),
	}

	for i := range note.Items {
		line := &note.Items[i]
		rate, err := taxRate(line.ProductID)
		if err != nil {
			return nil, err
		}
		item, err := NewInvoiceItem(inv.ID, line.ProductID, line.Quantity, line.UnitPrice, line.DiscountPercent, rate)
		if err != nil {
			return nil, err
		}
		inv.Items = append(inv.Items, *item)
		inv.Subtotal = inv.Subtotal.Add(item.Subtotal)
		inv.TaxAmount = inv.TaxAmount.Add(item.TaxAmount)
		inv.Total = inv.Total.Add(item.LineTotal)
	}

	return inv, nil
}

// Cancel marks the invoice cancelled. No-op when already cancelled.
func (inv *Invoice) Cancel() bool {
	if inv.Status == InvoiceStatusCancelled {
		return false
	}
	inv.Status = InvoiceStatusCancelled
	inv.Touch()
	return true
}

// IsActive reports whether the invoice is in the active state
func (inv *Invoice) IsActive() bool {
	return inv.Status == InvoiceStatusActive
}
