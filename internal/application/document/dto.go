package document

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tradedoc/backend/internal/domain/document"
	"github.com/tradedoc/backend/internal/domain/shared"
)

// NoteItemRequest is one requested line on a delivery note. UnitPrice
// is optional; when omitted the product's sale price for the note's
// market is used.
type NoteItemRequest struct {
	ItemID          *uuid.UUID       `json:"itemId,omitempty"`
	ProductID       uuid.UUID        `json:"productId" validate:"required"`
	Quantity        decimal.Decimal  `json:"quantity" validate:"required"`
	UnitPrice       *decimal.Decimal `json:"unitPrice,omitempty"`
	DiscountPercent decimal.Decimal  `json:"discountPercent"`
}

// CreateNoteRequest creates a delivery note
type CreateNoteRequest struct {
	Type     document.NoteType `json:"type" validate:"required,oneof=local export"`
	ClientID uuid.UUID         `json:"clientId" validate:"required"`
	Date     time.Time         `json:"date" validate:"required"`
	Currency string            `json:"currency"`
	Items    []NoteItemRequest `json:"items" validate:"required,min=1,dive"`
}

// EditNoteRequest rewrites a delivery note's header and full item list.
// Items carry ItemID when they update an existing line; lines absent
// from the list are removed unless protected by a cancellation snapshot.
type EditNoteRequest struct {
	ClientID uuid.UUID         `json:"clientId" validate:"required"`
	Date     time.Time         `json:"date" validate:"required"`
	Items    []NoteItemRequest `json:"items" validate:"required,dive"`
}

// CancelNoteRequest cancels a delivery note
type CancelNoteRequest struct {
	Reason string `json:"reason"`
}

// NoteItemResponse is the API view of a delivery note line
type NoteItemResponse struct {
	ID              uuid.UUID       `json:"id"`
	ProductID       uuid.UUID       `json:"productId"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	LineTotal       decimal.Decimal `json:"lineTotal"`
}

// NoteResponse is the API view of a delivery note
type NoteResponse struct {
	ID        uuid.UUID          `json:"id"`
	Number    string             `json:"number"`
	Type      string             `json:"type"`
	Status    string             `json:"status"`
	ClientID  uuid.UUID          `json:"clientId"`
	Date      string             `json:"date"`
	Currency  string             `json:"currency"`
	Total     decimal.Decimal    `json:"total"`
	Items     []NoteItemResponse `json:"items"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// ToNoteResponse converts a delivery note to its API view
func ToNoteResponse(n *document.DeliveryNote) *NoteResponse {
	items := make([]NoteItemResponse, 0, len(n.Items))
	for i := range n.Items {
		item := &n.Items[i]
		items = append(items, NoteItemResponse{
			ID:              item.ID,
			ProductID:       item.ProductID,
			Quantity:        item.Quantity,
			UnitPrice:       item.UnitPrice,
			DiscountPercent: item.DiscountPercent,
			LineTotal:       item.LineTotal,
		})
	}
	return &NoteResponse{
		ID:        n.ID,
		Number:    n.Number,
		Type:      n.Type.String(),
		Status:    n.Status.String(),
		ClientID:  n.ClientID,
		Date:      shared.FormatDate(n.Date),
		Currency:  n.Currency,
		Total:     n.Total(),
		Items:     items,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

// CreateInvoiceRequest generates an invoice from a delivery note
type CreateInvoiceRequest struct {
	DeliveryNoteID uuid.UUID `json:"deliveryNoteId" validate:"required"`
	Date           time.Time `json:"date"`
}

// InvoiceItemResponse is the API view of an invoice line
type InvoiceItemResponse struct {
	ID              uuid.UUID       `json:"id"`
	ProductID       uuid.UUID       `json:"productId"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	TaxRate         decimal.Decimal `json:"taxRate"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	TaxAmount       decimal.Decimal `json:"taxAmount"`
	LineTotal       decimal.Decimal `json:"lineTotal"`
}

// InvoiceResponse is the API view of an invoice. AlreadyExists is true
// when generation found an existing active invoice instead of creating
// a new one.
type InvoiceResponse struct {
	ID             uuid.UUID             `json:"id"`
	Number         string                `json:"number"`
	Type           string                `json:"type"`
	Status         string                `json:"status"`
	DeliveryNoteID uuid.UUID             `json:"deliveryNoteId"`
	ClientID       uuid.UUID             `json:"clientId"`
	Date           string                `json:"date"`
	DueDate        string                `json:"dueDate,omitempty"`
	Currency       string                `json:"currency"`
	Subtotal       decimal.Decimal       `json:"subtotal"`
	TaxAmount      decimal.Decimal       `json:"taxAmount"`
	Total          decimal.Decimal       `json:"total"`
	Items          []InvoiceItemResponse `json:"items"`
	AlreadyExists  bool                  `json:"alreadyExists"`
	CreatedAt      time.Time             `json:"createdAt"`
}

// ToInvoiceResponse converts an invoice to its API view
func ToInvoiceResponse(inv *document.Invoice, alreadyExists bool) *InvoiceResponse {
	items := make([]InvoiceItemResponse, 0, len(inv.Items))
	for i := range inv.Items {
		item := &inv.Items[i]
		items = append(items, InvoiceItemResponse{
			ID:              item.ID,
			ProductID:       item.ProductID,
			Quantity:        item.Quantity,
			UnitPrice:       item.UnitPrice,
			DiscountPercent: item.DiscountPercent,
			TaxRate:         item.TaxRate,
			Subtotal:        item.Subtotal,
			TaxAmount:       item.TaxAmount,
			LineTotal:       item.LineTotal,
		})
	}
	dueDate := ""
	if inv.DueDate != nil {
		dueDate = shared.FormatDate(*inv.DueDate)
	}
	return &InvoiceResponse{
		ID:             inv.ID,
		Number:         inv.Number,
		Type:           inv.Type.String(),
		Status:         inv.Status.String(),
		DeliveryNoteID: inv.DeliveryNoteID,
		ClientID:       inv.ClientID,
		Date:           shared.FormatDate(inv.Date),
		DueDate:        dueDate,
		Currency:       inv.Currency,
		Subtotal:       inv.Subtotal,
		TaxAmount:      inv.TaxAmount,
		Total:          inv.Total,
		Items:          items,
		AlreadyExists:  alreadyExists,
		CreatedAt:      inv.CreatedAt,
	}
}
