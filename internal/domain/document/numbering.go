package document

import "context"

// DocumentKind selects a numbering sequence
type DocumentKind string

const (
	KindDeliveryNote  DocumentKind = "delivery_note"
	KindInvoiceLocal  DocumentKind = "invoice_local"
	KindInvoiceExport DocumentKind = "invoice_export"
)

// NumberGenerator hands out document numbers. Next must return a number
// never returned before for the same kind; implementations may rely on a
// unique constraint plus caller retry instead of global coordination.
type NumberGenerator interface {
	Next(ctx context.Context, kind DocumentKind) (string, error)
}
