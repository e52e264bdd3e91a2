package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tradedoc/backend/internal/domain/document"
	"github.com/tradedoc/backend/internal/domain/shared"
)

// GormInvoiceRepository implements InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// Create persists a new invoice with its items. A duplicate invoice
// number maps to shared.ErrAlreadyExists so the caller can retry with
// a fresh number.
func (r *GormInvoiceRepository) Create(ctx context.Context, invoice *document.Invoice) error {
	if err := r.db.WithContext(ctx).Create(invoice).Error; err != nil {
		if isDuplicateKey(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Update persists header changes
func (r *GormInvoiceRepository) Update(ctx context.Context, invoice *document.Invoice) error {
	return r.db.WithContext(ctx).Omit("Items").Save(invoice).Error
}

// FindByID returns an invoice with its items, or shared.ErrNotFound
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*document.Invoice, error) {
	var invoice document.Invoice
	if err := r.db.WithContext(ctx).Preload("Items").First(&invoice, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindByNumber returns an invoice by its document number
func (r *GormInvoiceRepository) FindByNumber(ctx context.Context, number string) (*document.Invoice, error) {
	var invoice document.Invoice
	if err := r.db.WithContext(ctx).Preload("Items").First(&invoice, "number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindActiveByNote returns the active invoice generated from the note
func (r *GormInvoiceRepository) FindActiveByNote(ctx context.Context, noteID uuid.UUID) (*document.Invoice, error) {
	var invoice document.Invoice
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("delivery_note_id = ? AND status = ?", noteID, document.InvoiceStatusActive).
		First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindAll lists invoices with filtering and pagination
func (r *GormInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*document.Invoice, error) {
	var invoices []*document.Invoice
	query := applyFilter(r.db.WithContext(ctx).Model(&document.Invoice{}), filter, invoiceFilters).Preload("Items")
	if err := query.Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// Count counts invoices matching the filter
func (r *GormInvoiceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyFilterConditions(r.db.WithContext(ctx).Model(&document.Invoice{}), filter, invoiceFilters)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func invoiceFilters(query *gorm.DB, key string, value any) *gorm.DB {
	switch key {
	case "client_id":
		return query.Where("client_id = ?", value)
	case "delivery_note_id":
		return query.Where("delivery_note_id = ?", value)
	case "type":
		return query.Where("type = ?", value)
	case "status":
		return query.Where("status = ?", value)
	case "date_from":
		return query.Where("date >= ?", value)
	case "date_to":
		return query.Where("date <= ?", value)
	}
	return query
}

// isDuplicateKey detects unique constraint violations across the
// translated GORM error and the raw postgres/sqlite messages.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint failed")
}
