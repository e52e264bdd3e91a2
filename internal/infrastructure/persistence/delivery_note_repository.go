package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tradedoc/backend/internal/domain/document"
	"github.com/tradedoc/backend/internal/domain/shared"
)

// GormDeliveryNoteRepository implements DeliveryNoteRepository using GORM
type GormDeliveryNoteRepository struct {
	db *gorm.DB
}

// NewGormDeliveryNoteRepository creates a new GormDeliveryNoteRepository
func NewGormDeliveryNoteRepository(db *gorm.DB) *GormDeliveryNoteRepository {
	return &GormDeliveryNoteRepository{db: db}
}

// Create persists a new delivery note with its items
func (r *GormDeliveryNoteRepository) Create(ctx context.Context, note *document.DeliveryNote) error {
	if err := r.db.WithContext(ctx).Create(note).Error; err != nil {
		if isDuplicateKey(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Update persists header changes. Items are managed through the item
// methods, so association updates are skipped.
func (r *GormDeliveryNoteRepository) Update(ctx context.Context, note *document.DeliveryNote) error {
	return r.db.WithContext(ctx).Omit("Items").Save(note).Error
}

// FindByID returns a note with its items, or shared.ErrNotFound
func (r *GormDeliveryNoteRepository) FindByID(ctx context.Context, id uuid.UUID) (*document.DeliveryNote, error) {
	var note document.DeliveryNote
	if err := r.db.WithContext(ctx).Preload("Items").First(&note, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &note, nil
}

// FindByNumber returns a note by its document number
func (r *GormDeliveryNoteRepository) FindByNumber(ctx context.Context, number string) (*document.DeliveryNote, error) {
	var note document.DeliveryNote
	if err := r.db.WithContext(ctx).Preload("Items").First(&note, "number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &note, nil
}

// FindAll lists notes with filtering and pagination
func (r *GormDeliveryNoteRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*document.DeliveryNote, error) {
	var notes []*document.DeliveryNote
	query := applyFilter(r.db.WithContext(ctx).Model(&document.DeliveryNote{}), filter, noteFilters).Preload("Items")
	if err := query.Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

// Count counts notes matching the filter
func (r *GormDeliveryNoteRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyFilterConditions(r.db.WithContext(ctx).Model(&document.DeliveryNote{}), filter, noteFilters)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CreateItem persists a new note line
func (r *GormDeliveryNoteRepository) CreateItem(ctx context.Context, item *document.DeliveryNoteItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// UpdateItem persists changes to an existing note line
func (r *GormDeliveryNoteRepository) UpdateItem(ctx context.Context, item *document.DeliveryNoteItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// DeleteItem removes a note line by ID
func (r *GormDeliveryNoteRepository) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&document.DeliveryNoteItem{}, "id = ?", itemID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func noteFilters(query *gorm.DB, key string, value any) *gorm.DB {
	switch key {
	case "client_id":
		return query.Where("client_id = ?", value)
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
