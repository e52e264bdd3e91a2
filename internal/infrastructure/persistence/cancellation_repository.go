package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tradedoc/backend/internal/domain/document"
)

// GormCancellationRepository implements CancellationRepository using GORM
type GormCancellationRepository struct {
	db *gorm.DB
}

// NewGormCancellationRepository creates a new GormCancellationRepository
func NewGormCancellationRepository(db *gorm.DB) *GormCancellationRepository {
	return &GormCancellationRepository{db: db}
}

// Create persists a cancellation record with its item snapshot
func (r *GormCancellationRepository) Create(ctx context.Context, cancellation *document.DeliveryNoteCancellation) error {
	return r.db.WithContext(ctx).Create(cancellation).Error
}

// FindByNote returns all cancellation records of a note, newest first
func (r *GormCancellationRepository) FindByNote(ctx context.Context, noteID uuid.UUID) ([]*document.DeliveryNoteCancellation, error) {
	var cancellations []*document.DeliveryNoteCancellation
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("delivery_note_id = ?", noteID).
		Order("cancelled_at DESC").
		Find(&cancellations).Error; err != nil {
		return nil, err
	}
	return cancellations, nil
}

// ProtectedItemIDs returns the note item IDs referenced by any
// cancellation snapshot of the note
func (r *GormCancellationRepository) ProtectedItemIDs(ctx context.Context, noteID uuid.UUID) (map[uuid.UUID]bool, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&document.CancellationItem{}).
		Joins("JOIN delivery_note_cancellations ON delivery_note_cancellations.id = delivery_note_cancellation_items.cancellation_id").
		Where("delivery_note_cancellations.delivery_note_id = ?", noteID).
		Distinct().
		Pluck("delivery_note_cancellation_items.item_id", &ids).Error
	if err != nil {
		return nil, err
	}

	protected := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		protected[id] = true
	}
	return protected, nil
}

// DeleteByNote removes the note's cancellation records and snapshots
func (r *GormCancellationRepository) DeleteByNote(ctx context.Context, noteID uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.
		Where("cancellation_id IN (?)", db.Model(&document.DeliveryNoteCancellation{}).
			Select("id").Where("delivery_note_id = ?", noteID)).
		Delete(&document.CancellationItem{}).Error; err != nil {
		return err
	}
	return db.Where("delivery_note_id = ?", noteID).
		Delete(&document.DeliveryNoteCancellation{}).Error
}
