package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tradedoc/backend/internal/domain/ledger"
	"github.com/tradedoc/backend/internal/domain/shared"
)

// GormStockMovementRepository implements StockMovementRepository using GORM
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewGormStockMovementRepository creates a new GormStockMovementRepository
func NewGormStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

// Create appends a movement row
func (r *GormStockMovementRepository) Create(ctx context.Context, movement *ledger.StockMovement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

// Update rewrites an existing movement row
func (r *GormStockMovementRepository) Update(ctx context.Context, movement *ledger.StockMovement) error {
	return r.db.WithContext(ctx).Save(movement).Error
}

// Delete removes a movement row by ID
func (r *GormStockMovementRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&ledger.StockMovement{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID returns a movement by ID, or shared.ErrNotFound
func (r *GormStockMovementRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.StockMovement, error) {
	var movement ledger.StockMovement
	if err := r.db.WithContext(ctx).First(&movement, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &movement, nil
}

// FindByReference returns all live movements tied to a document reference
func (r *GormStockMovementRepository) FindByReference(ctx context.Context, referenceType string, referenceID uuid.UUID) ([]ledger.StockMovement, error) {
	var movements []ledger.StockMovement
	if err := r.db.WithContext(ctx).
		Where("reference_type = ? AND reference_id = ?", referenceType, referenceID).
		Order("created_at ASC").
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// DeleteByReference removes all movements tied to a document reference
func (r *GormStockMovementRepository) DeleteByReference(ctx context.Context, referenceType string, referenceID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("reference_type = ? AND reference_id = ?", referenceType, referenceID).
		Delete(&ledger.StockMovement{}).Error
}

// FindByProduct lists movements for a product
func (r *GormStockMovementRepository) FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]ledger.StockMovement, error) {
	var movements []ledger.StockMovement
	query := applyFilter(
		r.db.WithContext(ctx).Model(&ledger.StockMovement{}).Where("product_id = ?", productID),
		filter, movementFilters,
	)
	if err := query.Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// FindAll lists movements with filtering and pagination
func (r *GormStockMovementRepository) FindAll(ctx context.Context, filter shared.Filter) ([]ledger.StockMovement, error) {
	var movements []ledger.StockMovement
	query := applyFilter(r.db.WithContext(ctx).Model(&ledger.StockMovement{}), filter, movementFilters)
	if err := query.Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// Count counts movements matching the filter
func (r *GormStockMovementRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyFilterConditions(r.db.WithContext(ctx).Model(&ledger.StockMovement{}), filter, movementFilters)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func movementFilters(query *gorm.DB, key string, value any) *gorm.DB {
	switch key {
	case "product_id":
		return query.Where("product_id = ?", value)
	case "type":
		return query.Where("type = ?", value)
	case "source":
		return query.Where("source = ?", value)
	case "date_from":
		return query.Where("movement_date >= ?", value)
	case "date_to":
		return query.Where("movement_date <= ?", value)
	}
	return query
}
