package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tradedoc/backend/internal/domain/ledger"
	"github.com/tradedoc/backend/internal/domain/shared"
)

// GormStockSnapshotRepository implements StockSnapshotRepository using GORM.
// With forUpdate enabled, FindByProduct takes a row lock so concurrent
// writers touching the same product serialize on the database.
type GormStockSnapshotRepository struct {
	db        *gorm.DB
	forUpdate bool
}

// NewGormStockSnapshotRepository creates a new GormStockSnapshotRepository
func NewGormStockSnapshotRepository(db *gorm.DB, forUpdate bool) *GormStockSnapshotRepository {
	return &GormStockSnapshotRepository{db: db, forUpdate: forUpdate}
}

// FindByProduct returns the snapshot for a product, or shared.ErrNotFound
func (r *GormStockSnapshotRepository) FindByProduct(ctx context.Context, productID uuid.UUID) (*ledger.StockSnapshot, error) {
	query := r.db.WithContext(ctx)
	if r.forUpdate {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var snapshot ledger.StockSnapshot
	if err := query.First(&snapshot, "product_id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &snapshot, nil
}

// Save inserts or updates a snapshot
func (r *GormStockSnapshotRepository) Save(ctx context.Context, snapshot *ledger.StockSnapshot) error {
	return r.db.WithContext(ctx).Save(snapshot).Error
}

// FindAll lists snapshots with filtering and pagination
func (r *GormStockSnapshotRepository) FindAll(ctx context.Context, filter shared.Filter) ([]ledger.StockSnapshot, error) {
	var snapshots []ledger.StockSnapshot
	query := applyFilter(r.db.WithContext(ctx).Model(&ledger.StockSnapshot{}), filter, snapshotFilters)
	if err := query.Find(&snapshots).Error; err != nil {
		return nil, err
	}
	return snapshots, nil
}

// Count counts snapshots matching the filter
func (r *GormStockSnapshotRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyFilterConditions(r.db.WithContext(ctx).Model(&ledger.StockSnapshot{}), filter, snapshotFilters)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func snapshotFilters(query *gorm.DB, key string, value any) *gorm.DB {
	switch key {
	case "product_id":
		return query.Where("product_id = ?", value)
	case "has_stock":
		if value == true {
			return query.Where("quantity_available > 0")
		}
	}
	return query
}

// filterFunc applies one repository-specific filter key
type filterFunc func(query *gorm.DB, key string, value any) *gorm.DB

// applyFilterConditions applies filter keys without pagination or ordering
func applyFilterConditions(query *gorm.DB, filter shared.Filter, fn filterFunc) *gorm.DB {
	for key, value := range filter.Filters {
		query = fn(query, key, value)
	}
	return query
}

// applyFilter applies filter keys, pagination and ordering
func applyFilter(query *gorm.DB, filter shared.Filter, fn filterFunc) *gorm.DB {
	query = applyFilterConditions(query, filter, fn)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.Limit())
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("created_at DESC")
	}
	return query
}
