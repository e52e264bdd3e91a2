// Package integration exercises the application services end to end on a
// real database, through the GORM transaction scopes and repositories.
package integration

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tradedoc/backend/internal/domain/catalog"
	"github.com/tradedoc/backend/internal/domain/document"
	"github.com/tradedoc/backend/internal/domain/ledger"
	"github.com/tradedoc/backend/internal/domain/partner"
	"github.com/tradedoc/backend/internal/infrastructure/persistence"
)

// TestDB is an in-memory database with the full schema migrated
type TestDB struct {
	DB *gorm.DB
}

// NewTestDB opens a fresh in-memory database for one test. The DSN is
// a named shared-cache database so every pool connection, including the
// ones transactions check out, sees the same schema.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&catalog.Product{},
		&partner.Client{},
		&ledger.StockSnapshot{},
		&ledger.StockMovement{},
		&document.DeliveryNote{},
		&document.DeliveryNoteItem{},
		&document.DeliveryNoteCancellation{},
		&document.CancellationItem{},
		&document.Invoice{},
		&document.InvoiceItem{},
		&persistence.DocumentSequence{},
	))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return &TestDB{DB: db}
}
