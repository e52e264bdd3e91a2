package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tradedoc/backend/internal/domain/document"
)

// DocumentSequence is one numbering sequence row per document kind
type DocumentSequence struct {
	Kind      string `gorm:"type:varchar(30);primaryKey"`
	Prefix    string `gorm:"type:varchar(10);not null"`
	NextValue int64  `gorm:"not null;default:1"`
	Width     int    `gorm:"not null;default:6"`
}

// TableName returns the table name for GORM
func (DocumentSequence) TableName() string {
	return "document_sequences"
}

// Format renders the current value as a document number
func (s *DocumentSequence) Format(value int64) string {
	return fmt.Sprintf("%s-%0*d", s.Prefix, s.Width, value)
}

// defaultPrefixes seeds a sequence row on first use of a kind
var defaultPrefixes = map[document.DocumentKind]string{
	document.KindDeliveryNote:  "DN",
	document.KindInvoiceLocal:  "INV",
	document.KindInvoiceExport: "EXP",
}

// GormNumberGenerator implements NumberGenerator on a sequence table.
// Each Next call increments the row inside its own short transaction,
// taking a row lock so concurrent callers never see the same value.
// Numbers handed out to a transaction that later rolls back are burned,
// which is fine: numbering must be unique, not gapless.
type GormNumberGenerator struct {
	db *gorm.DB
}

// NewGormNumberGenerator creates a new GormNumberGenerator
func NewGormNumberGenerator(db *gorm.DB) *GormNumberGenerator {
	return &GormNumberGenerator{db: db}
}

// Next returns the next number for the given kind
func (g *GormNumberGenerator) Next(ctx context.Context, kind document.DocumentKind) (string, error) {
	var number string
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx
		if supportsRowLocks(tx) {
			query = query.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var seq DocumentSequence
		err := query.First(&seq, "kind = ?", string(kind)).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			prefix, ok := defaultPrefixes[kind]
			if !ok {
				return fmt.Errorf("unknown document kind %q", kind)
			}
			seq = DocumentSequence{Kind: string(kind), Prefix: prefix, NextValue: 1, Width: 6}
			if err := tx.Create(&seq).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		number = seq.Format(seq.NextValue)
		seq.NextValue++
		return tx.Save(&seq).Error
	})
	if err != nil {
		return "", err
	}
	return number, nil
}

var _ document.NumberGenerator = (*GormNumberGenerator)(nil)
