package catalog

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tradedoc/backend/internal/domain/shared"
)

// ProductStatus represents the status of a product
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

// Product represents a product/SKU in the catalog.
// Sale prices are kept per market because local and export sales are
// priced independently; TaxRate is the current rate and is copied onto
// invoice lines at generation time, never read back from here.
type Product struct {
	shared.BaseEntity
	Code            string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_products_code"`
	Name            string          `gorm:"type:varchar(200);not null"`
	Description     string          `gorm:"type:text"`
	Unit            string          `gorm:"type:varchar(20);not null"`
	PurchasePrice   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SalePriceLocal  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SalePriceExport decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TaxRate         decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	MinStock        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status          ProductStatus   `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates an active product
func NewProduct(code, name, unit string) (*Product, error) {
	if err := validateProductCode(code); err != nil {
		return nil, err
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if err := validateUnit(unit); err != nil {
		return nil, err
	}

	return &Product{
		BaseEntity:      shared.NewBaseEntity(),
		Code:            strings.ToUpper(code),
		Name:            name,
		Unit:            unit,
		PurchasePrice:   decimal.Zero,
		SalePriceLocal:  decimal.Zero,
		SalePriceExport: decimal.Zero,
		TaxRate:         decimal.Zero,
		MinStock:        decimal.Zero,
		Status:          ProductStatusActive,
	}, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, description, unit string) error {
	if err := validateProductName(name); err != nil {
		return err
	}
	if err := validateUnit(unit); err != nil {
		return err
	}

	p.Name = name
	p.Description = description
	p.Unit = unit
	p.Touch()
	return nil
}

// SetPrices sets purchase and sale prices
func (p *Product) SetPrices(purchasePrice, salePriceLocal, salePriceExport decimal.Decimal) error {
	if purchasePrice.IsNegative() || salePriceLocal.IsNegative() || salePriceExport.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Prices cannot be negative")
	}

	p.PurchasePrice = purchasePrice
	p.SalePriceLocal = salePriceLocal
	p.SalePriceExport = salePriceExport
	p.Touch()
	return nil
}

// SetTaxRate updates the current tax rate
func (p *Product) SetTaxRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_TAX_RATE", "Tax rate must be between 0 and 100")
	}

	p.TaxRate = rate
	p.Touch()
	return nil
}

// SetMinStock sets the minimum stock level for alerts
func (p *Product) SetMinStock(minStock decimal.Decimal) error {
	if minStock.IsNegative() {
		return shared.NewDomainError("INVALID_MIN_STOCK", "Minimum stock cannot be negative")
	}

	p.MinStock = minStock
	p.Touch()
	return nil
}

// SalePriceFor returns the sale price for the given market
func (p *Product) SalePriceFor(export bool) decimal.Decimal {
	if export {
		return p.SalePriceExport
	}
	return p.SalePriceLocal
}

// Activate activates the product
func (p *Product) Activate() error {
	if p.Status == ProductStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Product is already active")
	}

	p.Status = ProductStatusActive
	p.Touch()
	return nil
}

// Deactivate deactivates the product
func (p *Product) Deactivate() error {
	if p.Status == ProductStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Product is already inactive")
	}

	p.Status = ProductStatusInactive
	p.Touch()
	return nil
}

// IsActive returns true if the product is active
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// validateProductCode validates the product code (SKU)
func validateProductCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_CODE", "Product code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

// validateProductName validates the product name
func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}

// validateUnit validates the unit
func validateUnit(unit string) error {
	if unit == "" {
		return shared.NewDomainError("INVALID_UNIT", "Unit cannot be empty")
	}
	if len(unit) > 20 {
		return shared.NewDomainError("INVALID_UNIT", "Unit cannot exceed 20 characters")
	}
	return nil
}
