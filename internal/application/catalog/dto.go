package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tradedoc/backend/internal/domain/catalog"
)

// CreateProductRequest creates a product
type CreateProductRequest struct {
	Code            string          `json:"code" validate:"required,max=50"`
	Name            string          `json:"name" validate:"required,max=200"`
	Description     string          `json:"description"`
	Unit            string          `json:"unit" validate:"required,max=20"`
	PurchasePrice   decimal.Decimal `json:"purchasePrice"`
	SalePriceLocal  decimal.Decimal `json:"salePriceLocal"`
	SalePriceExport decimal.Decimal `json:"salePriceExport"`
	TaxRate         decimal.Decimal `json:"taxRate"`
	MinStock        decimal.Decimal `json:"minStock"`
}

// UpdateProductRequest updates a product
type UpdateProductRequest struct {
	Name            string          `json:"name" validate:"required,max=200"`
	Description     string          `json:"description"`
	Unit            string          `json:"unit" validate:"required,max=20"`
	PurchasePrice   decimal.Decimal `json:"purchasePrice"`
	SalePriceLocal  decimal.Decimal `json:"salePriceLocal"`
	SalePriceExport decimal.Decimal `json:"salePriceExport"`
	TaxRate         decimal.Decimal `json:"taxRate"`
	MinStock        decimal.Decimal `json:"minStock"`
}

// ProductResponse is the API view of a product
type ProductResponse struct {
	ID              uuid.UUID       `json:"id"`
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	Description     string          `json:"description,omitempty"`
	Unit            string          `json:"unit"`
	PurchasePrice   decimal.Decimal `json:"purchasePrice"`
	SalePriceLocal  decimal.Decimal `json:"salePriceLocal"`
	SalePriceExport decimal.Decimal `json:"salePriceExport"`
	TaxRate         decimal.Decimal `json:"taxRate"`
	MinStock        decimal.Decimal `json:"minStock"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// ToProductResponse converts a product to its API view
func ToProductResponse(p *catalog.Product) *ProductResponse {
	return &ProductResponse{
		ID:              p.ID,
		Code:            p.Code,
		Name:            p.Name,
		Description:     p.Description,
		Unit:            p.Unit,
		PurchasePrice:   p.PurchasePrice,
		SalePriceLocal:  p.SalePriceLocal,
		SalePriceExport: p.SalePriceExport,
		TaxRate:         p.TaxRate,
		MinStock:        p.MinStock,
		Status:          string(p.Status),
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}
