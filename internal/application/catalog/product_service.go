package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/tradedoc/backend/internal/domain/catalog"
	"github.com/tradedoc/backend/internal/domain/shared"
)

// ProductService handles product catalog operations
type ProductService struct {
	products  catalog.ProductRepository
	publisher shared.TopicPublisher
}

// NewProductService creates a new ProductService
func NewProductService(products catalog.ProductRepository, publisher shared.TopicPublisher) *ProductService {
	if publisher == nil {
		publisher = shared.NoOpTopicPublisher{}
	}
	return &ProductService{products: products, publisher: publisher}
}

// Create creates a product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	exists, err := s.products.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("DUPLICATE_CODE", "A product with this code already exists")
	}

	product, err := catalog.NewProduct(req.Code, req.Name, req.Unit)
	if err != nil {
		return nil, err
	}
	product.Description = req.Description
	if err := product.SetPrices(req.PurchasePrice, req.SalePriceLocal, req.SalePriceExport); err != nil {
		return nil, err
	}
	if err := product.SetTaxRate(req.TaxRate); err != nil {
		return nil, err
	}
	if err := product.SetMinStock(req.MinStock); err != nil {
		return nil, err
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, shared.TopicProducts)
	return ToProductResponse(product), nil
}

// Update updates a product
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := product.Update(req.Name, req.Description, req.Unit); err != nil {
		return nil, err
	}
	if err := product.SetPrices(req.PurchasePrice, req.SalePriceLocal, req.SalePriceExport); err != nil {
		return nil, err
	}
	if err := product.SetTaxRate(req.TaxRate); err != nil {
		return nil, err
	}
	if err := product.SetMinStock(req.MinStock); err != nil {
		return nil, err
	}

	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, shared.TopicProducts)
	return ToProductResponse(product), nil
}

// SetActive activates or deactivates a product
func (s *ProductService) SetActive(ctx context.Context, id uuid.UUID, active bool) (*ProductResponse, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if active {
		err = product.Activate()
	} else {
		err = product.Deactivate()
	}
	if err != nil {
		return nil, err
	}

	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, shared.TopicProducts)
	return ToProductResponse(product), nil
}

// Get returns one product
func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// List returns products with pagination
func (s *ProductService) List(ctx context.Context, filter shared.Filter) ([]*ProductResponse, int64, error) {
	products, err := s.products.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.products.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]*ProductResponse, 0, len(products))
	for _, p := range products {
		responses = append(responses, ToProductResponse(p))
	}
	return responses, total, nil
}
