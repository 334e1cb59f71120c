package service

import (
	"context"
	"strings"

	"github.com/fiyatly/price-catalog/internal/metrics"
	"github.com/fiyatly/price-catalog/internal/model"
	"github.com/fiyatly/price-catalog/internal/repository"
	"github.com/google/uuid"
)

// ProductService implements the product catalog operations on top of the
// product repository.
type ProductService struct {
	products repository.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(products repository.ProductRepository) *ProductService {
	return &ProductService{
		products: products,
	}
}

// CreateProductInput carries the fields accepted when creating a product.
// Everything but Name is optional.
type CreateProductInput struct {
	Name        string
	Description string
	Category    string
	Brand       string
	Model       string
	ImageURL    string
}

// CreateProduct validates the input and persists a new product.
func (ps *ProductService) CreateProduct(ctx context.Context, input CreateProductInput) (*model.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, repository.NewValidationError("product name must not be empty")
	}

	product := &model.Product{
		Name:        name,
		Description: input.Description,
		Category:    input.Category,
		Brand:       input.Brand,
		Model:       input.Model,
		ImageURL:    input.ImageURL,
	}

	created, err := ps.products.Create(ctx, product)
	if err != nil {
		return nil, err
	}

	metrics.ProductsCreated.Inc()

	return created, nil
}

// GetProduct fetches a single product by ID.
func (ps *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return ps.products.FindByID(ctx, id)
}

// UpdateProduct applies a partial update. The patch must carry at least one
// field, and a supplied name must not be empty after trimming.
func (ps *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, patch model.ProductPatch) (*model.Product, error) {
	if patch.IsEmpty() {
		return nil, repository.NewValidationError("at least one field must be supplied")
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, repository.NewValidationError("product name must not be empty")
		}
		patch.Name = &name
	}

	return ps.products.Update(ctx, id, patch)
}

// DeleteProduct removes a product. Its listings are cascade-deleted by the
// storage layer.
func (ps *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := ps.products.DeleteByID(ctx, id); err != nil {
		return err
	}

	metrics.ProductsDeleted.Inc()

	return nil
}

// SearchProducts returns the matching products and the total match count.
func (ps *ProductService) SearchProducts(ctx context.Context, filter repository.ProductFilter) ([]*model.Product, int, error) {
	filter.Page = filter.Page.Normalize()
	return ps.products.Search(ctx, filter)
}
