package services

import (
	"context"
	"fmt"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/validation"
)

// ProductService handles business logic related to products.
type ProductService struct {
	repo      repositories.ProductRepository
	validator *validation.Validator
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, v *validation.Validator) *ProductService {
	if v == nil {
		v = validation.New()
	}
	return &ProductService{
		repo:      repo,
		validator: v,
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	return s.repo.GetAll(ctx)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// LowStockProducts lists products at or below their minimum stock.
func (s *ProductService) LowStockProducts(ctx context.Context) ([]models.ProductStockRecord, error) {
	return s.repo.SearchLowStock(ctx)
}

// CreateProduct validates a submitted form and creates the product. When only
// the image upload fails the created product is returned along with a
// *repositories.ImageUploadError.
func (s *ProductService) CreateProduct(ctx context.Context, form validation.ProductForm) (*models.Product, error) {
	product, err := s.validator.ProductForm(form)
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, product)
}

// UpdateProduct validates a submitted form and updates the product. The image
// is optional on updates.
func (s *ProductService) UpdateProduct(ctx context.Context, id int64, form validation.ProductForm) (*models.Product, error) {
	form.ImageOptional = true
	product, err := s.validator.ProductForm(form)
	if err != nil {
		return nil, err
	}
	return s.repo.UpdateByID(ctx, id, product)
}

// AdjustStock replaces or increments the stock of a product.
func (s *ProductService) AdjustStock(ctx context.Context, id int64, stock int, replace bool) (*models.Product, error) {
	if replace && stock < 0 {
		return nil, &validation.ValidationError{Fields: map[string]string{"stock": "must not be negative"}}
	}
	return s.repo.UpdateStock(ctx, id, stock, replace)
}

// RetryImageUpload uploads the image of a product created without one.
func (s *ProductService) RetryImageUpload(ctx context.Context, id int64, image models.ImageUpload) (string, error) {
	if err := s.validator.Image(image); err != nil {
		return "", err
	}
	return s.repo.UploadImage(ctx, id, image)
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}
