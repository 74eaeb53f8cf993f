package repositories

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"storefront/internal/mappers"
	"storefront/internal/models"
	"storefront/pkg/httpapi"
)

// imageField is the multipart field the backend reads uploads from.
const imageField = "image"

// HTTPProductRepository is the REST implementation of ProductRepository.
type HTTPProductRepository struct {
	base
}

// NewHTTPProductRepository creates a product repository over api.
func NewHTTPProductRepository(api *httpapi.Client, opts ...Option) *HTTPProductRepository {
	return &HTTPProductRepository{base: newBase(api, opts)}
}

// GetAll retrieves every product.
func (r *HTTPProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	var records []models.ProductRecord
	if err := r.api.Get(ctx, join(r.paths.Product, "all"), &records); err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return mappers.ProductsFromRecords(records), nil
}

// GetByID retrieves a single product.
func (r *HTTPProductRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	var record models.ProductRecord
	if err := r.api.Get(ctx, join(r.paths.Product, id), &record); err != nil {
		return nil, fmt.Errorf("failed to get product %d: %w", id, err)
	}
	p := mappers.ProductFromRecord(record)
	return &p, nil
}

// SearchLowStock lists products whose stock is at or below their minimum.
func (r *HTTPProductRepository) SearchLowStock(ctx context.Context) ([]models.ProductStockRecord, error) {
	var records []models.ProductRecord
	if err := r.api.Get(ctx, join(r.paths.Product, "search", "low-stock"), &records); err != nil {
		return nil, fmt.Errorf("failed to search low-stock products: %w", err)
	}
	out := make([]models.ProductStockRecord, 0, len(records))
	for _, rec := range records {
		out = append(out, mappers.ProductStockFromRecord(rec))
	}
	return out, nil
}

// Create stores the product metadata and then uploads its pending image.
// The two calls are not atomic: when the upload fails the created product is
// returned together with an *ImageUploadError.
func (r *HTTPProductRepository) Create(ctx context.Context, product models.Product) (*models.Product, error) {
	var record models.ProductRecord
	if err := r.api.Post(ctx, join(r.paths.Product)+"/", mappers.ProductToRecord(product, r.now()), &record); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	created := mappers.ProductFromRecord(record)

	upload, ok := product.Image.Pending()
	if !ok {
		return &created, nil
	}
	url, err := r.UploadImage(ctx, created.ID, *upload)
	if err != nil {
		r.logger.Warn("product created without image",
			zap.Int64("product_id", created.ID),
			zap.Error(err),
		)
		return &created, &ImageUploadError{Product: created, Err: err}
	}
	created.Image = models.NewImageURL(url)
	return &created, nil
}

// UpdateByID uploads a pending image, updates the metadata and finally
// replaces the stock through the stock endpoint.
func (r *HTTPProductRepository) UpdateByID(ctx context.Context, id int64, product models.Product) (*models.Product, error) {
	if upload, ok := product.Image.Pending(); ok {
		if _, err := r.UploadImage(ctx, id, *upload); err != nil {
			return nil, fmt.Errorf("failed to update product %d: %w", id, err)
		}
	}

	var record models.ProductRecord
	if err := r.api.Put(ctx, join(r.paths.Product, id), mappers.ProductUpdateFields(product), &record); err != nil {
		return nil, fmt.Errorf("failed to update product %d: %w", id, err)
	}
	return r.UpdateStock(ctx, id, product.Stock, true)
}

// UpdateStock sets (replace) or increments the stock of a product.
func (r *HTTPProductRepository) UpdateStock(ctx context.Context, id int64, stock int, replace bool) (*models.Product, error) {
	var record models.ProductRecord
	if err := r.api.Put(ctx, join(r.paths.Product, "stock", id, stock, replace), nil, &record); err != nil {
		return nil, fmt.Errorf("failed to update stock of product %d: %w", id, err)
	}
	p := mappers.ProductFromRecord(record)
	return &p, nil
}

// UploadImage sends image as the product picture and returns its URL.
func (r *HTTPProductRepository) UploadImage(ctx context.Context, id int64, image models.ImageUpload) (string, error) {
	var url string
	file := httpapi.File{Name: image.Filename, ContentType: image.ContentType, Content: image.Content}
	if err := r.api.PutMultipart(ctx, join(r.paths.Product, "image", id), imageField, file, &url); err != nil {
		return "", fmt.Errorf("failed to upload image of product %d: %w", id, err)
	}
	return url, nil
}

// DeleteByID removes a product. A missing product yields an
// *httpapi.NotFoundError.
func (r *HTTPProductRepository) DeleteByID(ctx context.Context, id int64) error {
	if err := r.api.Delete(ctx, join(r.paths.Product, id), nil); err != nil {
		return fmt.Errorf("failed to delete product %d: %w", id, err)
	}
	return nil
}
