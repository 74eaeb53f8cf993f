package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"storefront/internal/models"
	"storefront/pkg/httpapi"
)

// MemoryProductRepository is an in-memory implementation of ProductRepository.
type MemoryProductRepository struct {
	products map[int64]models.Product
	nextID   int64
	mu       sync.RWMutex
}

// NewMemoryProductRepository creates a new instance of MemoryProductRepository
// seeded with products. Seeded products keep their ids.
func NewMemoryProductRepository(products ...models.Product) *MemoryProductRepository {
	r := &MemoryProductRepository{products: make(map[int64]models.Product)}
	for _, p := range products {
		r.products[p.ID] = p
		if p.ID > r.nextID {
			r.nextID = p.ID
		}
	}
	return r
}

// GetAll returns all products ordered by id.
func (r *MemoryProductRepository) GetAll(_ context.Context) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

// GetByID returns a product by its ID.
func (r *MemoryProductRepository) GetByID(_ context.Context, id int64) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, notFound("GET", "product", id)
	}
	return &p, nil
}

// SearchLowStock returns products whose stock is at or below their minimum.
func (r *MemoryProductRepository) SearchLowStock(ctx context.Context) ([]models.ProductStockRecord, error) {
	all, _ := r.GetAll(ctx)
	var out []models.ProductStockRecord
	for _, p := range all {
		if p.Stock <= p.MinimumStock {
			out = append(out, models.ProductStockRecord{ID: p.ID, Name: p.Name, Stock: p.Stock, MinimumStock: p.MinimumStock})
		}
	}
	return out, nil
}

// Create adds a new product, resolving a pending image immediately.
func (r *MemoryProductRepository) Create(_ context.Context, product models.Product) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	product.ID = r.nextID
	product.QuantityDirect, product.QuantityViaService = 0, 0
	if upload, ok := product.Image.Pending(); ok {
		product.Image = models.NewImageURL(memoryImageURL(product.ID, upload.Filename))
	}
	r.products[product.ID] = product
	return &product, nil
}

// UpdateByID replaces an existing product.
func (r *MemoryProductRepository) UpdateByID(_ context.Context, id int64, product models.Product) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.products[id]
	if !ok {
		return nil, notFound("PUT", "product", id)
	}
	product.ID = id
	product.QuantityDirect, product.QuantityViaService = 0, 0
	if upload, ok := product.Image.Pending(); ok {
		product.Image = models.NewImageURL(memoryImageURL(id, upload.Filename))
	} else if product.Image.URL() == "" {
		product.Image = current.Image
	}
	r.products[id] = product
	return &product, nil
}

// UpdateStock sets or increments the stock of a product.
func (r *MemoryProductRepository) UpdateStock(_ context.Context, id int64, stock int, replace bool) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return nil, notFound("PUT", "product", id)
	}
	if replace {
		p.Stock = stock
	} else {
		p.Stock += stock
	}
	r.products[id] = p
	return &p, nil
}

// UploadImage records image as the product picture.
func (r *MemoryProductRepository) UploadImage(_ context.Context, id int64, image models.ImageUpload) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return "", notFound("PUT", "product", id)
	}
	url := memoryImageURL(id, image.Filename)
	p.Image = models.NewImageURL(url)
	r.products[id] = p
	return url, nil
}

// DeleteByID removes a product by its ID.
func (r *MemoryProductRepository) DeleteByID(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return notFound("DELETE", "product", id)
	}
	delete(r.products, id)
	return nil
}

func memoryImageURL(id int64, filename string) string {
	return fmt.Sprintf("memory://products/%d/%s", id, filename)
}

// notFound builds the same typed error the HTTP transport returns for 404s.
func notFound(method, resource string, id int64) error {
	return &httpapi.NotFoundError{TransportError: &httpapi.TransportError{
		Method:     method,
		Path:       join("/"+resource, id),
		StatusCode: 404,
		Detail:     fmt.Sprintf("%s %d not found", resource, id),
	}}
}
