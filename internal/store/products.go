package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"storefront/internal/models"
)

// Products retrieves all products ordered by id.
func (s *Store) Products(ctx context.Context) ([]models.ProductRecord, error) {
	products, err := list[models.ProductRecord](ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// LowStockProducts retrieves products whose stock is at or below their minimum.
func (s *Store) LowStockProducts(ctx context.Context) ([]models.ProductRecord, error) {
	products, err := list[models.ProductRecord](ctx, s.db, "stock <= minimum_stock")
	if err != nil {
		return nil, fmt.Errorf("failed to search low-stock products: %w", err)
	}
	return products, nil
}

// Product retrieves a single product by its ID.
func (s *Store) Product(ctx context.Context, id int64) (*models.ProductRecord, error) {
	product, err := find[models.ProductRecord](ctx, s.db, id)
	if err != nil {
		return nil, fmt.Errorf("product %d: %w", id, err)
	}
	return product, nil
}

// CreateProduct inserts product and fills its generated ID.
func (s *Store) CreateProduct(ctx context.Context, product *models.ProductRecord) error {
	product.ID = 0
	if err := s.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", translate(err))
	}
	return nil
}

// UpdateProduct applies the column updates in fields.
func (s *Store) UpdateProduct(ctx context.Context, id int64, fields map[string]any) (*models.ProductRecord, error) {
	product, err := update[models.ProductRecord](ctx, s.db, id, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to update product %d: %w", id, err)
	}
	return product, nil
}

// AdjustStock sets the stock to value, or adds value to it when replace is
// false. The resulting stock may not be negative.
func (s *Store) AdjustStock(ctx context.Context, id int64, value int, replace bool) (*models.ProductRecord, error) {
	var product models.ProductRecord
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&product, "id = ?", id).Error; err != nil {
			return translate(err)
		}
		stock := value
		if !replace {
			stock = product.Stock + value
		}
		if stock < 0 {
			return fmt.Errorf("%w: stock cannot become %d", ErrInvalid, stock)
		}
		product.Stock = stock
		return tx.Model(&product).Update("stock", stock).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to adjust stock of product %d: %w", id, err)
	}
	return &product, nil
}

// SetProductImage stores the public URL of the product picture.
func (s *Store) SetProductImage(ctx context.Context, id int64, url string) (*models.ProductRecord, error) {
	return s.UpdateProduct(ctx, id, map[string]any{"image_url": url})
}

// DeleteProduct deletes a product. Service associations that reference it
// are kept.
func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	if err := remove[models.ProductRecord](ctx, s.db, id); err != nil {
		return fmt.Errorf("failed to delete product %d: %w", id, err)
	}
	return nil
}
