package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"storefront/internal/models"
)

// Orders retrieves all order headers ordered by id.
func (s *Store) Orders(ctx context.Context) ([]models.OrderRecord, error) {
	orders, err := list[models.OrderRecord](ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to get all orders: %w", err)
	}
	return orders, nil
}

// Order retrieves a single order header.
func (s *Store) Order(ctx context.Context, id int64) (*models.OrderRecord, error) {
	order, err := find[models.OrderRecord](ctx, s.db, id)
	if err != nil {
		return nil, fmt.Errorf("order %d: %w", id, err)
	}
	return order, nil
}

// CreateOrder inserts an order header. Orders without a status start pending.
func (s *Store) CreateOrder(ctx context.Context, order *models.OrderRecord) error {
	order.ID = 0
	order.InvoiceLink = ""
	if order.Status == "" {
		order.Status = string(models.OrderPending)
	}
	if err := s.db.WithContext(ctx).Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", translate(err))
	}
	return nil
}

// UpdateOrder applies the column updates in fields.
func (s *Store) UpdateOrder(ctx context.Context, id int64, fields map[string]any) (*models.OrderRecord, error) {
	order, err := update[models.OrderRecord](ctx, s.db, id, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to update order %d: %w", id, err)
	}
	return order, nil
}

// SetOrderStatus transitions an order.
func (s *Store) SetOrderStatus(ctx context.Context, id int64, status models.OrderStatus) (*models.OrderRecord, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown order status %q", ErrInvalid, status)
	}
	return s.UpdateOrder(ctx, id, map[string]any{"status": string(status)})
}

// SetInvoiceLink records the invoice reference of an order.
func (s *Store) SetInvoiceLink(ctx context.Context, id int64, link string) (*models.OrderRecord, error) {
	return s.UpdateOrder(ctx, id, map[string]any{"invoice_link": link})
}

// DeleteOrder deletes an order together with its lines.
func (s *Store) DeleteOrder(ctx context.Context, id int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderProductRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderServiceRecord{}).Error; err != nil {
			return err
		}
		return remove[models.OrderRecord](ctx, tx, id)
	})
	if err != nil {
		return fmt.Errorf("failed to delete order %d: %w", id, err)
	}
	return nil
}

// AddOrderProduct attaches a product line. The order and product must exist.
func (s *Store) AddOrderProduct(ctx context.Context, line *models.OrderProductRecord) error {
	if _, err := s.Order(ctx, line.OrderID); err != nil {
		return err
	}
	if _, err := s.Product(ctx, line.ProductID); err != nil {
		return err
	}
	line.ID = 0
	if err := s.db.WithContext(ctx).Create(line).Error; err != nil {
		return fmt.Errorf("failed to add product %d to order %d: %w", line.ProductID, line.OrderID, translate(err))
	}
	return nil
}

// AddOrderService attaches a service line. The order and service must exist.
func (s *Store) AddOrderService(ctx context.Context, line *models.OrderServiceRecord) error {
	if _, err := s.Order(ctx, line.OrderID); err != nil {
		return err
	}
	if _, err := s.Service(ctx, line.ServiceID); err != nil {
		return err
	}
	line.ID = 0
	if err := s.db.WithContext(ctx).Create(line).Error; err != nil {
		return fmt.Errorf("failed to add service %d to order %d: %w", line.ServiceID, line.OrderID, translate(err))
	}
	return nil
}

// OrderProducts lists the product lines of an order.
func (s *Store) OrderProducts(ctx context.Context, orderID int64) ([]models.OrderProductRecord, error) {
	lines, err := list[models.OrderProductRecord](ctx, s.db, "order_id = ?", orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product lines of order %d: %w", orderID, err)
	}
	return lines, nil
}

// OrderServices lists the service lines of an order.
func (s *Store) OrderServices(ctx context.Context, orderID int64) ([]models.OrderServiceRecord, error) {
	lines, err := list[models.OrderServiceRecord](ctx, s.db, "order_id = ?", orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get service lines of order %d: %w", orderID, err)
	}
	return lines, nil
}
