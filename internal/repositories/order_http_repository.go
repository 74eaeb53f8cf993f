package repositories

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"storefront/internal/mappers"
	"storefront/internal/models"
	"storefront/pkg/httpapi"
)

// HTTPOrderRepository is the REST implementation of OrderRepository.
type HTTPOrderRepository struct {
	base
}

// NewHTTPOrderRepository creates an order repository over api.
func NewHTTPOrderRepository(api *httpapi.Client, opts ...Option) *HTTPOrderRepository {
	return &HTTPOrderRepository{base: newBase(api, opts)}
}

// GetAll retrieves every order.
func (r *HTTPOrderRepository) GetAll(ctx context.Context) ([]models.OrderWithInvoice, error) {
	var records []models.OrderRecord
	if err := r.api.Get(ctx, join(r.paths.Order, "all"), &records); err != nil {
		return nil, fmt.Errorf("failed to get all orders: %w", err)
	}
	out := make([]models.OrderWithInvoice, 0, len(records))
	for _, rec := range records {
		out = append(out, mappers.OrderWithInvoiceFromRecord(rec))
	}
	return out, nil
}

// GetByID retrieves a single order.
func (r *HTTPOrderRepository) GetByID(ctx context.Context, id int64) (*models.OrderWithInvoice, error) {
	var record models.OrderRecord
	if err := r.api.Get(ctx, join(r.paths.Order, id), &record); err != nil {
		return nil, fmt.Errorf("failed to get order %d: %w", id, err)
	}
	o := mappers.OrderWithInvoiceFromRecord(record)
	return &o, nil
}

// Create stores a new order header. New orders always start pending.
func (r *HTTPOrderRepository) Create(ctx context.Context, draft models.OrderDraft) (*models.Order, error) {
	var record models.OrderRecord
	if err := r.api.Post(ctx, join(r.paths.Order)+"/", mappers.OrderHeaderRecord(draft, models.OrderPending, r.now()), &record); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	o := mappers.OrderFromRecord(record)
	return &o, nil
}

// Update replaces the header fields of an order.
func (r *HTTPOrderRepository) Update(ctx context.Context, order models.Order) (*models.Order, error) {
	var record models.OrderRecord
	if err := r.api.Put(ctx, join(r.paths.Order, order.ID), mappers.OrderUpdateFields(order), &record); err != nil {
		return nil, fmt.Errorf("failed to update order %d: %w", order.ID, err)
	}
	o := mappers.OrderFromRecord(record)
	return &o, nil
}

// DeleteByID removes an order.
func (r *HTTPOrderRepository) DeleteByID(ctx context.Context, id int64) error {
	if err := r.api.Delete(ctx, join(r.paths.Order, id), nil); err != nil {
		return fmt.Errorf("failed to delete order %d: %w", id, err)
	}
	return nil
}

// AddProductLine associates a product with an order.
func (r *HTTPOrderRepository) AddProductLine(ctx context.Context, line models.OrderProductLine) error {
	if err := r.api.Post(ctx, join(r.paths.Order, "product")+"/", mappers.OrderProductLineRecord(line), nil); err != nil {
		return fmt.Errorf("failed to add product %d to order %d: %w", line.ProductID, line.OrderID, err)
	}
	return nil
}

// AddServiceLine associates a service with an order.
func (r *HTTPOrderRepository) AddServiceLine(ctx context.Context, line models.OrderServiceLine) error {
	if err := r.api.Post(ctx, join(r.paths.Order, "service")+"/", mappers.OrderServiceLineRecord(line), nil); err != nil {
		return fmt.Errorf("failed to add service %d to order %d: %w", line.ServiceID, line.OrderID, err)
	}
	return nil
}

// UpdateStatus transitions an order to status.
func (r *HTTPOrderRepository) UpdateStatus(ctx context.Context, id int64, status models.OrderStatus) error {
	if !status.Valid() {
		return fmt.Errorf("invalid order status %q", status)
	}
	if err := r.api.Put(ctx, join(r.paths.Order, "status", id, url.PathEscape(string(status))), nil, nil); err != nil {
		return fmt.Errorf("failed to update status of order %d: %w", id, err)
	}
	return nil
}

// GenerateInvoice requests the invoice of a completed order and returns the
// reference the backend answers with.
func (r *HTTPOrderRepository) GenerateInvoice(ctx context.Context, orderID int64, taxRate float64) (string, error) {
	var link string
	body := models.InvoiceRequest{OrderID: orderID, TaxRate: taxRate}
	if err := r.api.Post(ctx, r.paths.Invoice, body, &link); err != nil {
		return "", fmt.Errorf("failed to generate invoice for order %d: %w", orderID, err)
	}
	return strings.TrimSpace(link), nil
}
