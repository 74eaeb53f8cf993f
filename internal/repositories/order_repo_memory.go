package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"storefront/internal/models"
)

// Operation names accepted by MemoryOrderRepository.FailOn.
const (
	OpCreateOrder     = "Create"
	OpAddProductLine  = "AddProductLine"
	OpAddServiceLine  = "AddServiceLine"
	OpUpdateStatus    = "UpdateStatus"
	OpGenerateInvoice = "GenerateInvoice"
)

// MemoryOrderRepository is an in-memory implementation of OrderRepository.
// It records every line it receives and can be told to fail an operation,
// which makes partial checkouts observable.
type MemoryOrderRepository struct {
	orders       map[int64]models.OrderWithInvoice
	productLines []models.OrderProductLine
	serviceLines []models.OrderServiceLine
	failures     map[string]error
	nextID       int64
	now          func() time.Time
	mu           sync.RWMutex
}

// NewMemoryOrderRepository creates a new instance of MemoryOrderRepository.
func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{
		orders:   make(map[int64]models.OrderWithInvoice),
		failures: make(map[string]error),
		now:      time.Now,
	}
}

// FailOn makes every later call of op return err. A nil err clears it.
func (r *MemoryOrderRepository) FailOn(op string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err == nil {
		delete(r.failures, op)
		return
	}
	r.failures[op] = err
}

// GetAll returns all orders ordered by id.
func (r *MemoryOrderRepository) GetAll(_ context.Context) ([]models.OrderWithInvoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]models.OrderWithInvoice, 0, len(r.orders))
	for _, o := range r.orders {
		list = append(list, o)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

// GetByID returns an order by its ID.
func (r *MemoryOrderRepository) GetByID(_ context.Context, id int64) (*models.OrderWithInvoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, notFound("GET", "order", id)
	}
	return &o, nil
}

// Create adds a new pending order.
func (r *MemoryOrderRepository) Create(_ context.Context, draft models.OrderDraft) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.failures[OpCreateOrder]; err != nil {
		return nil, err
	}
	r.nextID++
	now := r.now()
	o := models.OrderWithInvoice{
		Order: models.Order{
			ID:         r.nextID,
			ClientID:   draft.ClientID,
			EmployeeID: draft.EmployeeID,
			Status:     models.OrderPending,
			TotalPrice: draft.TotalPrice,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.orders[o.ID] = o
	header := o.Order
	return &header, nil
}

// Update modifies the header of an existing order.
func (r *MemoryOrderRepository) Update(_ context.Context, order models.Order) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[order.ID]
	if !ok {
		return nil, notFound("PUT", "order", order.ID)
	}
	if order.Status == "" {
		order.Status = o.Status
	}
	o.Order = order
	o.UpdatedAt = r.now()
	r.orders[order.ID] = o
	return &order, nil
}

// DeleteByID removes an order and its lines.
func (r *MemoryOrderRepository) DeleteByID(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[id]; !ok {
		return notFound("DELETE", "order", id)
	}
	delete(r.orders, id)
	return nil
}

// AddProductLine records a product line.
func (r *MemoryOrderRepository) AddProductLine(_ context.Context, line models.OrderProductLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.failures[OpAddProductLine]; err != nil {
		return err
	}
	if _, ok := r.orders[line.OrderID]; !ok {
		return notFound("POST", "order", line.OrderID)
	}
	r.productLines = append(r.productLines, line)
	return nil
}

// AddServiceLine records a service line.
func (r *MemoryOrderRepository) AddServiceLine(_ context.Context, line models.OrderServiceLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.failures[OpAddServiceLine]; err != nil {
		return err
	}
	if _, ok := r.orders[line.OrderID]; !ok {
		return notFound("POST", "order", line.OrderID)
	}
	r.serviceLines = append(r.serviceLines, line)
	return nil
}

// UpdateStatus updates the status of an order.
func (r *MemoryOrderRepository) UpdateStatus(_ context.Context, id int64, status models.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.failures[OpUpdateStatus]; err != nil {
		return err
	}
	o, ok := r.orders[id]
	if !ok {
		return notFound("PUT", "order", id)
	}
	if !status.Valid() {
		return fmt.Errorf("invalid order status %q", status)
	}
	o.Status = status
	o.UpdatedAt = r.now()
	r.orders[id] = o
	return nil
}

// GenerateInvoice stores and returns a synthetic invoice link.
func (r *MemoryOrderRepository) GenerateInvoice(_ context.Context, orderID int64, _ float64) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.failures[OpGenerateInvoice]; err != nil {
		return "", err
	}
	o, ok := r.orders[orderID]
	if !ok {
		return "", notFound("POST", "order", orderID)
	}
	o.InvoiceLink = fmt.Sprintf("memory://invoices/%s", uuid.NewString())
	r.orders[orderID] = o
	return o.InvoiceLink, nil
}

// ProductLines returns the product lines recorded for an order, sorted by
// product id.
func (r *MemoryOrderRepository) ProductLines(orderID int64) []models.OrderProductLine {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.OrderProductLine
	for _, l := range r.productLines {
		if l.OrderID == orderID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

// ServiceLines returns the service lines recorded for an order, sorted by
// service id.
func (r *MemoryOrderRepository) ServiceLines(orderID int64) []models.OrderServiceLine {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.OrderServiceLine
	for _, l := range r.serviceLines {
		if l.OrderID == orderID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ServiceID < out[j].ServiceID })
	return out
}
