package models

import "time"

// OrderStatus is the lifecycle state of an order. Values match the backend.
type OrderStatus string

const (
	OrderPending   OrderStatus = "Pendiente"
	OrderCompleted OrderStatus = "Completada"
	OrderCancelled OrderStatus = "Cancelada"
)

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is expected.
func (s OrderStatus) Terminal() bool {
	return s == OrderCompleted || s == OrderCancelled
}

// Order represents a persisted order header.
type Order struct {
	ID         int64
	ClientID   int64
	EmployeeID int64
	Status     OrderStatus
	TotalPrice float64
}

// OrderWithInvoice is an order once invoicing has been attempted.
// InvoiceLink is empty until invoice generation succeeded.
type OrderWithInvoice struct {
	Order
	CreatedAt   time.Time
	UpdatedAt   time.Time
	InvoiceLink string
}

// OrderDraft carries the header fields the caller chooses for a new order.
type OrderDraft struct {
	ClientID   int64
	EmployeeID int64
	TotalPrice float64
}

// OrderProductLine links an order to a product with a quantity.
type OrderProductLine struct {
	OrderID   int64
	ProductID int64
	Quantity  int
}

// OrderServiceLine links an order to a service with a quantity.
type OrderServiceLine struct {
	OrderID   int64
	ServiceID int64
	Quantity  int
}
