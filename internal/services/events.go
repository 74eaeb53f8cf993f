package services

import (
	"context"
	"time"
)

// Routing keys of order events.
const (
	EventOrderInvoiced = "order.invoiced"
	EventOrderStatus   = "order.status_changed"
)

// EventPublisher publishes order events. The RabbitMQ client satisfies it.
type EventPublisher interface {
	PublishJSON(ctx context.Context, routingKey string, v any) error
}

// OrderEvent is the payload of order events.
type OrderEvent struct {
	Type        string    `json:"type"`
	OrderID     int64     `json:"order_id"`
	ClientID    int64     `json:"client_id"`
	EmployeeID  int64     `json:"employee_id"`
	Status      string    `json:"status"`
	TotalPrice  float64   `json:"total_price"`
	InvoiceLink string    `json:"invoice_link,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}
