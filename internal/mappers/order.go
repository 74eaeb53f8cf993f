package mappers

import (
	"time"

	"storefront/internal/models"
)

// OrderFromRecord maps a backend order header.
func OrderFromRecord(r models.OrderRecord) models.Order {
	return models.Order{
		ID:         r.ID,
		ClientID:   r.ClientID,
		EmployeeID: r.EmployeeID,
		Status:     models.OrderStatus(r.Status),
		TotalPrice: r.TotalPrice,
	}
}

// OrderWithInvoiceFromRecord maps a backend order including timestamps.
func OrderWithInvoiceFromRecord(r models.OrderRecord) models.OrderWithInvoice {
	return models.OrderWithInvoice{
		Order:       OrderFromRecord(r),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		InvoiceLink: r.InvoiceLink,
	}
}

// OrderHeaderRecord builds the header creation payload.
func OrderHeaderRecord(d models.OrderDraft, status models.OrderStatus, now time.Time) models.OrderRecord {
	ts := now.UTC().Truncate(time.Second)
	return models.OrderRecord{
		ClientID:   d.ClientID,
		EmployeeID: d.EmployeeID,
		Status:     string(status),
		TotalPrice: d.TotalPrice,
		CreatedAt:  ts,
		UpdatedAt:  ts,
	}
}

// OrderUpdateFields is the partial payload for order header updates.
func OrderUpdateFields(o models.Order) map[string]any {
	fields := map[string]any{
		"client_id":   o.ClientID,
		"employee_id": o.EmployeeID,
		"total_price": o.TotalPrice,
	}
	if o.Status != "" {
		fields["status"] = string(o.Status)
	}
	return fields
}

// OrderProductLineRecord maps a product line to its wire shape.
func OrderProductLineRecord(l models.OrderProductLine) models.OrderProductRecord {
	return models.OrderProductRecord{OrderID: l.OrderID, ProductID: l.ProductID, Quantity: l.Quantity}
}

// OrderServiceLineRecord maps a service line to its wire shape.
func OrderServiceLineRecord(l models.OrderServiceLine) models.OrderServiceRecord {
	return models.OrderServiceRecord{OrderID: l.OrderID, ServiceID: l.ServiceID, Quantity: l.Quantity}
}
