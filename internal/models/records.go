package models

import "time"

// The records below are the backend's wire shapes (snake_case JSON). The dev
// backend also persists them with GORM.

// ProductRecord is a product as stored by the backend.
type ProductRecord struct {
	ID               int64     `json:"id,omitempty" gorm:"primaryKey;autoIncrement"`
	Name             string    `json:"name" gorm:"size:200;index" validate:"required,max=200"`
	ShortDescription string    `json:"short_description" gorm:"size:500"`
	Description      string    `json:"description" gorm:"type:text"`
	Category         string    `json:"category" gorm:"size:100"`
	Type             string    `json:"type" gorm:"size:100"`
	Cost             float64   `json:"cost" validate:"gte=0"`
	Price            float64   `json:"price" validate:"gte=0"`
	Stock            int       `json:"stock" validate:"gte=0"`
	MinimumStock     int       `json:"minimum_stock" validate:"gte=0"`
	ImageURL         string    `json:"image_url" gorm:"size:1024"`
	ExpirationDate   string    `json:"expiration_date,omitempty" gorm:"size:40"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (ProductRecord) TableName() string { return "products" }

// ServiceRecord is a service as stored by the backend.
type ServiceRecord struct {
	ID               int64     `json:"id,omitempty" gorm:"primaryKey;autoIncrement"`
	Name             string    `json:"name" gorm:"size:200;index" validate:"required,max=200"`
	ShortDescription string    `json:"short_description" gorm:"size:500"`
	Description      string    `json:"description" gorm:"type:text"`
	Price            float64   `json:"price" validate:"gte=0"`
	Cost             float64   `json:"cost" validate:"gte=0"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (ServiceRecord) TableName() string { return "services" }

// ServiceInputRecord associates a component product with a service.
type ServiceInputRecord struct {
	ID        int64 `json:"id,omitempty" gorm:"primaryKey;autoIncrement"`
	ServiceID int64 `json:"service_id" gorm:"uniqueIndex:idx_service_product" validate:"required"`
	ProductID int64 `json:"product_id" gorm:"uniqueIndex:idx_service_product" validate:"required"`
	Quantity  int   `json:"quantity" validate:"gte=0"`
}

func (ServiceInputRecord) TableName() string { return "service_inputs" }

// ClientRecord is a customer as stored by the backend.
type ClientRecord struct {
	ID         int64     `json:"id,omitempty" gorm:"primaryKey;autoIncrement"`
	DocumentID string    `json:"documentid" gorm:"size:20;uniqueIndex" validate:"required,numeric,min=5,max=20"`
	Name       string    `json:"name" gorm:"size:200" validate:"required,max=200"`
	Email      string    `json:"email" gorm:"size:255" validate:"omitempty,email"`
	Phone      string    `json:"phone" gorm:"size:20"`
	State      bool      `json:"state"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (ClientRecord) TableName() string { return "clients" }

// OrderRecord is an order header as stored by the backend.
type OrderRecord struct {
	ID          int64     `json:"id,omitempty" gorm:"primaryKey;autoIncrement"`
	ClientID    int64     `json:"client_id" gorm:"index"`
	EmployeeID  int64     `json:"employee_id"`
	Status      string    `json:"status" gorm:"size:20;index" validate:"omitempty,oneof=Pendiente Completada Cancelada"`
	TotalPrice  float64   `json:"total_price" validate:"gte=0"`
	InvoiceLink string    `json:"invoice_link,omitempty" gorm:"size:1024"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (OrderRecord) TableName() string { return "orders" }

// OrderProductRecord is an order↔product line.
type OrderProductRecord struct {
	ID        int64 `json:"id,omitempty" gorm:"primaryKey;autoIncrement"`
	OrderID   int64 `json:"order_id" gorm:"index" validate:"required"`
	ProductID int64 `json:"product_id" validate:"required"`
	Quantity  int   `json:"quantity" validate:"gt=0"`
}

func (OrderProductRecord) TableName() string { return "order_products" }

// OrderServiceRecord is an order↔service line.
type OrderServiceRecord struct {
	ID        int64 `json:"id,omitempty" gorm:"primaryKey;autoIncrement"`
	OrderID   int64 `json:"order_id" gorm:"index" validate:"required"`
	ServiceID int64 `json:"service_id" validate:"required"`
	Quantity  int   `json:"quantity" validate:"gt=0"`
}

func (OrderServiceRecord) TableName() string { return "order_services" }

// InvoiceRequest is the body of an invoice generation call.
type InvoiceRequest struct {
	OrderID int64   `json:"order_id" validate:"required"`
	TaxRate float64 `json:"tax_rate" validate:"gte=0,lte=1"`
}
