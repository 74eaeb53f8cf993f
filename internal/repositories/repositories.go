// Package repositories talks to the storefront backend. Every call returns
// domain models from internal/models; wire shapes stay behind the mappers.
package repositories

import (
	"context"

	"storefront/internal/models"
)

// ProductRepository defines product data access.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	SearchLowStock(ctx context.Context) ([]models.ProductStockRecord, error)
	Create(ctx context.Context, product models.Product) (*models.Product, error)
	UpdateByID(ctx context.Context, id int64, product models.Product) (*models.Product, error)
	UpdateStock(ctx context.Context, id int64, stock int, replace bool) (*models.Product, error)
	UploadImage(ctx context.Context, id int64, image models.ImageUpload) (string, error)
	DeleteByID(ctx context.Context, id int64) error
}

// ServiceRepository defines service data access, including the service to
// product associations.
type ServiceRepository interface {
	GetAll(ctx context.Context) ([]models.Service, error)
	GetByID(ctx context.Context, id int64) (*models.Service, error)
	Create(ctx context.Context, service models.Service) (*models.Service, error)
	Update(ctx context.Context, id int64, service models.Service) (*models.Service, error)
	DeleteByID(ctx context.Context, id int64) error
	Inputs(ctx context.Context, serviceID int64) ([]models.ServiceInput, error)
	ReconcileProducts(ctx context.Context, serviceID int64, desired []models.Product) (Reconciliation, error)
}

// ClientRepository defines client data access.
type ClientRepository interface {
	GetAll(ctx context.Context) ([]models.Client, error)
	GetByID(ctx context.Context, id int64) (*models.Client, error)
	Create(ctx context.Context, client models.Client) (*models.Client, error)
	Update(ctx context.Context, id int64, client models.Client) (*models.Client, error)
	DeleteByID(ctx context.Context, id int64) error
}

// OrderRepository defines order data access and the line/status/invoice
// primitives the checkout flow is composed from.
type OrderRepository interface {
	GetAll(ctx context.Context) ([]models.OrderWithInvoice, error)
	GetByID(ctx context.Context, id int64) (*models.OrderWithInvoice, error)
	Create(ctx context.Context, draft models.OrderDraft) (*models.Order, error)
	Update(ctx context.Context, order models.Order) (*models.Order, error)
	DeleteByID(ctx context.Context, id int64) error
	AddProductLine(ctx context.Context, line models.OrderProductLine) error
	AddServiceLine(ctx context.Context, line models.OrderServiceLine) error
	UpdateStatus(ctx context.Context, id int64, status models.OrderStatus) error
	GenerateInvoice(ctx context.Context, orderID int64, taxRate float64) (string, error)
}
