package services_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

// MockOrderRepository is a mock implementation of repositories.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) GetAll(ctx context.Context) ([]models.OrderWithInvoice, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.OrderWithInvoice), args.Error(1)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id int64) (*models.OrderWithInvoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OrderWithInvoice), args.Error(1)
}

func (m *MockOrderRepository) Create(ctx context.Context, draft models.OrderDraft) (*models.Order, error) {
	args := m.Called(ctx, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) Update(ctx context.Context, order models.Order) (*models.Order, error) {
	args := m.Called(ctx, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) DeleteByID(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockOrderRepository) AddProductLine(ctx context.Context, line models.OrderProductLine) error {
	return m.Called(ctx, line).Error(0)
}

func (m *MockOrderRepository) AddServiceLine(ctx context.Context, line models.OrderServiceLine) error {
	return m.Called(ctx, line).Error(0)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id int64, status models.OrderStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockOrderRepository) GenerateInvoice(ctx context.Context, orderID int64, taxRate float64) (string, error) {
	args := m.Called(ctx, orderID, taxRate)
	return args.String(0), args.Error(1)
}

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) SearchLowStock(ctx context.Context) ([]models.ProductStockRecord, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.ProductStockRecord), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, product models.Product) (*models.Product, error) {
	args := m.Called(ctx, product)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) UpdateByID(ctx context.Context, id int64, product models.Product) (*models.Product, error) {
	args := m.Called(ctx, id, product)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) UpdateStock(ctx context.Context, id int64, stock int, replace bool) (*models.Product, error) {
	args := m.Called(ctx, id, stock, replace)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) UploadImage(ctx context.Context, id int64, image models.ImageUpload) (string, error) {
	args := m.Called(ctx, id, image)
	return args.String(0), args.Error(1)
}

func (m *MockProductRepository) DeleteByID(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// MockServiceRepository is a mock implementation of repositories.ServiceRepository
type MockServiceRepository struct {
	mock.Mock
}

func (m *MockServiceRepository) GetAll(ctx context.Context) ([]models.Service, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Service), args.Error(1)
}

func (m *MockServiceRepository) GetByID(ctx context.Context, id int64) (*models.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Service), args.Error(1)
}

func (m *MockServiceRepository) Create(ctx context.Context, service models.Service) (*models.Service, error) {
	args := m.Called(ctx, service)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Service), args.Error(1)
}

func (m *MockServiceRepository) Update(ctx context.Context, id int64, service models.Service) (*models.Service, error) {
	args := m.Called(ctx, id, service)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Service), args.Error(1)
}

func (m *MockServiceRepository) DeleteByID(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockServiceRepository) Inputs(ctx context.Context, serviceID int64) ([]models.ServiceInput, error) {
	args := m.Called(ctx, serviceID)
	return args.Get(0).([]models.ServiceInput), args.Error(1)
}

func (m *MockServiceRepository) ReconcileProducts(ctx context.Context, serviceID int64, desired []models.Product) (repositories.Reconciliation, error) {
	args := m.Called(ctx, serviceID, desired)
	return args.Get(0).(repositories.Reconciliation), args.Error(1)
}

// MockClientRepository is a mock implementation of repositories.ClientRepository
type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) GetAll(ctx context.Context) ([]models.Client, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Client), args.Error(1)
}

func (m *MockClientRepository) GetByID(ctx context.Context, id int64) (*models.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Client), args.Error(1)
}

func (m *MockClientRepository) Create(ctx context.Context, client models.Client) (*models.Client, error) {
	args := m.Called(ctx, client)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Client), args.Error(1)
}

func (m *MockClientRepository) Update(ctx context.Context, id int64, client models.Client) (*models.Client, error) {
	args := m.Called(ctx, id, client)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Client), args.Error(1)
}

func (m *MockClientRepository) DeleteByID(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// MockEventPublisher is a mock implementation of services.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishJSON(ctx context.Context, routingKey string, v any) error {
	return m.Called(ctx, routingKey, v).Error(0)
}
