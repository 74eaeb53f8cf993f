package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"
	"storefront/internal/validation"
)

func TestCatalogService_CreateServiceWithComponents(t *testing.T) {
	mockRepo := new(MockServiceRepository)
	service := services.NewCatalogService(mockRepo, nil, zaptest.NewLogger(t))

	components := []models.Product{{ID: 1, QuantityViaService: 2}, {ID: 4, QuantityViaService: 1}}
	mockRepo.On("Create", mock.Anything, models.Service{Name: "Encuadernación", Price: 12000, Products: []models.Product{}}).
		Return(&models.Service{ID: 6, Name: "Encuadernación", Price: 12000}, nil).Once()
	mockRepo.On("ReconcileProducts", mock.Anything, int64(6), components).
		Return(repositories.Reconciliation{Added: []int64{1, 4}}, nil).Once()

	created, err := service.CreateService(context.Background(), validation.ServiceForm{Name: "Encuadernación", Price: "12000"}, components)
	require.NoError(t, err)
	assert.Equal(t, int64(6), created.ID)
	assert.Equal(t, components, created.Products)
	mockRepo.AssertExpectations(t)
}

func TestCatalogService_CreateServiceReturnsPartialOnCompositionFailure(t *testing.T) {
	mockRepo := new(MockServiceRepository)
	service := services.NewCatalogService(mockRepo, nil, nil)

	mockRepo.On("Create", mock.Anything, mock.Anything).Return(&models.Service{ID: 6}, nil).Once()
	mockRepo.On("ReconcileProducts", mock.Anything, int64(6), mock.Anything).
		Return(repositories.Reconciliation{}, errors.New("add product 4: rejected")).Once()

	created, err := service.CreateService(context.Background(), validation.ServiceForm{Name: "Empaque", Price: "10"}, []models.Product{{ID: 4}})
	require.Error(t, err)
	require.NotNil(t, created)
	assert.Equal(t, int64(6), created.ID)
}

func TestCatalogService_UpdateServiceReconciles(t *testing.T) {
	mockRepo := new(MockServiceRepository)
	service := services.NewCatalogService(mockRepo, nil, zaptest.NewLogger(t))

	components := []models.Product{{ID: 2, QuantityViaService: 1}}
	mockRepo.On("Update", mock.Anything, int64(3), mock.AnythingOfType("models.Service")).Return(&models.Service{ID: 3, Name: "Empaque"}, nil).Once()
	mockRepo.On("ReconcileProducts", mock.Anything, int64(3), components).
		Return(repositories.Reconciliation{Removed: []int64{1}, Added: []int64{2}}, nil).Once()

	updated, err := service.UpdateService(context.Background(), 3, validation.ServiceForm{Name: "Empaque", Price: "10.50"}, components)
	require.NoError(t, err)
	assert.Equal(t, components, updated.Products)
	mockRepo.AssertExpectations(t)
}

func TestCatalogService_RejectsInvalidForm(t *testing.T) {
	mockRepo := new(MockServiceRepository)
	service := services.NewCatalogService(mockRepo, nil, nil)

	_, err := service.CreateService(context.Background(), validation.ServiceForm{Name: "X1", Price: "abc"}, nil)
	assert.True(t, validation.IsValidationError(err))
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
