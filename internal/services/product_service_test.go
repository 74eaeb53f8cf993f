package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"
	"storefront/internal/validation"
	"storefront/pkg/httpapi"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func validProductForm() validation.ProductForm {
	return validation.ProductForm{
		Name:        "Cuaderno Argollado",
		Description: "Cuaderno universitario de 100 hojas.",
		Category:    "Cuadernos",
		Cost:        "5000",
		Price:       "8500",
		Stock:       "20",
		Image:       &models.ImageUpload{Filename: "c.png", Content: pngBytes},
	}
}

func TestProductService_GetAllProducts(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	expectedProducts := []models.Product{
		{ID: 1, Name: "Cuaderno", Price: 8500, Stock: 100},
		{ID: 2, Name: "Esfero", Price: 1200, Stock: 50},
	}
	mockRepo.On("GetAll", mock.Anything).Return(expectedProducts, nil).Once()

	products, err := service.GetAllProducts(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, expectedProducts, products)
	mockRepo.AssertExpectations(t)
}

func TestProductService_CreateProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(p models.Product) bool {
		_, pending := p.Image.Pending()
		return p.Name == "Cuaderno Argollado" && p.Price == 8500 && pending
	})).Return(&models.Product{ID: 7, Name: "Cuaderno Argollado"}, nil).Once()

	created, err := service.CreateProduct(context.Background(), validProductForm())
	require.NoError(t, err)
	assert.Equal(t, int64(7), created.ID)
	mockRepo.AssertExpectations(t)
}

func TestProductService_CreateProductRejectsInvalidForm(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	form := validProductForm()
	form.Price = "-1"
	_, err := service.CreateProduct(context.Background(), form)

	assert.True(t, validation.IsValidationError(err))
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProductService_CreateProductSurfacesImageFailure(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	created := models.Product{ID: 7, Name: "Cuaderno Argollado"}
	mockRepo.On("Create", mock.Anything, mock.Anything).
		Return(&created, &repositories.ImageUploadError{Product: created, Err: errors.New("disk full")}).Once()
	mockRepo.On("UploadImage", mock.Anything, int64(7), mock.Anything).Return("http://cdn.local/7.png", nil).Once()

	p, err := service.CreateProduct(context.Background(), validProductForm())
	require.True(t, repositories.IsImageUploadError(err))
	require.NotNil(t, p)

	url, err := service.RetryImageUpload(context.Background(), p.ID, models.ImageUpload{Filename: "c.png", Content: pngBytes})
	require.NoError(t, err)
	assert.Equal(t, "http://cdn.local/7.png", url)
	mockRepo.AssertExpectations(t)
}

func TestProductService_UpdateProductImageOptional(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	form := validProductForm()
	form.Image = nil
	mockRepo.On("UpdateByID", mock.Anything, int64(3), mock.AnythingOfType("models.Product")).Return(&models.Product{ID: 3}, nil).Once()

	_, err := service.UpdateProduct(context.Background(), 3, form)
	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestProductService_AdjustStock(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	_, err := service.AdjustStock(context.Background(), 1, -5, true)
	assert.True(t, validation.IsValidationError(err))

	mockRepo.On("UpdateStock", mock.Anything, int64(1), -5, false).Return(&models.Product{ID: 1, Stock: 15}, nil).Once()
	p, err := service.AdjustStock(context.Background(), 1, -5, false)
	require.NoError(t, err)
	assert.Equal(t, 15, p.Stock)
	mockRepo.AssertExpectations(t)
}

func TestProductService_DeleteProduct(t *testing.T) {
	repo := repositories.NewMemoryProductRepository(models.Product{ID: 1, Name: "Cuaderno"})
	service := services.NewProductService(repo, nil)
	ctx := context.Background()

	require.NoError(t, service.DeleteProduct(ctx, 1))

	err := service.DeleteProduct(ctx, 1)
	require.Error(t, err)
	assert.True(t, httpapi.IsNotFound(err), "a missing product is reported as not found")
}

func TestProductService_LowStockProducts(t *testing.T) {
	repo := repositories.NewMemoryProductRepository(
		models.Product{ID: 1, Name: "Cuaderno", Stock: 2, MinimumStock: 5},
		models.Product{ID: 2, Name: "Esfero", Stock: 50, MinimumStock: 5},
	)
	service := services.NewProductService(repo, nil)

	low, err := service.LowStockProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, int64(1), low[0].ID)
}
