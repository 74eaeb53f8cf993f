package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/validation"
)

// CatalogService handles business logic related to services and their
// component products.
type CatalogService struct {
	repo      repositories.ServiceRepository
	validator *validation.Validator
	logger    *zap.Logger
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(repo repositories.ServiceRepository, v *validation.Validator, logger *zap.Logger) *CatalogService {
	if v == nil {
		v = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{repo: repo, validator: v, logger: logger}
}

// GetAllServices retrieves every service header.
func (s *CatalogService) GetAllServices(ctx context.Context) ([]models.Service, error) {
	return s.repo.GetAll(ctx)
}

// GetServiceByID retrieves a service with its components.
func (s *CatalogService) GetServiceByID(ctx context.Context, id int64) (*models.Service, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateService validates the form, creates the service and associates its
// components. If the association step fails the created service is returned
// with the error so the composition can be retried.
func (s *CatalogService) CreateService(ctx context.Context, form validation.ServiceForm, components []models.Product) (*models.Service, error) {
	service, err := s.validator.ServiceForm(form)
	if err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, service)
	if err != nil {
		return nil, err
	}
	if len(components) == 0 {
		return created, nil
	}
	if _, err := s.repo.ReconcileProducts(ctx, created.ID, components); err != nil {
		return created, fmt.Errorf("service %d created without its full composition: %w", created.ID, err)
	}
	created.Products = append([]models.Product(nil), components...)
	return created, nil
}

// UpdateService validates the form, updates the header and reconciles the
// stored components with the desired ones.
func (s *CatalogService) UpdateService(ctx context.Context, id int64, form validation.ServiceForm, components []models.Product) (*models.Service, error) {
	service, err := s.validator.ServiceForm(form)
	if err != nil {
		return nil, err
	}
	updated, err := s.repo.Update(ctx, id, service)
	if err != nil {
		return nil, err
	}
	result, err := s.repo.ReconcileProducts(ctx, id, components)
	if err != nil {
		return updated, err
	}
	s.logger.Debug("service composition reconciled",
		zap.Int64("service_id", id),
		zap.Int64s("removed", result.Removed),
		zap.Int64s("added", result.Added),
		zap.Int64s("updated", result.Updated),
	)
	updated.Products = append([]models.Product(nil), components...)
	return updated, nil
}

// SetComponents reconciles the components of an existing service.
func (s *CatalogService) SetComponents(ctx context.Context, id int64, components []models.Product) (repositories.Reconciliation, error) {
	return s.repo.ReconcileProducts(ctx, id, components)
}

// DeleteService deletes a service by its ID.
func (s *CatalogService) DeleteService(ctx context.Context, id int64) error {
	return s.repo.DeleteByID(ctx, id)
}
