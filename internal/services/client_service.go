package services

import (
	"context"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/validation"
)

// ClientService handles business logic related to clients.
type ClientService struct {
	repo      repositories.ClientRepository
	validator *validation.Validator
}

// NewClientService creates a new ClientService.
func NewClientService(repo repositories.ClientRepository, v *validation.Validator) *ClientService {
	if v == nil {
		v = validation.New()
	}
	return &ClientService{repo: repo, validator: v}
}

// GetAllClients retrieves all clients.
func (s *ClientService) GetAllClients(ctx context.Context) ([]models.Client, error) {
	return s.repo.GetAll(ctx)
}

// GetClientByID retrieves a single client.
func (s *ClientService) GetClientByID(ctx context.Context, id int64) (*models.Client, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateClient validates and creates a client.
func (s *ClientService) CreateClient(ctx context.Context, client models.Client) (*models.Client, error) {
	if err := s.validator.Client(client); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, client)
}

// UpdateClient validates and updates a client.
func (s *ClientService) UpdateClient(ctx context.Context, id int64, client models.Client) (*models.Client, error) {
	if err := s.validator.Client(client); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, client)
}

// DeleteClient deletes a client by its ID.
func (s *ClientService) DeleteClient(ctx context.Context, id int64) error {
	return s.repo.DeleteByID(ctx, id)
}
