package repositories

import (
	"context"
	"fmt"

	"storefront/internal/mappers"
	"storefront/internal/models"
	"storefront/pkg/httpapi"
)

// HTTPClientRepository is the REST implementation of ClientRepository.
type HTTPClientRepository struct {
	base
}

// NewHTTPClientRepository creates a client repository over api.
func NewHTTPClientRepository(api *httpapi.Client, opts ...Option) *HTTPClientRepository {
	return &HTTPClientRepository{base: newBase(api, opts)}
}

// GetAll retrieves every client.
func (r *HTTPClientRepository) GetAll(ctx context.Context) ([]models.Client, error) {
	var records []models.ClientRecord
	if err := r.api.Get(ctx, join(r.paths.Client, "all"), &records); err != nil {
		return nil, fmt.Errorf("failed to get all clients: %w", err)
	}
	return mappers.ClientsFromRecords(records), nil
}

// GetByID retrieves a single client.
func (r *HTTPClientRepository) GetByID(ctx context.Context, id int64) (*models.Client, error) {
	var record models.ClientRecord
	if err := r.api.Get(ctx, join(r.paths.Client, id), &record); err != nil {
		return nil, fmt.Errorf("failed to get client %d: %w", id, err)
	}
	c := mappers.ClientFromRecord(record)
	return &c, nil
}

// Create stores a new, active client.
func (r *HTTPClientRepository) Create(ctx context.Context, client models.Client) (*models.Client, error) {
	var record models.ClientRecord
	if err := r.api.Post(ctx, join(r.paths.Client)+"/", mappers.ClientToRecord(client, r.now()), &record); err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	c := mappers.ClientFromRecord(record)
	return &c, nil
}

// Update replaces the contact data of a client.
func (r *HTTPClientRepository) Update(ctx context.Context, id int64, client models.Client) (*models.Client, error) {
	var record models.ClientRecord
	if err := r.api.Put(ctx, join(r.paths.Client, id), mappers.ClientToRecord(client, r.now()), &record); err != nil {
		return nil, fmt.Errorf("failed to update client %d: %w", id, err)
	}
	c := mappers.ClientFromRecord(record)
	return &c, nil
}

// DeleteByID removes a client.
func (r *HTTPClientRepository) DeleteByID(ctx context.Context, id int64) error {
	if err := r.api.Delete(ctx, join(r.paths.Client, id), nil); err != nil {
		return fmt.Errorf("failed to delete client %d: %w", id, err)
	}
	return nil
}
