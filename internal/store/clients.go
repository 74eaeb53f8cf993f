package store

import (
	"context"
	"fmt"

	"storefront/internal/models"
)

// Clients retrieves all clients ordered by id.
func (s *Store) Clients(ctx context.Context) ([]models.ClientRecord, error) {
	clients, err := list[models.ClientRecord](ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to get all clients: %w", err)
	}
	return clients, nil
}

// Client retrieves a single client.
func (s *Store) Client(ctx context.Context, id int64) (*models.ClientRecord, error) {
	client, err := find[models.ClientRecord](ctx, s.db, id)
	if err != nil {
		return nil, fmt.Errorf("client %d: %w", id, err)
	}
	return client, nil
}

// CreateClient inserts a client. Document ids are unique.
func (s *Store) CreateClient(ctx context.Context, client *models.ClientRecord) error {
	client.ID = 0
	if err := s.db.WithContext(ctx).Create(client).Error; err != nil {
		return fmt.Errorf("failed to create client: %w", translate(err))
	}
	return nil
}

// UpdateClient applies the column updates in fields.
func (s *Store) UpdateClient(ctx context.Context, id int64, fields map[string]any) (*models.ClientRecord, error) {
	client, err := update[models.ClientRecord](ctx, s.db, id, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to update client %d: %w", id, err)
	}
	return client, nil
}

// DeleteClient deletes a client.
func (s *Store) DeleteClient(ctx context.Context, id int64) error {
	if err := remove[models.ClientRecord](ctx, s.db, id); err != nil {
		return fmt.Errorf("failed to delete client %d: %w", id, err)
	}
	return nil
}
