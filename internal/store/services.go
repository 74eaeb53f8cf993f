package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"storefront/internal/models"
)

// Services retrieves all service headers ordered by id.
func (s *Store) Services(ctx context.Context) ([]models.ServiceRecord, error) {
	services, err := list[models.ServiceRecord](ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to get all services: %w", err)
	}
	return services, nil
}

// Service retrieves a single service header.
func (s *Store) Service(ctx context.Context, id int64) (*models.ServiceRecord, error) {
	service, err := find[models.ServiceRecord](ctx, s.db, id)
	if err != nil {
		return nil, fmt.Errorf("service %d: %w", id, err)
	}
	return service, nil
}

// CreateService inserts a service header.
func (s *Store) CreateService(ctx context.Context, service *models.ServiceRecord) error {
	service.ID = 0
	if err := s.db.WithContext(ctx).Create(service).Error; err != nil {
		return fmt.Errorf("failed to create service: %w", translate(err))
	}
	return nil
}

// UpdateService applies the column updates in fields.
func (s *Store) UpdateService(ctx context.Context, id int64, fields map[string]any) (*models.ServiceRecord, error) {
	service, err := update[models.ServiceRecord](ctx, s.db, id, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to update service %d: %w", id, err)
	}
	return service, nil
}

// DeleteService deletes a service together with its product associations.
func (s *Store) DeleteService(ctx context.Context, id int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("service_id = ?", id).Delete(&models.ServiceInputRecord{}).Error; err != nil {
			return err
		}
		return remove[models.ServiceRecord](ctx, tx, id)
	})
	if err != nil {
		return fmt.Errorf("failed to delete service %d: %w", id, err)
	}
	return nil
}

// ServiceInputs lists the product associations of a service.
func (s *Store) ServiceInputs(ctx context.Context, serviceID int64) ([]models.ServiceInputRecord, error) {
	if _, err := s.Service(ctx, serviceID); err != nil {
		return nil, err
	}
	inputs, err := list[models.ServiceInputRecord](ctx, s.db, "service_id = ?", serviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get inputs of service %d: %w", serviceID, err)
	}
	return inputs, nil
}

// AddServiceInput associates a product with a service. Both must exist and
// the pair must not be associated yet.
func (s *Store) AddServiceInput(ctx context.Context, input *models.ServiceInputRecord) error {
	if _, err := s.Service(ctx, input.ServiceID); err != nil {
		return err
	}
	if _, err := s.Product(ctx, input.ProductID); err != nil {
		return err
	}
	input.ID = 0
	if err := s.db.WithContext(ctx).Create(input).Error; err != nil {
		return fmt.Errorf("failed to add product %d to service %d: %w", input.ProductID, input.ServiceID, translate(err))
	}
	return nil
}

// UpdateServiceInput changes the quantity of an association.
func (s *Store) UpdateServiceInput(ctx context.Context, serviceID, productID int64, quantity int) (*models.ServiceInputRecord, error) {
	if quantity < 0 {
		return nil, fmt.Errorf("%w: quantity cannot be negative", ErrInvalid)
	}
	var input models.ServiceInputRecord
	err := s.db.WithContext(ctx).
		Where("service_id = ? AND product_id = ?", serviceID, productID).
		First(&input).Error
	if err != nil {
		return nil, fmt.Errorf("input %d/%d: %w", serviceID, productID, translate(err))
	}
	if err := s.db.WithContext(ctx).Model(&input).Update("quantity", quantity).Error; err != nil {
		return nil, fmt.Errorf("failed to update input %d/%d: %w", serviceID, productID, err)
	}
	input.Quantity = quantity
	return &input, nil
}

// DeleteServiceInput removes an association.
func (s *Store) DeleteServiceInput(ctx context.Context, serviceID, productID int64) error {
	res := s.db.WithContext(ctx).
		Where("service_id = ? AND product_id = ?", serviceID, productID).
		Delete(&models.ServiceInputRecord{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete input %d/%d: %w", serviceID, productID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("input %d/%d: %w", serviceID, productID, ErrNotFound)
	}
	return nil
}
