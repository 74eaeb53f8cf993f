package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"storefront/internal/mappers"
	"storefront/internal/models"
	"storefront/pkg/httpapi"
)

// HTTPServiceRepository is the REST implementation of ServiceRepository.
type HTTPServiceRepository struct {
	base
	products ProductRepository
}

// NewHTTPServiceRepository creates a service repository over api. products
// resolves the component products of a service.
func NewHTTPServiceRepository(api *httpapi.Client, products ProductRepository, opts ...Option) *HTTPServiceRepository {
	return &HTTPServiceRepository{base: newBase(api, opts), products: products}
}

// GetAll retrieves every service header. Components are not loaded.
func (r *HTTPServiceRepository) GetAll(ctx context.Context) ([]models.Service, error) {
	var records []models.ServiceRecord
	if err := r.api.Get(ctx, join(r.paths.Service, "all"), &records); err != nil {
		return nil, fmt.Errorf("failed to get all services: %w", err)
	}
	return mappers.ServicesFromRecords(records), nil
}

// GetByID retrieves a service together with its component products, each
// carrying the association quantity as QuantityViaService.
func (r *HTTPServiceRepository) GetByID(ctx context.Context, id int64) (*models.Service, error) {
	var record models.ServiceRecord
	if err := r.api.Get(ctx, join(r.paths.Service, id), &record); err != nil {
		return nil, fmt.Errorf("failed to get service %d: %w", id, err)
	}
	service := mappers.ServiceFromRecord(record)

	inputs, err := r.Inputs(ctx, id)
	if err != nil {
		return nil, err
	}
	components, err := r.loadComponents(ctx, inputs)
	if err != nil {
		return nil, fmt.Errorf("failed to load components of service %d: %w", id, err)
	}
	service.Products = components
	return &service, nil
}

func (r *HTTPServiceRepository) loadComponents(ctx context.Context, inputs []models.ServiceInput) ([]models.Product, error) {
	found := make([]*models.Product, len(inputs))
	p := pool.New().WithMaxGoroutines(r.concurrency).WithErrors()
	for i, in := range inputs {
		i, in := i, in
		p.Go(func() error {
			product, err := r.products.GetByID(ctx, in.ProductID)
			if httpapi.IsNotFound(err) {
				r.logger.Warn("service component no longer exists",
					zap.Int64("service_id", in.ServiceID),
					zap.Int64("product_id", in.ProductID),
				)
				return nil
			}
			if err != nil {
				return err
			}
			component := mappers.ComponentFromInput(*product, in)
			found[i] = &component
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	components := make([]models.Product, 0, len(inputs))
	for _, c := range found {
		if c != nil {
			components = append(components, *c)
		}
	}
	return components, nil
}

// Create stores a new service header.
func (r *HTTPServiceRepository) Create(ctx context.Context, service models.Service) (*models.Service, error) {
	var record models.ServiceRecord
	if err := r.api.Post(ctx, join(r.paths.Service)+"/", mappers.ServiceToRecord(service, r.now()), &record); err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}
	created := mappers.ServiceFromRecord(record)
	return &created, nil
}

// Update replaces the name and price of a service.
func (r *HTTPServiceRepository) Update(ctx context.Context, id int64, service models.Service) (*models.Service, error) {
	var record models.ServiceRecord
	if err := r.api.Put(ctx, join(r.paths.Service, id), mappers.ServiceToRecord(service, r.now()), &record); err != nil {
		return nil, fmt.Errorf("failed to update service %d: %w", id, err)
	}
	updated := mappers.ServiceFromRecord(record)
	return &updated, nil
}

// DeleteByID removes a service.
func (r *HTTPServiceRepository) DeleteByID(ctx context.Context, id int64) error {
	if err := r.api.Delete(ctx, join(r.paths.Service, id), nil); err != nil {
		return fmt.Errorf("failed to delete service %d: %w", id, err)
	}
	return nil
}

// Inputs lists the persisted product associations of a service.
func (r *HTTPServiceRepository) Inputs(ctx context.Context, serviceID int64) ([]models.ServiceInput, error) {
	var records []models.ServiceInputRecord
	if err := r.api.Get(ctx, join(r.paths.Service, "input_service", "service", serviceID), &records); err != nil {
		return nil, fmt.Errorf("failed to get inputs of service %d: %w", serviceID, err)
	}
	out := make([]models.ServiceInput, 0, len(records))
	for _, rec := range records {
		out = append(out, mappers.ServiceInputFromRecord(rec))
	}
	return out, nil
}

// ReconcileProducts migrates the stored associations of a service to the
// desired component set. All removals are issued and awaited before any
// addition. A removal answered with 404 is already satisfied. Failed
// removals do not stop the additions; they are reported together with any
// addition failure once every call was attempted.
func (r *HTTPServiceRepository) ReconcileProducts(ctx context.Context, serviceID int64, desired []models.Product) (Reconciliation, error) {
	inputs, err := r.Inputs(ctx, serviceID)
	if err != nil {
		return Reconciliation{}, err
	}

	current := make(map[int64]int, len(inputs))
	oldIDs := make([]int64, 0, len(inputs))
	for _, in := range inputs {
		current[in.ProductID] = in.Quantity
		oldIDs = append(oldIDs, in.ProductID)
	}
	wanted := make(map[int64]int, len(desired))
	newIDs := make([]int64, 0, len(desired))
	for _, p := range desired {
		if _, dup := wanted[p.ID]; !dup {
			newIDs = append(newIDs, p.ID)
		}
		wanted[p.ID] = p.QuantityViaService
	}

	toRemove, toAdd := DiffMembership(oldIDs, newIDs)
	var toUpdate []int64
	for _, id := range newIDs {
		if q, ok := current[id]; ok && q != wanted[id] {
			toUpdate = append(toUpdate, id)
		}
	}
	result := Reconciliation{Removed: toRemove, Added: toAdd, Updated: toUpdate}

	removals := pool.New().WithMaxGoroutines(r.concurrency).WithErrors()
	for _, productID := range toRemove {
		productID := productID
		removals.Go(func() error {
			return r.removeInput(ctx, serviceID, productID)
		})
	}
	removeErr := removals.Wait()

	additions := pool.New().WithMaxGoroutines(r.concurrency).WithErrors()
	for _, productID := range toAdd {
		productID := productID
		additions.Go(func() error {
			return r.addInput(ctx, serviceID, productID, wanted[productID])
		})
	}
	for _, productID := range toUpdate {
		productID := productID
		additions.Go(func() error {
			return r.updateInput(ctx, serviceID, productID, wanted[productID])
		})
	}
	addErr := additions.Wait()

	if err := errors.Join(addErr, removeErr); err != nil {
		r.logger.Warn("service composition partially applied",
			zap.Int64("service_id", serviceID),
			zap.Error(err),
		)
		return result, fmt.Errorf("failed to reconcile products of service %d: %w", serviceID, err)
	}
	return result, nil
}

func (r *HTTPServiceRepository) removeInput(ctx context.Context, serviceID, productID int64) error {
	err := r.api.Delete(ctx, join(r.paths.Service, "input_service", serviceID, productID), nil)
	if httpapi.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("remove product %d: %w", productID, err)
	}
	return nil
}

func (r *HTTPServiceRepository) addInput(ctx context.Context, serviceID, productID int64, quantity int) error {
	body := models.ServiceInputRecord{ServiceID: serviceID, ProductID: productID, Quantity: quantity}
	if err := r.api.Post(ctx, join(r.paths.Service, "input_service")+"/", body, nil); err != nil {
		return fmt.Errorf("add product %d: %w", productID, err)
	}
	return nil
}

func (r *HTTPServiceRepository) updateInput(ctx context.Context, serviceID, productID int64, quantity int) error {
	body := map[string]any{"quantity": quantity}
	if err := r.api.Put(ctx, join(r.paths.Service, "input_service", serviceID, productID), body, nil); err != nil {
		return fmt.Errorf("update product %d: %w", productID, err)
	}
	return nil
}
