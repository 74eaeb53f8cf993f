// Package cart holds the checkout selection: standalone products, services
// with their component quantities, and the selected client.
package cart

import (
	"errors"
	"slices"
	"strconv"
	"sync"

	"storefront/internal/models"
)

var (
	// ErrProductNotInCart is returned when mutating a product the cart lacks.
	ErrProductNotInCart = errors.New("cart: product not in cart")
	// ErrServiceNotInCart is returned when mutating a service the cart lacks.
	ErrServiceNotInCart = errors.New("cart: service not in cart")
	// ErrNegativeQuantity is returned for quantities below zero.
	ErrNegativeQuantity = errors.New("cart: quantity must not be negative")
)

// Snapshot is an immutable copy of the cart contents.
type Snapshot struct {
	Products []models.Product
	Services []models.Service
	Client   *models.Client
}

// Total returns the snapshot total formatted with two decimals.
func (s Snapshot) Total() string {
	return FormatAmount(TotalAmount(s.Products, s.Services))
}

// Cart is the mutable selection owned by the UI layer. Mutations are expected
// from a single writer between checkouts; the lock only guards misuse.
type Cart struct {
	mu        sync.RWMutex
	products  []models.Product
	services  []models.Service
	client    *models.Client
	listeners []func(Snapshot)
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// OnChange registers fn to receive a snapshot after every mutation.
func (c *Cart) OnChange(fn func(Snapshot)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// AddProduct adds p or, when already present, increases its direct and
// via-service quantities.
func (c *Cart) AddProduct(p models.Product) error {
	if p.QuantityDirect < 0 || p.QuantityViaService < 0 {
		return ErrNegativeQuantity
	}
	c.mutate(func() {
		for i := range c.products {
			if c.products[i].ID == p.ID {
				c.products[i].QuantityDirect += p.QuantityDirect
				c.products[i].QuantityViaService += p.QuantityViaService
				return
			}
		}
		c.products = append(c.products, p)
	})
	return nil
}

// SetProductQuantity replaces the direct quantity of a product in the cart.
func (c *Cart) SetProductQuantity(productID int64, quantity int) error {
	if quantity < 0 {
		return ErrNegativeQuantity
	}
	var err error
	c.mutate(func() {
		for i := range c.products {
			if c.products[i].ID == productID {
				c.products[i].QuantityDirect = quantity
				return
			}
		}
		err = ErrProductNotInCart
	})
	return err
}

// RemoveProduct drops a product from the cart. Unknown ids are ignored.
func (c *Cart) RemoveProduct(productID int64) {
	c.mutate(func() {
		kept := c.products[:0]
		for _, p := range c.products {
			if p.ID != productID {
				kept = append(kept, p)
			}
		}
		c.products = kept
	})
}

// AddService adds s, replacing an existing entry with the same id.
func (c *Cart) AddService(s models.Service) error {
	for _, p := range s.Products {
		if p.QuantityViaService < 0 {
			return ErrNegativeQuantity
		}
	}
	s.Products = append([]models.Product(nil), s.Products...)
	c.mutate(func() {
		for i := range c.services {
			if c.services[i].ID == s.ID {
				c.services[i] = s
				return
			}
		}
		c.services = append(c.services, s)
	})
	return nil
}

// SetServiceComponentQuantity sets how many units of a component a service
// consumes in this cart.
func (c *Cart) SetServiceComponentQuantity(serviceID, productID int64, quantity int) error {
	if quantity < 0 {
		return ErrNegativeQuantity
	}
	var err error
	c.mutate(func() {
		for i := range c.services {
			if c.services[i].ID != serviceID {
				continue
			}
			for j := range c.services[i].Products {
				if c.services[i].Products[j].ID == productID {
					c.services[i].Products[j].QuantityViaService = quantity
					return
				}
			}
			err = ErrProductNotInCart
			return
		}
		err = ErrServiceNotInCart
	})
	return err
}

// RemoveService drops a service from the cart. Unknown ids are ignored.
func (c *Cart) RemoveService(serviceID int64) {
	c.mutate(func() {
		kept := c.services[:0]
		for _, s := range c.services {
			if s.ID != serviceID {
				kept = append(kept, s)
			}
		}
		c.services = kept
	})
}

// SelectClient sets the client the order will be placed for.
func (c *Cart) SelectClient(client models.Client) {
	c.mutate(func() {
		c.client = &client
	})
}

// Clear empties the cart, including the client selection.
func (c *Cart) Clear() {
	c.mutate(func() {
		c.products = nil
		c.services = nil
		c.client = nil
	})
}

// FindProduct looks a product up by id.
func (c *Cart) FindProduct(productID int64) (models.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.products {
		if p.ID == productID {
			return p, true
		}
	}
	return models.Product{}, false
}

// FindService looks a service up by id.
func (c *Cart) FindService(serviceID int64) (models.Service, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, s := range c.services {
		if s.ID == serviceID {
			return cloneService(s), true
		}
	}
	return models.Service{}, false
}

// Empty reports whether the cart holds neither products nor services.
func (c *Cart) Empty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.products) == 0 && len(c.services) == 0
}

// Snapshot returns a deep copy of the cart contents.
func (c *Cart) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshotLocked()
}

// TotalAmount returns the running total as a float.
func (c *Cart) TotalAmount() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return TotalAmount(c.products, c.services)
}

// Total returns the running total with exactly two decimals.
func (c *Cart) Total() string {
	return FormatAmount(c.TotalAmount())
}

func (c *Cart) mutate(fn func()) {
	c.mu.Lock()
	fn()
	snap := c.snapshotLocked()
	listeners := slices.Clone(c.listeners)
	c.mu.Unlock()

	for _, l := range listeners {
		l(snap)
	}
}

func (c *Cart) snapshotLocked() Snapshot {
	snap := Snapshot{
		Products: append([]models.Product(nil), c.products...),
		Services: make([]models.Service, 0, len(c.services)),
	}
	for _, s := range c.services {
		snap.Services = append(snap.Services, cloneService(s))
	}
	if c.client != nil {
		client := *c.client
		snap.Client = &client
	}
	return snap
}

func cloneService(s models.Service) models.Service {
	s.Products = append([]models.Product(nil), s.Products...)
	return s
}

// TotalAmount computes Σ price·quantityDirect over standalone products plus,
// for every service, Σ servicePrice·quantityViaService over its components.
// Amounts are plain float64; callers must not rely on exact binary values.
func TotalAmount(products []models.Product, services []models.Service) float64 {
	total := 0.0
	for _, p := range products {
		total += p.Price * float64(p.QuantityDirect)
	}
	for _, s := range services {
		for _, component := range s.Products {
			total += s.Price * float64(component.QuantityViaService)
		}
	}
	return total
}

// FormatAmount renders an amount with exactly two decimals.
func FormatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}
