package models

// Service is a sellable service with a flat price and an ordered set of
// component products. A service's cart contribution is derived from its
// components' QuantityViaService, never stored.
type Service struct {
	ID       int64
	Name     string
	Price    float64
	Products []Product
}

// ComponentQuantity sums the service-derived quantities of the components.
func (s Service) ComponentQuantity() int {
	total := 0
	for _, p := range s.Products {
		total += p.QuantityViaService
	}
	return total
}

// ProductIDs returns the component product ids in order.
func (s Service) ProductIDs() []int64 {
	ids := make([]int64, 0, len(s.Products))
	for _, p := range s.Products {
		ids = append(ids, p.ID)
	}
	return ids
}

// ServiceInput is a persisted service↔product association.
type ServiceInput struct {
	ID        int64
	ServiceID int64
	ProductID int64
	Quantity  int
}
