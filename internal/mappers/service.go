package mappers

import (
	"time"

	"storefront/internal/models"
)

// ServiceFromRecord maps a backend service. Components are loaded separately.
func ServiceFromRecord(r models.ServiceRecord) models.Service {
	return models.Service{
		ID:       r.ID,
		Name:     r.Name,
		Price:    r.Price,
		Products: []models.Product{},
	}
}

// ServicesFromRecords maps a list of backend services.
func ServicesFromRecords(records []models.ServiceRecord) []models.Service {
	out := make([]models.Service, 0, len(records))
	for _, r := range records {
		out = append(out, ServiceFromRecord(r))
	}
	return out
}

// ServiceToRecord builds the create/update payload for a service.
func ServiceToRecord(s models.Service, now time.Time) models.ServiceRecord {
	return models.ServiceRecord{
		Name:      s.Name,
		Price:     s.Price,
		CreatedAt: now.UTC().Truncate(time.Second),
		UpdatedAt: now.UTC().Truncate(time.Second),
	}
}

// ServiceInputFromRecord maps a service↔product association.
func ServiceInputFromRecord(r models.ServiceInputRecord) models.ServiceInput {
	return models.ServiceInput{
		ID:        r.ID,
		ServiceID: r.ServiceID,
		ProductID: r.ProductID,
		Quantity:  r.Quantity,
	}
}

// ComponentFromInput attaches the association quantity to a fetched product
// as its service-derived quantity.
func ComponentFromInput(p models.Product, in models.ServiceInput) models.Product {
	p.QuantityDirect = 0
	p.QuantityViaService = in.Quantity
	return p
}
