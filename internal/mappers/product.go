package mappers

import (
	"time"

	"storefront/internal/models"
)

// ProductFromRecord maps a backend product to the domain shape. Cart
// quantities start at zero.
func ProductFromRecord(r models.ProductRecord) models.Product {
	p := models.Product{
		ID:           r.ID,
		Name:         r.Name,
		Description:  defaultString(r.Description, r.ShortDescription),
		Category:     r.Category,
		Cost:         r.Cost,
		Price:        r.Price,
		Stock:        r.Stock,
		MinimumStock: r.MinimumStock,
		Image:        models.NewImageURL(r.ImageURL),
	}
	if ts, ok := ParseTimestamp(r.ExpirationDate); ok {
		p.ExpirationDate = &ts
	}
	return p
}

// ProductsFromRecords maps a list of backend products.
func ProductsFromRecords(records []models.ProductRecord) []models.Product {
	out := make([]models.Product, 0, len(records))
	for _, r := range records {
		out = append(out, ProductFromRecord(r))
	}
	return out
}

// ProductToRecord builds the creation payload. A pending image is replaced by
// the placeholder URL until it is uploaded.
func ProductToRecord(p models.Product, now time.Time) models.ProductRecord {
	r := models.ProductRecord{
		Name:             p.Name,
		ShortDescription: p.Description,
		Description:      p.Description,
		Category:         p.Category,
		Type:             defaultProductType,
		Cost:             p.Cost,
		Price:            p.Price,
		Stock:            p.Stock,
		MinimumStock:     p.MinimumStock,
		ImageURL:         defaultString(p.Image.URL(), PlaceholderImageURL),
		CreatedAt:        now.UTC().Truncate(time.Second),
		UpdatedAt:        now.UTC().Truncate(time.Second),
	}
	if p.ExpirationDate != nil {
		r.ExpirationDate = FormatTimestamp(*p.ExpirationDate)
	}
	return r
}

// ProductUpdateFields is the partial payload sent on metadata updates. Stock
// is deliberately absent: it moves through the dedicated stock endpoint.
func ProductUpdateFields(p models.Product) map[string]any {
	fields := map[string]any{
		"name":              p.Name,
		"price":             p.Price,
		"description":       p.Description,
		"short_description": p.Description,
		"cost":              p.Cost,
		"minimum_stock":     p.MinimumStock,
	}
	if p.Category != "" {
		fields["category"] = p.Category
	}
	if p.ExpirationDate != nil {
		fields["expiration_date"] = FormatTimestamp(*p.ExpirationDate)
	}
	return fields
}

// ProductStockFromRecord maps a backend product to the low-stock view.
func ProductStockFromRecord(r models.ProductRecord) models.ProductStockRecord {
	return models.ProductStockRecord{
		ID:           r.ID,
		Name:         r.Name,
		Stock:        r.Stock,
		MinimumStock: r.MinimumStock,
	}
}
