package models

import "time"

// Product represents a catalog product as the storefront works with it.
// QuantityDirect and QuantityViaService only exist while the product sits in a
// cart or a service composition; they are never sent to the backend.
type Product struct {
	ID             int64
	Name           string
	Description    string
	Category       string
	Cost           float64
	Price          float64
	Stock          int
	MinimumStock   int
	ExpirationDate *time.Time
	Image          ProductImage

	QuantityDirect     int
	QuantityViaService int
}

// ImageUpload is an image payload that has not been sent to the backend yet.
type ImageUpload struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ProductImage holds either a pending upload or a resolved URL, never both.
type ProductImage struct {
	upload *ImageUpload
	url    string
}

// NewImageUpload wraps a pending image payload.
func NewImageUpload(upload ImageUpload) ProductImage {
	return ProductImage{upload: &upload}
}

// NewImageURL wraps an already uploaded image.
func NewImageURL(url string) ProductImage {
	return ProductImage{url: url}
}

// Pending returns the payload waiting to be uploaded, if any.
func (i ProductImage) Pending() (*ImageUpload, bool) {
	if i.upload == nil || len(i.upload.Content) == 0 {
		return nil, false
	}
	return i.upload, true
}

// URL returns the resolved image URL; empty while an upload is pending.
func (i ProductImage) URL() string {
	return i.url
}

// ProductStockRecord is the lightweight view used by low-stock searches.
type ProductStockRecord struct {
	ID           int64
	Name         string
	Stock        int
	MinimumStock int
}
