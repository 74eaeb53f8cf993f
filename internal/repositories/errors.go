package repositories

import (
	"errors"
	"fmt"

	"storefront/internal/models"
)

// ImageUploadError reports a product whose metadata was created but whose
// image upload failed. Product holds the created record (with the placeholder
// image) so callers can retry only the upload.
type ImageUploadError struct {
	Product models.Product
	Err     error
}

// Error implements the error interface for ImageUploadError.
func (e *ImageUploadError) Error() string {
	return fmt.Sprintf("product %d created but image upload failed: %v", e.Product.ID, e.Err)
}

// Unwrap exposes the upload failure.
func (e *ImageUploadError) Unwrap() error {
	return e.Err
}

// IsImageUploadError reports whether err carries an ImageUploadError.
func IsImageUploadError(err error) bool {
	var target *ImageUploadError
	return errors.As(err, &target)
}
