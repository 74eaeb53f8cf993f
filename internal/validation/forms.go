package validation

import (
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"storefront/internal/mappers"
	"storefront/internal/models"
)

// MaxImageSize bounds product image uploads.
const MaxImageSize = 5 << 20

var allowedImageTypes = []string{"image/jpeg", "image/png"}

// ProductForm is a product form as submitted, numbers still as text.
type ProductForm struct {
	Name           string `field:"name" validate:"displayname"`
	Description    string `field:"description" validate:"description"`
	Category       string `field:"category" validate:"category"`
	Cost           string `field:"cost" validate:"nonnegint"`
	Price          string `field:"price" validate:"nonnegfloat"`
	Stock          string `field:"stock" validate:"nonnegint"`
	MinimumStock   string `field:"minimum_stock" validate:"omitempty,nonnegint"`
	ExpirationDate string `field:"expiration_date"`
	Image          *models.ImageUpload
	// ImageOptional skips the image requirement, e.g. on edits that keep the
	// current picture.
	ImageOptional bool
}

// ServiceForm is a service form as submitted.
type ServiceForm struct {
	Name  string `field:"name" validate:"required,servicename"`
	Price string `field:"price" validate:"required,money"`
}

type clientFields struct {
	DocumentID string `field:"documentid" validate:"documentid"`
	Name       string `field:"name" validate:"displayname"`
	Email      string `field:"email" validate:"required,email"`
	Phone      string `field:"phone" validate:"phone"`
}

type productFields struct {
	Name         string  `field:"name" validate:"required"`
	Cost         float64 `field:"cost" validate:"gte=0"`
	Price        float64 `field:"price" validate:"gte=0"`
	Stock        int     `field:"stock" validate:"gte=0"`
	MinimumStock int     `field:"minimum_stock" validate:"gte=0"`
}

// Client validates a client before it is created or updated.
func (v *Validator) Client(c models.Client) error {
	return v.Struct(clientFields{
		DocumentID: strings.TrimSpace(c.DocumentID),
		Name:       c.Name,
		Email:      strings.TrimSpace(c.Email),
		Phone:      c.Phone,
	})
}

// Product validates the economic invariants of a domain product.
func (v *Validator) Product(p models.Product) error {
	return v.Struct(productFields{
		Name:         strings.TrimSpace(p.Name),
		Cost:         p.Cost,
		Price:        p.Price,
		Stock:        p.Stock,
		MinimumStock: p.MinimumStock,
	})
}

// ProductForm validates f and converts it into a domain product.
func (v *Validator) ProductForm(f ProductForm) (models.Product, error) {
	extra := map[string]string{}
	switch {
	case f.Image == nil || len(f.Image.Content) == 0:
		if !f.ImageOptional {
			extra["img"] = messages["imagerequired"]
		}
	case !acceptableImage(f.Image.Content):
		extra["img"] = messages["image"]
	}
	if f.ExpirationDate != "" {
		if _, ok := mappers.ParseTimestamp(f.ExpirationDate); !ok {
			extra["expiration_date"] = "is not a valid date"
		}
	}
	if err := toValidationError(v.v.Struct(f), extra); err != nil {
		return models.Product{}, err
	}

	cost, _ := strconv.Atoi(strings.TrimSpace(f.Cost))
	price, _ := strconv.ParseFloat(strings.TrimSpace(f.Price), 64)
	stock, _ := strconv.Atoi(strings.TrimSpace(f.Stock))
	minimum, _ := strconv.Atoi(strings.TrimSpace(f.MinimumStock))
	p := models.Product{
		Name:         strings.TrimSpace(f.Name),
		Description:  strings.TrimSpace(f.Description),
		Category:     strings.TrimSpace(f.Category),
		Cost:         float64(cost),
		Price:        price,
		Stock:        stock,
		MinimumStock: minimum,
	}
	if ts, ok := mappers.ParseTimestamp(f.ExpirationDate); ok {
		p.ExpirationDate = &ts
	}
	if f.Image != nil && len(f.Image.Content) > 0 {
		upload := *f.Image
		if upload.ContentType == "" {
			upload.ContentType = mimetype.Detect(upload.Content).String()
		}
		p.Image = models.NewImageUpload(upload)
	}
	return p, nil
}

// ServiceForm validates f and converts it into a domain service.
func (v *Validator) ServiceForm(f ServiceForm) (models.Service, error) {
	if err := v.Struct(f); err != nil {
		return models.Service{}, err
	}
	price, _ := strconv.ParseFloat(strings.TrimSpace(f.Price), 64)
	return models.Service{
		Name:     strings.TrimSpace(f.Name),
		Price:    price,
		Products: []models.Product{},
	}, nil
}

// Image validates a standalone image upload.
func (v *Validator) Image(upload models.ImageUpload) error {
	switch {
	case len(upload.Content) == 0:
		return &ValidationError{Fields: map[string]string{"img": messages["imagerequired"]}}
	case !acceptableImage(upload.Content):
		return &ValidationError{Fields: map[string]string{"img": messages["image"]}}
	}
	return nil
}

func acceptableImage(content []byte) bool {
	if len(content) > MaxImageSize {
		return false
	}
	mt := mimetype.Detect(content)
	for _, allowed := range allowedImageTypes {
		if mt.Is(allowed) {
			return true
		}
	}
	return false
}
