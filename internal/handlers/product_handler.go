package handlers

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"storefront/internal/models"
	"storefront/internal/store"
)

const (
	imageField    = "image"
	maxImageBytes = 5 << 20
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	base
	uploads *Uploads
}

// NewProductHandler creates a new ProductHandler. Images are written through
// uploads.
func NewProductHandler(s *store.Store, uploads *Uploads, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{base: newBase(s, logger), uploads: uploads}
}

// RegisterRoutes registers the product routes on router.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/all", h.HandleGetProducts)
	router.Get("/search/low-stock", h.HandleLowStock)
	router.Get("/:id", h.HandleGetProductByID)
	router.Post("/", h.HandleCreateProduct)
	router.Put("/stock/:id/:stock/:replace", h.HandleUpdateStock)
	router.Put("/image/:id", h.HandleUploadImage)
	router.Put("/:id", h.HandleUpdateProduct)
	router.Delete("/:id", h.HandleDeleteProduct)
}

// productPatch is the body of a metadata update. Stock is not accepted here.
type productPatch struct {
	Name             *string  `json:"name" validate:"omitempty,min=1,max=200"`
	ShortDescription *string  `json:"short_description" validate:"omitempty,max=500"`
	Description      *string  `json:"description"`
	Category         *string  `json:"category" validate:"omitempty,max=100"`
	Cost             *float64 `json:"cost" validate:"omitempty,gte=0"`
	Price            *float64 `json:"price" validate:"omitempty,gte=0"`
	MinimumStock     *int     `json:"minimum_stock" validate:"omitempty,gte=0"`
	ExpirationDate   *string  `json:"expiration_date" validate:"omitempty,max=40"`
}

func (p productPatch) fields() map[string]any {
	fields := map[string]any{}
	setField(fields, "name", p.Name)
	setField(fields, "short_description", p.ShortDescription)
	setField(fields, "description", p.Description)
	setField(fields, "category", p.Category)
	setField(fields, "cost", p.Cost)
	setField(fields, "price", p.Price)
	setField(fields, "minimum_stock", p.MinimumStock)
	setField(fields, "expiration_date", p.ExpirationDate)
	return fields
}

func setField[T any](fields map[string]any, column string, v *T) {
	if v != nil {
		fields[column] = *v
	}
}

// HandleGetProducts retrieves all products.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.store.Products(c.UserContext())
	if err != nil {
		return h.fail(c, "Could not retrieve products", err)
	}
	return c.JSON(products)
}

// HandleLowStock lists products at or below their minimum stock.
func (h *ProductHandler) HandleLowStock(c *fiber.Ctx) error {
	products, err := h.store.LowStockProducts(c.UserContext())
	if err != nil {
		return h.fail(c, "Could not search low-stock products", err)
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid product ID")
	}
	product, err := h.store.Product(c.UserContext(), id)
	if err != nil {
		return h.fail(c, "Could not retrieve product", err)
	}
	return c.JSON(product)
}

// HandleCreateProduct creates a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var product models.ProductRecord
	if ok, err := h.bind(c, &product); !ok {
		return err
	}
	if err := h.store.CreateProduct(c.UserContext(), &product); err != nil {
		return h.fail(c, "Could not create product", err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct updates the metadata of a product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid product ID")
	}
	var patch productPatch
	if ok, err := h.bind(c, &patch); !ok {
		return err
	}
	product, err := h.store.UpdateProduct(c.UserContext(), id, patch.fields())
	if err != nil {
		return h.fail(c, "Could not update product", err)
	}
	return c.JSON(product)
}

// HandleUpdateStock replaces or increments the stock of a product.
func (h *ProductHandler) HandleUpdateStock(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid product ID")
	}
	stock, err := strconv.Atoi(c.Params("stock"))
	if err != nil {
		return badRequest(c, "Invalid stock value")
	}
	replace, err := strconv.ParseBool(c.Params("replace"))
	if err != nil {
		return badRequest(c, "Invalid replace flag")
	}
	product, err := h.store.AdjustStock(c.UserContext(), id, stock, replace)
	if err != nil {
		return h.fail(c, "Could not update stock", err)
	}
	return c.JSON(product)
}

// HandleUploadImage stores the multipart "image" file as the product picture
// and answers with its public URL as a JSON string.
func (h *ProductHandler) HandleUploadImage(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid product ID")
	}
	if _, err := h.store.Product(c.UserContext(), id); err != nil {
		return h.fail(c, "Could not upload image", err)
	}

	header, err := c.FormFile(imageField)
	if err != nil {
		return badRequest(c, fmt.Sprintf("Missing %q file", imageField))
	}
	if header.Size > maxImageBytes {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{"message": "Image is too large"})
	}
	file, err := header.Open()
	if err != nil {
		return h.fail(c, "Could not read image", err)
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, maxImageBytes+1))
	if err != nil {
		return h.fail(c, "Could not read image", err)
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return c.Status(fiber.StatusUnsupportedMediaType).JSON(fiber.Map{
			"message": fmt.Sprintf("Unsupported image type %s", mtype.String()),
		})
	}

	url, err := h.uploads.Save("products", mtype.Extension(), bytes.NewReader(data))
	if err != nil {
		return h.fail(c, "Could not store image", err)
	}
	if _, err := h.store.SetProductImage(c.UserContext(), id, url); err != nil {
		return h.fail(c, "Could not update product image", err)
	}
	h.logger.Info("product image stored", zap.Int64("product_id", id), zap.String("url", url))
	return c.JSON(url)
}

// HandleDeleteProduct deletes a product.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid product ID")
	}
	if err := h.store.DeleteProduct(c.UserContext(), id); err != nil {
		return h.fail(c, "Could not delete product", err)
	}
	return c.JSON(fiber.Map{"message": fmt.Sprintf("Product %d deleted", id)})
}

// Uploads writes files below a directory that is served under a public URL.
type Uploads struct {
	dir       string
	publicURL string
}

// NewUploads creates the upload directory if needed. publicURL is the
// address dir is served at.
func NewUploads(dir, publicURL string) (*Uploads, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &Uploads{dir: dir, publicURL: strings.TrimRight(publicURL, "/")}, nil
}

// Dir is the directory files are written to.
func (u *Uploads) Dir() string { return u.dir }

// Save writes r to a new uuid-named file in folder and returns its URL.
func (u *Uploads) Save(folder, ext string, r io.Reader) (string, error) {
	if err := os.MkdirAll(filepath.Join(u.dir, folder), 0o755); err != nil {
		return "", err
	}
	name := uuid.NewString() + ext
	f, err := os.Create(filepath.Join(u.dir, folder, name))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return u.publicURL + "/" + folder + "/" + name, nil
}
