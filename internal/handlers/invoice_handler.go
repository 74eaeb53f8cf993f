package handlers

import (
	"bytes"
	"encoding/json"
	"math"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"storefront/internal/models"
	"storefront/internal/store"
)

// InvoiceHandler generates invoice documents for completed orders.
type InvoiceHandler struct {
	base
	uploads *Uploads
	now     func() time.Time
}

// NewInvoiceHandler creates a new InvoiceHandler. Documents are written
// through uploads.
func NewInvoiceHandler(s *store.Store, uploads *Uploads, logger *zap.Logger) *InvoiceHandler {
	return &InvoiceHandler{base: newBase(s, logger), uploads: uploads, now: time.Now}
}

// RegisterRoutes registers the generation endpoint on router.
func (h *InvoiceHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/", h.HandleGenerate)
}

// Invoice is the generated document.
type Invoice struct {
	Number   string                      `json:"number"`
	OrderID  int64                       `json:"order_id"`
	ClientID int64                       `json:"client_id"`
	IssuedAt time.Time                   `json:"issued_at"`
	Products []models.OrderProductRecord `json:"products"`
	Services []models.OrderServiceRecord `json:"services"`
	Subtotal float64                     `json:"subtotal"`
	TaxRate  float64                     `json:"tax_rate"`
	Tax      float64                     `json:"tax"`
	Total    float64                     `json:"total"`
}

// HandleGenerate writes the invoice of a completed order, records its link
// on the order and answers with the link as a JSON string.
func (h *InvoiceHandler) HandleGenerate(c *fiber.Ctx) error {
	var req models.InvoiceRequest
	if ok, err := h.bind(c, &req); !ok {
		return err
	}
	ctx := c.UserContext()

	order, err := h.store.Order(ctx, req.OrderID)
	if err != nil {
		return h.fail(c, "Could not generate invoice", err)
	}
	if order.Status != string(models.OrderCompleted) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Only completed orders can be invoiced, order is " + order.Status,
		})
	}
	products, err := h.store.OrderProducts(ctx, order.ID)
	if err != nil {
		return h.fail(c, "Could not generate invoice", err)
	}
	services, err := h.store.OrderServices(ctx, order.ID)
	if err != nil {
		return h.fail(c, "Could not generate invoice", err)
	}

	tax := round2(order.TotalPrice * req.TaxRate)
	invoice := Invoice{
		Number:   uuid.NewString(),
		OrderID:  order.ID,
		ClientID: order.ClientID,
		IssuedAt: h.now().UTC(),
		Products: products,
		Services: services,
		Subtotal: order.TotalPrice,
		TaxRate:  req.TaxRate,
		Tax:      tax,
		Total:    round2(order.TotalPrice + tax),
	}
	doc, err := json.MarshalIndent(invoice, "", "  ")
	if err != nil {
		return h.fail(c, "Could not generate invoice", err)
	}
	link, err := h.uploads.Save("invoices", ".json", bytes.NewReader(doc))
	if err != nil {
		return h.fail(c, "Could not store invoice", err)
	}
	if _, err := h.store.SetInvoiceLink(ctx, order.ID, link); err != nil {
		return h.fail(c, "Could not record invoice", err)
	}

	h.logger.Info("invoice generated",
		zap.Int64("order_id", order.ID),
		zap.String("number", invoice.Number),
		zap.Float64("total", invoice.Total),
	)
	return c.Status(fiber.StatusCreated).JSON(link)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
