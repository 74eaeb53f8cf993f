package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"storefront/internal/models"
	"storefront/internal/store"
)

// OrderHandler handles HTTP requests for orders and their lines.
type OrderHandler struct {
	base
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(s *store.Store, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{base: newBase(s, logger)}
}

// RegisterRoutes registers the order routes on router.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/all", h.HandleGetOrders)
	router.Post("/product", h.HandleAddProductLine)
	router.Post("/service", h.HandleAddServiceLine)
	router.Put("/status/:id/:status", h.HandleUpdateOrderStatus)
	router.Get("/:id", h.HandleGetOrderByID)
	router.Post("/", h.HandleCreateOrder)
	router.Put("/:id", h.HandleUpdateOrder)
	router.Delete("/:id", h.HandleDeleteOrder)
}

type orderPatch struct {
	ClientID   *int64   `json:"client_id" validate:"omitempty,gt=0"`
	EmployeeID *int64   `json:"employee_id" validate:"omitempty,gt=0"`
	Status     *string  `json:"status" validate:"omitempty,oneof=Pendiente Completada Cancelada"`
	TotalPrice *float64 `json:"total_price" validate:"omitempty,gte=0"`
}

func (p orderPatch) fields() map[string]any {
	fields := map[string]any{}
	setField(fields, "client_id", p.ClientID)
	setField(fields, "employee_id", p.EmployeeID)
	setField(fields, "status", p.Status)
	setField(fields, "total_price", p.TotalPrice)
	return fields
}

// HandleGetOrders retrieves all orders.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := h.store.Orders(c.UserContext())
	if err != nil {
		return h.fail(c, "Could not retrieve orders", err)
	}
	return c.JSON(orders)
}

// HandleGetOrderByID retrieves a single order by its ID.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid order ID")
	}
	order, err := h.store.Order(c.UserContext(), id)
	if err != nil {
		return h.fail(c, "Could not retrieve order", err)
	}
	return c.JSON(order)
}

// HandleCreateOrder creates a new order header.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var order models.OrderRecord
	if ok, err := h.bind(c, &order); !ok {
		return err
	}
	if err := h.store.CreateOrder(c.UserContext(), &order); err != nil {
		return h.fail(c, "Could not create order", err)
	}
	h.logger.Info("order created",
		zap.Int64("order_id", order.ID),
		zap.Int64("client_id", order.ClientID),
		zap.Float64("total_price", order.TotalPrice),
	)
	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleUpdateOrder updates an order header.
func (h *OrderHandler) HandleUpdateOrder(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid order ID")
	}
	var patch orderPatch
	if ok, err := h.bind(c, &patch); !ok {
		return err
	}
	order, err := h.store.UpdateOrder(c.UserContext(), id, patch.fields())
	if err != nil {
		return h.fail(c, "Could not update order", err)
	}
	return c.JSON(order)
}

// HandleDeleteOrder deletes an order and its lines.
func (h *OrderHandler) HandleDeleteOrder(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid order ID")
	}
	if err := h.store.DeleteOrder(c.UserContext(), id); err != nil {
		return h.fail(c, "Could not delete order", err)
	}
	return c.JSON(fiber.Map{"message": fmt.Sprintf("Order %d deleted", id)})
}

// HandleAddProductLine attaches a product to an order.
func (h *OrderHandler) HandleAddProductLine(c *fiber.Ctx) error {
	var line models.OrderProductRecord
	if ok, err := h.bind(c, &line); !ok {
		return err
	}
	if err := h.store.AddOrderProduct(c.UserContext(), &line); err != nil {
		return h.fail(c, "Could not add product to order", err)
	}
	return c.Status(fiber.StatusCreated).JSON(line)
}

// HandleAddServiceLine attaches a service to an order.
func (h *OrderHandler) HandleAddServiceLine(c *fiber.Ctx) error {
	var line models.OrderServiceRecord
	if ok, err := h.bind(c, &line); !ok {
		return err
	}
	if err := h.store.AddOrderService(c.UserContext(), &line); err != nil {
		return h.fail(c, "Could not add service to order", err)
	}
	return c.Status(fiber.StatusCreated).JSON(line)
}

// HandleUpdateOrderStatus updates the status of an existing order.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid order ID")
	}
	status := models.OrderStatus(c.Params("status"))
	order, err := h.store.SetOrderStatus(c.UserContext(), id, status)
	if err != nil {
		return h.fail(c, "Could not update order status", err)
	}
	h.logger.Info("order status updated", zap.Int64("order_id", id), zap.String("status", order.Status))
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Order %d status updated successfully to %s", id, order.Status),
	})
}
