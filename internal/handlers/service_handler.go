package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"storefront/internal/models"
	"storefront/internal/store"
)

// ServiceHandler handles HTTP requests for services and their product
// associations.
type ServiceHandler struct {
	base
}

// NewServiceHandler creates a new ServiceHandler.
func NewServiceHandler(s *store.Store, logger *zap.Logger) *ServiceHandler {
	return &ServiceHandler{base: newBase(s, logger)}
}

// RegisterRoutes registers the service routes on router.
func (h *ServiceHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/all", h.HandleGetServices)
	router.Get("/input_service/service/:id", h.HandleGetInputs)
	router.Post("/input_service", h.HandleAddInput)
	router.Put("/input_service/:serviceId/:productId", h.HandleUpdateInput)
	router.Delete("/input_service/:serviceId/:productId", h.HandleDeleteInput)
	router.Get("/:id", h.HandleGetServiceByID)
	router.Post("/", h.HandleCreateService)
	router.Put("/:id", h.HandleUpdateService)
	router.Delete("/:id", h.HandleDeleteService)
}

type servicePatch struct {
	Name             *string  `json:"name" validate:"omitempty,min=1,max=200"`
	ShortDescription *string  `json:"short_description" validate:"omitempty,max=500"`
	Description      *string  `json:"description"`
	Price            *float64 `json:"price" validate:"omitempty,gte=0"`
	Cost             *float64 `json:"cost" validate:"omitempty,gte=0"`
}

func (p servicePatch) fields() map[string]any {
	fields := map[string]any{}
	setField(fields, "name", p.Name)
	setField(fields, "short_description", p.ShortDescription)
	setField(fields, "description", p.Description)
	setField(fields, "price", p.Price)
	setField(fields, "cost", p.Cost)
	return fields
}

// HandleGetServices retrieves all service headers.
func (h *ServiceHandler) HandleGetServices(c *fiber.Ctx) error {
	services, err := h.store.Services(c.UserContext())
	if err != nil {
		return h.fail(c, "Could not retrieve services", err)
	}
	return c.JSON(services)
}

// HandleGetServiceByID retrieves a single service header.
func (h *ServiceHandler) HandleGetServiceByID(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid service ID")
	}
	service, err := h.store.Service(c.UserContext(), id)
	if err != nil {
		return h.fail(c, "Could not retrieve service", err)
	}
	return c.JSON(service)
}

// HandleCreateService creates a new service header.
func (h *ServiceHandler) HandleCreateService(c *fiber.Ctx) error {
	var service models.ServiceRecord
	if ok, err := h.bind(c, &service); !ok {
		return err
	}
	if err := h.store.CreateService(c.UserContext(), &service); err != nil {
		return h.fail(c, "Could not create service", err)
	}
	return c.Status(fiber.StatusCreated).JSON(service)
}

// HandleUpdateService updates a service header.
func (h *ServiceHandler) HandleUpdateService(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid service ID")
	}
	var patch servicePatch
	if ok, err := h.bind(c, &patch); !ok {
		return err
	}
	service, err := h.store.UpdateService(c.UserContext(), id, patch.fields())
	if err != nil {
		return h.fail(c, "Could not update service", err)
	}
	return c.JSON(service)
}

// HandleDeleteService deletes a service and its associations.
func (h *ServiceHandler) HandleDeleteService(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid service ID")
	}
	if err := h.store.DeleteService(c.UserContext(), id); err != nil {
		return h.fail(c, "Could not delete service", err)
	}
	return c.JSON(fiber.Map{"message": fmt.Sprintf("Service %d deleted", id)})
}

// HandleGetInputs lists the product associations of a service.
func (h *ServiceHandler) HandleGetInputs(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid service ID")
	}
	inputs, err := h.store.ServiceInputs(c.UserContext(), id)
	if err != nil {
		return h.fail(c, "Could not retrieve service inputs", err)
	}
	return c.JSON(inputs)
}

// HandleAddInput associates a product with a service.
func (h *ServiceHandler) HandleAddInput(c *fiber.Ctx) error {
	var input models.ServiceInputRecord
	if ok, err := h.bind(c, &input); !ok {
		return err
	}
	if err := h.store.AddServiceInput(c.UserContext(), &input); err != nil {
		return h.fail(c, "Could not add service input", err)
	}
	return c.Status(fiber.StatusCreated).JSON(input)
}

// HandleUpdateInput changes the quantity of an association.
func (h *ServiceHandler) HandleUpdateInput(c *fiber.Ctx) error {
	serviceID, ok := paramID(c, "serviceId")
	if !ok {
		return badRequest(c, "Invalid service ID")
	}
	productID, ok := paramID(c, "productId")
	if !ok {
		return badRequest(c, "Invalid product ID")
	}
	var body struct {
		Quantity int `json:"quantity" validate:"gte=0"`
	}
	if ok, err := h.bind(c, &body); !ok {
		return err
	}
	input, err := h.store.UpdateServiceInput(c.UserContext(), serviceID, productID, body.Quantity)
	if err != nil {
		return h.fail(c, "Could not update service input", err)
	}
	return c.JSON(input)
}

// HandleDeleteInput removes an association.
func (h *ServiceHandler) HandleDeleteInput(c *fiber.Ctx) error {
	serviceID, ok := paramID(c, "serviceId")
	if !ok {
		return badRequest(c, "Invalid service ID")
	}
	productID, ok := paramID(c, "productId")
	if !ok {
		return badRequest(c, "Invalid product ID")
	}
	if err := h.store.DeleteServiceInput(c.UserContext(), serviceID, productID); err != nil {
		return h.fail(c, "Could not delete service input", err)
	}
	return c.JSON(fiber.Map{"message": fmt.Sprintf("Product %d removed from service %d", productID, serviceID)})
}
