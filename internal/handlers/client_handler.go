package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"storefront/internal/models"
	"storefront/internal/store"
)

// ClientHandler handles HTTP requests for clients.
type ClientHandler struct {
	base
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(s *store.Store, logger *zap.Logger) *ClientHandler {
	return &ClientHandler{base: newBase(s, logger)}
}

// RegisterRoutes registers the client routes on router.
func (h *ClientHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/all", h.HandleGetClients)
	router.Get("/:id", h.HandleGetClientByID)
	router.Post("/", h.HandleCreateClient)
	router.Put("/:id", h.HandleUpdateClient)
	router.Delete("/:id", h.HandleDeleteClient)
}

type clientPatch struct {
	DocumentID *string `json:"documentid" validate:"omitempty,numeric,min=5,max=20"`
	Name       *string `json:"name" validate:"omitempty,min=1,max=200"`
	Email      *string `json:"email" validate:"omitempty,email"`
	Phone      *string `json:"phone" validate:"omitempty,max=20"`
	State      *bool   `json:"state"`
}

func (p clientPatch) fields() map[string]any {
	fields := map[string]any{}
	setField(fields, "document_id", p.DocumentID)
	setField(fields, "name", p.Name)
	setField(fields, "email", p.Email)
	setField(fields, "phone", p.Phone)
	setField(fields, "state", p.State)
	return fields
}

// HandleGetClients retrieves all clients.
func (h *ClientHandler) HandleGetClients(c *fiber.Ctx) error {
	clients, err := h.store.Clients(c.UserContext())
	if err != nil {
		return h.fail(c, "Could not retrieve clients", err)
	}
	return c.JSON(clients)
}

// HandleGetClientByID retrieves a single client.
func (h *ClientHandler) HandleGetClientByID(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid client ID")
	}
	client, err := h.store.Client(c.UserContext(), id)
	if err != nil {
		return h.fail(c, "Could not retrieve client", err)
	}
	return c.JSON(client)
}

// HandleCreateClient creates a new client.
func (h *ClientHandler) HandleCreateClient(c *fiber.Ctx) error {
	var client models.ClientRecord
	if ok, err := h.bind(c, &client); !ok {
		return err
	}
	if err := h.store.CreateClient(c.UserContext(), &client); err != nil {
		return h.fail(c, "Could not create client", err)
	}
	return c.Status(fiber.StatusCreated).JSON(client)
}

// HandleUpdateClient updates the contact data of a client.
func (h *ClientHandler) HandleUpdateClient(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid client ID")
	}
	var patch clientPatch
	if ok, err := h.bind(c, &patch); !ok {
		return err
	}
	client, err := h.store.UpdateClient(c.UserContext(), id, patch.fields())
	if err != nil {
		return h.fail(c, "Could not update client", err)
	}
	return c.JSON(client)
}

// HandleDeleteClient deletes a client.
func (h *ClientHandler) HandleDeleteClient(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid client ID")
	}
	if err := h.store.DeleteClient(c.UserContext(), id); err != nil {
		return h.fail(c, "Could not delete client", err)
	}
	return c.JSON(fiber.Map{"message": fmt.Sprintf("Client %d deleted", id)})
}
