// Package handlers serves the storefront backend API over Fiber.
package handlers

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"storefront/internal/store"
)

// base carries what every handler needs.
type base struct {
	store    *store.Store
	validate *validator.Validate
	logger   *zap.Logger
}

func newBase(s *store.Store, logger *zap.Logger) base {
	if logger == nil {
		logger = zap.NewNop()
	}
	return base{store: s, validate: validator.New(), logger: logger}
}

// bind parses the JSON body into out and validates it. When it reports false
// the error response has already been written and err is the write result.
func (b base) bind(c *fiber.Ctx, out any) (ok bool, err error) {
	if err := c.BodyParser(out); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := b.validate.Struct(out); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return false, badRequest(c, err.Error())
		}
		errorMessages := make(map[string]string, len(validationErrors))
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}
	return true, nil
}

// fail maps a store error onto a status code and writes the error body.
func (b base) fail(c *fiber.Ctx, message string, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, store.ErrConflict):
		status = fiber.StatusConflict
	case errors.Is(err, store.ErrInvalid):
		status = fiber.StatusBadRequest
	}
	if status == fiber.StatusInternalServerError {
		b.logger.Error(message, zap.String("path", c.Path()), zap.Error(err))
	} else {
		b.logger.Debug(message, zap.String("path", c.Path()), zap.Int("status", status), zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{
		"message": fmt.Sprintf("%s: %v", message, err),
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": message})
}

// paramID reads a positive integer path parameter.
func paramID(c *fiber.Ctx, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
