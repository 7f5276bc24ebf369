package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/hyunwoo-kim/naver-shopping-collector/internal/services"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ErrorHandler is the custom error handler for Fiber. It maps the service
// error taxonomy to status codes: validation → 400, not-found/no-results
// → 404, everything else (provider or storage failure) → 500 with the
// underlying message for operator diagnosis.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()

	var validationErr *services.ValidationError
	var fiberErr *fiber.Error

	switch {
	case errors.As(err, &validationErr):
		code = fiber.StatusBadRequest
	case errors.Is(err, services.ErrNotFound), errors.Is(err, services.ErrNoResults):
		code = fiber.StatusNotFound
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
		message = fiberErr.Message
	}

	return c.Status(code).JSON(ErrorResponse{
		Error: message,
	})
}
