package handler

import (
	"github.com/gofiber/fiber/v2"
)

// Client error messages.
const (
	msgInvalidParams  = "Invalid keyword or country parameter."
	msgInvalidCountry = "Invalid country code."
)

// jsonError returns an error response with the given HTTP status code.
func jsonError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}
