// Package utils centralises how faults become HTTP responses. Every handler
// routes its failures through here so clients always see the same plain-text
// bodies and internal detail never leaks.
package utils

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// BadRequest reports a validation fault, such as an unsupported upload type.
func BadRequest(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "bad request"
	}
	return c.Status(fiber.StatusBadRequest).SendString(message)
}

// StudentNotFound reports that no record matched the requested id.
func StudentNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).SendString("Student not found")
}

// StoreFault reports a persistence-layer failure with a generic message.
// The underlying error is logged by the caller, never sent to the client.
func StoreFault(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).SendString("Database error")
}

// Internal reports any other unexpected server-side failure.
func Internal(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
}

// MissingHandler reports that no handler is bound for the named operation.
func MissingHandler(c *fiber.Ctx, operation string) error {
	return c.Status(fiber.StatusInternalServerError).
		SendString(fmt.Sprintf("Missing controller handler: %s", operation))
}
