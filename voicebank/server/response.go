package server

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse is the JSON schema of every error reply.
type ErrorResponse struct {
	Code    string `json:"code"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// OK sends an HTTP 200 OK response with a custom body.
func OK(c *fiber.Ctx, body any) error {
	return c.Status(fiber.StatusOK).JSON(body)
}

// WriteError writes a structured error response. It is the canonical way to
// report failures so every handler stays consistent.
func WriteError(c *fiber.Ctx, status int, title, message string) error {
	return c.Status(status).JSON(ErrorResponse{
		Code:    strconv.Itoa(status),
		Title:   title,
		Message: message,
	})
}

// BadRequest writes a 400 Bad Request error response.
func BadRequest(c *fiber.Ctx, title, message string) error {
	return WriteError(c, fiber.StatusBadRequest, title, message)
}

// InternalServerError writes a 500 response with a generic message so
// internal details never leak.
func InternalServerError(c *fiber.Ctx, title string) error {
	return WriteError(c, fiber.StatusInternalServerError, title, "internal server error")
}

// ServiceUnavailable writes a 503 response with a generic message.
func ServiceUnavailable(c *fiber.Ctx, title string) error {
	return WriteError(c, fiber.StatusServiceUnavailable, title, "service unavailable")
}
