package http

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

// Envelope wraps every /api response.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

func ok(c *fiber.Ctx, data any) error {
	return c.JSON(Envelope{Success: true, Data: data})
}

// okMessage writes a success envelope with a status and a message.
func okMessage(c *fiber.Ctx, status int, data any, msg string) error {
	return c.Status(status).JSON(Envelope{Success: true, Data: data, Message: msg})
}

// newError builds a failure envelope.
func newError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(Envelope{Success: false, Error: msg})
}

func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusBadRequest, msg)
}

func errNotFound(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusNotFound, msg)
}

// errInternal logs cause with the request logger and answers with the
// generic route message only.
func errInternal(c *fiber.Ctx, msg string, cause error) error {
	LoggerFromCtx(c.UserContext()).Error(msg,
		slog.String("path", c.Path()),
		slog.Any("error", cause),
	)
	return newError(c, fiber.StatusInternalServerError, msg)
}

// ErrorHandler is the app-level fiber error handler. Errors that escape a
// handler, including recovered panics, become a failure envelope.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "Internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		if code < fiber.StatusInternalServerError {
			msg = fe.Message
		}
	}
	if code >= fiber.StatusInternalServerError {
		LoggerFromCtx(c.UserContext()).Error("unhandled error",
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Any("error", err),
		)
	}
	return newError(c, code, msg)
}
