package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler returns a basic liveness check.
func HealthHandler(deps *Dependencies) fiber.Handler {
	startedAt := deps.StartedAt
	if startedAt.IsZero() {
		startedAt = time.Now()
	}

	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":      "OK",
			"timestamp":   time.Now().UTC().Format(time.RFC3339Nano),
			"uptime":      time.Since(startedAt).Seconds(),
			"environment": deps.Environment,
		})
	}
}

// ReadyHandler checks the state backend and the event broker.
func ReadyHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
		defer cancel()

		checks := make(map[string]string)
		allOK := true
		sessions := 0

		if deps.Sessions != nil {
			sessions = deps.Sessions.Len()
			if err := deps.Sessions.Ping(ctx); err != nil {
				checks["state"] = "error: " + err.Error()
				allOK = false
			} else {
				checks["state"] = "ok"
			}
		} else {
			checks["state"] = "not configured"
			allOK = false
		}

		if deps.Broker != nil {
			if deps.Broker.Connected() {
				checks["nats"] = "ok"
			} else {
				checks["nats"] = "disconnected"
				allOK = false
			}
		} else {
			checks["nats"] = "not configured"
		}

		status := "ready"
		code := fiber.StatusOK
		if !allOK {
			status = "not ready"
			code = fiber.StatusServiceUnavailable
		}

		return c.Status(code).JSON(fiber.Map{
			"status":   status,
			"checks":   checks,
			"sessions": sessions,
		})
	}
}
