package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// cachePolicy picks a Cache-Control value for a GET path. Session state and
// account data are never shared between clients.
func cachePolicy(path string) string {
	switch {
	case path == "/health" || path == "/ready" || path == "/metrics":
		return "no-cache"
	case strings.HasPrefix(path, "/api/state"), strings.HasPrefix(path, "/ws"):
		return "no-store"
	case strings.HasPrefix(path, "/api/user"):
		return "private, no-cache"
	case path == "/api/weather/stats":
		return "public, max-age=60"
	case strings.HasPrefix(path, "/api/weather/"):
		return "public, max-age=300"
	case path == "/api/locations/search":
		return "public, max-age=300"
	case strings.HasPrefix(path, "/api/locations/"):
		return "public, max-age=3600"
	case strings.HasPrefix(path, "/docs"):
		return "public, max-age=3600"
	}
	return "no-cache"
}

// CachingMiddleware sets Cache-Control on successful GET responses unless the
// handler already chose one.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		if c.Method() != fiber.MethodGet || err != nil {
			return err
		}
		if c.Response().StatusCode() >= 400 {
			c.Set(fiber.HeaderCacheControl, "no-store")
			return nil
		}
		if len(c.Response().Header.Peek(fiber.HeaderCacheControl)) == 0 {
			c.Set(fiber.HeaderCacheControl, cachePolicy(c.Path()))
		}
		return nil
	}
}
