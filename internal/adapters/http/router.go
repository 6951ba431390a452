package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/samirrijal/weatherpro/internal/pkg/metrics"
)

// RateLimitMessage is the body sent once a client exceeds its request budget.
const RateLimitMessage = "Too many requests from this IP, please try again later."

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	app.Use(requestid.New())
	app.Use(RequestIDLogMiddleware(deps.logger()))
	app.Use(TracingMiddleware())
	app.Use(AccessLogMiddleware())

	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	app.Use(ETagMiddleware())
	app.Use(CachingMiddleware())

	app.Get("/health", HealthHandler(deps))
	app.Get("/ready", ReadyHandler(deps))

	api := app.Group("/api")
	if !deps.RateLimit.Disabled {
		max, window := deps.rateLimit()
		api.Use(limiter.New(limiter.Config{
			Max:        max,
			Expiration: window,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				metrics.RateLimited.Inc()
				return c.Status(fiber.StatusTooManyRequests).SendString(RateLimitMessage)
			},
		}))
	}

	t := func(h fiber.Handler) fiber.Handler {
		return timeout.NewWithContext(h, deps.requestTimeout())
	}

	weather := api.Group("/weather")
	weather.Get("/current/:location", t(CurrentWeatherHandler(deps)))
	weather.Get("/forecast/:location", t(ForecastHandler(deps)))
	weather.Get("/alerts/:location", t(AlertsHandler(deps)))
	weather.Get("/stats", t(StatsHandler(deps)))

	locations := api.Group("/locations")
	locations.Get("/search", t(SearchLocationsHandler(deps)))
	locations.Get("/popular", t(PopularLocationsHandler(deps)))
	locations.Get("/coordinates/:lat/:lon", t(LocationByCoordinatesHandler(deps)))

	auth := api.Group("/auth")
	auth.Post("/register", t(RegisterHandler(deps)))
	auth.Post("/login", t(LoginHandler(deps)))
	auth.Post("/logout", t(LogoutHandler(deps)))

	user := api.Group("/user")
	user.Get("/profile", t(ProfileHandler(deps)))
	user.Put("/profile", t(UpdateProfileHandler(deps)))
	user.Get("/locations", t(SavedLocationsHandler(deps)))
	user.Post("/locations", t(SaveLocationHandler(deps)))

	st := api.Group("/state")
	st.Post("", t(CreateSessionHandler(deps)))
	st.Get("/:session", t(GetStateHandler(deps)))
	st.Delete("/:session", t(DeleteSessionHandler(deps)))
	st.Put("/:session/location", t(SetLocationHandler(deps)))
	st.Put("/:session/weather", t(SetWeatherHandler(deps)))
	st.Put("/:session/forecast", t(SetForecastHandler(deps)))
	st.Get("/:session/searches", t(RecentSearchesHandler(deps)))
	st.Post("/:session/searches", t(AddRecentSearchHandler(deps)))
	st.Delete("/:session/searches", t(ClearRecentSearchesHandler(deps)))
	st.Patch("/:session/preferences", t(SetPreferencesHandler(deps)))
	st.Put("/:session/loading", t(SetLoadingHandler(deps)))
	st.Put("/:session/error", t(SetErrorHandler(deps)))
	st.Put("/:session/map", t(SetMapViewHandler(deps)))
	st.Post("/:session/reset", t(ResetStateHandler(deps)))

	app.Post("/graphql", GraphQLHandler(deps))

	SetupDocs(app, deps.DocsPath)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/state/:session", websocket.New(StateStreamHandler(deps)))

	app.Use(func(c *fiber.Ctx) error {
		return errNotFound(c, "Not found - "+c.OriginalURL())
	})
}
