package http

import (
	"log/slog"
	"time"

	"github.com/samirrijal/weatherpro/internal/core/usecases"
)

// Broker reports the health of the event broker connection.
type Broker interface {
	Connected() bool
}

// RateLimit bounds requests per client IP on the /api group. Zero values
// fall back to 100 requests per 15 minutes.
type RateLimit struct {
	Disabled bool
	Max      int
	Window   time.Duration
}

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Weather   *usecases.WeatherService
	Locations *usecases.LocationService
	Auth      *usecases.AuthService
	Users     *usecases.UserService
	Sessions  *usecases.SessionService

	// Broker is optional; a nil Broker is reported as not configured.
	Broker Broker

	Environment    string
	StartedAt      time.Time
	RateLimit      RateLimit
	RequestTimeout time.Duration
	// DocsPath is the OpenAPI document served at /docs/openapi.yaml.
	DocsPath string
	Logger   *slog.Logger
}

func (d *Dependencies) requestTimeout() time.Duration {
	if d.RequestTimeout > 0 {
		return d.RequestTimeout
	}
	return 15 * time.Second
}

func (d *Dependencies) rateLimit() (max int, window time.Duration) {
	max, window = d.RateLimit.Max, d.RateLimit.Window
	if max <= 0 {
		max = 100
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	return max, window
}

func (d *Dependencies) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}
