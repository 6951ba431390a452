package ports

import (
	"context"
	"errors"
	"time"

	"github.com/samirrijal/weatherpro/internal/core/domain"
	"github.com/samirrijal/weatherpro/internal/core/state"
)

// ErrCacheMiss is returned by CacheService.Get for an absent key.
var ErrCacheMiss = errors.New("cache miss")

// DataSource produces the mock payloads served by the API. Implementations
// decide whether values are fixed, seeded or random.
type DataSource interface {
	Now() time.Time
	NewID() string
	NewToken() string

	CurrentWeather(location string) domain.WeatherSnapshot
	Forecast(location string, days int) []domain.ForecastEntry
	Alerts(location string) []domain.WeatherAlert
	Stats() domain.WeatherStats

	// Cities is the fixed catalogue searched by the location endpoints.
	Cities() []domain.Location
	PopularLocations() []domain.Location

	Profile() domain.User
	SavedLocations() []domain.SavedLocation
}

// EventPublisher publishes dashboard state changes to a message broker.
type EventPublisher interface {
	PublishState(ctx context.Context, session string, snap state.Snapshot) error
}

// EventSubscriber receives dashboard state changes from a message broker.
type EventSubscriber interface {
	SubscribeStates(ctx context.Context, handler func(ctx context.Context, session string, snap state.Snapshot) error) error
}

// CacheService is a key/value store with expiry.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
