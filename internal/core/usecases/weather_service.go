package usecases

import (
	"context"
	"fmt"

	"github.com/samirrijal/weatherpro/internal/core/domain"
	"github.com/samirrijal/weatherpro/internal/core/ports"
)

const (
	// DefaultForecastDays is used when the caller does not ask for a length.
	DefaultForecastDays = 7
	// MaxForecastDays bounds the forecast length.
	MaxForecastDays = 16
)

// WeatherService serves current conditions, forecasts and alerts.
type WeatherService struct {
	src ports.DataSource
}

// NewWeatherService creates a new WeatherService.
func NewWeatherService(src ports.DataSource) *WeatherService {
	return &WeatherService{src: src}
}

// Current returns the conditions at location.
func (s *WeatherService) Current(ctx context.Context, location string) (domain.WeatherSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return domain.WeatherSnapshot{}, err
	}
	return s.src.CurrentWeather(location), nil
}

// Forecast returns days daily entries for location.
func (s *WeatherService) Forecast(ctx context.Context, location string, days int) (domain.Forecast, error) {
	if days < 1 || days > MaxForecastDays {
		return domain.Forecast{}, fmt.Errorf("forecast %d days: %w", days, ErrInvalidDays)
	}
	if err := ctx.Err(); err != nil {
		return domain.Forecast{}, err
	}
	return domain.Forecast{Location: location, Days: s.src.Forecast(location, days)}, nil
}

// Alerts returns the active alerts for location.
func (s *WeatherService) Alerts(ctx context.Context, location string) ([]domain.WeatherAlert, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.src.Alerts(location), nil
}

// Stats returns dashboard usage counters.
func (s *WeatherService) Stats(ctx context.Context) (domain.WeatherStats, error) {
	if err := ctx.Err(); err != nil {
		return domain.WeatherStats{}, err
	}
	return s.src.Stats(), nil
}
