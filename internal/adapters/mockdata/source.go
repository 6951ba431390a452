// Package mockdata implements ports.DataSource with generated placeholder
// payloads. A seeded Source is fully deterministic for a given clock.
package mockdata

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/samirrijal/weatherpro/internal/core/domain"
)

const (
	tokenPrefix   = "mock-jwt-token-"
	tokenAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	tokenLength   = 9
)

var cities = []domain.Location{
	{ID: "1", Name: "New York, NY, USA", Country: "USA", Lat: 40.7128, Lng: -74.0060, Timezone: "America/New_York"},
	{ID: "2", Name: "London, UK", Country: "UK", Lat: 51.5074, Lng: -0.1278, Timezone: "Europe/London"},
	{ID: "3", Name: "Tokyo, Japan", Country: "Japan", Lat: 35.6762, Lng: 139.6503, Timezone: "Asia/Tokyo"},
	{ID: "4", Name: "Paris, France", Country: "France", Lat: 48.8566, Lng: 2.3522, Timezone: "Europe/Paris"},
	{ID: "5", Name: "Sydney, Australia", Country: "Australia", Lat: -33.8688, Lng: 151.2093, Timezone: "Australia/Sydney"},
}

type outlook struct {
	condition   domain.Condition
	description string
	icon        string
}

// Forecast days draw from this set.
var outlooks = []outlook{
	{domain.ConditionClear, "Sunny", "01d"},
	{domain.ConditionCloudy, "Cloudy", "04d"},
	{domain.ConditionRainy, "Rainy", "10d"},
	{domain.ConditionPartlyCloudy, "Partly Cloudy", "02d"},
}

type alertTemplate struct {
	kind, severity, title, description string
	hours                              int
}

var alertTemplates = []alertTemplate{
	{"advisory", "low", "Air Quality Advisory", "Sensitive groups should limit prolonged outdoor exertion.", 12},
	{"watch", "medium", "Thunderstorm Watch", "Conditions are favorable for thunderstorms this afternoon.", 6},
	{"warning", "high", "Heat Warning", "Daytime highs well above seasonal norms are expected.", 24},
	{"warning", "extreme", "Flash Flood Warning", "Heavy rainfall may cause rapid flooding in low-lying areas.", 3},
}

// Option configures a Source.
type Option func(*Source)

// WithSeed makes every generated value, including ids and tokens, a pure
// function of seed and the clock.
func WithSeed(seed int64) Option {
	return func(s *Source) {
		s.rng = rand.New(rand.NewSource(seed))
		s.seeded = true
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Source) { s.now = now }
}

// Source generates mock weather, location and account data.
type Source struct {
	mu     sync.Mutex
	rng    *rand.Rand
	seeded bool
	now    func() time.Time
}

// New creates a Source. Without WithSeed values are random and ids are
// version 4 UUIDs.
func New(opts ...Option) *Source {
	s := &Source{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
		now: time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Source) Now() time.Time { return s.now().UTC() }

// NewID returns a UUID. Seeded sources derive it from the seed.
func (s *Source) NewID() string {
	if !s.seeded {
		return uuid.NewString()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id, err := uuid.NewRandomFromReader(s.rng)
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// NewToken returns a placeholder bearer token. It is not signed.
func (s *Source) NewToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var b strings.Builder
	b.WriteString(tokenPrefix)
	for i := 0; i < tokenLength; i++ {
		b.WriteByte(tokenAlphabet[s.rng.Intn(len(tokenAlphabet))])
	}
	return b.String()
}

// CurrentWeather returns fixed conditions for any location.
func (s *Source) CurrentWeather(location string) domain.WeatherSnapshot {
	return domain.WeatherSnapshot{
		ID:            s.NewID(),
		LocationID:    location,
		Location:      location,
		Temperature:   22,
		FeelsLike:     23,
		Humidity:      65,
		Pressure:      1013,
		WindSpeed:     12,
		WindDirection: 180,
		Visibility:    10,
		Description:   "Sunny",
		Icon:          "01d",
		Condition:     domain.ConditionClear,
		Timestamp:     s.Now(),
	}
}

// Forecast returns one entry per day starting today.
func (s *Source) Forecast(location string, days int) []domain.ForecastEntry {
	start := s.Now()
	out := make([]domain.ForecastEntry, 0, days)
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i)
		id := s.NewID()

		s.mu.Lock()
		o := outlooks[s.rng.Intn(len(outlooks))]
		e := domain.ForecastEntry{
			ID:         id,
			LocationID: location,
			Date:       day.Format("2006-01-02"),
			Day:        day.Weekday().String(),
			Temperature: domain.TemperatureRange{
				Min: float64(15 + s.rng.Intn(10)),
				Max: float64(25 + s.rng.Intn(10)),
			},
			Description: o.description,
			Icon:        o.icon,
			Condition:   o.condition,
			Humidity:    float64(40 + s.rng.Intn(40)),
			WindSpeed:   float64(5 + s.rng.Intn(20)),
		}
		if o.condition == domain.ConditionRainy {
			e.Precipitation = float64(60 + s.rng.Intn(41))
		} else {
			e.Precipitation = float64(s.rng.Intn(30))
		}
		s.mu.Unlock()

		out = append(out, e)
	}
	return out
}

// Alerts returns zero to two active advisories for location.
func (s *Source) Alerts(location string) []domain.WeatherAlert {
	s.mu.Lock()
	n := s.rng.Intn(3)
	picks := s.rng.Perm(len(alertTemplates))[:n]
	s.mu.Unlock()

	now := s.Now()
	out := make([]domain.WeatherAlert, 0, n)
	for _, idx := range picks {
		t := alertTemplates[idx]
		out = append(out, domain.WeatherAlert{
			ID:          s.NewID(),
			LocationID:  location,
			Type:        t.kind,
			Severity:    t.severity,
			Title:       t.title,
			Description: t.description,
			StartTime:   now,
			EndTime:     now.Add(time.Duration(t.hours) * time.Hour),
			Active:      true,
		})
	}
	return out
}

// Stats returns dashboard usage counters.
func (s *Source) Stats() domain.WeatherStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.WeatherStats{
		TotalLocations: 200 + s.rng.Intn(50),
		ActiveUsers:    10000 + s.rng.Intn(500),
		DataPoints:     1000000 + s.rng.Intn(10000),
		LastUpdated:    s.now().UTC(),
	}
}

func (s *Source) Cities() []domain.Location {
	out := make([]domain.Location, len(cities))
	copy(out, cities)
	return out
}

// PopularLocations returns the catalogue in display order.
func (s *Source) PopularLocations() []domain.Location {
	return s.Cities()
}

// Profile returns the mock account.
func (s *Source) Profile() domain.User {
	created := s.Now()
	def := cities[0].Name
	return domain.User{
		ID:    "1",
		Name:  "John Doe",
		Email: "john@example.com",
		Preferences: &domain.UserPreferences{
			Units:           domain.UnitsMetric,
			Language:        "en",
			Theme:           domain.ThemeAuto,
			Notifications:   true,
			DefaultLocation: &def,
		},
		CreatedAt: &created,
	}
}

// SavedLocations returns the three bookmarked cities of the mock account.
func (s *Source) SavedLocations() []domain.SavedLocation {
	out := make([]domain.SavedLocation, 0, 3)
	for i, c := range cities[:3] {
		lat, lng := c.Lat, c.Lng
		out = append(out, domain.SavedLocation{
			ID:        fmt.Sprint(i + 1),
			Name:      c.Name,
			Lat:       &lat,
			Lon:       &lng,
			IsDefault: i == 0,
		})
	}
	return out
}
