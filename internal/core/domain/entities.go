package domain

import (
	"time"
)

// Condition is the normalized weather category shown by the dashboard.
type Condition string

const (
	ConditionClear        Condition = "clear"
	ConditionCloudy       Condition = "cloudy"
	ConditionPartlyCloudy Condition = "partly-cloudy"
	ConditionRainy        Condition = "rainy"
	ConditionSnowy        Condition = "snowy"
	ConditionStormy       Condition = "stormy"
	ConditionFoggy        Condition = "foggy"
	ConditionHazy         Condition = "hazy"
)

// Conditions lists every valid Condition in display order.
var Conditions = []Condition{
	ConditionClear,
	ConditionCloudy,
	ConditionPartlyCloudy,
	ConditionRainy,
	ConditionSnowy,
	ConditionStormy,
	ConditionFoggy,
	ConditionHazy,
}

// Valid reports whether c is one of the known conditions.
func (c Condition) Valid() bool {
	for _, known := range Conditions {
		if c == known {
			return true
		}
	}
	return false
}

// Location is a place the user can search for or select on the map.
type Location struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Country  string  `json:"country"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Timezone string  `json:"timezone"`
}

// WeatherSnapshot is the current conditions for one location.
type WeatherSnapshot struct {
	ID            string    `json:"id"`
	LocationID    string    `json:"locationId"`
	Location      string    `json:"location,omitempty"`
	Temperature   float64   `json:"temperature"`
	FeelsLike     float64   `json:"feelsLike"`
	Humidity      float64   `json:"humidity"`
	Pressure      float64   `json:"pressure"`
	WindSpeed     float64   `json:"windSpeed"`
	WindDirection float64   `json:"windDirection"`
	Visibility    float64   `json:"visibility"`
	Description   string    `json:"description"`
	Icon          string    `json:"icon"`
	Condition     Condition `json:"condition"`
	Timestamp     time.Time `json:"timestamp"`
}

// TemperatureRange is a daily min/max pair.
type TemperatureRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// ForecastEntry is one day of a forecast sequence.
type ForecastEntry struct {
	ID            string           `json:"id"`
	LocationID    string           `json:"locationId"`
	Date          string           `json:"date"` // YYYY-MM-DD
	Day           string           `json:"day"`
	Temperature   TemperatureRange `json:"temperature"`
	Description   string           `json:"description"`
	Icon          string           `json:"icon"`
	Condition     Condition        `json:"condition"`
	Humidity      float64          `json:"humidity"`
	WindSpeed     float64          `json:"windSpeed"`
	Precipitation float64          `json:"precipitation"` // probability, percent
}

// RecentSearch records a location the user looked up.
type RecentSearch struct {
	ID           string    `json:"id"`
	LocationID   string    `json:"locationId"`
	LocationName string    `json:"locationName"`
	Country      string    `json:"country"`
	Timestamp    time.Time `json:"timestamp"`
}

// Units is the measurement system used for display.
type Units string

const (
	UnitsMetric   Units = "metric"
	UnitsImperial Units = "imperial"
)

// Theme is the dashboard color scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	ThemeAuto  Theme = "auto"
)

// UserPreferences holds display settings for a dashboard user.
type UserPreferences struct {
	Units           Units   `json:"units"`
	Language        string  `json:"language"`
	Theme           Theme   `json:"theme"`
	Notifications   bool    `json:"notifications"`
	DefaultLocation *string `json:"defaultLocation,omitempty"`
}

// User is the mock account returned by the auth and profile endpoints.
type User struct {
	ID          string           `json:"id"`
	Email       string           `json:"email"`
	Name        string           `json:"name"`
	Preferences *UserPreferences `json:"preferences,omitempty"`
	CreatedAt   *time.Time       `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time       `json:"updatedAt,omitempty"`
}

// SavedLocation is a location bookmarked by a user.
type SavedLocation struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Lat       *float64   `json:"lat"`
	Lon       *float64   `json:"lon"`
	IsDefault bool       `json:"isDefault"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// WeatherAlert is an advisory issued for a location.
type WeatherAlert struct {
	ID          string    `json:"id"`
	LocationID  string    `json:"locationId"`
	Type        string    `json:"type"`     // warning | watch | advisory
	Severity    string    `json:"severity"` // low | medium | high | extreme
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	Active      bool      `json:"active"`
}

// WeatherStats summarizes dashboard usage.
type WeatherStats struct {
	TotalLocations int       `json:"totalLocations"`
	ActiveUsers    int       `json:"activeUsers"`
	DataPoints     int       `json:"dataPoints"`
	LastUpdated    time.Time `json:"lastUpdated"`
}

// Forecast wraps a forecast sequence with the location it was requested for.
type Forecast struct {
	Location string          `json:"location"`
	Days     []ForecastEntry `json:"forecast"`
}
