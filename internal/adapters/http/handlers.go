package http

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/weatherpro/internal/core/domain"
	"github.com/samirrijal/weatherpro/internal/core/usecases"
	"github.com/samirrijal/weatherpro/internal/pkg/geospatial"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// bind parses the request body into dst and validates it. Any failure is
// reported as one error so callers can answer with their own message.
func bind(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return err
	}
	return validate.Struct(dst)
}

type registerRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type profileRequest struct {
	Name        string                  `json:"name"`
	Email       string                  `json:"email" validate:"omitempty,email"`
	Preferences *domain.UserPreferences `json:"preferences"`
}

type saveLocationRequest struct {
	Name string   `json:"name" validate:"required"`
	Lat  *float64 `json:"lat" validate:"omitempty,gte=-90,lte=90"`
	Lon  *float64 `json:"lon" validate:"omitempty,gte=-180,lte=180"`
}

// ---- Weather ----

// CurrentWeatherHandler returns current conditions for :location.
func CurrentWeatherHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		w, err := deps.Weather.Current(c.UserContext(), c.Params("location"))
		if err != nil {
			return errInternal(c, "Failed to fetch weather data", err)
		}
		return ok(c, w)
	}
}

// ForecastHandler returns a daily forecast for :location. ?days defaults to 7.
func ForecastHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		days := usecases.DefaultForecastDays
		if raw := c.Query("days"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 || n > usecases.MaxForecastDays {
				return errBadRequest(c, `Query parameter "days" must be an integer between 1 and 16`)
			}
			days = n
		}

		f, err := deps.Weather.Forecast(c.UserContext(), c.Params("location"), days)
		if errors.Is(err, usecases.ErrInvalidDays) {
			return errBadRequest(c, `Query parameter "days" must be an integer between 1 and 16`)
		}
		if err != nil {
			return errInternal(c, "Failed to fetch forecast data", err)
		}
		return ok(c, f)
	}
}

// AlertsHandler returns the active alerts for :location.
func AlertsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		alerts, err := deps.Weather.Alerts(c.UserContext(), c.Params("location"))
		if err != nil {
			return errInternal(c, "Failed to fetch weather alerts", err)
		}
		return ok(c, alerts)
	}
}

// StatsHandler returns dashboard usage counters.
func StatsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stats, err := deps.Weather.Stats(c.UserContext())
		if err != nil {
			return errInternal(c, "Failed to fetch weather stats", err)
		}
		return ok(c, stats)
	}
}

// ---- Locations ----

// SearchLocationsHandler filters the catalogue by ?q. Optional ?lat and ?lon
// sort by distance, and ?radius (meters) drops far results.
func SearchLocationsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := c.Query("q")
		if q == "" {
			return errBadRequest(c, `Query parameter "q" is required`)
		}
		if len(q) > 200 {
			return errBadRequest(c, "Query too long (max 200 characters)")
		}

		query := usecases.SearchQuery{Text: q, Limit: c.QueryInt("limit", 10)}
		if c.Query("lat") != "" || c.Query("lon") != "" {
			lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
			lon, errLon := strconv.ParseFloat(c.Query("lon"), 64)
			if errLat != nil || errLon != nil || !geospatial.Valid(lat, lon) {
				return errBadRequest(c, "Invalid coordinates")
			}
			query.Near = &domain.GeoPoint{Lat: lat, Lon: lon}
			query.RadiusMeters = c.QueryFloat("radius", 0)
		}

		results, err := deps.Locations.Search(c.UserContext(), query)
		if errors.Is(err, usecases.ErrEmptyQuery) {
			return errBadRequest(c, `Query parameter "q" is required`)
		}
		if err != nil {
			return errInternal(c, "Failed to search locations", err)
		}
		return ok(c, results)
	}
}

// PopularLocationsHandler returns the catalogue in display order.
func PopularLocationsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		locs, err := deps.Locations.Popular(c.UserContext(), c.QueryInt("limit", 0))
		if err != nil {
			return errInternal(c, "Failed to fetch popular locations", err)
		}
		return ok(c, locs)
	}
}

// LocationByCoordinatesHandler reverse-geocodes :lat/:lon to a placeholder.
func LocationByCoordinatesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lat, errLat := strconv.ParseFloat(c.Params("lat"), 64)
		lon, errLon := strconv.ParseFloat(c.Params("lon"), 64)
		if errLat != nil || errLon != nil {
			return errBadRequest(c, "Invalid coordinates")
		}

		loc, err := deps.Locations.ByCoordinates(c.UserContext(), lat, lon)
		if errors.Is(err, usecases.ErrInvalidCoordinates) {
			return errBadRequest(c, "Invalid coordinates")
		}
		if err != nil {
			return errInternal(c, "Failed to get location details", err)
		}
		return ok(c, loc)
	}
}

// ---- Auth ----

// RegisterHandler creates a mock account.
func RegisterHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req registerRequest
		if err := bind(c, &req); err != nil {
			return errBadRequest(c, "Email, password, and name are required")
		}

		u, err := deps.Auth.Register(c.UserContext(), usecases.RegisterInput{
			Email:    req.Email,
			Password: req.Password,
			Name:     req.Name,
		})
		if err != nil {
			return errInternal(c, "Failed to register user", err)
		}
		return okMessage(c, fiber.StatusCreated, u, "User registered successfully")
	}
}

// LoginHandler issues a placeholder token for any credentials.
func LoginHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if err := bind(c, &req); err != nil {
			return errBadRequest(c, "Email and password are required")
		}

		res, err := deps.Auth.Login(c.UserContext(), req.Email, req.Password)
		if err != nil {
			return errInternal(c, "Failed to authenticate user", err)
		}
		return okMessage(c, fiber.StatusOK, res, "Login successful")
	}
}

// LogoutHandler always succeeds.
func LogoutHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := deps.Auth.Logout(c.UserContext()); err != nil {
			return errInternal(c, "Failed to logout", err)
		}
		return okMessage(c, fiber.StatusOK, nil, "Logout successful")
	}
}

// ---- User ----

func ProfileHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, err := deps.Users.Profile(c.UserContext())
		if err != nil {
			return errInternal(c, "Failed to fetch user profile", err)
		}
		return ok(c, u)
	}
}

// UpdateProfileHandler applies the provided fields over the mock profile.
func UpdateProfileHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req profileRequest
		if len(c.Body()) > 0 {
			if err := bind(c, &req); err != nil {
				return errBadRequest(c, "Invalid profile update")
			}
		}

		u, err := deps.Users.UpdateProfile(c.UserContext(), usecases.ProfileUpdate{
			Name:        req.Name,
			Email:       req.Email,
			Preferences: req.Preferences,
		})
		if err != nil {
			return errInternal(c, "Failed to update user profile", err)
		}
		return okMessage(c, fiber.StatusOK, u, "Profile updated successfully")
	}
}

func SavedLocationsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		locs, err := deps.Users.SavedLocations(c.UserContext())
		if err != nil {
			return errInternal(c, "Failed to fetch saved locations", err)
		}
		return ok(c, locs)
	}
}

// SaveLocationHandler bookmarks a location. Only the name is required.
func SaveLocationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req saveLocationRequest
		if err := c.BodyParser(&req); err != nil || req.Name == "" {
			return errBadRequest(c, "Location name is required")
		}
		if err := validate.Struct(req); err != nil {
			return errBadRequest(c, "Invalid coordinates")
		}

		loc, err := deps.Users.SaveLocation(c.UserContext(), usecases.SaveLocationInput{
			Name: req.Name,
			Lat:  req.Lat,
			Lon:  req.Lon,
		})
		if err != nil {
			return errInternal(c, "Failed to save location", err)
		}
		return okMessage(c, fiber.StatusCreated, loc, "Location saved successfully")
	}
}
