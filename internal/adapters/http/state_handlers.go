package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/samirrijal/weatherpro/internal/core/domain"
	"github.com/samirrijal/weatherpro/internal/core/state"
	"github.com/samirrijal/weatherpro/internal/core/usecases"
	"github.com/samirrijal/weatherpro/internal/pkg/metrics"
)

type sessionCreated struct {
	Session string         `json:"session"`
	State   state.Snapshot `json:"state"`
}

type locationRequest struct {
	ID       string  `json:"id" validate:"required"`
	Name     string  `json:"name"`
	Country  string  `json:"country"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Timezone string  `json:"timezone"`
}

type recentSearchRequest struct {
	ID           string     `json:"id"`
	LocationID   string     `json:"locationId" validate:"required"`
	LocationName string     `json:"locationName"`
	Country      string     `json:"country"`
	Timestamp    *time.Time `json:"timestamp"`
}

type preferencesRequest struct {
	Units           *string `json:"units" validate:"omitempty,oneof=metric imperial"`
	Language        *string `json:"language" validate:"omitempty,oneof=ko en"`
	Theme           *string `json:"theme" validate:"omitempty,oneof=light dark auto"`
	Notifications   *bool   `json:"notifications"`
	DefaultLocation *string `json:"defaultLocation"`
}

func (r preferencesRequest) patch() state.PreferencesPatch {
	p := state.PreferencesPatch{
		Language:        r.Language,
		Notifications:   r.Notifications,
		DefaultLocation: r.DefaultLocation,
	}
	if r.Units != nil {
		u := domain.Units(*r.Units)
		p.Units = &u
	}
	if r.Theme != nil {
		t := domain.Theme(*r.Theme)
		p.Theme = &t
	}
	return p
}

type loadingRequest struct {
	Loading *bool `json:"loading" validate:"required"`
}

type errorRequest struct {
	Error *string `json:"error"`
}

type mapViewRequest struct {
	Center *domain.LatLng `json:"center" validate:"required"`
	Zoom   *float64       `json:"zoom" validate:"required"`
}

// withStore resolves :session and hands its store to fn.
func withStore(deps *Dependencies, fn func(c *fiber.Ctx, st *state.Store) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		st, err := deps.Sessions.Store(c.UserContext(), c.Params("session"))
		if err != nil {
			return sessionError(c, err)
		}
		return fn(c, st)
	}
}

func sessionError(c *fiber.Ctx, err error) error {
	if errors.Is(err, usecases.ErrInvalidSession) {
		return errBadRequest(c, "Invalid session id")
	}
	return errInternal(c, "Failed to load session state", err)
}

// CreateSessionHandler allocates a new session id with default state.
func CreateSessionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := deps.Sessions.NewSessionID()
		snap, err := deps.Sessions.Snapshot(c.UserContext(), id)
		if err != nil {
			return sessionError(c, err)
		}
		return okMessage(c, fiber.StatusCreated, sessionCreated{Session: id, State: snap}, "Session created")
	}
}

// GetStateHandler returns the full snapshot of :session.
func GetStateHandler(deps *Dependencies) fiber.Handler {
	return withStore(deps, func(c *fiber.Ctx, st *state.Store) error {
		return ok(c, st.Snapshot())
	})
}

// DeleteSessionHandler drops :session from memory and storage.
func DeleteSessionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := deps.Sessions.Delete(c.UserContext(), c.Params("session")); err != nil {
			if errors.Is(err, usecases.ErrInvalidSession) {
				return errBadRequest(c, "Invalid session id")
			}
			return errInternal(c, "Failed to delete session", err)
		}
		return okMessage(c, fiber.StatusOK, nil, "Session deleted")
	}
}

func SetLocationHandler(deps *Dependencies) fiber.Handler {
	return withStore(deps, func(c *fiber.Ctx, st *state.Store) error {
		var req locationRequest
		if err := bind(c, &req); err != nil {
			return errBadRequest(c, "Location id is required")
		}
		return ok(c, st.SetCurrentLocation(domain.Location(req)))
	})
}

func SetWeatherHandler(deps *Dependencies) fiber.Handler {
	return withStore(deps, func(c *fiber.Ctx, st *state.Store) error {
		var w domain.WeatherSnapshot
		if err := c.BodyParser(&w); err != nil {
			return errBadRequest(c, "Invalid weather payload")
		}
		if w.Condition != "" && !w.Condition.Valid() {
			return errBadRequest(c, "Unknown weather condition "+string(w.Condition))
		}
		return ok(c, st.SetCurrentWeather(w))
	})
}

func SetForecastHandler(deps *Dependencies) fiber.Handler {
	return withStore(deps, func(c *fiber.Ctx, st *state.Store) error {
		var days []domain.ForecastEntry
		if err := c.BodyParser(&days); err != nil {
			return errBadRequest(c, "Invalid forecast payload")
		}
		return ok(c, st.SetCurrentForecast(days))
	})
}

func RecentSearchesHandler(deps *Dependencies) fiber.Handler {
	return withStore(deps, func(c *fiber.Ctx, st *state.Store) error {
		return ok(c, st.Snapshot().RecentSearches)
	})
}

// AddRecentSearchHandler records a search. A missing id or timestamp is
// filled in.
func AddRecentSearchHandler(deps *Dependencies) fiber.Handler {
	return withStore(deps, func(c *fiber.Ctx, st *state.Store) error {
		var req recentSearchRequest
		if err := bind(c, &req); err != nil {
			return errBadRequest(c, "Location id is required")
		}

		entry := domain.RecentSearch{
			ID:           req.ID,
			LocationID:   req.LocationID,
			LocationName: req.LocationName,
			Country:      req.Country,
		}
		if entry.ID == "" {
			entry.ID = uuid.NewString()
		}
		if req.Timestamp != nil {
			entry.Timestamp = req.Timestamp.UTC()
		} else {
			entry.Timestamp = time.Now().UTC()
		}

		snap := st.AddRecentSearch(entry)
		metrics.SearchesRecorded.Inc()
		return okMessage(c, fiber.StatusCreated, snap.RecentSearches, "Search recorded")
	})
}

func ClearRecentSearchesHandler(deps *Dependencies) fiber.Handler {
	return withStore(deps, func(c *fiber.Ctx, st *state.Store) error {
		return ok(c, st.ClearRecentSearches().RecentSearches)
	})
}

// SetPreferencesHandler merges the provided fields into the preferences.
func SetPreferencesHandler(deps *Dependencies) fiber.Handler {
	return withStore(deps, func(c *fiber.Ctx, st *state.Store) error {
		var req preferencesRequest
		if err := bind(c, &req); err != nil {
			return errBadRequest(c, "Invalid preferences")
		}
		return ok(c, st.SetPreferences(req.patch()))
	})
}

func SetLoadingHandler(deps *Dependencies) fiber.Handler {
	return withStore(deps, func(c *fiber.Ctx, st *state.Store) error {
		var req loadingRequest
		if err := bind(c, &req); err != nil {
			return errBadRequest(c, `Field "loading" is required`)
		}
		return ok(c, st.SetLoading(*req.Loading))
	})
}

// SetErrorHandler sets the error message; a null or missing error clears it.
func SetErrorHandler(deps *Dependencies) fiber.Handler {
	return withStore(deps, func(c *fiber.Ctx, st *state.Store) error {
		var req errorRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return errBadRequest(c, "Invalid error payload")
			}
		}
		return ok(c, st.SetError(req.Error))
	})
}

func SetMapViewHandler(deps *Dependencies) fiber.Handler {
	return withStore(deps, func(c *fiber.Ctx, st *state.Store) error {
		var req mapViewRequest
		if err := bind(c, &req); err != nil {
			return errBadRequest(c, "Map center and zoom are required")
		}
		return ok(c, st.SetMapView(*req.Center, *req.Zoom))
	})
}

func ResetStateHandler(deps *Dependencies) fiber.Handler {
	return withStore(deps, func(c *fiber.Ctx, st *state.Store) error {
		return ok(c, st.ResetState())
	})
}
