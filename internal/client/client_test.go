package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/weatherpro/internal/client"
	"github.com/samirrijal/weatherpro/internal/core/domain"
)

type recorded struct {
	method string
	uri    string
	auth   string
	body   map[string]any
}

// newServer answers every request with status and payload and records the
// last request it saw.
func newServer(t *testing.T, status int, payload string) (*httptest.Server, *recorded) {
	t.Helper()
	last := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		last.method = r.Method
		last.uri = r.URL.RequestURI()
		last.auth = r.Header.Get("Authorization")
		last.body = nil
		if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
			_ = json.Unmarshal(raw, &last.body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, payload)
	}))
	t.Cleanup(srv.Close)
	return srv, last
}

func TestClient_CurrentWeather(t *testing.T) {
	srv, last := newServer(t, http.StatusOK,
		`{"success":true,"data":{"id":"w1","locationId":"Seoul","temperature":21.5,"condition":"cloudy"}}`)

	c := client.New(srv.URL + "/api/")
	w, err := c.CurrentWeather(context.Background(), "New York")
	require.NoError(t, err)

	assert.Equal(t, "GET", last.method)
	assert.Equal(t, "/api/weather/current/New%20York", last.uri)
	assert.Empty(t, last.auth)
	assert.Equal(t, 21.5, w.Temperature)
	assert.Equal(t, domain.ConditionCloudy, w.Condition)
}

func TestClient_ForecastDefaultsToFiveDays(t *testing.T) {
	srv, last := newServer(t, http.StatusOK,
		`{"success":true,"data":{"location":"Seoul","forecast":[{"date":"2025-01-20"},{"date":"2025-01-21"}]}}`)

	c := client.New(srv.URL + "/api")
	f, err := c.Forecast(context.Background(), "Seoul", 0)
	require.NoError(t, err)
	assert.Equal(t, "/api/weather/forecast/Seoul?days=5", last.uri)
	assert.Equal(t, "Seoul", f.Location)
	assert.Len(t, f.Days, 2)

	_, err = c.Forecast(context.Background(), "Seoul", 3)
	require.NoError(t, err)
	assert.Equal(t, "/api/weather/forecast/Seoul?days=3", last.uri)
}

func TestClient_SearchLocations(t *testing.T) {
	srv, last := newServer(t, http.StatusOK,
		`{"success":true,"data":[{"id":"5","name":"Paris, France","country":"France"}]}`)

	c := client.New(srv.URL + "/api")
	locs, err := c.SearchLocations(context.Background(), "par is", 0)
	require.NoError(t, err)
	assert.Equal(t, "/api/locations/search?limit=10&q=par+is", last.uri)
	require.Len(t, locs, 1)
	assert.Equal(t, "France", locs[0].Country)
}

func TestClient_LocationByCoords(t *testing.T) {
	srv, last := newServer(t, http.StatusOK,
		`{"success":true,"data":{"id":"x","name":"Unknown Location","lat":37.5665,"lng":126.978}}`)

	c := client.New(srv.URL + "/api")
	loc, err := c.LocationByCoords(context.Background(), 37.5665, 126.978)
	require.NoError(t, err)
	assert.Equal(t, "/api/locations/coordinates/37.5665/126.978", last.uri)
	assert.Equal(t, "Unknown Location", loc.Name)
}

func TestClient_LoginStoresTokenForLaterRequests(t *testing.T) {
	srv, last := newServer(t, http.StatusOK,
		`{"success":true,"data":{"token":"mock-jwt-token-abc123xyz","user":{"id":"1","email":"a@b.c","name":"John Doe"}},"message":"Login successful"}`)

	c := client.New(srv.URL + "/api")
	res, err := c.Login(context.Background(), "a@b.c", "secret")
	require.NoError(t, err)

	assert.Equal(t, "POST", last.method)
	assert.Equal(t, map[string]any{"email": "a@b.c", "password": "secret"}, last.body)
	assert.Equal(t, "mock-jwt-token-abc123xyz", res.Token)
	assert.Equal(t, "mock-jwt-token-abc123xyz", c.Tokens().Token())

	_, err = c.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer mock-jwt-token-abc123xyz", last.auth)
}

func TestClient_RegisterAndLogout(t *testing.T) {
	srv, last := newServer(t, http.StatusCreated,
		`{"success":true,"data":{"id":"7","email":"n@x.y","name":"New"},"message":"User registered successfully"}`)

	ts := &client.MemoryTokenStore{}
	ts.SetToken("stale")
	c := client.New(srv.URL+"/api", client.WithTokenStore(ts))

	u, err := c.Register(context.Background(), "n@x.y", "pw", "New")
	require.NoError(t, err)
	assert.Equal(t, "/api/auth/register", last.uri)
	assert.Equal(t, "New", u.Name)

	require.NoError(t, c.Logout(context.Background()))
	assert.Equal(t, "/api/auth/logout", last.uri)
	assert.Empty(t, ts.Token())
}

func TestClient_UpdateProfileOmitsUnsetFields(t *testing.T) {
	srv, last := newServer(t, http.StatusOK, `{"success":true,"data":{"id":"1","name":"Jane"}}`)

	name := "Jane"
	c := client.New(srv.URL + "/api")
	u, err := c.UpdateProfile(context.Background(), client.ProfileUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "PUT", last.method)
	assert.Equal(t, map[string]any{"name": "Jane"}, last.body)
	assert.Equal(t, "Jane", u.Name)
}

func TestClient_SavedLocations(t *testing.T) {
	srv, last := newServer(t, http.StatusOK,
		`{"success":true,"data":[{"id":"1","name":"Home","lat":37.5,"lon":127,"isDefault":true}]}`)

	c := client.New(srv.URL + "/api")
	locs, err := c.SavedLocations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/api/user/locations", last.uri)
	require.Len(t, locs, 1)
	assert.True(t, locs[0].IsDefault)

	lat := 35.0
	_, err = c.SaveLocation(context.Background(), "Office", &lat, nil)
	require.NoError(t, err)
	assert.Equal(t, "POST", last.method)
	assert.Equal(t, map[string]any{"name": "Office", "lat": 35.0}, last.body)
}

func TestClient_RecentSearchesUseSession(t *testing.T) {
	srv, last := newServer(t, http.StatusCreated,
		`{"success":true,"data":[{"id":"r1","locationId":"3","locationName":"Tokyo, Japan","country":"Japan"}]}`)

	c := client.New(srv.URL+"/api", client.WithSession("dash-1"))
	list, err := c.AddRecentSearch(context.Background(), domain.Location{ID: "3", Name: "Tokyo, Japan", Country: "Japan"})
	require.NoError(t, err)
	assert.Equal(t, "/api/state/dash-1/searches", last.uri)
	assert.Equal(t, map[string]any{"locationId": "3", "locationName": "Tokyo, Japan", "country": "Japan"}, last.body)
	require.Len(t, list, 1)

	_, err = c.RecentSearches(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "GET", last.method)
}

func TestClient_RecentSearchesWithoutSession(t *testing.T) {
	c := client.New("http://127.0.0.1:1/api")
	_, err := c.RecentSearches(context.Background())
	assert.ErrorIs(t, err, client.ErrNoSession)
	_, err = c.AddRecentSearch(context.Background(), domain.Location{ID: "1"})
	assert.ErrorIs(t, err, client.ErrNoSession)
}

func TestClient_StatusError(t *testing.T) {
	srv, _ := newServer(t, http.StatusBadRequest, `{"success":false,"error":"Query parameter \"q\" is required"}`)

	c := client.New(srv.URL + "/api")
	_, err := c.SearchLocations(context.Background(), "", 0)

	var se *client.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadRequest, se.StatusCode)
	assert.Contains(t, string(se.Body), "is required")
	assert.Contains(t, err.Error(), `Query parameter "q" is required`)
}

func TestClient_RateLimitTextBody(t *testing.T) {
	srv, _ := newServer(t, http.StatusTooManyRequests, "Too many requests from this IP, please try again later.")

	_, err := client.New(srv.URL + "/api").Profile(context.Background())
	var se *client.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusTooManyRequests, se.StatusCode)
	assert.Contains(t, err.Error(), "Too many requests")
}

func TestClient_UnauthorizedClearsTokenAndFiresHook(t *testing.T) {
	srv, last := newServer(t, http.StatusUnauthorized, `{"success":false,"error":"Unauthorized"}`)

	var fired atomic.Int32
	ts := &client.MemoryTokenStore{}
	ts.SetToken("mock-jwt-token-expired00")
	c := client.New(srv.URL+"/api",
		client.WithTokenStore(ts),
		client.WithOnUnauthorized(func() { fired.Add(1) }),
	)

	_, err := c.Profile(context.Background())
	var se *client.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnauthorized, se.StatusCode)
	assert.Equal(t, "Bearer mock-jwt-token-expired00", last.auth)
	assert.Empty(t, ts.Token())
	assert.Equal(t, int32(1), fired.Load())
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	c := client.New(srv.URL+"/api", client.WithTimeout(50*time.Millisecond))
	_, err := c.CurrentWeather(context.Background(), "Seoul")
	require.Error(t, err)

	var se *client.StatusError
	assert.False(t, errors.As(err, &se))
}

func TestClient_TimeoutLeavesCallerClientAlone(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `{"success":true,"data":{"id":"w1"}}`)
	hc := &http.Client{Timeout: time.Minute}

	c := client.New(srv.URL+"/api", client.WithHTTPClient(hc), client.WithTimeout(time.Second))
	_, err := c.CurrentWeather(context.Background(), "Seoul")
	require.NoError(t, err)
	assert.Equal(t, time.Minute, hc.Timeout)
}

func TestClient_ContextCanceled(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `{"success":true,"data":{}}`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.New(srv.URL + "/api").Profile(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
