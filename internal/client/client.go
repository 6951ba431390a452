// Package client is a thin Go client for the WeatherPro HTTP API. Each
// method maps to one route and unwraps the response envelope.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/samirrijal/weatherpro/internal/core/domain"
)

// DefaultBaseURL points at a locally running API.
const DefaultBaseURL = "http://localhost:5000/api"

const (
	defaultTimeout       = 10 * time.Second
	defaultForecastDays  = 5
	defaultSearchLimit   = 10
	maxErrorBodyReadSize = 64 << 10
)

// ErrNoSession is returned by the recent-search methods when the client was
// built without WithSession.
var ErrNoSession = errors.New("client: no dashboard session configured")

// StatusError is returned for any non-2xx response.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	msg := strings.TrimSpace(string(e.Body))
	var env struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(e.Body, &env) == nil && env.Error != "" {
		msg = env.Error
	}
	if msg == "" {
		return fmt.Sprintf("client: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("client: status %d: %s", e.StatusCode, msg)
}

// TokenStore holds the bearer token attached to requests.
type TokenStore interface {
	Token() string
	SetToken(token string)
	ClearToken()
}

// MemoryTokenStore is a TokenStore kept in process memory.
type MemoryTokenStore struct {
	mu    sync.RWMutex
	token string
}

func (m *MemoryTokenStore) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

func (m *MemoryTokenStore) SetToken(token string) {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
}

func (m *MemoryTokenStore) ClearToken() { m.SetToken("") }

// Client calls the WeatherPro API.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	tokens         TokenStore
	onUnauthorized func()
	session        string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Its Timeout is kept.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout. A client passed to
// WithHTTPClient is copied, not changed.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.httpClient
		hc.Timeout = d
		c.httpClient = &hc
	}
}

func WithTokenStore(ts TokenStore) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithOnUnauthorized registers fn to run after a 401 cleared the token.
func WithOnUnauthorized(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// WithSession selects the dashboard session used by RecentSearches and
// AddRecentSearch.
func WithSession(id string) Option {
	return func(c *Client) { c.session = id }
}

// New returns a client for the API rooted at baseURL, e.g.
// "http://localhost:5000/api". An empty baseURL means DefaultBaseURL.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		tokens:     &MemoryTokenStore{},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Tokens returns the client's token store.
func (c *Client) Tokens() TokenStore { return c.tokens }

type envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

func do[T any](ctx context.Context, c *Client, method, path string, body any) (T, error) {
	var zero T

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return zero, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return zero, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.tokens.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return zero, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyReadSize))
		if resp.StatusCode == http.StatusUnauthorized {
			c.tokens.ClearToken()
			if c.onUnauthorized != nil {
				c.onUnauthorized()
			}
		}
		return zero, &StatusError{StatusCode: resp.StatusCode, Body: raw}
	}

	var env envelope[T]
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return zero, fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return env.Data, nil
}

// ---- Weather ----

func (c *Client) CurrentWeather(ctx context.Context, location string) (domain.WeatherSnapshot, error) {
	return do[domain.WeatherSnapshot](ctx, c, http.MethodGet, "/weather/current/"+url.PathEscape(location), nil)
}

// Forecast fetches days of forecast; days <= 0 asks for 5.
func (c *Client) Forecast(ctx context.Context, location string, days int) (domain.Forecast, error) {
	if days <= 0 {
		days = defaultForecastDays
	}
	path := "/weather/forecast/" + url.PathEscape(location) + "?days=" + strconv.Itoa(days)
	return do[domain.Forecast](ctx, c, http.MethodGet, path, nil)
}

// ---- Locations ----

// SearchLocations runs a name search; limit <= 0 asks for 10.
func (c *Client) SearchLocations(ctx context.Context, query string, limit int) ([]domain.Location, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	q := url.Values{"q": {query}, "limit": {strconv.Itoa(limit)}}
	return do[[]domain.Location](ctx, c, http.MethodGet, "/locations/search?"+q.Encode(), nil)
}

func (c *Client) LocationByCoords(ctx context.Context, lat, lng float64) (domain.Location, error) {
	path := "/locations/coordinates/" +
		strconv.FormatFloat(lat, 'f', -1, 64) + "/" +
		strconv.FormatFloat(lng, 'f', -1, 64)
	return do[domain.Location](ctx, c, http.MethodGet, path, nil)
}

// ---- Auth ----

// LoginResult is the payload of a successful login.
type LoginResult struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

// Login authenticates and stores the returned token.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	res, err := do[LoginResult](ctx, c, http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return LoginResult{}, err
	}
	c.tokens.SetToken(res.Token)
	return res, nil
}

func (c *Client) Register(ctx context.Context, email, password, name string) (domain.User, error) {
	return do[domain.User](ctx, c, http.MethodPost, "/auth/register", map[string]string{
		"email":    email,
		"password": password,
		"name":     name,
	})
}

// Logout drops the stored token once the server acknowledged the call.
func (c *Client) Logout(ctx context.Context) error {
	if _, err := do[json.RawMessage](ctx, c, http.MethodPost, "/auth/logout", nil); err != nil {
		return err
	}
	c.tokens.ClearToken()
	return nil
}

// ---- User ----

// ProfileUpdate lists the profile fields to change. Nil fields are omitted.
type ProfileUpdate struct {
	Name        *string                 `json:"name,omitempty"`
	Email       *string                 `json:"email,omitempty"`
	Preferences *domain.UserPreferences `json:"preferences,omitempty"`
}

func (c *Client) Profile(ctx context.Context) (domain.User, error) {
	return do[domain.User](ctx, c, http.MethodGet, "/user/profile", nil)
}

func (c *Client) UpdateProfile(ctx context.Context, u ProfileUpdate) (domain.User, error) {
	return do[domain.User](ctx, c, http.MethodPut, "/user/profile", u)
}

func (c *Client) SavedLocations(ctx context.Context) ([]domain.SavedLocation, error) {
	return do[[]domain.SavedLocation](ctx, c, http.MethodGet, "/user/locations", nil)
}

// SaveLocation bookmarks name; lat and lon may be nil.
func (c *Client) SaveLocation(ctx context.Context, name string, lat, lon *float64) (domain.SavedLocation, error) {
	body := struct {
		Name string   `json:"name"`
		Lat  *float64 `json:"lat,omitempty"`
		Lon  *float64 `json:"lon,omitempty"`
	}{name, lat, lon}
	return do[domain.SavedLocation](ctx, c, http.MethodPost, "/user/locations", body)
}

// ---- Recent searches ----

func (c *Client) searchesPath() (string, error) {
	if c.session == "" {
		return "", ErrNoSession
	}
	return "/state/" + url.PathEscape(c.session) + "/searches", nil
}

// RecentSearches lists the session's searches, newest first.
func (c *Client) RecentSearches(ctx context.Context) ([]domain.RecentSearch, error) {
	path, err := c.searchesPath()
	if err != nil {
		return nil, err
	}
	return do[[]domain.RecentSearch](ctx, c, http.MethodGet, path, nil)
}

// AddRecentSearch records loc as the newest search and returns the updated
// list.
func (c *Client) AddRecentSearch(ctx context.Context, loc domain.Location) ([]domain.RecentSearch, error) {
	path, err := c.searchesPath()
	if err != nil {
		return nil, err
	}
	body := struct {
		LocationID   string `json:"locationId"`
		LocationName string `json:"locationName"`
		Country      string `json:"country"`
	}{loc.ID, loc.Name, loc.Country}
	return do[[]domain.RecentSearch](ctx, c, http.MethodPost, path, body)
}
