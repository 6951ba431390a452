// Package state holds the dashboard UI state: the current selection, the
// recent-search history, user preferences and the map viewport.
//
// A Store is an explicit instance. Every action runs to completion under the
// store lock, so readers never observe a half-applied update. Actions cannot
// fail; persistence errors are logged and left to the SaveFunc to report.
// Listeners run on their own goroutines and never hold up an action.
package state

import (
	"log/slog"
	"sync"

	"github.com/samirrijal/weatherpro/internal/core/domain"
)

// MaxRecentSearches caps the recent-search history.
const MaxRecentSearches = 10

// Snapshot is a point-in-time copy of the full dashboard state.
type Snapshot struct {
	Version         uint64                  `json:"version"`
	CurrentLocation *domain.Location        `json:"currentLocation"`
	CurrentWeather  *domain.WeatherSnapshot `json:"currentWeather"`
	CurrentForecast []domain.ForecastEntry  `json:"currentForecast"`
	RecentSearches  []domain.RecentSearch   `json:"recentSearches"`
	Preferences     domain.UserPreferences  `json:"preferences"`
	IsLoading       bool                    `json:"isLoading"`
	Error           *string                 `json:"error"`
	MapView         domain.MapView          `json:"mapView"`
}

// Persisted returns the persisted view of the snapshot.
func (s Snapshot) Persisted() PersistedState {
	return PersistedState{
		RecentSearches: cloneSlice(s.RecentSearches),
		Preferences:    clonePreferences(s.Preferences),
		MapView:        s.MapView,
	}
}

// PreferencesPatch carries the fields of a preferences update. Nil fields
// are left unchanged.
type PreferencesPatch struct {
	Units           *domain.Units `json:"units,omitempty"`
	Language        *string       `json:"language,omitempty"`
	Theme           *domain.Theme `json:"theme,omitempty"`
	Notifications   *bool         `json:"notifications,omitempty"`
	DefaultLocation *string       `json:"defaultLocation,omitempty"`
}

// SaveFunc writes the persisted view. version increases with every action.
type SaveFunc func(version uint64, p PersistedState) error

// Option configures a Store.
type Option func(*Store)

// WithPersisted hydrates the store from a previously saved record.
func WithPersisted(p PersistedState) Option {
	return func(s *Store) {
		searches := cloneSlice(p.RecentSearches)
		if len(searches) > MaxRecentSearches {
			searches = searches[:MaxRecentSearches]
		}
		if searches == nil {
			searches = []domain.RecentSearch{}
		}
		s.data.RecentSearches = searches
		s.data.Preferences = clonePreferences(p.Preferences)
		s.data.MapView = p.MapView
	}
}

// WithSaver installs the persistence hook called after every action that
// touches the persisted fields.
func WithSaver(fn SaveFunc) Option {
	return func(s *Store) { s.save = fn }
}

// WithLogger sets the logger used for persistence failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// Store is the dashboard state container.
type Store struct {
	mu   sync.Mutex
	data Snapshot

	saveMu       sync.Mutex
	savedVersion uint64
	save         SaveFunc

	listenersMu sync.RWMutex
	listeners   map[int]*listener
	nextID      int
	closed      bool

	logger *slog.Logger
}

// New creates a store at its default state.
func New(opts ...Option) *Store {
	p := DefaultPersisted()
	s := &Store{
		data: Snapshot{
			CurrentForecast: []domain.ForecastEntry{},
			RecentSearches:  p.RecentSearches,
			Preferences:     p.Preferences,
			MapView:         p.MapView,
		},
		listeners: make(map[int]*listener),
		logger:    slog.Default(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.clone()
}

// Persisted returns the persisted view of the current state.
func (s *Store) Persisted() PersistedState {
	return s.Snapshot().Persisted()
}

// Subscribe registers fn to receive the snapshots produced by later actions.
// fn runs on a goroutine owned by the listener. When fn falls behind, only
// the newest pending snapshot is delivered, and versions never go backwards.
// The returned func removes the listener.
func (s *Store) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	_, unsubscribe = s.addListener(fn)
	return unsubscribe
}

// Watch is Subscribe with the current snapshot delivered first.
func (s *Store) Watch(fn func(Snapshot)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, unsubscribe := s.addListener(fn)
	if l != nil {
		l.offer(s.data.clone())
	}
	return unsubscribe
}

// Close stops every listener. Actions still apply and persist afterwards,
// but nobody is notified and Subscribe becomes a no-op.
func (s *Store) Close() {
	s.listenersMu.Lock()
	ls := s.listeners
	s.listeners = make(map[int]*listener)
	s.closed = true
	s.listenersMu.Unlock()

	for _, l := range ls {
		l.close()
	}
}

func (s *Store) addListener(fn func(Snapshot)) (*listener, func()) {
	s.listenersMu.Lock()
	if s.closed {
		s.listenersMu.Unlock()
		return nil, func() {}
	}
	id := s.nextID
	s.nextID++
	l := newListener(fn)
	s.listeners[id] = l
	s.listenersMu.Unlock()

	return l, func() {
		s.listenersMu.Lock()
		delete(s.listeners, id)
		s.listenersMu.Unlock()
		l.close()
	}
}

// SetCurrentLocation replaces the selected location. Weather and forecast
// of a previous location are left in place.
func (s *Store) SetCurrentLocation(loc domain.Location) Snapshot {
	return s.update(false, func(d *Snapshot) {
		l := loc
		d.CurrentLocation = &l
	})
}

// SetCurrentWeather replaces the current conditions.
func (s *Store) SetCurrentWeather(w domain.WeatherSnapshot) Snapshot {
	return s.update(false, func(d *Snapshot) {
		cw := w
		d.CurrentWeather = &cw
	})
}

// SetCurrentForecast replaces the forecast sequence.
func (s *Store) SetCurrentForecast(f []domain.ForecastEntry) Snapshot {
	return s.update(false, func(d *Snapshot) {
		d.CurrentForecast = cloneSlice(f)
		if d.CurrentForecast == nil {
			d.CurrentForecast = []domain.ForecastEntry{}
		}
	})
}

// AddRecentSearch moves e to the front of the history, dropping any older
// entry for the same location and keeping at most MaxRecentSearches.
func (s *Store) AddRecentSearch(e domain.RecentSearch) Snapshot {
	return s.update(true, func(d *Snapshot) {
		d.RecentSearches = prependRecent(d.RecentSearches, e)
	})
}

// ClearRecentSearches empties the history.
func (s *Store) ClearRecentSearches() Snapshot {
	return s.update(true, func(d *Snapshot) {
		d.RecentSearches = []domain.RecentSearch{}
	})
}

// SetPreferences merges the non-nil fields of patch into the preferences.
func (s *Store) SetPreferences(patch PreferencesPatch) Snapshot {
	return s.update(true, func(d *Snapshot) {
		d.Preferences = mergePreferences(d.Preferences, patch)
	})
}

// SetLoading sets the loading flag. The error field is not touched.
func (s *Store) SetLoading(loading bool) Snapshot {
	return s.update(false, func(d *Snapshot) {
		d.IsLoading = loading
	})
}

// SetError sets or clears (nil) the error message. The loading flag is not
// touched.
func (s *Store) SetError(msg *string) Snapshot {
	return s.update(false, func(d *Snapshot) {
		if msg == nil {
			d.Error = nil
			return
		}
		m := *msg
		d.Error = &m
	})
}

// SetMapView replaces the map viewport. Values are not validated.
func (s *Store) SetMapView(center domain.LatLng, zoom float64) Snapshot {
	return s.update(true, func(d *Snapshot) {
		d.MapView = domain.MapView{Center: center, Zoom: zoom}
	})
}

// ResetState clears the current selection and transient flags and restores
// the default map view. Recent searches and preferences are kept.
func (s *Store) ResetState() Snapshot {
	return s.update(true, func(d *Snapshot) {
		d.CurrentLocation = nil
		d.CurrentWeather = nil
		d.CurrentForecast = []domain.ForecastEntry{}
		d.IsLoading = false
		d.Error = nil
		d.MapView = DefaultMapView()
	})
}

func (s *Store) update(persist bool, fn func(*Snapshot)) Snapshot {
	s.mu.Lock()
	fn(&s.data)
	s.data.Version++
	snap := s.data.clone()
	s.mu.Unlock()

	if persist {
		s.persist(snap)
	}
	s.notify(snap)
	return snap
}

func (s *Store) persist(snap Snapshot) {
	if s.save == nil {
		return
	}

	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	// A concurrent action may already have written a newer version.
	if snap.Version <= s.savedVersion {
		return
	}
	if err := s.save(snap.Version, snap.Persisted()); err != nil {
		s.logger.Warn("persist dashboard state", "record", RecordName, "version", snap.Version, "error", err)
		return
	}
	s.savedVersion = snap.Version
}

func (s *Store) notify(snap Snapshot) {
	s.listenersMu.RLock()
	defer s.listenersMu.RUnlock()
	for _, l := range s.listeners {
		l.offer(snap.clone())
	}
}

// listener holds at most one undelivered snapshot, the newest offered.
type listener struct {
	fn   func(Snapshot)
	wake chan struct{}
	stop chan struct{}
	once sync.Once

	mu      sync.Mutex
	pending *Snapshot
}

func newListener(fn func(Snapshot)) *listener {
	l := &listener{
		fn:   fn,
		wake: make(chan struct{}, 1),
		stop: make(chan struct{}),
	}
	go l.run()
	return l
}

func (l *listener) offer(snap Snapshot) {
	l.mu.Lock()
	if l.pending == nil || snap.Version > l.pending.Version {
		l.pending = &snap
	}
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *listener) run() {
	var (
		last      uint64
		delivered bool
	)
	for {
		select {
		case <-l.stop:
			return
		case <-l.wake:
		}

		l.mu.Lock()
		snap := l.pending
		l.pending = nil
		l.mu.Unlock()

		if snap == nil || delivered && snap.Version <= last {
			continue
		}
		select {
		case <-l.stop:
			return
		default:
		}
		last, delivered = snap.Version, true
		l.fn(*snap)
	}
}

func (l *listener) close() {
	l.once.Do(func() { close(l.stop) })
}

func prependRecent(list []domain.RecentSearch, e domain.RecentSearch) []domain.RecentSearch {
	out := make([]domain.RecentSearch, 0, MaxRecentSearches)
	out = append(out, e)
	for _, r := range list {
		if len(out) == MaxRecentSearches {
			break
		}
		if r.LocationID == e.LocationID {
			continue
		}
		out = append(out, r)
	}
	return out
}

func mergePreferences(p domain.UserPreferences, patch PreferencesPatch) domain.UserPreferences {
	out := clonePreferences(p)
	if patch.Units != nil {
		out.Units = *patch.Units
	}
	if patch.Language != nil {
		out.Language = *patch.Language
	}
	if patch.Theme != nil {
		out.Theme = *patch.Theme
	}
	if patch.Notifications != nil {
		out.Notifications = *patch.Notifications
	}
	if patch.DefaultLocation != nil {
		v := *patch.DefaultLocation
		out.DefaultLocation = &v
	}
	return out
}

func (s Snapshot) clone() Snapshot {
	out := s
	if s.CurrentLocation != nil {
		l := *s.CurrentLocation
		out.CurrentLocation = &l
	}
	if s.CurrentWeather != nil {
		w := *s.CurrentWeather
		out.CurrentWeather = &w
	}
	if s.Error != nil {
		e := *s.Error
		out.Error = &e
	}
	out.CurrentForecast = cloneSlice(s.CurrentForecast)
	out.RecentSearches = cloneSlice(s.RecentSearches)
	out.Preferences = clonePreferences(s.Preferences)
	return out
}

func clonePreferences(p domain.UserPreferences) domain.UserPreferences {
	out := p
	if p.DefaultLocation != nil {
		v := *p.DefaultLocation
		out.DefaultLocation = &v
	}
	return out
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
