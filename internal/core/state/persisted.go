package state

import (
	"encoding/json"
	"fmt"

	"github.com/samirrijal/weatherpro/internal/core/domain"
)

// RecordName is the name the persisted record is stored under.
const RecordName = "weather-store"

// persistFormatVersion is written into every envelope. Bump it when the
// PersistedState layout changes incompatibly.
const persistFormatVersion = 0

// PersistedState is the subset of the dashboard state that survives a
// restart. Nothing else in Snapshot is ever written to storage.
type PersistedState struct {
	RecentSearches []domain.RecentSearch  `json:"recentSearches"`
	Preferences    domain.UserPreferences `json:"preferences"`
	MapView        domain.MapView         `json:"mapView"`
}

type persistEnvelope struct {
	State   PersistedState `json:"state"`
	Version int            `json:"version"`
}

// DefaultPreferences returns the preferences of a fresh dashboard.
func DefaultPreferences() domain.UserPreferences {
	return domain.UserPreferences{
		Units:         domain.UnitsMetric,
		Language:      "ko",
		Theme:         domain.ThemeAuto,
		Notifications: true,
	}
}

// DefaultMapView returns the initial viewport, centered on Seoul.
func DefaultMapView() domain.MapView {
	return domain.MapView{
		Center: domain.LatLng{37.5665, 126.9780},
		Zoom:   2,
	}
}

// DefaultPersisted is what a store hydrates to when no record exists.
func DefaultPersisted() PersistedState {
	return PersistedState{
		RecentSearches: []domain.RecentSearch{},
		Preferences:    DefaultPreferences(),
		MapView:        DefaultMapView(),
	}
}

// Encode serializes the persisted view into the stored record format.
func (p PersistedState) Encode() ([]byte, error) {
	env := persistEnvelope{State: p.clone(), Version: persistFormatVersion}
	if env.State.RecentSearches == nil {
		env.State.RecentSearches = []domain.RecentSearch{}
	}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", RecordName, err)
	}
	return data, nil
}

// DecodePersisted parses a stored record. Fields missing from the record
// keep their default values.
func DecodePersisted(data []byte) (PersistedState, error) {
	env := persistEnvelope{State: DefaultPersisted()}
	if err := json.Unmarshal(data, &env); err != nil {
		return PersistedState{}, fmt.Errorf("decode %s: %w", RecordName, err)
	}
	if env.Version > persistFormatVersion {
		return PersistedState{}, fmt.Errorf("decode %s: unsupported version %d", RecordName, env.Version)
	}
	if env.State.RecentSearches == nil {
		env.State.RecentSearches = []domain.RecentSearch{}
	}
	return env.State, nil
}

func (p PersistedState) clone() PersistedState {
	out := p
	out.RecentSearches = cloneSlice(p.RecentSearches)
	out.Preferences = clonePreferences(p.Preferences)
	return out
}
