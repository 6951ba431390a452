// Package memory keeps dashboard state in process memory. Records are lost
// on restart.
package memory

import (
	"context"
	"sync"

	"github.com/samirrijal/weatherpro/internal/core/ports"
	"github.com/samirrijal/weatherpro/internal/core/state"
)

// StateRepository implements ports.StateRepository with a map of encoded
// records, so callers never share memory with the stored copy.
type StateRepository struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewStateRepository creates an empty repository.
func NewStateRepository() *StateRepository {
	return &StateRepository{data: make(map[string][]byte)}
}

func (r *StateRepository) Load(_ context.Context, session string) (state.PersistedState, error) {
	r.mu.RLock()
	raw, ok := r.data[session]
	r.mu.RUnlock()
	if !ok {
		return state.PersistedState{}, ports.ErrNotFound
	}
	return state.DecodePersisted(raw)
}

func (r *StateRepository) Save(_ context.Context, session string, p state.PersistedState) error {
	raw, err := p.Encode()
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.data[session] = raw
	r.mu.Unlock()
	return nil
}

func (r *StateRepository) Delete(_ context.Context, session string) error {
	r.mu.Lock()
	delete(r.data, session)
	r.mu.Unlock()
	return nil
}

func (r *StateRepository) Ping(context.Context) error { return nil }

// Len returns the number of stored sessions.
func (r *StateRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.data)
}
