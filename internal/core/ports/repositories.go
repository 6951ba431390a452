package ports

import (
	"context"
	"errors"

	"github.com/samirrijal/weatherpro/internal/core/state"
)

// ErrNotFound is returned by repositories when no record exists.
var ErrNotFound = errors.New("not found")

// StateRepository persists the dashboard state of a session. Only the
// persisted view is ever written.
type StateRepository interface {
	// Load returns the stored record for session, or ErrNotFound.
	Load(ctx context.Context, session string) (state.PersistedState, error)
	Save(ctx context.Context, session string, p state.PersistedState) error
	Delete(ctx context.Context, session string) error
	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
}
