package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/samirrijal/weatherpro/internal/core/ports"
	"github.com/samirrijal/weatherpro/internal/core/state"
)

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ValidSessionID reports whether id may name a dashboard session.
func ValidSessionID(id string) bool {
	return sessionIDPattern.MatchString(id)
}

// SessionHooks receives session lifecycle events. Nil fields are skipped.
type SessionHooks struct {
	PersistError   func(session string, err error)
	PublishError   func(session string, err error)
	ActiveSessions func(n int)
}

// SessionOption configures a SessionService.
type SessionOption func(*SessionService)

// WithPublisher fans every snapshot out to pub.
func WithPublisher(pub ports.EventPublisher) SessionOption {
	return func(s *SessionService) { s.pub = pub }
}

// WithIdleTTL sets how long an unwatched session stays in memory after its
// last use. Zero keeps sessions forever.
func WithIdleTTL(d time.Duration) SessionOption {
	return func(s *SessionService) { s.ttl = d }
}

// WithIOTimeout bounds each repository save and broker publish.
func WithIOTimeout(d time.Duration) SessionOption {
	return func(s *SessionService) { s.ioTimeout = d }
}

// WithSessionLogger sets the logger.
func WithSessionLogger(l *slog.Logger) SessionOption {
	return func(s *SessionService) { s.logger = l }
}

// WithHooks installs lifecycle callbacks.
func WithHooks(h SessionHooks) SessionOption {
	return func(s *SessionService) { s.hooks = h }
}

// WithSessionClock replaces time.Now for idle tracking.
func WithSessionClock(now func() time.Time) SessionOption {
	return func(s *SessionService) { s.now = now }
}

type session struct {
	store    *state.Store
	lastUsed atomic.Int64
	watchers atomic.Int32
}

// SessionService owns one state.Store per dashboard session. Stores are
// hydrated from the repository on first use and saved on every change to
// their persisted fields.
type SessionService struct {
	repo      ports.StateRepository
	pub       ports.EventPublisher
	ttl       time.Duration
	ioTimeout time.Duration
	logger    *slog.Logger
	hooks     SessionHooks
	now       func() time.Time

	mu       sync.RWMutex
	sessions map[string]*session
}

// NewSessionService creates a new SessionService.
func NewSessionService(repo ports.StateRepository, opts ...SessionOption) *SessionService {
	s := &SessionService{
		repo:      repo,
		ttl:       30 * time.Minute,
		ioTimeout: 5 * time.Second,
		logger:    slog.Default(),
		now:       time.Now,
		sessions:  make(map[string]*session),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// NewSessionID returns a fresh random session id.
func (s *SessionService) NewSessionID() string {
	return uuid.NewString()
}

// Store returns the store of session id, loading it if it is not in memory.
func (s *SessionService) Store(ctx context.Context, id string) (*state.Store, error) {
	sess, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return sess.store, nil
}

// Snapshot returns the current state of session id.
func (s *SessionService) Snapshot(ctx context.Context, id string) (state.Snapshot, error) {
	st, err := s.Store(ctx, id)
	if err != nil {
		return state.Snapshot{}, err
	}
	return st.Snapshot(), nil
}

// Watch calls fn with the current snapshot and then with later ones until
// the returned func is called. fn runs on its own goroutine; a slow fn only
// skips intermediate snapshots. A watched session is never evicted.
func (s *SessionService) Watch(ctx context.Context, id string, fn func(state.Snapshot)) (func(), error) {
	sess, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	sess.watchers.Add(1)
	unsubscribe := sess.store.Watch(fn)

	var once sync.Once
	return func() {
		once.Do(func() {
			unsubscribe()
			sess.watchers.Add(-1)
			s.touch(sess)
		})
	}, nil
}

// Delete drops session id from memory and from the repository.
func (s *SessionService) Delete(ctx context.Context, id string) error {
	if !ValidSessionID(id) {
		return ErrInvalidSession
	}
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	n := len(s.sessions)
	s.mu.Unlock()
	if ok {
		sess.store.Close()
	}
	s.reportActive(n)

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	return nil
}

// EvictIdle drops unwatched sessions not used within the idle TTL and
// returns how many were dropped. Their persisted view is already saved.
func (s *SessionService) EvictIdle() int {
	if s.ttl <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.ttl).UnixNano()

	s.mu.Lock()
	var evicted []*session
	for id, sess := range s.sessions {
		if sess.watchers.Load() > 0 || sess.lastUsed.Load() > cutoff {
			continue
		}
		delete(s.sessions, id)
		evicted = append(evicted, sess)
	}
	n := len(s.sessions)
	s.mu.Unlock()

	for _, sess := range evicted {
		sess.store.Close()
	}
	if len(evicted) > 0 {
		s.logger.Info("evicted idle sessions", "count", len(evicted), "remaining", n)
		s.reportActive(n)
	}
	return len(evicted)
}

// Len returns the number of sessions held in memory.
func (s *SessionService) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Ping checks the state repository.
func (s *SessionService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func (s *SessionService) get(ctx context.Context, id string) (*session, error) {
	if !ValidSessionID(id) {
		return nil, ErrInvalidSession
	}

	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if ok {
		s.touch(sess)
		return sess, nil
	}

	persisted, err := s.repo.Load(ctx, id)
	switch {
	case errors.Is(err, ports.ErrNotFound):
		persisted = state.DefaultPersisted()
	case err != nil:
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}

	s.mu.Lock()
	// Another request may have loaded the same session meanwhile.
	if existing, ok := s.sessions[id]; ok {
		s.mu.Unlock()
		s.touch(existing)
		return existing, nil
	}
	sess = &session{
		store: state.New(
			state.WithPersisted(persisted),
			state.WithSaver(s.saver(id)),
			state.WithLogger(s.logger.With("session", id)),
		),
	}
	if s.pub != nil {
		sess.store.Subscribe(s.publisher(id))
	}
	s.touch(sess)
	s.sessions[id] = sess
	n := len(s.sessions)
	s.mu.Unlock()

	s.reportActive(n)
	return sess, nil
}

func (s *SessionService) saver(id string) state.SaveFunc {
	return func(_ uint64, p state.PersistedState) error {
		ctx, cancel := context.WithTimeout(context.Background(), s.ioTimeout)
		defer cancel()
		if err := s.repo.Save(ctx, id, p); err != nil {
			if s.hooks.PersistError != nil {
				s.hooks.PersistError(id, err)
			}
			return err
		}
		return nil
	}
}

func (s *SessionService) publisher(id string) func(state.Snapshot) {
	return func(snap state.Snapshot) {
		ctx, cancel := context.WithTimeout(context.Background(), s.ioTimeout)
		defer cancel()
		if err := s.pub.PublishState(ctx, id, snap); err != nil {
			s.logger.Warn("publish state snapshot", "session", id, "version", snap.Version, "error", err)
			if s.hooks.PublishError != nil {
				s.hooks.PublishError(id, err)
			}
		}
	}
}

func (s *SessionService) touch(sess *session) {
	sess.lastUsed.Store(s.now().UnixNano())
}

func (s *SessionService) reportActive(n int) {
	if s.hooks.ActiveSessions != nil {
		s.hooks.ActiveSessions(n)
	}
}
