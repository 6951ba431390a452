package valkey

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sony/gobreaker"

	"github.com/samirrijal/weatherpro/internal/core/ports"
	"github.com/samirrijal/weatherpro/internal/core/state"
)

// KeyPrefix namespaces dashboard records.
const KeyPrefix = state.RecordName + ":"

// KV is the subset of Cache the repository needs.
type KV interface {
	ports.CacheService
	Ping(ctx context.Context) error
}

// StateRepository implements ports.StateRepository on Valkey. Every call
// goes through a circuit breaker.
type StateRepository struct {
	kv      KV
	ttl     time.Duration
	circuit *gobreaker.CircuitBreaker
}

// NewStateRepository wraps kv. A zero ttl keeps records forever.
func NewStateRepository(kv KV, ttl time.Duration) *StateRepository {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "valkey-state",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	return &StateRepository{kv: kv, ttl: ttl, circuit: cb}
}

func key(session string) string { return KeyPrefix + session }

func (r *StateRepository) Load(ctx context.Context, session string) (state.PersistedState, error) {
	res, err := r.circuit.Execute(func() (interface{}, error) {
		raw, err := r.kv.Get(ctx, key(session))
		if errors.Is(err, ports.ErrCacheMiss) {
			// A miss is a healthy answer.
			return nil, nil
		}
		return raw, err
	})
	if err != nil {
		return state.PersistedState{}, fmt.Errorf("load state %s: %w", session, err)
	}
	raw, _ := res.([]byte)
	if raw == nil {
		return state.PersistedState{}, ports.ErrNotFound
	}
	return state.DecodePersisted(raw)
}

func (r *StateRepository) Save(ctx context.Context, session string, p state.PersistedState) error {
	raw, err := p.Encode()
	if err != nil {
		return err
	}
	_, err = r.circuit.Execute(func() (interface{}, error) {
		return nil, r.kv.Set(ctx, key(session), raw, r.ttlSeconds())
	})
	if err != nil {
		return fmt.Errorf("save state %s: %w", session, err)
	}
	return nil
}

// ttlSeconds rounds the ttl up so a sub-second ttl still expires.
func (r *StateRepository) ttlSeconds() int {
	if r.ttl <= 0 {
		return 0
	}
	return int(math.Ceil(r.ttl.Seconds()))
}

func (r *StateRepository) Delete(ctx context.Context, session string) error {
	_, err := r.circuit.Execute(func() (interface{}, error) {
		return nil, r.kv.Delete(ctx, key(session))
	})
	if err != nil {
		return fmt.Errorf("delete state %s: %w", session, err)
	}
	return nil
}

// Ping bypasses the breaker.
func (r *StateRepository) Ping(ctx context.Context) error {
	return r.kv.Ping(ctx)
}

// BreakerState reports the circuit breaker state.
func (r *StateRepository) BreakerState() gobreaker.State {
	return r.circuit.State()
}
