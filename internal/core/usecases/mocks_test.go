package usecases_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/samirrijal/weatherpro/internal/adapters/mockdata"
	"github.com/samirrijal/weatherpro/internal/core/ports"
	"github.com/samirrijal/weatherpro/internal/core/state"
)

var testNow = time.Date(2025, 1, 20, 9, 0, 0, 0, time.UTC)

func testSource() *mockdata.Source {
	return mockdata.New(mockdata.WithSeed(1), mockdata.WithClock(func() time.Time { return testNow }))
}

// waitFor polls cond until it holds or two seconds pass.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met within 2s")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// receive returns the next snapshot from ch or fails after two seconds.
func receive(t *testing.T, ch <-chan state.Snapshot) state.Snapshot {
	t.Helper()
	select {
	case snap := <-ch:
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot within 2s")
		return state.Snapshot{}
	}
}

// --- Mock StateRepository ---

type mockStateRepo struct {
	mu     sync.Mutex
	data   map[string]state.PersistedState
	loads  int
	saves  int
	loadFn func(ctx context.Context, session string) (state.PersistedState, error)
	saveFn func(ctx context.Context, session string, p state.PersistedState) error
}

func newMockStateRepo() *mockStateRepo {
	return &mockStateRepo{data: map[string]state.PersistedState{}}
}

func (m *mockStateRepo) Load(ctx context.Context, session string) (state.PersistedState, error) {
	m.mu.Lock()
	m.loads++
	m.mu.Unlock()
	if m.loadFn != nil {
		return m.loadFn(ctx, session)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.data[session]
	if !ok {
		return state.PersistedState{}, ports.ErrNotFound
	}
	return p, nil
}

func (m *mockStateRepo) Save(ctx context.Context, session string, p state.PersistedState) error {
	m.mu.Lock()
	m.saves++
	m.mu.Unlock()
	if m.saveFn != nil {
		return m.saveFn(ctx, session, p)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[session] = p
	return nil
}

func (m *mockStateRepo) Delete(_ context.Context, session string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, session)
	return nil
}

func (m *mockStateRepo) Ping(context.Context) error { return nil }

// --- Mock EventPublisher ---

type mockPublisher struct {
	publishFn func(ctx context.Context, session string, snap state.Snapshot) error
}

func (m *mockPublisher) PublishState(ctx context.Context, session string, snap state.Snapshot) error {
	if m.publishFn != nil {
		return m.publishFn(ctx, session, snap)
	}
	return nil
}
