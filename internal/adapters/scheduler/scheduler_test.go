package scheduler_test

import (
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/weatherpro/internal/adapters/scheduler"
)

func TestScheduler_RunsJobs(t *testing.T) {
	var runs atomic.Int32
	s := scheduler.New(slog.New(slog.NewTextHandler(io.Discard, nil)),
		scheduler.Job{Name: "tick", Interval: time.Second, Run: func() { runs.Add(1) }},
		scheduler.Job{Name: "off", Interval: 0, Run: func() { t.Error("disabled job ran") }},
	)
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Equal(t, 1, s.Len())
	assert.Eventually(t, func() bool { return runs.Load() >= 1 }, 5*time.Second, 50*time.Millisecond)
}
