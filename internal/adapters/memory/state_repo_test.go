package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/weatherpro/internal/adapters/memory"
	"github.com/samirrijal/weatherpro/internal/core/domain"
	"github.com/samirrijal/weatherpro/internal/core/ports"
	"github.com/samirrijal/weatherpro/internal/core/state"
)

var _ ports.StateRepository = (*memory.StateRepository)(nil)

func TestStateRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStateRepository()

	_, err := repo.Load(ctx, "s1")
	require.ErrorIs(t, err, ports.ErrNotFound)

	p := state.DefaultPersisted()
	p.RecentSearches = []domain.RecentSearch{{ID: "1", LocationID: "loc1", LocationName: "Seoul", Country: "KR"}}
	p.MapView.Zoom = 8
	require.NoError(t, repo.Save(ctx, "s1", p))

	got, err := repo.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, p, got)
	assert.Equal(t, 1, repo.Len())

	// Stored copy is independent of the caller's slice.
	p.RecentSearches[0].ID = "changed"
	got, err = repo.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "1", got.RecentSearches[0].ID)

	require.NoError(t, repo.Delete(ctx, "s1"))
	_, err = repo.Load(ctx, "s1")
	assert.ErrorIs(t, err, ports.ErrNotFound)
	assert.NoError(t, repo.Delete(ctx, "s1"))
}
