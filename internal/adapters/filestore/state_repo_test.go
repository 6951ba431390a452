package filestore_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/weatherpro/internal/adapters/filestore"
	"github.com/samirrijal/weatherpro/internal/core/domain"
	"github.com/samirrijal/weatherpro/internal/core/ports"
	"github.com/samirrijal/weatherpro/internal/core/state"
)

var _ ports.StateRepository = (*filestore.StateRepository)(nil)

func TestStateRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested")
	repo, err := filestore.NewStateRepository(dir)
	require.NoError(t, err)
	require.NoError(t, repo.Ping(ctx))

	_, err = repo.Load(ctx, "abc")
	require.ErrorIs(t, err, ports.ErrNotFound)

	dark := domain.ThemeDark
	s := state.New()
	s.AddRecentSearch(domain.RecentSearch{ID: "1", LocationID: "tokyo", LocationName: "Tokyo", Country: "JP"})
	s.SetPreferences(state.PreferencesPatch{Theme: &dark})
	s.SetMapView(domain.LatLng{35.6, 139.7}, 6)
	want := s.Persisted()

	require.NoError(t, repo.Save(ctx, "abc", want))
	assert.Equal(t, filepath.Join(dir, "abc.weather-store.json"), repo.Path("abc"))

	got, err := repo.Load(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestStateRepository_FileLayout(t *testing.T) {
	ctx := context.Background()
	repo, err := filestore.NewStateRepository(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, "s", state.DefaultPersisted()))

	raw, err := os.ReadFile(repo.Path("s"))
	require.NoError(t, err)

	var env struct {
		State   map[string]json.RawMessage `json:"state"`
		Version int                        `json:"version"`
	}
	require.NoError(t, json.Unmarshal(raw, &env))
	assert.Equal(t, 0, env.Version)
	assert.ElementsMatch(t, []string{"recentSearches", "preferences", "mapView"}, keys(env.State))
}

func TestStateRepository_Overwrite(t *testing.T) {
	ctx := context.Background()
	repo, err := filestore.NewStateRepository(t.TempDir())
	require.NoError(t, err)

	first := state.DefaultPersisted()
	second := state.DefaultPersisted()
	second.MapView.Zoom = 11

	require.NoError(t, repo.Save(ctx, "s", first))
	require.NoError(t, repo.Save(ctx, "s", second))

	got, err := repo.Load(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, 11.0, got.MapView.Zoom)
}

func TestStateRepository_CorruptFile(t *testing.T) {
	ctx := context.Background()
	repo, err := filestore.NewStateRepository(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(repo.Path("bad"), []byte("{not json"), 0o644))

	_, err = repo.Load(ctx, "bad")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ports.ErrNotFound)
}

func TestStateRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo, err := filestore.NewStateRepository(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, "s", state.DefaultPersisted()))
	require.NoError(t, repo.Delete(ctx, "s"))
	require.NoError(t, repo.Delete(ctx, "s"))

	_, err = repo.Load(ctx, "s")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func keys(m map[string]json.RawMessage) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
