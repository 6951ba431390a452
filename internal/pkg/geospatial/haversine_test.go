package geospatial_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/samirrijal/weatherpro/internal/pkg/geospatial"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		wantKm, tolKm          float64
	}{
		{"same point", 37.5665, 126.978, 37.5665, 126.978, 0, 0.001},
		{"paris to london", 48.8566, 2.3522, 51.5074, -0.1278, 344, 3},
		{"seoul to tokyo", 37.5665, 126.978, 35.6762, 139.6503, 1149, 5},
		{"antipodes", 0, 0, 0, 180, math.Pi * geospatial.EarthRadiusMeters / 1000, 0.01},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := geospatial.Distance(tt.lat1, tt.lon1, tt.lat2, tt.lon2) / 1000
			assert.InDelta(t, tt.wantKm, got, tt.tolKm)
		})
	}
}

func TestDistanceSymmetric(t *testing.T) {
	a := geospatial.Distance(40.7128, -74.006, -33.8688, 151.2093)
	b := geospatial.Distance(-33.8688, 151.2093, 40.7128, -74.006)
	assert.InDelta(t, a, b, 1e-6)
}

func TestBoxAround(t *testing.T) {
	b := geospatial.BoxAround(48.8566, 2.3522, 10_000)
	assert.True(t, b.Contains(48.8566, 2.3522))
	assert.InDelta(t, 0.0898, b.MaxLat-48.8566, 0.001)
	assert.Greater(t, b.MaxLon-2.3522, b.MaxLat-48.8566, "longitude span widens away from the equator")
	assert.False(t, b.Contains(49.0, 2.3522))
}

func TestBoxAroundPole(t *testing.T) {
	b := geospatial.BoxAround(89.99, 0, 50_000)
	assert.Equal(t, 90.0, b.MaxLat)
	assert.Equal(t, -180.0, b.MinLon)
	assert.Equal(t, 180.0, b.MaxLon)
}

func TestWithin(t *testing.T) {
	// Brussels: Paris is about 264km away, London about 320km.
	assert.True(t, geospatial.Within(50.85, 4.35, 300_000, 48.8566, 2.3522))
	assert.False(t, geospatial.Within(50.85, 4.35, 300_000, 51.5074, -0.1278))
	assert.False(t, geospatial.Within(50.85, 4.35, 300_000, 35.6762, 139.6503))
}

func TestValid(t *testing.T) {
	assert.True(t, geospatial.Valid(90, 180))
	assert.True(t, geospatial.Valid(-90, -180))
	assert.False(t, geospatial.Valid(90.1, 0))
	assert.False(t, geospatial.Valid(0, -180.5))
	assert.False(t, geospatial.Valid(math.NaN(), 0))
}
