package usecases

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/samirrijal/weatherpro/internal/core/domain"
	"github.com/samirrijal/weatherpro/internal/core/ports"
	"github.com/samirrijal/weatherpro/internal/pkg/geospatial"
)

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 50
)

// SearchQuery filters the location catalogue.
type SearchQuery struct {
	Text  string
	Limit int
	// Near sorts results by distance from this point.
	Near *domain.GeoPoint
	// RadiusMeters drops results farther than this from Near. Zero disables it.
	RadiusMeters float64
}

// LocationService handles location lookup.
type LocationService struct {
	src ports.DataSource
}

// NewLocationService creates a new LocationService.
func NewLocationService(src ports.DataSource) *LocationService {
	return &LocationService{src: src}
}

// Search returns catalogue entries whose name contains q.Text, ignoring case.
func (s *LocationService) Search(ctx context.Context, q SearchQuery) ([]domain.Location, error) {
	text := strings.ToLower(strings.TrimSpace(q.Text))
	if text == "" {
		return nil, ErrEmptyQuery
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	limit := q.Limit
	if limit <= 0 || limit > maxSearchLimit {
		limit = defaultSearchLimit
	}

	out := make([]domain.Location, 0, limit)
	for _, loc := range s.src.Cities() {
		if !strings.Contains(strings.ToLower(loc.Name), text) {
			continue
		}
		if q.Near != nil && q.RadiusMeters > 0 &&
			!geospatial.Within(q.Near.Lat, q.Near.Lon, q.RadiusMeters, loc.Lat, loc.Lng) {
			continue
		}
		out = append(out, loc)
	}

	if q.Near != nil {
		p := *q.Near
		sort.SliceStable(out, func(i, j int) bool {
			return geospatial.Distance(p.Lat, p.Lon, out[i].Lat, out[i].Lng) <
				geospatial.Distance(p.Lat, p.Lon, out[j].Lat, out[j].Lng)
		})
	}

	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Popular returns the most requested locations.
func (s *LocationService) Popular(ctx context.Context, limit int) ([]domain.Location, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := s.src.PopularLocations()
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ByCoordinates reverse-geocodes a point. No geocoder is attached, so the
// result is always an unnamed UTC location.
func (s *LocationService) ByCoordinates(ctx context.Context, lat, lon float64) (domain.Location, error) {
	if !geospatial.Valid(lat, lon) {
		return domain.Location{}, fmt.Errorf("lat %v lon %v: %w", lat, lon, ErrInvalidCoordinates)
	}
	if err := ctx.Err(); err != nil {
		return domain.Location{}, err
	}
	return domain.Location{
		ID:       fmt.Sprintf("%.4f,%.4f", lat, lon),
		Name:     "Unknown Location",
		Country:  "Unknown",
		Lat:      lat,
		Lng:      lon,
		Timezone: "UTC",
	}, nil
}
