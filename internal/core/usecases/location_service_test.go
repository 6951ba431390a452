package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/samirrijal/weatherpro/internal/core/domain"
	"github.com/samirrijal/weatherpro/internal/core/usecases"
)

func TestLocationService_Search(t *testing.T) {
	svc := usecases.NewLocationService(testSource())

	tests := []struct {
		query string
		want  []string
	}{
		{"lon", []string{"London, UK"}},
		{"TOKYO", []string{"Tokyo, Japan"}},
		{"a", []string{"New York, NY, USA", "Tokyo, Japan", "Paris, France", "Sydney, Australia"}},
		{"atlantis", nil},
	}
	for _, tt := range tests {
		got, err := svc.Search(context.Background(), usecases.SearchQuery{Text: tt.query})
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tt.query, err)
		}
		if len(got) != len(tt.want) {
			t.Fatalf("%q: expected %d results, got %d", tt.query, len(tt.want), len(got))
		}
		for i := range got {
			if got[i].Name != tt.want[i] {
				t.Errorf("%q[%d]: expected %s, got %s", tt.query, i, tt.want[i], got[i].Name)
			}
		}
	}
}

func TestLocationService_SearchEmpty(t *testing.T) {
	svc := usecases.NewLocationService(testSource())
	_, err := svc.Search(context.Background(), usecases.SearchQuery{Text: "  "})
	if !errors.Is(err, usecases.ErrEmptyQuery) {
		t.Errorf("expected ErrEmptyQuery, got %v", err)
	}
}

func TestLocationService_SearchLimit(t *testing.T) {
	svc := usecases.NewLocationService(testSource())
	got, err := svc.Search(context.Background(), usecases.SearchQuery{Text: "a", Limit: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 results, got %d", len(got))
	}
}

func TestLocationService_SearchNear(t *testing.T) {
	svc := usecases.NewLocationService(testSource())
	// Brussels: Paris is about 264km away, London about 320km.
	near := &domain.GeoPoint{Lat: 50.85, Lon: 4.35}
	got, err := svc.Search(context.Background(), usecases.SearchQuery{Text: "n", Near: near})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 5 || got[0].Name != "Paris, France" || got[1].Name != "London, UK" {
		t.Fatalf("expected Paris then London, got %+v", got)
	}

	got, err = svc.Search(context.Background(), usecases.SearchQuery{Text: "n", Near: near, RadiusMeters: 300_000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Paris, France" {
		t.Errorf("expected only Paris within 300km, got %+v", got)
	}
}

func TestLocationService_ByCoordinates(t *testing.T) {
	svc := usecases.NewLocationService(testSource())
	loc, err := svc.ByCoordinates(context.Background(), 37.5, 127.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loc.Name != "Unknown Location" || loc.Country != "Unknown" || loc.Timezone != "UTC" {
		t.Errorf("unexpected location %+v", loc)
	}
	if loc.Lat != 37.5 || loc.Lng != 127.0 {
		t.Errorf("coordinates not echoed: %+v", loc)
	}

	if _, err := svc.ByCoordinates(context.Background(), 91, 0); !errors.Is(err, usecases.ErrInvalidCoordinates) {
		t.Errorf("expected ErrInvalidCoordinates, got %v", err)
	}
}

func TestLocationService_Popular(t *testing.T) {
	svc := usecases.NewLocationService(testSource())
	got, err := svc.Popular(context.Background(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("expected 3, got %d", len(got))
	}
}
