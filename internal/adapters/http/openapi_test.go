package http_test

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
)

// findOpenAPISpec locates api/openapi.yaml by walking up from the test directory.
func findOpenAPISpec(t *testing.T) string {
	dir, _ := os.Getwd()
	for i := 0; i < 5; i++ {
		candidate := filepath.Join(dir, "api", "openapi.yaml")
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
		dir = filepath.Dir(dir)
	}
	t.Fatalf("could not find api/openapi.yaml")
	return ""
}

func loadOpenAPISpec(t *testing.T) *openapi3.T {
	t.Helper()
	data, err := os.ReadFile(findOpenAPISpec(t))
	if err != nil {
		t.Fatalf("failed to read openapi.yaml: %v", err)
	}
	loader := &openapi3.Loader{IsExternalRefsAllowed: false}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		t.Fatalf("failed to parse OpenAPI spec: %v", err)
	}
	return spec
}

// TestOpenAPISpec validates the document and checks the key schemas.
func TestOpenAPISpec(t *testing.T) {
	spec := loadOpenAPISpec(t)

	if err := spec.Validate(context.Background()); err != nil {
		t.Fatalf("OpenAPI spec validation failed: %v", err)
	}

	for _, schema := range []string{
		"Envelope", "ErrorEnvelope", "Location", "WeatherSnapshot", "ForecastEntry",
		"Forecast", "RecentSearch", "UserPreferences", "MapView", "DashboardState",
		"User", "SavedLocation", "WeatherAlert", "WeatherStats",
	} {
		if spec.Components.Schemas[schema] == nil {
			t.Errorf("expected schema %s not found", schema)
		}
	}

	if spec.Info.Title != "WeatherPro API" {
		t.Errorf("expected title 'WeatherPro API', got %q", spec.Info.Title)
	}
	if len(spec.Servers) == 0 {
		t.Error("expected at least one server")
	}
}

var fiberParam = regexp.MustCompile(`:([A-Za-z]+)`)

// TestOpenAPICoversRoutes checks that every registered route is documented
// with the same method.
func TestOpenAPICoversRoutes(t *testing.T) {
	spec := loadOpenAPISpec(t)
	app := setupApp(makeDeps())

	for _, r := range app.GetRoutes(true) {
		if r.Method == "HEAD" || r.Path == "/metrics" {
			continue
		}
		path := fiberParam.ReplaceAllString(r.Path, "{$1}")
		item := spec.Paths.Find(path)
		if item == nil {
			t.Errorf("route %s %s is not documented", r.Method, path)
			continue
		}
		if item.GetOperation(r.Method) == nil {
			t.Errorf("route %s %s has no documented operation", r.Method, path)
		}
	}
}
