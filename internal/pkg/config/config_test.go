package config_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/weatherpro/internal/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("weatherpro-test")
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, ":5000", cfg.Server.Addr())
	assert.Equal(t, "development", cfg.Server.Environment)
	assert.Equal(t, 100, cfg.RateLimit.Max)
	assert.Equal(t, 15*time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, config.BackendMemory, cfg.State.Backend)
	assert.Equal(t, 30*time.Minute, cfg.State.SessionTTL)
	assert.Equal(t, "weatherpro-test", cfg.Telemetry.ServiceName)
	assert.False(t, cfg.NATS.Enabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("WEATHERPRO_STATE_BACKEND", "file")
	t.Setenv("WEATHERPRO_STATE_DIR", "/tmp/wp")
	t.Setenv("WEATHERPRO_RATELIMIT_WINDOW", "1m")
	t.Setenv("WEATHERPRO_MOCK_DETERMINISTIC", "true")
	t.Setenv("PORT", "8081")
	t.Setenv("NODE_ENV", "production")

	cfg, err := config.Load("weatherpro-test")
	require.NoError(t, err)

	assert.Equal(t, config.BackendFile, cfg.State.Backend)
	assert.Equal(t, "/tmp/wp", cfg.State.Dir)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.True(t, cfg.Mock.Deterministic)
	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, "production", cfg.Server.Environment)
}

func TestLoad_PrefixedWinsOverPlain(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("WEATHERPRO_SERVER_PORT", "9090")

	cfg, err := config.Load("weatherpro-test")
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestValidate(t *testing.T) {
	valid := func() config.Config {
		return config.Config{
			Server:    config.ServerConfig{Port: 5000, ReadTimeout: 10, WriteTimeout: 10, RequestTimeout: time.Second},
			RateLimit: config.RateLimitConfig{Enabled: true, Max: 100, Window: time.Minute},
			State:     config.StateConfig{Backend: config.BackendMemory, IOTimeout: time.Second},
		}
	}

	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"ok", func(*config.Config) {}, ""},
		{"port", func(c *config.Config) { c.Server.Port = 70000 }, "server.port"},
		{"backend", func(c *config.Config) { c.State.Backend = "s3" }, "state.backend"},
		{"file dir", func(c *config.Config) { c.State.Backend = config.BackendFile }, "state.dir"},
		{"valkey addr", func(c *config.Config) { c.State.Backend = config.BackendValkey }, "valkey.addr"},
		{"record ttl", func(c *config.Config) { c.State.RecordTTL = -time.Second }, "state.record_ttl"},
		{"nats url", func(c *config.Config) { c.NATS.Enabled = true }, "nats.url"},
		{"ratelimit", func(c *config.Config) { c.RateLimit.Max = 0 }, "ratelimit.max"},
		{"ratelimit off", func(c *config.Config) { c.RateLimit = config.RateLimitConfig{} }, ""},
		{"cors", func(c *config.Config) { c.CORS = config.CORSConfig{AllowOrigins: "*", AllowCredentials: true} }, "cors.allow_origins"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.want), err.Error())
		})
	}
}
