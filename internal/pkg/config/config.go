package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// State backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendValkey = "valkey"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	State     StateConfig     `mapstructure:"state"`
	Valkey    ValkeyConfig    `mapstructure:"valkey"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Mock      MockConfig      `mapstructure:"mock"`
}

type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	Environment    string        `mapstructure:"environment"`
	ReadTimeout    int           `mapstructure:"read_timeout"`
	WriteTimeout   int           `mapstructure:"write_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	BodyLimit      int           `mapstructure:"body_limit"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type CORSConfig struct {
	AllowOrigins     string `mapstructure:"allow_origins"`
	AllowCredentials bool   `mapstructure:"allow_credentials"`
}

type RateLimitConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Max     int           `mapstructure:"max"`
	Window  time.Duration `mapstructure:"window"`
}

type StateConfig struct {
	Backend         string        `mapstructure:"backend"`
	Dir             string        `mapstructure:"dir"`
	SessionTTL      time.Duration `mapstructure:"session_ttl"`
	JanitorInterval time.Duration `mapstructure:"janitor_interval"`
	IOTimeout       time.Duration `mapstructure:"io_timeout"`
	// RecordTTL expires Valkey records. Zero keeps them.
	RecordTTL time.Duration `mapstructure:"record_ttl"`
}

type ValkeyConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type NATSConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	OTLPAddr    string `mapstructure:"otlp_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

type MockConfig struct {
	Deterministic bool  `mapstructure:"deterministic"`
	Seed          int64 `mapstructure:"seed"`
}

// Load reads configuration from .env, an optional config file and
// environment variables, in increasing order of precedence.
func Load(service string) (*Config, error) {
	_ = godotenv.Load() // OK if missing

	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("server.request_timeout", 15*time.Second)
	v.SetDefault("server.body_limit", 10*1024*1024)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("cors.allow_origins", "http://localhost:5173")
	v.SetDefault("cors.allow_credentials", true)
	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.max", 100)
	v.SetDefault("ratelimit.window", 15*time.Minute)
	v.SetDefault("state.backend", BackendMemory)
	v.SetDefault("state.dir", "./data/state")
	v.SetDefault("state.session_ttl", 30*time.Minute)
	v.SetDefault("state.janitor_interval", time.Minute)
	v.SetDefault("state.io_timeout", 5*time.Second)
	v.SetDefault("state.record_ttl", 0)
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("valkey.password", "")
	v.SetDefault("valkey.db", 0)
	v.SetDefault("nats.enabled", false)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.otlp_addr", "localhost:4317")
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("mock.deterministic", false)
	v.SetDefault("mock.seed", 1)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: WEATHERPRO_STATE_BACKEND → state.backend
	v.SetEnvPrefix("WEATHERPRO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Plain names used by common PaaS deployments.
	_ = v.BindEnv("server.port", "WEATHERPRO_SERVER_PORT", "PORT")
	_ = v.BindEnv("server.environment", "WEATHERPRO_SERVER_ENVIRONMENT", "NODE_ENV")
	_ = v.BindEnv("cors.allow_origins", "WEATHERPRO_CORS_ALLOW_ORIGINS", "CORS_ORIGIN")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if c.Server.RequestTimeout <= 0 {
		errs = append(errs, "server.request_timeout must be positive")
	}
	if c.RateLimit.Enabled {
		if c.RateLimit.Max <= 0 {
			errs = append(errs, "ratelimit.max must be positive")
		}
		if c.RateLimit.Window <= 0 {
			errs = append(errs, "ratelimit.window must be positive")
		}
	}
	if c.CORS.AllowCredentials && strings.TrimSpace(c.CORS.AllowOrigins) == "*" {
		errs = append(errs, "cors.allow_origins cannot be * when cors.allow_credentials is set")
	}

	switch c.State.Backend {
	case BackendMemory:
	case BackendFile:
		if c.State.Dir == "" {
			errs = append(errs, "state.dir is required for the file backend")
		}
	case BackendValkey:
		if c.Valkey.Addr == "" {
			errs = append(errs, "valkey.addr is required for the valkey backend")
		}
	default:
		errs = append(errs, fmt.Sprintf("state.backend must be memory, file or valkey, got %q", c.State.Backend))
	}
	if c.State.SessionTTL < 0 {
		errs = append(errs, "state.session_ttl must not be negative")
	}
	if c.State.RecordTTL < 0 {
		errs = append(errs, "state.record_ttl must not be negative")
	}
	if c.State.IOTimeout <= 0 {
		errs = append(errs, "state.io_timeout must be positive")
	}

	if c.NATS.Enabled && c.NATS.URL == "" {
		errs = append(errs, "nats.url is required when nats is enabled")
	}
	if c.Telemetry.Enabled && c.Telemetry.OTLPAddr == "" {
		errs = append(errs, "telemetry.otlp_addr is required when telemetry is enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}
