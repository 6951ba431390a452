package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/samirrijal/weatherpro/internal/adapters/filestore"
	"github.com/samirrijal/weatherpro/internal/adapters/http"
	"github.com/samirrijal/weatherpro/internal/adapters/memory"
	"github.com/samirrijal/weatherpro/internal/adapters/mockdata"
	natsadapter "github.com/samirrijal/weatherpro/internal/adapters/nats"
	"github.com/samirrijal/weatherpro/internal/adapters/scheduler"
	"github.com/samirrijal/weatherpro/internal/adapters/valkey"
	"github.com/samirrijal/weatherpro/internal/core/ports"
	"github.com/samirrijal/weatherpro/internal/core/usecases"
	"github.com/samirrijal/weatherpro/internal/pkg/config"
	"github.com/samirrijal/weatherpro/internal/pkg/logging"
	"github.com/samirrijal/weatherpro/internal/pkg/metrics"
	"github.com/samirrijal/weatherpro/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("weatherpro-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Server.Environment, cfg.Telemetry.OTLPAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer func() { _ = shutdown(context.Background()) }()
		}
	}

	// Mock data
	var src *mockdata.Source
	if cfg.Mock.Deterministic {
		src = mockdata.New(mockdata.WithSeed(cfg.Mock.Seed))
	} else {
		src = mockdata.New()
	}

	// State backend
	repo, closeRepo, err := openStateRepo(cfg)
	if err != nil {
		log.Fatalf("state backend: %v", err)
	}
	defer closeRepo()

	// NATS
	var pub *natsadapter.Publisher
	if cfg.NATS.Enabled {
		pub, err = natsadapter.NewPublisher(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats unavailable, state events disabled", "error", err)
			pub = nil
		} else {
			defer pub.Close()
		}
	}

	sessionOpts := []usecases.SessionOption{
		usecases.WithIdleTTL(cfg.State.SessionTTL),
		usecases.WithIOTimeout(cfg.State.IOTimeout),
		usecases.WithSessionLogger(logger),
		usecases.WithHooks(usecases.SessionHooks{
			PersistError:   func(string, error) { metrics.PersistErrors.Inc() },
			PublishError:   func(string, error) { metrics.PublishErrors.Inc() },
			ActiveSessions: func(n int) { metrics.ActiveSessions.Set(float64(n)) },
		}),
	}
	if pub != nil {
		sessionOpts = append(sessionOpts, usecases.WithPublisher(pub))
	}

	// Use cases
	sessions := usecases.NewSessionService(repo, sessionOpts...)

	deps := &http.Dependencies{
		Weather:     usecases.NewWeatherService(src),
		Locations:   usecases.NewLocationService(src),
		Auth:        usecases.NewAuthService(src),
		Users:       usecases.NewUserService(src),
		Sessions:    sessions,
		Environment: cfg.Server.Environment,
		StartedAt:   time.Now(),
		RateLimit: http.RateLimit{
			Disabled: !cfg.RateLimit.Enabled,
			Max:      cfg.RateLimit.Max,
			Window:   cfg.RateLimit.Window,
		},
		RequestTimeout: cfg.Server.RequestTimeout,
		DocsPath:       http.DefaultDocsPath,
		Logger:         logger,
	}
	if pub != nil {
		deps.Broker = pub
	}

	// Idle session janitor
	jobs := scheduler.New(logger, scheduler.Job{
		Name:     "evict-idle-sessions",
		Interval: cfg.State.JanitorInterval,
		Run: func() {
			if n := sessions.EvictIdle(); n > 0 {
				metrics.SessionsEvicted.Add(float64(n))
				slog.Debug("evicted idle sessions", "count", n)
			}
		},
	})
	if err := jobs.Start(); err != nil {
		log.Fatalf("scheduler: %v", err)
	}
	defer jobs.Stop()

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
		ErrorHandler: http.ErrorHandler,
		AppName:      "WeatherPro API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowOrigins,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := cfg.Server.Addr()
		slog.Info("API server starting",
			"addr", addr,
			"environment", cfg.Server.Environment,
			"state_backend", cfg.State.Backend,
			"nats", pub != nil,
		)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}

// openStateRepo builds the configured StateRepository. The returned func
// releases its connection.
func openStateRepo(cfg *config.Config) (ports.StateRepository, func(), error) {
	switch cfg.State.Backend {
	case config.BackendFile:
		repo, err := filestore.NewStateRepository(cfg.State.Dir)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("state backend: file", "dir", cfg.State.Dir)
		return repo, func() {}, nil
	case config.BackendValkey:
		cache, err := valkey.New(cfg.Valkey.Addr, cfg.Valkey.Password, cfg.Valkey.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("valkey %s: %w", cfg.Valkey.Addr, err)
		}
		slog.Info("state backend: valkey", "addr", cfg.Valkey.Addr)
		return valkey.NewStateRepository(cache, cfg.State.RecordTTL), cache.Close, nil
	default:
		slog.Info("state backend: memory")
		return memory.NewStateRepository(), func() {}, nil
	}
}
