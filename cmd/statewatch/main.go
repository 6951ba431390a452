// Command statewatch tails the dashboard state snapshots published by API
// instances and logs one line per change.
//
//	statewatch [session,session,...]
//
// With no argument every session is shown. WEATHERPRO_NATS_URL selects the
// server; WEATHERPRO_STATEWATCH_DURABLE names a durable consumer.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	natsadapter "github.com/samirrijal/weatherpro/internal/adapters/nats"
	"github.com/samirrijal/weatherpro/internal/core/state"
	"github.com/samirrijal/weatherpro/internal/pkg/config"
	"github.com/samirrijal/weatherpro/internal/pkg/logging"
)

func main() {
	cfg, err := config.Load("weatherpro-statewatch")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format)

	only := map[string]bool{}
	if len(os.Args) > 1 {
		for _, s := range strings.Split(os.Args[1], ",") {
			if s = strings.TrimSpace(s); s != "" {
				only[s] = true
			}
		}
	}

	var opts []natsadapter.SubscriberOption
	if durable := os.Getenv("WEATHERPRO_STATEWATCH_DURABLE"); durable != "" {
		opts = append(opts, natsadapter.WithDurable(durable))
	}

	sub, err := natsadapter.NewSubscriber(cfg.NATS.URL, opts...)
	if err != nil {
		log.Fatalf("nats: %v", err)
	}
	defer sub.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	err = sub.SubscribeStates(ctx, func(_ context.Context, session string, snap state.Snapshot) error {
		if len(only) > 0 && !only[session] {
			return nil
		}
		logger.Info("state changed", snapshotAttrs(session, snap)...)
		return nil
	})
	if err != nil {
		log.Fatalf("subscribe: %v", err)
	}

	slog.Info("statewatch started", "nats", cfg.NATS.URL, "sessions", len(only))
	<-ctx.Done()
	slog.Info("statewatch stopped")
}

func snapshotAttrs(session string, snap state.Snapshot) []any {
	attrs := []any{
		"session", session,
		"version", snap.Version,
		"recent_searches", len(snap.RecentSearches),
		"forecast_days", len(snap.CurrentForecast),
		"loading", snap.IsLoading,
		"units", snap.Preferences.Units,
		"theme", snap.Preferences.Theme,
		"center_lat", snap.MapView.Center.Lat(),
		"center_lng", snap.MapView.Center.Lng(),
		"zoom", snap.MapView.Zoom,
	}
	if snap.CurrentLocation != nil {
		attrs = append(attrs, "location", snap.CurrentLocation.Name)
	}
	if snap.CurrentWeather != nil {
		attrs = append(attrs, "condition", snap.CurrentWeather.Condition)
	}
	if snap.Error != nil {
		attrs = append(attrs, "error", *snap.Error)
	}
	return attrs
}
