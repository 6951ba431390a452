package http

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"

	"github.com/samirrijal/weatherpro/internal/core/state"
	"github.com/samirrijal/weatherpro/internal/core/usecases"
	"github.com/samirrijal/weatherpro/internal/pkg/metrics"
)

const (
	wsPingInterval = 30 * time.Second
	wsWriteTimeout = 5 * time.Second
)

// StateStreamHandler streams the snapshots of :session to the client. The
// current snapshot is sent on connect, then the newest one after each change.
// A slow client skips intermediate snapshots and never holds up the session.
func StateStreamHandler(deps *Dependencies) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		session := c.Params("session")
		logger := deps.logger().With("session", session, "remote", c.RemoteAddr().String())

		// mu serializes writes; closed is set once the handler is leaving and
		// the connection must not be touched again.
		var (
			mu     sync.Mutex
			closed bool
		)
		writeLocked := func(v any) error {
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			_ = c.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			return c.WriteMessage(websocket.TextMessage, data)
		}
		relay := func(snap state.Snapshot) {
			mu.Lock()
			defer mu.Unlock()
			if closed {
				return
			}
			if err := writeLocked(snap); err != nil {
				logger.Debug("ws write failed", "error", err)
			}
		}

		cancel, err := deps.Sessions.Watch(context.Background(), session, relay)
		if err != nil {
			msg := "Failed to load session state"
			if errors.Is(err, usecases.ErrInvalidSession) {
				msg = "Invalid session id"
			} else {
				logger.Error("ws watch", "error", err)
			}
			mu.Lock()
			_ = writeLocked(Envelope{Success: false, Error: msg})
			mu.Unlock()
			return
		}
		defer cancel()
		defer func() {
			mu.Lock()
			closed = true
			mu.Unlock()
		}()

		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()
		logger.Info("ws client connected")

		done := make(chan struct{})
		defer close(done)
		go func() {
			ticker := time.NewTicker(wsPingInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					mu.Lock()
					_ = c.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
					err := c.WriteMessage(websocket.PingMessage, nil)
					mu.Unlock()
					if err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		// The stream is one-way; reading only detects the close.
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
		logger.Info("ws client disconnected")
	}
}
