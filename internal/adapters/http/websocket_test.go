package http_test

import (
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/fasthttp/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/weatherpro/internal/core/state"
)

// serve runs app on a loopback port and returns its ws:// base URL.
func serve(t *testing.T, app *fiber.App) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })
	return "ws://" + ln.Addr().String()
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readSnapshot(t *testing.T, conn *websocket.Conn) state.Snapshot {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var snap state.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatalf("decode snapshot %q: %v", data, err)
	}
	return snap
}

func TestStateStream_SendsCurrentThenChanges(t *testing.T) {
	app := setupApp(makeDeps())
	base := serve(t, app)

	expectStatus(t, do(t, app, "PUT", "/api/state/s1/map", `{"center":[37.5,127],"zoom":6.5}`), 200)

	conn := dial(t, base+"/ws/state/s1")
	first := readSnapshot(t, conn)
	if first.Version != 1 || first.MapView.Zoom != 6.5 {
		t.Fatalf("expected the current snapshot on connect, got version %d zoom %v", first.Version, first.MapView.Zoom)
	}

	expectStatus(t, do(t, app, "PUT", "/api/state/s1/loading", `{"loading":true}`), 200)
	next := readSnapshot(t, conn)
	if next.Version != 2 || !next.IsLoading {
		t.Errorf("expected version 2 with loading set, got %+v", next)
	}
}

func TestStateStream_VersionsOnlyIncrease(t *testing.T) {
	app := setupApp(makeDeps())
	base := serve(t, app)
	conn := dial(t, base+"/ws/state/s2")

	last := readSnapshot(t, conn).Version
	for i := 0; i < 10; i++ {
		body := `{"loading":false}`
		if i%2 == 0 {
			body = `{"loading":true}`
		}
		expectStatus(t, do(t, app, "PUT", "/api/state/s2/loading", body), 200)
	}

	for last < 10 {
		snap := readSnapshot(t, conn)
		if snap.Version <= last {
			t.Fatalf("version %d sent after %d", snap.Version, last)
		}
		last = snap.Version
	}
}

func TestStateStream_InvalidSession(t *testing.T) {
	app := setupApp(makeDeps())
	base := serve(t, app)
	conn := dial(t, base+"/ws/state/bad.id")

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var env envelope[any]
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("decode %q: %v", data, err)
	}
	if env.Success || env.Error != "Invalid session id" {
		t.Errorf("expected invalid session error, got %+v", env)
	}
}
