package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/weatherpro/internal/core/state"
)

const (
	// StateStream holds dashboard snapshots.
	StateStream = "WEATHER_STATE"
	// StateSubjectPrefix is followed by the session id.
	StateSubjectPrefix = "weather.state."
)

// StateSubject returns the subject snapshots of session are published on.
func StateSubject(session string) string { return StateSubjectPrefix + session }

// SessionFromSubject extracts the session id from a state subject.
func SessionFromSubject(subject string) (string, bool) {
	session, ok := strings.CutPrefix(subject, StateSubjectPrefix)
	return session, ok && session != ""
}

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and ensures the state stream exists.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	cfg := nats.StreamConfig{
		Name:              StateStream,
		Subjects:          []string{StateSubjectPrefix + ">"},
		Retention:         nats.LimitsPolicy,
		MaxAge:            1 * time.Hour,
		MaxMsgsPerSubject: 1,
		Storage:           nats.FileStorage,
	}
	if _, err := js.AddStream(&cfg); err != nil {
		// Stream may already exist, try update
		if _, err := js.UpdateStream(&cfg); err != nil {
			return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

// PublishState publishes snap. Only the latest snapshot per session is
// retained by the stream.
func (p *Publisher) PublishState(ctx context.Context, session string, snap state.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(StateSubject(session), data, nats.Context(ctx))
	return err
}

// Connected reports whether the connection is currently up.
func (p *Publisher) Connected() bool {
	return p.conn.IsConnected()
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection that reconnects forever.
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name("weatherpro"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
