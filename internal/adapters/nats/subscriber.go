package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/weatherpro/internal/core/state"
)

// Subscriber implements ports.EventSubscriber using NATS JetStream.
type Subscriber struct {
	conn    *nats.Conn
	js      nats.JetStreamContext
	subs    []*nats.Subscription
	durable string
}

// SubscriberOption configures a Subscriber.
type SubscriberOption func(*Subscriber)

// WithDurable binds the subscription to a named consumer so delivery resumes
// where it stopped. Without it the consumer is ephemeral and starts with the
// last snapshot of each session.
func WithDurable(name string) SubscriberOption {
	return func(s *Subscriber) { s.durable = name }
}

// NewSubscriber connects to NATS.
func NewSubscriber(url string, opts ...SubscriberOption) (*Subscriber, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}
	s := &Subscriber{conn: conn, js: js}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// SubscribeStates delivers every snapshot published on the state stream.
func (s *Subscriber) SubscribeStates(ctx context.Context, handler func(ctx context.Context, session string, snap state.Snapshot) error) error {
	opts := []nats.SubOpt{
		nats.ManualAck(),
		nats.MaxDeliver(3),
	}
	if s.durable != "" {
		opts = append(opts, nats.Durable(s.durable))
	} else {
		opts = append(opts, nats.DeliverLastPerSubject())
	}

	sub, err := s.js.Subscribe(StateSubjectPrefix+">", func(msg *nats.Msg) {
		session, ok := SessionFromSubject(msg.Subject)
		if !ok {
			_ = msg.Term()
			return
		}
		var snap state.Snapshot
		if err := json.Unmarshal(msg.Data, &snap); err != nil {
			_ = msg.Term()
			return
		}
		if err := handler(ctx, session, snap); err != nil {
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	}, opts...)
	if err != nil {
		return err
	}
	s.subs = append(s.subs, sub)
	return nil
}

// Close unsubscribes and drains.
func (s *Subscriber) Close() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	_ = s.conn.Drain()
}
