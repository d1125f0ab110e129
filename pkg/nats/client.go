package nats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

func NewClient(url string, timeout time.Duration, opts ...nats.Option) (*nats.Conn, error) {
	nc, err := nats.Connect(url, append([]nats.Option{nats.Timeout(timeout), nats.Name("catalog")}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return nc, nil
}

// NewJetStreamContext opens JetStream on nc. The caller keeps ownership of nc, also on error.
func NewJetStreamContext(nc *nats.Conn) (jetstream.JetStream, error) {
	js, err := jetstream.New(nc)
	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}
	return js, nil
}

// Connect dials NATS, opens JetStream and ensures the stream bound to subjects exists.
// The connection is closed on any failure; on success the caller owns it.
func Connect(ctx context.Context, url string, timeout time.Duration, stream string, subjects []string, opts ...nats.Option) (*nats.Conn, jetstream.JetStream, error) {
	nc, err := NewClient(url, timeout, opts...)
	if err != nil {
		return nil, nil, err
	}
	js, err := NewJetStreamContext(nc)
	if err != nil {
		nc.Close()
		return nil, nil, err
	}
	streamCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := EnsureStream(streamCtx, js, stream, subjects...); err != nil {
		nc.Close()
		return nil, nil, err
	}
	return nc, js, nil
}

// EnsureStream creates the stream bound to subjects, or leaves an existing one untouched.
func EnsureStream(ctx context.Context, js jetstream.JetStream, name string, subjects ...string) error {
	_, err := js.Stream(ctx, name)
	if err == nil {
		return nil
	}
	if !errors.Is(err, jetstream.ErrStreamNotFound) {
		return fmt.Errorf("failed to look up stream %s: %w", name, err)
	}
	_, err = js.CreateStream(ctx, jetstream.StreamConfig{
		Name:     name,
		Subjects: subjects,
	})
	if err != nil {
		return fmt.Errorf("failed to create stream %s: %w", name, err)
	}
	return nil
}
