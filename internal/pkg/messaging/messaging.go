package messaging

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"
)

// ErrUnsupported is returned when a feature is not supported by the selected broker.
var ErrUnsupported = errors.New("messaging: unsupported operation")

// Publisher publishes messages to a destination (topic or subject).
type Publisher interface {
	io.Closer
	// Publish sends a message to the destination.
	Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error)
}

// OutgoingMessage represents a broker-agnostic message to be published.
type OutgoingMessage struct {
	// Body is the message payload.
	Body []byte
	// Key is used by Kafka for partitioning.
	Key []byte
	// Headers support arbitrary binary values and duplicate keys.
	Headers []Header
	// Delay is used for deferred delivery. No supported broker implements it.
	Delay time.Duration
}

// Header is a key/value pair used for message headers.
type Header struct {
	Key   string
	Value []byte
}

// PublishResult carries broker metadata about an accepted message.
type PublishResult struct {
	Topic     string
	Timestamp time.Time
}

// Noop discards every message. It is selected with messaging.driver=none.
type Noop struct{}

func (Noop) Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error) {
	if err := ctx.Err(); err != nil {
		return PublishResult{}, err
	}
	slog.DebugContext(ctx, "message discarded", "destination", destination, "bytes", len(msg.Body))
	return PublishResult{Topic: destination, Timestamp: time.Now()}, nil
}

func (Noop) Close() error { return nil }

func validHeaders(in []Header) []Header {
	out := make([]Header, 0, len(in))
	for _, h := range in {
		if h.Key != "" {
			out = append(out, h)
		}
	}
	return out
}
