// Package events publishes record change events to a Redis stream.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"

	"github.com/castleviz/castleviz/internal/metrics"
)

const (
	// DefaultStreamKey is the Redis stream for record events.
	DefaultStreamKey = "stream:record_events"

	// MaxStreamLen is the approximate max length of the stream.
	MaxStreamLen = 100000

	// PublishTimeout is the max time to wait for Redis publish.
	PublishTimeout = 100 * time.Millisecond
)

// Actions carried by an Event.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Event describes one mutation of a user, payment or bill.
type Event struct {
	ID         string `json:"id"`
	Kind       string `json:"kind"`
	Action     string `json:"action"`
	RecordID   string `json:"record_id"`
	UserID     string `json:"user_id,omitempty"`
	OccurredAt int64  `json:"t"` // Unix milliseconds
}

// NewEvent builds an event with a fresh ULID. A zero userID is omitted.
func NewEvent(kind, action string, recordID, userID uuid.UUID, at time.Time) Event {
	e := Event{
		ID:         ulid.MustNew(ulid.Timestamp(at), ulid.DefaultEntropy()).String(),
		Kind:       kind,
		Action:     action,
		RecordID:   recordID.String(),
		OccurredAt: at.UnixMilli(),
	}
	if userID != uuid.Nil {
		e.UserID = userID.String()
	}
	return e
}

// Publisher receives record events.
type Publisher interface {
	PublishAsync(event Event)
}

// Noop discards every event.
type Noop struct{}

// PublishAsync is a no-op.
func (Noop) PublishAsync(Event) {}

// StreamPublisher appends events to a Redis stream.
type StreamPublisher struct {
	redis   *redis.Client
	stream  string
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewStreamPublisher creates a publisher writing to stream.
func NewStreamPublisher(client *redis.Client, stream string, logger *slog.Logger, recorder metrics.Recorder) *StreamPublisher {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if stream == "" {
		stream = DefaultStreamKey
	}
	return &StreamPublisher{
		redis:   client,
		stream:  stream,
		logger:  logger.With("component", "events.publisher"),
		metrics: recorder,
	}
}

// Publish adds an event to the stream synchronously.
func (p *StreamPublisher) Publish(ctx context.Context, event Event) (string, error) {
	values, err := streamValues(event)
	if err != nil {
		return "", err
	}

	result, err := p.redis.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: MaxStreamLen,
		Approx: true,
		ID:     "*",
		Values: values,
	}).Result()
	if err != nil {
		return "", fmt.Errorf("xadd: %w", err)
	}

	return result, nil
}

// PublishAsync publishes without blocking the caller.
// Errors are logged but not returned.
func (p *StreamPublisher) PublishAsync(event Event) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), PublishTimeout)
		defer cancel()

		streamID, err := p.Publish(ctx, event)
		if err != nil {
			p.logger.Warn("failed to publish record event",
				"kind", event.Kind,
				"action", event.Action,
				"record_id", event.RecordID,
				"error", err,
			)
			p.metrics.IncEventPublished("dropped")
			return
		}

		p.logger.Debug("record event published",
			"event_id", event.ID,
			"stream_id", streamID,
		)
		p.metrics.IncEventPublished("success")
	}()
}

func streamValues(event Event) (map[string]interface{}, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return map[string]interface{}{
		"kind":    event.Kind,
		"payload": string(data),
	}, nil
}
