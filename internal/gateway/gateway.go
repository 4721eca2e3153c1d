// Package gateway coordinates the broker and the event store. Every
// message that passes through is recorded as an event so the query API
// can replay the traffic later.
package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/groblegark/relay/internal/broker"
	"github.com/groblegark/relay/internal/model"
	"github.com/groblegark/relay/internal/store"
)

const (
	// DefaultMessageLimit is how many messages Receive reads when the
	// caller does not ask for a specific count.
	DefaultMessageLimit = 5

	// MaxMessageLimit caps a single Receive batch.
	MaxMessageLimit = 100

	// DefaultWait bounds how long Receive blocks on the broker.
	DefaultWait = 5 * time.Second
)

// ValidationError reports invalid caller input.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

// BrokerError wraps a failure talking to the message broker.
type BrokerError struct {
	Op  string
	Err error
}

func (e *BrokerError) Error() string { return fmt.Sprintf("broker %s: %v", e.Op, e.Err) }
func (e *BrokerError) Unwrap() error { return e.Err }

// StoreError wraps a failure recording or reading events.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("store %s: %v", e.Op, e.Err) }
func (e *StoreError) Unwrap() error { return e.Err }

// Gateway sends and receives broker messages and records each one as an
// event.
type Gateway struct {
	broker broker.Client
	store  store.Store
	group  string
	wait   time.Duration
	logger *slog.Logger
}

// New creates a Gateway. The group names the consumer identity recorded
// on received events. A zero wait falls back to DefaultWait.
func New(b broker.Client, s store.Store, group string, wait time.Duration, logger *slog.Logger) *Gateway {
	if wait <= 0 {
		wait = DefaultWait
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{broker: b, store: s, group: group, wait: wait, logger: logger}
}

// Send publishes message to topic on behalf of userID and records a
// producer-send event. The message is delivered even if recording fails;
// in that case Send returns a StoreError so the caller knows the event
// log is incomplete.
func (g *Gateway) Send(ctx context.Context, topic, userID, message string) (*model.Event, error) {
	if err := validateTopic(topic); err != nil {
		return nil, err
	}

	if err := g.broker.Publish(ctx, topic, []byte(message)); err != nil {
		return nil, &BrokerError{Op: "publish", Err: err}
	}

	event := &model.Event{
		EventType: model.EventProducerSend,
		UserID:    userID,
		TopicName: topic,
		Message:   message,
	}
	if err := g.store.InsertEvent(ctx, event); err != nil {
		g.logger.Error("message delivered but unrecorded",
			"topic", topic, "user_id", userID, "error", err)
		return nil, &StoreError{Op: "insert event", Err: err}
	}

	return event, nil
}

// Receive reads up to limit messages from topic and records one
// consumer-receive event per message, attributed to the consumer group.
// A limit of zero returns an empty batch without touching the broker;
// a negative limit is invalid. Limits above MaxMessageLimit are clamped.
func (g *Gateway) Receive(ctx context.Context, topic string, limit int) ([]*model.Event, error) {
	if err := validateTopic(topic); err != nil {
		return nil, err
	}
	if limit < 0 {
		return nil, ValidationError("message limit must not be negative")
	}
	if limit == 0 {
		return []*model.Event{}, nil
	}
	if limit > MaxMessageLimit {
		limit = MaxMessageLimit
	}

	pollCtx, cancel := context.WithTimeout(ctx, g.wait)
	defer cancel()

	msgs, err := g.broker.Poll(pollCtx, topic, limit)
	if err != nil {
		return nil, &BrokerError{Op: "poll", Err: err}
	}

	events := make([]*model.Event, 0, len(msgs))
	for _, msg := range msgs {
		event := &model.Event{
			EventType: model.EventConsumerReceive,
			UserID:    g.group,
			TopicName: topic,
			Message:   msg.Value,
		}
		if err := g.store.InsertEvent(ctx, event); err != nil {
			g.logger.Error("received message unrecorded",
				"topic", topic, "group", g.group, "error", err)
			return nil, &StoreError{Op: "insert event", Err: err}
		}
		events = append(events, event)
	}

	return events, nil
}

func validateTopic(topic string) error {
	if strings.TrimSpace(topic) == "" {
		return ValidationError("topic name is required")
	}
	return nil
}
