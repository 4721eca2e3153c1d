// Package broker abstracts the message broker behind a small client
// interface so the gateway can run against Kafka, NATS, or an in-memory
// implementation in tests.
package broker

import "context"

// Message is a single record received from the broker.
type Message struct {
	Topic     string `json:"topic"`
	Partition int32  `json:"partition"`
	Offset    int64  `json:"offset"`
	Value     string `json:"value"`
}

// Client is the broker interface used by the gateway.
//
// Poll reads up to max messages for the given topic on behalf of the
// consumer group, waiting at most until ctx expires. Returning fewer
// messages than max is not an error; an expired deadline with a partial
// batch returns what was read so far.
type Client interface {
	Publish(ctx context.Context, topic string, value []byte) error
	Poll(ctx context.Context, topic string, max int) ([]Message, error)
	Ping(ctx context.Context) error
	Close() error
}
