package broker

import (
	"context"
	"errors"
	"sync"
)

// MemoryClient is an in-process Client used by tests. Each consumer
// group tracks its own offset per topic, so repeated polls drain a topic
// the way a real group would.
type MemoryClient struct {
	group string

	mu      sync.Mutex
	topics  map[string][]string
	offsets map[string]int

	// FailPublish and FailPoll, when set, are returned by the
	// corresponding method to simulate broker outages.
	FailPublish error
	FailPoll    error
	FailPing    error
}

var _ Client = (*MemoryClient)(nil)

// NewMemoryClient creates an empty in-memory broker for the given group.
func NewMemoryClient(group string) *MemoryClient {
	return &MemoryClient{
		group:   group,
		topics:  make(map[string][]string),
		offsets: make(map[string]int),
	}
}

func (c *MemoryClient) Publish(_ context.Context, topic string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.FailPublish != nil {
		return c.FailPublish
	}
	c.topics[topic] = append(c.topics[topic], string(value))
	return nil
}

func (c *MemoryClient) Poll(_ context.Context, topic string, max int) ([]Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.FailPoll != nil {
		return nil, c.FailPoll
	}

	offset := c.offsets[topic]
	values := c.topics[topic]

	out := []Message{}
	for offset < len(values) && len(out) < max {
		out = append(out, Message{
			Topic:  topic,
			Offset: int64(offset),
			Value:  values[offset],
		})
		offset++
	}
	c.offsets[topic] = offset
	return out, nil
}

func (c *MemoryClient) Ping(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.FailPing != nil {
		return c.FailPing
	}
	return nil
}

func (c *MemoryClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.topics == nil {
		return errors.New("memory broker already closed")
	}
	c.topics = nil
	c.offsets = nil
	return nil
}
