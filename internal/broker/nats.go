package broker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

// NATSClient implements Client against a NATS server. Topics map to
// subjects, and the consumer group maps to a queue group so that
// competing consumers split the subject the way a Kafka group splits
// partitions.
type NATSClient struct {
	conn  *nats.Conn
	group string

	mu   sync.Mutex
	subs map[string]*nats.Subscription
}

var _ Client = (*NATSClient)(nil)

// NewNATSClient connects to the NATS server at url.
func NewNATSClient(url, group string) (*NATSClient, error) {
	if group == "" {
		return nil, errors.New("nats: consumer group required")
	}

	conn, err := nats.Connect(url,
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats: connect %s: %w", url, err)
	}

	return &NATSClient{
		conn:  conn,
		group: group,
		subs:  make(map[string]*nats.Subscription),
	}, nil
}

func (c *NATSClient) Publish(ctx context.Context, topic string, value []byte) error {
	if err := c.conn.Publish(topic, value); err != nil {
		return fmt.Errorf("nats: publish to %q: %w", topic, err)
	}
	if err := c.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("nats: flush: %w", err)
	}
	return nil
}

func (c *NATSClient) Poll(ctx context.Context, topic string, max int) ([]Message, error) {
	sub, err := c.subscriptionFor(ctx, topic)
	if err != nil {
		return nil, err
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(5 * time.Second)
	}

	out := []Message{}
	for len(out) < max {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			break
		}
		msg, err := sub.NextMsg(remaining)
		if err != nil {
			if errors.Is(err, nats.ErrTimeout) {
				break
			}
			return out, fmt.Errorf("nats: next message on %q: %w", topic, err)
		}
		out = append(out, Message{
			Topic: msg.Subject,
			Value: string(msg.Data),
		})
	}
	return out, nil
}

// subscriptionFor returns the cached queue subscription for topic,
// creating and flushing it on first use. Subscriptions are kept open so
// messages published between polls are not lost.
func (c *NATSClient) subscriptionFor(ctx context.Context, topic string) (*nats.Subscription, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if sub, ok := c.subs[topic]; ok {
		return sub, nil
	}

	sub, err := c.conn.QueueSubscribeSync(topic, c.group)
	if err != nil {
		return nil, fmt.Errorf("nats: subscribe %q: %w", topic, err)
	}
	// Flush so the server registers the subscription before we wait on it.
	if err := c.conn.FlushWithContext(ctx); err != nil {
		sub.Unsubscribe()
		return nil, fmt.Errorf("nats: flush: %w", err)
	}
	c.subs[topic] = sub
	return sub, nil
}

func (c *NATSClient) Ping(ctx context.Context) error {
	if !c.conn.IsConnected() {
		return errors.New("nats: not connected")
	}
	return c.conn.FlushWithContext(ctx)
}

func (c *NATSClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, sub := range c.subs {
		sub.Unsubscribe()
	}
	c.subs = make(map[string]*nats.Subscription)
	c.conn.Close()
	return nil
}
