package broker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/twmb/franz-go/pkg/kgo"
)

// KafkaClient implements Client against a Kafka cluster.
//
// A single producer client is shared for all publishes. Consumer clients
// are created per topic on first Poll and cached, so that group offsets
// advance across calls instead of re-reading from the start each time.
type KafkaClient struct {
	brokers []string
	group   string

	producer *kgo.Client

	mu        sync.Mutex
	consumers map[string]*kgo.Client
}

var _ Client = (*KafkaClient)(nil)

// NewKafkaClient connects a producer to the given seed brokers. Consumers
// join the given group.
func NewKafkaClient(brokers []string, group string) (*KafkaClient, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka: no seed brokers")
	}
	if group == "" {
		return nil, errors.New("kafka: consumer group required")
	}

	producer, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.AllowAutoTopicCreation(),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka: create producer: %w", err)
	}

	return &KafkaClient{
		brokers:   brokers,
		group:     group,
		producer:  producer,
		consumers: make(map[string]*kgo.Client),
	}, nil
}

func (c *KafkaClient) Publish(ctx context.Context, topic string, value []byte) error {
	record := &kgo.Record{Topic: topic, Value: value}
	if err := c.producer.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("kafka: produce to %q: %w", topic, err)
	}
	return nil
}

func (c *KafkaClient) Poll(ctx context.Context, topic string, max int) ([]Message, error) {
	consumer, err := c.consumerFor(topic)
	if err != nil {
		return nil, err
	}

	out := []Message{}
	for len(out) < max {
		fetches := consumer.PollRecords(ctx, max-len(out))
		if fetches.IsClientClosed() {
			return out, errors.New("kafka: consumer closed")
		}

		// A deadline expiry surfaces as a fetch error; records fetched in
		// the same poll still count toward the batch.
		expired := false
		for _, fetchErr := range fetches.Errors() {
			if errors.Is(fetchErr.Err, context.DeadlineExceeded) || errors.Is(fetchErr.Err, context.Canceled) {
				expired = true
				continue
			}
			return out, fmt.Errorf("kafka: fetch %q: %w", fetchErr.Topic, fetchErr.Err)
		}
		fetches.EachRecord(func(r *kgo.Record) {
			out = append(out, Message{
				Topic:     r.Topic,
				Partition: r.Partition,
				Offset:    r.Offset,
				Value:     string(r.Value),
			})
		})
		if expired || ctx.Err() != nil {
			return out, nil
		}
	}
	return out, nil
}

// consumerFor returns the cached group consumer for topic, creating it on
// first use.
func (c *KafkaClient) consumerFor(topic string) (*kgo.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if consumer, ok := c.consumers[topic]; ok {
		return consumer, nil
	}

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(c.brokers...),
		kgo.ConsumerGroup(c.group),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka: create consumer for %q: %w", topic, err)
	}
	c.consumers[topic] = consumer
	return consumer, nil
}

func (c *KafkaClient) Ping(ctx context.Context) error {
	return c.producer.Ping(ctx)
}

func (c *KafkaClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, consumer := range c.consumers {
		consumer.Close()
	}
	c.consumers = make(map[string]*kgo.Client)
	c.producer.Close()
	return nil
}
