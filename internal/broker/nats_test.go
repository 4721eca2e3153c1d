package broker

import (
	"context"
	"testing"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/server"
)

// startTestNATS starts an embedded NATS server and returns its client URL.
func startTestNATS(t *testing.T) string {
	t.Helper()
	opts := &natsserver.Options{Host: "127.0.0.1", Port: -1}
	srv, err := natsserver.NewServer(opts)
	if err != nil {
		t.Fatalf("starting embedded NATS: %v", err)
	}
	srv.Start()
	t.Cleanup(srv.Shutdown)
	if !srv.ReadyForConnections(5 * time.Second) {
		t.Fatal("embedded NATS not ready")
	}
	return srv.ClientURL()
}

func TestNATSPublishPoll(t *testing.T) {
	url := startTestNATS(t)

	c, err := NewNATSClient(url, "group-a")
	if err != nil {
		t.Fatalf("NewNATSClient: %v", err)
	}
	defer c.Close()

	// First poll establishes the queue subscription.
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	msgs, err := c.Poll(ctx, "orders", 1)
	cancel()
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if len(msgs) != 0 {
		t.Fatalf("unexpected messages before publish: %v", msgs)
	}

	if err := c.Publish(context.Background(), "orders", []byte("hello")); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	ctx, cancel = context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	msgs, err = c.Poll(ctx, "orders", 1)
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("len(msgs) = %d, want 1", len(msgs))
	}
	if msgs[0].Value != "hello" {
		t.Errorf("Value = %q, want hello", msgs[0].Value)
	}
	if msgs[0].Topic != "orders" {
		t.Errorf("Topic = %q, want orders", msgs[0].Topic)
	}
}

func TestNATSPollPartialBatch(t *testing.T) {
	url := startTestNATS(t)

	c, err := NewNATSClient(url, "group-a")
	if err != nil {
		t.Fatalf("NewNATSClient: %v", err)
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	if _, err := c.Poll(ctx, "orders", 1); err != nil {
		t.Fatalf("Poll: %v", err)
	}
	cancel()

	if err := c.Publish(context.Background(), "orders", []byte("only-one")); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	// Ask for more than is available; the deadline returns a partial batch.
	ctx, cancel = context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	msgs, err := c.Poll(ctx, "orders", 5)
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("len(msgs) = %d, want 1", len(msgs))
	}
}

func TestNATSPing(t *testing.T) {
	url := startTestNATS(t)

	c, err := NewNATSClient(url, "group-a")
	if err != nil {
		t.Fatalf("NewNATSClient: %v", err)
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := c.Ping(ctx); err != nil {
		t.Errorf("Ping: %v", err)
	}
}

func TestNATSClientRequiresGroup(t *testing.T) {
	if _, err := NewNATSClient("nats://127.0.0.1:4222", ""); err == nil {
		t.Fatal("expected error for empty group")
	}
}
