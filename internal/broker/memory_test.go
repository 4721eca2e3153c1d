package broker

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryPublishPoll(t *testing.T) {
	c := NewMemoryClient("group-a")
	ctx := context.Background()

	for _, v := range []string{"one", "two", "three"} {
		if err := c.Publish(ctx, "orders", []byte(v)); err != nil {
			t.Fatalf("Publish: %v", err)
		}
	}

	msgs, err := c.Poll(ctx, "orders", 2)
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("len(msgs) = %d, want 2", len(msgs))
	}
	if msgs[0].Value != "one" || msgs[1].Value != "two" {
		t.Errorf("got %q, %q; want one, two", msgs[0].Value, msgs[1].Value)
	}

	// The offset advanced, so the next poll returns only the remainder.
	msgs, err = c.Poll(ctx, "orders", 10)
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if len(msgs) != 1 || msgs[0].Value != "three" {
		t.Fatalf("got %v, want single message three", msgs)
	}

	msgs, err = c.Poll(ctx, "orders", 10)
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if len(msgs) != 0 {
		t.Errorf("drained topic returned %d messages", len(msgs))
	}
}

func TestMemoryPollEmptyTopic(t *testing.T) {
	c := NewMemoryClient("group-a")

	msgs, err := c.Poll(context.Background(), "missing", 5)
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if len(msgs) != 0 {
		t.Errorf("len(msgs) = %d, want 0", len(msgs))
	}
}

func TestMemoryFailureInjection(t *testing.T) {
	c := NewMemoryClient("group-a")
	ctx := context.Background()

	boom := errors.New("broker down")
	c.FailPublish = boom
	if err := c.Publish(ctx, "orders", []byte("x")); !errors.Is(err, boom) {
		t.Errorf("Publish err = %v, want %v", err, boom)
	}

	c.FailPoll = boom
	if _, err := c.Poll(ctx, "orders", 1); !errors.Is(err, boom) {
		t.Errorf("Poll err = %v, want %v", err, boom)
	}

	c.FailPing = boom
	if err := c.Ping(ctx); !errors.Is(err, boom) {
		t.Errorf("Ping err = %v, want %v", err, boom)
	}
}
