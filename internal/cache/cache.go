// Package cache wraps Redis for the key/value endpoints. Values keep
// their shape: a plain string round-trips as a string, and structured
// JSON round-trips as JSON, even though Redis only stores bytes.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// Kind discriminates the two value shapes a cache entry can hold.
type Kind string

const (
	KindText       Kind = "text"
	KindStructured Kind = "structured"
)

// Value is either a plain text string or a structured JSON document.
type Value struct {
	Kind Kind
	Text string          // set when Kind == KindText
	Raw  json.RawMessage // set when Kind == KindStructured
}

// TextValue wraps a plain string.
func TextValue(s string) Value {
	return Value{Kind: KindText, Text: s}
}

// StructuredValue wraps a JSON document.
func StructuredValue(raw json.RawMessage) Value {
	return Value{Kind: KindStructured, Raw: raw}
}

// MarshalJSON renders the value in its original shape.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.Kind == KindStructured {
		if len(v.Raw) == 0 {
			return []byte("null"), nil
		}
		return v.Raw, nil
	}
	return json.Marshal(v.Text)
}

// UnmarshalJSON classifies the incoming JSON: a string is text, anything
// else (object, array, number, bool, null) is structured.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return errors.New("empty value")
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = TextValue(s)
		return nil
	}
	if !json.Valid(data) {
		return errors.New("invalid JSON value")
	}
	*v = StructuredValue(json.RawMessage(trimmed))
	return nil
}

// envelope is the tagged form stored in Redis so Get can restore the
// original shape.
type envelope struct {
	Kind  Kind            `json:"kind"`
	Text  string          `json:"text,omitempty"`
	Value json.RawMessage `json:"value,omitempty"`
}

// Info is a trimmed view of the Redis INFO output used by diagnostics.
type Info struct {
	Version          string `json:"version"`
	ConnectedClients string `json:"connected_clients"`
	UsedMemoryHuman  string `json:"used_memory_human"`
}

// Cache is the Redis-backed key/value gateway.
type Cache struct {
	client *redis.Client
}

// New connects to the Redis server described by the URL, e.g.
// redis://localhost:6379/0.
func New(redisURL string) (*Cache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &Cache{client: redis.NewClient(opts)}, nil
}

// NewWithClient wraps an existing client. Used by tests.
func NewWithClient(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Set stores value under key, replacing any previous entry. Entries do
// not expire.
func (c *Cache) Set(ctx context.Context, key string, value Value) error {
	env := envelope{Kind: value.Kind}
	switch value.Kind {
	case KindText:
		env.Text = value.Text
	case KindStructured:
		env.Value = value.Raw
	default:
		return fmt.Errorf("unknown value kind %q", value.Kind)
	}

	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode cache value: %w", err)
	}
	if err := c.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

// Get returns the value stored under key. A missing key returns
// ok == false with a nil error. Data written outside this package, which
// does not carry the envelope, comes back as text.
func (c *Cache) Get(ctx context.Context, key string) (Value, bool, error) {
	data, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return Value{}, false, nil
	}
	if err != nil {
		return Value{}, false, fmt.Errorf("redis get %q: %w", key, err)
	}

	var env envelope
	if err := json.Unmarshal([]byte(data), &env); err != nil || env.Kind == "" {
		return TextValue(data), true, nil
	}

	switch env.Kind {
	case KindText:
		return TextValue(env.Text), true, nil
	case KindStructured:
		return StructuredValue(env.Value), true, nil
	default:
		return TextValue(data), true, nil
	}
}

// Ping checks connectivity to the Redis server.
func (c *Cache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// ServerInfo reports version and usage details from INFO.
func (c *Cache) ServerInfo(ctx context.Context) (Info, error) {
	raw, err := c.client.Info(ctx).Result()
	if err != nil {
		return Info{}, fmt.Errorf("redis info: %w", err)
	}
	return parseInfo(raw), nil
}

// Close releases the client's connection pool.
func (c *Cache) Close() error {
	return c.client.Close()
}

// parseInfo extracts the fields diagnostics cares about from the
// key:value lines of a Redis INFO response.
func parseInfo(raw string) Info {
	var info Info
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		switch key {
		case "redis_version":
			info.Version = value
		case "connected_clients":
			info.ConnectedClients = value
		case "used_memory_human":
			info.UsedMemoryHuman = value
		}
	}
	return info
}
