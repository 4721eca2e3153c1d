// Package client is a thin HTTP client for the relay service, used by
// the CLI subcommands.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/groblegark/relay/internal/cache"
	"github.com/groblegark/relay/internal/model"
)

// Client talks to a running relay server over HTTP/JSON.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client targeting the given base URL
// (e.g. "http://localhost:8080").
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
}

// SendResult is the response to a send request.
type SendResult struct {
	EventID   int64  `json:"event_id"`
	TopicName string `json:"topic_name"`
	Message   string `json:"message"`
}

// Send publishes message to topic attributed to source.
func (c *Client) Send(ctx context.Context, topic, message, source string) (*SendResult, error) {
	body := map[string]string{
		"topic_name":    topic,
		"topic_message": message,
		"source":        source,
	}
	var result SendResult
	if err := c.doJSON(ctx, http.MethodPost, "/kafka/producer/send-message", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ConsumeResult is the response to a consume request.
type ConsumeResult struct {
	Messages []string `json:"messages"`
	Count    int      `json:"count"`
}

// Consume reads up to limit messages from topic. A zero limit uses the
// server default.
func (c *Client) Consume(ctx context.Context, topic string, limit int) (*ConsumeResult, error) {
	q := url.Values{}
	q.Set("topic_name", topic)
	if limit > 0 {
		q.Set("message_limit", fmt.Sprintf("%d", limit))
	}

	var result ConsumeResult
	if err := c.doJSON(ctx, http.MethodGet, "/kafka/consume/consume-message?"+q.Encode(), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// EventsResult is the response to an events query.
type EventsResult struct {
	Total  int            `json:"total"`
	Events []*model.Event `json:"events"`
}

// Events lists recorded events matching the filter.
func (c *Client) Events(ctx context.Context, filter model.EventFilter) (*EventsResult, error) {
	q := url.Values{}
	if filter.TopicName != "" {
		q.Set("topic_name", filter.TopicName)
	}
	if filter.UserID != "" {
		q.Set("user_id", filter.UserID)
	}
	if filter.Skip > 0 {
		q.Set("skip", fmt.Sprintf("%d", filter.Skip))
	}
	if filter.Limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", filter.Limit))
	}

	path := "/kafka/events"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var result EventsResult
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CacheSet stores value under key.
func (c *Client) CacheSet(ctx context.Context, key string, value cache.Value) error {
	body := map[string]any{
		"key_store": key,
		"value":     value,
	}
	return c.doJSON(ctx, http.MethodPost, "/redis/set", body, nil)
}

// CacheGetResult is the response to a cache get request.
type CacheGetResult struct {
	KeyStore string      `json:"key_store"`
	Found    bool        `json:"found"`
	Value    cache.Value `json:"value"`
}

// CacheGet fetches the value stored under key.
func (c *Client) CacheGet(ctx context.Context, key string) (*CacheGetResult, error) {
	var result CacheGetResult
	path := "/redis/get?key_store=" + url.QueryEscape(key)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Health checks the server's health endpoint.
func (c *Client) Health(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, "/health", nil, nil)
}

// APIError represents an error envelope returned by the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// doJSON performs an HTTP request with an optional JSON body, unwraps the
// response envelope, and decodes its data field into result. If result is
// nil the data is discarded.
func (c *Client) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	var env struct {
		Status  string          `json:"status"`
		Data    json.RawMessage `json:"data"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(respBody, &env); err != nil {
		return &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if resp.StatusCode >= 400 || env.Status == "error" {
		msg := env.Message
		if msg == "" {
			msg = string(respBody)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if result != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
