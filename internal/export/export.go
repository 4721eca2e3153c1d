// Package export periodically writes the event log as JSONL to an
// S3-compatible destination.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/groblegark/relay/internal/model"
	"github.com/groblegark/relay/internal/store"
)

// pageSize is how many events are fetched from the store per page.
const pageSize = 500

// header is the first JSONL record written by WriteJSONL.
type header struct {
	Version    string    `json:"version"`
	Type       string    `json:"type"`
	Timestamp  time.Time `json:"timestamp"`
	EventCount int       `json:"event_count"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string       `json:"type"`
	Data *model.Event `json:"data"`
}

// WriteJSONL writes the full event log to w as JSONL, a header line
// followed by one line per event in id order. Events are paged out of
// the store so the whole log never sits in memory twice.
func WriteJSONL(ctx context.Context, s store.Store, w io.Writer) error {
	var pages [][]*model.Event
	var total int

	for skip := 0; ; skip += pageSize {
		events, t, err := s.ListEvents(ctx, model.EventFilter{Skip: skip, Limit: pageSize})
		if err != nil {
			return fmt.Errorf("list events: %w", err)
		}
		total = t
		if len(events) > 0 {
			pages = append(pages, events)
		}
		if skip+len(events) >= total || len(events) == 0 {
			break
		}
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(header{
		Version:    "1",
		Type:       "header",
		Timestamp:  time.Now().UTC(),
		EventCount: total,
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	for _, page := range pages {
		for _, e := range page {
			if err := enc.Encode(record{Type: "event", Data: e}); err != nil {
				return fmt.Errorf("encode event %d: %w", e.ID, err)
			}
		}
	}

	return nil
}
