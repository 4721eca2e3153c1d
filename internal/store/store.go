package store

import (
	"context"
	"database/sql"

	"github.com/groblegark/relay/internal/model"
)

// Store defines the persistence interface for the event log.
type Store interface {
	// InsertEvent persists a new event record and fills in its
	// store-assigned ID and CreatedAt.
	InsertEvent(ctx context.Context, event *model.Event) error

	// ListEvents returns the filtered page of events ordered by id
	// ascending, plus the total count of matching rows regardless of
	// the Skip/Limit window.
	ListEvents(ctx context.Context, filter model.EventFilter) ([]*model.Event, int, error)

	// Diagnostics
	Ping(ctx context.Context) error
	Version(ctx context.Context) (string, error)
	PoolStats() sql.DBStats

	// Lifecycle
	Close() error
}
