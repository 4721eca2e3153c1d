package server

import (
	"context"
	"database/sql"
	"time"

	"github.com/groblegark/relay/internal/model"
)

// mockStore is an in-memory store.Store with basic filter support.
type mockStore struct {
	events    []*model.Event
	nextID    int64
	insertErr error
	listErr   error
	pingErr   error
	version   string
}

func (m *mockStore) InsertEvent(_ context.Context, e *model.Event) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.nextID++
	e.ID = m.nextID
	e.CreatedAt = time.Now()
	m.events = append(m.events, e)
	return nil
}

func (m *mockStore) ListEvents(_ context.Context, filter model.EventFilter) ([]*model.Event, int, error) {
	if m.listErr != nil {
		return nil, 0, m.listErr
	}

	matched := []*model.Event{}
	for _, e := range m.events {
		if filter.TopicName != "" && e.TopicName != filter.TopicName {
			continue
		}
		if filter.UserID != "" && e.UserID != filter.UserID {
			continue
		}
		matched = append(matched, e)
	}
	total := len(matched)

	if filter.Skip >= len(matched) {
		return []*model.Event{}, total, nil
	}
	matched = matched[filter.Skip:]
	if filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

func (m *mockStore) Ping(context.Context) error {
	return m.pingErr
}

func (m *mockStore) Version(context.Context) (string, error) {
	if m.pingErr != nil {
		return "", m.pingErr
	}
	return m.version, nil
}

func (m *mockStore) PoolStats() sql.DBStats {
	return sql.DBStats{MaxOpenConnections: 25, OpenConnections: 1, Idle: 1}
}

func (m *mockStore) Close() error { return nil }
