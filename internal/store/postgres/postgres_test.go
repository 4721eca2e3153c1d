package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/groblegark/relay/internal/model"
)

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return &PostgresStore{db: db}, mock
}

func eventRows(total int, events ...*model.Event) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"total_count", "id", "event_type", "user_id", "topic_name", "message", "created_at",
	})
	for _, e := range events {
		rows.AddRow(total, e.ID, e.EventType, e.UserID, e.TopicName, e.Message, e.CreatedAt)
	}
	return rows
}

func TestInsertEvent(t *testing.T) {
	s, mock := newMockStore(t)

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO events`).
		WithArgs("producer-send", "alice", "orders", "hello").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), now))

	event := &model.Event{
		EventType: model.EventProducerSend,
		UserID:    "alice",
		TopicName: "orders",
		Message:   "hello",
	}
	if err := s.InsertEvent(context.Background(), event); err != nil {
		t.Fatalf("InsertEvent: %v", err)
	}
	if event.ID != 7 {
		t.Errorf("ID = %d, want 7", event.ID)
	}
	if !event.CreatedAt.Equal(now) {
		t.Errorf("CreatedAt = %v, want %v", event.CreatedAt, now)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestListEvents(t *testing.T) {
	now := time.Now()
	sample := []*model.Event{
		{ID: 1, EventType: "producer-send", UserID: "alice", TopicName: "orders", Message: "one", CreatedAt: now},
		{ID: 2, EventType: "consumer-receive", UserID: "group-a", TopicName: "orders", Message: "one", CreatedAt: now},
	}

	tests := []struct {
		name      string
		filter    model.EventFilter
		setup     func(mock sqlmock.Sqlmock)
		wantLen   int
		wantTotal int
	}{
		{
			name:   "All",
			filter: model.EventFilter{Limit: 100},
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT COUNT\(\*\) OVER\(\).*FROM events ORDER BY id ASC LIMIT \$1`).
					WithArgs(100).
					WillReturnRows(eventRows(2, sample...))
			},
			wantLen:   2,
			wantTotal: 2,
		},
		{
			name:   "FilterByTopic",
			filter: model.EventFilter{TopicName: "orders", Limit: 100},
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM events WHERE topic_name = \$1 ORDER BY id ASC LIMIT \$2`).
					WithArgs("orders", 100).
					WillReturnRows(eventRows(2, sample...))
			},
			wantLen:   2,
			wantTotal: 2,
		},
		{
			name:   "FilterByTopicAndUser",
			filter: model.EventFilter{TopicName: "orders", UserID: "alice", Limit: 100},
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`WHERE topic_name = \$1 AND user_id = \$2 ORDER BY id ASC LIMIT \$3`).
					WithArgs("orders", "alice", 100).
					WillReturnRows(eventRows(1, sample[0]))
			},
			wantLen:   1,
			wantTotal: 1,
		},
		{
			name:   "Paged",
			filter: model.EventFilter{Skip: 1, Limit: 1},
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`ORDER BY id ASC LIMIT \$1 OFFSET \$2`).
					WithArgs(1, 1).
					WillReturnRows(eventRows(2, sample[1]))
			},
			wantLen:   1,
			wantTotal: 2,
		},
		{
			name:   "LimitZero",
			filter: model.EventFilter{Limit: 0},
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT COUNT\(\*\) FROM events`).
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))
			},
			wantLen:   0,
			wantTotal: 5,
		},
		{
			name:   "SkipBeyondEnd",
			filter: model.EventFilter{Skip: 50, Limit: 10},
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`ORDER BY id ASC LIMIT \$1 OFFSET \$2`).
					WithArgs(10, 50).
					WillReturnRows(eventRows(0))
				mock.ExpectQuery(`SELECT COUNT\(\*\) FROM events`).
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
			},
			wantLen:   0,
			wantTotal: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newMockStore(t)
			tt.setup(mock)

			events, total, err := s.ListEvents(context.Background(), tt.filter)
			if err != nil {
				t.Fatalf("ListEvents: %v", err)
			}
			if len(events) != tt.wantLen {
				t.Errorf("len(events) = %d, want %d", len(events), tt.wantLen)
			}
			if total != tt.wantTotal {
				t.Errorf("total = %d, want %d", total, tt.wantTotal)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unmet expectations: %v", err)
			}
		})
	}
}

func TestListEventsQueryError(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`FROM events`).WillReturnError(context.DeadlineExceeded)

	_, _, err := s.ListEvents(context.Background(), model.EventFilter{Limit: 10})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestVersion(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT version\(\)`).
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow("PostgreSQL 16.3"))

	got, err := s.Version(context.Background())
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	if got != "PostgreSQL 16.3" {
		t.Errorf("Version = %q", got)
	}
}
