package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/groblegark/relay/internal/model"
)

// eventColumns is the column list used for SELECT statements on the events table.
const eventColumns = `id, event_type, user_id, topic_name, message, created_at`

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func queryInsertEvent(ctx context.Context, db executor, e *model.Event) error {
	return db.QueryRowContext(ctx, `
		INSERT INTO events (event_type, user_id, topic_name, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		e.EventType, e.UserID, e.TopicName, e.Message,
	).Scan(&e.ID, &e.CreatedAt)
}

// eventWhere builds the WHERE clause and args for an EventFilter.
func eventWhere(filter model.EventFilter) (string, []any) {
	var (
		whereClauses []string
		args         []any
	)

	if filter.TopicName != "" {
		args = append(args, filter.TopicName)
		whereClauses = append(whereClauses, fmt.Sprintf("topic_name = $%d", len(args)))
	}
	if filter.UserID != "" {
		args = append(args, filter.UserID)
		whereClauses = append(whereClauses, fmt.Sprintf("user_id = $%d", len(args)))
	}

	if len(whereClauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(whereClauses, " AND "), args
}

func queryListEvents(ctx context.Context, db executor, filter model.EventFilter) ([]*model.Event, int, error) {
	whereSQL, args := eventWhere(filter)

	// A zero limit is a valid request for an empty page with the correct
	// total; COUNT(*) OVER() would return no rows, so count separately.
	if filter.Limit <= 0 {
		total, err := queryCountEvents(ctx, db, filter)
		if err != nil {
			return nil, 0, err
		}
		return []*model.Event{}, total, nil
	}

	// Single query with COUNT(*) OVER() to get total and rows atomically.
	dataQuery := "SELECT COUNT(*) OVER() AS total_count, " + eventColumns +
		" FROM events" + whereSQL + " ORDER BY id ASC"

	args = append(args, filter.Limit)
	dataQuery += fmt.Sprintf(" LIMIT $%d", len(args))
	if filter.Skip > 0 {
		args = append(args, filter.Skip)
		dataQuery += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := db.QueryContext(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	events := []*model.Event{}
	var total int
	for rows.Next() {
		e, t, err := scanEventWithTotal(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan events: %w", err)
		}
		total = t
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("scan events: %w", err)
	}

	// A skip past the end of the result returns no rows, and with them no
	// window total; fall back to a bare count.
	if len(events) == 0 && filter.Skip > 0 {
		total, err = queryCountEvents(ctx, db, filter)
		if err != nil {
			return nil, 0, err
		}
	}

	return events, total, nil
}

func queryCountEvents(ctx context.Context, db executor, filter model.EventFilter) (int, error) {
	whereSQL, args := eventWhere(filter)

	var total int
	err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM events"+whereSQL, args...).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return total, nil
}

func queryStoreVersion(ctx context.Context, db executor) (string, error) {
	var version string
	if err := db.QueryRowContext(ctx, `SELECT version()`).Scan(&version); err != nil {
		return "", fmt.Errorf("select version: %w", err)
	}
	return version, nil
}
