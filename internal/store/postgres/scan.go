package postgres

import (
	"database/sql"

	"github.com/groblegark/relay/internal/model"
)

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// scanEventWithTotal scans a row that has a leading total_count column
// followed by the standard event columns. Used by queryListEvents with
// COUNT(*) OVER().
func scanEventWithTotal(row scannable) (*model.Event, int, error) {
	var total int
	var e model.Event
	var userID sql.NullString

	err := row.Scan(
		&total,
		&e.ID,
		&e.EventType,
		&userID,
		&e.TopicName,
		&e.Message,
		&e.CreatedAt,
	)
	if err != nil {
		return nil, 0, err
	}

	e.UserID = userID.String
	return &e, total, nil
}
