package model

import "time"

// Event type tags. The set is extensible; these two cover every broker
// interaction the gateway performs today.
const (
	EventProducerSend    = "producer-send"
	EventConsumerReceive = "consumer-receive"
)

// Event is a durable record of one produce or consume interaction with the
// broker. ID and CreatedAt are assigned by the store at insert time and are
// never mutated afterwards.
type Event struct {
	ID        int64     `json:"id"`
	EventType string    `json:"event_type"`
	UserID    string    `json:"user_id"`
	TopicName string    `json:"topic_name"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"timestamp"`
}

// EventFilter selects and paginates event log queries. TopicName and UserID
// are exact-match conjunctive filters; empty values impose no constraint.
// Skip/Limit window the id-ascending result.
type EventFilter struct {
	TopicName string
	UserID    string
	Skip      int
	Limit     int
}
