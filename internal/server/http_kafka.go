package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/groblegark/relay/internal/gateway"
	"github.com/groblegark/relay/internal/model"
)

type sendMessageRequest struct {
	TopicName    string `json:"topic_name"`
	TopicMessage string `json:"topic_message"`
	Source       string `json:"source"`
}

// handleSendMessage handles POST /kafka/producer/send-message.
func (s *RelayServer) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	event, err := s.gateway.Send(r.Context(), req.TopicName, req.Source, req.TopicMessage)
	if err != nil {
		s.writeGatewayError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{
		"event_id":   event.ID,
		"topic_name": event.TopicName,
		"message":    event.Message,
	})
}

// handleConsumeMessages handles GET /kafka/consume/consume-message.
func (s *RelayServer) handleConsumeMessages(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := gateway.DefaultMessageLimit
	if raw := q.Get("message_limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "message_limit must be an integer")
			return
		}
		limit = parsed
	}

	events, err := s.gateway.Receive(r.Context(), q.Get("topic_name"), limit)
	if err != nil {
		s.writeGatewayError(w, err)
		return
	}

	messages := make([]string, 0, len(events))
	for _, e := range events {
		messages = append(messages, e.Message)
	}
	writeSuccess(w, http.StatusOK, map[string]any{
		"messages": messages,
		"count":    len(messages),
	})
}

// handleListEvents handles GET /kafka/events.
func (s *RelayServer) handleListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	skip, err := queryInt(q.Get("skip"), 0)
	if err != nil || skip < 0 {
		writeError(w, http.StatusBadRequest, "skip must be a non-negative integer")
		return
	}
	limit, err := queryInt(q.Get("limit"), 100)
	if err != nil || limit < 0 {
		writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
		return
	}

	filter := model.EventFilter{
		TopicName: q.Get("topic_name"),
		UserID:    q.Get("user_id"),
		Skip:      skip,
		Limit:     limit,
	}
	events, total, err := s.store.ListEvents(r.Context(), filter)
	if err != nil {
		s.logger.Error("list events", "error", err)
		writeError(w, http.StatusInternalServerError, "event store unavailable")
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{
		"total":  total,
		"events": events,
	})
}

// queryInt parses an optional integer query parameter.
func queryInt(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
