// Package server exposes the relay service over HTTP. Every response
// uses the same envelope: {"status":"success","data":...} on success and
// {"status":"error","message":...} on failure.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/groblegark/relay/internal/broker"
	"github.com/groblegark/relay/internal/cache"
	"github.com/groblegark/relay/internal/gateway"
	"github.com/groblegark/relay/internal/store"
)

// RelayServer holds the dependencies shared by all HTTP handlers.
type RelayServer struct {
	gateway *gateway.Gateway
	store   store.Store
	cache   *cache.Cache
	broker  broker.Client
	logger  *slog.Logger
}

// New creates a RelayServer.
func New(g *gateway.Gateway, s store.Store, c *cache.Cache, b broker.Client, logger *slog.Logger) *RelayServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &RelayServer{gateway: g, store: s, cache: c, broker: b, logger: logger}
}

// envelope is the uniform response body.
type envelope struct {
	Status  string `json:"status"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeSuccess wraps data in a success envelope.
func writeSuccess(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Status: "success", Data: data})
}

// writeError wraps message in an error envelope.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Status: "error", Message: message})
}

// writeGatewayError maps the gateway's error taxonomy onto HTTP status
// codes: invalid input is the caller's fault, a broker failure is a bad
// upstream, and a store failure is ours.
func (s *RelayServer) writeGatewayError(w http.ResponseWriter, err error) {
	var verr gateway.ValidationError
	if errors.As(err, &verr) {
		writeError(w, http.StatusBadRequest, verr.Error())
		return
	}
	var berr *gateway.BrokerError
	if errors.As(err, &berr) {
		s.logger.Error("broker failure", "op", berr.Op, "error", berr.Err)
		writeError(w, http.StatusBadGateway, "message broker unavailable")
		return
	}
	var serr *gateway.StoreError
	if errors.As(err, &serr) {
		s.logger.Error("store failure", "op", serr.Op, "error", serr.Err)
		writeError(w, http.StatusInternalServerError, "event store unavailable")
		return
	}
	s.logger.Error("unexpected failure", "error", err)
	writeError(w, http.StatusInternalServerError, "internal server error")
}
