package server

import "net/http"

// NewHTTPHandler returns an http.Handler with all routes registered and
// the request-ID, logging, and recovery middleware applied.
func (s *RelayServer) NewHTTPHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /kafka/producer/send-message", s.handleSendMessage)
	mux.HandleFunc("GET /kafka/consume/consume-message", s.handleConsumeMessages)
	mux.HandleFunc("GET /kafka/events", s.handleListEvents)
	mux.HandleFunc("POST /redis/set", s.handleCacheSet)
	mux.HandleFunc("GET /redis/get", s.handleCacheGet)
	mux.HandleFunc("GET /data-sources/test/store", s.handleTestStore)
	mux.HandleFunc("GET /data-sources/test/connection-info", s.handleTestConnectionInfo)
	mux.HandleFunc("GET /data-sources/test/broker", s.handleTestBroker)
	mux.HandleFunc("GET /data-sources/test/cache", s.handleTestCache)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /{$}", s.handleRoot)

	var handler http.Handler = mux
	handler = RecoveryMiddleware(s.logger, handler)
	handler = LoggingMiddleware(s.logger, handler)
	handler = RequestIDMiddleware(handler)
	return handler
}

// handleHealth handles GET /health.
func (s *RelayServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]string{"health": "ok"})
}

// handleRoot handles GET / with a short service banner.
func (s *RelayServer) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]string{
		"service":     "relay",
		"description": "broker, event store, and cache bridge",
	})
}
