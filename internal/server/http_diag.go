package server

import "net/http"

// The diagnostics endpoints report an unreachable backend as data inside
// a success envelope. The probe itself succeeded; the finding is the
// payload.

// handleTestStore handles GET /data-sources/test/store.
func (s *RelayServer) handleTestStore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := s.store.Ping(ctx); err != nil {
		writeSuccess(w, http.StatusOK, map[string]string{
			"database": "postgresql",
			"status":   "down",
			"error":    err.Error(),
		})
		return
	}

	version, err := s.store.Version(ctx)
	if err != nil {
		writeSuccess(w, http.StatusOK, map[string]string{
			"database": "postgresql",
			"status":   "down",
			"error":    err.Error(),
		})
		return
	}

	writeSuccess(w, http.StatusOK, map[string]string{
		"database": "postgresql",
		"status":   "up",
		"version":  version,
	})
}

// handleTestConnectionInfo handles GET /data-sources/test/connection-info.
func (s *RelayServer) handleTestConnectionInfo(w http.ResponseWriter, _ *http.Request) {
	stats := s.store.PoolStats()
	writeSuccess(w, http.StatusOK, map[string]any{
		"max_open_connections": stats.MaxOpenConnections,
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"wait_count":           stats.WaitCount,
		"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
	})
}

// handleTestBroker handles GET /data-sources/test/broker.
func (s *RelayServer) handleTestBroker(w http.ResponseWriter, r *http.Request) {
	if err := s.broker.Ping(r.Context()); err != nil {
		writeSuccess(w, http.StatusOK, map[string]string{
			"broker": "message broker",
			"status": "down",
			"error":  err.Error(),
		})
		return
	}
	writeSuccess(w, http.StatusOK, map[string]string{
		"broker": "message broker",
		"status": "up",
	})
}

// handleTestCache handles GET /data-sources/test/cache.
func (s *RelayServer) handleTestCache(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := s.cache.Ping(ctx); err != nil {
		writeSuccess(w, http.StatusOK, map[string]string{
			"cache":  "redis",
			"status": "down",
			"error":  err.Error(),
		})
		return
	}

	info, err := s.cache.ServerInfo(ctx)
	if err != nil {
		writeSuccess(w, http.StatusOK, map[string]string{
			"cache":  "redis",
			"status": "down",
			"error":  err.Error(),
		})
		return
	}

	writeSuccess(w, http.StatusOK, map[string]string{
		"cache":             "redis",
		"status":            "up",
		"version":           info.Version,
		"connected_clients": info.ConnectedClients,
		"used_memory_human": info.UsedMemoryHuman,
	})
}
