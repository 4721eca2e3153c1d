package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/groblegark/relay/internal/cache"
)

type cacheSetRequest struct {
	KeyStore string       `json:"key_store"`
	Value    *cache.Value `json:"value"`
}

// handleCacheSet handles POST /redis/set.
func (s *RelayServer) handleCacheSet(w http.ResponseWriter, r *http.Request) {
	var req cacheSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.KeyStore) == "" {
		writeError(w, http.StatusBadRequest, "key_store is required")
		return
	}
	if req.Value == nil {
		writeError(w, http.StatusBadRequest, "value is required")
		return
	}

	if err := s.cache.Set(r.Context(), req.KeyStore, *req.Value); err != nil {
		s.logger.Error("cache set", "key", req.KeyStore, "error", err)
		writeError(w, http.StatusInternalServerError, "cache unavailable")
		return
	}

	writeSuccess(w, http.StatusOK, map[string]string{"key_store": req.KeyStore})
}

// handleCacheGet handles GET /redis/get.
func (s *RelayServer) handleCacheGet(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key_store")
	if strings.TrimSpace(key) == "" {
		writeError(w, http.StatusBadRequest, "key_store is required")
		return
	}

	value, found, err := s.cache.Get(r.Context(), key)
	if err != nil {
		s.logger.Error("cache get", "key", key, "error", err)
		writeError(w, http.StatusInternalServerError, "cache unavailable")
		return
	}

	data := map[string]any{
		"key_store": key,
		"found":     found,
	}
	if found {
		data["value"] = value
	}
	writeSuccess(w, http.StatusOK, data)
}
