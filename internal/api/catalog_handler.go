// File path: internal/api/catalog_handler.go
package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// handleConversions lists recorded conversions, newest first.
func (s *Server) handleConversions(w http.ResponseWriter, r *http.Request) {
	limit := s.cfg.ListLimit
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("parse limit: %w", err))
			return
		}
		limit = parsed
	}
	if limit < 1 {
		limit = 1
	}
	if limit > 200 {
		limit = 200
	}
	conversions, err := s.store.ListConversions(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"conversions": conversions})
}

// handleStats reports how often each fallback reason has been hit.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.FallbackStats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"fallback_reasons": stats})
}
