// File path: internal/api/logs_handler.go
package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/Sahafkop9696/React-Angular-Transpiler-Sahaf/internal/common"
)

// handleLogs exposes the in-memory log ring for quick inspection.
func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	entries := common.LogEntries()
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("parse limit: %w", err))
			return
		}
		if parsed > 0 && len(entries) > parsed {
			entries = entries[len(entries)-parsed:]
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"entries": entries})
}
