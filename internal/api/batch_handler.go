// File path: internal/api/batch_handler.go
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"

	"github.com/Sahafkop9696/React-Angular-Transpiler-Sahaf/internal/common"
	"github.com/Sahafkop9696/React-Angular-Transpiler-Sahaf/internal/workflow"
)

// handleBatch converts every React source under a directory. The run is
// synchronous; the response carries the full step-by-step summary.
func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("api: batch decode failed", "error", err)
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	if strings.TrimSpace(req.InputDir) == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("input_dir required"))
		return
	}
	if strings.TrimSpace(req.OutputDir) == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("output_dir required"))
		return
	}

	logger.Info("api: batch requested",
		"input", req.InputDir,
		"output", req.OutputDir,
		"advise", req.Advise)
	summary, err := s.runner.Run(r.Context(), workflow.Request{
		InputDir:  req.InputDir,
		OutputDir: req.OutputDir,
		Advise:    req.Advise,
	})
	if err != nil {
		switch {
		case errors.Is(err, workflow.ErrBatchRunning):
			writeError(w, http.StatusConflict, err)
		case errors.Is(err, workflow.ErrNoSources), errors.Is(err, fs.ErrNotExist):
			writeError(w, http.StatusBadRequest, err)
		default:
			writeError(w, http.StatusInternalServerError, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
