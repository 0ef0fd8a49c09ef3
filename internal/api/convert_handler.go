// File path: internal/api/convert_handler.go
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Sahafkop9696/React-Angular-Transpiler-Sahaf/internal/catalog"
	"github.com/Sahafkop9696/React-Angular-Transpiler-Sahaf/internal/common"
	"github.com/Sahafkop9696/React-Angular-Transpiler-Sahaf/internal/common/telemetry"
	"github.com/Sahafkop9696/React-Angular-Transpiler-Sahaf/internal/converter"
	"github.com/Sahafkop9696/React-Angular-Transpiler-Sahaf/internal/ir"
)

// handleConvert translates a single JSX source into Angular artifacts
// and records the outcome in the catalog.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxSourceBytes)
	var req convertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("api: convert decode failed", "error", err)
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	if strings.TrimSpace(req.Source) == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("source required"))
		return
	}

	start := time.Now()
	result, err := converter.Convert(r.Context(), req.Source, converter.Options{Name: req.Name})
	if err != nil {
		s.recordFailure(r.Context(), req.Name, err, time.Since(start))
		if ir.Fatal(err) {
			writeError(w, http.StatusUnprocessableEntity, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	elapsed := time.Since(start)
	telemetry.RecordConversion(false, len(result.Report.Fallbacks), elapsed)
	s.recordSuccess(r.Context(), result, elapsed)

	resp := convertResponse{Result: *result}
	if req.Advise && len(result.Report.Fallbacks) > 0 {
		resp.Notes = s.advisor.Advise(r.Context(), result.Component, result.Report.Fallbacks)
	}
	logger.Info("api: component converted",
		"component", result.Component,
		"fallbacks", len(result.Report.Fallbacks),
		"duration", elapsed)
	writeJSON(w, http.StatusOK, resp)
}

// recordSuccess persists a converted component. The API never writes
// artifact files, so the path columns stay empty.
func (s *Server) recordSuccess(ctx context.Context, result *converter.Result, elapsed time.Duration) {
	fallbacks := make([]catalog.FallbackRecord, 0, len(result.Report.Fallbacks))
	for _, fb := range result.Report.Fallbacks {
		telemetry.RecordFallbackReason(string(fb.Reason))
		fallbacks = append(fallbacks, catalog.FallbackRecord{
			Reason:  string(fb.Reason),
			Snippet: fb.Snippet,
		})
	}
	rec := catalog.Conversion{
		Component:     result.Component,
		States:        result.Report.States,
		Methods:       result.Report.Methods,
		Events:        result.Report.Events,
		Lists:         result.Report.Lists,
		Conditionals:  result.Report.Conditionals,
		Inputs:        result.Report.Inputs,
		FallbackCount: len(result.Report.Fallbacks),
		Status:        catalog.StatusConverted,
		DurationMS:    elapsed.Milliseconds(),
	}
	if _, err := s.store.RecordConversion(ctx, rec, fallbacks); err != nil {
		common.Logger().Warn("api: record conversion failed",
			"component", result.Component, "error", err)
	}
}

func (s *Server) recordFailure(ctx context.Context, name string, cause error, elapsed time.Duration) {
	telemetry.RecordConversion(true, 0, elapsed)
	component := strings.TrimSpace(name)
	if component == "" {
		component = "unknown"
	}
	rec := catalog.Conversion{
		Component:  component,
		Status:     catalog.StatusFailed,
		Error:      cause.Error(),
		DurationMS: elapsed.Milliseconds(),
	}
	if _, err := s.store.RecordConversion(ctx, rec, nil); err != nil {
		common.Logger().Warn("api: record failure failed",
			"component", component, "error", err)
	}
}
