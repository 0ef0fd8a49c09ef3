// File path: internal/api/advise_handler.go
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Sahafkop9696/React-Angular-Transpiler-Sahaf/internal/catalog"
	"github.com/Sahafkop9696/React-Angular-Transpiler-Sahaf/internal/common"
	"github.com/Sahafkop9696/React-Angular-Transpiler-Sahaf/internal/converter"
	"github.com/Sahafkop9696/React-Angular-Transpiler-Sahaf/internal/ir"
)

// handleAdvise produces migration notes for preserved fragments, either
// from a recorded conversion or from source sent inline. Inline sources
// are analysed without touching the catalog.
func (s *Server) handleAdvise(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxSourceBytes)
	var req adviseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("api: advise decode failed", "error", err)
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	switch {
	case req.ConversionID > 0:
		s.adviseByID(w, r, req.ConversionID)
	case strings.TrimSpace(req.Source) != "":
		s.adviseSource(w, r, req.Name, req.Source)
	default:
		writeError(w, http.StatusBadRequest, fmt.Errorf("source or conversion_id required"))
	}
}

func (s *Server) adviseByID(w http.ResponseWriter, r *http.Request, id int64) {
	conversion, fallbacks, err := s.store.ConversionByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	blocks := make([]converter.Fallback, 0, len(fallbacks))
	for _, fb := range fallbacks {
		blocks = append(blocks, converter.Fallback{
			Reason:  ir.Reason(fb.Reason),
			Snippet: fb.Snippet,
		})
	}
	notes := s.advisor.Advise(r.Context(), conversion.Component, blocks)
	writeJSON(w, http.StatusOK, adviseResponse{Component: conversion.Component, Notes: notes})
}

func (s *Server) adviseSource(w http.ResponseWriter, r *http.Request, name, source string) {
	result, err := converter.Convert(r.Context(), source, converter.Options{Name: name})
	if err != nil {
		if ir.Fatal(err) {
			writeError(w, http.StatusUnprocessableEntity, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	notes := s.advisor.Advise(r.Context(), result.Component, result.Report.Fallbacks)
	writeJSON(w, http.StatusOK, adviseResponse{Component: result.Component, Notes: notes})
}
