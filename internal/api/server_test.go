// File path: internal/api/server_test.go
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Sahafkop9696/React-Angular-Transpiler-Sahaf/internal/catalog"
	"github.com/Sahafkop9696/React-Angular-Transpiler-Sahaf/internal/llm/providers"
)

const counterSource = `import React, { useState } from 'react';

function Counter() {
  const [count, setCount] = useState(0);
  const increment = () => setCount(count + 1);

  return (
    <div className="counter">
      <button onClick={increment}>+</button>
      <span>{count}</span>
    </div>
  );
}

export default Counter;
`

const bannerSource = `function Banner() {
  return (
    <div>
      {ready ? <b>Go</b> : <i>Wait</i>}
    </div>
  );
}
`

func newTestServer(t *testing.T) (*Server, *catalog.Store) {
	t.Helper()
	store, err := catalog.Open(filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	srv, err := NewServer(store, providers.NewLocalProvider(), nil)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return srv, store
}

func postJSON(t *testing.T, srv *Server, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	return rr
}

func getPath(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	return rr
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)
	rr := getPath(t, srv, "/healthz")
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	var resp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["status"] != "ok" {
		t.Fatalf("unexpected body: %v", resp)
	}
}

func TestHandleConvert(t *testing.T) {
	srv, store := newTestServer(t)
	rr := postJSON(t, srv, "/v1/convert", map[string]interface{}{"source": counterSource})
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Component string `json:"component"`
		ClassBody string `json:"class_body"`
		Template  string `json:"template"`
		Report    struct {
			States  int `json:"states"`
			Methods int `json:"methods"`
			Events  int `json:"events"`
		} `json:"report"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Component != "Counter" {
		t.Fatalf("unexpected component: %q", resp.Component)
	}
	if !strings.Contains(resp.ClassBody, "export class CounterComponent {") {
		t.Fatalf("missing class declaration:\n%s", resp.ClassBody)
	}
	if !strings.Contains(resp.Template, `(click)="increment"`) {
		t.Fatalf("event not rewritten:\n%s", resp.Template)
	}
	if resp.Report.States != 1 || resp.Report.Methods != 1 || resp.Report.Events != 1 {
		t.Fatalf("unexpected report: %+v", resp.Report)
	}

	conversions, err := store.ListConversions(context.Background(), 10)
	if err != nil {
		t.Fatalf("list conversions: %v", err)
	}
	if len(conversions) != 1 || conversions[0].Component != "Counter" {
		t.Fatalf("conversion not recorded: %+v", conversions)
	}
	if conversions[0].Status != catalog.StatusConverted {
		t.Fatalf("unexpected status: %q", conversions[0].Status)
	}
	if conversions[0].ClassPath != "" {
		t.Fatalf("API conversions must not carry artifact paths: %+v", conversions[0])
	}
}

func TestHandleConvertValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/convert", strings.NewReader("{not json"))
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("malformed JSON: unexpected status %d", rr.Code)
	}

	rr = postJSON(t, srv, "/v1/convert", map[string]interface{}{"source": "   "})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("empty source: unexpected status %d", rr.Code)
	}
}

func TestHandleConvertFatal(t *testing.T) {
	srv, store := newTestServer(t)

	dup := `function Dup() {
  const [n, setN] = useState(0);
  const [n, setN] = useState(1);
  return (
    <p>{n}</p>
  );
}
`
	rr := postJSON(t, srv, "/v1/convert", map[string]interface{}{"name": "Dup", "source": dup})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("duplicate state: unexpected status %d body=%s", rr.Code, rr.Body.String())
	}
	var errResp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(errResp["error"], "duplicate state") {
		t.Fatalf("unexpected error body: %v", errResp)
	}

	rr = postJSON(t, srv, "/v1/convert", map[string]interface{}{"source": "const x = 1;\n"})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("no component: unexpected status %d", rr.Code)
	}

	conversions, err := store.ListConversions(context.Background(), 10)
	if err != nil {
		t.Fatalf("list conversions: %v", err)
	}
	if len(conversions) != 2 {
		t.Fatalf("expected 2 failure records, got %d", len(conversions))
	}
	if conversions[0].Component != "unknown" || conversions[0].Status != catalog.StatusFailed {
		t.Fatalf("unnamed failure not recorded: %+v", conversions[0])
	}
	if conversions[1].Component != "Dup" || conversions[1].Error == "" {
		t.Fatalf("named failure not recorded: %+v", conversions[1])
	}
}

func TestHandleConvertAdvise(t *testing.T) {
	srv, _ := newTestServer(t)
	rr := postJSON(t, srv, "/v1/convert", map[string]interface{}{
		"source": bannerSource,
		"advise": true,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Component string `json:"component"`
		Notes     []struct {
			Reason   string `json:"reason"`
			Guidance string `json:"guidance"`
		} `json:"notes"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Notes) != 1 {
		t.Fatalf("expected one note, got %+v", resp.Notes)
	}
	if resp.Notes[0].Reason != "ternary-conditional" || resp.Notes[0].Guidance == "" {
		t.Fatalf("unexpected note: %+v", resp.Notes[0])
	}
}

func TestHandleConversionsAndStats(t *testing.T) {
	srv, _ := newTestServer(t)
	if rr := postJSON(t, srv, "/v1/convert", map[string]interface{}{"source": counterSource}); rr.Code != http.StatusOK {
		t.Fatalf("seed counter: status %d", rr.Code)
	}
	if rr := postJSON(t, srv, "/v1/convert", map[string]interface{}{"source": bannerSource}); rr.Code != http.StatusOK {
		t.Fatalf("seed banner: status %d", rr.Code)
	}

	rr := getPath(t, srv, "/v1/conversions")
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	var listResp struct {
		Conversions []struct {
			Component     string `json:"component"`
			FallbackCount int    `json:"fallback_count"`
		} `json:"conversions"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&listResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(listResp.Conversions) != 2 {
		t.Fatalf("expected 2 conversions, got %d", len(listResp.Conversions))
	}
	if listResp.Conversions[0].Component != "Banner" || listResp.Conversions[1].Component != "Counter" {
		t.Fatalf("listing not newest first: %+v", listResp.Conversions)
	}
	if listResp.Conversions[0].FallbackCount != 1 {
		t.Fatalf("banner fallback count missing: %+v", listResp.Conversions[0])
	}

	rr = getPath(t, srv, "/v1/conversions?limit=1")
	listResp.Conversions = nil
	if err := json.NewDecoder(rr.Body).Decode(&listResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(listResp.Conversions) != 1 {
		t.Fatalf("limit ignored: %+v", listResp.Conversions)
	}

	if rr := getPath(t, srv, "/v1/conversions?limit=abc"); rr.Code != http.StatusBadRequest {
		t.Fatalf("bad limit: unexpected status %d", rr.Code)
	}

	rr = getPath(t, srv, "/v1/stats")
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	var statsResp struct {
		FallbackReasons []struct {
			Reason      string `json:"reason"`
			Occurrences int64  `json:"occurrences"`
		} `json:"fallback_reasons"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&statsResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(statsResp.FallbackReasons) != 1 {
		t.Fatalf("expected one reason, got %+v", statsResp.FallbackReasons)
	}
	if statsResp.FallbackReasons[0].Reason != "ternary-conditional" || statsResp.FallbackReasons[0].Occurrences != 1 {
		t.Fatalf("unexpected stats: %+v", statsResp.FallbackReasons[0])
	}
}

func TestHandleBatch(t *testing.T) {
	srv, _ := newTestServer(t)
	inputDir := t.TempDir()
	outputDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(inputDir, "Counter.jsx"), []byte(counterSource), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	rr := postJSON(t, srv, "/v1/batch", map[string]interface{}{
		"input_dir":  inputDir,
		"output_dir": outputDir,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", rr.Code, rr.Body.String())
	}
	var summary struct {
		Converted int `json:"converted"`
		Failed    int `json:"failed"`
		Steps     []struct {
			Name   string `json:"name"`
			Status string `json:"status"`
		} `json:"steps"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&summary); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if summary.Converted != 1 || summary.Failed != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if len(summary.Steps) != 3 || summary.Steps[1].Status != "completed" {
		t.Fatalf("unexpected steps: %+v", summary.Steps)
	}
	if _, err := os.Stat(filepath.Join(outputDir, "Counter.component.ts")); err != nil {
		t.Fatalf("artifact missing: %v", err)
	}

	rr = postJSON(t, srv, "/v1/batch", map[string]interface{}{"output_dir": outputDir})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("missing input_dir: unexpected status %d", rr.Code)
	}

	rr = postJSON(t, srv, "/v1/batch", map[string]interface{}{
		"input_dir":  filepath.Join(inputDir, "missing"),
		"output_dir": outputDir,
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("missing directory: unexpected status %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestHandleAdvise(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := postJSON(t, srv, "/v1/advise", map[string]interface{}{"source": bannerSource})
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Component string `json:"component"`
		Notes     []struct {
			Reason   string `json:"reason"`
			Snippet  string `json:"snippet"`
			Guidance string `json:"guidance"`
		} `json:"notes"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Component != "Banner" || len(resp.Notes) != 1 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Notes[0].Reason != "ternary-conditional" || resp.Notes[0].Guidance == "" {
		t.Fatalf("unexpected note: %+v", resp.Notes[0])
	}

	// Inline advice must not be recorded.
	listRR := getPath(t, srv, "/v1/conversions")
	var listResp struct {
		Conversions []json.RawMessage `json:"conversions"`
	}
	if err := json.NewDecoder(listRR.Body).Decode(&listResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(listResp.Conversions) != 0 {
		t.Fatalf("inline advise must not persist conversions: %d", len(listResp.Conversions))
	}

	if rr := postJSON(t, srv, "/v1/convert", map[string]interface{}{"source": bannerSource}); rr.Code != http.StatusOK {
		t.Fatalf("seed conversion: status %d", rr.Code)
	}
	rr = postJSON(t, srv, "/v1/advise", map[string]interface{}{"conversion_id": 1})
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", rr.Code, rr.Body.String())
	}
	resp.Notes = nil
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Component != "Banner" || len(resp.Notes) != 1 {
		t.Fatalf("unexpected recorded-advise response: %+v", resp)
	}
	if resp.Notes[0].Snippet == "" {
		t.Fatalf("recorded snippet missing: %+v", resp.Notes[0])
	}

	if rr := postJSON(t, srv, "/v1/advise", map[string]interface{}{"conversion_id": 999}); rr.Code != http.StatusNotFound {
		t.Fatalf("unknown conversion: unexpected status %d", rr.Code)
	}

	if rr := postJSON(t, srv, "/v1/advise", map[string]interface{}{}); rr.Code != http.StatusBadRequest {
		t.Fatalf("empty request: unexpected status %d", rr.Code)
	}
}

func TestHandleLogs(t *testing.T) {
	srv, _ := newTestServer(t)
	if rr := postJSON(t, srv, "/v1/convert", map[string]interface{}{"source": counterSource}); rr.Code != http.StatusOK {
		t.Fatalf("seed conversion: status %d", rr.Code)
	}

	rr := getPath(t, srv, "/v1/logs")
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	var resp struct {
		Entries []struct {
			Level   string `json:"level"`
			Message string `json:"message"`
		} `json:"entries"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Entries) == 0 {
		t.Fatalf("expected captured log entries")
	}

	rr = getPath(t, srv, "/v1/logs?limit=1")
	resp.Entries = nil
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Entries) != 1 {
		t.Fatalf("limit ignored: %d entries", len(resp.Entries))
	}

	if rr := getPath(t, srv, "/v1/logs?limit=abc"); rr.Code != http.StatusBadRequest {
		t.Fatalf("bad limit: unexpected status %d", rr.Code)
	}
}

func TestNewServerRequiresStore(t *testing.T) {
	if _, err := NewServer(nil, providers.NewLocalProvider(), nil); err == nil {
		t.Fatalf("expected error for nil store")
	}
}

func TestConfigMerge(t *testing.T) {
	base := DefaultConfig()
	merged := base.Merge(Config{ListLimit: 5})
	if merged.ListLimit != 5 {
		t.Fatalf("override ignored: %+v", merged)
	}
	if merged.MaxSourceBytes != base.MaxSourceBytes {
		t.Fatalf("unset field must keep default: %+v", merged)
	}
}
