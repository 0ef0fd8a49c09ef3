// File path: internal/api/server.go
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Sahafkop9696/React-Angular-Transpiler-Sahaf/internal/advisor"
	"github.com/Sahafkop9696/React-Angular-Transpiler-Sahaf/internal/catalog"
	"github.com/Sahafkop9696/React-Angular-Transpiler-Sahaf/internal/common"
	"github.com/Sahafkop9696/React-Angular-Transpiler-Sahaf/internal/llm"
	"github.com/Sahafkop9696/React-Angular-Transpiler-Sahaf/internal/workflow"
)

// Config tunes request handling limits for the HTTP server.
type Config struct {
	// MaxSourceBytes caps the size of request bodies carrying JSX source.
	MaxSourceBytes int64
	// ListLimit is the default page size for conversion listings.
	ListLimit int
}

// DefaultConfig returns the limits used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		MaxSourceBytes: 1 << 20,
		ListLimit:      20,
	}
}

// LoadConfig builds a Config from defaults and environment overrides.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	if raw := strings.TrimSpace(os.Getenv("R2NG_MAX_SOURCE_BYTES")); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("parse R2NG_MAX_SOURCE_BYTES: %w", err)
		}
		if parsed > 0 {
			cfg.MaxSourceBytes = parsed
		}
	}
	if raw := strings.TrimSpace(os.Getenv("R2NG_LIST_LIMIT")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse R2NG_LIST_LIMIT: %w", err)
		}
		if parsed > 0 {
			cfg.ListLimit = parsed
		}
	}
	return cfg, nil
}

// Merge overlays non-zero fields from override onto the receiver.
func (c Config) Merge(override Config) Config {
	result := c
	if override.MaxSourceBytes > 0 {
		result.MaxSourceBytes = override.MaxSourceBytes
	}
	if override.ListLimit > 0 {
		result.ListLimit = override.ListLimit
	}
	return result
}

// Server exposes the converter, batch runner and catalog over HTTP.
type Server struct {
	cfg      Config
	router   chi.Router
	store    *catalog.Store
	provider llm.Provider
	advisor  *advisor.Advisor
	runner   *workflow.Runner
}

// NewServer wires the HTTP surface around the supplied store. A nil
// provider selects one from the environment, so callers only pass one
// when they need to override it.
func NewServer(store *catalog.Store, provider llm.Provider, cfg *Config) (*Server, error) {
	logger := common.Logger()
	if store == nil {
		return nil, fmt.Errorf("catalog store required")
	}
	configuration, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	if cfg != nil {
		configuration = configuration.Merge(*cfg)
	}
	if provider == nil {
		provider = llm.NewProvider()
	}
	adv := advisor.New(provider)
	srv := &Server{
		cfg:      configuration,
		router:   chi.NewRouter(),
		store:    store,
		provider: provider,
		advisor:  adv,
		runner:   workflow.NewRunner(store, adv),
	}
	srv.routes()
	logger.Info("api: server initialised",
		"provider", provider.Name(),
		"max_source_bytes", configuration.MaxSourceBytes,
		"list_limit", configuration.ListLimit)
	return srv, nil
}

func (s *Server) routes() {
	logger := common.Logger()
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug("api: request",
				"method", r.Method,
				"path", r.URL.Path,
				"duration", time.Since(start),
				"remote", r.RemoteAddr)
		})
	})

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	s.router.Post("/v1/convert", s.handleConvert)
	s.router.Post("/v1/batch", s.handleBatch)
	s.router.Get("/v1/conversions", s.handleConversions)
	s.router.Get("/v1/stats", s.handleStats)
	s.router.Post("/v1/advise", s.handleAdvise)
	s.router.Get("/v1/logs", s.handleLogs)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		common.Logger().Error("api: encode response failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	logger := common.Logger()
	if status >= http.StatusInternalServerError {
		logger.Error("api: request failed", "status", status, "error", err)
	} else {
		logger.Warn("api: request rejected", "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
