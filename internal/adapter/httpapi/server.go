// Package httpapi exposes the parsing pipeline over HTTP for external
// rendering layers, alongside the health, readiness, and metrics endpoints.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/niprotogeros/epw-visualizer/internal/epw"
	"github.com/niprotogeros/epw-visualizer/internal/pipeline"
)

// Processor parses one uploaded file's bytes to completion.
type Processor interface {
	Process(ctx context.Context, content []byte) pipeline.Result
}

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// ReadyFunc adapts a function to the ReadinessChecker interface.
type ReadyFunc func(ctx context.Context) error

// CheckReadiness calls f.
func (f ReadyFunc) CheckReadiness(ctx context.Context) error { return f(ctx) }

// Server exposes the parse API plus health, readiness, and metrics routes.
type Server struct {
	httpServer     *http.Server
	processor      Processor
	logger         *slog.Logger
	maxUploadBytes int64
}

// NewServer creates an HTTP server with /v1/parse, /v1/fields, /healthz,
// /readyz, and /metrics routes.
func NewServer(addr string, processor Processor, ready ReadinessChecker, logger *slog.Logger, maxUploadBytes int64) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		processor:      processor,
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
	}

	mux.HandleFunc("POST /v1/parse", s.handleParse)
	mux.HandleFunc("GET /v1/fields", handleFields)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// handleParse accepts raw EPW bytes in the request body and returns the full
// parse result. A degraded parse is still 200: the diagnostics tell the
// consumer what was lost. Only a nil dataset maps to 422.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	content, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{
				"error": "request body exceeds upload limit",
			})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "failed to read request body"})
		return
	}
	if len(content) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "empty request body"})
		return
	}

	result := s.processor.Process(r.Context(), content)

	status := http.StatusOK
	if result.Dataset == nil {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, result)
}

// handleFields returns the EPW field table so consumers can discover what
// the mapper extracts.
func handleFields(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]epw.FieldSpec{
		"time": epw.TimeFields(),
		"data": epw.DataFields(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
