// Package server exposes the analysis pipeline over HTTP. The endpoint
// shapes and field names match the historical orchestrator API so existing
// clients keep working.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/pthm/speclint/internal/analysis"
	"github.com/pthm/speclint/internal/claude"
	"github.com/pthm/speclint/internal/risk"
	"github.com/pthm/speclint/internal/version"
)

// highRiskRefusal fills claude_output when a prompt is too dangerous to
// forward. High-risk prompts never reach the API.
const highRiskRefusal = "Analysis classified this prompt as High risk; it was not sent to Claude. " +
	"Resolve the blocking findings and retry."

// Server is the HTTP analysis server.
type Server struct {
	addr     string
	analyzer *analysis.Analyzer
	reviewer *claude.Client
	logger   *slog.Logger
	server   *http.Server
}

// New creates a server. reviewer may be nil, which disables
// analyze-with-claude with a 503.
func New(addr string, analyzer *analysis.Analyzer, reviewer *claude.Client, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		addr:     addr,
		analyzer: analyzer,
		reviewer: reviewer,
		logger:   logger,
	}
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	mux.HandleFunc("POST /api/analyze-with-claude", s.handleAnalyzeWithClaude)

	return s.withMiddleware(mux)
}

// Run starts the server and blocks until ctx is cancelled or the listener
// fails. On cancel, in-flight requests are drained before returning.
func (s *Server) Run(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute, // analyze-with-claude waits on the API
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.ListenAndServe()
	}()

	s.logger.Info("analysis server listening", "addr", s.addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	}
}

// statusWriter records the status code for request logging.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (s *Server) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-ID", id)

		// Permissive CORS, as the historical API allowed browser clients
		// from anywhere.
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		s.logger.Info("request",
			"id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"duration", time.Since(start),
		)
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service": "speclint",
		"version": version.Short(),
		"status":  "operational",
		"endpoints": map[string]string{
			"analyze":             "/api/analyze - Analyze a developer prompt for security issues",
			"analyze_with_claude": "/api/analyze-with-claude - Analyze and send the curated prompt to Claude",
			"health":              "/health - Health check endpoint",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "speclint",
	})
}

// analyzeRequest is the body of both analyze endpoints. Prompt is a pointer
// so a missing field can be told apart from a valid empty prompt.
type analyzeRequest struct {
	Prompt           *string `json:"prompt"`
	IncludeStructure bool    `json:"include_structure"`
}

func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request) (analyzeRequest, bool) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return req, false
	}
	if req.Prompt == nil {
		writeError(w, http.StatusBadRequest, "prompt is required")
		return req, false
	}
	return req, true
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}

	res, err := s.analyzer.Analyze(*req.Prompt, analysis.Options{IncludeStructure: req.IncludeStructure})
	if err != nil {
		s.logger.Error("analysis failed", "error", err)
		writeError(w, http.StatusInternalServerError, "analysis failed: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleAnalyzeWithClaude(w http.ResponseWriter, r *http.Request) {
	if !s.reviewer.Available() {
		writeError(w, http.StatusServiceUnavailable, "claude reviews unavailable: ANTHROPIC_API_KEY not configured")
		return
	}

	req, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}

	res, err := s.analyzer.Analyze(*req.Prompt, analysis.Options{IncludeStructure: req.IncludeStructure})
	if err != nil {
		s.logger.Error("analysis failed", "error", err)
		writeError(w, http.StatusInternalServerError, "analysis failed: "+err.Error())
		return
	}

	if res.RiskLevel == risk.High {
		refusal := highRiskRefusal
		res.ClaudeOutput = &refusal
		writeJSON(w, http.StatusOK, res)
		return
	}

	output, err := s.reviewer.Review(r.Context(), res.CuratedPrompt)
	if err != nil {
		s.logger.Error("claude review failed", "error", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	res.ClaudeOutput = &output

	writeJSON(w, http.StatusOK, res)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError mirrors the historical API's error shape.
func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
