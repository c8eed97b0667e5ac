package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/v0xg/elementscout/internal/pipeline"
)

// Analyzer produces the per-chunk classification results for a page
type Analyzer interface {
	Results(ctx context.Context, url string) ([]string, error)
}

// Locator picks the element matching a goal from classification results
type Locator interface {
	Locate(ctx context.Context, results []string, goal string) (string, error)
}

// Synthesizer writes an automation script for a goal
type Synthesizer interface {
	Script(ctx context.Context, goal, interactions string) (string, error)
}

// ChangeTracker compares the stored snapshot of a page with its current state
type ChangeTracker interface {
	Modifications(ctx context.Context, url string, alternatives bool) (*pipeline.Changes, error)
}

type Server struct {
	analyzer    Analyzer
	locator     Locator
	synthesizer Synthesizer
	changes     ChangeTracker
	logger      zerolog.Logger
}

func NewServer(analyzer Analyzer, locator Locator, synthesizer Synthesizer, changes ChangeTracker, logger zerolog.Logger) *Server {
	return &Server{
		analyzer:    analyzer,
		locator:     locator,
		synthesizer: synthesizer,
		changes:     changes,
		logger:      logger,
	}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/interactions", s.handleInteractions)
	mux.HandleFunc("/element", s.handleElement)
	mux.HandleFunc("/action-script", s.handleActionScript)
	mux.HandleFunc("/modifications", s.handleModifications)

	return s.withRequestID(mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type ctxKey struct{}

// withRequestID tags every request with an id and logs its outcome
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)

		logger := s.logger.With().Str("request_id", id).Logger()
		ctx := context.WithValue(r.Context(), ctxKey{}, logger)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r.WithContext(ctx))

		logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request handled")
	})
}

func (s *Server) log(r *http.Request) *zerolog.Logger {
	if logger, ok := r.Context().Value(ctxKey{}).(zerolog.Logger); ok {
		return &logger
	}
	return &s.logger
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
