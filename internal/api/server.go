// Package api exposes lead analysis and scoring over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/sells-group/lead-qualifier/internal/lead"
	"github.com/sells-group/lead-qualifier/internal/monitoring"
)

// maxBodyBytes caps request bodies on the JSON endpoints.
const maxBodyBytes = 1 << 20

// Server holds the handlers and their dependencies.
type Server struct {
	analyzer *lead.Analyzer
	metrics  *monitoring.Metrics
	limiter  *rate.Limiter
	now      func() time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics records request latencies and serves /metrics from m.
func WithMetrics(m *monitoring.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithRateLimit limits analyze-lead to rps requests per second with the
// given burst. A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		if rps <= 0 {
			s.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// NewServer creates a Server that analyzes leads with analyzer.
func NewServer(analyzer *lead.Analyzer, opts ...Option) *Server {
	s := &Server{
		analyzer: analyzer,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes builds the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(ensureRequestID)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
			ExposedHeaders: []string{requestIDHeader},
			MaxAge:         300,
		}))

		r.Get("/health-check", s.handleHealthCheck)
		r.Head("/health-check", s.handleHealthCheck)
		r.With(s.rateLimit).Post("/analyze-lead", s.handleAnalyzeLead)
		r.Post("/score", s.handleScore)
		r.Get("/scoring-profiles", s.handleScoringProfiles)
	})

	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	return r
}
