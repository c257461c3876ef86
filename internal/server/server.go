// Package server wires the HTTP API: routing, authentication, and the
// JSON handlers over the application services.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/labtrack/backend/internal/auth"
	"github.com/labtrack/backend/internal/extraction"
	"github.com/labtrack/backend/internal/service"
)

// Server holds the handler dependencies.
type Server struct {
	extractor     *extraction.Service
	parameters    *service.ParameterService
	users         *service.UserService
	tokens        *auth.TokenManager
	secureCookies bool
	logger        zerolog.Logger
}

// New creates a server. secureCookies should be true whenever the
// server is reached over HTTPS.
func New(
	extractor *extraction.Service,
	parameters *service.ParameterService,
	users *service.UserService,
	tokens *auth.TokenManager,
	secureCookies bool,
	logger zerolog.Logger,
) *Server {
	return &Server{
		extractor:     extractor,
		parameters:    parameters,
		users:         users,
		tokens:        tokens,
		secureCookies: secureCookies,
		logger:        logger,
	}
}

// Router builds the full route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(120 * time.Second))
	r.Use(s.requestLogger)

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.handleRegister)
			r.Post("/login", s.handleLogin)
			r.Post("/logout", s.handleLogout)
			r.With(auth.Middleware(s.tokens)).Get("/me", s.handleMe)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(s.tokens))

			r.Post("/extract", s.handleExtract)

			r.Route("/lab-parameters", func(r chi.Router) {
				r.Get("/", s.handleListParameters)
				r.Post("/", s.handleIngestParameters)
				r.Delete("/", s.handleDeleteAllParameters)
				r.Get("/stats", s.handleStats)
				r.Get("/trends", s.handleTrends)
				r.Delete("/{id}", s.handleDeleteParameter)
			})
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
