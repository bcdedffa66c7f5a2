// Package httpapi exposes the studio over HTTP. It is a thin I/O wrapper
// around the core contracts: every handler reads the request, calls one
// studio operation and renders its result.
package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/teklini/nanogen"
	"github.com/teklini/nanogen/ratelimiter"
)

// Server routes HTTP traffic onto a Studio.
type Server struct {
	studio  *nanogen.Studio
	logger  *slog.Logger
	limiter *ratelimiter.Registry
}

// ServerOption configures the Server.
type ServerOption func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithRateLimit caps generate requests per client IP. Zero or negative
// perMinute disables limiting.
func WithRateLimit(perMinute int) ServerOption {
	return func(s *Server) {
		if perMinute > 0 {
			s.limiter = ratelimiter.NewRegistry(perMinute, time.Minute)
		}
	}
}

// NewServer creates a Server around the studio.
func NewServer(studio *nanogen.Studio, opts ...ServerOption) *Server {
	s := &Server{
		studio: studio,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the chi router with the full API surface.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(Logger(s.logger))

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Post("/mode", s.handleSetMode)
		r.Post("/prompt", s.handleSetPrompt)
		r.Post("/aspect-ratio", s.handleSetAspectRatio)
		r.Post("/source", s.handleUploadSource)
		r.Delete("/source", s.handleClearSource)

		r.Group(func(r chi.Router) {
			if s.limiter != nil {
				r.Use(RateLimit(s.limiter))
			}
			r.Post("/generate", s.handleGenerate)
		})

		r.Get("/history", s.handleHistory)
		r.Delete("/history", s.handleClearHistory)
		r.Get("/presets", s.handlePresets)
		r.Post("/presets/apply", s.handleApplyPreset)
		r.Post("/download", s.handleDownload)
	})

	return r
}

// json writes a JSON response body with the given status.
func (s *Server) json(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Warn("failed to encode response", "error", err.Error())
	}
}

// error writes the standard error envelope.
func (s *Server) error(w http.ResponseWriter, status int, code, message string) {
	s.json(w, status, map[string]string{
		"code":    code,
		"message": message,
	})
}
