// Package httpapi exposes the newsletter and email list services over a
// JSON HTTP API with bearer token authentication.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lettergen/lettergen/internal/emaillist"
	"github.com/lettergen/lettergen/internal/newsletter"
	"github.com/lettergen/lettergen/pkg/health"
	"github.com/lettergen/lettergen/pkg/logger"
)

// Server holds the services behind the HTTP surface.
type Server struct {
	newsletters *newsletter.Service
	lists       *emaillist.Service
	checks      health.Checks
	log         *slog.Logger
}

// NewServer constructs the API server. checks feed the readiness endpoint
// and may be nil in tests.
func NewServer(newsletters *newsletter.Service, lists *emaillist.Service, checks health.Checks, log *slog.Logger) *Server {
	if log == nil {
		log = logger.NewNop()
	}
	return &Server{
		newsletters: newsletters,
		lists:       lists,
		checks:      checks,
		log:         log,
	}
}

// Router assembles the route tree. Everything under /api requires a valid
// bearer token signed with secret.
func (s *Server) Router(secret []byte) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", health.Handler(s.checks, s.log))

	r.Route("/api", func(r chi.Router) {
		r.Use(Auth(secret))

		r.Route("/newsletters", func(r chi.Router) {
			r.Get("/", s.handleListNewsletters)
			r.Post("/generate", s.handleGenerate)
			r.Get("/config", s.handleDefaultConfig)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetNewsletter)
				r.Patch("/", s.handleUpdateNewsletter)
				r.Delete("/", s.handleDeleteNewsletter)
				r.Post("/send", s.handleSendNewsletter)
				r.Get("/preview", s.handlePreviewNewsletter)
			})
		})

		r.Route("/email-lists", func(r chi.Router) {
			r.Get("/", s.handleListEmailLists)
			r.Post("/", s.handleCreateEmailList)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetEmailList)
				r.Put("/", s.handleUpdateEmailList)
				r.Delete("/", s.handleDeleteEmailList)
			})
		})
	})

	return r
}
