/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router and middleware stack for the read-only
  results surface. This is the wiring layer that connects URLs to
  handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the dashboard

ROUTES:
  /api/report           End-of-run report (audit counts)
  /api/absence/cases    Normalized absence cases
  /api/absence/daily    Daily absence facts
  /api/timesheet        Cumulative timesheet rows
  /api/health           Liveness probe

SECURITY NOTE:
  No authentication middleware. The surface is read-only and meant for an
  internal dashboard network.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/ingest/main.go: Server startup (-serve)
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/report", h.GetReport)
		r.Route("/absence", func(r chi.Router) {
			r.Get("/cases", h.ListCases)
			r.Get("/daily", h.ListDailyFacts)
		})
		r.Get("/timesheet", h.ListTimesheet)
		r.Get("/health", h.Health)
	})

	return r
}
