// Package router sets up all HTTP routes and middleware chains for the
// lgstudio API server.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"lgstudio/internal/handlers"
	"lgstudio/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and routes wired up. limiter may be nil to leave writes unlimited.
func New(table *handlers.Table, limiter *middleware.WriteLimiter) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SecureHeaders)

	r.Get("/health", healthHandler)

	r.Route("/api/projects/{projectID}", func(r chi.Router) {
		if limiter != nil {
			r.Use(limiter.Middleware)
		}

		r.Put("/", table.UpdateProject)

		r.Route("/dialogs/{dialogID}", func(r chi.Router) {
			r.Get("/table", table.Show)
			r.Patch("/table", table.EditCell)
			r.Put("/references", table.SetReferences)

			r.Route("/templates", func(r chi.Router) {
				r.Post("/", table.CreateTemplate)
				r.Post("/{name}/copy", table.CopyTemplate)
				r.Delete("/{name}", table.DeleteTemplate)
				r.Get("/{name}/preview", table.PreviewTemplate)
			})
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
