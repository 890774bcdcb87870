/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for HR frontends

ROUTE GROUPS:
  /api/employees/*    Employee registry plus per-employee resolution
  /api/assignments/*  Assignment writes and dry-run validation
  /api/templates/*    Template documents (factory JSON)
  /api/absences,overrides,shifts,breaks  Day-level layers
  /api/roster/*       Batch week resolution
  /api/sweeps/*       Conflict sweep audit and trigger

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
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
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		// Employee routes
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.CreateEmployee)
			r.Get("/{id}", h.GetEmployee)
			r.Delete("/{id}", h.DeleteEmployee)
			r.Get("/{id}/schedule", h.GetSchedule)
			r.Get("/{id}/week", h.GetWeek)
			r.Get("/{id}/assignments", h.GetAssignments)
			r.Post("/{id}/punches/validate", h.ValidatePunches)
		})

		// Assignment routes
		r.Route("/assignments", func(r chi.Router) {
			r.Post("/", h.CreateAssignment)
			r.Post("/validate", h.ValidateAssignment)
			r.Delete("/{id}", h.DeleteAssignment)
		})

		// Template routes
		r.Route("/templates", func(r chi.Router) {
			r.Get("/", h.ListTemplates)
			r.Post("/", h.CreateTemplate)
			r.Get("/{id}", h.GetTemplate)
			r.Delete("/{id}", h.DeleteTemplate)
		})

		// Day-level layers
		r.Route("/absences", func(r chi.Router) {
			r.Post("/", h.CreateAbsence)
			r.Delete("/{id}", h.DeleteAbsence)
		})
		r.Route("/overrides", func(r chi.Router) {
			r.Post("/", h.CreateOverride)
			r.Delete("/", h.DeleteOverride)
		})
		r.Route("/shifts", func(r chi.Router) {
			r.Post("/", h.CreateShift)
			r.Delete("/", h.DeleteShift)
		})
		r.Route("/breaks", func(r chi.Router) {
			r.Post("/{slotID}/paid", h.MarkPaidBreak)
			r.Delete("/{slotID}/paid", h.UnmarkPaidBreak)
		})

		// Batch resolution
		r.Route("/roster", func(r chi.Router) {
			r.Post("/week", h.ResolveRoster)
		})

		// Conflict sweeps
		r.Route("/sweeps", func(r chi.Router) {
			r.Get("/", h.ListSweepRuns)
			r.Post("/run", h.TriggerSweep)
		})
	})

	return r
}
