package routes

import (
	"infinite-experiment/quartermaster/internal/api"
	"infinite-experiment/quartermaster/internal/metrics"
	"infinite-experiment/quartermaster/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// RegisterAPIRoutes registers all API v1 routes and handlers
// This keeps API route registration separate from the main router setup
func RegisterAPIRoutes(r chi.Router, metricsReg *metrics.MetricsRegistry, handlers *api.Handlers) {

	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(middleware.MetricsMiddleware(metricsReg))
		v1.Use(middleware.ActorMiddleware())

		// Import pipeline: validate is read-only and repeatable; commit is
		// the single mutating path and is rate limited per client.
		v1.Route("/import", func(imp chi.Router) {
			imp.Get("/logs", handlers.ListImportLogs())

			imp.Group(func(limited chi.Router) {
				limited.Use(middleware.RateLimitMiddleware)
				limited.Post("/{entity}/validate", handlers.ValidateImport())
				limited.Post("/{entity}/commit", handlers.CommitImport())
			})
		})

		v1.Get("/export/{entity}", handlers.ExportMasterData())

		// Type mapping administration; every mutation invalidates the
		// normalizer cache before responding.
		v1.Route("/admin/type-mappings", func(admin chi.Router) {
			admin.Get("/", handlers.ListTypeMappings())
			admin.Post("/", handlers.CreateTypeMapping())
			admin.Put("/{id}", handlers.UpdateTypeMapping())
			admin.Delete("/{id}", handlers.DeleteTypeMapping())
		})
	})
}
