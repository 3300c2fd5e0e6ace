package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/navtracker/Fund-NAV-Tracker-Backend/internal/api/handlers"
	custommiddleware "github.com/navtracker/Fund-NAV-Tracker-Backend/internal/api/middleware"
	"github.com/navtracker/Fund-NAV-Tracker-Backend/internal/config"
	"github.com/navtracker/Fund-NAV-Tracker-Backend/internal/service"
)

// NewRouter creates and configures the HTTP router. Read endpoints are open;
// everything that mutates configuration requires the API key middleware.
func NewRouter(
	systemService *service.SystemService,
	entryService *service.EntryService,
	settingsService *service.SettingsService,
	tracker *service.TrackerService,
	cfg *config.Config,
	log zerolog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(log))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(systemService)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/entries", func(r chi.Router) {
			entryHandler := handlers.NewEntryHandler(entryService)
			r.Get("/", entryHandler.Entries)
			r.Get("/{entryID}", entryHandler.Entry)

			r.Group(func(r chi.Router) {
				r.Use(custommiddleware.APIKeyMiddleware)
				r.Post("/", entryHandler.CreateEntry)
				r.Put("/{entryID}", entryHandler.UpdateEntry)
				r.Delete("/{entryID}", entryHandler.DeleteEntry)
			})
		})

		r.Route("/valuations", func(r chi.Router) {
			valuationHandler := handlers.NewValuationHandler(entryService, tracker)
			r.Get("/", valuationHandler.Valuations)
			r.Get("/{entryID}", valuationHandler.Valuation)

			r.Group(func(r chi.Router) {
				r.Use(custommiddleware.APIKeyMiddleware)
				r.Post("/refresh", valuationHandler.Refresh)
			})
		})

		r.Route("/settings", func(r chi.Router) {
			settingsHandler := handlers.NewSettingsHandler(settingsService, tracker)
			r.Get("/", settingsHandler.Settings)

			r.Group(func(r chi.Router) {
				r.Use(custommiddleware.APIKeyMiddleware)
				r.Put("/", settingsHandler.UpdateSettings)
			})
		})
	})

	return r
}
