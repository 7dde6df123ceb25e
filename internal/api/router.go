package api

import (
	"net/http"

	"github.com/Rrens/lookup-bot/internal/api/handler"
	customMiddleware "github.com/Rrens/lookup-bot/internal/api/middleware"
	"github.com/Rrens/lookup-bot/internal/catalog"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates and configures the HTTP router. A nil pinger reports
// ready without checking any backing store.
func NewRouter(c *catalog.Catalog, pinger handler.Pinger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	catalogHandler := handler.NewCatalogHandler(c)

	// Liveness probe kept at the root for hosting platforms
	r.Get("/", handler.Alive)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(pinger))

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/", catalogHandler.List)
			r.Get("/{categoryID}", catalogHandler.Get)
		})
	})

	return r
}
