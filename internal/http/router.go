// Package httpapi assembles the chi router for the service.
package httpapi

import (
	stdhttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"chronolens/internal/config"
	"chronolens/internal/http/handlers"
	"chronolens/internal/middleware"
)

// NewRouter wires middleware and routes around the handler container.
func NewRouter(app *handlers.App, cfg *config.Config) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP, chimw.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(app.Logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.Locale(cfg.DefaultLocale))
	r.Use(middleware.RateLimit(cfg.RateLimitPerMin, time.Minute))

	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/bootstrap", app.Bootstrap)

	r.Route("/v1/credential", func(r chi.Router) {
		r.Get("/", app.CredentialStatus)
		r.Put("/", app.CredentialSet)
		r.Delete("/", app.CredentialClear)
	})

	r.Route("/v1/sessions", func(r chi.Router) {
		r.Post("/", app.SessionCreate)
		r.Route("/{session_id}", func(r chi.Router) {
			r.Get("/", app.SessionGet)
			r.Post("/location", app.SessionSelectLocation)
			r.Post("/poi", app.SessionSelectPOI)
			r.Post("/override", app.SessionOverride)
			r.Post("/generate", app.SessionGenerate)
			r.Post("/regenerate", app.SessionRegenerate)
			r.Post("/reset", app.SessionReset)
		})
	})

	return r
}
