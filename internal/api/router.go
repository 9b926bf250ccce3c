// Package api wires the HTTP routes: the JSON settings and render API and
// the server-rendered settings form.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jarutosurano/wordcounter/internal/api/handlers"
	"github.com/jarutosurano/wordcounter/internal/feeds"
	"github.com/jarutosurano/wordcounter/internal/render"
	"github.com/jarutosurano/wordcounter/internal/settings"
	"github.com/jarutosurano/wordcounter/internal/storage"
)

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(opts *storage.Store, store *settings.Store, renderer *render.Renderer, fetcher *feeds.Fetcher) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestLogger)
	r.Use(Recovery)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	guard := CrossOriginGuard()

	r.Route("/api", func(api chi.Router) {
		// The render hook is open to other origins; it only reads settings.
		api.With(CORS).Post("/render", handlers.RenderContent(renderer))
		api.With(CORS).Options("/render", func(http.ResponseWriter, *http.Request) {})

		api.Group(func(api chi.Router) {
			api.Use(guard)

			api.Get("/settings", handlers.GetSettings(store))
			api.Put("/settings", handlers.UpdateSettings(store))
			api.Delete("/settings", handlers.DeleteSettings(store))
			api.Get("/settings/schema", handlers.GetSchema())
			api.Get("/options", handlers.GetOptions(opts))

			api.Post("/render/feeds", handlers.RenderFeeds(fetcher))
			api.Post("/render/article", handlers.RenderArticle(fetcher))
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(guard)
		r.Get("/admin", handlers.AdminPage(store))
		r.Post("/admin", handlers.SubmitAdmin(store))
	})
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/admin", http.StatusFound)
	})

	return r
}
