// Package api wires the HTTP surface of Typeless: the JSON API consumed by
// the embedded single-page UI, plus middleware and static file serving.
package api

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/typelesshq/typeless/internal/ai"
	"github.com/typelesshq/typeless/internal/api/handlers"
	"github.com/typelesshq/typeless/internal/clip"
	"github.com/typelesshq/typeless/internal/config"
	"github.com/typelesshq/typeless/internal/storage"
)

//go:embed web
var webFS embed.FS

// NewRouter creates and configures the HTTP router with all API routes and
// static file serving for the embedded UI.
func NewRouter(store *storage.Store, cfg *config.Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(RequestLogger)
	r.Use(Recovery)
	r.Use(CORS)

	// API sub-router.
	r.Route("/api", func(api chi.Router) {
		api.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})

		api.Get("/projects", handlers.ListProjects(store))
		api.Post("/projects", handlers.CreateProject(store))
		api.Put("/projects/current", handlers.SelectProject(store))
		api.Delete("/projects/{id}", handlers.DeleteProject(store))

		api.Get("/projects/{id}/fragments", handlers.ListFragments(store))
		api.Post("/projects/{id}/fragments", handlers.AddFragment(store))
		api.Post("/projects/{id}/fragments/clip", handlers.ClipFragments(store, clip.FromURLs))
		api.Delete("/fragments/{id}", handlers.DeleteFragment(store))

		api.Get("/settings", handlers.GetSettings(store))
		api.Put("/settings", handlers.UpdateSettings(store))

		api.Post("/projects/{id}/generate", handlers.Generate(store, cfg, ai.Generate))
	})

	// Serve the embedded UI for everything else.
	webContent, _ := fs.Sub(webFS, "web")
	fileServer := http.FileServer(http.FS(webContent))

	r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if path == "/" {
			path = "/index.html"
		}

		f, err := webContent.Open(path[1:]) // strip leading /
		if err != nil {
			// Unknown path — serve index.html for client-side state.
			r.URL.Path = "/"
			fileServer.ServeHTTP(w, r)
			return
		}
		f.Close()

		fileServer.ServeHTTP(w, r)
	})

	return r
}
