package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/bgr/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bgr/internal/httpserver/handlers"
)

func init() { Register(registerCatalog) }

// Both routes may reach the remote catalog.
func registerCatalog(r chi.Router, d deps.Deps) {
	r.Route("/catalog", func(r chi.Router) {
		r.Use(d.RateLimit)
		r.Get("/search", handlers.Search(d))
		r.Get("/hot", handlers.Hot(d))
	})
}
