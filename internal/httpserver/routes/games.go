package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/bgr/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bgr/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/bgr/internal/httpserver/mw"
)

func init() { Register(registerGames) }

func registerGames(r chi.Router, d deps.Deps) {
	r.Route("/games", func(r chi.Router) {
		r.Get("/rankings", handlers.Rankings(d))
		r.Get("/{id}", handlers.GetGame(d))
		r.Get("/{id}/stats", handlers.GameStats(d))

		r.With(d.RateLimit).Post("/reconcile/{bggID}", handlers.ReconcileGame(d))
		r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger), d.RateLimit).Post("/", handlers.CreateGame(d))
	})
}
