package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/bgr/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bgr/internal/httpserver/handlers"
)

func init() { Register(registerReviews) }

func registerReviews(r chi.Router, d deps.Deps) {
	r.Route("/reviews", func(r chi.Router) {
		r.Use(d.RateLimit)
		r.Post("/", handlers.SubmitReview(d))
		r.Put("/{id}", handlers.UpdateReview(d))
	})
}
