package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/bgr/internal/domain"
	"github.com/MrSnakeDoc/bgr/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bgr/internal/httpserver/respond"
)

// SubmitReview validates and stores a new review on behalf of the X-User-ID user.
func SubmitReview(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in domain.Review
		if err := respond.Decode(w, r, &in); err != nil {
			respond.Error(w, r, d.Logger, err)
			return
		}

		rv, err := d.Reviews.Submit(r.Context(), actor(r), in)
		if err != nil {
			respond.Error(w, r, d.Logger, err)
			return
		}
		respond.JSON(w, http.StatusCreated, rv)
	}
}

// UpdateReview merges a patch into an existing review and re-validates it.
func UpdateReview(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch domain.ReviewPatch
		if err := respond.Decode(w, r, &patch); err != nil {
			respond.Error(w, r, d.Logger, err)
			return
		}

		rv, err := d.Reviews.Update(r.Context(), actor(r), chi.URLParam(r, "id"), patch)
		if err != nil {
			respond.Error(w, r, d.Logger, err)
			return
		}
		respond.JSON(w, http.StatusOK, rv)
	}
}

func actor(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(HeaderUserID))
}
