package handlers

import (
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/bgr/internal/domain"
	"github.com/MrSnakeDoc/bgr/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bgr/internal/httpserver/respond"
)

type searchResponse struct {
	Query   string                `json:"query"`
	Results []domain.SearchResult `json:"results"`
}

type hotResponse struct {
	Games []domain.HotListEntry `json:"games"`
}

// Search forwards a name search to the remote catalog.
func Search(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := strings.TrimSpace(r.URL.Query().Get("q"))
		if q == "" {
			respond.Error(w, r, d.Logger, invalidParam("q", "q is required"))
			return
		}
		results, err := d.Catalog.Search(r.Context(), q)
		if err != nil {
			respond.Error(w, r, d.Logger, err)
			return
		}
		respond.JSON(w, http.StatusOK, searchResponse{Query: q, Results: results})
	}
}

// Hot returns the remote hot list.
func Hot(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		games, err := d.Catalog.Hot(r.Context())
		if err != nil {
			respond.Error(w, r, d.Logger, err)
			return
		}
		respond.JSON(w, http.StatusOK, hotResponse{Games: games})
	}
}
