package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/bgr/internal/domain"
)

// HeaderUserID carries the acting user, set by the authenticating gateway.
const HeaderUserID = "X-User-ID"

func invalidParam(field, message string) error {
	return &domain.ValidationError{
		Entity: "request",
		Fields: []domain.FieldError{{Field: field, Tag: "param", Message: message}},
	}
}

// pathID parses a positive integer URL parameter.
func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, invalidParam(name, name+" must be an integer, got "+strconv.Quote(raw))
	}
	return id, nil
}

// queryInt reads an optional integer query parameter within [lo, hi].
func queryInt(r *http.Request, name string, def, lo, hi int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < lo || v > hi {
		return 0, invalidParam(name, name+" must be an integer between "+strconv.Itoa(lo)+" and "+strconv.Itoa(hi))
	}
	return v, nil
}
