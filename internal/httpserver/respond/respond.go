// Package respond writes JSON bodies and the API error shape.
package respond

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"

	"github.com/MrSnakeDoc/bgr/internal/domain"
	"github.com/MrSnakeDoc/bgr/internal/logger"
)

// maxBodySize bounds decoded request bodies.
const maxBodySize = 1 << 20

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Fail writes a bare error body with an explicit code.
func Fail(w http.ResponseWriter, status int, code, message string) {
	JSON(w, status, errorBody{Error: errorDetail{Code: code, Message: message}})
}

// Error maps err to its status and code. Internal errors are logged and their text hidden.
func Error(w http.ResponseWriter, r *http.Request, log logger.Logger, err error) {
	status := domain.HTTPStatus(err)
	body := errorDetail{Code: domain.Code(err), Message: err.Error()}

	var (
		invalid  *domain.ValidationError
		conflict *domain.ConflictError
	)
	switch {
	case errors.As(err, &invalid):
		body.Details = invalid.Fields
	case errors.As(err, &conflict):
		body.Details = map[string]string{"rule": conflict.Rule}
	}

	if status >= http.StatusInternalServerError {
		log.Error("request failed",
			logger.String("path", r.URL.Path),
			logger.String("request_id", middleware.GetReqID(r.Context())),
			logger.Int("status", status),
			logger.Error(err),
		)
		if status == http.StatusInternalServerError {
			body.Message = http.StatusText(status)
		}
	}
	JSON(w, status, errorBody{Error: body})
}

// Decode reads a JSON body into v. Unknown fields are rejected.
func Decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &domain.ValidationError{
			Entity: "request",
			Fields: []domain.FieldError{{Field: "body", Tag: "json", Message: "malformed JSON body: " + err.Error()}},
		}
	}
	return nil
}
