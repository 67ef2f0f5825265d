package domain

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error codes exposed to API clients.
const (
	CodeGameNotFound     = "GAME_NOT_FOUND"
	CodeReviewNotFound   = "REVIEW_NOT_FOUND"
	CodeUserNotFound     = "USER_NOT_FOUND"
	CodeValidation       = "VALIDATION_ERROR"
	CodeRemoteAPI        = "BGG_API_ERROR"
	CodeNetwork          = "NETWORK_ERROR"
	CodeMalformedCatalog = "MALFORMED_CATALOG_DATA"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeForbidden        = "FORBIDDEN"
	CodeConflict         = "CONFLICT"
	CodeInternal         = "INTERNAL_ERROR"
)

var (
	ErrUnauthorized = errors.New("authentication required")
	ErrForbidden    = errors.New("access denied")
)

// RemoteAPIError is a transport or HTTP failure talking to the remote catalog.
// StatusCode is 0 when no response was received.
type RemoteAPIError struct {
	StatusCode int
	URL        string
	Err        error
}

func (e *RemoteAPIError) Error() string {
	switch {
	case e.StatusCode == 0 && e.Err != nil:
		return fmt.Sprintf("remote catalog unreachable: %v", e.Err)
	case e.Err != nil:
		return fmt.Sprintf("remote catalog returned %d: %v", e.StatusCode, e.Err)
	default:
		return fmt.Sprintf("remote catalog returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
}

func (e *RemoteAPIError) Unwrap() error { return e.Err }

// NotFound reports whether the remote answered 404.
func (e *RemoteAPIError) NotFound() bool { return e.StatusCode == http.StatusNotFound }

// MalformedCatalogDataError means the payload parsed but lacks required identifiers.
type MalformedCatalogDataError struct {
	ExternalID string
	Reason     string
}

func (e *MalformedCatalogDataError) Error() string {
	if e.ExternalID == "" {
		return "malformed catalog data: " + e.Reason
	}
	return fmt.Sprintf("malformed catalog data for %s: %s", e.ExternalID, e.Reason)
}

// FieldError describes one violated constraint.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message"`
}

// ValidationError carries every constraint violated while constructing an entity.
type ValidationError struct {
	Entity string
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return fmt.Sprintf("invalid %s: %s", e.Entity, strings.Join(msgs, "; "))
}

// HasField reports whether field failed validation.
func (e *ValidationError) HasField(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// Rule groups a ConflictError belongs to.
const (
	RuleUniqueness  = "uniqueness"
	RulePermission  = "permission"
	RuleQuality     = "quality"
	RuleAbuse       = "abuse"
	RuleConsistency = "consistency"
	RuleDuplicate   = "duplicate"
)

// ConflictError is a business rule rejection of otherwise well-formed data.
type ConflictError struct {
	Rule   string
	Reason string
}

func (e *ConflictError) Error() string { return e.Reason }

// Conflict builds a ConflictError.
func Conflict(rule, format string, args ...any) *ConflictError {
	return &ConflictError{Rule: rule, Reason: fmt.Sprintf(format, args...)}
}

// Entity kinds used by NotFoundError.
const (
	KindGame   = "game"
	KindReview = "review"
	KindUser   = "user"
)

// NotFoundError is returned by repositories when a lookup has no result.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s not found: %s", e.Kind, e.ID) }

// NotFound builds a NotFoundError.
func NotFound(kind string, id any) *NotFoundError {
	return &NotFoundError{Kind: kind, ID: fmt.Sprint(id)}
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// Code returns the API error code for err.
func Code(err error) string {
	var (
		remote    *RemoteAPIError
		malformed *MalformedCatalogDataError
		invalid   *ValidationError
		conflict  *ConflictError
		missing   *NotFoundError
	)
	switch {
	case errors.As(err, &missing):
		switch missing.Kind {
		case KindGame:
			return CodeGameNotFound
		case KindReview:
			return CodeReviewNotFound
		default:
			return CodeUserNotFound
		}
	case errors.As(err, &invalid):
		return CodeValidation
	case errors.As(err, &conflict):
		if conflict.Rule == RulePermission {
			return CodeForbidden
		}
		return CodeConflict
	case errors.As(err, &malformed):
		return CodeMalformedCatalog
	case errors.As(err, &remote):
		if remote.StatusCode == 0 {
			return CodeNetwork
		}
		return CodeRemoteAPI
	case errors.Is(err, ErrUnauthorized):
		return CodeUnauthorized
	case errors.Is(err, ErrForbidden):
		return CodeForbidden
	default:
		return CodeInternal
	}
}

// HTTPStatus maps err to the status code surfaced by the HTTP layer.
func HTTPStatus(err error) int {
	switch Code(err) {
	case CodeGameNotFound, CodeReviewNotFound, CodeUserNotFound:
		return http.StatusNotFound
	case CodeValidation:
		return http.StatusBadRequest
	case CodeConflict:
		return http.StatusConflict
	case CodeMalformedCatalog:
		// surfaced as "record not found"
		return http.StatusNotFound
	case CodeRemoteAPI:
		return http.StatusBadGateway
	case CodeNetwork:
		return http.StatusServiceUnavailable
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
