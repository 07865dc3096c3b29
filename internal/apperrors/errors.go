// Package apperrors defines the error kinds shared by services and handlers.
package apperrors

import (
	"errors"
	"net/http"
	"sort"
	"strings"
)

var (
	// ErrUnauthorized is returned when an identity may not perform an operation.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound is returned when a record or entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a write would violate a uniqueness constraint.
	ErrConflict = errors.New("conflict")
	// ErrValidation is returned when input is missing required fields or is malformed.
	ErrValidation = errors.New("validation failed")
	// ErrTransport is returned when mail or message delivery fails.
	ErrTransport = errors.New("transport failure")
	// ErrConfiguration is returned when required startup configuration is missing.
	ErrConfiguration = errors.New("configuration error")
)

// Status maps an error to the HTTP status code used at the request boundary.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrTransport):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Message returns a client-safe description of err. Underlying details are
// never included.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return "Unauthorized access"
	case errors.Is(err, ErrNotFound):
		return "Record not found"
	case errors.Is(err, ErrConflict):
		return "A record with that value already exists"
	case errors.Is(err, ErrValidation):
		return "Invalid or missing fields"
	case errors.Is(err, ErrTransport):
		return "Delivery failed, please try again later"
	default:
		return "Internal server error"
	}
}

// FieldErrors describes per-field validation failures. It matches
// ErrValidation under errors.Is.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "validation failed: " + strings.Join(keys, ", ")
}

// Is reports whether target is ErrValidation.
func (f FieldErrors) Is(target error) bool {
	return target == ErrValidation
}
