// Package apperr defines the error kinds surfaced by group formation.
//
// Component errors wrap one of the kind sentinels with %w so callers can
// classify them with errors.Is without knowing the component:
//
//	var ErrGroupClosed = fmt.Errorf("%w: group is not open", apperr.ErrCapacity)
//
// Nothing here is retried; kinds only drive how a failure is reported.
package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrNotFound means an assignment, group, or student is absent.
	ErrNotFound = errors.New("not found")
	// ErrCapacity means the group is closed or full, or the assignment does not match.
	ErrCapacity = errors.New("capacity violation")
	// ErrValidation means the request itself is malformed.
	ErrValidation = errors.New("validation error")
	// ErrStore means the document store failed or is unavailable.
	ErrStore = errors.New("store unavailable")
)

// NotFound returns an ErrNotFound error naming what was missing.
func NotFound(what, id string) error {
	return fmt.Errorf("%w: %s %q", ErrNotFound, what, id)
}

// Invalid returns an ErrValidation error with the given message.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Store classifies a raw driver error. mongo.ErrNoDocuments is left for the
// caller to map (it usually means NotFound); nil stays nil; errors that
// already carry a kind pass through unchanged.
func Store(op string, err error) error {
	if err == nil || errors.Is(err, mongo.ErrNoDocuments) || Classified(err) {
		return err
	}
	return fmt.Errorf("%w: %s: %v", ErrStore, op, err)
}

// Classified reports whether err already wraps one of the kinds.
func Classified(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrCapacity) ||
		errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrStore)
}

// HTTPStatus maps an error kind to an HTTP status code.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrCapacity):
		return http.StatusConflict
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrStore):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
