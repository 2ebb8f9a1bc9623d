// internal/app/features/errors/errors.go
package errors

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/groupwork/internal/app/system/apperr"
	"go.uber.org/zap"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ErrorLogger writes JSON error responses and logs server-side failures.
type ErrorLogger struct {
	Log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ErrorLogger{Log: logger}
}

// Write maps err to a status by kind and writes it. 5xx errors are logged
// with the request path; the client sees a generic message for untyped errors.
func (e *ErrorLogger) Write(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.HTTPStatus(err)
	msg := err.Error()
	if status >= 500 {
		e.Log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Error(err))
		if status == http.StatusInternalServerError {
			msg = "internal error"
		}
	}
	WriteJSON(w, status, errorBody{Error: http.StatusText(status), Message: msg})
}

// BadRequest writes a 400 with msg.
func (e *ErrorLogger) BadRequest(w http.ResponseWriter, msg string) {
	WriteJSON(w, http.StatusBadRequest, errorBody{Error: http.StatusText(http.StatusBadRequest), Message: msg})
}

// NotFound is the router's fallback handler.
func NotFound(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusNotFound, errorBody{Error: http.StatusText(http.StatusNotFound), Message: "no route for " + r.URL.Path})
}

// MethodNotAllowed is the router's fallback for known paths.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusMethodNotAllowed, errorBody{Error: http.StatusText(http.StatusMethodNotAllowed), Message: r.Method + " not allowed"})
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
