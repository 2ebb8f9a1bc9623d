package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", NotFound("group", "abc"), http.StatusNotFound},
		{"capacity", fmt.Errorf("%w: group is full", ErrCapacity), http.StatusConflict},
		{"validation", Invalid("bad day %q", "funday"), http.StatusBadRequest},
		{"store", Store("insert group", errors.New("connection refused")), http.StatusServiceUnavailable},
		{"unclassified", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatus(tt.err); got != tt.want {
				t.Errorf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestStore_PassThrough(t *testing.T) {
	if Store("op", nil) != nil {
		t.Error("expected nil to stay nil")
	}
	if err := Store("op", mongo.ErrNoDocuments); err != mongo.ErrNoDocuments {
		t.Errorf("expected ErrNoDocuments unchanged, got %v", err)
	}
	classified := NotFound("student", "s1")
	if err := Store("op", classified); err != classified {
		t.Errorf("expected classified error unchanged, got %v", err)
	}
	if err := Store("op", errors.New("timeout")); !errors.Is(err, ErrStore) {
		t.Errorf("expected ErrStore, got %v", err)
	}
}
