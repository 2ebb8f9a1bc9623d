package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/groupwork/internal/app/features/health"
	"github.com/dalemusser/groupwork/internal/testutil"
	"go.uber.org/zap"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

type response struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Relay    string `json:"relay"`
}

func serve(t *testing.T, h *health.Handler) (*httptest.ResponseRecorder, response) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.Serve(rec, httptest.NewRequest("GET", "/health", nil))

	var resp response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	return rec, resp
}

func TestServe_DatabaseConnected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := health.NewHandler(db.Client(), nil, zap.NewNop())

	rec, resp := serve(t, handler)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want %q", ct, "application/json")
	}
	if resp.Status != "ok" || resp.Database != "connected" {
		t.Errorf("response: got %+v", resp)
	}
	if resp.Relay != "" {
		t.Errorf("relay: got %q, want omitted", resp.Relay)
	}
}

func TestServe_RelayStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)

	up := health.NewHandler(db.Client(), pingFunc(func(context.Context) error { return nil }), zap.NewNop())
	rec, resp := serve(t, up)
	if rec.Code != http.StatusOK || resp.Status != "ok" || resp.Relay != "connected" {
		t.Errorf("relay up: code=%d resp=%+v", rec.Code, resp)
	}

	down := health.NewHandler(db.Client(), pingFunc(func(context.Context) error { return errors.New("refused") }), zap.NewNop())
	rec, resp = serve(t, down)
	if rec.Code != http.StatusOK || resp.Status != "degraded" || resp.Relay != "disconnected" {
		t.Errorf("relay down: code=%d resp=%+v", rec.Code, resp)
	}
}
