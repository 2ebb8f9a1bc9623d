package health

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/groupwork/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Pinger is an optional dependency checked alongside the database.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler holds dependencies needed for health checks.
type Handler struct {
	Client *mongo.Client
	Relay  Pinger // nil when the real-time relay is disabled
	Log    *zap.Logger
}

// NewHandler constructs a health Handler with the Mongo client and logger.
func NewHandler(client *mongo.Client, relay Pinger, logger *zap.Logger) *Handler {
	return &Handler{
		Client: client,
		Relay:  relay,
		Log:    logger,
	}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Relay    string `json:"relay,omitempty"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "database":"connected", "relay":"connected" }
//
// On DB failure: 503 and
//
//	{ "status":"error", "message":"Database unavailable", "error":"…"}
//
// A relay failure is reported as "degraded" with 200; group formation works
// without it.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	w.Header().Set("Content-Type", "application/json")

	resp := healthResponse{
		Status:   "ok",
		Database: "connected",
	}

	if err := h.Client.Ping(ctx, readpref.Primary()); err != nil {
		h.Log.Error("health-check: mongo ping failed", zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		resp.Status = "error"
		resp.Database = "disconnected"
		resp.Message = "Database unavailable"
		resp.Error = err.Error()
		_ = json.NewEncoder(w).Encode(resp)
		return
	}

	if h.Relay != nil {
		if err := h.Relay.Ping(ctx); err != nil {
			h.Log.Warn("health-check: relay ping failed", zap.Error(err))
			resp.Status = "degraded"
			resp.Relay = "disconnected"
			resp.Error = err.Error()
		} else {
			resp.Relay = "connected"
		}
	}

	_ = json.NewEncoder(w).Encode(resp)
}
