// internal/app/features/health/handler.go
package health

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/facetoface/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Handler holds dependencies needed for health checks.
type Handler struct {
	SQL *sql.DB
	// Client is the audit store's Mongo client; nil when audit events are
	// only logged.
	Client *mongo.Client
	Log    *zap.Logger
}

// NewHandler constructs a health Handler.
func NewHandler(db *sql.DB, client *mongo.Client, logger *zap.Logger) *Handler {
	return &Handler{
		SQL:    db,
		Client: client,
		Log:    logger,
	}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Audit    string `json:"audit"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "database":"connected", "audit":"connected" }
//
// On failure of either backend: 503 and
//
//	{ "status":"error", "database":"disconnected", "audit":"connected", "message":"Database unavailable", "error":"…"}
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	w.Header().Set("Content-Type", "application/json")

	resp := healthResponse{
		Status:   "ok",
		Database: "connected",
		Audit:    "disabled",
	}

	if err := h.SQL.PingContext(ctx); err != nil {
		h.Log.Error("health-check: sql ping failed", zap.Error(err))
		resp.Status = "error"
		resp.Database = "disconnected"
		resp.Message = "Database unavailable"
		resp.Error = err.Error()
	}

	if h.Client != nil {
		resp.Audit = "connected"
		if err := h.Client.Ping(ctx, readpref.Primary()); err != nil {
			h.Log.Error("health-check: mongo ping failed", zap.Error(err))
			resp.Status = "error"
			resp.Audit = "disconnected"
			if resp.Message == "" {
				resp.Message = "Audit store unavailable"
				resp.Error = err.Error()
			}
		}
	}

	if resp.Status != "ok" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(resp)
}
