package health_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/facetoface/internal/app/features/health"
	"github.com/dalemusser/facetoface/internal/testutil"
	"go.uber.org/zap"
)

func serve(t *testing.T, h *health.Handler) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	h.Serve(rec, req)

	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want application/json", ct)
	}
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return rec, body
}

func TestServe_DatabaseConnected_AuditDisabled(t *testing.T) {
	db := testutil.SetupTestSQL(t)
	handler := health.NewHandler(db, nil, zap.NewNop())

	rec, body := serve(t, handler)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if body["status"] != "ok" {
		t.Errorf("status: got %v, want ok", body["status"])
	}
	if body["database"] != "connected" {
		t.Errorf("database: got %v, want connected", body["database"])
	}
	if body["audit"] != "disabled" {
		t.Errorf("audit: got %v, want disabled", body["audit"])
	}
}

func TestServe_DatabaseClosed(t *testing.T) {
	db := testutil.SetupTestSQL(t)
	handler := health.NewHandler(db, nil, zap.NewNop())
	db.Close()

	rec, body := serve(t, handler)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status %d, got %d", http.StatusServiceUnavailable, rec.Code)
	}
	if body["status"] != "error" {
		t.Errorf("status: got %v, want error", body["status"])
	}
	if body["database"] != "disconnected" {
		t.Errorf("database: got %v, want disconnected", body["database"])
	}
	if body["message"] != "Database unavailable" {
		t.Errorf("message: got %v", body["message"])
	}
}

func TestServe_AuditConnected(t *testing.T) {
	mdb := testutil.SetupTestDB(t) // skips without MongoDB
	db := testutil.SetupTestSQL(t)
	handler := health.NewHandler(db, mdb.Client(), zap.NewNop())

	rec, body := serve(t, handler)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if body["audit"] != "connected" {
		t.Errorf("audit: got %v, want connected", body["audit"])
	}
}
