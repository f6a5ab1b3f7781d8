package auditlog_test

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/facetoface/internal/app/store/audit"
	"github.com/dalemusser/facetoface/internal/app/system/auditlog"
	"github.com/dalemusser/facetoface/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observed() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

func TestLogger_NilLogger(t *testing.T) {
	// nil logger should be a no-op (not panic)
	var logger *auditlog.Logger
	ctx, cancel := testutil.TestContext()
	defer cancel()
	req := httptest.NewRequest("GET", "/", nil)

	logger.Log(ctx, audit.Event{EventType: "test"})
	logger.LoginSuccess(ctx, req, 1, "test")
	logger.Logout(ctx, req, 1)
	logger.Facetoface(ctx, req, audit.EventAttendeesViewed, auditlog.FacetofaceRef{SessionID: 1})
}

func TestLogger_Facetoface_LogOnly(t *testing.T) {
	zapLog, logs := observed()
	logger := auditlog.New(nil, zapLog, auditlog.Config{Facetoface: "log"})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	req := httptest.NewRequest("POST", "/facetoface/approve?s=42", nil)
	req.RemoteAddr = "10.0.0.5:12345"

	logger.Facetoface(ctx, req, audit.EventApproveRequests, auditlog.FacetofaceRef{
		CourseID:       2,
		CourseModuleID: 3,
		FacetofaceID:   4,
		SessionID:      42,
		ActorID:        1,
		Details:        map[string]string{"booked": "1"},
	})

	entries := logs.FilterMessage("audit event").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 audit log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	checks := map[string]any{
		"category":             audit.CategoryFacetoface,
		"event_type":           audit.EventApproveRequests,
		"context_instance_id":  int64(3),
		"object_id":            int64(42),
		"object_table":         "facetoface_sessions",
		"actor_id":             int64(1),
		"ip":                   "10.0.0.5",
		"detail_url":           "/facetoface/approve?s=42",
		"detail_booked":        "1",
		"detail_facetoface_id": "4",
	}
	for k, want := range checks {
		if got := fields[k]; got != want {
			t.Errorf("%s: got %v, want %v", k, got, want)
		}
	}
}

func TestLogger_ConfigOff_PerCategory(t *testing.T) {
	zapLog, logs := observed()
	logger := auditlog.New(nil, zapLog, auditlog.Config{Auth: "log", Facetoface: "off"})
	ctx, cancel := testutil.TestContext()
	defer cancel()
	req := httptest.NewRequest("GET", "/facetoface/approve?s=1", nil)

	logger.Facetoface(ctx, req, audit.EventAttendeesViewed, auditlog.FacetofaceRef{SessionID: 1})
	if logs.Len() != 0 {
		t.Errorf("expected facetoface events suppressed, got %d entries", logs.Len())
	}

	logger.Logout(ctx, req, 5)
	if logs.Len() != 1 {
		t.Errorf("expected auth event logged, got %d entries", logs.Len())
	}
}

func TestLogger_FailedLoginLogsWarn(t *testing.T) {
	zapLog, logs := observed()
	logger := auditlog.New(nil, zapLog, auditlog.Config{Auth: "all"})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger.LoginFailedUserNotFound(ctx, httptest.NewRequest("POST", "/login", nil), "ghost")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Level != zapcore.WarnLevel {
		t.Errorf("expected warn level, got %v", entries[0].Level)
	}
}

func TestLogger_Log_ConfigDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	zapLog, logs := observed()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger := auditlog.New(store, zapLog, auditlog.Config{Auth: "db", Facetoface: "db"})
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.195")
	req.Header.Set("X-Real-IP", "192.168.1.1")

	logger.LoginSuccess(ctx, req, 7, "tina.trainer")

	var got audit.Event
	if err := db.Collection("audit_events").FindOne(ctx, bson.M{"user_id": int64(7)}).Decode(&got); err != nil {
		t.Fatalf("FindOne failed: %v", err)
	}
	if got.IP != "203.0.113.195" {
		t.Errorf("IP: got %q, want %q", got.IP, "203.0.113.195")
	}
	if logs.Len() != 0 {
		t.Errorf("expected nothing logged to zap for \"db\", got %d", logs.Len())
	}
}

func TestLogger_Facetoface_StoredBySession(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Facetoface: "all"})
	req := httptest.NewRequest("GET", "/facetoface/approve?s=42", nil)
	req.Header.Set("X-Real-IP", "192.168.1.100")

	logger.Facetoface(ctx, req, audit.EventAttendeesViewed, auditlog.FacetofaceRef{
		CourseModuleID: 3, SessionID: 42, ActorID: 1,
	})

	events, err := store.GetBySession(ctx, 3, 42, 10)
	if err != nil {
		t.Fatalf("GetBySession failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].EventType != audit.EventAttendeesViewed {
		t.Errorf("event type: got %q", events[0].EventType)
	}
	if events[0].IP != "192.168.1.100" {
		t.Errorf("IP: got %q, want %q", events[0].IP, "192.168.1.100")
	}
}
