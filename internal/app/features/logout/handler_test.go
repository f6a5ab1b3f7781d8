package logout_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	uierrors "github.com/dalemusser/facetoface/internal/app/features/errors"
	"github.com/dalemusser/facetoface/internal/app/features/logout"
	"github.com/dalemusser/facetoface/internal/app/system/auth"
	"github.com/dalemusser/facetoface/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) *logout.Handler {
	t.Helper()
	logger := zap.NewNop()

	// Create a session manager for testing
	sessionMgr, err := auth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", 24*time.Hour, false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}

	prev := uierrors.SetRenderer(func(http.ResponseWriter, *http.Request, string, any) {})
	t.Cleanup(func() { uierrors.SetRenderer(prev) })

	// Pass nil for the audit logger in tests (it is nil-safe)
	return logout.NewHandler(sessionMgr, nil, logger)
}

func postLogout(sesskey string) *http.Request {
	user := testutil.PlainUser(42)
	user.SessKey = "abc123"
	return testutil.WithUser(testutil.PostForm("/logout", url.Values{"sesskey": {sesskey}}), user)
}

func TestHandleLogout_RedirectsToHome(t *testing.T) {
	handler := newTestHandler(t)

	rec := testutil.NewRecorder()
	handler.HandleLogout(rec, postLogout("abc123"))

	rec.AssertRedirect(t, "/")
}

func TestHandleLogout_ClearsSessionCookie(t *testing.T) {
	handler := newTestHandler(t)

	rec := httptest.NewRecorder()
	handler.HandleLogout(rec, postLogout("abc123"))

	// Check that the session cookie is being deleted (MaxAge = -1)
	cookies := rec.Result().Cookies()
	found := false
	for _, c := range cookies {
		if c.Name == "test-session" {
			found = true
			if c.MaxAge != -1 {
				t.Errorf("cookie MaxAge: got %d, want -1 (delete)", c.MaxAge)
			}
			break
		}
	}
	if !found {
		t.Error("expected session cookie to be set for deletion")
	}
}

func TestHandleLogout_HTMX_ReturnsHXRedirect(t *testing.T) {
	handler := newTestHandler(t)

	req := postLogout("abc123")
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()

	handler.HandleLogout(rec, req)

	// HTMX should get HX-Redirect header
	hxRedirect := rec.Header().Get("HX-Redirect")
	if hxRedirect != "/" {
		t.Errorf("HX-Redirect: got %q, want %q", hxRedirect, "/")
	}

	// Status should be 200 for HTMX
	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d for HTMX, got %d", http.StatusOK, rec.Code)
	}
}

func TestHandleLogout_InvalidSessKey(t *testing.T) {
	handler := newTestHandler(t)

	rec := httptest.NewRecorder()
	handler.HandleLogout(rec, postLogout("wrong"))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == "test-session" {
			t.Error("session must not be cleared on an invalid sesskey")
		}
	}
}
