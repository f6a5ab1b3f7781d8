package errors_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	uierrors "github.com/dalemusser/facetoface/internal/app/features/errors"
	"github.com/dalemusser/facetoface/internal/app/system/auth"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type rendered struct {
	name string
	data any
}

func captureRender(t *testing.T) *rendered {
	t.Helper()
	out := &rendered{}
	prev := uierrors.SetRenderer(func(w http.ResponseWriter, r *http.Request, name string, data any) {
		out.name = name
		out.data = data
	})
	t.Cleanup(func() { uierrors.SetRenderer(prev) })
	return out
}

// field reads a named field from the unexported page data.
func field(t *testing.T, data any, name string) any {
	t.Helper()
	v := reflect.ValueOf(data)
	f := v.FieldByName(name)
	if !f.IsValid() {
		t.Fatalf("page data has no field %q", name)
	}
	switch f.Kind() {
	case reflect.String:
		return f.String()
	case reflect.Bool:
		return f.Bool()
	case reflect.Int:
		return int(f.Int())
	}
	t.Fatalf("unsupported field kind %s", f.Kind())
	return nil
}

func TestRenderFunctions_StatusAndMessage(t *testing.T) {
	tests := []struct {
		name   string
		render func(w http.ResponseWriter, r *http.Request)
		status int
		msg    string
	}{
		{"not found", func(w http.ResponseWriter, r *http.Request) {
			uierrors.RenderNotFound(w, r, "incorrect facetoface id", "/")
		}, http.StatusNotFound, "incorrect facetoface id"},
		{"bad request", func(w http.ResponseWriter, r *http.Request) {
			uierrors.RenderBadRequest(w, r, "Invalid session key.", "/")
		}, http.StatusBadRequest, "Invalid session key."},
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			uierrors.RenderServerError(w, r, "A database error occurred.", "/")
		}, http.StatusInternalServerError, "A database error occurred."},
		{"forbidden", func(w http.ResponseWriter, r *http.Request) {
			uierrors.RenderForbidden(w, r, "No access.", "/")
		}, http.StatusForbidden, "No access."},
		{"unauthorized", func(w http.ResponseWriter, r *http.Request) {
			uierrors.RenderUnauthorized(w, r, "")
		}, http.StatusUnauthorized, "Please sign in to continue."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := captureRender(t)
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/facetoface/approve?s=1", nil)

			tt.render(rec, req)

			if rec.Code != tt.status {
				t.Errorf("status: got %d, want %d", rec.Code, tt.status)
			}
			if out.name != "error_page" {
				t.Errorf("template: got %q, want error_page", out.name)
			}
			if got := field(t, out.data, "Message"); got != tt.msg {
				t.Errorf("Message: got %q, want %q", got, tt.msg)
			}
			if got := field(t, out.data, "Status"); got != tt.status {
				t.Errorf("Status field: got %v, want %d", got, tt.status)
			}
		})
	}
}

func TestRenderUnauthorized_DefaultsBackToLogin(t *testing.T) {
	out := captureRender(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/facetoface/approve", nil)

	uierrors.RenderUnauthorized(rec, req, "")

	if got := field(t, out.data, "BackURL"); got != "/login" {
		t.Errorf("BackURL: got %q, want /login", got)
	}
}

func TestRender_CarriesSignedInUser(t *testing.T) {
	out := captureRender(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/forbidden", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{ID: 5, Name: "Tess Trainer", Role: "trainer", SessKey: "k"})

	uierrors.NewHandler().Forbidden(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusForbidden)
	}
	if got := field(t, out.data, "IsLoggedIn"); got != true {
		t.Error("expected IsLoggedIn")
	}
	if got := field(t, out.data, "UserName"); got != "Tess Trainer" {
		t.Errorf("UserName: got %q", got)
	}
	if got := field(t, out.data, "SessKey"); got != "k" {
		t.Errorf("SessKey: got %q", got)
	}
}

func TestErrorLogger_LogServerError(t *testing.T) {
	out := captureRender(t)
	core, logs := observer.New(zap.DebugLevel)
	el := uierrors.NewErrorLogger(zap.New(core))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/facetoface/approve", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{ID: 9, Role: "manager"})

	el.LogServerError(rec, req, "approve requests failed", errors.New("disk full"), "A database error occurred.", "/")

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d", rec.Code)
	}
	if got := field(t, out.data, "Message"); got != "A database error occurred." {
		t.Errorf("Message: got %q", got)
	}

	entries := logs.FilterMessage("approve requests failed").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx["user_id"] != int64(9) {
		t.Errorf("user_id: got %v", ctx["user_id"])
	}
	if ctx["error"] != "disk full" {
		t.Errorf("error: got %v", ctx["error"])
	}
}

func TestErrorLogger_LogBadRequest(t *testing.T) {
	captureRender(t)
	core, logs := observer.New(zap.DebugLevel)
	el := uierrors.NewErrorLogger(zap.New(core))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/facetoface/approve", nil)

	el.LogBadRequest(rec, req, "bad decisions", errors.New("x"), "Invalid form data.", "/")

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d", rec.Code)
	}
	if logs.FilterMessage("bad decisions").Len() != 1 {
		t.Error("expected one warn entry")
	}
	if e := logs.All()[0]; e.Level != zap.WarnLevel {
		t.Errorf("level: got %v, want warn", e.Level)
	}
}
