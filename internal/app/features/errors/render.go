// internal/app/features/errors/render.go
package errors

import (
	"net/http"
	"sync"

	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/dalemusser/waffle/pantry/templates"
)

// RenderFunc writes a named template with data.
type RenderFunc func(w http.ResponseWriter, r *http.Request, name string, data any)

var (
	renderMu sync.RWMutex
	render   RenderFunc = func(w http.ResponseWriter, r *http.Request, name string, data any) {
		templates.Render(w, r, name, data)
	}
)

// SetRenderer replaces the template renderer and returns the previous one.
// Tests use it to capture page data without booting the template engine.
func SetRenderer(fn RenderFunc) RenderFunc {
	renderMu.Lock()
	defer renderMu.Unlock()
	prev := render
	render = fn
	return prev
}

func renderPage(w http.ResponseWriter, r *http.Request, data pageData) {
	renderMu.RLock()
	fn := render
	renderMu.RUnlock()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(data.Status)
	fn(w, r, "error_page", data)
}

// RenderUnauthorized shows a friendly "sign in required" page.
// If backURL is empty, it will default to /login.
func RenderUnauthorized(w http.ResponseWriter, r *http.Request, backURL string) {
	if backURL == "" {
		backURL = "/login"
	}
	renderPage(w, r, newPageData(r, http.StatusUnauthorized, "Sign in required", "Please sign in to continue.", backURL))
}

// RenderForbidden shows a friendly access error page with a message.
// If backURL is empty, it resolves a safe back URL with a default fallback.
func RenderForbidden(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	renderPage(w, r, newPageData(r, http.StatusForbidden, "Access denied", msg, resolveBack(r, backURL)))
}

// RenderNotFound shows a "not found" page, used for missing or misconfigured
// records.
func RenderNotFound(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	renderPage(w, r, newPageData(r, http.StatusNotFound, "Not found", msg, resolveBack(r, backURL)))
}

// RenderBadRequest shows an "invalid request" page.
func RenderBadRequest(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	renderPage(w, r, newPageData(r, http.StatusBadRequest, "Invalid request", msg, resolveBack(r, backURL)))
}

// RenderServerError shows a generic failure page. msg must be safe to show
// to users; never pass err.Error() here.
func RenderServerError(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	renderPage(w, r, newPageData(r, http.StatusInternalServerError, "Something went wrong", msg, resolveBack(r, backURL)))
}

func resolveBack(r *http.Request, backURL string) string {
	if backURL != "" {
		return backURL
	}
	return httpnav.ResolveBackURL(r, "/")
}
