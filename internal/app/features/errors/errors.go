// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/dalemusser/facetoface/internal/app/system/auth"
	"github.com/dalemusser/facetoface/internal/app/system/authz"
	"github.com/dalemusser/facetoface/internal/app/system/viewdata"
)

// pageData is the basic view model for error pages.
type pageData struct {
	SiteName   string
	Title      string
	Status     int
	IsLoggedIn bool
	Role       string
	UserName   string
	Message    string
	BackURL    string
	SessKey    string
}

func newPageData(r *http.Request, status int, title, msg, backURL string) pageData {
	role, name, _, signedIn := authz.UserCtx(r)
	return pageData{
		SiteName:   viewdata.SiteName(),
		Title:      title,
		Status:     status,
		IsLoggedIn: signedIn,
		Role:       role,
		UserName:   name,
		Message:    msg,
		BackURL:    backURL,
		SessKey:    auth.SessKey(r),
	}
}

// Handler is the errors feature handler.
// No DB needed; it just renders templates.
type Handler struct{}

// NewHandler constructs an errors Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Forbidden renders a friendly "access denied" page.
// GET /forbidden
func (h *Handler) Forbidden(w http.ResponseWriter, r *http.Request) {
	RenderForbidden(w, r, "You don't have permission to view this page.", "/")
}
