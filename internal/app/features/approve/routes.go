// internal/app/features/approve/routes.go
package approve

import (
	"github.com/dalemusser/facetoface/internal/app/system/auth"
	"github.com/dalemusser/facetoface/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes mounts under /facetoface.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		// APPROVE (view + submit)
		pr.Get("/approve", h.ServeApprove)
		pr.Post("/approve", h.ServeApprove)

		// SESSIONS of one activity
		pr.With(sm.RequireRole(authz.StaffRoles...)).Get("/sessions", h.ServeSessions)
	})

	return r
}
