// internal/app/features/approve/handler.go
package approve

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/facetoface/internal/app/features/errors"
	"github.com/dalemusser/facetoface/internal/app/policy/approvalpolicy"
	"github.com/dalemusser/facetoface/internal/app/store/audit"
	"github.com/dalemusser/facetoface/internal/app/system/approvals"
	"github.com/dalemusser/facetoface/internal/app/system/auditlog"
	"github.com/dalemusser/facetoface/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// Store is the read side of the facetoface store used by the pages.
type Store interface {
	GetSession(ctx context.Context, id int64) (*models.Session, error)
	GetFacetoface(ctx context.Context, id int64) (*models.Facetoface, error)
	GetCourse(ctx context.Context, id int64) (*models.Course, error)
	GetCourseModule(ctx context.Context, facetofaceID, courseID int64) (*models.CourseModule, error)
	GetRequests(ctx context.Context, sessionID int64) ([]models.Signup, error)
	GetAttendees(ctx context.Context, sessionID int64) ([]models.Signup, error)
	GetCancellations(ctx context.Context, sessionID int64) ([]models.Signup, error)
	ListSessions(ctx context.Context, facetofaceID int64) ([]models.SessionSummary, error)
}

// Policy decides, per requesting user, whether the approve option is offered.
type Policy interface {
	CanApprove(ctx context.Context, viewer approvalpolicy.Viewer, targetUserID int64) (bool, error)
}

// Approver applies submitted decisions. approvals.Service implements it.
type Approver interface {
	ApproveRequests(ctx context.Context, viewer approvalpolicy.Viewer, sessionID int64, decisions models.Decisions) (approvals.Result, error)
}

// AuditSink publishes approval page events. auditlog.Logger implements it.
type AuditSink interface {
	Facetoface(ctx context.Context, r *http.Request, eventType string, ref auditlog.FacetofaceRef)
}

// History lists the stored audit events of a session, newest first.
// audit.Store implements it.
type History interface {
	GetBySession(ctx context.Context, courseModuleID, sessionID int64, limit int64) ([]audit.Event, error)
}

// RenderFunc writes a named template with data.
type RenderFunc func(w http.ResponseWriter, r *http.Request, name string, data any)

// Handler serves the session approval page and the session list.
type Handler struct {
	Store    Store
	Policy   Policy
	Approver Approver
	Audit    AuditSink
	// History is optional; without it the page shows no recent activity.
	History  History
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger
	Render   RenderFunc
}

// NewHandler creates an approve Handler rendering through the waffle
// template engine.
func NewHandler(store Store, policy Policy, approver Approver, audit AuditSink, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Store:    store,
		Policy:   policy,
		Approver: approver,
		Audit:    audit,
		ErrLog:   errLog,
		Log:      logger,
		Render: func(w http.ResponseWriter, r *http.Request, name string, data any) {
			templates.Render(w, r, name, data)
		},
	}
}
