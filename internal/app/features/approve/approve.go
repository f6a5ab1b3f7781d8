// internal/app/features/approve/approve.go
package approve

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	uierrors "github.com/dalemusser/facetoface/internal/app/features/errors"
	"github.com/dalemusser/facetoface/internal/app/policy/approvalpolicy"
	"github.com/dalemusser/facetoface/internal/app/store/audit"
	facetofacestore "github.com/dalemusser/facetoface/internal/app/store/facetoface"
	"github.com/dalemusser/facetoface/internal/app/system/approvals"
	"github.com/dalemusser/facetoface/internal/app/system/auditlog"
	"github.com/dalemusser/facetoface/internal/app/system/auth"
	"github.com/dalemusser/facetoface/internal/app/system/timeouts"
	"github.com/dalemusser/facetoface/internal/domain/models"
	"go.uber.org/zap"
)

// Messages for records that cannot be resolved.
const (
	msgNoSession      = "Incorrect course module session."
	msgNoFacetoface   = "Incorrect facetoface id."
	msgNoCourse       = "Course is misconfigured."
	msgNoCourseModule = "Incorrect course module."
)

// pageContext is everything the approval page loads before branching on
// the request method.
type pageContext struct {
	session       *models.Session
	facetoface    *models.Facetoface
	course        *models.Course
	cm            *models.CourseModule
	attendees     []models.Signup
	requests      []models.Signup
	cancellations []models.Signup
}

func (pc pageContext) ref(viewer approvalpolicy.Viewer, details map[string]string) auditlog.FacetofaceRef {
	return auditlog.FacetofaceRef{
		CourseID:       pc.course.ID,
		CourseModuleID: pc.cm.ID,
		FacetofaceID:   pc.facetoface.ID,
		SessionID:      pc.session.ID,
		ActorID:        viewer.ID,
		Details:        details,
	}
}

// approveURL is the page's own address, used as the post-submit redirect.
func approveURL(sessionID, backToAllSessions int64) string {
	return fmt.Sprintf("/facetoface/approve?s=%d&backtoallsessions=%d", sessionID, backToAllSessions)
}

// resultURL is the redirect after a submit. It carries the number of
// approvals refused because the session was full.
func resultURL(sessionID, backToAllSessions int64, res approvals.Result) string {
	u := approveURL(sessionID, backToAllSessions)
	if n := len(res.Full); n > 0 {
		u += fmt.Sprintf("&%s=%d", fullParam, n)
	}
	return u
}

// ServeApprove handles GET and POST /facetoface/approve.
//
// GET renders the pending requests of session s. POST checks sesskey, then
// either cancels (cancelform), applies requests[<userid>] decisions, or
// falls through to the view when no decisions were posted. Both submit
// paths redirect back to the GET page.
func (h *Handler) ServeApprove(w http.ResponseWriter, r *http.Request) {
	viewer, ok := approvalpolicy.ViewerFromRequest(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/")
		return
	}

	sessionID := intParam(r.Form, "s")
	if sessionID <= 0 {
		uierrors.RenderBadRequest(w, r, "A valid session id is required.", "/")
		return
	}
	back := intParam(r.Form, "backtoallsessions")
	if back < 0 {
		back = 0
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	pc, ok := h.loadPage(ctx, w, r, sessionID)
	if !ok {
		return
	}

	if r.Method == http.MethodPost {
		if !auth.ConfirmSessKey(r, r.Form.Get("sesskey")) {
			h.Log.Warn("approve: invalid sesskey",
				zap.Int64("viewer_id", viewer.ID),
				zap.Int64("session_id", sessionID))
			uierrors.RenderBadRequest(w, r, "Your session key is invalid. Reload the page and try again.", approveURL(sessionID, back))
			return
		}

		ret := approveURL(sessionID, back)
		if boolParam(r.Form, "cancelform") {
			http.Redirect(w, r, ret, http.StatusSeeOther)
			return
		}

		decisions, err := parseDecisions(r.PostForm)
		if err != nil {
			h.ErrLog.LogBadRequest(w, r, "approve: malformed decisions", err, "The submitted decisions are invalid.", ret)
			return
		}

		if len(decisions) > 0 {
			res, err := h.Approver.ApproveRequests(ctx, viewer, sessionID, decisions)
			if err != nil {
				h.ErrLog.LogServerError(w, r, "approve requests failed", err,
					"Your decisions could not be saved. Some requests may have been updated; review the list and try again.", ret)
				return
			}
			h.publish(ctx, r, audit.EventApproveRequests, pc.ref(viewer, resultDetails(res)))
			http.Redirect(w, r, resultURL(sessionID, back, res), http.StatusSeeOther)
			return
		}
	}

	h.publish(ctx, r, audit.EventAttendeesViewed, pc.ref(viewer, nil))

	data, err := h.buildApprovePage(ctx, r, viewer, pc, back)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "approve: build page", err, "A database error occurred.", "/")
		return
	}
	h.Render(w, r, "approve_page", data)
}

// loadPage resolves session, activity, course and course module, then the
// signup lists. It writes the error page itself and reports false on failure.
func (h *Handler) loadPage(ctx context.Context, w http.ResponseWriter, r *http.Request, sessionID int64) (pageContext, bool) {
	var pc pageContext
	var err error

	pc.session, err = h.Store.GetSession(ctx, sessionID)
	if !h.found(w, r, err, "load session", msgNoSession) {
		return pc, false
	}
	pc.facetoface, err = h.Store.GetFacetoface(ctx, pc.session.FacetofaceID)
	if !h.found(w, r, err, "load facetoface", msgNoFacetoface) {
		return pc, false
	}
	pc.course, err = h.Store.GetCourse(ctx, pc.facetoface.CourseID)
	if !h.found(w, r, err, "load course", msgNoCourse) {
		return pc, false
	}
	pc.cm, err = h.Store.GetCourseModule(ctx, pc.facetoface.ID, pc.course.ID)
	if !h.found(w, r, err, "load course module", msgNoCourseModule) {
		return pc, false
	}

	if pc.attendees, err = h.Store.GetAttendees(ctx, sessionID); err != nil {
		h.ErrLog.LogServerError(w, r, "load attendees", err, "A database error occurred.", "/")
		return pc, false
	}
	if pc.requests, err = h.Store.GetRequests(ctx, sessionID); err != nil {
		h.ErrLog.LogServerError(w, r, "load requests", err, "A database error occurred.", "/")
		return pc, false
	}
	if pc.cancellations, err = h.Store.GetCancellations(ctx, sessionID); err != nil {
		h.ErrLog.LogServerError(w, r, "load cancellations", err, "A database error occurred.", "/")
		return pc, false
	}
	return pc, true
}

// found renders the not-found page for ErrNotFound and a server error for
// anything else.
func (h *Handler) found(w http.ResponseWriter, r *http.Request, err error, what, notFoundMsg string) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, facetofacestore.ErrNotFound):
		uierrors.RenderNotFound(w, r, notFoundMsg, "/")
	default:
		h.ErrLog.LogServerError(w, r, what, err, "A database error occurred.", "/")
	}
	return false
}

func (h *Handler) publish(ctx context.Context, r *http.Request, eventType string, ref auditlog.FacetofaceRef) {
	if h.Audit == nil {
		return
	}
	h.Audit.Facetoface(ctx, r, eventType, ref)
}

func resultDetails(res approvals.Result) map[string]string {
	return map[string]string{
		"batch_id":   res.BatchID,
		"changed":    strconv.Itoa(res.Changed()),
		"declined":   strconv.Itoa(len(res.Declined)),
		"booked":     strconv.Itoa(len(res.Booked)),
		"waitlisted": strconv.Itoa(len(res.Waitlisted)),
		"full":       strconv.Itoa(len(res.Full)),
		"skipped":    strconv.Itoa(len(res.Skipped)),
	}
}
