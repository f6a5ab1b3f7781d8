// internal/app/features/approve/sessions.go
package approve

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/facetoface/internal/app/features/errors"
	"github.com/dalemusser/facetoface/internal/app/system/htmlsanitize"
	"github.com/dalemusser/facetoface/internal/app/system/timeouts"
	"github.com/dalemusser/facetoface/internal/app/system/viewdata"
)

type sessionRow struct {
	ID         int64
	When       string
	Capacity   int
	Booked     int
	Waitlisted int
	Requests   int
	ApproveURL string
}

type sessionsPageData struct {
	viewdata.BaseVM

	ActivityName string
	CourseName   string
	Sessions     []sessionRow
}

// ServeSessions lists the sessions of activity f with their booking counts.
// GET /facetoface/sessions?f=<id>
func (h *Handler) ServeSessions(w http.ResponseWriter, r *http.Request) {
	facetofaceID := intParam(r.URL.Query(), "f")
	if facetofaceID <= 0 {
		uierrors.RenderBadRequest(w, r, "A valid activity id is required.", "/")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	f, err := h.Store.GetFacetoface(ctx, facetofaceID)
	if !h.found(w, r, err, "load facetoface", msgNoFacetoface) {
		return
	}
	course, err := h.Store.GetCourse(ctx, f.CourseID)
	if !h.found(w, r, err, "load course", msgNoCourse) {
		return
	}

	list, err := h.Store.ListSessions(ctx, f.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list sessions", err, "A database error occurred.", "/")
		return
	}

	activity := htmlsanitize.StripTags(f.Name)
	data := sessionsPageData{
		BaseVM:       viewdata.NewBaseVM(r, activity, "/"),
		ActivityName: activity,
		CourseName:   htmlsanitize.StripTags(course.FullName),
		Sessions:     make([]sessionRow, 0, len(list)),
	}
	for _, s := range list {
		when := "Date to be confirmed"
		if s.DatetimeKnown && len(s.Dates) > 0 {
			when = formatTime(s.Dates[0].TimeStart)
		}
		data.Sessions = append(data.Sessions, sessionRow{
			ID:         s.ID,
			When:       when,
			Capacity:   s.Capacity,
			Booked:     s.Booked,
			Waitlisted: s.Waitlisted,
			Requests:   s.Requests,
			ApproveURL: approveURL(s.ID, f.ID),
		})
	}

	h.Render(w, r, "approve_sessions", data)
}
