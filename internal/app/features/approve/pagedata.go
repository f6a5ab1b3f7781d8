// internal/app/features/approve/pagedata.go
package approve

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/dalemusser/facetoface/internal/app/policy/approvalpolicy"
	"github.com/dalemusser/facetoface/internal/app/store/audit"
	"github.com/dalemusser/facetoface/internal/app/system/htmlsanitize"
	"github.com/dalemusser/facetoface/internal/app/system/viewdata"
	"github.com/dalemusser/facetoface/internal/domain/models"
	"go.uber.org/zap"
)

const (
	dateTimeLayout = "Mon 2 Jan 2006, 15:04"

	// fullParam carries the number of approvals refused on a full session
	// across the post-submit redirect.
	fullParam = "full"

	recentActivityLimit = 10
)

// requestRow is one pending request in the approval table.
type requestRow struct {
	UserID        int64
	Name          string
	TimeRequested string
	// FieldName is the radio group name, requests[<userid>].
	FieldName string
	// ApproveDisabled is set when the viewer may not approve this user.
	ApproveDisabled bool
}

// activityRow is one recent audit event of the session.
type activityRow struct {
	When    string
	Actor   string
	Action  string
	Summary string
}

// sessionDateRow is one line of the session's schedule.
type sessionDateRow struct {
	Start  string
	Finish string
}

type approvePageData struct {
	viewdata.BaseVM

	ActivityName string
	CourseName   string

	SessionID         int64
	BackToAllSessions int64
	SessionsURL       string
	ActionURL         string

	DatetimeKnown bool
	Dates         []sessionDateRow
	Details       template.HTML
	Capacity      int
	Booked        int
	Waitlisted    int
	Cancellations int

	// FullNotice reports approvals refused because the session was full.
	FullNotice string

	Requests []requestRow
	Activity []activityRow
}

func (h *Handler) buildApprovePage(ctx context.Context, r *http.Request, viewer approvalpolicy.Viewer, pc pageContext, back int64) (approvePageData, error) {
	activity := htmlsanitize.StripTags(pc.facetoface.Name)

	data := approvePageData{
		BaseVM:            viewdata.NewBaseVM(r, activity, "/"),
		ActivityName:      activity,
		CourseName:        htmlsanitize.StripTags(pc.course.FullName),
		SessionID:         pc.session.ID,
		BackToAllSessions: back,
		ActionURL:         "/facetoface/approve?s=" + strconv.FormatInt(pc.session.ID, 10),
		DatetimeKnown:     pc.session.DatetimeKnown,
		Details:           htmlsanitize.PrepareForDisplay(pc.session.Details),
		Capacity:          pc.session.Capacity,
		Cancellations:     len(pc.cancellations),
	}
	if back > 0 {
		data.SessionsURL = fmt.Sprintf("/facetoface/sessions?f=%d", back)
	}
	if pc.session.DatetimeKnown {
		for _, d := range pc.session.Dates {
			data.Dates = append(data.Dates, sessionDateRow{
				Start:  formatTime(d.TimeStart),
				Finish: formatTime(d.TimeFinish),
			})
		}
	}
	for _, a := range pc.attendees {
		switch {
		case a.StatusCode == models.StatusWaitlisted:
			data.Waitlisted++
		case a.StatusCode >= models.StatusBooked:
			data.Booked++
		}
	}

	data.Requests = make([]requestRow, 0, len(pc.requests))
	for _, req := range pc.requests {
		can, err := h.Policy.CanApprove(ctx, viewer, req.UserID)
		if err != nil {
			return data, err
		}
		data.Requests = append(data.Requests, requestRow{
			UserID:          req.UserID,
			Name:            htmlsanitize.StripTags(req.FullName()),
			TimeRequested:   formatTime(req.StatusTime),
			FieldName:       fmt.Sprintf("%s[%d]", requestsField, req.UserID),
			ApproveDisabled: !can,
		})
	}

	switch n := intParam(r.Form, fullParam); {
	case n == 1:
		data.FullNotice = "1 request could not be approved because the session is full."
	case n > 1:
		data.FullNotice = fmt.Sprintf("%d requests could not be approved because the session is full.", n)
	}

	data.Activity = h.recentActivity(ctx, pc)
	return data, nil
}

// recentActivity lists the latest audit events of the session. A failed
// lookup is logged and leaves the list empty.
func (h *Handler) recentActivity(ctx context.Context, pc pageContext) []activityRow {
	if h.History == nil {
		return nil
	}
	events, err := h.History.GetBySession(ctx, pc.cm.ID, pc.session.ID, recentActivityLimit)
	if err != nil {
		h.Log.Warn("approve: load recent activity",
			zap.Int64("session_id", pc.session.ID),
			zap.Error(err))
		return nil
	}

	rows := make([]activityRow, 0, len(events))
	for _, e := range events {
		row := activityRow{When: formatTime(e.Timestamp)}
		if e.ActorID != nil {
			row.Actor = "User " + strconv.FormatInt(*e.ActorID, 10)
		}
		switch e.EventType {
		case audit.EventApproveRequests:
			row.Action = "Updated requests"
			d := e.Details
			row.Summary = fmt.Sprintf("%s booked, %s waitlisted, %s declined", countDetail(d, "booked"), countDetail(d, "waitlisted"), countDetail(d, "declined"))
			if full := countDetail(d, "full"); full != "0" {
				row.Summary += ", " + full + " refused (full)"
			}
		case audit.EventAttendeesViewed:
			row.Action = "Viewed requests"
		default:
			row.Action = e.EventType
		}
		rows = append(rows, row)
	}
	return rows
}

func countDetail(details map[string]string, key string) string {
	if v, ok := details[key]; ok && v != "" {
		return v
	}
	return "0"
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateTimeLayout)
}
