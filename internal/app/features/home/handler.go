// internal/app/features/home/handler.go
package home

import (
	"context"
	"net/http"
	"strconv"

	uierrors "github.com/dalemusser/facetoface/internal/app/features/errors"
	"github.com/dalemusser/facetoface/internal/app/system/authz"
	"github.com/dalemusser/facetoface/internal/app/system/htmlsanitize"
	"github.com/dalemusser/facetoface/internal/app/system/timeouts"
	"github.com/dalemusser/facetoface/internal/app/system/viewdata"
	"github.com/dalemusser/facetoface/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// Activities lists the activities shown on the landing page.
type Activities interface {
	ListActivities(ctx context.Context) ([]models.ActivityListing, error)
}

// RenderFunc renders a named template.
type RenderFunc func(w http.ResponseWriter, r *http.Request, name string, data any)

// Handler holds dependencies needed to serve the home page.
type Handler struct {
	Activities Activities
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger
	Render     RenderFunc
}

func NewHandler(activities Activities, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Activities: activities,
		ErrLog:     errLog,
		Log:        logger,
		Render: func(w http.ResponseWriter, r *http.Request, name string, data any) {
			templates.Render(w, r, name, data)
		},
	}
}

type activityRow struct {
	ID          int64
	CourseName  string
	Name        string
	Sessions    int
	SessionsURL string
}

type homeData struct {
	viewdata.BaseVM
	IsStaff    bool
	Activities []activityRow
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET / – landing                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeRoot lists the activities for staff. Anonymous visitors get the
// welcome text and a sign-in link.
func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	data := homeData{BaseVM: viewdata.NewBaseVM(r, "Welcome", "/")}

	if authz.HasAnyRole(r, authz.StaffRoles...) {
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		defer cancel()

		data.IsStaff = true
		list, err := h.Activities.ListActivities(ctx)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "list activities failed", err, "Could not load activities.", "/")
			return
		}
		for _, a := range list {
			data.Activities = append(data.Activities, activityRow{
				ID:          a.ID,
				CourseName:  htmlsanitize.StripTags(a.CourseName),
				Name:        htmlsanitize.StripTags(a.Name),
				Sessions:    a.Sessions,
				SessionsURL: "/facetoface/sessions?f=" + strconv.FormatInt(a.ID, 10),
			})
		}
	}

	h.Render(w, r, "home", data)
}
