// internal/app/features/login/handler.go
package login

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/facetoface/internal/app/features/errors"
	userstore "github.com/dalemusser/facetoface/internal/app/store/users"
	"github.com/dalemusser/facetoface/internal/app/system/auditlog"
	"github.com/dalemusser/facetoface/internal/app/system/auth"
	"github.com/dalemusser/facetoface/internal/app/system/authutil"
	"github.com/dalemusser/facetoface/internal/app/system/ratelimit"
	"github.com/dalemusser/facetoface/internal/app/system/timeouts"
	"github.com/dalemusser/facetoface/internal/app/system/viewdata"
	"github.com/dalemusser/facetoface/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.uber.org/zap"
)

type Handler struct {
	Users      *userstore.Store
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	AuditLog   *auditlog.Logger
	Limiter    *ratelimit.LoginLimiter

	Render func(w http.ResponseWriter, r *http.Request, name string, data any)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Template-data                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

type loginFormData struct {
	viewdata.BaseVM
	Error     string
	LoginID   string // what the user typed
	ReturnURL string
}

func NewHandler(users *userstore.Store, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:      users,
		Log:        logger,
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		AuditLog:   audit,
		Limiter:    ratelimit.NewLoginLimiter(),
		Render: func(w http.ResponseWriter, r *http.Request, name string, data any) {
			templates.Render(w, r, name, data)
		},
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /login                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	h.Render(w, r, "login", loginFormData{
		BaseVM:    viewdata.NewBaseVM(r, "Login", "/"),
		ReturnURL: query.Get(r, "return"),
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/login")
		return
	}

	loginID := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")
	if loginID == "" || password == "" {
		h.renderFormWithError(w, r, "Please enter your username and password.", loginID)
		return
	}

	if h.Limiter != nil {
		if ok, msg := h.Limiter.Check(r, loginID); !ok {
			h.Log.Warn("login throttled", zap.String("login_id", loginID), zap.String("ip", ratelimit.RemoteIP(r)))
			w.WriteHeader(http.StatusTooManyRequests)
			h.renderFormWithError(w, r, msg, loginID)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, loginID)
	if errors.Is(err, userstore.ErrNotFound) {
		h.AuditLog.LoginFailedUserNotFound(ctx, r, loginID)
		h.renderFormWithError(w, r, "Invalid username or password.", loginID)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error loading user", err, "A database error occurred.", "/login")
		return
	}

	if !authutil.CheckPassword(password, u.PasswordHash) {
		h.AuditLog.LoginFailedWrongPassword(ctx, r, u.ID, u.Username)
		h.renderFormWithError(w, r, "Invalid username or password.", loginID)
		return
	}

	if u.Status != models.UserActive {
		h.AuditLog.LoginFailedUserDisabled(ctx, r, u.ID, u.Username)
		h.renderFormWithError(w, r, "This account has been suspended.", loginID)
		return
	}

	if _, err := h.SessionMgr.SignIn(w, r, auth.SessionUser{
		ID:      u.ID,
		Name:    u.FullName(),
		LoginID: u.Username,
		Role:    u.Role,
	}); err != nil {
		h.Log.Error("session save failed", zap.Error(err), zap.Int64("user_id", u.ID))
		h.renderFormWithError(w, r, "Unable to create session. Please try again.", loginID)
		return
	}

	h.AuditLog.LoginSuccess(ctx, r, u.ID, u.Username)
	if h.Limiter != nil {
		h.Limiter.Succeeded(loginID)
	}

	dest := urlutil.SafeReturn(r.FormValue("return"), "", "/")
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| helper: render the form with an error                                       |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) renderFormWithError(w http.ResponseWriter, r *http.Request, msg, loginID string) {
	// From POST, "return" will be in the form; from GET, we might rely on the query.
	ret := strings.TrimSpace(r.FormValue("return"))
	if ret == "" {
		ret = query.Get(r, "return")
	}

	h.Render(w, r, "login", loginFormData{
		BaseVM:    viewdata.NewBaseVM(r, "Login", "/"),
		Error:     msg,
		LoginID:   loginID,
		ReturnURL: ret,
	})
}
