// internal/app/features/errors/logger.go
package errors

import (
	"net/http"

	"github.com/dalemusser/facetoface/internal/app/system/authz"
	"go.uber.org/zap"
)

// ErrorLogger logs a failure with request context and then renders the
// matching error page. Handlers hold one as ErrLog.
type ErrorLogger struct {
	Log *zap.Logger
}

// NewErrorLogger creates an ErrorLogger that writes to logger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{Log: logger}
}

// LogServerError logs logMsg with err at error level and renders a 500 page
// showing userMsg.
func (el *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	el.Log.Error(logMsg, el.fields(r, err)...)
	RenderServerError(w, r, userMsg, backURL)
}

// LogBadRequest logs logMsg with err at warn level and renders a 400 page
// showing userMsg.
func (el *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	el.Log.Warn(logMsg, el.fields(r, err)...)
	RenderBadRequest(w, r, userMsg, backURL)
}

// LogNotFound logs at info level and renders a 404 page.
func (el *ErrorLogger) LogNotFound(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	el.Log.Info(logMsg, el.fields(r, err)...)
	RenderNotFound(w, r, userMsg, backURL)
}

func (el *ErrorLogger) fields(r *http.Request, err error) []zap.Field {
	fields := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	}
	if _, _, uid, ok := authz.UserCtx(r); ok {
		fields = append(fields, zap.Int64("user_id", uid))
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	return fields
}
