// internal/app/features/errors/logger.go
package errors

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ErrorLogger logs handler failures with request context and renders a
// friendly page (or an HTMX fragment) in place of the failed response.
//
//	if err != nil {
//		h.ErrLog.LogServerError(w, r, "list halls failed", err, "Unable to load halls.", "/dashboard")
//		return
//	}
type ErrorLogger struct {
	Log *zap.Logger
}

// NewErrorLogger returns an ErrorLogger writing to logger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ErrorLogger{Log: logger}
}

// LogServerError logs at error level and renders a 500 page.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.log(zap.ErrorLevel, r, msg, err, http.StatusInternalServerError)
	render(w, r, http.StatusInternalServerError, "Something went wrong", userMsg, backURL)
}

// LogBadRequest logs at warn level and renders a 400 page.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.log(zap.WarnLevel, r, msg, err, http.StatusBadRequest)
	render(w, r, http.StatusBadRequest, "Request could not be completed", userMsg, backURL)
}

// LogForbidden logs at warn level and renders a 403 page.
func (e *ErrorLogger) LogForbidden(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.log(zap.WarnLevel, r, msg, err, http.StatusForbidden)
	RenderForbidden(w, r, userMsg, backURL)
}

// HTMXLogServerError is LogServerError for HTMX requests: the fragment
// replaces the swap target instead of rendering a whole page.
func (e *ErrorLogger) HTMXLogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.log(zap.ErrorLevel, r, msg, err, http.StatusInternalServerError)
	fragment(w, userMsg, backURL)
}

// HTMXLogBadRequest is LogBadRequest for HTMX requests.
func (e *ErrorLogger) HTMXLogBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.log(zap.WarnLevel, r, msg, err, http.StatusBadRequest)
	fragment(w, userMsg, backURL)
}

// HTMXLogForbidden is LogForbidden for HTMX requests.
func (e *ErrorLogger) HTMXLogForbidden(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.log(zap.WarnLevel, r, msg, err, http.StatusForbidden)
	fragment(w, userMsg, backURL)
}

func (e *ErrorLogger) log(level zapcore.Level, r *http.Request, msg string, err error, status int) {
	fields := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	if ce := e.Log.Check(level, msg); ce != nil {
		ce.Write(fields...)
	}
}

type fragmentData struct {
	Message string
	BackURL string
}

// fragment answers 200 so HTMX swaps it; the retarget headers move the
// alert into the page's error slot.
func fragment(w http.ResponseWriter, userMsg, backURL string) {
	w.Header().Set("HX-Retarget", "#x-error")
	w.Header().Set("HX-Reswap", "innerHTML")
	templates.RenderSnippet(w, "error_fragment", fragmentData{Message: userMsg, BackURL: backURL})
}
