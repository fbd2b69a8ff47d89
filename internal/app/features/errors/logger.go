// internal/app/features/errors/logger.go
package errors

import (
	"net/http"

	"github.com/dalemusser/lessonhub/internal/app/system/auth"
	"go.uber.org/zap"
)

// ErrorLogger logs a handler failure with request context and then answers
// the client with a friendly page (or a small HTMX-friendly body).
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger wraps logger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ErrorLogger{log: logger}
}

func (e *ErrorLogger) fields(r *http.Request, err error) []zap.Field {
	f := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	}
	if u, ok := auth.CurrentUser(r); ok {
		f = append(f, zap.String("user_id", u.ID), zap.String("role", u.Role))
	}
	if err != nil {
		f = append(f, zap.Error(err))
	}
	return f
}

// LogServerError logs at error level and renders a 500 page.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.log.Error(msg, e.fields(r, err)...)
	RenderError(w, r, http.StatusInternalServerError, userMsg, backURL)
}

// LogBadRequest logs at warn level and renders a 400 page.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.log.Warn(msg, e.fields(r, err)...)
	RenderError(w, r, http.StatusBadRequest, userMsg, backURL)
}

// LogForbidden logs at info level and renders the access denied page.
func (e *ErrorLogger) LogForbidden(w http.ResponseWriter, r *http.Request, msg, userMsg, backURL string) {
	e.log.Info(msg, e.fields(r, nil)...)
	RenderForbidden(w, r, userMsg, backURL)
}

// HTMXLogServerError logs like LogServerError but answers with a plain body
// that an HTMX swap can show inline.
func (e *ErrorLogger) HTMXLogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.log.Error(msg, e.fields(r, err)...)
	htmxError(w, r, http.StatusInternalServerError, userMsg, backURL)
}

// HTMXLogBadRequest is the 400 counterpart of HTMXLogServerError.
func (e *ErrorLogger) HTMXLogBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.log.Warn(msg, e.fields(r, err)...)
	htmxError(w, r, http.StatusBadRequest, userMsg, backURL)
}

func htmxError(w http.ResponseWriter, r *http.Request, status int, userMsg, backURL string) {
	if r.Header.Get("HX-Request") != "true" {
		RenderError(w, r, status, userMsg, backURL)
		return
	}
	w.Header().Set("HX-Reswap", "none")
	w.Header().Set("HX-Trigger", `{"showError":true}`)
	http.Error(w, userMsg, status)
}
