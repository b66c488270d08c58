package errors_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	uierrors "github.com/dalemusser/nursinghub/internal/app/features/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// safely runs fn, ignoring template panics when no engine is booted.
func safely(fn func()) {
	defer func() { _ = recover() }()
	fn()
}

func TestErrorLogger_Pages(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name   string
		call   func(*uierrors.ErrorLogger, http.ResponseWriter, *http.Request)
		status int
		level  zapcore.Level
	}{
		{"server error", func(e *uierrors.ErrorLogger, w http.ResponseWriter, r *http.Request) {
			e.LogServerError(w, r, "list halls failed", boom, "Unable to load halls.", "/dashboard")
		}, http.StatusInternalServerError, zapcore.ErrorLevel},
		{"bad request", func(e *uierrors.ErrorLogger, w http.ResponseWriter, r *http.Request) {
			e.LogBadRequest(w, r, "bad hall id", boom, "Invalid hall.", "/halls")
		}, http.StatusBadRequest, zapcore.WarnLevel},
		{"forbidden", func(e *uierrors.ErrorLogger, w http.ResponseWriter, r *http.Request) {
			e.LogForbidden(w, r, "toggle denied", boom, "You cannot change this hall.", "/halls")
		}, http.StatusForbidden, zapcore.WarnLevel},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			e := uierrors.NewErrorLogger(zap.New(core))

			req := httptest.NewRequest(http.MethodGet, "/halls", nil)
			rec := httptest.NewRecorder()
			safely(func() { tc.call(e, rec, req) })

			if rec.Code != tc.status {
				t.Errorf("status = %d, want %d", rec.Code, tc.status)
			}
			entries := logs.All()
			if len(entries) != 1 {
				t.Fatalf("logged %d entries, want 1", len(entries))
			}
			if entries[0].Level != tc.level {
				t.Errorf("level = %v, want %v", entries[0].Level, tc.level)
			}
			fields := entries[0].ContextMap()
			if fields["path"] != "/halls" {
				t.Errorf("path field = %v", fields["path"])
			}
			if fields["error"] != "boom" {
				t.Errorf("error field = %v", fields["error"])
			}
		})
	}
}

func TestErrorLogger_HTMXRetargets(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	e := uierrors.NewErrorLogger(zap.New(core))

	req := httptest.NewRequest(http.MethodPost, "/halls/3/delete", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	safely(func() {
		e.HTMXLogServerError(rec, req, "delete hall failed", errors.New("boom"), "Unable to delete.", "/halls")
	})

	if got := rec.Header().Get("HX-Retarget"); got != "#x-error" {
		t.Errorf("HX-Retarget = %q", got)
	}
	if logs.Len() != 1 || logs.All()[0].Level != zapcore.ErrorLevel {
		t.Errorf("expected one error entry, got %v", logs.All())
	}
}

func TestNewErrorLogger_NilLogger(t *testing.T) {
	e := uierrors.NewErrorLogger(nil)
	if e.Log == nil {
		t.Fatal("Log should default to a no-op logger")
	}
}
