package auditlog_test

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/nursinghub/internal/app/store/audit"
	"github.com/dalemusser/nursinghub/internal/app/system/auditlog"
	"github.com/dalemusser/nursinghub/internal/app/system/auth"
	"github.com/dalemusser/nursinghub/internal/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_NilLogger(t *testing.T) {
	var logger *auditlog.Logger
	ctx, cancel := testutil.TestContext()
	defer cancel()
	req := httptest.NewRequest("GET", "/", nil)

	logger.Log(ctx, audit.Event{EventType: "test"})
	logger.LoginSuccess(ctx, req, &auth.Session{ID: "s1", UserID: "1", Role: "ADMIN"})
	logger.Logout(ctx, req)
	logger.Mutation(ctx, req, audit.EventRecordDeleted, "halls", "7", nil)
}

func TestLogger_LogOnlyDestination(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := auditlog.New(nil, zap.New(core), auditlog.Config{Auth: auditlog.Log, Admin: auditlog.Off})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	req := httptest.NewRequest("POST", "/halls/7/delete", nil)
	req.RemoteAddr = "10.0.0.9:5555"
	req = auth.WithTestUser(req, &auth.Session{ID: "s1", UserID: "42", Role: "admin", AccessToken: "t"})

	logger.Logout(ctx, req)
	logger.Mutation(ctx, req, audit.EventRecordDeleted, "halls", "7", nil)

	if logs.Len() != 1 {
		t.Fatalf("expected 1 log entry (admin is off), got %d", logs.Len())
	}
	entry := logs.All()[0]
	fields := entry.ContextMap()
	if fields["event_type"] != audit.EventLogout {
		t.Errorf("event_type = %v", fields["event_type"])
	}
	if fields["user_id"] != "42" || fields["role"] != "ADMIN" {
		t.Errorf("user fields = %v / %v", fields["user_id"], fields["role"])
	}
	if fields["ip"] != "10.0.0.9" {
		t.Errorf("ip = %v", fields["ip"])
	}
}

func TestLogger_FailuresLogAtWarn(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := auditlog.New(nil, zap.New(core), auditlog.Config{Auth: auditlog.Log, Admin: auditlog.Log})
	ctx, cancel := testutil.TestContext()
	defer cancel()
	req := httptest.NewRequest("POST", "/halls", nil)

	logger.Mutation(ctx, req, audit.EventRecordCreated, "halls", "", errors.New("name taken"))

	if logs.Len() != 1 {
		t.Fatalf("got %d entries", logs.Len())
	}
	e := logs.All()[0]
	if e.Level != zapcore.WarnLevel {
		t.Errorf("level = %v, want warn", e.Level)
	}
	if e.ContextMap()["failure_reason"] != "name taken" {
		t.Errorf("failure_reason = %v", e.ContextMap()["failure_reason"])
	}
}

func TestLogger_ConfigOff(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Auth: auditlog.Off, Admin: auditlog.Off})
	logger.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		UserID:    "1",
		Success:   true,
	})

	events, err := store.GetByUser(ctx, "1", 10)
	if err != nil {
		t.Fatalf("GetByUser failed: %v", err)
	}
	if len(events) != 0 {
		t.Error("expected no events when config is 'off'")
	}
}

func TestLogger_ConfigDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Auth: auditlog.DB, Admin: auditlog.DB})
	req := httptest.NewRequest("POST", "/login", nil)
	logger.LoginSuccess(ctx, req, &auth.Session{ID: "sess-1", UserID: "77", Role: "STAFF", Email: "s@x.ng"})

	events, err := store.GetByUser(ctx, "77", 10)
	if err != nil {
		t.Fatalf("GetByUser failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].SessionID != "sess-1" || events[0].Role != "STAFF" {
		t.Errorf("event = %+v", events[0])
	}
}
