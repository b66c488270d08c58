// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"

	"github.com/dalemusser/nursinghub/internal/app/store/audit"
	"github.com/dalemusser/nursinghub/internal/app/system/auth"
	"github.com/dalemusser/nursinghub/internal/app/system/ratelimit"
	"go.uber.org/zap"
)

// Destinations for a category.
const (
	All = "all" // MongoDB + zap
	DB  = "db"  // MongoDB only
	Log = "log" // zap only
	Off = "off"
)

// Config holds audit logging configuration.
type Config struct {
	// Auth controls logging for login, logout and registration events.
	Auth string
	// Admin controls logging for record mutations and exports.
	Admin string
}

// Logger writes audit events to MongoDB (via audit.Store) and/or zap.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger. store may be nil, in which case "db"
// destinations are skipped.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	if zapLog == nil {
		zapLog = zap.NewNop()
	}
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.UserID != "" {
		fields = append(fields, zap.String("user_id", event.UserID))
	}
	if event.Role != "" {
		fields = append(fields, zap.String("role", event.Role))
	}
	if event.Resource != "" {
		fields = append(fields, zap.String("resource", event.Resource))
	}
	if event.RecordID != "" {
		fields = append(fields, zap.String("record_id", event.RecordID))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// A nil Logger is a no-op.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryAdmin:
		setting = l.config.Admin
	}
	if setting == "" {
		setting = All
	}
	if setting == Off {
		return
	}

	if setting == All || setting == Log {
		l.logToZap(event)
	}

	if (setting == All || setting == DB) && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType))
		}
	}
}

// fromRequest fills the request context and the signed-in user, if any.
func fromRequest(r *http.Request, e audit.Event) audit.Event {
	e.IP = ratelimit.ClientIP(r)
	e.UserAgent = r.UserAgent()
	if u, ok := auth.CurrentUser(r); ok {
		if e.UserID == "" {
			e.UserID = u.UserID
		}
		if e.Role == "" {
			e.Role = u.RoleName()
		}
		if e.SessionID == "" {
			e.SessionID = u.ID
		}
	}
	return e
}

// --- Authentication Events ---

// LoginSuccess logs a successful login for the freshly created session.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, s *auth.Session) {
	if s == nil {
		return
	}
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		UserID:    s.UserID,
		Role:      s.RoleName(),
		SessionID: s.ID,
		Success:   true,
		Details:   map[string]string{"email": s.Email},
	}))
}

// LoginFailed logs a login the API rejected.
func (l *Logger) LoginFailed(ctx context.Context, r *http.Request, email, reason string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailed,
		Success:       false,
		FailureReason: reason,
		Details:       map[string]string{"attempted_email": email},
	}))
}

// LoginFailedRateLimit logs a login blocked before reaching the API.
func (l *Logger) LoginFailedRateLimit(ctx context.Context, r *http.Request, email string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedRateLimit,
		Success:       false,
		FailureReason: "rate limit exceeded",
		Details:       map[string]string{"attempted_email": email},
	}))
}

// Logout logs a user-initiated sign out.
func (l *Logger) Logout(ctx context.Context, r *http.Request) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLogout,
		Success:   true,
	}))
}

// SessionExpired logs a sign out forced by the API rejecting the token.
func (l *Logger) SessionExpired(ctx context.Context, r *http.Request) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventSessionExpired,
		Success:       false,
		FailureReason: "token rejected by api",
	}))
}

// Registered logs a new applicant registration.
func (l *Logger) Registered(ctx context.Context, r *http.Request, email, applicationType string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventRegistered,
		Success:   true,
		Details: map[string]string{
			"email":            email,
			"application_type": applicationType,
		},
	}))
}

// --- Admin Events ---

// Mutation logs a create, update, delete or status change on a resource.
// err is the outcome; a nil err is a success.
func (l *Logger) Mutation(ctx context.Context, r *http.Request, eventType, resource, recordID string, err error) {
	e := audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: eventType,
		Resource:  resource,
		RecordID:  recordID,
		Success:   err == nil,
	}
	if err != nil {
		e.FailureReason = err.Error()
	}
	l.Log(ctx, fromRequest(r, e))
}

// ProfileUpdated logs a change to the signed-in user's own profile.
func (l *Logger) ProfileUpdated(ctx context.Context, r *http.Request, err error) {
	l.Mutation(ctx, r, audit.EventProfileUpdated, "profile", "", err)
}

// ExportDownloaded logs a PDF export or receipt download.
func (l *Logger) ExportDownloaded(ctx context.Context, r *http.Request, resource, recordID string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventExportDownloaded,
		Resource:  resource,
		RecordID:  recordID,
		Success:   true,
	}))
}
