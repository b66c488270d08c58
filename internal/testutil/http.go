package testutil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/nursinghub/internal/app/system/auth"
	"github.com/dalemusser/nursinghub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionKey is a session secret long enough for NewSessionManager.
const SessionKey = "test-session-key-must-be-32-chars-long"

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok || rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// NewSessionManager returns a session manager for handler tests.
func NewSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager(SessionKey, "test-session", "", 24*time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}
	return sm
}

func testSession(userID, first, last, email, role string) *auth.Session {
	now := time.Now().UTC()
	return &auth.Session{
		ID:          uuid.NewString(),
		UserID:      userID,
		FirstName:   first,
		LastName:    last,
		Email:       email,
		Role:        role,
		AccessToken: "test-token-" + userID,
		ExpiresAt:   now.Add(time.Hour),
		LoginAt:     now,
	}
}

// AdminUser returns a signed-in ADMIN session.
func AdminUser() *auth.Session {
	return testSession("1", "Test", "Admin", "admin@test.com", models.RoleAdmin)
}

// StaffUser returns a signed-in STAFF session.
func StaffUser() *auth.Session {
	return testSession("2", "Test", "Staff", "staff@test.com", models.RoleStaff)
}

// StudentUser returns a signed-in STUDENT session with an application type.
func StudentUser() *auth.Session {
	s := testSession("3", "Test", "Student", "student@test.com", models.RoleStudent)
	s.ApplicationType = "BNSC"
	return s
}

// VerificationUser returns a signed-in VERIFICATION session.
func VerificationUser() *auth.Session {
	return testSession("4", "Test", "Verifier", "verify@test.com", models.RoleVerification)
}

// WithUser adds a user to the request context for testing authenticated handlers.
// This bypasses the session middleware and injects the user directly.
func WithUser(r *http.Request, u *auth.Session) *http.Request {
	return auth.WithTestUser(r, u)
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// HTMX marks r as an HTMX request swapping target.
func HTMX(r *http.Request, target string) *http.Request {
	r.Header.Set("HX-Request", "true")
	if target != "" {
		r.Header.Set("HX-Target", target)
	}
	return r
}
