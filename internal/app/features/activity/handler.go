// internal/app/features/activity/handler.go
package activity

import (
	"context"
	"time"

	uierrors "github.com/dalemusser/nursinghub/internal/app/features/errors"
	"github.com/dalemusser/nursinghub/internal/app/store/audit"
	"github.com/dalemusser/nursinghub/internal/app/store/sessions"
	"go.uber.org/zap"
)

// SessionLister is the read side of sessions.Store used by these pages.
type SessionLister interface {
	ListOpen(ctx context.Context, limit int64) ([]sessions.Session, error)
	ListSince(ctx context.Context, since time.Time, limit int64) ([]sessions.Session, error)
	GetByUser(ctx context.Context, userID string, limit int64) ([]sessions.Session, error)
}

// UserEvents reads the audit trail of one user.
type UserEvents interface {
	GetByUser(ctx context.Context, userID string, limit int64) ([]audit.Event, error)
}

// Handler owns the admin activity pages.
type Handler struct {
	Sessions SessionLister
	Events   UserEvents // optional
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger
	now      func() time.Time
}

// NewHandler creates a new activity Handler.
func NewHandler(store SessionLister, events UserEvents, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Sessions: store,
		Events:   events,
		ErrLog:   errLog,
		Log:      logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}
