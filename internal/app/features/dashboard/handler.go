// internal/app/features/dashboard/handler.go
package dashboard

import (
	"context"
	"time"

	"github.com/dalemusser/nursinghub/internal/app/features/shared/views"
	"github.com/dalemusser/nursinghub/internal/app/store/audit"
)

// ActiveCounter counts recently active signed-in sessions.
type ActiveCounter interface {
	CountActive(ctx context.Context, window time.Duration) (int64, error)
}

// FailedLogins lists recent failed sign-in attempts.
type FailedLogins interface {
	GetFailedLogins(ctx context.Context, since time.Time, limit int64) ([]audit.Event, error)
}

type Handler struct {
	views.Deps

	Active       ActiveCounter // optional; the admin card is hidden without it
	ActiveWindow time.Duration
	Failed       FailedLogins // optional, like Active

	now func() time.Time
}

func NewHandler(deps views.Deps, active ActiveCounter, failed FailedLogins, window time.Duration) *Handler {
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &Handler{
		Deps:         deps,
		Active:       active,
		ActiveWindow: window,
		Failed:       failed,
		now:          func() time.Time { return time.Now().UTC() },
	}
}
