// internal/app/features/logout/handler.go
package logout

import (
	"context"
	"net/http"

	"github.com/dalemusser/nursinghub/internal/app/features/shared/views"
	"github.com/dalemusser/nursinghub/internal/app/store/sessions"
	"github.com/dalemusser/nursinghub/internal/app/system/auth"
	"github.com/dalemusser/nursinghub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

type Handler struct {
	views.Deps
}

func NewHandler(deps views.Deps) *Handler {
	return &Handler{Deps: deps}
}

// HandleLogout handles POST /logout. The API token is revoked on a best-effort
// basis; the local session is always cleared.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if u, ok := auth.CurrentUser(r); ok {
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		if err := h.Client(u).Post(ctx, "/auth/logout", nil, nil); err != nil {
			h.Log.Debug("api logout failed", zap.String("session_id", u.ID), zap.Error(err))
		}
		cancel()

		h.Audit.Logout(r.Context(), r)
		h.Registry.Drop(u.ID)
		if h.Activity != nil {
			h.Activity.End(r.Context(), u.ID, sessions.EndLogout)
		}
	}

	if err := h.Sessions.SignOut(w, r); err != nil {
		h.Log.Error("logout: clear session", zap.Error(err))
	}

	// HTMX handling: use HX-Redirect to force a client-side navigation.
	if r.Header.Get("HX-Request") != "" {
		w.Header().Set("HX-Redirect", "/login")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
