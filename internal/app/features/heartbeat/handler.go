// internal/app/features/heartbeat/handler.go
package heartbeat

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dalemusser/nursinghub/internal/app/system/auth"
	"github.com/dalemusser/nursinghub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// ActivityStore is the part of the sessions store the heartbeat writes to.
type ActivityStore interface {
	UpdateLastActive(ctx context.Context, id, currentPage string) (bool, error)
	Reopen(ctx context.Context, id, currentPage string) (bool, error)
}

// Handler handles heartbeat requests for activity tracking.
type Handler struct {
	Store ActivityStore
	Log   *zap.Logger
}

// NewHandler creates a new heartbeat handler.
func NewHandler(store ActivityStore, logger *zap.Logger) *Handler {
	return &Handler{Store: store, Log: logger}
}

// heartbeatRequest is the JSON body for the heartbeat endpoint.
type heartbeatRequest struct {
	Page string `json:"page"`
}

// ServeHeartbeat handles POST /heartbeat.
// Updates the LastActiveAt timestamp for the user's current session.
// If the session was closed for inactivity while the tab stayed open, it is
// reopened. The response is always 204; the page script ignores it.
func (h *Handler) ServeHeartbeat(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	var req heartbeatRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		_ = json.NewDecoder(r.Body).Decode(&req) // page is optional
	} else {
		req.Page = r.FormValue("page")
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	updated, err := h.Store.UpdateLastActive(ctx, u.ID, req.Page)
	if err != nil {
		h.Log.Warn("failed to update session last_active_at",
			zap.Error(err),
			zap.String("session_id", u.ID))
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if !updated {
		reopened, err := h.Store.Reopen(ctx, u.ID, req.Page)
		switch {
		case err != nil:
			h.Log.Warn("failed to reopen activity session", zap.Error(err), zap.String("session_id", u.ID))
		case reopened:
			h.Log.Info("reopened activity session after inactivity timeout",
				zap.String("user_id", u.UserID),
				zap.String("session_id", u.ID))
		}
	}

	w.WriteHeader(http.StatusNoContent)
}
