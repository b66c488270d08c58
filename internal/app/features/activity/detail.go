// internal/app/features/activity/detail.go
package activity

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/nursinghub/internal/app/system/authz"
	"github.com/dalemusser/nursinghub/internal/app/system/timeouts"
	"github.com/dalemusser/nursinghub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	historyLimit = 50 // sessions shown for one user
	eventLimit   = 25 // audit events shown for one user
)

// ServeUserDetail renders the session history of one user.
// GET /activity/user/{userID}
func (h *Handler) ServeUserDetail(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(chi.URLParam(r, "userID"))
	if userID == "" {
		h.ErrLog.LogBadRequest(w, r, "missing user id", nil, "Invalid user.", "/activity")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Sessions.GetByUser(ctx, userID, historyLimit)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "fetch user sessions failed", err, "A database error occurred.", "/activity")
		return
	}

	now := h.now()
	data := detailData{UserID: userID, Sessions: make([]sessionRow, 0, len(list))}
	var closedSecs int64
	for _, s := range list {
		if data.Email == "" {
			data.Email, data.Role = s.Email, s.Role
		}
		if !s.Open() {
			closedSecs += s.DurationSecs
		}
		data.Sessions = append(data.Sessions, rowFrom(s, now))
	}
	data.Total = formatMinutes(int(closedSecs / 60))

	if h.Events != nil {
		events, err := h.Events.GetByUser(ctx, userID, eventLimit)
		if err != nil {
			h.Log.Warn("fetch user audit events failed", zap.String("user_id", userID), zap.Error(err))
		}
		data.Events = events
	}
	data.BaseVM = viewdata.NewBaseVM(r, "User Activity", "/activity").InSection(authz.SectionActivity)

	templates.Render(w, r, "activity_user", &data)
}
