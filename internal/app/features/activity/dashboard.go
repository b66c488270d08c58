// internal/app/features/activity/dashboard.go
package activity

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/nursinghub/internal/app/system/authz"
	"github.com/dalemusser/nursinghub/internal/app/system/normalize"
	"github.com/dalemusser/nursinghub/internal/app/system/timeouts"
	"github.com/dalemusser/nursinghub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/text"
)

// load fills the dashboard rows. Counts cover every open session; the
// status filter and search only narrow the rows.
func (h *Handler) load(ctx context.Context, r *http.Request) (dashboardData, error) {
	data := dashboardData{
		StatusFilter: query.Get(r, "status"),
		SearchQuery:  normalize.QueryParam(query.Get(r, "q")),
	}
	folded := text.Fold(data.SearchQuery)
	switch Status(data.StatusFilter) {
	case StatusOnline, StatusIdle:
	default:
		data.StatusFilter = "all"
	}

	open, err := h.Sessions.ListOpen(ctx, maxOnline)
	if err != nil {
		return data, err
	}

	now := h.now()
	data.Rows = make([]sessionRow, 0, len(open))
	for _, s := range open {
		row := rowFrom(s, now)
		if row.Status == StatusOnline {
			data.OnlineCount++
		} else {
			data.IdleCount++
		}
		if data.StatusFilter != "all" && string(row.Status) != data.StatusFilter {
			continue
		}
		if folded != "" && !strings.Contains(text.Fold(row.Email), folded) && !strings.Contains(text.Fold(row.UserID), folded) {
			continue
		}
		data.Rows = append(data.Rows, row)
	}
	return data, nil
}

// ServeDashboard renders the "Who's Online" page.
// GET /activity
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	data, err := h.load(ctx, r)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list open sessions failed", err, "A database error occurred.", "/dashboard")
		return
	}
	data.BaseVM = viewdata.NewBaseVM(r, "Who's Online", "/dashboard").InSection(authz.SectionActivity)
	templates.Render(w, r, "activity_dashboard", &data)
}

// ServeOnlineTable renders just the table, for the page's periodic refresh.
// GET /activity/online-table
func (h *Handler) ServeOnlineTable(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	data, err := h.load(ctx, r)
	if err != nil {
		h.ErrLog.HTMXLogServerError(w, r, "list open sessions failed", err, "Unable to refresh.", "/activity")
		return
	}
	data.BaseVM = viewdata.NewBaseVM(r, "Who's Online", "/dashboard")
	templates.RenderSnippet(w, "activity_online_table", &data)
}
