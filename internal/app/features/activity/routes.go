// internal/app/features/activity/routes.go
package activity

import (
	"github.com/dalemusser/nursinghub/internal/app/system/auth"
	"github.com/dalemusser/nursinghub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes returns the router for the activity pages. Admins only.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(authz.RolesFor(authz.SectionActivity, authz.View)...))

		// Real-time dashboard ("Who's Online")
		pr.Get("/", h.ServeDashboard)

		// HTMX partial for refreshing the online status table
		pr.Get("/online-table", h.ServeOnlineTable)

		// Session history of one user
		pr.Get("/user/{userID}", h.ServeUserDetail)

		// CSV export of recent sessions
		pr.Get("/export/sessions.csv", h.ServeSessionsCSV)
	})

	return r
}
