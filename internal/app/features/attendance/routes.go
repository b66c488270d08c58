// internal/app/features/attendance/routes.go
package attendance

import (
	"github.com/dalemusser/nursinghub/internal/app/system/auth"
	"github.com/dalemusser/nursinghub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the attendance routes under /attendance.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole(authz.RolesFor(authz.SectionAttendance, authz.View)...))
		pr.Get("/", h.ServeList)
		pr.Get("/export", h.HandleExport)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole(authz.RolesFor(authz.SectionAttendance, authz.Manage)...))
		pr.Get("/new", h.ServeNew)
		pr.Post("/", h.HandleCreate)
		pr.Get("/{id}/edit", h.ServeEdit)
		pr.Post("/{id}/edit", h.HandleEdit)
		pr.Get("/{id}/delete", h.ServeDelete)
		pr.Post("/{id}/delete", h.HandleDelete)
	})

	return r
}
