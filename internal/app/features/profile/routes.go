// internal/app/features/profile/routes.go
package profile

import (
	"github.com/dalemusser/nursinghub/internal/app/system/auth"
	"github.com/dalemusser/nursinghub/internal/app/system/authz"
	"github.com/dalemusser/nursinghub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the profile routes under /profile.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole(authz.RolesFor(authz.SectionProfile, authz.Manage)...))
		pr.Get("/", h.ServeProfile)
		pr.Post("/", h.HandleProfile)
	})

	// O'Level results belong to applicants only.
	r.Route("/results", func(rr chi.Router) {
		rr.Use(sm.RequireRole(models.RoleStudent))
		rr.Get("/new", h.ServeNewResult)
		rr.Post("/", h.HandleCreateResult)
		rr.Get("/{id}/edit", h.ServeEditResult)
		rr.Post("/{id}/edit", h.HandleEditResult)
		rr.Get("/{id}/delete", h.ServeDeleteResult)
		rr.Post("/{id}/delete", h.HandleDeleteResult)
	})

	return r
}
