// internal/app/features/jamb/routes.go
package jamb

import (
	"github.com/dalemusser/nursinghub/internal/app/system/auth"
	"github.com/dalemusser/nursinghub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the JAMB lookup under /jamb.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Use(sm.RequireRole(authz.RolesFor(authz.SectionJamb, authz.View)...))

	r.Get("/", h.ServeForm)
	r.Post("/", h.HandleValidate)
	return r
}
