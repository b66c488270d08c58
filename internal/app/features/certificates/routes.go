// internal/app/features/certificates/routes.go
package certificates

import (
	"github.com/dalemusser/nursinghub/internal/app/system/auth"
	"github.com/dalemusser/nursinghub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the certificates routes under /certificates.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole(authz.RolesFor(authz.SectionCertificates, authz.View)...))
		pr.Get("/", h.ServeList)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole(authz.RolesFor(authz.SectionCertificates, authz.Manage)...))
		pr.Get("/new", h.ServeNew)
		pr.Post("/", h.HandleCreate)
		pr.Get("/{id}/edit", h.ServeEdit)
		pr.Post("/{id}/edit", h.HandleEdit)
		pr.Get("/{id}/delete", h.ServeDelete)
		pr.Post("/{id}/delete", h.HandleDelete)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole(authz.RolesFor(authz.SectionCertificates, authz.Toggle)...))
		pr.Get("/{id}/toggle", h.ServeToggle)
		pr.Post("/{id}/toggle", h.HandleToggle)
	})

	return r
}
