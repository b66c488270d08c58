// internal/app/features/payments/routes.go
package payments

import (
	"github.com/dalemusser/nursinghub/internal/app/system/auth"
	"github.com/dalemusser/nursinghub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the payments routes under /payments.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Use(sm.RequireRole(authz.RolesFor(authz.SectionPayments, authz.View)...))

	r.Get("/", h.ServeList)
	r.Get("/{id}/receipt", h.HandleReceipt)
	return r
}
