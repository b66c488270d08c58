// internal/app/features/payments/handler.go
package payments

import (
	"github.com/dalemusser/nursinghub/internal/app/features/shared/views"
	"github.com/dalemusser/nursinghub/internal/app/system/auth"
	"github.com/dalemusser/nursinghub/internal/app/system/authz"
	"github.com/dalemusser/nursinghub/internal/app/system/listctl"
	"github.com/dalemusser/nursinghub/internal/domain/models"
)

const basePath = "/payments"

// Handler serves the payments ledger. Payments are recorded by the payment
// gateway, so the dashboard only lists them and hands out receipts.
type Handler struct {
	views.Deps
}

// NewHandler constructs a payments Handler.
func NewHandler(deps views.Deps) *Handler {
	return &Handler{Deps: deps}
}

type paymentController = listctl.Controller[models.Payment, struct{}]

func (h *Handler) controller(u *auth.Session) *paymentController {
	return listctl.Get(h.Registry, u.ID, authz.SectionPayments, func() *paymentController {
		backend := &listctl.REST[models.Payment, struct{}]{Client: h.Client(u), Path: basePath}
		return listctl.New[models.Payment, struct{}](backend, listctl.Options[models.Payment]{
			Name:     "payments",
			PageSize: h.PageSize,
			ID:       func(p models.Payment) string { return p.ID.String() },
			Fallback: "Unable to load payments. Please try again.",
			Logger:   h.Log,
		})
	})
}
