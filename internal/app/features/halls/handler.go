// internal/app/features/halls/handler.go
package halls

import (
	"github.com/dalemusser/nursinghub/internal/app/features/shared/views"
	"github.com/dalemusser/nursinghub/internal/app/system/auth"
	"github.com/dalemusser/nursinghub/internal/app/system/authz"
	"github.com/dalemusser/nursinghub/internal/app/system/listctl"
	"github.com/dalemusser/nursinghub/internal/domain/models"
)

const basePath = "/halls"

// Handler serves the halls section: list, search, create, edit, delete and
// the active toggle.
type Handler struct {
	views.Deps
}

// NewHandler constructs a halls Handler.
func NewHandler(deps views.Deps) *Handler {
	return &Handler{Deps: deps}
}

type hallController = listctl.Controller[models.Hall, models.HallDraft]

// controller returns u's halls controller, creating it on first use.
func (h *Handler) controller(u *auth.Session) *hallController {
	return listctl.Get(h.Registry, u.ID, authz.SectionHalls, func() *hallController {
		backend := &listctl.REST[models.Hall, models.HallDraft]{
			Client:      h.Client(u),
			Path:        basePath,
			StatusField: "is_active",
		}
		return listctl.New[models.Hall, models.HallDraft](backend, listctl.Options[models.Hall]{
			Name:     "halls",
			PageSize: h.PageSize,
			ID:       func(x models.Hall) string { return x.ID.String() },
			Status:   func(x models.Hall) bool { return x.IsActive.Bool() },
			WithStatus: func(x models.Hall, on bool) models.Hall {
				x.IsActive = models.Flag(on)
				return x
			},
			Fallback: "Unable to load halls. Please try again.",
			Logger:   h.Log,
		})
	})
}
