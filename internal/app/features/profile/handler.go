// internal/app/features/profile/handler.go
package profile

import (
	"github.com/dalemusser/nursinghub/internal/app/features/shared/views"
	"github.com/dalemusser/nursinghub/internal/app/system/auth"
	"github.com/dalemusser/nursinghub/internal/app/system/authz"
	"github.com/dalemusser/nursinghub/internal/app/system/listctl"
	"github.com/dalemusser/nursinghub/internal/domain/models"
)

const (
	basePath    = "/profile"
	resultsPath = "/profile/results"
)

// Handler serves the signed-in user's own profile and, for applicants, their
// O'Level results.
type Handler struct {
	views.Deps
}

// NewHandler constructs a profile Handler.
func NewHandler(deps views.Deps) *Handler {
	return &Handler{Deps: deps}
}

type resultController = listctl.Controller[models.ProfileResult, models.ProfileResultDraft]

func (h *Handler) results(u *auth.Session) *resultController {
	return listctl.Get(h.Registry, u.ID, authz.SectionProfile, func() *resultController {
		backend := &listctl.REST[models.ProfileResult, models.ProfileResultDraft]{
			Client: h.Client(u),
			Path:   resultsPath,
		}
		return listctl.New[models.ProfileResult, models.ProfileResultDraft](backend, listctl.Options[models.ProfileResult]{
			Name:     "results",
			PageSize: h.PageSize,
			ID:       func(p models.ProfileResult) string { return p.ID.String() },
			Fallback: "Unable to load your results. Please try again.",
			Logger:   h.Log,
		})
	})
}
