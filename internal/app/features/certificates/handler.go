// internal/app/features/certificates/handler.go
package certificates

import (
	"github.com/dalemusser/nursinghub/internal/app/features/shared/views"
	"github.com/dalemusser/nursinghub/internal/app/system/auth"
	"github.com/dalemusser/nursinghub/internal/app/system/authz"
	"github.com/dalemusser/nursinghub/internal/app/system/listctl"
	"github.com/dalemusser/nursinghub/internal/domain/models"
)

const basePath = "/certificates"

// Handler serves certificates: staff issue and edit them, verification
// officers mark them verified, students see their own.
type Handler struct {
	views.Deps
}

// NewHandler constructs a certificates Handler.
func NewHandler(deps views.Deps) *Handler {
	return &Handler{Deps: deps}
}

type certificateController = listctl.Controller[models.Certificate, models.CertificateDraft]

func (h *Handler) controller(u *auth.Session) *certificateController {
	return listctl.Get(h.Registry, u.ID, authz.SectionCertificates, func() *certificateController {
		backend := &listctl.REST[models.Certificate, models.CertificateDraft]{
			Client:      h.Client(u),
			Path:        basePath,
			StatusField: "is_verified",
		}
		return listctl.New[models.Certificate, models.CertificateDraft](backend, listctl.Options[models.Certificate]{
			Name:     "certificates",
			PageSize: h.PageSize,
			ID:       func(c models.Certificate) string { return c.ID.String() },
			Status:   func(c models.Certificate) bool { return c.IsVerified.Bool() },
			WithStatus: func(c models.Certificate, on bool) models.Certificate {
				c.IsVerified = models.Flag(on)
				return c
			},
			Fallback: "Unable to load certificates. Please try again.",
			Logger:   h.Log,
		})
	})
}
