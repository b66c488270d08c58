// internal/app/features/certificates/delete.go
package certificates

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dalemusser/nursinghub/internal/app/features/shared/views"
	"github.com/dalemusser/nursinghub/internal/app/store/audit"
	"github.com/dalemusser/nursinghub/internal/app/system/auth"
	"github.com/dalemusser/nursinghub/internal/app/system/authz"
	"github.com/dalemusser/nursinghub/internal/app/system/navigation"
	"github.com/dalemusser/nursinghub/internal/app/system/timeouts"
	"github.com/dalemusser/nursinghub/internal/app/system/usermsg"
	"github.com/dalemusser/nursinghub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
)

// describe names a certificate in confirmation messages.
func describe(c models.Certificate) string {
	switch {
	case c.CertificateType != "" && c.ApplicantName != "":
		return fmt.Sprintf("the %s of %s", c.CertificateType, c.ApplicantName)
	case c.CertificateNumber != "":
		return "certificate " + c.CertificateNumber
	}
	return "this certificate"
}

func deleteConfirm(r *http.Request, c models.Certificate) views.ConfirmVM {
	vm := views.NewConfirm(r,
		"Delete certificate",
		fmt.Sprintf("Delete %s? The applicant will need to upload it again.", describe(c)),
		basePath+"/"+url.PathEscape(c.ID.String())+"/delete",
		"Delete certificate",
		navigation.SafeBackURL(r, navigation.CertificatesBackURL))
	vm.BaseVM = vm.BaseVM.InSection(authz.SectionCertificates)
	return vm
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /certificates/{id}/delete · POST /certificates/{id}/delete                |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeDelete asks for confirmation before deleting.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	_, cert, ok := h.lookupOrFail(w, r)
	if !ok {
		return
	}
	templates.Render(w, r, "confirm_page", deleteConfirm(r, cert))
}

// HandleDelete deletes the certificate.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		h.Sessions.ExpireAndRedirect(w, r)
		return
	}
	id := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	ctl := h.controller(u)
	cert, _ := ctl.Item(id)
	err := ctl.Remove(ctx, id)
	if h.Expired(w, r, err) {
		return
	}
	h.AuditMutation(ctx, r, audit.EventRecordDeleted, "certificates", id, err)
	if err != nil {
		cert.ID = models.ID(id)
		vm := deleteConfirm(r, cert)
		vm.Error = usermsg.For(err, "Unable to delete the certificate.")
		templates.Render(w, r, "confirm_page", vm)
		return
	}
	views.Redirect(w, r, navigation.SafeBackURL(r, navigation.CertificatesBackURL), "Certificate deleted.")
}
