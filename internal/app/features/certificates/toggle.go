// internal/app/features/certificates/toggle.go
package certificates

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dalemusser/nursinghub/internal/app/features/shared/views"
	"github.com/dalemusser/nursinghub/internal/app/store/audit"
	"github.com/dalemusser/nursinghub/internal/app/system/authz"
	"github.com/dalemusser/nursinghub/internal/app/system/navigation"
	"github.com/dalemusser/nursinghub/internal/app/system/timeouts"
	"github.com/dalemusser/nursinghub/internal/app/system/usermsg"
	"github.com/dalemusser/nursinghub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
)

func toggleConfirm(r *http.Request, c models.Certificate) views.ConfirmVM {
	heading, label := "Verify certificate", "Mark verified"
	msg := fmt.Sprintf("Mark %s as verified?", describe(c))
	if c.IsVerified.Bool() {
		heading, label = "Withdraw verification", "Withdraw"
		msg = fmt.Sprintf("Withdraw the verification of %s?", describe(c))
	}
	vm := views.NewConfirm(r, heading, msg,
		basePath+"/"+url.PathEscape(c.ID.String())+"/toggle",
		label,
		navigation.SafeBackURL(r, navigation.CertificatesBackURL))
	vm.Danger = c.IsVerified.Bool()
	vm.BaseVM = vm.BaseVM.InSection(authz.SectionCertificates)
	return vm
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /certificates/{id}/toggle · POST /certificates/{id}/toggle                |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeToggle asks for confirmation before flipping is_verified.
func (h *Handler) ServeToggle(w http.ResponseWriter, r *http.Request) {
	_, cert, ok := h.lookupOrFail(w, r)
	if !ok {
		return
	}
	templates.Render(w, r, "confirm_page", toggleConfirm(r, cert))
}

// HandleToggle flips the verified flag, reverting the loaded page if the
// API refuses.
func (h *Handler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	u, before, ok := h.lookupOrFail(w, r)
	if !ok {
		return
	}
	id := before.ID.String()

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	err := h.controller(u).ToggleItem(ctx, before)
	if h.Expired(w, r, err) {
		return
	}
	h.AuditMutation(ctx, r, audit.EventRecordStatusChanged, "certificates", id, err)
	if err != nil {
		vm := toggleConfirm(r, before)
		vm.Error = usermsg.For(err, "Unable to change the verification status.")
		templates.Render(w, r, "confirm_page", vm)
		return
	}

	notice := "Certificate verified."
	if before.IsVerified.Bool() {
		notice = "Verification withdrawn."
	}
	views.Redirect(w, r, navigation.SafeBackURL(r, navigation.CertificatesBackURL), notice)
}
