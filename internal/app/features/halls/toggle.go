// internal/app/features/halls/toggle.go
package halls

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

func toggleConfirm(r *http.Request, hall models.Hall) views.ConfirmVM {
	verb := "Deactivate"
	if !hall.IsActive.Bool() {
		verb = "Activate"
	}
	vm := views.NewConfirm(r,
		verb+" hall",
		fmt.Sprintf("%s %q?", verb, hall.Name),
		basePath+"/"+url.PathEscape(hall.ID.String())+"/toggle",
		verb,
		navigation.SafeBackURL(r, navigation.HallsBackURL))
	vm.Danger = hall.IsActive.Bool()
	vm.BaseVM = vm.BaseVM.InSection(authz.SectionHalls)
	return vm
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /halls/{id}/toggle · POST /halls/{id}/toggle                              |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeToggle asks for confirmation before flipping is_active.
func (h *Handler) ServeToggle(w http.ResponseWriter, r *http.Request) {
	_, hall, ok := h.lookupOrFail(w, r)
	if !ok {
		return
	}
	templates.Render(w, r, "confirm_page", toggleConfirm(r, hall))
}

// HandleToggle flips the hall's active flag. A hall on the loaded page shows
// the new value at once and reverts if the API refuses.
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
	h.AuditMutation(ctx, r, audit.EventRecordStatusChanged, "halls", id, err)
	if err != nil {
		vm := toggleConfirm(r, before)
		vm.Error = usermsg.For(err, "Unable to change the hall's status.")
		templates.Render(w, r, "confirm_page", vm)
		return
	}

	notice := "Hall deactivated."
	if !before.IsActive.Bool() {
		notice = "Hall activated."
	}
	views.Redirect(w, r, navigation.SafeBackURL(r, navigation.HallsBackURL), notice)
}
