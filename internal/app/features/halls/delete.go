// internal/app/features/halls/delete.go
package halls

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

func deleteConfirm(r *http.Request, hall models.Hall) views.ConfirmVM {
	id := hall.ID.String()
	vm := views.NewConfirm(r,
		"Delete hall",
		fmt.Sprintf("Delete %q? Candidates assigned to this hall will need a new one.", hall.Name),
		basePath+"/"+url.PathEscape(id)+"/delete",
		"Delete hall",
		navigation.SafeBackURL(r, navigation.HallsBackURL))
	vm.BaseVM = vm.BaseVM.InSection(authz.SectionHalls)
	return vm
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /halls/{id}/delete · POST /halls/{id}/delete                              |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeDelete asks for confirmation before deleting.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	_, hall, ok := h.lookupOrFail(w, r)
	if !ok {
		return
	}
	templates.Render(w, r, "confirm_page", deleteConfirm(r, hall))
}

// HandleDelete deletes the hall. On failure the confirmation page is shown
// again with the reason.
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
	hall, _ := ctl.Item(id)
	err := ctl.Remove(ctx, id)
	if h.Expired(w, r, err) {
		return
	}
	h.AuditMutation(ctx, r, audit.EventRecordDeleted, "halls", id, err)
	if err != nil {
		if hall.ID == "" {
			hall.ID = models.ID(id)
			hall.Name = "this hall"
		}
		vm := deleteConfirm(r, hall)
		vm.Error = usermsg.For(err, "Unable to delete the hall.")
		templates.Render(w, r, "confirm_page", vm)
		return
	}
	views.Redirect(w, r, navigation.SafeBackURL(r, navigation.HallsBackURL), "Hall deleted.")
}
