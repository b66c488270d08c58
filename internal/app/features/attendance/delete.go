// internal/app/features/attendance/delete.go
package attendance

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dalemusser/nursinghub/internal/app/features/shared/views"
	"github.com/dalemusser/nursinghub/internal/app/store/audit"
	"github.com/dalemusser/nursinghub/internal/app/system/auth"
	"github.com/dalemusser/nursinghub/internal/app/system/authz"
	"github.com/dalemusser/nursinghub/internal/app/system/timeouts"
	"github.com/dalemusser/nursinghub/internal/app/system/usermsg"
	"github.com/dalemusser/nursinghub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
)

func deleteConfirm(r *http.Request, rec models.AttendanceRecord) views.ConfirmVM {
	who := rec.FullName
	if who == "" {
		who = rec.ApplicationNumber
	}
	if who == "" {
		who = "this candidate"
	}
	vm := views.NewConfirm(r,
		"Delete attendance record",
		fmt.Sprintf("Delete the attendance record of %s?", who),
		basePath+"/"+url.PathEscape(rec.ID.String())+"/delete",
		"Delete record",
		backTo(r, draftFrom(rec)))
	vm.BaseVM = vm.BaseVM.InSection(authz.SectionAttendance)
	return vm
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /attendance/{id}/delete · POST /attendance/{id}/delete                    |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeDelete asks for confirmation before deleting.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	_, rec, ok := h.lookupOrFail(w, r)
	if !ok {
		return
	}
	templates.Render(w, r, "confirm_page", deleteConfirm(r, rec))
}

// HandleDelete deletes the record.
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
	rec, _ := ctl.Item(id)
	err := ctl.Remove(ctx, id)
	if h.Expired(w, r, err) {
		return
	}
	h.AuditMutation(ctx, r, audit.EventRecordDeleted, "attendance", id, err)
	if err != nil {
		rec.ID = models.ID(id)
		vm := deleteConfirm(r, rec)
		vm.Error = usermsg.For(err, "Unable to delete the attendance record.")
		templates.Render(w, r, "confirm_page", vm)
		return
	}
	views.Redirect(w, r, backTo(r, draftFrom(rec)), "Attendance record deleted.")
}
