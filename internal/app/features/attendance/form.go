// internal/app/features/attendance/form.go
package attendance

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/dalemusser/nursinghub/internal/app/features/shared/views"
	"github.com/dalemusser/nursinghub/internal/app/store/audit"
	"github.com/dalemusser/nursinghub/internal/app/system/apiclient"
	"github.com/dalemusser/nursinghub/internal/app/system/auth"
	"github.com/dalemusser/nursinghub/internal/app/system/authz"
	"github.com/dalemusser/nursinghub/internal/app/system/formutil"
	"github.com/dalemusser/nursinghub/internal/app/system/navigation"
	"github.com/dalemusser/nursinghub/internal/app/system/timeouts"
	"github.com/dalemusser/nursinghub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func draftFromForm(r *http.Request) models.AttendanceDraft {
	return models.AttendanceDraft{
		ApplicationNumber: strings.TrimSpace(r.FormValue("application_number")),
		Batch:             strings.TrimSpace(r.FormValue("batch")),
		Hall:              strings.TrimSpace(r.FormValue("hall")),
		Status:            strings.ToLower(strings.TrimSpace(r.FormValue("status"))),
	}
}

func draftFrom(a models.AttendanceRecord) models.AttendanceDraft {
	return models.AttendanceDraft{
		ApplicationNumber: a.ApplicationNumber,
		Batch:             a.Batch,
		Hall:              a.Hall,
		Status:            a.Status,
	}
}

// backTo returns to the list on the draft's batch and hall.
func backTo(r *http.Request, d models.AttendanceDraft) string {
	if d.Batch != "" && d.Hall != "" {
		return basePath + "?" + url.Values{"batch": {d.Batch}, "hall": {d.Hall}}.Encode()
	}
	return navigation.SafeBackURL(r, navigation.AttendanceBackURL)
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, u *auth.Session, id string, draft models.AttendanceDraft, err error) {
	title, action := "Mark Attendance", basePath
	if id != "" {
		title, action = "Edit Attendance", basePath+"/"+url.PathEscape(id)+"/edit"
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	opts, oerr := h.loadOptions(ctx, u)
	if oerr != nil {
		h.Log.Warn("attendance form options failed", zap.Error(oerr))
	}

	data := formData{options: opts, ID: id, Action: action, Draft: draft}
	formutil.SetBase(&data.Base, r, title, backTo(r, draft))
	data.BaseVM = data.BaseVM.InSection(authz.SectionAttendance)
	if err != nil {
		data.SetErrorFrom(err, "Unable to save attendance. Please try again.")
	}
	templates.Render(w, r, "attendance_form", &data)
}

func (h *Handler) lookupOrFail(w http.ResponseWriter, r *http.Request) (*auth.Session, models.AttendanceRecord, bool) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		h.Sessions.ExpireAndRedirect(w, r)
		return nil, models.AttendanceRecord{}, false
	}
	id := chi.URLParam(r, "id")
	if rec, ok := h.controller(u).Item(id); ok {
		return u, rec, true
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	var env apiclient.Envelope[models.AttendanceRecord]
	err := h.Client(u).Get(ctx, basePath+"/"+url.PathEscape(id), nil, &env)
	if h.Expired(w, r, err) {
		return nil, models.AttendanceRecord{}, false
	}
	if err != nil {
		if apiclient.IsNotFound(err) {
			h.ErrLog.LogBadRequest(w, r, "attendance record not found", err, "That attendance record no longer exists.", basePath)
		} else {
			h.ErrLog.LogServerError(w, r, "load attendance record failed", err, "Unable to load the attendance record.", basePath)
		}
		return nil, models.AttendanceRecord{}, false
	}
	return u, env.Data, true
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /attendance/new · POST /attendance                                        |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeNew renders the mark form, pre-selecting the list's batch and hall.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		h.Sessions.ExpireAndRedirect(w, r)
		return
	}
	draft := models.AttendanceDraft{
		Batch:  query.Get(r, "batch"),
		Hall:   query.Get(r, "hall"),
		Status: models.AttendancePresent,
	}
	h.renderForm(w, r, u, "", draft, nil)
}

// HandleCreate marks a candidate's attendance.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		h.Sessions.ExpireAndRedirect(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", basePath)
		return
	}
	draft := draftFromForm(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rec, err := h.controller(u).Create(ctx, draft)
	if h.Expired(w, r, err) {
		return
	}
	h.AuditMutation(ctx, r, audit.EventRecordCreated, "attendance", rec.ID.String(), err)
	if err != nil {
		h.renderForm(w, r, u, "", draft, err)
		return
	}
	views.Redirect(w, r, backTo(r, draft), "Attendance recorded.")
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET/POST /attendance/{id}/edit                                                |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeEdit renders the form for an existing record.
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	u, rec, ok := h.lookupOrFail(w, r)
	if !ok {
		return
	}
	h.renderForm(w, r, u, rec.ID.String(), draftFrom(rec), nil)
}

// HandleEdit saves an attendance record.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		h.Sessions.ExpireAndRedirect(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", basePath)
		return
	}
	id := chi.URLParam(r, "id")
	draft := draftFromForm(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	_, err := h.controller(u).Update(ctx, id, draft)
	if h.Expired(w, r, err) {
		return
	}
	h.AuditMutation(ctx, r, audit.EventRecordUpdated, "attendance", id, err)
	if err != nil {
		h.renderForm(w, r, u, id, draft, err)
		return
	}
	views.Redirect(w, r, backTo(r, draft), "Attendance updated.")
}
