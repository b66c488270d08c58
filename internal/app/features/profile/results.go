// internal/app/features/profile/results.go
package profile

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/dalemusser/nursinghub/internal/app/features/shared/views"
	"github.com/dalemusser/nursinghub/internal/app/store/audit"
	"github.com/dalemusser/nursinghub/internal/app/system/apiclient"
	"github.com/dalemusser/nursinghub/internal/app/system/auth"
	"github.com/dalemusser/nursinghub/internal/app/system/authz"
	"github.com/dalemusser/nursinghub/internal/app/system/formutil"
	"github.com/dalemusser/nursinghub/internal/app/system/navigation"
	"github.com/dalemusser/nursinghub/internal/app/system/normalize"
	"github.com/dalemusser/nursinghub/internal/app/system/timeouts"
	"github.com/dalemusser/nursinghub/internal/app/system/usermsg"
	"github.com/dalemusser/nursinghub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
)

func resultFromForm(r *http.Request) models.ProfileResultDraft {
	year, _ := strconv.Atoi(strings.TrimSpace(r.FormValue("exam_year")))
	return models.ProfileResultDraft{
		ExamType: normalize.Code(r.FormValue("exam_type")),
		ExamYear: year,
		Subject:  strings.TrimSpace(r.FormValue("subject")),
		Grade:    normalize.Code(r.FormValue("grade")),
	}
}

func resultDraftFrom(p models.ProfileResult) models.ProfileResultDraft {
	return models.ProfileResultDraft{ExamType: p.ExamType, ExamYear: p.ExamYear, Subject: p.Subject, Grade: p.Grade}
}

func (h *Handler) renderResultForm(w http.ResponseWriter, r *http.Request, id string, draft models.ProfileResultDraft, err error) {
	title, action := "Add O'Level Result", resultsPath
	if id != "" {
		title, action = "Edit O'Level Result", resultsPath+"/"+url.PathEscape(id)+"/edit"
	}
	data := resultFormData{ID: id, Action: action, Draft: draft, Exams: examTypes, Grades: grades}
	formutil.SetBase(&data.Base, r, title, basePath)
	data.BaseVM = data.BaseVM.InSection(authz.SectionProfile)
	if err != nil {
		data.SetErrorFrom(err, "Unable to save the result. Please try again.")
	}
	templates.Render(w, r, "profile_result_form", &data)
}

func (h *Handler) lookupResult(w http.ResponseWriter, r *http.Request) (*auth.Session, models.ProfileResult, bool) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		h.Sessions.ExpireAndRedirect(w, r)
		return nil, models.ProfileResult{}, false
	}
	id := chi.URLParam(r, "id")
	if res, ok := h.results(u).Item(id); ok {
		return u, res, true
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	var env apiclient.Envelope[models.ProfileResult]
	err := h.Client(u).Get(ctx, resultsPath+"/"+url.PathEscape(id), nil, &env)
	if h.Expired(w, r, err) {
		return nil, models.ProfileResult{}, false
	}
	if err != nil {
		if apiclient.IsNotFound(err) {
			h.ErrLog.LogBadRequest(w, r, "result not found", err, "That result no longer exists.", basePath)
			return nil, models.ProfileResult{}, false
		}
		h.ErrLog.LogServerError(w, r, "load result failed", err, "Unable to load the result.", basePath)
		return nil, models.ProfileResult{}, false
	}
	return u, env.Data, true
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /profile/results/new · POST /profile/results                              |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeNewResult renders the empty result form.
func (h *Handler) ServeNewResult(w http.ResponseWriter, r *http.Request) {
	h.renderResultForm(w, r, "", models.ProfileResultDraft{}, nil)
}

// HandleCreateResult adds an O'Level result.
func (h *Handler) HandleCreateResult(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		h.Sessions.ExpireAndRedirect(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", basePath)
		return
	}
	draft := resultFromForm(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	res, err := h.results(u).Create(ctx, draft)
	if h.Expired(w, r, err) {
		return
	}
	h.AuditMutation(ctx, r, audit.EventRecordCreated, "profile_results", res.ID.String(), err)
	if err != nil {
		h.renderResultForm(w, r, "", draft, err)
		return
	}
	views.Redirect(w, r, navigation.SafeBackURL(r, navigation.ProfileBackURL), "Result added.")
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET/POST /profile/results/{id}/edit                                           |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeEditResult renders the form pre-filled with the result.
func (h *Handler) ServeEditResult(w http.ResponseWriter, r *http.Request) {
	_, res, ok := h.lookupResult(w, r)
	if !ok {
		return
	}
	h.renderResultForm(w, r, res.ID.String(), resultDraftFrom(res), nil)
}

// HandleEditResult saves the result.
func (h *Handler) HandleEditResult(w http.ResponseWriter, r *http.Request) {
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
	draft := resultFromForm(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	_, err := h.results(u).Update(ctx, id, draft)
	if h.Expired(w, r, err) {
		return
	}
	h.AuditMutation(ctx, r, audit.EventRecordUpdated, "profile_results", id, err)
	if err != nil {
		h.renderResultForm(w, r, id, draft, err)
		return
	}
	views.Redirect(w, r, navigation.SafeBackURL(r, navigation.ProfileBackURL), "Result updated.")
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET/POST /profile/results/{id}/delete                                         |
*─────────────────────────────────────────────────────────────────────────────*/

func deleteConfirm(r *http.Request, res models.ProfileResult) views.ConfirmVM {
	what := "this result"
	if res.Subject != "" {
		what = fmt.Sprintf("%s (%s %d)", res.Subject, res.ExamType, res.ExamYear)
	}
	vm := views.NewConfirm(r,
		"Remove result",
		fmt.Sprintf("Remove %s from your profile?", what),
		resultsPath+"/"+url.PathEscape(res.ID.String())+"/delete",
		"Remove result",
		navigation.SafeBackURL(r, navigation.ProfileBackURL))
	vm.BaseVM = vm.BaseVM.InSection(authz.SectionProfile)
	return vm
}

// ServeDeleteResult asks for confirmation before removing a result.
func (h *Handler) ServeDeleteResult(w http.ResponseWriter, r *http.Request) {
	_, res, ok := h.lookupResult(w, r)
	if !ok {
		return
	}
	templates.Render(w, r, "confirm_page", deleteConfirm(r, res))
}

// HandleDeleteResult removes the result.
func (h *Handler) HandleDeleteResult(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		h.Sessions.ExpireAndRedirect(w, r)
		return
	}
	id := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	ctl := h.results(u)
	res, _ := ctl.Item(id)
	err := ctl.Remove(ctx, id)
	if h.Expired(w, r, err) {
		return
	}
	h.AuditMutation(ctx, r, audit.EventRecordDeleted, "profile_results", id, err)
	if err != nil {
		if res.ID == "" {
			res.ID = models.ID(id)
		}
		vm := deleteConfirm(r, res)
		vm.Error = usermsg.For(err, "Unable to remove the result.")
		templates.Render(w, r, "confirm_page", vm)
		return
	}
	views.Redirect(w, r, navigation.SafeBackURL(r, navigation.ProfileBackURL), "Result removed.")
}
