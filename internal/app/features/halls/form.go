// internal/app/features/halls/form.go
package halls

import (
	"context"
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
	"github.com/dalemusser/nursinghub/internal/app/system/timeouts"
	"github.com/dalemusser/nursinghub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
)

// draftFromForm reads the hall form. A capacity that is not a number
// becomes 0 so validation reports it.
func draftFromForm(r *http.Request) models.HallDraft {
	capacity, _ := strconv.Atoi(strings.TrimSpace(r.FormValue("capacity")))
	return models.HallDraft{
		Name:     strings.TrimSpace(r.FormValue("name")),
		Location: strings.TrimSpace(r.FormValue("location")),
		Capacity: capacity,
	}
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, id string, draft models.HallDraft, err error) {
	title, action := "New Hall", basePath
	if id != "" {
		title, action = "Edit Hall", basePath+"/"+url.PathEscape(id)+"/edit"
	}
	data := formData{ID: id, Action: action, Draft: draft}
	formutil.SetBase(&data.Base, r, title, basePath)
	data.BaseVM = data.BaseVM.InSection(authz.SectionHalls)
	data.History = h.RecordEvents(r.Context(), "halls", id)
	if err != nil {
		data.SetErrorFrom(err, "Unable to save the hall. Please try again.")
	}
	templates.Render(w, r, "hall_form", &data)
}

// lookup finds the hall in the loaded page, asking the API when the page
// does not hold it (a bookmarked edit link, for example).
func (h *Handler) lookup(ctx context.Context, u *auth.Session, id string) (models.Hall, error) {
	if hall, ok := h.controller(u).Item(id); ok {
		return hall, nil
	}
	var env apiclient.Envelope[models.Hall]
	err := h.Client(u).Get(ctx, basePath+"/"+url.PathEscape(id), nil, &env)
	return env.Data, err
}

// lookupOrFail resolves the {id} hall, writing the response itself when it
// cannot.
func (h *Handler) lookupOrFail(w http.ResponseWriter, r *http.Request) (*auth.Session, models.Hall, bool) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		h.Sessions.ExpireAndRedirect(w, r)
		return nil, models.Hall{}, false
	}
	id := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	hall, err := h.lookup(ctx, u, id)
	if h.Expired(w, r, err) {
		return nil, models.Hall{}, false
	}
	if err != nil {
		if apiclient.IsNotFound(err) {
			h.ErrLog.LogBadRequest(w, r, "hall not found", err, "That hall no longer exists.", basePath)
			return nil, models.Hall{}, false
		}
		h.ErrLog.LogServerError(w, r, "load hall failed", err, "Unable to load the hall.", basePath)
		return nil, models.Hall{}, false
	}
	return u, hall, true
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /halls/new · POST /halls                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeNew renders the empty hall form.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, "", models.HallDraft{}, nil)
}

// HandleCreate validates and creates a hall, then returns to the list.
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

	hall, err := h.controller(u).Create(ctx, draft)
	if h.Expired(w, r, err) {
		return
	}
	h.AuditMutation(ctx, r, audit.EventRecordCreated, "halls", hall.ID.String(), err)
	if err != nil {
		h.renderForm(w, r, "", draft, err)
		return
	}
	views.Redirect(w, r, navigation.SafeBackURL(r, navigation.HallsBackURL), "Hall created.")
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET/POST /halls/{id}/edit                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeEdit renders the form pre-filled with the hall.
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	_, hall, ok := h.lookupOrFail(w, r)
	if !ok {
		return
	}
	h.renderForm(w, r, hall.ID.String(), hall.DraftFrom(), nil)
}

// HandleEdit validates and saves the hall.
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
	h.AuditMutation(ctx, r, audit.EventRecordUpdated, "halls", id, err)
	if err != nil {
		h.renderForm(w, r, id, draft, err)
		return
	}
	views.Redirect(w, r, navigation.SafeBackURL(r, navigation.HallsBackURL), "Hall updated.")
}
