// internal/app/features/profile/profile.go
package profile

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/nursinghub/internal/app/features/shared/views"
	"github.com/dalemusser/nursinghub/internal/app/system/apiclient"
	"github.com/dalemusser/nursinghub/internal/app/system/auth"
	"github.com/dalemusser/nursinghub/internal/app/system/authz"
	"github.com/dalemusser/nursinghub/internal/app/system/formutil"
	"github.com/dalemusser/nursinghub/internal/app/system/inputval"
	"github.com/dalemusser/nursinghub/internal/app/system/normalize"
	"github.com/dalemusser/nursinghub/internal/app/system/paging"
	"github.com/dalemusser/nursinghub/internal/app/system/timeouts"
	"github.com/dalemusser/nursinghub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func draftFromForm(r *http.Request) models.ProfileDraft {
	return models.ProfileDraft{
		FirstName:     normalize.Name(r.FormValue("first_name")),
		LastName:      normalize.Name(r.FormValue("last_name")),
		OtherNames:    normalize.Name(r.FormValue("other_names")),
		Phone:         strings.TrimSpace(r.FormValue("phone")),
		StateOfOrigin: strings.TrimSpace(r.FormValue("state_of_origin")),
		Address:       strings.TrimSpace(r.FormValue("address")),
	}
}

func draftFrom(p models.Profile) models.ProfileDraft {
	return models.ProfileDraft{
		FirstName:     p.FirstName,
		LastName:      p.LastName,
		OtherNames:    p.OtherNames,
		Phone:         p.Phone,
		StateOfOrigin: p.StateOfOrigin,
		Address:       p.Address,
	}
}

// load fetches the profile and, for applicants, the current page of results.
// A results failure stays on the results list; only a profile failure is
// returned.
func (h *Handler) load(ctx context.Context, r *http.Request, u *auth.Session) (models.Profile, error) {
	var env apiclient.Envelope[models.Profile]

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return h.Client(u).Get(gctx, basePath, nil, &env)
	})
	if u.HasRole(models.RoleStudent) {
		g.Go(func() error {
			// Other failures stay on the results controller for the page.
			if err := h.results(u).Open(gctx, paging.ParsePage(r), nil); apiclient.IsUnauthorized(err) {
				return err
			}
			return nil
		})
	}
	err := g.Wait()
	return env.Data, err
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, u *auth.Session, p models.Profile, draft models.ProfileDraft, err error) {
	data := pageData{Profile: p, Draft: draft}
	formutil.SetBase(&data.Base, r, "My Profile", "/dashboard")
	data.BaseVM = data.BaseVM.InSection(authz.SectionProfile)
	if err != nil {
		data.SetErrorFrom(err, "Unable to save your profile. Please try again.")
	}
	if u.HasRole(models.RoleStudent) {
		state := h.results(u).Snapshot()
		data.ShowResults = true
		data.List = state
		data.Pager = views.Pager(basePath, state, h.PageSize)
		if views.IsTableSwap(r) {
			templates.RenderSnippet(w, "profile_results_table", &data)
			return
		}
	}
	templates.Render(w, r, "profile_page", &data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /profile                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeProfile renders the profile form and, for applicants, their results.
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		h.Sessions.ExpireAndRedirect(w, r)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, err := h.load(ctx, r, u)
	if h.Expired(w, r, err) {
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load profile failed", err, "Unable to load your profile.", "/dashboard")
		return
	}
	h.render(w, r, u, p, draftFrom(p), nil)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /profile                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleProfile validates and saves the profile. The session's display name
// follows the saved names.
func (h *Handler) HandleProfile(w http.ResponseWriter, r *http.Request) {
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
	current := models.Profile{Email: u.Email, ApplicationType: u.ApplicationType}

	if err := inputval.Validate(draft).Err(); err != nil {
		h.render(w, r, u, current, draft, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var env apiclient.Envelope[models.Profile]
	err := h.Client(u).Put(ctx, basePath, draft, &env)
	if h.Expired(w, r, err) {
		return
	}
	h.Audit.ProfileUpdated(ctx, r, err)
	if err != nil {
		h.render(w, r, u, current, draft, err)
		return
	}

	updated := *u
	updated.FirstName, updated.LastName, updated.OtherNames = draft.FirstName, draft.LastName, draft.OtherNames
	if err := h.Sessions.SignIn(w, r, &updated); err != nil {
		h.Log.Warn("refresh session after profile update", zap.Error(err))
	}
	views.Redirect(w, r, basePath, "Profile updated.")
}
