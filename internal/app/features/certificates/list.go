// internal/app/features/certificates/list.go
package certificates

import (
	"context"
	"net/http"

	"github.com/dalemusser/nursinghub/internal/app/features/shared/views"
	"github.com/dalemusser/nursinghub/internal/app/system/auth"
	"github.com/dalemusser/nursinghub/internal/app/system/authz"
	"github.com/dalemusser/nursinghub/internal/app/system/listctl"
	"github.com/dalemusser/nursinghub/internal/app/system/paging"
	"github.com/dalemusser/nursinghub/internal/app/system/timeouts"
	"github.com/dalemusser/nursinghub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
)

/*─────────────────────────────────────────────────────────────────────────────*
| GET /certificates                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeList renders the certificates table with search and a verified filter.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		h.Sessions.ExpireAndRedirect(w, r)
		return
	}

	q := query.Search(r, "q")
	verified := query.Get(r, "is_verified")
	if verified != "1" && verified != "0" {
		verified = ""
	}
	filters := listctl.Filters{"q": q, "is_verified": verified}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	ctl := h.controller(u)
	if err := ctl.Open(ctx, paging.ParsePage(r), filters); h.Expired(w, r, err) {
		return
	}

	title := "Certificates"
	if authz.IsStudent(r) {
		title = "My Certificates"
	}

	state := ctl.Snapshot()
	data := listData{
		BaseVM:    viewdata.NewBaseVM(r, title, "/dashboard").InSection(authz.SectionCertificates),
		Q:         q,
		Verified:  verified,
		List:      state,
		Pager:     views.Pager(basePath, state, h.PageSize),
		CanManage: authz.Can(r, authz.SectionCertificates, authz.Manage),
		CanToggle: authz.Can(r, authz.SectionCertificates, authz.Toggle),
		OwnOnly:   authz.IsStudent(r),
	}

	if views.IsTableSwap(r) {
		templates.RenderSnippet(w, "certificates_table", data)
		return
	}
	templates.Render(w, r, "certificates_list", data)
}
