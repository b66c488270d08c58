// internal/app/features/halls/list.go
package halls

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
| GET /halls                                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeList renders the halls table. HTMX requests targeting the table
// (search, status filter, paging) get only the table snippet.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		h.Sessions.ExpireAndRedirect(w, r)
		return
	}

	q := query.Search(r, "q")
	active := query.Get(r, "is_active")
	if active != "1" && active != "0" {
		active = ""
	}
	filters := listctl.Filters{"q": q, "is_active": active}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	ctl := h.controller(u)
	if err := ctl.Open(ctx, paging.ParsePage(r), filters); h.Expired(w, r, err) {
		return
	}

	state := ctl.Snapshot()
	data := listData{
		BaseVM:    viewdata.NewBaseVM(r, "Halls", "/dashboard").InSection(authz.SectionHalls),
		Q:         q,
		Active:    active,
		List:      state,
		Pager:     views.Pager(basePath, state, h.PageSize),
		CanManage: authz.Can(r, authz.SectionHalls, authz.Manage),
		CanToggle: authz.Can(r, authz.SectionHalls, authz.Toggle),
	}

	if views.IsTableSwap(r) {
		templates.RenderSnippet(w, "halls_table", data)
		return
	}
	templates.Render(w, r, "halls_list", data)
}
