// internal/app/features/payments/list.go
package payments

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/dalemusser/nursinghub/internal/app/features/shared/views"
	"github.com/dalemusser/nursinghub/internal/app/system/apiclient"
	"github.com/dalemusser/nursinghub/internal/app/system/auth"
	"github.com/dalemusser/nursinghub/internal/app/system/authz"
	"github.com/dalemusser/nursinghub/internal/app/system/listctl"
	"github.com/dalemusser/nursinghub/internal/app/system/paging"
	"github.com/dalemusser/nursinghub/internal/app/system/timeouts"
	"github.com/dalemusser/nursinghub/internal/app/system/usermsg"
	"github.com/dalemusser/nursinghub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
)

/*─────────────────────────────────────────────────────────────────────────────*
| GET /payments                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeList renders the payments table. Students see only their own payments;
// the API scopes the list by token.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		h.Sessions.ExpireAndRedirect(w, r)
		return
	}

	q := query.Search(r, "q")
	status := strings.ToLower(query.Get(r, "status"))
	if !validStatus(status) {
		status = ""
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	ctl := h.controller(u)
	if err := ctl.Open(ctx, paging.ParsePage(r), listctl.Filters{"q": q, "status": status}); h.Expired(w, r, err) {
		return
	}

	title := "Payments"
	if authz.IsStudent(r) {
		title = "My Payments"
	}

	state := ctl.Snapshot()
	data := listData{
		BaseVM:   viewdata.NewBaseVM(r, title, "/dashboard").InSection(authz.SectionPayments),
		Q:        q,
		Status:   status,
		Statuses: statuses,
		List:     state,
		Rows:     rowsFrom(state.Items),
		Pager:    views.Pager(basePath, state, h.PageSize),
		OwnOnly:  authz.IsStudent(r),
	}

	if views.IsTableSwap(r) {
		templates.RenderSnippet(w, "payments_table", data)
		return
	}
	templates.Render(w, r, "payments_list", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /payments/{id}/receipt                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleReceipt streams the API's PDF receipt for one payment.
func (h *Handler) HandleReceipt(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		h.Sessions.ExpireAndRedirect(w, r)
		return
	}
	id := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	blob, err := h.Client(u).Download(ctx, basePath+"/"+url.PathEscape(id)+"/receipt", nil)
	if h.Expired(w, r, err) {
		return
	}
	if err != nil {
		if apiclient.IsNotFound(err) {
			h.ErrLog.LogBadRequest(w, r, "receipt not found", err, "No receipt is available for that payment.", basePath)
			return
		}
		h.ErrLog.LogServerError(w, r, "receipt download failed", err,
			usermsg.For(err, "Unable to download the receipt."), basePath)
		return
	}

	h.Audit.ExportDownloaded(ctx, r, "payments", id)
	views.WriteBlob(w, blob, "receipt-"+id+".pdf")
}
