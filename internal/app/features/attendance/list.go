// internal/app/features/attendance/list.go
package attendance

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dalemusser/nursinghub/internal/app/features/shared/views"
	"github.com/dalemusser/nursinghub/internal/app/system/apiclient"
	"github.com/dalemusser/nursinghub/internal/app/system/auth"
	"github.com/dalemusser/nursinghub/internal/app/system/authz"
	"github.com/dalemusser/nursinghub/internal/app/system/listctl"
	"github.com/dalemusser/nursinghub/internal/app/system/paging"
	"github.com/dalemusser/nursinghub/internal/app/system/timeouts"
	"github.com/dalemusser/nursinghub/internal/app/system/usermsg"
	"github.com/dalemusser/nursinghub/internal/app/system/viewdata"
	"github.com/dalemusser/nursinghub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// optionsPageSize bounds the hall select.
const optionsPageSize = 100

// loadOptions fetches the batch and hall selects in parallel.
func (h *Handler) loadOptions(ctx context.Context, u *auth.Session) (options, error) {
	client := h.Client(u)
	var opts options

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var env apiclient.Envelope[[]models.Batch]
		if err := client.Get(gctx, "/batches", url.Values{"is_active": {"1"}}, &env); err != nil {
			return err
		}
		opts.Batches = env.Data
		return nil
	})
	g.Go(func() error {
		var page apiclient.Page[models.Hall]
		q := url.Values{"is_active": {"1"}, "per_page": {strconv.Itoa(optionsPageSize)}}
		if err := client.Get(gctx, "/halls", q, &page); err != nil {
			return err
		}
		opts.Halls = page.Data
		return nil
	})
	if err := g.Wait(); err != nil {
		opts.Err = usermsg.For(err, "Unable to load batches and halls.")
		return opts, err
	}
	return opts, nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /attendance                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeList renders attendance for the chosen batch and hall. Nothing is
// requested until both are chosen.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		h.Sessions.ExpireAndRedirect(w, r)
		return
	}

	filters := listctl.FromQuery(r.URL.Query(), "batch", "hall")
	filters["q"] = query.Search(r, "q")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	ctl := h.controller(u)
	if err := ctl.Open(ctx, paging.ParsePage(r), filters); h.Expired(w, r, err) {
		return
	}

	state := ctl.Snapshot()
	data := listData{
		BaseVM:    viewdata.NewBaseVM(r, "Attendance", "/dashboard").InSection(authz.SectionAttendance),
		Batch:     filters.Get("batch"),
		Hall:      filters.Get("hall"),
		Q:         filters.Get("q"),
		List:      state,
		Pager:     views.Pager(basePath, state, h.PageSize),
		CanManage: authz.Can(r, authz.SectionAttendance, authz.Manage),
		CanExport: state.Phase == listctl.Loaded && len(state.Items) > 0,
	}

	if views.IsTableSwap(r) {
		templates.RenderSnippet(w, "attendance_table", data)
		return
	}

	opts, err := h.loadOptions(ctx, u)
	if h.Expired(w, r, err) {
		return
	}
	if err != nil {
		h.Log.Warn("attendance filter options failed", zap.Error(err))
	}
	data.options = opts
	templates.Render(w, r, "attendance_list", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /attendance/export                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleExport streams the API's PDF of the chosen batch and hall.
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		h.Sessions.ExpireAndRedirect(w, r)
		return
	}
	batch := query.Get(r, "batch")
	hall := query.Get(r, "hall")
	if batch == "" || hall == "" {
		h.ErrLog.LogBadRequest(w, r, "attendance export without filters", nil,
			"Select a batch and a hall before exporting.", basePath)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	blob, err := h.Client(u).Download(ctx, basePath+"/export", url.Values{"batch": {batch}, "hall": {hall}})
	if h.Expired(w, r, err) {
		return
	}
	if err != nil {
		back := basePath + "?" + url.Values{"batch": {batch}, "hall": {hall}}.Encode()
		h.ErrLog.LogServerError(w, r, "attendance export failed", err,
			usermsg.For(err, "Unable to export attendance."), back)
		return
	}

	h.Audit.ExportDownloaded(ctx, r, "attendance", batch+"/"+hall)
	views.WriteBlob(w, blob, "attendance-"+batch+"-"+hall+".pdf")
}
