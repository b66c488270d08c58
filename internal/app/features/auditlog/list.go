// internal/app/features/auditlog/list.go
package auditlog

import (
	"context"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/dalemusser/nursinghub/internal/app/features/shared/views"
	"github.com/dalemusser/nursinghub/internal/app/store/audit"
	"github.com/dalemusser/nursinghub/internal/app/system/authz"
	"github.com/dalemusser/nursinghub/internal/app/system/paging"
	"github.com/dalemusser/nursinghub/internal/app/system/timeouts"
	"github.com/dalemusser/nursinghub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"golang.org/x/sync/errgroup"
)

const dateLayout = "2006-01-02"

// filterFrom reads the list filters from the query string. Unknown
// categories and event types are dropped rather than queried.
func filterFrom(r *http.Request, pageSize int) (audit.QueryFilter, listData) {
	data := listData{
		Category:  strings.TrimSpace(query.Get(r, "category")),
		EventType: strings.TrimSpace(query.Get(r, "event_type")),
		Resource:  strings.TrimSpace(query.Get(r, "resource")),
		UserID:    strings.TrimSpace(query.Get(r, "user_id")),
		StartDate: strings.TrimSpace(query.Get(r, "start_date")),
		EndDate:   strings.TrimSpace(query.Get(r, "end_date")),
	}
	if data.Category != audit.CategoryAuth && data.Category != audit.CategoryAdmin {
		data.Category = ""
	}
	if !slices.Contains(eventTypesForCategory(data.Category), data.EventType) {
		data.EventType = ""
	}
	if !slices.Contains(resources, data.Resource) {
		data.Resource = ""
	}

	page := paging.ParsePage(r)
	f := audit.QueryFilter{
		UserID:    data.UserID,
		Category:  data.Category,
		EventType: data.EventType,
		Resource:  data.Resource,
		Limit:     int64(pageSize),
		Offset:    int64((page - 1) * pageSize),
	}
	if t, err := time.Parse(dateLayout, data.StartDate); err == nil {
		f.StartTime = &t
	} else {
		data.StartDate = ""
	}
	if t, err := time.Parse(dateLayout, data.EndDate); err == nil {
		// End of day
		end := t.Add(24*time.Hour - time.Nanosecond)
		f.EndTime = &end
	} else {
		data.EndDate = ""
	}
	return f, data
}

func (d listData) params() url.Values {
	q := url.Values{}
	for k, v := range map[string]string{
		"category":   d.Category,
		"event_type": d.EventType,
		"resource":   d.Resource,
		"user_id":    d.UserID,
		"start_date": d.StartDate,
		"end_date":   d.EndDate,
	} {
		if v != "" {
			q.Set(k, v)
		}
	}
	return q
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /audit                                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeList displays the audit log, newest first, with filtering.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	pageSize := paging.ClampSize(h.PageSize)
	filter, data := filterFrom(r, pageSize)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	var (
		events []audit.Event
		total  int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		events, err = h.Store.Query(gctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = h.Store.CountByFilter(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		h.ErrLog.LogServerError(w, r, "audit query failed", err, "Unable to load the audit log.", "/dashboard")
		return
	}

	data.Items = make([]listItem, 0, len(events))
	for _, e := range events {
		data.Items = append(data.Items, itemFrom(e))
	}
	data.Total = total

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	cur := int(filter.Offset)/pageSize + 1
	data.Pager = views.PagerVM{
		Pager:  paging.Build(cur, totalPages, len(data.Items), int(total), pageSize),
		Path:   "/audit",
		Params: data.params(),
	}
	data.Categories = allCategories()
	data.EventTypes = eventTypesForCategory(data.Category)
	data.Resources = resources
	data.BaseVM = viewdata.NewBaseVM(r, "Audit Log", "/dashboard").InSection(authz.SectionAudit)

	if views.IsTableSwap(r) {
		templates.RenderSnippet(w, "audit_table", &data)
		return
	}
	templates.Render(w, r, "audit_list", &data)
}
