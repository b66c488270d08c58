package views_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/nursinghub/internal/app/features/shared/views"
	"github.com/dalemusser/nursinghub/internal/app/store/audit"
	"github.com/dalemusser/nursinghub/internal/app/system/apiclient"
	"github.com/dalemusser/nursinghub/internal/app/system/listctl"
	"github.com/dalemusser/nursinghub/internal/domain/models"
	"github.com/dalemusser/nursinghub/internal/testutil"
	"go.uber.org/zap"
)

type ender struct{ ids, reasons []string }

func (e *ender) End(_ context.Context, id, reason string) {
	e.ids = append(e.ids, id)
	e.reasons = append(e.reasons, reason)
}

func TestExpired_SignsOutOn401(t *testing.T) {
	act := &ender{}
	reg := listctl.NewRegistry()
	d := &views.Deps{
		Sessions: testutil.NewSessionManager(t),
		Registry: reg,
		Activity: act,
		Log:      zap.NewNop(),
	}

	u := testutil.AdminUser()
	listctl.Get(reg, u.ID, "halls", func() *listctl.Controller[models.Hall, models.HallDraft] {
		return listctl.New[models.Hall, models.HallDraft](nil, listctl.Options[models.Hall]{
			ID: func(h models.Hall) string { return h.ID.String() },
		})
	})

	req := testutil.WithUser(httptest.NewRequest(http.MethodGet, "/halls", nil), u)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()

	if !d.Expired(rec, req, &apiclient.Error{Status: http.StatusUnauthorized, Message: "Unauthenticated."}) {
		t.Fatal("401 should be handled")
	}
	if rec.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); !strings.HasPrefix(loc, "/login") {
		t.Errorf("Location = %q", loc)
	}
	if reg.Len() != 0 {
		t.Errorf("controllers left after expiry: %d", reg.Len())
	}
	if len(act.ids) != 1 || act.ids[0] != u.ID || act.reasons[0] != "expired" {
		t.Errorf("activity end = %v %v", act.ids, act.reasons)
	}
}

func TestExpired_IgnoresOtherErrors(t *testing.T) {
	d := &views.Deps{}
	req := httptest.NewRequest(http.MethodGet, "/halls", nil)
	rec := httptest.NewRecorder()

	for _, err := range []error{nil, &apiclient.Error{Status: 422}, apiclient.ErrTransport} {
		if d.Expired(rec, req, err) {
			t.Errorf("Expired(%v) = true", err)
		}
	}
}

func TestRedirect(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/halls/3/delete", nil)
	rec := httptest.NewRecorder()
	views.Redirect(rec, req, "/halls?page=2", "Hall deleted.")

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d", rec.Code)
	}
	u, err := url.Parse(rec.Header().Get("Location"))
	if err != nil {
		t.Fatal(err)
	}
	if u.Path != "/halls" || u.Query().Get("page") != "2" || u.Query().Get("notice") != "Hall deleted." {
		t.Errorf("Location = %q", u)
	}

	hx := testutil.HTMX(httptest.NewRequest(http.MethodPost, "/halls", nil), "")
	rec = httptest.NewRecorder()
	views.Redirect(rec, hx, "/halls", "")
	if rec.Header().Get("HX-Redirect") != "/halls" {
		t.Errorf("HX-Redirect = %q", rec.Header().Get("HX-Redirect"))
	}
}

func TestIsTableSwap(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/halls", nil)
	if views.IsTableSwap(req) {
		t.Error("plain request is not a table swap")
	}
	testutil.HTMX(req, "other")
	if views.IsTableSwap(req) {
		t.Error("other targets are not a table swap")
	}
	testutil.HTMX(req, views.TableTarget)
	if !views.IsTableSwap(req) {
		t.Error("table target should be a table swap")
	}
}

func TestPager_HrefKeepsFilters(t *testing.T) {
	s := listctl.State[models.Hall]{
		Items:       make([]models.Hall, 5),
		CurrentPage: 2,
		TotalPages:  5,
		TotalCount:  25,
		Filters:     listctl.Filters{"q": "main"},
	}
	p := views.Pager("/halls", s, 5)

	if p.Start != 6 || p.End != 10 {
		t.Errorf("range = %d-%d, want 6-10", p.Start, p.End)
	}
	href := p.Href(3)
	u, _ := url.Parse(href)
	if u.Path != "/halls" || u.Query().Get("q") != "main" || u.Query().Get("page") != "3" {
		t.Errorf("Href(3) = %q", href)
	}
	if _, ok := p.Params["page"]; ok {
		t.Error("Href must not mutate Params")
	}
}

func TestWriteBlob(t *testing.T) {
	rec := httptest.NewRecorder()
	views.WriteBlob(rec, &apiclient.Blob{Data: []byte("%PDF-1.4"), ContentType: "application/pdf"}, "attendance.pdf")

	if rec.Header().Get("Content-Type") != "application/pdf" {
		t.Errorf("Content-Type = %q", rec.Header().Get("Content-Type"))
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != "attachment; filename=attendance.pdf" {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if rec.Body.String() != "%PDF-1.4" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

type historyReader struct {
	resource, id string
	limit        int64
	events       []audit.Event
	err          error
}

func (f *historyReader) GetByRecord(_ context.Context, resource, id string, limit int64) ([]audit.Event, error) {
	f.resource, f.id, f.limit = resource, id, limit
	return f.events, f.err
}

func TestRecordEvents(t *testing.T) {
	stamp := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	found := []audit.Event{{Timestamp: stamp, EventType: audit.EventRecordUpdated, Resource: "halls", RecordID: "7", Success: true}}

	t.Run("reads the record", func(t *testing.T) {
		reader := &historyReader{events: found}
		d := &views.Deps{History: reader, Log: zap.NewNop()}

		got := d.RecordEvents(context.Background(), "halls", "7")
		if len(got) != 1 || !got[0].Timestamp.Equal(stamp) {
			t.Errorf("events = %+v", got)
		}
		if reader.resource != "halls" || reader.id != "7" || reader.limit != 10 {
			t.Errorf("asked for %s/%s limit %d", reader.resource, reader.id, reader.limit)
		}
	})

	t.Run("store failure yields nothing", func(t *testing.T) {
		d := &views.Deps{History: &historyReader{err: errors.New("mongo down")}, Log: zap.NewNop()}
		if got := d.RecordEvents(context.Background(), "halls", "7"); got != nil {
			t.Errorf("events = %+v, want none", got)
		}
	})

	t.Run("new records have no history", func(t *testing.T) {
		reader := &historyReader{events: found}
		d := &views.Deps{History: reader}
		if got := d.RecordEvents(context.Background(), "halls", ""); got != nil || reader.id != "" {
			t.Errorf("events = %+v, store asked for %q", got, reader.id)
		}
	})

	t.Run("no reader", func(t *testing.T) {
		d := &views.Deps{}
		if got := d.RecordEvents(context.Background(), "halls", "7"); got != nil {
			t.Errorf("events = %+v", got)
		}
	})
}
