package attendance

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	uierrors "github.com/dalemusser/nursinghub/internal/app/features/errors"
	"github.com/dalemusser/nursinghub/internal/app/features/shared/views"
	"github.com/dalemusser/nursinghub/internal/app/system/listctl"
	"github.com/dalemusser/nursinghub/internal/domain/models"
	"github.com/dalemusser/nursinghub/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T, api *testutil.FakeAPI) *Handler {
	t.Helper()
	logger := zap.NewNop()
	return NewHandler(views.Deps{
		API:      api.Client(t),
		Sessions: testutil.NewSessionManager(t),
		Registry: listctl.NewRegistry(),
		ErrLog:   uierrors.NewErrorLogger(logger),
		Log:      logger,
		PageSize: 10,
	})
}

func serve(fn func()) {
	defer func() { _ = recover() }()
	fn()
}

// withOptions registers the batch and hall select endpoints.
func withOptions(api *testutil.FakeAPI) {
	api.Router.Get("/batches", func(w http.ResponseWriter, r *http.Request) {
		testutil.JSON(w, http.StatusOK, map[string]any{"data": []models.Batch{{ID: "b1", Name: "Batch A"}}})
	})
	api.Router.Get("/halls", func(w http.ResponseWriter, r *http.Request) {
		testutil.Page(w, []models.Hall{{ID: "h1", Name: "Main Hall"}}, 1, 1, 1)
	})
}

func TestServeList_NoFiltersRequestsNothing(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	withOptions(api)
	h := newTestHandler(t, api)
	u := testutil.StaffUser()

	req := testutil.WithUser(httptest.NewRequest(http.MethodGet, "/attendance", nil), u)
	serve(func() { h.ServeList(httptest.NewRecorder(), req) })

	if n := api.Count(http.MethodGet, "/attendance"); n != 0 {
		t.Errorf("attendance requested %d times without filters", n)
	}
	s := h.controller(u).Snapshot()
	if s.Phase != listctl.Idle || s.EmptyMessage() == "" {
		t.Errorf("state = %+v, message %q", s, s.EmptyMessage())
	}
}

func TestServeList_PartialFiltersIsValidationError(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	withOptions(api)
	h := newTestHandler(t, api)
	u := testutil.StaffUser()

	req := testutil.WithUser(httptest.NewRequest(http.MethodGet, "/attendance?batch=b1", nil), u)
	serve(func() { h.ServeList(httptest.NewRecorder(), req) })

	if n := api.Count(http.MethodGet, "/attendance"); n != 0 {
		t.Errorf("attendance requested %d times with a missing hall", n)
	}
	if s := h.controller(u).Snapshot(); s.Err != "Please select a hall." {
		t.Errorf("Err = %q", s.Err)
	}
}

func TestServeList_BothFiltersFetch(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	withOptions(api)
	api.Router.Get("/attendance", func(w http.ResponseWriter, r *http.Request) {
		testutil.Page(w, []models.AttendanceRecord{
			{ID: "5", ApplicationNumber: "NH/24/001", FullName: "Ada Obi", Status: "present"},
		}, 1, 1, 1)
	})
	h := newTestHandler(t, api)
	u := testutil.StaffUser()

	req := testutil.WithUser(httptest.NewRequest(http.MethodGet, "/attendance?batch=b1&hall=h1", nil), u)
	serve(func() { h.ServeList(httptest.NewRecorder(), req) })

	var list *testutil.Call
	for _, c := range api.Calls() {
		if c.Path == "/attendance" {
			c := c
			list = &c
		}
	}
	if list == nil {
		t.Fatal("attendance was not requested")
	}
	q, _ := url.ParseQuery(list.Query)
	if q.Get("batch") != "b1" || q.Get("hall") != "h1" {
		t.Errorf("query = %q", list.Query)
	}
	if s := h.controller(u).Snapshot(); len(s.Items) != 1 || !s.Items[0].Present() {
		t.Errorf("items = %+v", s.Items)
	}
}

func TestHandleExport_RequiresFilters(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	h := newTestHandler(t, api)

	req := testutil.WithUser(httptest.NewRequest(http.MethodGet, "/attendance/export?batch=b1", nil), testutil.AdminUser())
	rec := httptest.NewRecorder()
	serve(func() { h.HandleExport(rec, req) })

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if len(api.Calls()) != 0 {
		t.Error("export must not reach the API without both filters")
	}
}

func TestHandleExport_StreamsPDF(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.Router.Get("/attendance/export", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="batch-a.pdf"`)
		_, _ = w.Write([]byte("%PDF-1.7 body"))
	})
	h := newTestHandler(t, api)

	req := testutil.WithUser(httptest.NewRequest(http.MethodGet, "/attendance/export?batch=b1&hall=h1", nil), testutil.AdminUser())
	rec := httptest.NewRecorder()
	h.HandleExport(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Header().Get("Content-Type") != "application/pdf" {
		t.Errorf("Content-Type = %q", rec.Header().Get("Content-Type"))
	}
	if !strings.Contains(rec.Header().Get("Content-Disposition"), "batch-a.pdf") {
		t.Errorf("Content-Disposition = %q", rec.Header().Get("Content-Disposition"))
	}
	if rec.Body.String() != "%PDF-1.7 body" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestHandleCreate_ReturnsToBatchAndHall(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.Router.Post("/attendance", func(w http.ResponseWriter, r *http.Request) {
		testutil.JSON(w, http.StatusCreated, map[string]any{"data": map[string]any{"id": 11, "status": "present"}})
	})
	h := newTestHandler(t, api)

	form := url.Values{"application_number": {"NH/24/002"}, "batch": {"b1"}, "hall": {"h1"}, "status": {"Present"}}
	req := httptest.NewRequest(http.MethodPost, "/attendance", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = testutil.WithUser(req, testutil.StaffUser())
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	loc, _ := url.Parse(rec.Header().Get("Location"))
	if loc.Query().Get("batch") != "b1" || loc.Query().Get("hall") != "h1" {
		t.Errorf("Location = %q", loc)
	}
}
