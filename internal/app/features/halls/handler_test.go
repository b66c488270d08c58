package halls

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	uierrors "github.com/dalemusser/nursinghub/internal/app/features/errors"
	"github.com/dalemusser/nursinghub/internal/app/features/shared/views"
	"github.com/dalemusser/nursinghub/internal/app/store/audit"
	"github.com/dalemusser/nursinghub/internal/app/system/listctl"
	"github.com/dalemusser/nursinghub/internal/domain/models"
	"github.com/dalemusser/nursinghub/internal/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
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
		PageSize: 5,
	})
}

// serve runs fn, ignoring template panics when no engine is booted.
func serve(fn func()) {
	defer func() { _ = recover() }()
	fn()
}

func sampleHalls() []models.Hall {
	return []models.Hall{
		{ID: "1", Name: "Main Hall", Location: "Block A", Capacity: 120, IsActive: true},
		{ID: "2", Name: "Annex", Location: "Block C", Capacity: 40, IsActive: false},
	}
}

func TestServeList_FetchesWithTokenAndFilters(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.Router.Get("/halls", func(w http.ResponseWriter, r *http.Request) {
		testutil.Page(w, sampleHalls(), 1, 1, 2)
	})
	h := newTestHandler(t, api)
	u := testutil.AdminUser()

	req := testutil.WithUser(httptest.NewRequest(http.MethodGet, "/halls?q=main&is_active=1", nil), u)
	serve(func() { h.ServeList(httptest.NewRecorder(), req) })

	calls := api.Calls()
	if len(calls) != 1 {
		t.Fatalf("api calls = %d, want 1", len(calls))
	}
	if calls[0].Auth != "Bearer "+u.AccessToken {
		t.Errorf("Authorization = %q", calls[0].Auth)
	}
	q, _ := url.ParseQuery(calls[0].Query)
	if q.Get("q") != "main" || q.Get("is_active") != "1" || q.Get("page") != "1" || q.Get("per_page") != "5" {
		t.Errorf("query = %q", calls[0].Query)
	}

	s := h.controller(u).Snapshot()
	if s.Phase != listctl.Loaded || len(s.Items) != 2 || s.TotalCount != 2 {
		t.Errorf("state = %+v", s)
	}
}

func TestServeList_IgnoresUnknownStatusFilter(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.Router.Get("/halls", func(w http.ResponseWriter, r *http.Request) {
		testutil.Page(w, []models.Hall{}, 1, 0, 0)
	})
	h := newTestHandler(t, api)

	req := testutil.WithUser(httptest.NewRequest(http.MethodGet, "/halls?is_active=maybe", nil), testutil.AdminUser())
	serve(func() { h.ServeList(httptest.NewRecorder(), req) })

	if calls := api.Calls(); len(calls) != 1 || strings.Contains(calls[0].Query, "is_active") {
		t.Errorf("calls = %+v", calls)
	}
}

func TestServeList_APIFailureKeepsPage(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.Router.Get("/halls", func(w http.ResponseWriter, r *http.Request) {
		testutil.Fail(w, http.StatusInternalServerError, "Halls are being rebuilt.")
	})
	h := newTestHandler(t, api)
	u := testutil.AdminUser()

	req := testutil.WithUser(httptest.NewRequest(http.MethodGet, "/halls", nil), u)
	serve(func() { h.ServeList(httptest.NewRecorder(), req) })

	s := h.controller(u).Snapshot()
	if s.Phase != listctl.Failed || s.Err != "Halls are being rebuilt." || len(s.Items) != 0 {
		t.Errorf("state = %+v", s)
	}
}

func TestServeList_FailureLoggedOnce(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.Router.Get("/halls", func(w http.ResponseWriter, r *http.Request) {
		testutil.Fail(w, http.StatusInternalServerError, "Halls are being rebuilt.")
	})
	core, logs := observer.New(zap.DebugLevel)
	h := newTestHandler(t, api)
	h.Log = zap.New(core)

	req := testutil.WithUser(httptest.NewRequest(http.MethodGet, "/halls", nil), testutil.AdminUser())
	serve(func() { h.ServeList(httptest.NewRecorder(), req) })

	failed := logs.FilterMessageSnippet("failed").All()
	if len(failed) != 1 || failed[0].Level != zap.WarnLevel {
		t.Errorf("failure log entries = %+v, want one warning", failed)
	}
}

func TestServeList_UnauthorizedSignsOut(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.Router.Get("/halls", func(w http.ResponseWriter, r *http.Request) {
		testutil.Fail(w, http.StatusUnauthorized, "Unauthenticated.")
	})
	h := newTestHandler(t, api)

	req := testutil.WithUser(httptest.NewRequest(http.MethodGet, "/halls", nil), testutil.AdminUser())
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	h.ServeList(rec, req)

	if rec.Code != http.StatusSeeOther || !strings.HasPrefix(rec.Header().Get("Location"), "/login") {
		t.Errorf("got %d %q, want redirect to /login", rec.Code, rec.Header().Get("Location"))
	}
	if h.Registry.Len() != 0 {
		t.Error("controllers should be dropped on expiry")
	}
}

func TestHandleCreate_InvalidDraftSendsNothing(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	h := newTestHandler(t, api)

	form := url.Values{"name": {""}, "capacity": {"10"}}
	req := httptest.NewRequest(http.MethodPost, "/halls", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = testutil.WithUser(req, testutil.AdminUser())
	rec := httptest.NewRecorder()
	serve(func() { h.HandleCreate(rec, req) })

	if n := len(api.Calls()); n != 0 {
		t.Errorf("api calls = %d, want 0", n)
	}
	if rec.Code == http.StatusSeeOther {
		t.Error("invalid draft must not redirect")
	}
}

func TestHandleCreate_Success(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.Router.Post("/halls", func(w http.ResponseWriter, r *http.Request) {
		testutil.JSON(w, http.StatusCreated, map[string]any{
			"data": map[string]any{"id": 9, "name": "New Wing", "capacity": 60, "is_active": "1"},
		})
	})
	h := newTestHandler(t, api)

	form := url.Values{"name": {"New Wing"}, "location": {"North"}, "capacity": {"60"}}
	req := httptest.NewRequest(http.MethodPost, "/halls", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = testutil.WithUser(req, testutil.AdminUser())
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	loc, _ := url.Parse(rec.Header().Get("Location"))
	if loc.Path != "/halls" || loc.Query().Get("notice") != "Hall created." {
		t.Errorf("Location = %q", loc)
	}
	calls := api.Calls()
	if len(calls) != 1 || !strings.Contains(calls[0].Body, `"capacity":60`) {
		t.Errorf("calls = %+v", calls)
	}
}

func TestHandleDelete(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.Router.Get("/halls", func(w http.ResponseWriter, r *http.Request) {
		testutil.Page(w, sampleHalls(), 1, 1, 2)
	})
	api.Router.Delete("/halls/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	h := newTestHandler(t, api)
	u := testutil.AdminUser()

	list := testutil.WithUser(httptest.NewRequest(http.MethodGet, "/halls", nil), u)
	serve(func() { h.ServeList(httptest.NewRecorder(), list) })

	req := testutil.WithUser(httptest.NewRequest(http.MethodPost, "/halls/2/delete", nil), u)
	req = testutil.WithChiURLParam(req, "id", "2")
	rec := httptest.NewRecorder()
	h.HandleDelete(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if api.Count(http.MethodDelete, "/halls/2") != 1 {
		t.Error("expected DELETE /halls/2")
	}
	s := h.controller(u).Snapshot()
	if len(s.Items) != 1 || s.TotalCount != 1 {
		t.Errorf("state after delete = %+v", s)
	}
}

func TestHandleToggle_RevertsOnFailure(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.Router.Get("/halls", func(w http.ResponseWriter, r *http.Request) {
		testutil.Page(w, sampleHalls(), 1, 1, 2)
	})
	api.Router.Patch("/halls/{id}/status", func(w http.ResponseWriter, r *http.Request) {
		testutil.Fail(w, http.StatusConflict, "Hall has candidates assigned.")
	})
	h := newTestHandler(t, api)
	u := testutil.AdminUser()

	list := testutil.WithUser(httptest.NewRequest(http.MethodGet, "/halls", nil), u)
	serve(func() { h.ServeList(httptest.NewRecorder(), list) })

	req := testutil.WithUser(httptest.NewRequest(http.MethodPost, "/halls/1/toggle", nil), u)
	req = testutil.WithChiURLParam(req, "id", "1")
	rec := httptest.NewRecorder()
	serve(func() { h.HandleToggle(rec, req) })

	if api.Count(http.MethodPatch, "/halls/1/status") != 1 {
		t.Fatal("expected PATCH /halls/1/status")
	}
	hall, ok := h.controller(u).Item("1")
	if !ok || !hall.IsActive.Bool() {
		t.Errorf("hall should be active again after the refusal, got %+v", hall)
	}
	if s := h.controller(u).Snapshot(); s.Err != "Hall has candidates assigned." {
		t.Errorf("Err = %q", s.Err)
	}
}

func TestHandleToggle_WithoutLoadedList(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.Router.Get("/halls/{id}", func(w http.ResponseWriter, r *http.Request) {
		testutil.JSON(w, http.StatusOK, map[string]any{"data": sampleHalls()[0]})
	})
	api.Router.Patch("/halls/{id}/status", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	h := newTestHandler(t, api)
	u := testutil.AdminUser()

	// Straight from a bookmarked confirmation page: nothing is loaded.
	req := testutil.WithUser(httptest.NewRequest(http.MethodPost, "/halls/1/toggle", nil), u)
	req = testutil.WithChiURLParam(req, "id", "1")
	rec := httptest.NewRecorder()
	serve(func() { h.HandleToggle(rec, req) })

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if api.Count(http.MethodPatch, "/halls/1/status") != 1 {
		t.Fatal("expected PATCH /halls/1/status")
	}
	for _, c := range api.Calls() {
		if c.Method == http.MethodPatch && !strings.Contains(c.Body, `"is_active":false`) {
			t.Errorf("PATCH body = %s, want is_active false", c.Body)
		}
	}
}

func TestServeList_PageBeyondEnd(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.Router.Get("/halls", func(w http.ResponseWriter, r *http.Request) {
		// Echoes the requested page like the API does.
		switch page := r.URL.Query().Get("page"); page {
		case "1", "3":
			testutil.Page(w, sampleHalls(), map[string]int{"1": 1, "3": 3}[page], 3, 25)
		default:
			testutil.Page(w, []models.Hall{}, 9, 3, 25)
		}
	})
	h := newTestHandler(t, api)
	u := testutil.AdminUser()

	t.Run("after the first load", func(t *testing.T) {
		first := testutil.WithUser(httptest.NewRequest(http.MethodGet, "/halls", nil), u)
		serve(func() { h.ServeList(httptest.NewRecorder(), first) })

		req := testutil.WithUser(httptest.NewRequest(http.MethodGet, "/halls?page=9", nil), u)
		serve(func() { h.ServeList(httptest.NewRecorder(), req) })

		for _, c := range api.Calls() {
			if strings.Contains(c.Query, "page=9") {
				t.Errorf("page 9 should not be requested: %q", c.Query)
			}
		}
		s := h.controller(u).Snapshot()
		if s.CurrentPage != 3 || s.TotalPages != 3 || len(s.Items) == 0 || s.EmptyMessage() != "" {
			t.Errorf("state = page %d/%d, %d items, empty %q", s.CurrentPage, s.TotalPages, len(s.Items), s.EmptyMessage())
		}
	})

	t.Run("fresh controller", func(t *testing.T) {
		other := testutil.StaffUser()
		req := testutil.WithUser(httptest.NewRequest(http.MethodGet, "/halls?page=9", nil), other)
		serve(func() { h.ServeList(httptest.NewRecorder(), req) })

		s := h.controller(other).Snapshot()
		if s.CurrentPage != 3 || len(s.Items) == 0 || s.TotalCount != 25 {
			t.Errorf("state = page %d/%d, %d items of %d", s.CurrentPage, s.TotalPages, len(s.Items), s.TotalCount)
		}
	})
}

type historyReader struct{ resource, id string }

func (f *historyReader) GetByRecord(_ context.Context, resource, id string, _ int64) ([]audit.Event, error) {
	f.resource, f.id = resource, id
	return []audit.Event{{EventType: audit.EventRecordCreated, Resource: resource, RecordID: id, Success: true}}, nil
}

func TestServeEdit_ReadsRecordHistory(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.Router.Get("/halls/{id}", func(w http.ResponseWriter, r *http.Request) {
		testutil.JSON(w, http.StatusOK, map[string]any{"data": sampleHalls()[1]})
	})
	h := newTestHandler(t, api)
	reader := &historyReader{}
	h.History = reader

	req := testutil.WithUser(httptest.NewRequest(http.MethodGet, "/halls/2/edit", nil), testutil.AdminUser())
	req = testutil.WithChiURLParam(req, "id", "2")
	serve(func() { h.ServeEdit(httptest.NewRecorder(), req) })

	if reader.resource != "halls" || reader.id != "2" {
		t.Errorf("history read for %s/%s, want halls/2", reader.resource, reader.id)
	}
}

func TestRoutes_StaffCannotManage(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	h := newTestHandler(t, api)
	router := Routes(h, h.Sessions)

	req := testutil.WithUser(httptest.NewRequest(http.MethodGet, "/new", nil), testutil.StaffUser())
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/forbidden" {
		t.Errorf("got %d %q, want redirect to /forbidden", rec.Code, rec.Header().Get("Location"))
	}
}
