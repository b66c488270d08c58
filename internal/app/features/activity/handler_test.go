package activity

import (
	"context"
	"encoding/csv"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	uierrors "github.com/dalemusser/nursinghub/internal/app/features/errors"
	"github.com/dalemusser/nursinghub/internal/app/store/audit"
	"github.com/dalemusser/nursinghub/internal/app/store/sessions"
	"github.com/dalemusser/nursinghub/internal/testutil"
	"go.uber.org/zap"
)

var testNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

type fakeLister struct {
	open    []sessions.Session
	since   []sessions.Session
	byUser  []sessions.Session
	err     error
	gotFrom time.Time
	gotUser string
}

func (f *fakeLister) ListOpen(context.Context, int64) ([]sessions.Session, error) {
	return f.open, f.err
}

func (f *fakeLister) ListSince(_ context.Context, since time.Time, _ int64) ([]sessions.Session, error) {
	f.gotFrom = since
	return f.since, f.err
}

func (f *fakeLister) GetByUser(_ context.Context, userID string, _ int64) ([]sessions.Session, error) {
	f.gotUser = userID
	return f.byUser, f.err
}

func newTestHandler(store *fakeLister) *Handler {
	logger := zap.NewNop()
	h := NewHandler(store, nil, uierrors.NewErrorLogger(logger), logger)
	h.now = func() time.Time { return testNow }
	return h
}

// serve runs fn, ignoring template panics when no engine is booted.
func serve(fn func()) {
	defer func() { _ = recover() }()
	fn()
}

func openSession(id string, idle time.Duration) sessions.Session {
	return sessions.Session{
		ID:           id,
		UserID:       id,
		Role:         "STAFF",
		LoginAt:      testNow.Add(-time.Hour),
		LastActiveAt: testNow.Add(-idle),
	}
}

func TestLoad_CountsAndFilters(t *testing.T) {
	store := &fakeLister{open: []sessions.Session{
		openSession("a", 30*time.Second),
		openSession("b", 5*time.Minute),
		openSession("c", time.Minute),
	}}
	h := newTestHandler(store)

	tests := []struct {
		query    string
		filter   string
		wantRows int
	}{
		{"", "all", 3},
		{"?status=online", "online", 2},
		{"?status=idle", "idle", 1},
		{"?status=bogus", "all", 3},
	}
	for _, tt := range tests {
		data, err := h.load(context.Background(), httptest.NewRequest(http.MethodGet, "/activity"+tt.query, nil))
		if err != nil {
			t.Fatalf("load%s: %v", tt.query, err)
		}
		if data.StatusFilter != tt.filter || len(data.Rows) != tt.wantRows {
			t.Errorf("load%s: filter %q rows %d, want %q %d", tt.query, data.StatusFilter, len(data.Rows), tt.filter, tt.wantRows)
		}
		if data.OnlineCount != 2 || data.IdleCount != 1 {
			t.Errorf("load%s: counts %d/%d, want 2/1", tt.query, data.OnlineCount, data.IdleCount)
		}
	}
}

func TestLoad_SearchFoldsCase(t *testing.T) {
	a := openSession("a", 30*time.Second)
	a.Email = "Ada.Obi@School.ng"
	b := openSession("b", 30*time.Second)
	b.Email = "ngozi@school.ng"
	h := newTestHandler(&fakeLister{open: []sessions.Session{a, b}})

	data, err := h.load(context.Background(), httptest.NewRequest(http.MethodGet, "/activity?q=+ADA.obi+", nil))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(data.Rows) != 1 || data.Rows[0].ID != "a" {
		t.Errorf("rows = %+v, want only session a", data.Rows)
	}
	if data.SearchQuery != "ADA.obi" {
		t.Errorf("SearchQuery = %q", data.SearchQuery)
	}
	if data.OnlineCount != 2 {
		t.Errorf("OnlineCount = %d, search must not change counts", data.OnlineCount)
	}
}

func TestServeDashboard_StoreFailure(t *testing.T) {
	h := newTestHandler(&fakeLister{err: errors.New("mongo down")})

	rec := httptest.NewRecorder()
	req := testutil.WithUser(httptest.NewRequest(http.MethodGet, "/activity", nil), testutil.AdminUser())
	serve(func() { h.ServeDashboard(rec, req) })

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestServeUserDetail_UsesURLParam(t *testing.T) {
	store := &fakeLister{}
	h := newTestHandler(store)

	req := httptest.NewRequest(http.MethodGet, "/activity/user/42", nil)
	req = testutil.WithChiURLParam(testutil.WithUser(req, testutil.AdminUser()), "userID", "42")
	serve(func() { h.ServeUserDetail(httptest.NewRecorder(), req) })

	if store.gotUser != "42" {
		t.Errorf("GetByUser called with %q, want 42", store.gotUser)
	}
}

type fakeEvents struct {
	gotUser  string
	gotLimit int64
	err      error
}

func (f *fakeEvents) GetByUser(_ context.Context, userID string, limit int64) ([]audit.Event, error) {
	f.gotUser, f.gotLimit = userID, limit
	return []audit.Event{{EventType: audit.EventLoginSuccess, UserID: userID, Success: true}}, f.err
}

func TestServeUserDetail_ReadsAuditEvents(t *testing.T) {
	for _, storeErr := range []error{nil, errors.New("mongo down")} {
		events := &fakeEvents{err: storeErr}
		h := newTestHandler(&fakeLister{})
		h.Events = events

		req := httptest.NewRequest(http.MethodGet, "/activity/user/42", nil)
		req = testutil.WithChiURLParam(testutil.WithUser(req, testutil.AdminUser()), "userID", "42")
		rec := httptest.NewRecorder()
		serve(func() { h.ServeUserDetail(rec, req) })

		if events.gotUser != "42" || events.gotLimit != eventLimit {
			t.Errorf("GetByUser(%q, %d), want 42 and %d", events.gotUser, events.gotLimit, eventLimit)
		}
		// An unreadable audit trail still renders the session history.
		if rec.Code == http.StatusInternalServerError {
			t.Errorf("store error %v failed the page", storeErr)
		}
	}
}

func TestServeSessionsCSV(t *testing.T) {
	out := testNow.Add(-time.Hour)
	store := &fakeLister{since: []sessions.Session{
		{ID: "s1", UserID: "7", Role: "STUDENT", Email: "=cmd@x.ng", LoginAt: testNow.Add(-2 * time.Hour), LastActiveAt: out, LogoutAt: &out, EndReason: sessions.EndLogout, DurationSecs: 3600, IP: "10.0.0.1"},
	}}
	h := newTestHandler(store)

	rec := httptest.NewRecorder()
	req := testutil.WithUser(httptest.NewRequest(http.MethodGet, "/activity/export/sessions.csv?days=3", nil), testutil.AdminUser())
	h.ServeSessionsCSV(rec, req)

	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type = %q", ct)
	}
	if !store.gotFrom.Equal(testNow.AddDate(0, 0, -3)) {
		t.Errorf("since = %v, want three days back", store.gotFrom)
	}

	body := strings.TrimPrefix(rec.Body.String(), "\ufeff")
	rows, err := csv.NewReader(strings.NewReader(body)).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want header + 1", len(rows))
	}
	if rows[1][0] != "s1" || rows[1][3] != "'=cmd@x.ng" || rows[1][8] != "3600" {
		t.Errorf("row = %v", rows[1])
	}
}

func TestExportDays(t *testing.T) {
	tests := map[string]int{
		"":          defaultExportDays,
		"?days=0":   defaultExportDays,
		"?days=x":   defaultExportDays,
		"?days=30":  30,
		"?days=365": maxExportDays,
	}
	for q, want := range tests {
		if got := exportDays(httptest.NewRequest(http.MethodGet, "/x"+q, nil)); got != want {
			t.Errorf("exportDays(%q) = %d, want %d", q, got, want)
		}
	}
}

func TestFormatMinutes(t *testing.T) {
	for in, want := range map[int]string{0: "0 min", 45: "45 min", 60: "1h 0m", 135: "2h 15m", -5: "0 min"} {
		if got := formatMinutes(in); got != want {
			t.Errorf("formatMinutes(%d) = %q, want %q", in, got, want)
		}
	}
}
