package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/nursinghub/internal/app/features/health"
	"github.com/dalemusser/nursinghub/internal/app/system/apiclient"
	"github.com/dalemusser/nursinghub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context, *readpref.ReadPref) error { return p.err }

type response struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	API      string `json:"api"`
	Message  string `json:"message"`
}

func serve(t *testing.T, h *health.Handler) (*httptest.ResponseRecorder, response) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.Serve(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want application/json", ct)
	}
	var body response
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return rec, body
}

func TestServe_AllHealthy(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.Router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		testutil.Fail(w, http.StatusNotFound, "no index")
	})
	h := health.NewHandler(stubPinger{}, api.Client(t), zap.NewNop())

	rec, body := serve(t, h)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if body.Status != "ok" || body.Database != "connected" || body.API != "reachable" {
		t.Errorf("body = %+v", body)
	}
}

func TestServe_DatabaseDown(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	h := health.NewHandler(stubPinger{err: errors.New("no reachable servers")}, api.Client(t), zap.NewNop())

	rec, body := serve(t, h)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
	if body.Status != "error" || body.Database != "disconnected" {
		t.Errorf("body = %+v", body)
	}
	if len(api.Calls()) != 0 {
		t.Error("api should not be checked when the database is down")
	}
}

func TestServe_APIUnreachable(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	client := api.Client(t)
	api.Server.Close()
	h := health.NewHandler(stubPinger{}, client, zap.NewNop())

	rec, body := serve(t, h)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if body.Status != "degraded" || body.API != "unreachable" {
		t.Errorf("body = %+v", body)
	}
}

func TestServe_RealMongo(t *testing.T) {
	db := testutil.SetupTestDB(t)
	api := testutil.NewFakeAPI(t)
	c, err := apiclient.New(apiclient.Options{BaseURL: api.Server.URL})
	if err != nil {
		t.Fatal(err)
	}
	h := health.NewHandler(db.Client(), c, zap.NewNop())

	rec, body := serve(t, h)

	if rec.Code != http.StatusOK || body.Database != "connected" {
		t.Errorf("got %d %+v", rec.Code, body)
	}
}
