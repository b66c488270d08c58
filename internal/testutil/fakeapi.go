package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/nursinghub/internal/app/system/apiclient"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Call is one request received by a FakeAPI.
type Call struct {
	Method string
	Path   string
	Query  string
	Auth   string
	Body   string
}

// FakeAPI is an httptest server standing in for the admissions API. Routes
// are registered on Router; every request is recorded.
type FakeAPI struct {
	Router chi.Router
	Server *httptest.Server

	mu    sync.Mutex
	calls []Call
}

// NewFakeAPI starts a FakeAPI that is closed when the test ends.
func NewFakeAPI(t *testing.T) *FakeAPI {
	t.Helper()
	f := &FakeAPI{Router: chi.NewRouter()}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Server.Close)
	return f
}

func (f *FakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	r.Body.Close()
	f.mu.Lock()
	f.calls = append(f.calls, Call{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Auth:   r.Header.Get("Authorization"),
		Body:   string(body),
	})
	f.mu.Unlock()
	r.Body = io.NopCloser(bytes.NewReader(body))
	f.Router.ServeHTTP(w, r)
}

// Client returns an apiclient.Client pointed at the fake.
func (f *FakeAPI) Client(t *testing.T) *apiclient.Client {
	t.Helper()
	c, err := apiclient.New(apiclient.Options{
		BaseURL: f.Server.URL,
		Timeout: 5 * time.Second,
		Logger:  zap.NewNop(),
	})
	if err != nil {
		t.Fatalf("apiclient.New: %v", err)
	}
	return c
}

// Calls returns a copy of the recorded requests.
func (f *FakeAPI) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Count returns how many requests matched method and path.
func (f *FakeAPI) Count(method, path string) int {
	n := 0
	for _, c := range f.Calls() {
		if c.Method == method && c.Path == path {
			n++
		}
	}
	return n
}

// JSON writes v with status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Page writes a paginated list body.
func Page(w http.ResponseWriter, items any, current, last, total int) {
	JSON(w, http.StatusOK, map[string]any{
		"data":         items,
		"current_page": current,
		"last_page":    last,
		"total":        total,
	})
}

// Fail writes an API error body.
func Fail(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]any{"message": message})
}
