package navigation

import (
	"net/http/httptest"
	"testing"
)

func TestSafeBackURL(t *testing.T) {
	tests := []struct {
		name   string
		target string
		opts   BackURLOptions
		want   string
	}{
		{"valid return", "/halls/new?return=/halls?page=2", HallsBackURL, "/halls?page=2"},
		{"no return", "/halls/new", HallsBackURL, "/halls"},
		{"external return", "/halls/new?return=https://evil.example.com", HallsBackURL, "/halls"},
		{"wrong prefix", "/halls/new?return=/payments", HallsBackURL, "/halls"},
		{"excluded subpath", "/halls/3/edit?return=/halls/3/delete", HallsBackURL, "/halls"},
		{"preserves batch", "/attendance/new?batch=B1", AttendanceBackURL, "/attendance?batch=B1"},
		{"escapes batch", "/attendance/new?batch=2025%2FA", AttendanceBackURL, "/attendance?batch=2025%2FA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.target, nil)
			if got := SafeBackURL(req, tt.opts); got != tt.want {
				t.Errorf("SafeBackURL() = %q, want %q", got, tt.want)
			}
		})
	}
}
