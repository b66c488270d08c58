package usermsg

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/dalemusser/nursinghub/internal/app/system/apiclient"
	"github.com/dalemusser/nursinghub/internal/app/system/inputval"
)

func TestFor(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		fallback string
		want     string
	}{
		{"nil", nil, "x", ""},
		{"validation", &inputval.Error{Field: "Capacity", Message: "Capacity must be greater than 0."}, "Unable to save hall.", "Capacity must be greater than 0."},
		{"wrapped validation", fmt.Errorf("create: %w", &inputval.Error{Message: "Hall name is required."}), "", "Hall name is required."},
		{"transport", fmt.Errorf("%w: GET /halls: dial tcp", apiclient.ErrTransport), "Unable to load halls.", Transport},
		{"deadline", context.DeadlineExceeded, "Unable to load halls.", Transport},
		{"api message", &apiclient.Error{Status: 422, Message: "Hall already exists"}, "Unable to save hall.", "Hall already exists"},
		{"api field message", &apiclient.Error{Status: 422, Errors: map[string][]string{"capacity": {"Capacity is too large"}}}, "Unable to save hall.", "Capacity is too large"},
		{"api no message", &apiclient.Error{Status: 500}, "Unable to load payments.", "Unable to load payments."},
		{"api unauthorized", &apiclient.Error{Status: 401, Message: "Unauthenticated."}, "x", SessionExpired},
		{"api markup stripped", &apiclient.Error{Status: 400, Message: "<b>Batch</b> is closed<script>alert(1)</script>"}, "x", "Batch is closed"},
		{"unknown error", errors.New("boom"), "Unable to load halls.", "Unable to load halls."},
		{"unknown error no fallback", errors.New("boom"), "", Generic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := For(tt.err, tt.fallback); got != tt.want {
				t.Errorf("For() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClean(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"  plain  text ", "plain text"},
		{"Fees & charges", "Fees & charges"},
		{"<p>Payment <em>pending</em></p>", "Payment pending"},
		{"line one\n\nline two", "line one line two"},
	}
	for _, tt := range tests {
		if got := Clean(tt.in); got != tt.want {
			t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	long := strings.Repeat("a", 500)
	if got := []rune(Clean(long)); len(got) != maxLen {
		t.Errorf("Clean(long) has %d runes, want %d", len(got), maxLen)
	}
}
