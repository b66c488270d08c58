package csvutil

import (
	"bytes"
	"encoding/csv"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSanitizeField(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"plain", "plain"},
		{"=SUM(A1)", "'=SUM(A1)"},
		{"+234", "'+234"},
		{"-1", "'-1"},
		{"@cmd", "'@cmd"},
		{"\tx", "'\tx"},
		{"a=b", "a=b"},
	}
	for _, tt := range tests {
		if got := SanitizeField(tt.in); got != tt.want {
			t.Errorf("SanitizeField(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriter_BOMAndCRLF(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if err := w.Header("id", "name"); err != nil {
		t.Fatal(err)
	}
	if err := w.Row("1", "Ada, Obi"); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "\ufeff") {
		t.Fatalf("missing BOM: %q", out)
	}
	if !strings.Contains(out, "id,name\r\n") {
		t.Errorf("want CRLF line endings, got %q", out)
	}
	if w.Rows() != 1 {
		t.Errorf("Rows = %d, want 1", w.Rows())
	}

	rows, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(out, "\ufeff"))).ReadAll()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(rows) != 2 || rows[1][1] != "Ada, Obi" {
		t.Errorf("rows = %v", rows)
	}
}

func TestStartDownload_SetsHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	w, err := StartDownload(rec, "sessions.csv")
	if err != nil {
		t.Fatal(err)
	}
	_ = w.Close()

	if ct := rec.Header().Get("Content-Type"); ct != "text/csv; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="sessions.csv"` {
		t.Errorf("Content-Disposition = %q", cd)
	}
}
