// internal/app/system/csvutil/export.go
package csvutil

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
)

// bom is the UTF-8 byte order mark Excel needs to detect the encoding.
var bom = []byte{0xEF, 0xBB, 0xBF}

// Writer streams spreadsheet-safe CSV: CRLF line endings, a leading BOM,
// and formula-injection protection on the fields callers mark as untrusted.
type Writer struct {
	cw   *csv.Writer
	rows int
}

// NewWriter writes the BOM to w and returns a Writer over it.
func NewWriter(w io.Writer) (*Writer, error) {
	if _, err := w.Write(bom); err != nil {
		return nil, fmt.Errorf("write bom: %w", err)
	}
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	return &Writer{cw: cw}, nil
}

// StartDownload sets attachment headers for filename and returns a Writer
// over the response body.
func StartDownload(w http.ResponseWriter, filename string) (*Writer, error) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	return NewWriter(w)
}

// Header writes the column row. It does not count toward Rows.
func (w *Writer) Header(cols ...string) error {
	return w.cw.Write(cols)
}

// Row writes one data row.
func (w *Writer) Row(fields ...string) error {
	if err := w.cw.Write(fields); err != nil {
		return err
	}
	w.rows++
	return nil
}

// Rows reports how many data rows have been written.
func (w *Writer) Rows() int { return w.rows }

// Close flushes buffered rows and reports any write error.
func (w *Writer) Close() error {
	w.cw.Flush()
	return w.cw.Error()
}

// SanitizeField prefixes values that a spreadsheet would evaluate as a
// formula with a single quote.
func SanitizeField(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}
