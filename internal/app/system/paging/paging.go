// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// PageSize is the default number of rows requested per page.
const PageSize = 15

// MaxPageSize caps a configured page size.
const MaxPageSize = 100

// window is how many page links are shown on each side of the current page.
const window = 2

// ParsePage extracts the 1-based "page" query parameter.
// Returns 1 if absent or invalid.
func ParsePage(r *http.Request) int {
	n, err := strconv.Atoi(query.Get(r, "page"))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// ClampSize returns n bounded to [1, MaxPageSize], or PageSize when n <= 0.
func ClampSize(n int) int {
	switch {
	case n <= 0:
		return PageSize
	case n > MaxPageSize:
		return MaxPageSize
	}
	return n
}

// Link is one entry of a pager. Gap entries render as an ellipsis.
type Link struct {
	Page    int
	Current bool
	Gap     bool
}

// Pager is what the shared pager template renders.
type Pager struct {
	Current int
	Total   int
	HasPrev bool
	HasNext bool
	Prev    int
	Next    int
	Links   []Link

	// Range of rows on this page, 1-based (0 when empty).
	Start int
	End   int
	Count int
}

// Build computes the pager for page cur of total pages, showing shown rows
// out of count, with perPage rows per page.
func Build(cur, total, shown, count, perPage int) Pager {
	if total < 0 {
		total = 0
	}
	if cur < 1 {
		cur = 1
	}
	if total > 0 && cur > total {
		cur = total
	}

	p := Pager{
		Current: cur,
		Total:   total,
		HasPrev: cur > 1,
		HasNext: cur < total,
		Prev:    cur - 1,
		Next:    cur + 1,
		Count:   count,
	}
	if shown > 0 {
		if perPage <= 0 {
			perPage = shown
		}
		p.Start = (cur-1)*perPage + 1
		p.End = p.Start + shown - 1
	}
	p.Links = links(cur, total)
	return p
}

// links returns 1, a window around cur, and total, with gaps between.
func links(cur, total int) []Link {
	if total <= 1 {
		return nil
	}
	var out []Link
	last := 0
	add := func(n int) {
		if n <= last || n < 1 || n > total {
			return
		}
		if n > last+1 {
			out = append(out, Link{Gap: true})
		}
		out = append(out, Link{Page: n, Current: n == cur})
		last = n
	}
	add(1)
	for n := cur - window; n <= cur+window; n++ {
		add(n)
	}
	add(total)
	return out
}
