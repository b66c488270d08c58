package listctl

import (
	"net/url"
	"sort"
	"strings"
)

// Filters maps filter keys (batch, hall, q, status, ...) to their values.
type Filters map[string]string

// FilterSpec names a filter that must be set before a list is requested.
type FilterSpec struct {
	Key   string
	Label string
}

// Clean returns a trimmed copy without empty values.
func (f Filters) Clean() Filters {
	out := make(Filters, len(f))
	for k, v := range f {
		k = strings.TrimSpace(k)
		v = strings.TrimSpace(v)
		if k != "" && v != "" {
			out[k] = v
		}
	}
	return out
}

// Clone returns an independent copy (nil stays nil).
func (f Filters) Clone() Filters {
	if f == nil {
		return nil
	}
	out := make(Filters, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Equal reports whether f and o hold the same non-empty values.
func (f Filters) Equal(o Filters) bool {
	a, b := f.Clean(), o.Clean()
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}

// Get returns the value for key or "".
func (f Filters) Get(key string) string { return f[key] }

// Any reports whether any filter has a value.
func (f Filters) Any() bool {
	for _, v := range f {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}

// Values encodes the filters as query parameters in key order.
func (f Filters) Values() url.Values {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	v := url.Values{}
	for _, k := range keys {
		if val := strings.TrimSpace(f[k]); val != "" {
			v.Set(k, val)
		}
	}
	return v
}

// FromQuery picks keys out of query parameters.
func FromQuery(q url.Values, keys ...string) Filters {
	out := Filters{}
	for _, k := range keys {
		if v := strings.TrimSpace(q.Get(k)); v != "" {
			out[k] = v
		}
	}
	return out
}

// checkRequired reports how many required filters are set and the first
// missing one. With no required filters it reports (0, nil).
func checkRequired(f Filters, specs []FilterSpec) (present int, missing *FilterSpec) {
	for i := range specs {
		if f.Get(specs[i].Key) != "" {
			present++
		} else if missing == nil {
			missing = &specs[i]
		}
	}
	return present, missing
}
