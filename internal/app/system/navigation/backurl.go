// Package navigation builds the role-based menu and validates return URLs.
package navigation

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/urlutil"
)

// BackURLOptions configures the behavior of SafeBackURL.
type BackURLOptions struct {
	// AllowedPrefix is the required URL prefix (e.g., "/halls", "/attendance").
	// If empty, any safe URL is allowed.
	AllowedPrefix string

	// ExcludedSubpaths are subpath patterns to reject (e.g., "/edit", "/delete", "/new").
	// These prevent redirect loops back to action pages.
	ExcludedSubpaths []string

	// Fallback is the default URL if no valid return URL is found.
	Fallback string

	// PreserveQueryParam is an optional query parameter to preserve in the fallback URL.
	// For example, "batch" would check for a batch parameter and append it to the fallback.
	PreserveQueryParam string
}

// SafeBackURL extracts and validates a return URL from the request.
//
// It checks both the query parameter and form value for "return", validates
// the URL is safe (not an open redirect), optionally validates the prefix,
// and excludes specified subpaths to prevent redirect loops.
//
// Example usage:
//
//	url := navigation.SafeBackURL(r, navigation.BackURLOptions{
//	    AllowedPrefix:      "/attendance",
//	    ExcludedSubpaths:   []string{"/export"},
//	    Fallback:           "/attendance",
//	    PreserveQueryParam: "batch",
//	})
func SafeBackURL(r *http.Request, opts BackURLOptions) string {
	// Try query parameter first, then form value
	ret := urlutil.SafeReturn(query.Get(r, "return"), "", "")
	if ret == "" {
		ret = urlutil.SafeReturn(strings.TrimSpace(r.FormValue("return")), "", "")
	}

	// Validate against allowed prefix if specified
	if ret != "" {
		valid := true

		if opts.AllowedPrefix != "" && !strings.HasPrefix(ret, opts.AllowedPrefix) {
			valid = false
		}

		// Check excluded subpaths
		for _, excluded := range opts.ExcludedSubpaths {
			if strings.Contains(ret, excluded) {
				valid = false
				break
			}
		}

		if valid {
			return ret
		}
	}

	// Build fallback URL, optionally preserving a query parameter
	fallback := opts.Fallback
	if opts.PreserveQueryParam != "" {
		param := query.Get(r, opts.PreserveQueryParam)
		if param == "" {
			param = strings.TrimSpace(r.FormValue(opts.PreserveQueryParam))
		}
		if param != "" && param != "all" {
			sep := "?"
			if strings.Contains(fallback, "?") {
				sep = "&"
			}
			fallback += sep + opts.PreserveQueryParam + "=" + url.QueryEscape(param)
		}
	}

	return fallback
}

// Common back URL configurations for reuse across packages.
var (
	// HallsBackURL returns options for halls pages.
	HallsBackURL = BackURLOptions{
		AllowedPrefix:    "/halls",
		ExcludedSubpaths: []string{"/edit", "/delete", "/new", "/toggle"},
		Fallback:         "/halls",
	}

	// AttendanceBackURL returns options for attendance pages, keeping the
	// selected batch so the list reopens on the same filter.
	AttendanceBackURL = BackURLOptions{
		AllowedPrefix:      "/attendance",
		ExcludedSubpaths:   []string{"/edit", "/delete", "/new", "/export"},
		Fallback:           "/attendance",
		PreserveQueryParam: "batch",
	}

	// CertificatesBackURL returns options for certificates pages.
	CertificatesBackURL = BackURLOptions{
		AllowedPrefix:    "/certificates",
		ExcludedSubpaths: []string{"/edit", "/delete", "/new", "/toggle"},
		Fallback:         "/certificates",
	}

	// ProfileBackURL returns options for profile pages.
	ProfileBackURL = BackURLOptions{
		AllowedPrefix:    "/profile",
		ExcludedSubpaths: []string{"/edit", "/delete", "/new"},
		Fallback:         "/profile",
	}
)
