package auth

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the signed-in Session & “found?” flag.
func CurrentUser(r *http.Request) (*Session, bool) {
	u, ok := r.Context().Value(currentUserKey).(*Session)
	return u, ok && u != nil
}

// WithTestUser injects u into the request context the way LoadSessionUser does.
func WithTestUser(r *http.Request, u *Session) *http.Request {
	return withUser(r, u)
}

// LoadSessionUser injects the user into context if they are signed in and
// records activity for the session when a tracker is configured.
func (sm *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u := sm.User(r); u != nil {
			r = withUser(r, u)
			if sm.tracker != nil && r.Method == http.MethodGet && r.Header.Get("HX-Request") == "" {
				sm.tracker.Touch(r.Context(), u.ID, r.URL.Path)
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSignedIn ensures there is a user in context (set by LoadSessionUser).
// If not signed in:
//   - HTMX: sends HX-Redirect to /login?return=...
//   - HTML: 303 redirect to /login?return=...
//   - API:  401 Unauthorized with a plain error body.
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); ok {
			next.ServeHTTP(w, r)
			return
		}
		redirectToLogin(w, r)
	})
}

// RequireRole ensures the signed-in user holds one of allowed (case-insensitive).
// Wrong role goes to /forbidden for HTML and HTMX, 403 for API callers.
func (sm *SessionManager) RequireRole(allowed ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)
			if !ok {
				redirectToLogin(w, r)
				return
			}

			if !u.HasRole(allowed...) {
				if r.Header.Get("HX-Request") == "true" {
					w.Header().Set("HX-Redirect", "/forbidden")
					w.WriteHeader(http.StatusForbidden)
					return
				}
				if wantsHTML(r) {
					http.Redirect(w, r, "/forbidden", http.StatusSeeOther)
					return
				}
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ExpireAndRedirect clears the session and sends the browser to the login
// page. Handlers call it when the API rejects the stored token.
func (sm *SessionManager) ExpireAndRedirect(w http.ResponseWriter, r *http.Request) {
	_ = sm.SignOut(w, r)
	redirectToLogin(w, r)
}

// helpers

func withUser(r *http.Request, u *Session) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	ret := url.QueryEscape(currentURI(r))

	// HTMX: full-page client redirect (no partial swap)
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/login?return="+ret)
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	if wantsHTML(r) {
		http.Redirect(w, r, "/login?return="+ret, http.StatusSeeOther)
		return
	}

	http.Error(w, "unauthorized", http.StatusUnauthorized)
}

func wantsHTML(r *http.Request) bool {
	// Very light heuristic: treat it as HTML if it's HTMX or Accepts text/html.
	if r.Header.Get("HX-Request") == "true" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

func currentURI(r *http.Request) string {
	// Non-GET requests return to the page, not the form action.
	if r.Method != http.MethodGet {
		if ref := r.Header.Get("Referer"); ref != "" {
			if u, err := url.Parse(ref); err == nil && u.Path != "" {
				return u.RequestURI()
			}
		}
	}
	u := *r.URL
	return u.RequestURI()
}
