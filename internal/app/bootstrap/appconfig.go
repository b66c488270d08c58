// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers the
// framework-level settings (ports, TLS, logging, CORS); everything specific
// to nursinghub lives here and is passed to every lifecycle hook.
type AppConfig struct {
	// Admissions API
	APIBaseURL string        // Root of the remote REST API (e.g., https://api.example.edu/api/v1)
	APITimeout time.Duration // Budget for a single API round trip

	// MongoDB (activity sessions and audit events)
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64

	// Session cookie
	SessionKey    string        // Secret for signing and encrypting the cookie (≥32 chars in prod)
	SessionName   string        // Cookie name (default: nursinghub-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Upper bound when the API gives no token expiry

	// Lists
	PageSize          int           // Rows per page requested from the API
	ControllerIdleTTL time.Duration // Idle list controllers are dropped after this

	// Login throttling
	LoginRateLimit  int
	LoginRateWindow time.Duration

	// Activity sessions
	SessionInactiveAfter time.Duration // Open sessions idle longer than this are closed

	// Audit logging destinations: all, db, log or off
	AuditLogAuth  string
	AuditLogAdmin string
}
