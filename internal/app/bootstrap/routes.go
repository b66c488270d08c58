// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	activityfeature "github.com/dalemusser/nursinghub/internal/app/features/activity"
	attendancefeature "github.com/dalemusser/nursinghub/internal/app/features/attendance"
	auditlogfeature "github.com/dalemusser/nursinghub/internal/app/features/auditlog"
	certificatesfeature "github.com/dalemusser/nursinghub/internal/app/features/certificates"
	dashboardfeature "github.com/dalemusser/nursinghub/internal/app/features/dashboard"
	errorsfeature "github.com/dalemusser/nursinghub/internal/app/features/errors"
	hallsfeature "github.com/dalemusser/nursinghub/internal/app/features/halls"
	healthfeature "github.com/dalemusser/nursinghub/internal/app/features/health"
	heartbeatfeature "github.com/dalemusser/nursinghub/internal/app/features/heartbeat"
	homefeature "github.com/dalemusser/nursinghub/internal/app/features/home"
	jambfeature "github.com/dalemusser/nursinghub/internal/app/features/jamb"
	loginfeature "github.com/dalemusser/nursinghub/internal/app/features/login"
	logoutfeature "github.com/dalemusser/nursinghub/internal/app/features/logout"
	paymentsfeature "github.com/dalemusser/nursinghub/internal/app/features/payments"
	profilefeature "github.com/dalemusser/nursinghub/internal/app/features/profile"
	registerfeature "github.com/dalemusser/nursinghub/internal/app/features/register"
	"github.com/dalemusser/nursinghub/internal/app/features/shared/views"
	"github.com/dalemusser/nursinghub/internal/app/store/sessions"
	"github.com/dalemusser/nursinghub/internal/app/system/apiclient"
	"github.com/dalemusser/nursinghub/internal/app/system/auditlog"
	"github.com/dalemusser/nursinghub/internal/app/system/auth"
	"github.com/dalemusser/nursinghub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	// activityTouchInterval throttles last-active writes per session.
	activityTouchInterval = time.Minute
	// activeSessionWindow is how recent activity must be to count as online.
	activeSessionWindow = 15 * time.Minute
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed. It boots the template engine, builds the
// session manager, API client and audit logger, applies CSRF and session
// middleware, and mounts the feature routers for every area of the
// admissions dashboard.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Page activity feeds the Mongo session records.
	tracker := sessions.NewTracker(deps.Sessions, activityTouchInterval, timeouts.Short(), logger)
	sessionMgr.SetActivityTracker(tracker)

	api, err := apiclient.New(apiclient.Options{
		BaseURL: appCfg.APIBaseURL,
		Timeout: appCfg.APITimeout,
		Logger:  logger,
	})
	if err != nil {
		logger.Error("api client init failed", zap.Error(err))
		return nil, err
	}

	csrfKey, err := auth.DeriveKey(appCfg.SessionKey, "csrf", 32)
	if err != nil {
		return nil, err
	}

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	registry, limiter := bg.shared(appCfg)
	errLog := errorsfeature.NewErrorLogger(logger)

	vd := views.Deps{
		API:      api,
		Sessions: sessionMgr,
		Registry: registry,
		Audit: auditlog.New(deps.Audit, logger, auditlog.Config{
			Auth:  appCfg.AuditLogAuth,
			Admin: appCfg.AuditLogAdmin,
		}),
		Activity: tracker,
		History:  deps.Audit,
		ErrLog:   errLog,
		Log:      logger,
		PageSize: appCfg.PageSize,
	}

	r := chi.NewRouter()

	// Health and metrics sit outside CSRF and session handling.
	healthHandler := healthfeature.NewHandler(deps.MongoClient, api, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	r.Handle("/metrics", promhttp.Handler())

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	errorsHandler := errorsfeature.NewHandler()

	// Every page runs behind CSRF protection and loads the session user
	// into context when one is signed in.
	pages := chi.Chain(
		plaintextCSRF(secure),
		csrf.Protect(csrfKey,
			csrf.Secure(secure),
			csrf.Path("/"),
			csrf.ErrorHandler(http.HandlerFunc(errorsHandler.Forbidden)),
		),
		sessionMgr.LoadSessionUser,
	)

	r.Group(func(r chi.Router) {
		r.Use(pages...)

		// Error pages
		r.Get("/forbidden", errorsHandler.Forbidden)
		r.Get("/unauthorized", errorsHandler.Unauthorized)

		// Authentication
		loginHandler := loginfeature.NewHandler(vd, limiter, tracker)
		r.Mount("/login", loginfeature.Routes(loginHandler))

		registerHandler := registerfeature.NewHandler(vd)
		r.Mount("/register", registerfeature.Routes(registerHandler))

		logoutHandler := logoutfeature.NewHandler(vd)
		r.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

		// Role-aware landing page
		dashboardHandler := dashboardfeature.NewHandler(vd, deps.Sessions, deps.Audit, activeSessionWindow)
		r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler, sessionMgr))

		// Admissions records
		r.Mount("/halls", hallsfeature.Routes(hallsfeature.NewHandler(vd), sessionMgr))
		r.Mount("/attendance", attendancefeature.Routes(attendancefeature.NewHandler(vd), sessionMgr))
		r.Mount("/certificates", certificatesfeature.Routes(certificatesfeature.NewHandler(vd), sessionMgr))
		r.Mount("/payments", paymentsfeature.Routes(paymentsfeature.NewHandler(vd), sessionMgr))
		r.Mount("/profile", profilefeature.Routes(profilefeature.NewHandler(vd), sessionMgr))
		r.Mount("/jamb", jambfeature.Routes(jambfeature.NewHandler(vd), sessionMgr))

		// Admin audit trail
		auditHandler := auditlogfeature.NewHandler(deps.Audit, errLog, logger, appCfg.PageSize)
		r.Mount("/audit", auditlogfeature.Routes(auditHandler, sessionMgr))

		activityHandler := activityfeature.NewHandler(deps.Sessions, deps.Audit, errLog, logger)
		r.Mount("/activity", activityfeature.Routes(activityHandler, sessionMgr))

		heartbeatHandler := heartbeatfeature.NewHandler(deps.Sessions, logger)
		r.Mount("/heartbeat", heartbeatfeature.Routes(heartbeatHandler, sessionMgr))

		homeHandler := homefeature.NewHandler(logger)
		r.Mount("/", homefeature.Routes(homeHandler))
	})

	// Set last so the mounted feature routers inherit it.
	r.NotFound(pages.HandlerFunc(errorsHandler.NotFound).ServeHTTP)

	return r, nil
}

// plaintextCSRF marks non-TLS requests as plain HTTP so gorilla/csrf skips
// its HTTPS-only Referer check. It is a no-op when secure is set.
func plaintextCSRF(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if secure {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.TLS == nil {
				r = csrf.PlaintextHTTPRequest(r)
			}
			next.ServeHTTP(w, r)
		})
	}
}
