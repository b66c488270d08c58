// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"sync"
	"time"

	"github.com/dalemusser/nursinghub/internal/app/resources"
	"github.com/dalemusser/nursinghub/internal/app/system/listctl"
	"github.com/dalemusser/nursinghub/internal/app/system/ratelimit"
	"github.com/dalemusser/nursinghub/internal/app/system/timeouts"
	"github.com/dalemusser/nursinghub/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

const (
	sessionCleanupInterval  = 5 * time.Minute
	controllerSweepInterval = time.Minute
)

// background holds what Startup creates and Shutdown tears down. The hooks
// pass DBDeps by value, so long-lived state shared between hooks lives here.
type background struct {
	mu       sync.Mutex
	registry *listctl.Registry
	limiter  *ratelimit.LoginLimiter
	cleanup  *workers.SessionCleanup
	sweep    *workers.ControllerSweep
}

var bg background

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. It loads
// the shared templates, applies timeout overrides, and starts the session
// cleanup and controller sweep workers.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()

	if n := timeouts.ConfigureFromEnv(); n > 0 {
		cur := timeouts.Current()
		logger.Info("timeouts overridden from environment",
			zap.Duration("ping", cur.Ping),
			zap.Duration("short", cur.Short),
			zap.Duration("medium", cur.Medium),
			zap.Duration("long", cur.Long))
	}

	bg.mu.Lock()
	defer bg.mu.Unlock()

	bg.registry = listctl.NewRegistry()
	bg.limiter = ratelimit.NewLoginLimiter(appCfg.LoginRateLimit, appCfg.LoginRateWindow)

	if deps.Sessions != nil {
		bg.cleanup = workers.NewSessionCleanup(deps.Sessions, logger, sessionCleanupInterval, appCfg.SessionInactiveAfter)
		bg.cleanup.Start()
	}
	bg.sweep = workers.NewControllerSweep(bg.registry, logger, controllerSweepInterval, appCfg.ControllerIdleTTL)
	bg.sweep.Start()

	return nil
}

// stop halts the workers and the limiter. It is safe to call more than once.
func (b *background) stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cleanup != nil {
		b.cleanup.Stop()
		b.cleanup = nil
	}
	if b.sweep != nil {
		b.sweep.Stop()
		b.sweep = nil
	}
	if b.limiter != nil {
		b.limiter.Stop()
		b.limiter = nil
	}
}

// shared returns the registry and limiter, creating them if Startup did not
// run (as in tests that call BuildHandler directly).
func (b *background) shared(appCfg AppConfig) (*listctl.Registry, *ratelimit.LoginLimiter) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.registry == nil {
		b.registry = listctl.NewRegistry()
	}
	if b.limiter == nil {
		b.limiter = ratelimit.NewLoginLimiter(appCfg.LoginRateLimit, appCfg.LoginRateWindow)
	}
	return b.registry, b.limiter
}
