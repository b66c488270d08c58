package workers

import (
	"time"

	"go.uber.org/zap"
)

// Sweeper forgets idle entries. *listctl.Registry implements it.
type Sweeper interface {
	Sweep(idle time.Duration) int
	Len() int
}

// ControllerSweep drops list controllers that no request has used for a
// while, so abandoned browser sessions do not pin their collections in memory.
type ControllerSweep struct {
	registry Sweeper
	log      *zap.Logger
	interval time.Duration
	idle     time.Duration
	loop     loop
}

// NewControllerSweep creates the sweeper.
func NewControllerSweep(reg Sweeper, logger *zap.Logger, interval, idle time.Duration) *ControllerSweep {
	return &ControllerSweep{registry: reg, log: logger, interval: interval, idle: idle}
}

// Start begins the sweep loop.
func (w *ControllerSweep) Start() {
	w.loop.start(w.interval, w.sweep)
	w.log.Info("controller sweep worker started",
		zap.Duration("interval", w.interval),
		zap.Duration("idle", w.idle))
}

// Stop ends the loop and waits for it.
func (w *ControllerSweep) Stop() {
	w.loop.stop()
	w.log.Info("controller sweep worker stopped")
}

func (w *ControllerSweep) sweep() {
	if n := w.registry.Sweep(w.idle); n > 0 {
		w.log.Debug("dropped idle list controllers",
			zap.Int("dropped", n),
			zap.Int("remaining", w.registry.Len()))
	}
}
